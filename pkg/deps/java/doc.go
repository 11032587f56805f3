// Package java resolves the effective metadata of Maven packages.
//
// # Overview
//
// [NewModel] fetches a coordinate's POM and every ancestor named by a
// <parent> element, merges their properties into one [Properties] table,
// and resolves the runtime dependencies declared anywhere along the chain:
//
//	m, err := java.NewModel(ctx, coord, fetcher, java.Options{Logger: logger})
//	for _, dep := range m.Dependencies() {
//	    // ...
//	}
//
// # Filtering
//
// Declarations marked optional, or with scope compile or test, are dropped.
// A declaration without a version takes the first matching versioned entry
// from <dependencyManagement>; without one it is dropped.
//
// # Properties
//
// Only values of the exact form "${name}" are substituted. Which document
// wins when several define the same name is set by [MergePolicy].
package java
