package java

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mavenfetch/pkg/errors"
	"github.com/matzehuels/mavenfetch/pkg/integrations/maven"
)

// Fetcher retrieves POM documents. [*maven.Fetcher] implements it.
type Fetcher interface {
	Fetch(ctx context.Context, c maven.Coordinate) (maven.Document, bool)
}

// Options configures [NewModel].
type Options struct {
	Policy MergePolicy // property precedence along the parent chain (default: WalkOrder)
	Logger *log.Logger // nil discards output
}

// Conflict records two declarations of the same groupId:artifactId with
// different versions. The first one seen is kept.
type Conflict struct {
	Owner    maven.Coordinate `json:"owner"`
	Kept     maven.Coordinate `json:"kept"`
	Rejected maven.Coordinate `json:"rejected"`
}

// Model is the effective metadata of one coordinate: its parent chain,
// merged properties, and the resolved runtime dependencies.
type Model struct {
	root      maven.Coordinate
	chain     []maven.Coordinate
	sources   map[maven.Coordinate]string
	props     *Properties
	packaging string
	deps      []maven.Coordinate
	conflicts []Conflict
	logger    *log.Logger
}

type managed struct {
	group    string
	artifact string
	version  string
	ok       bool
}

// NewModel fetches root and its ancestors and resolves root's dependencies.
//
// Documents are fetched child first. Properties from each document are
// merged into one table under opts.Policy, dependency management entries
// and dependency declarations are collected from all documents in fetch
// order. A missing or unparseable ancestor ends the walk; a missing root
// fails with METADATA_UNAVAILABLE.
func NewModel(ctx context.Context, root maven.Coordinate, fetcher Fetcher, opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Model{
		root:    root,
		sources: make(map[maven.Coordinate]string),
		props:   NewProperties(opts.Policy),
		logger:  logger.With("root", root.String()),
	}
	m.props.Set("project.groupId", root.Group)
	m.props.Set("project.artifactId", root.Artifact)
	m.props.Set("project.version", root.Version)

	docs, err := m.walk(ctx, fetcher)
	if err != nil {
		return nil, err
	}

	if pkg, err := m.props.Interpolate(docs[0].Packaging); err == nil {
		m.packaging = pkg
	}
	m.resolve(docs, m.collectManagement(docs))
	return m, nil
}

func (m *Model) walk(ctx context.Context, fetcher Fetcher) ([]*Project, error) {
	var docs []*Project
	seen := make(map[maven.Coordinate]bool)

	c := m.root
	for {
		if seen[c] {
			m.logger.Error("parent chain loops", "code", errors.ErrCodeCyclicDefinition, "coord", c.String())
			break
		}
		seen[c] = true

		doc, found := fetcher.Fetch(ctx, c)
		if !found {
			if c == m.root {
				return nil, errors.New(errors.ErrCodeMetadataUnavailable, "no POM found for %s", c)
			}
			m.logger.Warn("parent POM unavailable", "code", errors.ErrCodeMetadataUnavailable, "coord", c.String())
			break
		}
		pom, err := ParsePOM(doc.Body)
		if err != nil {
			if c == m.root {
				return nil, errors.Wrap(errors.ErrCodeMetadataUnavailable, err, "invalid POM for %s", c)
			}
			m.logger.Warn("parent POM unreadable", "coord", c.String(), "err", err)
			break
		}

		m.sources[c] = doc.Source
		m.chain = append(m.chain, c)
		docs = append(docs, pom)
		m.props.Merge(pom.PropertyList())

		parent, ok := m.parentOf(pom)
		if !ok {
			break
		}
		c = parent
	}
	return docs, nil
}

func (m *Model) parentOf(pom *Project) (maven.Coordinate, bool) {
	if !pom.Parent.Complete() {
		return maven.Coordinate{}, false
	}
	p := pom.Parent
	c, err := maven.NewCoordinate(trim(p.GroupID), trim(p.ArtifactID), trim(p.Version))
	if err != nil {
		m.logger.Warn("invalid parent reference", "err", errors.UserMessage(err))
		return maven.Coordinate{}, false
	}
	return c, true
}

func (m *Model) collectManagement(docs []*Project) []managed {
	var entries []managed
	for _, pom := range docs {
		for _, d := range pom.Management {
			if !d.hasIdentity() {
				continue
			}
			g, gerr := m.props.Interpolate(d.GroupID)
			a, aerr := m.props.Interpolate(d.ArtifactID)
			if gerr != nil || aerr != nil {
				m.logger.Warn("skipping managed dependency", "code", errors.ErrCodeCyclicDefinition,
					"group", d.GroupID, "artifact", d.ArtifactID)
				continue
			}
			e := managed{group: g, artifact: a}
			if d.Version != nil {
				v, err := m.props.Interpolate(*d.Version)
				if err != nil {
					m.logger.Warn("skipping managed version", "code", errors.ErrCodeCyclicDefinition,
						"group", g, "artifact", a)
					continue
				}
				e.version, e.ok = v, true
			}
			entries = append(entries, e)
		}
	}
	return entries
}

func managedVersion(entries []managed, group, artifact string) (string, bool) {
	for _, e := range entries {
		if e.ok && e.group == group && e.artifact == artifact {
			return e.version, true
		}
	}
	return "", false
}

func (m *Model) resolve(docs []*Project, management []managed) {
	index := make(map[string]int)
	for _, pom := range docs {
		for _, d := range pom.Dependencies {
			c, ok := m.resolveOne(d, management)
			if !ok {
				continue
			}
			if i, dup := index[c.Key()]; dup {
				if kept := m.deps[i]; kept.Version != c.Version {
					m.logger.Warn("conflicting versions", "code", errors.ErrCodeVersionConflict,
						"dependency", c.Key(), "kept", kept.Version, "rejected", c.Version)
					m.conflicts = append(m.conflicts, Conflict{Owner: m.root, Kept: kept, Rejected: c})
				}
				continue
			}
			index[c.Key()] = len(m.deps)
			m.deps = append(m.deps, c)
		}
	}
}

func (m *Model) resolveOne(d Dependency, management []managed) (maven.Coordinate, bool) {
	if d.IsOptional() || d.excludedScope() || !d.hasIdentity() {
		return maven.Coordinate{}, false
	}

	group, err := m.props.Interpolate(d.GroupID)
	if err != nil {
		m.logger.Warn("skipping dependency", "err", err)
		return maven.Coordinate{}, false
	}
	artifact, err := m.props.Interpolate(d.ArtifactID)
	if err != nil {
		m.logger.Warn("skipping dependency", "err", err)
		return maven.Coordinate{}, false
	}

	var version string
	if d.Version == nil {
		v, ok := managedVersion(management, group, artifact)
		if !ok {
			m.logger.Debug("no managed version", "group", group, "artifact", artifact)
			return maven.Coordinate{}, false
		}
		version = v
	} else if version, err = m.props.Interpolate(*d.Version); err != nil {
		m.logger.Warn("skipping dependency", "err", err)
		return maven.Coordinate{}, false
	}
	if version == "" {
		m.logger.Debug("empty version", "group", group, "artifact", artifact)
		return maven.Coordinate{}, false
	}

	if unresolved(group) || unresolved(artifact) || unresolved(version) {
		m.logger.Warn("unresolved placeholder", "group", group, "artifact", artifact, "version", version)
		return maven.Coordinate{}, false
	}
	c, err := maven.NewCoordinate(group, artifact, version)
	if err != nil {
		m.logger.Warn("invalid dependency", "err", errors.UserMessage(err))
		return maven.Coordinate{}, false
	}
	if c == m.root {
		return maven.Coordinate{}, false
	}
	return c, true
}

// Root returns the coordinate the model was built for.
func (m *Model) Root() maven.Coordinate { return m.root }

// Dependencies returns the resolved dependencies in declaration order.
func (m *Model) Dependencies() []maven.Coordinate {
	return append([]maven.Coordinate(nil), m.deps...)
}

// Source returns the repository that served the POM of c, for any
// coordinate in the parent chain.
func (m *Model) Source(c maven.Coordinate) (string, bool) {
	s, ok := m.sources[c]
	return s, ok
}

// Conflicts returns the version conflicts found among the dependencies.
func (m *Model) Conflicts() []Conflict {
	return append([]Conflict(nil), m.conflicts...)
}

// Chain returns the fetched documents, root first.
func (m *Model) Chain() []maven.Coordinate {
	return append([]maven.Coordinate(nil), m.chain...)
}

// Packaging returns the root's <packaging> value, or "" when absent.
func (m *Model) Packaging() string { return m.packaging }

// Properties returns the merged property table.
func (m *Model) Properties() *Properties { return m.props }
