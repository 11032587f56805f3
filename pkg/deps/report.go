package deps

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mavenfetch/pkg/deps/java"
	"github.com/matzehuels/mavenfetch/pkg/integrations/maven"
)

// Report summarizes one run.
type Report struct {
	RunID        string             `json:"run_id"`
	Started      time.Time          `json:"started"`
	Finished     time.Time          `json:"finished"`
	Roots        []string           `json:"roots"`
	Repositories []string           `json:"repositories,omitempty"`
	Resolved     []maven.Coordinate `json:"resolved"`
	Downloaded   []Download         `json:"downloaded"`
	Skipped      []Skip             `json:"skipped"`
	Conflicts    []java.Conflict    `json:"conflicts"`

	skipped map[maven.Coordinate]bool
}

// Download is a package written to disk.
type Download struct {
	Coordinate maven.Coordinate `json:"coordinate"`
	Source     string           `json:"source"`
	Path       string           `json:"path"`
	Size       int64            `json:"size"`
}

// Skip is a coordinate whose package was not downloaded.
type Skip struct {
	Coordinate maven.Coordinate `json:"coordinate"`
	Reason     string           `json:"reason"`
}

func newReport(repos []string) *Report {
	return &Report{
		RunID:        uuid.NewString(),
		Started:      time.Now(),
		Repositories: repos,
		Resolved:     []maven.Coordinate{},
		Downloaded:   []Download{},
		Skipped:      []Skip{},
		Conflicts:    []java.Conflict{},
		skipped:      make(map[maven.Coordinate]bool),
	}
}

func (r *Report) skip(c maven.Coordinate, reason string) {
	if r.skipped[c] {
		return
	}
	r.skipped[c] = true
	r.Skipped = append(r.Skipped, Skip{Coordinate: c, Reason: reason})
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.Finished.IsZero() {
		return time.Since(r.Started)
	}
	return r.Finished.Sub(r.Started)
}

// TotalBytes returns the size of all downloaded packages.
func (r *Report) TotalBytes() int64 {
	var n int64
	for _, d := range r.Downloaded {
		n += d.Size
	}
	return n
}

// WriteJSON encodes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// ExportJSON writes the report to a JSON file at path.
func (r *Report) ExportJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return r.WriteJSON(f)
}
