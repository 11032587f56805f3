package deps

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mavenfetch/pkg/deps/java"
	"github.com/matzehuels/mavenfetch/pkg/errors"
	"github.com/matzehuels/mavenfetch/pkg/graph"
	"github.com/matzehuels/mavenfetch/pkg/integrations/maven"
	"github.com/matzehuels/mavenfetch/pkg/observability"
)

// Skip reasons recorded in the [Report].
const (
	ReasonNoSource      = "no source"
	ReasonPOMPackaging  = "pom packaging"
	ReasonUnavailable   = "metadata unavailable"
	ReasonDownloadError = "download failed"
)

// Visited is the ordered set of coordinates whose metadata has been
// processed. It only grows.
type Visited struct {
	order []maven.Coordinate
	index map[maven.Coordinate]bool
}

func newVisited() *Visited {
	return &Visited{index: make(map[maven.Coordinate]bool)}
}

// Contains reports whether c has been visited.
func (v *Visited) Contains(c maven.Coordinate) bool { return v.index[c] }

// Len returns the number of visited coordinates.
func (v *Visited) Len() int { return len(v.order) }

// List returns the visited coordinates in visit order.
func (v *Visited) List() []maven.Coordinate {
	return append([]maven.Coordinate(nil), v.order...)
}

func (v *Visited) add(c maven.Coordinate) {
	if v.index[c] {
		return
	}
	v.index[c] = true
	v.order = append(v.order, c)
}

// Driver walks the transitive dependency graph depth first and downloads
// the package of every coordinate it resolves.
//
// A Driver holds the state of one run; several roots passed to the same
// Driver share its visited set. Driver is not safe for concurrent use.
type Driver struct {
	opts    Options
	logger  *log.Logger
	visited *Visited
	report  *Report
	graph   *graph.Graph
}

// NewDriver creates a Driver.
func NewDriver(opts Options) *Driver {
	opts = opts.WithDefaults()
	r := newReport(opts.Repositories)
	return &Driver{
		opts:    opts,
		logger:  opts.Logger,
		visited: newVisited(),
		report:  r,
		graph:   graph.New(graph.Metadata{"run_id": r.RunID}),
	}
}

// Run downloads every root and its transitive dependencies and returns the
// finished report. Cancelling ctx stops the walk at the next coordinate.
func (d *Driver) Run(ctx context.Context, roots []maven.Coordinate) *Report {
	for _, root := range roots {
		if ctx.Err() != nil {
			break
		}
		d.report.Roots = append(d.report.Roots, root.String())
		d.addNode(root)
		d.Download(ctx, root)
	}
	d.report.Finished = time.Now()
	return d.report
}

// Download resolves c, saves its package and recurses into its
// dependencies. Failures are logged and recorded in the report; they never
// stop the traversal of siblings.
//
// Only coordinate-identical dependencies are deduplicated. Distinct versions
// of one groupId:artifactId reached through different paths are each
// downloaded.
func (d *Driver) Download(ctx context.Context, c maven.Coordinate) {
	if d.visited.Contains(c) || d.report.skipped[c] || ctx.Err() != nil {
		return
	}

	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, c.String())
	start := time.Now()

	model, err := java.NewModel(ctx, c, d.opts.Fetcher, java.Options{Policy: d.opts.Policy, Logger: d.logger})
	if err != nil {
		hooks.OnResolveComplete(ctx, c.String(), 0, time.Since(start), err)
		if ctx.Err() != nil {
			return
		}
		d.logger.Warn("skipping", "coord", c.String(), "code", errors.GetCode(err), "err", err)
		d.markSkipped(c, ReasonUnavailable)
		return
	}
	resolved := model.Dependencies()
	hooks.OnResolveComplete(ctx, c.String(), len(resolved), time.Since(start), nil)

	d.save(ctx, c, model)

	d.visited.add(c)
	d.report.Resolved = append(d.report.Resolved, c)
	d.report.Conflicts = append(d.report.Conflicts, model.Conflicts()...)
	d.logger.Debug("resolved", "coord", c.String(), "deps", len(resolved))

	for _, dep := range resolved {
		d.addNode(dep)
		_ = d.graph.AddEdge(graph.Edge{From: c.String(), To: dep.String()})
	}
	for _, dep := range resolved {
		d.Download(ctx, dep)
	}
}

func (d *Driver) save(ctx context.Context, c maven.Coordinate, model *java.Model) {
	node := d.addNode(c)
	base, ok := model.Source(c)
	if !ok {
		d.markSkipped(c, ReasonNoSource)
		return
	}
	node.Meta["source"] = base

	ext, ok := java.PackageExtension(model.Packaging())
	if !ok {
		d.logger.Debug("no package binary", "coord", c.String(), "packaging", model.Packaging())
		d.markSkipped(c, ReasonPOMPackaging)
		return
	}
	node.Meta["packaging"] = ext

	if d.opts.Store == nil {
		node.Meta["status"] = "resolved"
		return
	}

	path, size, err := d.opts.Store.Save(ctx, base, c, ext)
	observability.Resolve().OnDownload(ctx, c.String(), path, size, err)
	if err != nil {
		d.logger.Warn("download failed", "code", errors.ErrCodePersistence, "coord", c.String(), "err", err)
		d.markSkipped(c, ReasonDownloadError)
		return
	}
	d.logger.Info("downloaded", "coord", c.String(), "path", path, "bytes", size)
	node.Meta["status"] = "downloaded"
	d.report.Downloaded = append(d.report.Downloaded, Download{Coordinate: c, Source: base, Path: path, Size: size})
}

func (d *Driver) addNode(c maven.Coordinate) *graph.Node {
	id := c.String()
	if n, ok := d.graph.Node(id); ok {
		return n
	}
	_ = d.graph.AddNode(graph.Node{ID: id})
	n, _ := d.graph.Node(id)
	return n
}

func (d *Driver) markSkipped(c maven.Coordinate, reason string) {
	d.addNode(c).Meta["status"] = "skipped"
	d.report.skip(c, reason)
}

// Visited returns the visited set.
func (d *Driver) Visited() *Visited { return d.visited }

// Graph returns the resolution graph built so far.
func (d *Driver) Graph() *graph.Graph { return d.graph }

// Report returns the run report built so far.
func (d *Driver) Report() *Report { return d.report }
