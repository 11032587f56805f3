package deps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/mavenfetch/pkg/integrations"
	"github.com/matzehuels/mavenfetch/pkg/integrations/maven"
	"github.com/matzehuels/mavenfetch/pkg/observability"
)

// repo is an in-memory Maven repository served over HTTP.
type repo struct {
	mu    sync.Mutex
	files map[string]string
	hits  map[string]int
}

func newRepo(t *testing.T) (*repo, *httptest.Server) {
	t.Helper()
	r := &repo{files: make(map[string]string), hits: make(map[string]int)}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		body, ok := r.files[req.URL.Path]
		r.hits[req.URL.Path]++
		r.mu.Unlock()
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return r, server
}

// publish adds a POM and, unless packaging is "pom", a binary for coord.
func (r *repo) publish(t *testing.T, coord, pom string) {
	t.Helper()
	c, err := maven.ParseCoordinate(coord)
	if err != nil {
		t.Fatal(err)
	}
	r.files["/"+c.POMPath()] = pom
	r.files["/"+c.ArtifactPath("jar")] = "binary of " + coord
}

func (r *repo) hitCount(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits[path]
}

func project(inner ...string) string {
	return `<project xmlns="http://maven.apache.org/POM/4.0.0">` + strings.Join(inner, "") + `</project>`
}

func dependency(g, a, v string) string {
	if v == "" {
		return fmt.Sprintf("<dependency><groupId>%s</groupId><artifactId>%s</artifactId></dependency>", g, a)
	}
	return fmt.Sprintf("<dependency><groupId>%s</groupId><artifactId>%s</artifactId><version>%s</version></dependency>", g, a, v)
}

func dependencies(ds ...string) string {
	return "<dependencies>" + strings.Join(ds, "") + "</dependencies>"
}

func mustParse(t *testing.T, s string) maven.Coordinate {
	t.Helper()
	c, err := maven.ParseCoordinate(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

type env struct {
	client *integrations.Client
	out    string
}

func newEnv(t *testing.T) env {
	return env{client: integrations.NewClient(integrations.ClientOptions{}), out: t.TempDir()}
}

func (e env) driver(repos ...string) *Driver {
	return NewDriver(Options{
		Fetcher:      maven.NewFetcher(e.client, repos, nil),
		Store:        maven.NewPersister(e.client, e.out),
		Repositories: repos,
	})
}

func (e env) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.out)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

func assertFiles(t *testing.T, e env, want ...string) {
	t.Helper()
	sort.Strings(want)
	if got := e.files(t); !slices.Equal(got, want) {
		t.Errorf("output files = %v, want %v", got, want)
	}
}

func TestDriverPropertyVersion(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1.0", project(`<properties><ver>2.0</ver></properties>`, dependencies(dependency("g", "b", "${ver}"))))
	r.publish(t, "g:b:2.0", project())

	e := newEnv(t)
	d := e.driver(server.URL)
	report := d.Run(context.Background(), []maven.Coordinate{mustParse(t, "g:a:1.0")})

	assertFiles(t, e, "a-1.0.jar", "b-2.0.jar")
	if len(report.Downloaded) != 2 || len(report.Skipped) != 0 {
		t.Errorf("report = %d downloaded, %d skipped", len(report.Downloaded), len(report.Skipped))
	}
	data, err := os.ReadFile(filepath.Join(e.out, "b-2.0.jar"))
	if err != nil || string(data) != "binary of g:b:2.0" {
		t.Errorf("b-2.0.jar = %q, %v", data, err)
	}
}

func TestDriverParentManagedVersion(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1.0", project(
		`<parent><groupId>g</groupId><artifactId>parent</artifactId><version>1.0</version></parent>`,
		dependencies(dependency("g", "c", "")),
	))
	r.publish(t, "g:parent:1.0", project(
		`<packaging>pom</packaging>`,
		`<dependencyManagement>`, dependencies(dependency("g", "c", "3.0")), `</dependencyManagement>`,
	))
	r.publish(t, "g:c:3.0", project())

	e := newEnv(t)
	d := e.driver(server.URL)
	d.Run(context.Background(), []maven.Coordinate{mustParse(t, "g:a:1.0")})

	assertFiles(t, e, "a-1.0.jar", "c-3.0.jar")
	if got := d.Visited().List(); len(got) != 2 || got[1].String() != "g:c:3.0" {
		t.Errorf("Visited() = %v", got)
	}
}

func TestDriverDistinctVersionsAcrossPaths(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1.0", project(dependencies(dependency("g", "b", "1"), dependency("g", "c", "1"))))
	r.publish(t, "g:b:1", project(dependencies(dependency("g", "d", "1.0"))))
	r.publish(t, "g:c:1", project(dependencies(dependency("g", "d", "2.0"))))
	r.publish(t, "g:d:1.0", project())
	r.publish(t, "g:d:2.0", project(dependencies(dependency("g", "e", "1"))))
	r.publish(t, "g:e:1", project())

	e := newEnv(t)
	d := e.driver(server.URL)
	report := d.Run(context.Background(), []maven.Coordinate{mustParse(t, "g:a:1.0")})

	assertFiles(t, e, "a-1.0.jar", "b-1.jar", "c-1.jar", "d-1.0.jar", "d-2.0.jar", "e-1.jar")
	if len(report.Conflicts) != 0 {
		t.Errorf("Conflicts = %v, want none", report.Conflicts)
	}
	if n := r.hitCount("/g/d/2.0/d-2.0.pom"); n != 1 {
		t.Errorf("d-2.0 POM fetched %d times, want 1", n)
	}
}

func TestDriverConflictInParentChain(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1.0", project(
		`<parent><groupId>g</groupId><artifactId>parent</artifactId><version>1</version></parent>`,
		dependencies(dependency("g", "d", "1.0")),
	))
	r.publish(t, "g:parent:1", project(`<packaging>pom</packaging>`, dependencies(dependency("g", "d", "2.0"))))
	r.publish(t, "g:d:1.0", project())
	r.publish(t, "g:d:2.0", project())

	e := newEnv(t)
	report := e.driver(server.URL).Run(context.Background(), []maven.Coordinate{mustParse(t, "g:a:1.0")})

	assertFiles(t, e, "a-1.0.jar", "d-1.0.jar")
	if len(report.Conflicts) != 1 {
		t.Fatalf("Conflicts = %v, want 1", report.Conflicts)
	}
	c := report.Conflicts[0]
	if c.Owner.String() != "g:a:1.0" || c.Kept.String() != "g:d:1.0" || c.Rejected.String() != "g:d:2.0" {
		t.Errorf("conflict = %+v", c)
	}
	if n := r.hitCount("/g/d/2.0/d-2.0.pom"); n != 0 {
		t.Errorf("rejected version POM fetched %d times", n)
	}
}

func TestDriverDeclaredConflict(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1.0", project(dependencies(dependency("g", "d", "1.0"), dependency("g", "d", "2.0"))))
	r.publish(t, "g:d:1.0", project())
	r.publish(t, "g:d:2.0", project())

	e := newEnv(t)
	report := e.driver(server.URL).Run(context.Background(), []maven.Coordinate{mustParse(t, "g:a:1.0")})

	assertFiles(t, e, "a-1.0.jar", "d-1.0.jar")
	if len(report.Conflicts) != 1 {
		t.Errorf("Conflicts = %v, want 1", report.Conflicts)
	}
}

func TestDriverVisitedShortCircuit(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1.0", project(dependencies(dependency("g", "b", "1"), dependency("g", "c", "1"))))
	r.publish(t, "g:b:1", project(dependencies(dependency("g", "shared", "1"))))
	r.publish(t, "g:c:1", project(dependencies(dependency("g", "shared", "1"), dependency("g", "a", "1.0"))))
	r.publish(t, "g:shared:1", project())

	e := newEnv(t)
	d := e.driver(server.URL)
	root := mustParse(t, "g:a:1.0")
	d.Run(context.Background(), []maven.Coordinate{root})

	if n := r.hitCount("/g/shared/1/shared-1.jar"); n != 1 {
		t.Errorf("shared jar downloaded %d times, want 1", n)
	}
	if n := r.hitCount("/g/a/1.0/a-1.0.pom"); n != 1 {
		t.Errorf("root POM fetched %d times, want 1", n)
	}
	if d.Visited().Len() != 4 {
		t.Errorf("Visited().Len() = %d, want 4", d.Visited().Len())
	}

	before := d.Visited().Len()
	d.Download(context.Background(), root)
	if d.Visited().Len() != before || r.hitCount("/g/a/1.0/a-1.0.jar") != 1 {
		t.Error("Download of a visited coordinate did work")
	}
}

func TestDriverSourceSelection(t *testing.T) {
	mirror, mirrorServer := newRepo(t)
	central, centralServer := newRepo(t)
	mirror.publish(t, "g:a:1.0", project(dependencies(dependency("g", "b", "1"))))
	central.publish(t, "g:b:1", project())

	e := newEnv(t)
	d := e.driver(mirrorServer.URL, centralServer.URL)
	report := d.Run(context.Background(), []maven.Coordinate{mustParse(t, "g:a:1.0")})

	assertFiles(t, e, "a-1.0.jar", "b-1.jar")
	sources := map[string]string{}
	for _, dl := range report.Downloaded {
		sources[dl.Coordinate.String()] = dl.Source
	}
	if sources["g:a:1.0"] != mirrorServer.URL || sources["g:b:1"] != centralServer.URL {
		t.Errorf("sources = %v", sources)
	}
	if n := mirror.hitCount("/g/b/1/b-1.pom"); n != 1 {
		t.Errorf("mirror POM lookups for g:b:1 = %d, want 1", n)
	}
	if n := central.hitCount("/g/b/1/b-1.jar"); n != 1 {
		t.Errorf("package fetched from central %d times, want 1", n)
	}
}

func TestDriverSkips(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1.0", project(dependencies(
		dependency("g", "missing", "1"),
		dependency("g", "bom", "1"),
		dependency("g", "nojar", "1"),
		dependency("g", "ok", "1"),
	)))
	r.publish(t, "g:bom:1", project(`<packaging>pom</packaging>`))
	r.publish(t, "g:nojar:1", project())
	delete(r.files, "/g/nojar/1/nojar-1.jar")
	r.publish(t, "g:ok:1", project())

	e := newEnv(t)
	d := e.driver(server.URL)
	report := d.Run(context.Background(), []maven.Coordinate{mustParse(t, "g:a:1.0")})

	assertFiles(t, e, "a-1.0.jar", "ok-1.jar")
	reasons := map[string]string{}
	for _, s := range report.Skipped {
		reasons[s.Coordinate.String()] = s.Reason
	}
	want := map[string]string{
		"g:missing:1": ReasonUnavailable,
		"g:bom:1":     ReasonPOMPackaging,
		"g:nojar:1":   ReasonDownloadError,
	}
	for coord, reason := range want {
		if reasons[coord] != reason {
			t.Errorf("skip reason for %s = %q, want %q", coord, reasons[coord], reason)
		}
	}
	if d.Visited().Contains(mustParse(t, "g:missing:1")) {
		t.Error("unfetchable coordinate marked visited")
	}
	if !d.Visited().Contains(mustParse(t, "g:nojar:1")) {
		t.Error("coordinate with failed download should still be visited")
	}
	if n, _ := d.Graph().Node("g:missing:1"); n == nil || n.Meta["status"] != "skipped" {
		t.Errorf("graph node for missing coordinate = %+v", n)
	}
}

func TestDriverDryRun(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1.0", project(dependencies(dependency("g", "b", "1"))))
	r.publish(t, "g:b:1", project())

	client := integrations.NewClient(integrations.ClientOptions{})
	d := NewDriver(Options{Fetcher: maven.NewFetcher(client, []string{server.URL}, nil)})
	report := d.Run(context.Background(), []maven.Coordinate{mustParse(t, "g:a:1.0")})

	if len(report.Resolved) != 2 || len(report.Downloaded) != 0 {
		t.Errorf("report = %d resolved, %d downloaded", len(report.Resolved), len(report.Downloaded))
	}
	if n := r.hitCount("/g/b/1/b-1.jar"); n != 0 {
		t.Errorf("dry run fetched package %d times", n)
	}
}

func TestDriverMultipleRoots(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1", project(dependencies(dependency("g", "common", "1"))))
	r.publish(t, "g:b:1", project(dependencies(dependency("g", "common", "1"))))
	r.publish(t, "g:common:1", project())

	e := newEnv(t)
	d := e.driver(server.URL)
	report := d.Run(context.Background(), []maven.Coordinate{mustParse(t, "g:a:1"), mustParse(t, "g:b:1")})

	assertFiles(t, e, "a-1.jar", "b-1.jar", "common-1.jar")
	if n := r.hitCount("/g/common/1/common-1.pom"); n != 1 {
		t.Errorf("common POM fetched %d times, want 1", n)
	}
	if len(report.Roots) != 2 {
		t.Errorf("Roots = %v", report.Roots)
	}
	if g := d.Graph(); g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("graph = %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
}

func TestDriverCancelled(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1", project())

	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := e.driver(server.URL).Run(ctx, []maven.Coordinate{mustParse(t, "g:a:1")})

	if len(report.Resolved) != 0 || len(report.Skipped) != 0 {
		t.Errorf("cancelled run recorded work: %+v", report)
	}
}

type recordingHooks struct {
	observability.NoopResolveHooks
	started   []string
	downloads []string
}

func (h *recordingHooks) OnResolveStart(_ context.Context, coord string) {
	h.started = append(h.started, coord)
}

func (h *recordingHooks) OnDownload(_ context.Context, coord, _ string, _ int64, err error) {
	if err == nil {
		h.downloads = append(h.downloads, coord)
	}
}

func TestDriverHooks(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1", project(dependencies(dependency("g", "b", "1"))))
	r.publish(t, "g:b:1", project())

	hooks := &recordingHooks{}
	observability.SetResolveHooks(hooks)
	t.Cleanup(observability.Reset)

	e := newEnv(t)
	e.driver(server.URL).Run(context.Background(), []maven.Coordinate{mustParse(t, "g:a:1")})

	if strings.Join(hooks.started, ",") != "g:a:1,g:b:1" {
		t.Errorf("OnResolveStart calls = %v", hooks.started)
	}
	if len(hooks.downloads) != 2 {
		t.Errorf("OnDownload successes = %v", hooks.downloads)
	}
}

func TestReportJSON(t *testing.T) {
	r, server := newRepo(t)
	r.publish(t, "g:a:1", project())

	e := newEnv(t)
	report := e.driver(server.URL).Run(context.Background(), []maven.Coordinate{mustParse(t, "g:a:1")})

	var buf bytes.Buffer
	if err := report.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	var decoded struct {
		RunID      string `json:"run_id"`
		Downloaded []struct {
			Coordinate string `json:"coordinate"`
			Size       int64  `json:"size"`
		} `json:"downloaded"`
		Skipped []any `json:"skipped"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.RunID == "" || decoded.RunID != report.RunID {
		t.Errorf("run_id = %q", decoded.RunID)
	}
	if len(decoded.Downloaded) != 1 || decoded.Downloaded[0].Coordinate != "g:a:1" {
		t.Errorf("downloaded = %+v", decoded.Downloaded)
	}
	if decoded.Skipped == nil {
		t.Error("skipped should encode as an empty list")
	}
	if report.Duration() < 0 || report.Duration() > time.Minute {
		t.Errorf("Duration() = %v", report.Duration())
	}
}
