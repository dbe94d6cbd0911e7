package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/conceptmap/pkg/cache"
	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/config"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
)

// captureStdout redirects command output to w until the returned func runs.
func captureStdout(w io.Writer) func() {
	old := stdout
	stdout = w
	return func() { stdout = old }
}

// isolate points the config and cache locations at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

// writeTestGraph writes a graph with two components and one lock:
// x(0.5) → y(0), and a(0.9) → b(0.8) beside an isolated c.
func writeTestGraph(t *testing.T, dir string) string {
	t.Helper()
	g := concept.Graph{
		Concepts: []concept.Concept{
			{ID: "x", Proficiency: 0.5, DepthTier: 1},
			{ID: "y", Proficiency: 0, DepthTier: 2},
			{ID: "a", Name: "Arithmetic", Proficiency: 0.9, DepthTier: 1},
			{ID: "b", Proficiency: 0.8, DepthTier: 2},
			{ID: "c", Proficiency: 0.2, DepthTier: 3},
		},
		Edges: []concept.Edge{
			{From: "x", To: "y"},
			{From: "a", To: "b"},
		},
	}
	path := filepath.Join(dir, "graph.json")
	if err := concept.WriteGraphFile(g, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	restore := captureStdout(&out)
	defer restore()

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,dot,png", []string{"svg", "dot", "png"}},
		{"spaces trimmed", "svg, json", []string{"svg", "json"}},
		{"empty parts dropped", "dot,,", []string{"dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadGraphErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	dup := filepath.Join(dir, "dup.json")
	if err := os.WriteFile(dup, []byte(`{"concepts":[{"id":"a"},{"id":"a"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want cerrors.Code
	}{
		{"empty path", "", cerrors.ErrCodeInvalidPath},
		{"missing file", filepath.Join(dir, "nope.json"), cerrors.ErrCodeFileNotFound},
		{"malformed json", bad, cerrors.ErrCodeInvalidGraph},
		{"duplicate ids", dup, cerrors.ErrCodeInvalidGraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadGraph(tt.path)
			if got := cerrors.GetCode(err); got != tt.want {
				t.Errorf("loadGraph(%q) code = %q, want %q (err: %v)", tt.path, got, tt.want, err)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	c, err := newCache(ctx, config.CacheConfig{Backend: config.BackendFile, Dir: t.TempDir()}, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("--no-cache should give a NullCache, got %T", c)
	}

	c, err = newCache(ctx, config.CacheConfig{Backend: config.BackendNone}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("backend none should give a NullCache, got %T", c)
	}

	dir := filepath.Join(t.TempDir(), "store")
	c, err = newCache(ctx, config.CacheConfig{Backend: config.BackendFile, Dir: dir}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("file backend gave %T", c)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir not created: %v", err)
	}

	c, err = newCache(ctx, config.CacheConfig{Backend: config.BackendFile, Dir: dir, TTLHours: 2}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); ok {
		t.Error("ttl_hours should wrap the file cache")
	}
	if _, ok := c.(cache.Clearer); !ok {
		t.Error("wrapped cache should stay clearable")
	}

	if _, err := newCache(ctx, config.CacheConfig{Backend: config.BackendRedis}, false); !cerrors.Is(err, cerrors.ErrCodeNetwork) {
		t.Errorf("redis without addr: err = %v", err)
	}
}

func TestCacheLocation(t *testing.T) {
	tests := []struct {
		cc   config.CacheConfig
		want string
	}{
		{config.CacheConfig{Backend: config.BackendFile, Dir: "/tmp/cm"}, "/tmp/cm"},
		{config.CacheConfig{Backend: config.BackendRedis, RedisAddr: "localhost:6379", RedisDB: 2}, "redis://localhost:6379/2"},
		{config.CacheConfig{Backend: config.BackendNone}, "disabled"},
	}
	for _, tt := range tests {
		if got := cacheLocation(tt.cc); got != tt.want {
			t.Errorf("cacheLocation(%+v) = %q, want %q", tt.cc, got, tt.want)
		}
	}
}

func TestComponentsCommand(t *testing.T) {
	dir := isolate(t)
	graph := writeTestGraph(t, dir)

	out, err := runCLI(t, "components", graph, "--json")
	if err != nil {
		t.Fatalf("components: %v", err)
	}
	var r componentsReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(r.Components) != 3 || r.FullyConnected {
		t.Errorf("report = %+v", r)
	}
	if len(r.Isolated) != 1 || r.Isolated[0] != "c" {
		t.Errorf("Isolated = %v", r.Isolated)
	}
	if r.Cycles == nil || r.Dangling == nil {
		t.Error("empty lists should encode as [] not null")
	}

	out, err = runCLI(t, "components", graph)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "3 components") || !strings.Contains(out, "isolated") {
		t.Errorf("table output = %q", out)
	}
}

func TestLocksCommand(t *testing.T) {
	dir := isolate(t)
	graph := writeTestGraph(t, dir)

	out, err := runCLI(t, "locks", graph, "--json")
	if err != nil {
		t.Fatalf("locks: %v", err)
	}
	var r locksReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if r.Threshold != 0.7 {
		t.Errorf("Threshold = %v", r.Threshold)
	}
	if strings.Join(r.Locked, ",") != "y" {
		t.Errorf("Locked = %v, want [y]", r.Locked)
	}

	// At 0.5 the prerequisite x counts as mastered.
	out, err = runCLI(t, "locks", graph, "--json", "--threshold", "0.5")
	if err != nil {
		t.Fatal(err)
	}
	r = locksReport{}
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatal(err)
	}
	if len(r.Locked) != 0 {
		t.Errorf("Locked at 0.5 = %v, want none", r.Locked)
	}

	out, err = runCLI(t, "locks", graph, "--frontier")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Ready to study") || strings.Contains(out, "Arithmetic") {
		t.Errorf("frontier output = %q", out)
	}

	_, err = runCLI(t, "locks", graph, "--threshold", "1.5")
	if !cerrors.Is(err, cerrors.ErrCodeInvalidConfig) {
		t.Errorf("out of range threshold: err = %v", err)
	}
}

func TestPrereqsCommand(t *testing.T) {
	dir := isolate(t)
	graph := writeTestGraph(t, dir)

	out, err := runCLI(t, "prereqs", graph, "y", "--json")
	if err != nil {
		t.Fatalf("prereqs: %v", err)
	}
	var r prereqsReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !r.Locked || len(r.Prerequisites) != 1 || r.Prerequisites[0].ID != "x" || r.Prerequisites[0].Mastered {
		t.Errorf("report = %+v", r)
	}

	out, err = runCLI(t, "prereqs", graph, "x")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No prerequisites") || !strings.Contains(out, "Unlocks 1") {
		t.Errorf("output = %q", out)
	}

	_, err = runCLI(t, "prereqs", graph, "missing")
	if !cerrors.Is(err, cerrors.ErrCodeConceptNotFound) {
		t.Errorf("unknown concept: err = %v", err)
	}
	if cerrors.ExitCode(err) != 3 {
		t.Errorf("ExitCode = %d, want 3", cerrors.ExitCode(err))
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := isolate(t)
	graph := writeTestGraph(t, dir)
	output := filepath.Join(dir, "out.layout.json")

	out, err := runCLI(t, "layout", graph, "-o", output, "--seed", "7")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(out, "fresh") {
		t.Errorf("first run should compute: %q", out)
	}

	l, err := concept.ReadLayoutFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Positions) != 5 || l.Seed != 7 {
		t.Errorf("layout = %+v", l)
	}

	out, err = runCLI(t, "layout", graph, "-o", output, "--seed", "7")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cached") {
		t.Errorf("second run should hit the cache: %q", out)
	}

	out, err = runCLI(t, "layout", graph, "-o", output, "--seed", "7", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "fresh") {
		t.Errorf("--no-cache should compute: %q", out)
	}
}

func TestLayoutDefaultOutput(t *testing.T) {
	dir := isolate(t)
	graph := writeTestGraph(t, dir)

	if _, err := runCLI(t, "layout", graph, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "graph.layout.json")); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	graph := writeTestGraph(t, dir)
	base := filepath.Join(dir, "map")

	out, err := runCLI(t, "render", graph, "-f", "dot,json", "-o", base)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Rendered 2 files") {
		t.Errorf("output = %q", out)
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), `"y" [label="y"`) {
		t.Errorf("dot output missing node y:\n%s", dot)
	}
	if _, err := concept.ReadLayoutFile(base + ".layout.json"); err != nil {
		t.Errorf("layout artifact: %v", err)
	}

	// Re-render from the saved layout.
	if _, err := runCLI(t, "render", graph, "-f", "dot", "-o", base+"2", "--layout", base+".layout.json", "--detailed"); err != nil {
		t.Fatal(err)
	}
	detailed, err := os.ReadFile(base + "2.dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(detailed), "proficiency:") {
		t.Errorf("detailed labels missing:\n%s", detailed)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := isolate(t)
	graph := writeTestGraph(t, dir)

	_, err := runCLI(t, "render", graph, "-f", "pdf")
	if !cerrors.Is(err, cerrors.ErrCodeInvalidFormat) {
		t.Errorf("unsupported format: err = %v", err)
	}

	_, err = runCLI(t, "render", graph, "-f", "dot", "--layout", filepath.Join(dir, "missing.json"))
	if !cerrors.Is(err, cerrors.ErrCodeFileNotFound) {
		t.Errorf("missing layout: err = %v", err)
	}

	_, err = runCLI(t, "render", filepath.Join(dir, "nope.json"))
	if cerrors.ExitCode(err) != 3 {
		t.Errorf("missing graph exit code = %d (err: %v)", cerrors.ExitCode(err), err)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)
	want := filepath.Join(dir, "config", appName, "config.toml")

	out, err := runCLI(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", out, want)
	}

	if _, err := runCLI(t, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := runCLI(t, "config", "init"); !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
		t.Errorf("second init without --force: err = %v", err)
	}
	if _, err := runCLI(t, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err = runCLI(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := config.Parse([]byte(out)); err != nil {
		t.Errorf("config show output does not parse: %v\n%s", err, out)
	}
}

func TestExplicitConfig(t *testing.T) {
	dir := isolate(t)
	graph := writeTestGraph(t, dir)
	cfgPath := filepath.Join(dir, "strict.toml")
	data := "[gate]\nmastery_threshold = 0.95\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--config", cfgPath, "locks", graph, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var r locksReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatal(err)
	}
	// a(0.9) is no longer mastered, so b locks too.
	if strings.Join(r.Locked, ",") != "b,y" {
		t.Errorf("Locked = %v, want [b y]", r.Locked)
	}

	out, err = runCLI(t, "--config", cfgPath, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "disabled" {
		t.Errorf("cache path = %q", out)
	}

	_, err = runCLI(t, "--config", filepath.Join(dir, "absent.toml"), "locks", graph)
	if !cerrors.Is(err, cerrors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit config: err = %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)
	graph := writeTestGraph(t, dir)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	cacheDir := strings.TrimSpace(out)
	if !strings.HasPrefix(cacheDir, filepath.Join(dir, "cache")) {
		t.Errorf("cache path = %q, want under %s", cacheDir, dir)
	}

	if _, err := runCLI(t, "layout", graph); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(cacheDir)
	if len(entries) == 0 {
		t.Fatal("layout should populate the cache")
	}

	out, err = runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared file cache") {
		t.Errorf("output = %q", out)
	}
	entries, _ = os.ReadDir(cacheDir)
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the program name")
	}
}
