// traitgraph builds the trait dependency graphs of UI menu documents, ticks
// them against headless elements and reports the result in TOON format.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"

	"github.com/phobologic/traitgraph/internal/config"
	"github.com/phobologic/traitgraph/internal/discover"
	"github.com/phobologic/traitgraph/internal/focus"
	"github.com/phobologic/traitgraph/internal/graph"
	"github.com/phobologic/traitgraph/internal/locale"
	"github.com/phobologic/traitgraph/internal/menu"
	"github.com/phobologic/traitgraph/internal/model"
	"github.com/phobologic/traitgraph/internal/toon"
	"github.com/phobologic/traitgraph/internal/value"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

const header = `# Trait Graph

Every menu below was built and ticked against headless elements. The traits
table lists each trait in evaluation order with its last value, edges lists
which trait reads which, and errors lists menus that failed to build or update.
`

func main() {
	var err error
	if len(os.Args) > 1 && os.Args[1] == "init" {
		err = runInit(os.Args[2:], os.Stdout, os.Stderr)
	} else {
		err = run(os.Args[1:], os.Stdout, os.Stderr)
	}
	glog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var logOnce sync.Once

// configureLogging routes glog to stderr instead of log files and raises its
// verbosity when asked to.
func configureLogging(verbosity int) {
	logOnce.Do(func() {
		_ = flag.CommandLine.Set("logtostderr", "true")
	})
	if verbosity > 0 {
		_ = flag.CommandLine.Set("v", strconv.Itoa(verbosity))
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("traitgraph", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  string
		maxMenus    int
		menuFilter  string
		traitFilter string
		cachePath   string
		maxFileSize int
		raw         bool
		verbosity   int
		showVersion bool
	)

	fs.StringVar(&configPath, "c", "", "configuration file (default: nearest "+config.FileName+")")
	fs.StringVar(&configPath, "config", "", "configuration file (default: nearest "+config.FileName+")")
	fs.IntVar(&maxMenus, "n", 0, "maximum number of menus to include")
	fs.IntVar(&maxMenus, "max-menus", 0, "maximum number of menus to include")
	fs.StringVar(&menuFilter, "menu", "", "only include menus whose name or path contains this text")
	fs.StringVar(&traitFilter, "trait", "", "only include traits whose name contains this text, with their neighbours")
	fs.StringVar(&cachePath, "cache", "", "cache file path")
	fs.IntVar(&maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
	fs.BoolVar(&raw, "raw", false, "print TOON only, without the header")
	fs.IntVar(&verbosity, "v", 0, "diagnostic log verbosity")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "traitgraph %s\n", version)
		return nil
	}
	configureLogging(verbosity)

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	ctx := context.Background()

	cfg, configPath, err := loadConfig(root, configPath)
	if err != nil {
		return err
	}

	// Inputs besides the menus whose changes invalidate the cache.
	var inputs []string
	if configPath != "" {
		inputs = append(inputs, configPath)
	}

	var strs locale.Table
	var exclude []string
	if cfg.Strings != "" {
		stringsPath := cfg.Strings
		if !filepath.IsAbs(stringsPath) {
			base := root
			if configPath != "" {
				base = filepath.Dir(configPath)
			}
			stringsPath = filepath.Join(base, stringsPath)
		}
		strs, err = locale.Load(ctx, stringsPath)
		if err != nil {
			return err
		}
		inputs = append(inputs, stringsPath)
		if rel, err := filepath.Rel(root, stringsPath); err == nil {
			exclude = append(exclude, rel)
		}
	}

	// Discover files
	files, err := discover.Files(root, discover.Options{Ignore: cfg.Ignore, Exclude: exclude})
	if err != nil {
		return fmt.Errorf("discovering menus: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no menu files found")
	}

	// Filtered output is never cached.
	filtered := menuFilter != "" || traitFilter != ""

	// Check cache freshness
	if cachePath != "" && !filtered && cacheIsFresh(cachePath, root, files, inputs) {
		data, err := os.ReadFile(cachePath)
		if err == nil {
			writeOutput(stdout, string(data), raw)
			return nil
		}
	}

	// Filter by size
	files = filterBySize(files, maxFileSize, stderr)
	if len(files) == 0 {
		return fmt.Errorf("no menu files found (all exceeded size limit)")
	}

	opts := menu.Options{
		Factory: cfg.Factory(),
		Env:     graph.Env{Screen: cfg.RawScreen(), Strings: strs},
	}
	menus := buildMenusConcurrent(ctx, root, files, opts, cfg.Ticks, stderr)

	var failures *multierror.Error
	for i := range menus {
		if menus[i].Status == model.Failed {
			failures = multierror.Append(failures, fmt.Errorf("%s: %s", menus[i].Path, menus[i].Error))
		}
	}
	if failures != nil && len(failures.Errors) == len(menus) {
		return fmt.Errorf("no menu could be built: %w", failures)
	}

	report := &model.Report{Root: filepath.Base(root), Menus: menus}

	if menuFilter != "" {
		report = focus.FilterByMenu(report, menuFilter)
	}
	if traitFilter != "" {
		report = focus.FilterByTrait(report, traitFilter)
	}
	if filtered && len(report.Menus) == 0 {
		return fmt.Errorf("no menus or traits match the given filters")
	}

	// Select top N menus
	if maxMenus > 0 {
		report = focus.SelectMenus(report, maxMenus)
	}

	// Encode to TOON
	output := toon.Encode(report) + "\n"

	// Write cache
	if cachePath != "" && !filtered {
		_ = os.WriteFile(cachePath, []byte(output), 0o644)
	}

	writeOutput(stdout, output, raw)
	return nil
}

func writeOutput(stdout io.Writer, output string, raw bool) {
	if !raw {
		_, _ = fmt.Fprint(stdout, header+"\n")
	}
	_, _ = io.WriteString(stdout, output)
}

// loadConfig reads the configuration named on the command line, else the
// nearest traitgraph.yaml above root, else the defaults. It also returns the
// path actually read.
func loadConfig(root, path string) (*config.Config, string, error) {
	if path == "" {
		found, err := config.Find(root)
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	if path == "" {
		return config.Default(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolving config: %w", err)
	}
	return cfg, abs, nil
}

func cacheIsFresh(cachePath, root string, files []discover.FileEntry, inputs []string) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	paths := make([]string, 0, len(files)+len(inputs))
	for _, f := range files {
		paths = append(paths, filepath.Join(root, f.Path))
	}
	paths = append(paths, inputs...)

	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}

func filterBySize(files []discover.FileEntry, maxSize int, stderr io.Writer) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		if f.Size > int64(maxSize) {
			_, _ = fmt.Fprintf(stderr, "Warning: %s: skipped (%s exceeds %s)\n",
				f.Path, humanize.Bytes(uint64(f.Size)), humanize.Bytes(uint64(maxSize)))
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// buildMenusConcurrent builds and ticks every menu. Each menu's graph is
// created, updated and reported by a single worker.
func buildMenusConcurrent(ctx context.Context, root string, files []discover.FileEntry, opts menu.Options, ticks int, stderr io.Writer) []model.Menu {
	type result struct {
		index int
		menu  model.Menu
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make(chan result, len(files))

	var wg sync.WaitGroup
	var stderrMu sync.Mutex

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				f := files[idx]
				rep, err := buildMenu(ctx, filepath.Join(root, f.Path), opts, ticks)
				rep.Path = f.Path
				if err != nil {
					rep.Status = model.Failed
					rep.Error = err.Error()
					stderrMu.Lock()
					_, _ = fmt.Fprintf(stderr, "Warning: %s: %v\n", f.Path, err)
					stderrMu.Unlock()
				}
				results <- result{index: idx, menu: rep}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results in original order
	menus := make([]model.Menu, len(files))
	for r := range results {
		menus[r.index] = r.menu
	}
	return menus
}

// buildMenu loads the menu at path and ticks it. A menu that built but failed
// to update is still reported with whatever values it computed.
func buildMenu(ctx context.Context, path string, opts menu.Options, ticks int) (model.Menu, error) {
	m, err := menu.Load(ctx, path, opts)
	if err != nil {
		return model.Menu{}, err
	}
	defer m.Close()

	for range ticks {
		if err := m.Update(); err != nil {
			return describe(m), err
		}
	}
	return describe(m), nil
}

// describe captures a built menu's traits and edges for the report.
func describe(m *menu.Menu) model.Menu {
	g := m.Traits()
	rep := model.Menu{Name: m.Name(), Status: model.OK}

	// Build already sorted the graph; Sort returns the memoized order.
	order, _ := g.Sort()
	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}

	for _, v := range g.Vertices() {
		rep.Traits = append(rep.Traits, model.Trait{
			Name:  v.Name(),
			Type:  v.Kind().String(),
			Value: value.Format(v.Value()),
			Order: pos[v.Name()],
			Deps:  g.Dependencies(v.Name()),
		})
	}
	sort.SliceStable(rep.Traits, func(i, j int) bool {
		return rep.Traits[i].Order < rep.Traits[j].Order
	})

	for _, e := range g.Edges() {
		rep.Edges = append(rep.Edges, model.Edge{From: e.From, To: e.To})
	}
	return rep
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-c": true, "--c": true,
	"-config": true, "--config": true,
	"-n": true, "--n": true,
	"-max-menus": true, "--max-menus": true,
	"-menu": true, "--menu": true,
	"-trait": true, "--trait": true,
	"-cache": true, "--cache": true,
	"-max-file-size": true, "--max-file-size": true,
	"-v": true, "--v": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
