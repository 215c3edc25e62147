package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/vanderheijden86/arbor/internal/datasource"
	"github.com/vanderheijden86/arbor/pkg/config"
	"github.com/vanderheijden86/arbor/pkg/export"
	"github.com/vanderheijden86/arbor/pkg/tree"
	"github.com/vanderheijden86/arbor/pkg/version"
	"github.com/vanderheijden86/arbor/pkg/watcher"
)

func main() {
	sourceFlag := flag.String("source", "", "Path to a tree source (JSON or SQLite)")
	nameFlag := flag.String("name", "", "Open a source registered in the config by name")
	dumpFlag := flag.Bool("dump", false, "Print the parsed tree as JSON and exit")
	exportFlag := flag.String("export", "", "Render a snapshot to the given path and exit")
	formatFlag := flag.String("format", "", "Snapshot format: svg or png (default: from extension)")
	singleFlag := flag.Bool("single", false, "Single-selection mode (overrides config)")
	helpFlag := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *helpFlag {
		fmt.Println("Usage: arbor [options]")
		fmt.Println("\nAn interactive tree selection viewer.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("arbor %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		cfg = config.DefaultConfig()
	}

	sourcePath, root, err := resolveTree(cfg, *sourceFlag, *nameFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tree: %v\n", err)
		os.Exit(1)
	}

	if *dumpFlag {
		data, err := datasource.MarshalTree(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		os.Exit(0)
	}

	multiPick := cfg.Viewer.MultiSelectEnabled() && !*singleFlag

	if *exportFlag != "" {
		if err := exportHeadless(root, *exportFlag, *formatFlag, sourcePath, multiPick); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Snapshot written to %s\n", *exportFlag)
		os.Exit(0)
	}

	if err := runViewer(cfg, sourcePath, root, multiPick); err != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
		os.Exit(1)
	}
}

// resolveTree picks and loads the tree source: the -source path wins, then a
// named or configured source, then an interactive sample picker on a TTY.
// The returned path is empty for embedded samples.
func resolveTree(cfg config.Config, sourcePath, name string) (string, *datasource.RawNode, error) {
	if sourcePath != "" {
		root, err := datasource.Load(sourcePath)
		return sourcePath, root, err
	}

	if src := cfg.ResolveSource(name); src != nil {
		path := src.ResolvedPath()
		root, err := datasource.Load(path)
		return path, root, err
	}
	if name != "" {
		return "", nil, fmt.Errorf("no source named %q in config", name)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", nil, errors.New("no source given (use -source or register one in config)")
	}

	sample, err := pickSample()
	if err != nil {
		return "", nil, err
	}
	root, err := loadSample(sample)
	return "", root, err
}

// pickSample asks which embedded sample dataset to open.
func pickSample() (string, error) {
	names := sampleNames()
	options := make([]huh.Option[string], len(names))
	for i, n := range names {
		options[i] = huh.NewOption(sampleTitle(n), n)
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("No tree source configured. Open a sample dataset?").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return "", err
	}
	return choice, nil
}

func exportHeadless(root *datasource.RawNode, path, format, title string, multiPick bool) error {
	acc := datasource.Accessors()
	flags := tree.Flags{Selectable: true, MultiPick: multiPick, Searchable: true}
	res := tree.Reconcile(tree.Annotate(acc, root), acc, flags, tree.Input{}, nil)

	if title == "" {
		title = "Tree Snapshot"
	} else {
		title = filepath.Base(title)
	}
	return export.SaveSnapshot(export.SnapshotOptions[*datasource.RawNode]{
		Path:   path,
		Format: format,
		Title:  title,
		Root:   res.Root,
		Acc:    acc,
		Label:  (*datasource.RawNode).DisplayLabel,
	})
}

// runViewer wires the controller, the file watcher, and the TUI together and
// blocks until the program exits.
func runViewer(cfg config.Config, sourcePath string, root *datasource.RawNode, multiPick bool) error {
	flags := tree.Flags{Selectable: true, MultiPick: multiPick, Searchable: true}
	debounceDur := time.Duration(cfg.Viewer.DebounceMs) * time.Millisecond

	var p *tea.Program
	ctrl := tree.NewController(datasource.Accessors(), flags, labelPredicate,
		tree.WithDebounce[*datasource.RawNode](debounceDur),
		tree.WithRecomputed[*datasource.RawNode](func(tree.Result[*datasource.RawNode]) {
			if p != nil {
				p.Send(refreshMsg{})
			}
		}),
	)
	defer ctrl.Close()
	ctrl.SetTree(root)

	m := newModel(ctrl, modelConfig{
		sourcePath: sourcePath,
		showCounts: cfg.Viewer.ShowCounts,
		exportDir:  cfg.Export.Dir,
		exportFmt:  cfg.Export.Format,
	})

	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithoutSignalHandler())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-sigCh:
			p.Quit()
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
				p.Kill()
			}
			return nil
		}
	})

	// Live reload when the source file is rewritten.
	if sourcePath != "" {
		w, err := watcher.New(sourcePath, watcherOptions(sourcePath, ctrl, &p)...)
		if err == nil && w.Start() == nil {
			defer w.Stop()
		}
	}

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
			return nil
		}
		return err
	})

	return g.Wait()
}

// watcherOptions builds the watcher options that reload the tree into the
// controller whenever the source file changes.
func watcherOptions(sourcePath string, ctrl *tree.Controller[*datasource.RawNode], p **tea.Program) []watcher.Option {
	return []watcher.Option{
		watcher.WithOnChange(func() {
			root, err := datasource.Load(sourcePath)
			if err != nil {
				// Mid-write reads fail; the next change event retries.
				return
			}
			ctrl.SetTree(root)
			if *p != nil {
				(*p).Send(refreshMsg{})
			}
		}),
	}
}
