// Package main is the entry point for keymask.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/keymask/internal/app"
	"github.com/dshills/keymask/internal/config"
	"github.com/dshills/keymask/internal/logging"
	"github.com/dshills/keymask/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	maskName   string
	pattern    string
	regexp     string
	policy     string
	label      string
	value      string
	logLevel   string
	logFile    string
	keysOnly   bool
	multiline  bool
	watch      bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	log, closeLog, err := newLogger(opts, cfg, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	mask, err := selectMask(opts, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	f, err := cfg.BuildMask(mask, config.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer f.Close()

	// Without a terminal on stdin every input line is conformed and printed.
	if !interactive {
		if err := app.ConformLines(os.Stdin, os.Stdout, f.Options); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	termBackend, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	label := opts.label
	if label == "" {
		label = f.Name
	}
	application, err := app.New(termBackend, app.Options{
		Label:     label,
		Value:     opts.value,
		Field:     f.Options,
		Multiline: f.Multiline || opts.multiline,
		KeysOnly:  opts.keysOnly || cfg.Settings.KeysOnly,
		Logger:    log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	if opts.watch && opts.configPath != "" && opts.maskName != "" {
		stopWatch, err := watchConfig(opts, application, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer stopWatch()
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		<-signals
		application.Stop()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println(application.Value())
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to a mask definition file (TOML or YAML)")
	flag.StringVar(&opts.configPath, "c", "", "Path to a mask definition file (shorthand)")
	flag.StringVar(&opts.maskName, "mask", "", "Name of the mask to use from the definition file")
	flag.StringVar(&opts.maskName, "m", "", "Name of the mask to use (shorthand)")
	flag.StringVar(&opts.pattern, "pattern", "", "Inline mask pattern, e.g. \"(999) 999-9999\"")
	flag.StringVar(&opts.regexp, "regexp", "", "Inline mask regular expression")
	flag.StringVar(&opts.policy, "policy", "", "Insertion policy (all, filtered)")
	flag.StringVar(&opts.label, "label", "", "Label drawn above the field")
	flag.StringVar(&opts.value, "value", "", "Initial field value")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&opts.keysOnly, "keys-only", false, "Handle raw key presses instead of edit intents")
	flag.BoolVar(&opts.multiline, "multiline", false, "Let Enter insert line breaks (Ctrl+D submits)")
	flag.BoolVar(&opts.watch, "watch", false, "Reload the mask when the definition file changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keymask - masked text input\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keymask [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keymask -pattern '(999) 999-9999'        Prompt for a phone number\n")
		fmt.Fprintf(os.Stderr, "  keymask -c masks.toml -m color -watch    Use a named mask and reload on save\n")
		fmt.Fprintf(os.Stderr, "  cat dates.txt | keymask -pattern 99/99   Conform each input line\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keymask %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	switch opts.policy {
	case "", "all", "filtered":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid policy %q (must be all or filtered)\n", opts.policy)
		os.Exit(1)
	}

	return opts
}

// loadConfig reads the definition file named by -config or KEYMASK_CONFIG,
// falling back to the defaults, and applies environment overrides.
func loadConfig(opts options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		p, err := config.PathFromEnv()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if opts.policy != "" {
		cfg.Settings.Policy = opts.policy
	}
	return cfg, nil
}

// selectMask returns the inline mask when -pattern or -regexp is given,
// the named mask otherwise, or the only mask in the file.
func selectMask(opts options, cfg *config.Config) (config.Mask, error) {
	if opts.pattern != "" || opts.regexp != "" {
		return config.Mask{Name: "inline", Pattern: opts.pattern, Regexp: opts.regexp}, nil
	}
	if opts.maskName != "" {
		return cfg.Mask(opts.maskName)
	}
	if names := cfg.Names(); len(names) == 1 {
		return cfg.Mask(names[0])
	}
	return config.Mask{}, errors.New("no mask selected: use -pattern, -regexp or -mask")
}

func newLogger(opts options, cfg *config.Config, interactive bool) (*logging.Logger, func(), error) {
	level := cfg.Level()
	if opts.logLevel != "" {
		level = logging.ParseLevel(opts.logLevel)
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case opts.logFile != "":
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	case interactive:
		// The terminal belongs to the field.
		out = io.Discard
	}

	return logging.New(logging.Config{Level: level, Output: out, Prefix: "keymask"}), closeFn, nil
}

// watchConfig rebuilds the selected mask whenever the definition file
// changes. The previous mask stays active when the new file is invalid.
// The returned function stops watching and releases every rebuilt mask.
func watchConfig(opts options, application *app.Application, log *logging.Logger) (func(), error) {
	var (
		mu    sync.Mutex
		built []*config.Field
	)

	w, err := config.Watch(opts.configPath, func(cfg *config.Config, err error) {
		if err != nil {
			log.Warn("reload %s: %v", opts.configPath, err)
			return
		}
		if opts.policy != "" {
			cfg.Settings.Policy = opts.policy
		}
		f, err := cfg.Build(opts.maskName, config.WithLogger(log))
		if err != nil {
			log.Warn("reload %s: %v", opts.configPath, err)
			return
		}

		mu.Lock()
		built = append(built, f)
		mu.Unlock()
		application.Reload(f.Options)
	})
	if err != nil {
		return nil, err
	}

	return func() {
		w.Stop()
		mu.Lock()
		defer mu.Unlock()
		for _, f := range built {
			f.Close()
		}
	}, nil
}
