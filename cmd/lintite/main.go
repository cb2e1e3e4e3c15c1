// Package main is the entry point for the lintite command line host.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/dshills/lintite/internal/config"
	"github.com/dshills/lintite/internal/engine"
	"github.com/dshills/lintite/internal/metrics"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage marks a command line error already reported to the user.
var errUsage = errors.New("usage error")

// options holds the global flags.
type options struct {
	ConfigPath       string
	LogLevel         string
	HighlightPath    string
	SubstitutionPath string
}

// app is the state shared by subcommands.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	engine   *engine.Engine

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// command is a subcommand handler.
type command struct {
	summary string
	run     func(a *app, args []string) error
}

var commands = map[string]command{
	"highlight": {"print a file with rule colors", runHighlight},
	"brackets":  {"probe the bracket pair at a caret", runBrackets},
	"suggest":   {"list suggestions for a word or the word at a caret", runSuggest},
	"indent":    {"indent a selection", runIndent},
	"dedent":    {"dedent a selection", runDedent},
	"replace":   {"find and replace in a file", runReplace},
	"check":     {"validate the rule files", runCheck},
	"watch":     {"reload rule files as they change", runWatch},
	"stats":     {"count words, characters and paragraphs", runStats},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lintite", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	var showVersion bool
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to settings file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to settings file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&opts.HighlightPath, "highlight-rules", "", "Highlight rule file (overrides settings)")
	fs.StringVar(&opts.SubstitutionPath, "substitution-rules", "", "Substitution rule file (overrides settings)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.Usage = func() { usage(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "lintite %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", name)
		fs.Usage()
		return 2
	}

	a, err := newApp(opts, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := cmd.run(a, fs.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "lintite - editing-assist engine\n\n")
	fmt.Fprintf(w, "Usage: lintite [options] <command> [command options] [file]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nOptions:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  lintite highlight notes.txt            Print notes.txt with colors\n")
	fmt.Fprintf(w, "  lintite brackets -caret 12 main.go     Show the pair around offset 12\n")
	fmt.Fprintf(w, "  lintite suggest -word te               List completions for \"te\"\n")
	fmt.Fprintf(w, "  lintite watch -metrics-addr :9090      Reload rules on change\n")
}

// newApp loads settings, builds the engine and loads the rule files.
// Rule file errors are logged; the engine starts with empty rules.
func newApp(opts options, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.HighlightPath != "" {
		cfg.Rules.HighlightPath = opts.HighlightPath
	}
	if opts.SubstitutionPath != "" {
		cfg.Rules.SubstitutionPath = opts.SubstitutionPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.NewLogger()
	log.SetOutput(stderr)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	engineOpts := append(engine.FromConfig(cfg), engine.WithLogger(log), engine.WithMetrics(m))
	a := &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		metrics:  m,
		engine:   engine.New(engineOpts...),
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
	}
	return a, nil
}

// loadRules loads both rule files into the engine and joins their errors.
func (a *app) loadRules() error {
	return errors.Join(
		a.engine.LoadHighlightFile(a.cfg.Rules.HighlightPath),
		a.engine.LoadSubstitutionFile(a.cfg.Rules.SubstitutionPath),
	)
}

// readInput reads the named file, or stdin for "-" or no name.
func (a *app) readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected one file, got %s", errUsage, strings.Join(args, " "))
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}
