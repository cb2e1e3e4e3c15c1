package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/lintite/internal/bracket"
	"github.com/dshills/lintite/internal/config/watcher"
	"github.com/dshills/lintite/internal/engine"
	"github.com/dshills/lintite/internal/engine/buffer"
	"github.com/dshills/lintite/internal/indent"
	"github.com/dshills/lintite/internal/metrics"
	"github.com/dshills/lintite/internal/rules"
	"github.com/dshills/lintite/internal/rules/loader"
	"github.com/dshills/lintite/internal/substitute"
)

// newFlagSet creates a subcommand flag set writing to the app's stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("lintite "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// ruleFile is a rule source of a known kind.
type ruleFile struct {
	kind rules.Kind
	path string
}

// ruleFiles returns the configured rule files.
func (a *app) ruleFiles() []ruleFile {
	return []ruleFile{
		{rules.KindHighlight, a.cfg.Rules.HighlightPath},
		{rules.KindSubstitution, a.cfg.Rules.SubstitutionPath},
	}
}

// parse parses args, mapping flag errors to errUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// warnRules logs rule load failures without aborting the command.
func (a *app) warnRules() {
	if err := a.loadRules(); err != nil {
		a.log.WithError(err).Warn("continuing with the rules that loaded")
	}
}

func runHighlight(a *app, args []string) error {
	fs := a.newFlagSet("highlight")
	spans := fs.Bool("spans", false, "Print span lists instead of colored text")
	if err := parse(fs, args); err != nil {
		return err
	}

	text, err := a.readInput(fs.Args())
	if err != nil {
		return err
	}
	a.warnRules()

	doc := buffer.NewText(text)
	lines := a.engine.HighlightDocument(text)
	for i, line := range lines {
		content := doc.LineText(i)
		if i > 0 && i == len(lines)-1 && content == "" {
			break // trailing terminator
		}
		if *spans {
			fmt.Fprintf(a.stdout, "%d: %v\n", i+1, line)
			continue
		}
		fmt.Fprintln(a.stdout, colorize(content, line))
	}
	return nil
}

func runBrackets(a *app, args []string) error {
	fs := a.newFlagSet("brackets")
	caret := fs.Int("caret", 0, "Caret offset in runes")
	line := fs.Int("line", 0, "Caret line, 1-based (overrides -caret)")
	col := fs.Int("col", 1, "Caret column in runes, 1-based; used with -line")
	if err := parse(fs, args); err != nil {
		return err
	}

	text, err := a.readInput(fs.Args())
	if err != nil {
		return err
	}
	doc := buffer.NewText(text)

	at := *caret
	if *line > 0 {
		if *line > doc.LineCount() {
			return fmt.Errorf("line %d outside [1:%d]: %w", *line, doc.LineCount(), buffer.ErrInvalidRange)
		}
		at = doc.PointToOffset(buffer.Point{Line: *line - 1, Column: *col - 1})
	}

	st, err := a.engine.CaretMoved(engine.Event{Text: text, Caret: at})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, st)
	for _, m := range st.Spans() {
		fmt.Fprintf(a.stdout, "%s at %s\n", m.Kind, doc.OffsetToPoint(m.Offset))
	}
	if col, ok := bracket.Guide(text, st); ok {
		fmt.Fprintf(a.stdout, "guide at column %d\n", col)
	}
	return nil
}

func runSuggest(a *app, args []string) error {
	fs := a.newFlagSet("suggest")
	word := fs.String("word", "", "Word to complete (instead of reading a file)")
	caret := fs.Int("caret", -1, "Caret offset in runes; defaults to the end of the text")
	if err := parse(fs, args); err != nil {
		return err
	}
	a.warnRules()

	var set engine.Suggestions
	if *word != "" {
		set = substitute.Suggest(*word, a.engine.Snapshot())
	} else {
		text, err := a.readInput(fs.Args())
		if err != nil {
			return err
		}
		at := *caret
		if at < 0 {
			at = buffer.NewText(text).Len()
		}
		if _, set, err = a.engine.Suggest(engine.Event{Text: text, Caret: at}); err != nil {
			return err
		}
	}

	for _, s := range set.Sorted() {
		fmt.Fprintln(a.stdout, s)
	}
	return nil
}

func runIndent(a *app, args []string) error {
	return runShift(a, "indent", indent.Indent, args)
}

func runDedent(a *app, args []string) error {
	return runShift(a, "dedent", indent.Dedent, args)
}

func runShift(a *app, name string, dir indent.Direction, args []string) error {
	fs := a.newFlagSet(name)
	start := fs.Int("start", 0, "Selection start in runes")
	end := fs.Int("end", -1, "Selection end in runes; defaults to the end of the text")
	write := fs.Bool("w", false, "Write the result back to the file")
	if err := parse(fs, args); err != nil {
		return err
	}

	text, err := a.readInput(fs.Args())
	if err != nil {
		return err
	}
	stop := *end
	if stop < 0 {
		stop = buffer.NewText(text).Len()
	}

	ev := engine.Event{Text: text, Caret: stop, Selection: buffer.NewSelection(*start, stop)}
	var res indent.Result
	if dir == indent.Indent {
		res, err = a.engine.Indent(ev)
	} else {
		res, err = a.engine.Dedent(ev)
	}
	if err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"edit":      res.Edit.String(),
		"selection": res.Selection.String(),
	}).Debug(name)

	if *write && fs.NArg() > 0 && fs.Arg(0) != "-" {
		return os.WriteFile(fs.Arg(0), []byte(res.Text), 0o644)
	}
	_, err = fmt.Fprint(a.stdout, res.Text)
	return err
}

func runReplace(a *app, args []string) error {
	fs := a.newFlagSet("replace")
	find := fs.String("find", "", "Text to find")
	with := fs.String("with", "", "Replacement text")
	caseSensitive := fs.Bool("case", false, "Match case")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *find == "" {
		return fmt.Errorf("%w: -find is required", errUsage)
	}

	text, err := a.readInput(fs.Args())
	if err != nil {
		return err
	}
	out, n := a.engine.ReplaceAll(text, *find, *with, *caseSensitive)
	a.log.WithField("replacements", n).Info("replace all")
	_, err = fmt.Fprint(a.stdout, out)
	return err
}

func runCheck(a *app, args []string) error {
	fs := a.newFlagSet("check")
	if err := parse(fs, args); err != nil {
		return err
	}

	l := loader.New()
	files := a.ruleFiles()
	if fs.NArg() > 0 {
		files = files[:0]
		for _, p := range fs.Args() {
			files = append(files, ruleFile{kindFor(l, p), p})
		}
	}

	var failed error
	store := a.engine.Store()
	for _, f := range files {
		if err := l.Reload(store, f.kind, f.path); err != nil {
			fmt.Fprintf(a.stdout, "FAIL %s (%s): %v\n", f.path, f.kind, err)
			failed = errors.Join(failed, err)
			continue
		}
		snap := store.Snapshot()
		n := len(snap.Highlight)
		if f.kind == rules.KindSubstitution {
			n = len(snap.Substitution)
		}
		fmt.Fprintf(a.stdout, "ok   %s (%s): %d rules\n", f.path, f.kind, n)
	}
	if failed != nil {
		return fmt.Errorf("rule check failed")
	}
	return nil
}

// kindFor guesses the rule kind of a file from its content: substitution
// files have "find" fields.
func kindFor(l *loader.Loader, path string) rules.Kind {
	records, err := l.Load(path)
	if err != nil || len(records) == 0 || records[0] == nil {
		return rules.KindHighlight
	}
	if _, ok := records[0]["find"]; ok {
		return rules.KindSubstitution
	}
	return rules.KindHighlight
}

// errWatchDisabled is returned by watch when the settings turn watching off.
var errWatchDisabled = errors.New("rule watching is disabled (rules.watch = false)")

func runWatch(a *app, args []string) error {
	fs := a.newFlagSet("watch")
	addr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	if err := parse(fs, args); err != nil {
		return err
	}
	if !a.cfg.Rules.Watch {
		return errWatchDisabled
	}

	w, err := watcher.New(
		watcher.WithDebounce(a.cfg.Rules.DebounceDuration()),
		watcher.WithLogger(a.log),
	)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	r := watcher.NewReloader(w, loader.New(), a.engine.Store())
	for _, f := range a.ruleFiles() {
		if err := r.Track(f.kind, f.path); err != nil {
			a.log.WithError(err).WithField("path", f.path).Warn("initial rule load failed")
		}
	}
	w.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *addr != "" {
		srv := &http.Server{
			Addr:              *addr,
			Handler:           metrics.Handler(a.registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.WithError(err).Error("metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	a.log.WithField("files", w.WatchedFiles()).Info("watching rule files")
	<-ctx.Done()
	a.log.Info("stopping")
	return nil
}

func runStats(a *app, args []string) error {
	fs := a.newFlagSet("stats")
	perParagraph := fs.Int("sentences", a.cfg.Stats.SentencesPerParagraph, "Sentences per paragraph")
	if err := parse(fs, args); err != nil {
		return err
	}

	text, err := a.readInput(fs.Args())
	if err != nil {
		return err
	}

	e := a.engine
	if *perParagraph != a.cfg.Stats.SentencesPerParagraph {
		e = engine.New(engine.WithSentencesPerParagraph(*perParagraph), engine.WithLogger(a.log))
	}
	c := e.Stats(text)
	fmt.Fprintln(a.stdout, c)
	fmt.Fprintf(a.stdout, "Sentences: %d\n", c.Sentences)
	return nil
}
