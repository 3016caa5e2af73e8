// Package app runs one export: it loads models from a database or a model
// file, narrows them with the include/exclude filters, translates them to
// dot, and writes or prints the result. Each run is recorded in the audit
// log and the history store when those are configured.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sadopc/schemaviz/internal/adapter"
	"github.com/sadopc/schemaviz/internal/audit"
	"github.com/sadopc/schemaviz/internal/filter"
	"github.com/sadopc/schemaviz/internal/graph"
	"github.com/sadopc/schemaviz/internal/highlight"
	"github.com/sadopc/schemaviz/internal/history"
	"github.com/sadopc/schemaviz/internal/model"
	"github.com/sadopc/schemaviz/internal/render"
	"github.com/sadopc/schemaviz/internal/theme"
)

// Source kinds recorded in history and audit entries.
const (
	SourceDatabase  = "database"
	SourceModelFile = "model_file"
)

// ErrNoSource is returned when neither a DSN nor a model file is given.
var ErrNoSource = errors.New("no schema source: pass a DSN, --models, or --connection")

// Options is everything one run needs to know.
type Options struct {
	// Database source.
	Adapter string
	DSN     string
	Schema  string

	// ModelFile, when set, is used instead of a database.
	ModelFile string

	// Label names the source in history. Empty means the sanitized DSN or
	// the model file path.
	Label string

	Include []string
	Exclude []string

	Style  graph.Style
	Export render.Options

	// Stdout prints the document instead of writing files.
	Stdout bool
}

// Result summarises a finished run.
type Result struct {
	Kind     string
	Adapter  string
	Database string
	Models   int
	Edges    int
	Dangling []model.Dangling
	Files    render.Result
	Duration time.Duration
}

// App holds the collaborators of a run. Audit and History may be nil.
type App struct {
	Renderer *render.Renderer
	Logger   *slog.Logger
	Audit    *audit.Logger
	History  *history.History
	Theme    *theme.Theme
	// Stdout receives the document when Options.Stdout is set.
	Stdout io.Writer
}

// New returns an App with the given logger and default collaborators.
func New(logger *slog.Logger, stdout io.Writer) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		Renderer: &render.Renderer{Logger: logger},
		Logger:   logger,
		Theme:    theme.Default(),
		Stdout:   stdout,
	}
}

// Run performs a single export.
func (a *App) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	res := &Result{}

	err := a.run(ctx, opts, res)
	res.Duration = time.Since(start)

	if !opts.Stdout {
		a.record(ctx, opts, res, err)
	}
	return res, err
}

func (a *App) run(ctx context.Context, opts Options, res *Result) error {
	reg, err := a.load(ctx, opts, res)
	if err != nil {
		return err
	}

	reg, err = filter.Apply(reg, opts.Include, opts.Exclude)
	if err != nil {
		return err
	}

	// Checked after filtering so references to excluded models are reported.
	for _, d := range reg.DanglingRefs() {
		a.Logger.Warn("foreign key references a model that is not drawn",
			"model", d.Model, "field", d.Field, "ref", d.Ref)
		res.Dangling = append(res.Dangling, d)
	}
	if reg.Len() == 0 {
		a.Logger.Warn("no models to draw")
	}

	g := graph.Build(reg.Models())
	res.Models = len(g.Nodes)
	res.Edges = len(g.Edges)

	doc, err := g.DOT(opts.Style)
	if err != nil {
		return err
	}
	a.Logger.Debug("dot document built", "models", res.Models, "edges", res.Edges, "bytes", len(doc))

	if opts.Stdout {
		return highlight.NewHighlighter().Write(a.Stdout, doc, a.Theme)
	}

	files, err := a.Renderer.Export(ctx, []byte(doc), opts.Export)
	res.Files = files
	return err
}

// load builds the model registry from the model file or the database.
func (a *App) load(ctx context.Context, opts Options, res *Result) (*model.Registry, error) {
	if opts.ModelFile != "" {
		res.Kind = SourceModelFile
		a.Logger.Debug("loading model file", "path", opts.ModelFile)
		return model.LoadFile(opts.ModelFile)
	}
	if opts.DSN == "" {
		return nil, ErrNoSource
	}

	res.Kind = SourceDatabase
	name := opts.Adapter
	if name == "" {
		name = adapter.DetectAdapter(opts.DSN)
	}
	if name == "" {
		return nil, fmt.Errorf("cannot detect adapter from DSN; use --adapter (available: %v)", adapter.Names())
	}
	ad, err := adapter.Get(name)
	if err != nil {
		return nil, err
	}
	res.Adapter = ad.Name()

	a.Logger.Debug("connecting", "adapter", ad.Name(), "dsn", audit.SanitizeDSN(opts.DSN))
	conn, err := ad.Connect(ctx, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()
	res.Database = conn.DatabaseName()

	tables, err := adapter.Introspect(ctx, conn, opts.Schema)
	if err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}
	a.Logger.Debug("introspected", "database", res.Database, "tables", len(tables))
	return model.FromTables(tables)
}

// record writes the run to the audit log and history. Failures here are
// logged and never change the outcome of the run.
func (a *App) record(ctx context.Context, opts Options, res *Result, runErr error) {
	output := res.Files.Image
	if output == "" {
		output = res.Files.Source
	}
	source := opts.Label
	if source == "" {
		source = opts.ModelFile
	}
	if source == "" {
		source = audit.SanitizeDSN(opts.DSN)
	}
	format := opts.Export.Format
	if opts.Export.SourceOnly {
		format = "dot"
	}

	entry := audit.Entry{
		Source:       res.Kind,
		Adapter:      res.Adapter,
		DatabaseName: res.Database,
		Schema:       opts.Schema,
		Models:       res.Models,
		Edges:        res.Edges,
		Output:       output,
		Format:       format,
		DurationMS:   res.Duration.Milliseconds(),
		IsError:      runErr != nil,
		DSN:          opts.DSN,
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if err := a.Audit.Log(entry); err != nil {
		a.Logger.Warn("audit log", "error", err)
	}

	if a.History == nil {
		return
	}
	err := a.History.Add(ctx, history.Entry{
		Source:       source,
		Adapter:      res.Adapter,
		DatabaseName: res.Database,
		Models:       res.Models,
		Edges:        res.Edges,
		Output:       output,
		Format:       format,
		DurationMS:   res.Duration.Milliseconds(),
		IsError:      runErr != nil,
	})
	if err != nil {
		a.Logger.Warn("history", "error", err)
	}
}
