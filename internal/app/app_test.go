package app

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sadopc/schemaviz/internal/adapter"
	"github.com/sadopc/schemaviz/internal/audit"
	"github.com/sadopc/schemaviz/internal/filter"
	"github.com/sadopc/schemaviz/internal/graph"
	"github.com/sadopc/schemaviz/internal/history"
	"github.com/sadopc/schemaviz/internal/render"
	"github.com/sadopc/schemaviz/internal/testutil"

	_ "github.com/sadopc/schemaviz/internal/adapter/sqlite"
)

const fakeDot = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
	case "$1" in
		-o) out="$2"; shift 2 ;;
		*) shift ;;
	esac
done
cat > "$out"
`

const blogModels = `models:
  - name: User
    fields:
      - {name: id, type: integer, primary_key: true}
      - {name: manager, ref: User}
  - name: Tweet
    fields:
      - {name: id, type: integer, primary_key: true}
      - {name: user, ref: User}
      - {name: shop, ref: Shop}
`

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return New(testutil.NewTestLogger(t), &out), &out
}

func writeFile(t *testing.T, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

func shopDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	_, err = db.Exec(`
		CREATE TABLE customers (id INTEGER PRIMARY KEY, email TEXT);
		CREATE TABLE orders (id INTEGER PRIMARY KEY, customer_id INTEGER REFERENCES customers(id));
		CREATE TABLE audit_log (id INTEGER PRIMARY KEY, message TEXT);
	`)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_ModelFileToStdout(t *testing.T) {
	a, out := newTestApp(t)
	path := writeFile(t, "models.yaml", blogModels, 0o644)

	res, err := a.Run(context.Background(), Options{ModelFile: path, Stdout: true, Style: graph.DefaultStyle()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Kind != SourceModelFile || res.Models != 2 || res.Edges != 3 {
		t.Errorf("Result = %+v, want 2 models and 3 edges from the model file", res)
	}
	if len(res.Dangling) != 1 || res.Dangling[0].Ref != "Shop" {
		t.Errorf("Dangling = %+v, want the Shop reference", res.Dangling)
	}

	doc := out.String()
	if !strings.HasPrefix(doc, `digraph "schema_models" {`) {
		t.Errorf("stdout does not start with a digraph:\n%s", doc)
	}
	if !strings.Contains(doc, `"User" -> "User" [label="manager"`) {
		t.Error("self reference edge missing")
	}
}

func TestRun_SQLite(t *testing.T) {
	a, out := newTestApp(t)

	res, err := a.Run(context.Background(), Options{
		DSN:     "sqlite://" + shopDB(t),
		Exclude: []string{"audit_*"},
		Stdout:  true,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Kind != SourceDatabase || res.Adapter != "sqlite" || res.Database != "shop.db" {
		t.Errorf("Result = %+v", res)
	}
	if res.Models != 2 || res.Edges != 1 {
		t.Errorf("models/edges = %d/%d, want 2/1", res.Models, res.Edges)
	}
	if strings.Contains(out.String(), "audit_log") {
		t.Error("excluded table appears in the document")
	}
	if !strings.Contains(out.String(), `"orders" -> "customers" [label="customer_id"`) {
		t.Errorf("foreign key edge missing:\n%s", out.String())
	}
}

func TestRun_ExportRecordsHistoryAndAudit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake dot script needs a POSIX shell")
	}
	a, _ := newTestApp(t)
	a.Renderer.Binary = writeFile(t, "dot", fakeDot, 0o755)

	dir := t.TempDir()
	hist, err := history.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer hist.Close()
	a.History = hist

	auditPath := filepath.Join(dir, "audit.jsonl")
	auditLog, err := audit.New(auditPath, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer auditLog.Close()
	a.Audit = auditLog

	file := filepath.Join(dir, "out", "diagram")
	res, err := a.Run(context.Background(), Options{
		ModelFile: writeFile(t, "models.yaml", blogModels, 0o644),
		Export:    render.Options{File: file, Format: "svg"},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Files.Image != file+".svg" {
		t.Errorf("Image = %q, want %q", res.Files.Image, file+".svg")
	}
	if _, err := os.Stat(file + ".dot"); !os.IsNotExist(err) {
		t.Error("intermediate .dot should be removed")
	}

	entries, err := hist.Recent(context.Background(), 5)
	if err != nil || len(entries) != 1 {
		t.Fatalf("history = %v, %v; want one entry", entries, err)
	}
	if entries[0].Output != file+".svg" || entries[0].Models != 2 || entries[0].IsError {
		t.Errorf("history entry = %+v", entries[0])
	}

	data, err := os.ReadFile(auditPath)
	if err != nil {
		t.Fatal(err)
	}
	var e audit.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("audit line: %v", err)
	}
	if e.Source != SourceModelFile || e.Edges != 3 || e.Format != "svg" {
		t.Errorf("audit entry = %+v", e)
	}
}

func TestRun_FailureIsRecorded(t *testing.T) {
	a, _ := newTestApp(t)
	hist, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer hist.Close()
	a.History = hist
	a.Renderer.Binary = filepath.Join(t.TempDir(), "no-dot")

	_, err = a.Run(context.Background(), Options{
		ModelFile: writeFile(t, "models.yaml", blogModels, 0o644),
		Export:    render.Options{File: filepath.Join(t.TempDir(), "x"), Format: "png"},
	})
	if !errors.Is(err, render.ErrDotNotFound) {
		t.Fatalf("Run() error = %v, want ErrDotNotFound", err)
	}
	entries, _ := hist.Recent(context.Background(), 5)
	if len(entries) != 1 || !entries[0].IsError {
		t.Errorf("history = %+v, want one failed entry", entries)
	}
}

func TestRun_Errors(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	if _, err := a.Run(ctx, Options{Stdout: true}); !errors.Is(err, ErrNoSource) {
		t.Errorf("no source error = %v, want ErrNoSource", err)
	}
	if _, err := a.Run(ctx, Options{DSN: "whatever", Stdout: true}); err == nil {
		t.Error("undetectable adapter should fail")
	}
	if _, err := a.Run(ctx, Options{DSN: "x", Adapter: "oracle", Stdout: true}); !errors.Is(err, adapter.ErrUnknownAdapter) {
		t.Errorf("unknown adapter error = %v, want ErrUnknownAdapter", err)
	}
	if _, err := a.Run(ctx, Options{ModelFile: filepath.Join(t.TempDir(), "missing.yaml"), Stdout: true}); err == nil {
		t.Error("missing model file should fail")
	}

	path := writeFile(t, "models.yaml", blogModels, 0o644)
	if _, err := a.Run(ctx, Options{ModelFile: path, Include: []string{"Usr"}, Stdout: true}); !errors.Is(err, filter.ErrNoMatch) {
		t.Errorf("unknown include error = %v, want ErrNoMatch", err)
	}
	if _, err := a.Run(ctx, Options{ModelFile: path, Style: graph.Style{MainColor: "nope!"}, Stdout: true}); !errors.Is(err, graph.ErrInvalidColor) {
		t.Errorf("bad color error = %v, want ErrInvalidColor", err)
	}
}

func TestRun_ExcludedTargetsAreDangling(t *testing.T) {
	a, out := newTestApp(t)
	path := writeFile(t, "models.yaml", blogModels, 0o644)

	res, err := a.Run(context.Background(), Options{ModelFile: path, Exclude: []string{"User"}, Stdout: true})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Models != 1 || res.Edges != 2 {
		t.Errorf("models/edges = %d/%d, want 1/2", res.Models, res.Edges)
	}
	refs := map[string]bool{}
	for _, d := range res.Dangling {
		refs[d.Model+"."+d.Field+"->"+d.Ref] = true
	}
	if len(res.Dangling) != 2 || !refs["Tweet.user->User"] || !refs["Tweet.shop->Shop"] {
		t.Errorf("Dangling = %+v, want Tweet.user and Tweet.shop", res.Dangling)
	}
	if !strings.Contains(out.String(), `"Tweet" -> "User" [label="user"`) {
		t.Error("edge to the excluded model should still be drawn")
	}
}

func TestRun_LabelNamesHistorySource(t *testing.T) {
	a, _ := newTestApp(t)
	hist, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer hist.Close()
	a.History = hist

	dir := t.TempDir()
	_, err = a.Run(context.Background(), Options{
		DSN:    "sqlite://" + shopDB(t),
		Label:  "local (sqlite:///data/shop.db)",
		Export: render.Options{File: filepath.Join(dir, "shop"), Format: "png", SourceOnly: true},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	entries, err := hist.Recent(context.Background(), 1)
	if err != nil || len(entries) != 1 {
		t.Fatalf("history = %v, %v; want one entry", entries, err)
	}
	if entries[0].Source != "local (sqlite:///data/shop.db)" || entries[0].Format != "dot" {
		t.Errorf("history entry = %+v, want the label as source", entries[0])
	}
}
