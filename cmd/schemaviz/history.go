package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sadopc/schemaviz/internal/history"
	"github.com/sadopc/schemaviz/internal/theme"
)

type historyFlags struct {
	limit  int
	search string
	clear  bool
}

func newHistoryCmd(root *rootFlags, stdout, stderr io.Writer) *cobra.Command {
	var f historyFlags

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear past exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(root.config, stderr)
			th := theme.Get(cfg.Theme)

			hist, err := history.New()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer hist.Close()

			ctx := cmd.Context()
			if f.clear {
				n, err := hist.Clear(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, th.SuccessText.Render(fmt.Sprintf("Removed %d entries", n)))
				return nil
			}

			var entries []history.Entry
			if f.search != "" {
				entries, err = hist.Search(ctx, f.search, f.limit)
			} else {
				entries, err = hist.Recent(ctx, f.limit)
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(stdout, th.MutedText.Render("No exports recorded"))
				return nil
			}
			fmt.Fprintln(stdout, historyTable(entries, th))
			return nil
		},
	}

	cmd.Flags().IntVarP(&f.limit, "limit", "n", 20, "Maximum number of entries")
	cmd.Flags().StringVar(&f.search, "search", "", "Only show entries whose source, database or output contains this text")
	cmd.Flags().BoolVar(&f.clear, "clear", false, "Delete all history entries")
	cmd.MarkFlagsMutuallyExclusive("clear", "search")

	return cmd
}

func historyTable(entries []history.Entry, th *theme.Theme) *table.Table {
	header := th.Label.Bold(true)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(th.MutedText).
		Headers("WHEN", "SOURCE", "MODELS", "EDGES", "OUTPUT", "TIME").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if entries[row].IsError {
				return th.ErrorText
			}
			return th.Value
		})

	for _, e := range entries {
		source := e.Source
		if e.DatabaseName != "" {
			source = e.DatabaseName + " (" + e.Adapter + ")"
		}
		t.Row(
			e.ExportedAt.Local().Format("2006-01-02 15:04"),
			source,
			strconv.Itoa(e.Models),
			strconv.Itoa(e.Edges),
			e.Output,
			fmt.Sprintf("%dms", e.DurationMS),
		)
	}
	return t
}
