package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/schemaviz/internal/adapter"
	"github.com/sadopc/schemaviz/internal/render"
)

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "schemaviz %s\n", version)
			fmt.Fprintf(stdout, "  commit:   %s\n", commit)
			fmt.Fprintf(stdout, "  built:    %s\n", date)
			fmt.Fprintf(stdout, "  go:       %s\n", runtime.Version())
			fmt.Fprintf(stdout, "  adapters: %s\n", strings.Join(adapter.Names(), ", "))
			fmt.Fprintf(stdout, "  formats:  %s\n", strings.Join(render.Formats(), ", "))
		},
	}
}
