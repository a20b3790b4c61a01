package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"salesdesk/collections"
	"salesdesk/services"
)

// newRenderCommand writes a stored quote or sale to disk as PDF.
func newRenderCommand(app core.App, r *services.Renderer) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "render <quotes|sales> <id>",
		Short: "Render a stored quote or sale to a PDF file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, col, err := kindArg(args[0])
			if err != nil {
				return err
			}
			rec, err := app.FindRecordById(col, args[1])
			if err != nil {
				return fmt.Errorf("find %s %s: %w", kind, args[1], err)
			}

			_, rendered, err := r.Render(cmd.Context(), kind, rec.GetString("owner"), rec.Id)
			if err != nil {
				return err
			}
			if rendered.Failed {
				cmd.PrintErrf("render failed, writing error document: %v\n", rendered.Err)
			}

			path := filepath.Join(outDir, rendered.FileName)
			if err := os.WriteFile(path, rendered.Bytes, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d pages)\n", path, rendered.Pages)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

func kindArg(s string) (services.Kind, string, error) {
	switch s {
	case "quotes", "quote":
		return services.KindQuote, collections.Quotes, nil
	case "sales", "sale":
		return services.KindSale, collections.Sales, nil
	}
	return "", "", fmt.Errorf("unknown document kind %q, want quotes or sales", s)
}
