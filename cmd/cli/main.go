package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"funnelscope/app"
	"funnelscope/domain/imports"
	"funnelscope/internal/config"
	"funnelscope/internal/container"
	"funnelscope/internal/funnel"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "funnelscope",
		Short:         "Import funnel exports and tabular files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newFunnelCmd(),
		newInspectCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newContainer loads configuration the same way the server does. The CLI
// never touches the database.
func newContainer() (*container.Container, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

func newFunnelCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "funnel <file>",
		Short: "Extract the funnel table from an analytics export",
		Long: `Extract the first funnel table from a CSV, TSV or spreadsheet export and
print its rows with units applied.

Example: funnelscope funnel checkout-export.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			res, err := importFile(cmd.Context(), c, imports.KindFunnel, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Funnel)
			}
			fmt.Fprintf(out, "%s (%d rows)\n", res.Funnel.Name, len(res.Funnel.Rows))
			fmt.Fprintln(out, renderFunnel(res.Funnel))
			printFindings(out, res.Validation)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the extracted rows as JSON")
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <files...>",
		Short: "Infer column types and statistics for tabular files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			results, err := c.ImportService.ImportFiles(cmd.Context(), imports.KindDataset, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
					continue
				}
				ds := r.Result.Dataset
				fmt.Fprintf(out, "%s: %d rows, %d columns\n", filepath.Base(r.Path), ds.RowCount, len(ds.Columns))
				fmt.Fprintln(out, renderColumns(ds))
				printFindings(out, r.Result.Validation)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the funnel table of an export as canonical CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			res, err := importFile(cmd.Context(), c, imports.KindFunnel, args[0])
			if err != nil {
				return err
			}
			return funnel.WriteCanonicalCSV(cmd.OutOrStdout(), res.Funnel.Rows)
		},
	}
	return cmd
}

func importFile(ctx context.Context, c *container.Container, kind imports.Kind, path string) (*app.ImportResult, error) {
	content, err := c.Reader.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return c.ImportService.Import(ctx, kind, filepath.Base(path), content)
}
