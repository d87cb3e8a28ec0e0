package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sevadhara/console/internal/buyers"
	"github.com/sevadhara/console/internal/export"
)

func newEntitiesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List the screens that can be exported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.openSession()
			if err != nil {
				return err
			}
			for _, slug := range s.catalog.Slugs() {
				e, _ := s.catalog.Lookup(slug)
				app.printf("%-20s %s\n", slug, e.Title())
			}
			return nil
		},
	}
}

type exportFlags struct {
	format string
	search string
	out    string
}

func (f *exportFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "xlsx", "xlsx, csv or pdf")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "only records matching this term")
	cmd.Flags().StringVarP(&f.out, "out", "o", ".", "output directory")
}

func newExportCommand(app *App) *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "export <entity>",
		Short: "Export a screen to Excel, CSV or PDF",
		Example: `  sevactl export buyers --format xlsx
  sevactl export goseva --format pdf --search 2024 --out ./reports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(flags.format)
			if err != nil {
				return err
			}
			s, err := app.openSession()
			if err != nil {
				return err
			}
			entity, ok := s.catalog.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown entity %q (one of %s)", args[0], strings.Join(s.catalog.Slugs(), ", "))
			}
			table, err := entity.ExportTable(cmd.Context(), flags.search)
			if err != nil {
				return err
			}
			return app.writeArtifact(cmd, s, table, format, flags.out)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newOutstandingCommand(app *App) *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "outstanding",
		Short: "Build the buyer outstanding report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(flags.format)
			if err != nil {
				return err
			}
			s, err := app.openSession()
			if err != nil {
				return err
			}
			var bar *progressbar.ProgressBar
			report, err := s.catalog.Buyers.Outstanding(cmd.Context(), flags.search, func(done, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetWriter(app.Err),
						progressbar.OptionSetDescription("Fetching buyer summaries"),
						progressbar.OptionSetWidth(40),
						progressbar.OptionShowCount(),
						progressbar.OptionClearOnFinish(),
					)
				}
				_ = bar.Set(done)
			})
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}
			if report.Failed > 0 {
				fmt.Fprintf(app.Err, "warning: %d buyer summaries could not be fetched and show as zero\n", report.Failed)
			}
			return app.writeArtifact(cmd, s, buyers.OutstandingTable(report), format, flags.out)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (a *App) writeArtifact(cmd *cobra.Command, s *session, table export.Table, format export.Format, dir string) error {
	artifact, err := s.exporter.Export(cmd.Context(), table, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, artifact.FileName)
	if err := os.WriteFile(path, artifact.Body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.printf("%s (%d rows)\n", path, len(table.Rows))
	return nil
}
