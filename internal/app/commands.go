package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aurceive/drop_viewer/internal/domain"
	"github.com/aurceive/drop_viewer/internal/output"
	"github.com/aurceive/drop_viewer/internal/tui"
	"github.com/aurceive/drop_viewer/internal/viewer"
	"github.com/aurceive/drop_viewer/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(e *env) *cobra.Command {
	var listen, static string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTML viewer",
		Long: `Serve the HTML viewer. The dataset is loaded once at startup; /reload
starts a new page lifetime with a fresh fetch.

When the dataset is a local file its directory is also served under /data/,
so --data http://localhost:8000/data/<file> works against the same server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := firstNonEmpty(listen, e.cfg.Listen)
			dir := firstNonEmpty(static, e.cfg.Abs(e.cfg.StaticDir))
			if dir == "" && e.loc.FileScheme() {
				dir = e.loc.Dir()
			}

			srv, err := web.NewServer(web.Options{
				NewController: e.newController,
				Logger:        e.logger,
				StaticDir:     dir,
			})
			if err != nil {
				return ExitWithError(codeFailure, err)
			}
			if err := srv.ListenAndServe(cmd.Context(), addr); err != nil {
				return ExitWithError(codeFailure, fmt.Errorf("listen %s: %w", addr, err))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8000)")
	cmd.Flags().StringVar(&static, "static", "", "directory served under /data/")
	return cmd
}

func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the dataset in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := tui.New(cmd.Context(), e.newController, e.source.Fetch)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
					return nil
				}
				return ExitWithError(codeFailure, err)
			}
			return nil
		},
	}
}

// query is the shared control state of the one-shot commands.
type query struct {
	search   string
	category string
	sort     string
	page     int
}

func (q *query) bind(cmd *cobra.Command, withPage bool) {
	f := cmd.Flags()
	f.StringVarP(&q.search, "search", "s", "", "keyword matched against name and best monster")
	f.StringVarP(&q.category, "type", "t", "", "equipment type")
	f.StringVar(&q.sort, "sort", "", "sort key: name, type or probability")
	if withPage {
		f.IntVarP(&q.page, "page", "p", 1, "page number")
	}
}

// label names the query for export file names.
func (q query) label() string {
	parts := make([]string, 0, 2)
	if q.category != "" {
		parts = append(parts, q.category)
	}
	if q.search != "" {
		parts = append(parts, q.search)
	}
	return strings.Join(parts, "_")
}

// apply replays the query as controller actions. Search and type filter each
// replace the filtered view, so when both are given the search wins.
func (q query) apply(e *env, ctrl *viewer.Controller) error {
	if q.category != "" {
		ctrl.SelectCategory(q.category)
	}
	if q.search != "" {
		if q.category != "" {
			e.logger.Warn("search replaces the type filter", zap.String("type", q.category), zap.String("search", q.search))
		}
		ctrl.Search(q.search)
	}
	if q.sort != "" {
		key, err := domain.ParseSortKey(q.sort)
		if err != nil {
			return ExitWithError(codeUsage, err)
		}
		ctrl.ApplySort(key)
	}
	if q.page > 1 {
		total := ctrl.TotalPages()
		if q.page > total {
			return ExitWithError(codeUsage, fmt.Errorf("page %d out of range (%d pages)", q.page, total))
		}
		for ctrl.CurrentPage() < q.page {
			if !ctrl.ChangePage(1) {
				break
			}
		}
	}
	return nil
}

func newListCmd(e *env) *cobra.Command {
	var q query
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of equipment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if q.page < 1 {
				return ExitWithError(codeUsage, fmt.Errorf("page must be at least 1, got %d", q.page))
			}
			tv := output.NewTextView(cmd.OutOrStdout(), cmd.ErrOrStderr())
			ctrl := e.newController(tv)
			if err := ctrl.Start(cmd.Context()); err != nil {
				return loadFailure(err)
			}
			if err := q.apply(e, ctrl); err != nil {
				return err
			}
			tv.Flush()
			return nil
		},
	}
	q.bind(cmd, true)
	return cmd
}

func newDetailCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "detail NAME",
		Short: "Print every drop source of one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tv := output.NewTextView(cmd.OutOrStdout(), cmd.ErrOrStderr())
			ctrl := e.newController(tv)
			if err := ctrl.Start(cmd.Context()); err != nil {
				return loadFailure(err)
			}
			if !ctrl.ShowDetail(args[0]) {
				return ExitWithError(codeFailure, fmt.Errorf("no equipment named %q", args[0]))
			}
			tv.Flush()
			return nil
		},
	}
}

func newTypesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List equipment types with item counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tv := output.NewTextView(cmd.OutOrStdout(), cmd.ErrOrStderr())
			ctrl := e.newController(tv)
			if err := ctrl.Start(cmd.Context()); err != nil {
				return loadFailure(err)
			}
			output.PrintTypes(cmd.OutOrStdout(), ctrl.Categories())
			return nil
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	var q query
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered view to an xlsx workbook",
		Long: `Write every record of the filtered and sorted view (not just one page)
to an xlsx workbook with an Equipment sheet and a ranked Drops sheet.
The workbook can be loaded back with --data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tv := output.NewTextView(cmd.OutOrStdout(), cmd.ErrOrStderr())
			ctrl := e.newController(tv)
			if err := ctrl.Start(cmd.Context()); err != nil {
				return loadFailure(err)
			}
			if err := q.apply(e, ctrl); err != nil {
				return err
			}

			path := outPath
			if path == "" {
				path = output.DefaultExportPath(e.cfg.Abs(e.cfg.ExportDir), q.label(), time.Now())
			}
			records := ctrl.State().FilteredData
			if err := output.ExportRecordsXLSX(path, records); err != nil {
				return ExitWithError(codeFailure, fmt.Errorf("export: %w", err))
			}
			e.logger.Info("exported", zap.String("path", path), zap.Int("records", len(records)))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(records), path)
			return nil
		},
	}
	q.bind(cmd, false)
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: <export_dir>/<date>_drop_viewer_<query>.xlsx)")
	return cmd
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
