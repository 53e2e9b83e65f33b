// Package cli implements the prayertimes command: it discovers, downloads
// and parses the ACJU prayer-time PDFs and publishes the combined dataset.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"acju-prayer-times/internal/config"
	"acju-prayer-times/internal/log"
	"acju-prayer-times/internal/pdfparse"
	"acju-prayer-times/internal/scraper"
	"acju-prayer-times/internal/store"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

const (
	ModePrayer   = "prayer"
	ModeCalendar = "calendar"
)

// ErrEmptyDataset is returned when a run extracted no prayer times at all.
var ErrEmptyDataset = errors.New("no prayer times extracted")

// Options are the command-line flags.
type Options struct {
	Mode          string
	Months        []string
	Output        string
	FromDir       string
	KeepDownloads bool
	Verbose       bool
}

// App wires the settings and collaborators shared by both modes.
type App struct {
	Settings config.Settings
	Log      *zap.Logger
	Out      io.Writer

	// Loader overrides the PDF reader.
	Loader pdfparse.Loader
	// PageText overrides the headless browser in calendar mode.
	PageText scraper.PageTextFunc
	// OpenStore overrides how the output store is opened.
	OpenStore func(ctx context.Context, key string) (store.Store, string, error)
}

// NewRootCmd creates the root command.
func NewRootCmd(app *App) *cobra.Command {
	var opts Options
	cmd := &cobra.Command{
		Use:   "prayertimes",
		Short: "Build the ACJU prayer-times dataset for Sri Lanka",
		Long: `Downloads the monthly prayer-time PDFs published by the All Ceylon
Jamiyyathul Ulama, extracts the daily times of every district and writes them
as a single JSON dataset. Calendar mode reads today's Hijri date instead.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Out == nil {
				app.Out = cmd.OutOrStdout()
			}
			if app.Log == nil {
				if err := log.Init(app.Settings.Production && !opts.Verbose); err != nil {
					return fmt.Errorf("initializing logger: %w", err)
				}
				defer log.Sync()
				app.Log = log.L()
			}
			switch strings.ToLower(opts.Mode) {
			case ModePrayer:
				return app.RunPrayer(cmd.Context(), opts)
			case ModeCalendar:
				return app.RunCalendar(cmd.Context())
			default:
				return fmt.Errorf("invalid mode: %s (must be '%s' or '%s')", opts.Mode, ModePrayer, ModeCalendar)
			}
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", ModePrayer, "Mode: 'prayer' to download and extract prayer times, 'calendar' to read today's Hijri date")
	cmd.Flags().StringSliceVar(&opts.Months, "month", nil, "Month(s) to download, e.g. jan,feb or --month 3 --month march (default all)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file path (default OUTPUT_DIR/OUTPUT_FILENAME)")
	cmd.Flags().StringVar(&opts.FromDir, "from-dir", "", "Process PDFs already in this directory instead of downloading")
	cmd.Flags().BoolVar(&opts.KeepDownloads, "keep-downloads", false, "Keep the downloaded PDFs after a successful run")
	cmd.Flags().BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")

	return cmd
}

// openStore returns the output store and the key to write under. A path
// given on the command line always goes to the local disk.
func (a *App) openStore(ctx context.Context, output, key string) (store.Store, string, error) {
	if a.OpenStore != nil {
		return a.OpenStore(ctx, key)
	}
	if output != "" {
		dir, name := splitOutput(output)
		s, err := store.NewLocal(dir)
		return s, name, err
	}
	if a.Settings.GCSBucket != "" {
		s, err := store.NewGCS(ctx, a.Settings.GCSBucket, a.Settings.GCSPrefix, a.Settings.GCSCredentials)
		return s, key, err
	}
	s, err := store.NewLocal(a.Settings.OutputDir)
	return s, key, err
}

func splitOutput(output string) (string, string) {
	return filepath.Dir(output), filepath.Base(output)
}

func closeStore(s store.Store, logger *zap.Logger) {
	if c, ok := s.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn("store_close_failed", zap.Error(err))
		}
	}
}

// Execute runs the command and returns the process exit code.
func Execute(ctx context.Context, app *App, args []string) int {
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
