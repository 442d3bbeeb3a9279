package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"weekpack/internal/config"
	"weekpack/internal/export"
	appLog "weekpack/internal/log"
	"weekpack/internal/model"
	"weekpack/internal/web"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func SetupCommands() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "weekpack",
		Short:   "Weekly planner PDF exporter",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				appLog.SetLevel(appLog.LevelDebug)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "weekpack.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(exportCommand(flags))
	rootCmd.AddCommand(serveCommand(flags))

	return rootCmd
}

func exportCommand(flags *rootFlags) *cobra.Command {
	var (
		week       string
		eventsPath string
		outputDir  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one weekly package and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config %s: %w", flags.configPath, err)
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}

			exp, err := export.New(cfg)
			if err != nil {
				return err
			}

			ref := time.Now().In(exp.Location())
			var extra []model.Event

			if eventsPath != "" {
				input, err := readEventsFile(eventsPath)
				if err != nil {
					return err
				}
				extra = input.Events
				if !input.WeekStart.IsZero() {
					ref = input.WeekStart
				}
			}
			if week != "" {
				ref, err = time.ParseInLocation("2006-01-02", week, exp.Location())
				if err != nil {
					return fmt.Errorf("invalid --week %q, want YYYY-MM-DD", week)
				}
			}

			ctx, cancel := signalContext()
			defer cancel()

			res, err := exp.Export(ctx, ref, extra)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "Any date inside the target week (YYYY-MM-DD); defaults to the current week")
	cmd.Flags().StringVar(&eventsPath, "events", "", "Path to a backend events JSON file, or - for stdin")
	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory (overrides config)")
	return cmd
}

func serveCommand(flags *rootFlags) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the export HTTP API, with optional cron scheduling",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config %s: %w", flags.configPath, err)
			}
			if listen != "" {
				cfg.Listen = listen
			}

			exp, err := export.New(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			if cfg.ExportCron != "" {
				c := cron.New(cron.WithLocation(exp.Location()))
				_, err := c.AddFunc(cfg.ExportCron, func() {
					if _, err := exp.Export(ctx, time.Now().In(exp.Location()), nil); err != nil {
						appLog.Error("scheduled export failed", err)
					}
				})
				if err != nil {
					return fmt.Errorf("invalid export_cron %q: %w", cfg.ExportCron, err)
				}
				c.Start()
				defer c.Stop()
				appLog.Info("export schedule active", "cron", cfg.ExportCron)
			}

			srv := &http.Server{
				Addr:    cfg.Listen,
				Handler: web.NewServer(cfg, exp).Handler(),
			}

			errCh := make(chan error, 1)
			go func() {
				appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				appLog.Info("shutting down")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config)")
	return cmd
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	return ctx, cancel
}

// readEventsFile loads a backend events feed from a file or stdin.
func readEventsFile(path string) (model.WeekInput, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.WeekInput{}, fmt.Errorf("read events %s: %w", path, err)
	}

	input, dropped, err := model.ParseWeekInput(data)
	if err != nil {
		return model.WeekInput{}, err
	}
	for _, derr := range dropped {
		appLog.Info("event dropped from feed", "reason", derr.Error())
	}
	return input, nil
}
