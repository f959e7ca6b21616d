package main

import (
	"context"
	"fmt"
	"os"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rangeband/backend"
	"rangeband/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "rangeband",
		Short:        "Interactive liquidity range chart",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Open the chart window",
		RunE:  runChart,
	}

	runCmd.Flags().String("snapshot", "", "pool snapshot JSON path (synthetic data when empty)")
	runCmd.Flags().String("window", "week", "history window (hour, day, week, month, year)")
	runCmd.Flags().Bool("full-range", false, "start with a full-range selection")
	runCmd.Flags().Int64("seed", 1, "synthetic data seed")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func runChart(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mutator := stream.NewMutator(ctx)
	bundle, err := backend.NewBundle(ctx, mutator)
	if err != nil {
		return err
	}

	if cfg.Snapshot != "" {
		logger.Info("loading snapshot", zap.String("path", cfg.Snapshot))
		bundle.Datasource.LoadPath(cfg.Snapshot)
	} else {
		logger.Info("using synthetic snapshot", zap.Int64("seed", cfg.Seed))
		bundle.Datasource.Synthetic(cfg.Seed)
	}

	go func() {
		w := app.NewWindow(
			app.Title("Liquidity Range"),
			app.Size(unit.Dp(900), unit.Dp(600)),
		)
		ws := backend.NewWindowState(ctx, bundle, w)
		ui := NewUI(ws, w, explorer.NewExplorer(w), cfg, logger)
		if err := loop(w, ui); err != nil {
			logger.Error("window loop", zap.Error(err))
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}

func loop(w *app.Window, ui *UI) error {
	var ops op.Ops
	for {
		ev := w.NextEvent()
		ui.expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case system.DestroyEvent:
			return ev.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
