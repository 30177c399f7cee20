package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/futbol-analytics/scouting-warehouse/internal/app"
	"github.com/futbol-analytics/scouting-warehouse/internal/config"
	"github.com/futbol-analytics/scouting-warehouse/internal/observability"
	"github.com/futbol-analytics/scouting-warehouse/internal/platform/logging"
	"github.com/futbol-analytics/scouting-warehouse/internal/usecase"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "warehouse",
		Short:         "Load the scouting workbook into the star-schema warehouse",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newLoadCmd(), newVersionCmd())
	return root
}

type loadFlags struct {
	source     string
	year       int
	policy     string
	normalizer string
	report     string
	dryRun     bool
}

func newLoadCmd() *cobra.Command {
	var flags loadFlags

	cmd := &cobra.Command{
		Use:   "load [steps...]",
		Short: "Run the load steps in dependency order",
		Long: `Runs the requested steps (default: all) in the fixed order
players, matches, callups, match-stats, monthly-perf.

Every run appends. Unless --policy=skip-existing is set, loading the same
workbook twice duplicates every table.`,
		ValidArgs: stepNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := usecase.ParseSteps(args)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}
			return runLoad(cmd.Context(), cfg, flags.dryRun, steps)
		},
	}

	cmd.Flags().StringVar(&flags.source, "source", "", "path to the source workbook (overrides SOURCE_PATH)")
	cmd.Flags().IntVar(&flags.year, "year", 0, "year stamped on monthly performance rows (overrides MONTHLY_YEAR)")
	cmd.Flags().StringVar(&flags.policy, "policy", "", "dimension idempotency policy: append|skip-existing")
	cmd.Flags().StringVar(&flags.normalizer, "normalizer", "", "key normalizer: exact|casefold|accentfold|tokenset")
	cmd.Flags().StringVar(&flags.report, "report", "", "write the JSON run report to this path instead of stdout")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "load into an in-memory sink; nothing is written to the database")
	return cmd
}

func (f loadFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("source") {
		cfg.SourcePath = f.source
	}
	if cmd.Flags().Changed("year") {
		cfg.MonthlyYear = f.year
	}
	if cmd.Flags().Changed("policy") {
		cfg.IdempotencyPolicy = f.policy
	}
	if cmd.Flags().Changed("normalizer") {
		cfg.KeyNormalizer = f.normalizer
	}
	if cmd.Flags().Changed("report") {
		cfg.ReportPath = f.report
	}
	return cfg.Validate()
}

func runLoad(ctx context.Context, cfg config.Config, dryRun bool, steps []usecase.Step) error {
	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flush traces failed", "error", err)
		}
	}()

	warehouse, err := app.NewWarehouse(ctx, cfg, dryRun, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := warehouse.Close(); err != nil {
			logger.Warn("close warehouse failed", "error", err)
		}
	}()

	report, runErr := warehouse.Run(ctx, steps...)
	if report.RunID != "" {
		if err := app.SaveReport(cfg.ReportPath, report); err != nil {
			logger.Error("write run report failed", "error", err)
		}
	}
	return runErr
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func stepNames() []string {
	out := make([]string, 0, len(usecase.AllSteps))
	for _, step := range usecase.AllSteps {
		out = append(out, string(step))
	}
	return out
}
