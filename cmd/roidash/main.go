package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"roidash/internal/bootstrap"
	integrationdto "roidash/internal/modules/integration/dto"
	reportdto "roidash/internal/modules/report/dto"
	wizarddto "roidash/internal/modules/wizard/dto"
	"roidash/internal/platform/clock"
	"roidash/internal/platform/config"
	"roidash/internal/platform/logging"
	"roidash/internal/ui/forms"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	dataDir    string
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "roidash",
		Short:         "Client ROI dashboard for AI implementations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", ".roidash", "directory holding the session, config and connectors")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default <data-dir>/roidash.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newSetupCmd(flags))
	root.AddCommand(newStateCmd(flags))
	root.AddCommand(newIntegrationCmd(flags))
	root.AddCommand(newBaselineCmd(flags))
	root.AddCommand(newTrackingCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newConnectorCmd(flags))
	return root
}

// loadApp builds the application. With tui set, logs go to the log file so
// the terminal stays clean.
func loadApp(ctx context.Context, flags *globalFlags, tui bool) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.dataDir, flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	logger, err := logging.New(cfg.Log, tui)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return app, nil
}

// withApp runs fn against a freshly loaded app and releases it afterwards.
func withApp(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := cmd.Context()
	app, err := loadApp(ctx, flags, false)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
		_ = app.Logger.Sync()
	}()
	return fn(ctx, app)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	var exportDir string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the ROI wizard in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, flags, true)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
				_ = app.Logger.Sync()
			}()
			return bootstrap.RunTUI(ctx, app, exportDir)
		},
	}
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for exported reports")
	return cmd
}

func newSetupCmd(flags *globalFlags) *cobra.Command {
	var input wizarddto.SetupInput
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Record the client and the KPIs to track",
		Long:  "Record the client and the KPIs to track. Without --name an interactive form is shown.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				if input.Name == "" {
					if input.StartDate == "" {
						input.StartDate = clock.Today(clock.SystemClock{})
					}
					if err := forms.NewSetupForm(&input).RunWithContext(ctx); err != nil {
						return fmt.Errorf("setup canceled: %w", err)
					}
				} else if len(input.SelectedMetrics) == 0 {
					input.SelectedMetrics = wizarddto.PreselectedMetrics(wizarddto.UseCase(input.UseCase))
				}
				out, err := app.WizardCLI.Setup(ctx, input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "client %s saved (%s); next step %d\n", input.Name, out.ClientID, out.CurrentStep)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&input.Name, "name", "", "client name")
	cmd.Flags().StringVar(&input.Industry, "industry", "SaaS", "industry")
	cmd.Flags().StringVar(&input.Contact, "contact", "", "primary contact")
	cmd.Flags().StringVar(&input.UseCase, "use-case", string(wizarddto.UseCaseCustomerService), "customer_service|sales|marketing|finance|operations")
	cmd.Flags().StringVar(&input.StartDate, "start-date", "", "implementation start date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&input.SelectedMetrics, "metrics", nil, "KPIs to track (default: the suggested ones)")

	cmd.AddCommand(&cobra.Command{
		Use:   "metrics <use-case>",
		Short: "List the KPI suggestions for a use case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(_ context.Context, app *bootstrap.App) error {
				metrics, err := app.WizardCLI.SuggestedMetrics(args[0])
				if err != nil {
					return err
				}
				for _, metric := range metrics {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), metric)
				}
				return nil
			})
		},
	})
	return cmd
}

func newStateCmd(flags *globalFlags) *cobra.Command {
	state := &cobra.Command{Use: "state", Short: "Inspect or move the wizard session"}

	state.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the session as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(app.WizardCLI.State(ctx))
			})
		},
	})

	state.AddCommand(&cobra.Command{
		Use:   "step <n>",
		Short: "Show an unlocked step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("step must be a number: %w", err)
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.WizardCLI.GoTo(ctx, step)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "step %d\n", out.Step)
				return nil
			})
		},
	})

	state.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Discard the session and start over",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				app.WizardCLI.Reset(ctx)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "dashboard reset")
				return nil
			})
		},
	})
	return state
}

func newIntegrationCmd(flags *globalFlags) *cobra.Command {
	integration := &cobra.Command{Use: "integration", Short: "Connect data platforms"}

	integration.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the integrations for the client's use case",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				options, err := app.IntegrationCLI.Available(ctx)
				if err != nil {
					return err
				}
				for _, option := range options {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), formatOption(option))
				}
				return nil
			})
		},
	})

	integration.AddCommand(&cobra.Command{
		Use:   "connect <id>",
		Short: "Connect an integration and wait for its sync",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out := cmd.OutOrStdout()
				return app.IntegrationCLI.ConnectAndWait(ctx, args[0], func(event integrationdto.SyncEvent) {
					_, _ = fmt.Fprintf(out, "%s %s %3d%%\n", event.Platform, event.Status, event.Progress)
				})
			})
		},
	})

	integration.AddCommand(&cobra.Command{
		Use:   "proceed",
		Short: "Move on to the baseline once a platform has synced enough",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.WizardCLI.ProceedToBaseline(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "step %d\n", out.Step)
				return nil
			})
		},
	})
	return integration
}

func newBaselineCmd(flags *globalFlags) *cobra.Command {
	baseline := &cobra.Command{Use: "baseline", Short: "Pre-implementation performance"}

	baseline.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the 90-day baseline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(_ context.Context, app *bootstrap.App) error {
				b := app.WizardCLI.Baseline()
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "tickets (90 days)    %.0f\n", b.TicketVolume)
				_, _ = fmt.Fprintf(out, "avg handle time      %.1f min\n", b.AvgHandleTime)
				_, _ = fmt.Fprintf(out, "first contact res.   %.0f%%\n", b.FCRRate)
				_, _ = fmt.Fprintf(out, "csat                 %.1f\n", b.CSAT)
				_, _ = fmt.Fprintf(out, "cost per ticket      $%.2f\n", b.CostPerTicket)
				return nil
			})
		},
	})

	baseline.AddCommand(&cobra.Command{
		Use:   "capture",
		Short: "Store the baseline and start live tracking",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.WizardCLI.StartTracking(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tracking started; step %d\n", out.Step)
				return nil
			})
		},
	})
	return baseline
}

func newTrackingCmd(flags *globalFlags) *cobra.Command {
	tracking := &cobra.Command{Use: "tracking", Short: "Live performance samples"}

	var date string
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a tracking sample",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				sample, err := app.WizardCLI.AddTracking(ctx, date)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sample recorded for %s\n", sample.Date)
				return nil
			})
		},
	}
	add.Flags().StringVar(&date, "date", "", "sample date (YYYY-MM-DD, default today)")

	tracking.AddCommand(add, &cobra.Command{
		Use:   "list",
		Short: "List recorded samples",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				state := app.WizardCLI.State(ctx)
				if len(state.TrackingData) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no samples")
					return nil
				}
				for _, s := range state.TrackingData {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  tickets=%.0f aht=%.1f fcr=%.0f csat=%.1f cost=%.2f\n",
						s.Date, s.TicketVolume, s.AvgHandleTime, s.FCRRate, s.CSAT, s.CostPerTicket)
				}
				return nil
			})
		},
	})
	return tracking
}

func newReportCmd(flags *globalFlags) *cobra.Command {
	report := &cobra.Command{Use: "report", Short: "Client ROI report"}

	report.AddCommand(&cobra.Command{
		Use:   "view",
		Short: "Record the financial impact and open the report step",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				if _, err := app.WizardCLI.ViewReport(ctx); err != nil {
					return err
				}
				r, err := app.ReportCLI.Show(ctx)
				if err != nil {
					return err
				}
				printReport(cmd, r)
				return nil
			})
		},
	})

	report.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				r, err := app.ReportCLI.Show(ctx)
				if err != nil {
					return err
				}
				printReport(cmd, r)
				return nil
			})
		},
	})

	var format, dir string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the report to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ReportCLI.Export(ctx, format, dir)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s report to %s\n", out.Format, out.Path)
				return nil
			})
		},
	}
	export.Flags().StringVar(&format, "format", "md", "json|yaml|md")
	export.Flags().StringVar(&dir, "dir", ".", "output directory")

	var recipient string
	share := &cobra.Command{
		Use:   "share",
		Short: "Share the report link with a recipient",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ReportCLI.Share(ctx, recipient)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "shared with %s: %s\n", out.Recipient, out.Link)
				return nil
			})
		},
	}
	share.Flags().StringVar(&recipient, "to", "", "recipient email")
	_ = share.MarkFlagRequired("to")

	report.AddCommand(export, share)
	return report
}

func newConnectorCmd(flags *globalFlags) *cobra.Command {
	connector := &cobra.Command{Use: "connector", Short: "Connector plugins"}

	connector.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured connectors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				connectors, err := app.IntegrationCLI.ListConnectors(ctx)
				if err != nil {
					return err
				}
				if len(connectors) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no connectors")
					return nil
				}
				for _, c := range connectors {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tenabled=%t\t%s\n", c.Name, c.Version, c.Enabled, c.Binary)
				}
				return nil
			})
		},
	})

	connector.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check every connector's checksum, binary and handshake",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				results, err := app.IntegrationCLI.Doctor(ctx)
				if err != nil {
					return err
				}
				failed := 0
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tchecksum=%t\tbinary=%t\tlifecycle=%t\tplatforms=%d\t%s\n",
						r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK, r.Platforms, r.Error)
					if r.Error != "" {
						failed++
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d connector(s) unhealthy", failed)
				}
				return nil
			})
		},
	})
	return connector
}

func formatOption(option integrationdto.OptionInfo) string {
	tags := []string{fmt.Sprintf("%d metrics", option.MetricsCount)}
	if option.Recommended {
		tags = append(tags, "recommended")
	}
	if option.Connector != "" {
		tags = append(tags, "via "+option.Connector)
	}
	status := option.Status
	if option.Status == string(wizarddto.StatusConnecting) {
		status = fmt.Sprintf("%s %d%%", status, option.SyncProgress)
	}
	return fmt.Sprintf("%-20s %-28s %-16s %s", option.ID, option.Name, status, strings.Join(tags, ", "))
}

func printReport(cmd *cobra.Command, r reportdto.Report) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "ROI Report: %s (%s, %s)\n", r.Client.Name, r.Client.Industry, r.Client.UseCase)
	_, _ = fmt.Fprintf(out, "generated %s", r.GeneratedOn)
	if r.TrackingStartDate != "" {
		_, _ = fmt.Fprintf(out, ", tracking since %s (%d samples)", r.TrackingStartDate, r.TrackingSamples)
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "\nsavings            %s\n", reportdto.Money(r.Impact.Savings))
	_, _ = fmt.Fprintf(out, "revenue impact     %s\n", reportdto.Money(r.Impact.Revenue))
	_, _ = fmt.Fprintf(out, "combined value     %s\n", reportdto.Money(r.Impact.Combined))
	_, _ = fmt.Fprintf(out, "annual projection  %s\n\n", reportdto.Money(r.Impact.AnnualProjection))
	for _, c := range r.Comparisons {
		_, _ = fmt.Fprintf(out, "%-40s %10g -> %-10g %+.1f%%\n", c.Metric+" ("+c.Unit+")", c.Before, c.After, c.Change)
	}
	if len(r.Integrations) > 0 {
		_, _ = fmt.Fprintf(out, "\ndata sources: %s\n", strings.Join(r.Integrations, ", "))
	}
}
