package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaiso/flowweave/internal/event"
	"github.com/shaiso/flowweave/internal/orchestrator"
	"github.com/shaiso/flowweave/internal/scheduler"
	"github.com/shaiso/flowweave/internal/telemetry"
)

// NewScheduleCmd создаёт команду повторяющихся запусков flow по cron.
func NewScheduleCmd() *cobra.Command {
	var cronExpr string
	var parallel bool
	var showLog bool
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "schedule FLOW --cron EXPR",
		Short: "Run a flow repeatedly on a cron schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := scheduler.ValidateCronExpr(cronExpr); err != nil {
				return err
			}

			flowSpec, registry, err := loadFlow(args[0])
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				stop := telemetry.ServeMetrics(metricsAddr)
				defer stop()
			}

			logger := telemetry.SetupLogger()

			orch := orchestrator.New(orchestrator.Config{
				Registry: registry,
				Sink:     event.NewConsole(os.Stdout, showLog),
				Logger:   logger,
			})

			sched := scheduler.New(scheduler.Config{
				Orchestrator: orch,
				Logger:       logger,
			})

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := sched.Add(ctx, flowSpec, cronExpr, parallel); err != nil {
				return err
			}

			logger.Info("scheduler started", "flow", flowSpec.Name, "cron", cronExpr)
			sched.Start()

			<-ctx.Done()

			logger.Info("shutting down scheduler")
			sched.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression (5 fields)")
	cmd.Flags().BoolVarP(&parallel, "parallel", "p", false, "Run combinations in parallel")
	cmd.Flags().BoolVarP(&showLog, "log", "l", false, "Show flow log")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.MarkFlagRequired("cron")

	return cmd
}
