package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/flowweave/internal/event"
	"github.com/shaiso/flowweave/internal/orchestrator"
	"github.com/shaiso/flowweave/internal/telemetry"
)

// ErrFlowFailed — хотя бы одна комбинация завершилась не SUCCESS.
// Транслируется в ненулевой код возврата процесса.
var ErrFlowFailed = errors.New("flow finished with failures")

// NewRunCmd создаёт команду однократного запуска flow.
func NewRunCmd() *cobra.Command {
	var parallel bool
	var showLog bool
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run FLOW",
		Short: "Run a flow file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flowSpec, registry, err := loadFlow(args[0])
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				stop := telemetry.ServeMetrics(metricsAddr)
				defer stop()
			}

			orch := orchestrator.New(orchestrator.Config{
				Registry: registry,
				Sink:     event.NewConsole(os.Stdout, showLog),
				Logger:   telemetry.SetupLogger(),
			})

			results := orch.Run(cmd.Context(), flowSpec, parallel)
			if !orchestrator.AllSucceeded(results) {
				return ErrFlowFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&parallel, "parallel", "p", false, "Run combinations in parallel")
	cmd.Flags().BoolVarP(&showLog, "log", "l", false, "Show flow log")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	return cmd
}
