// flowweave — декларативный оркестратор рабочих процессов.
//
// Использование:
//
//	flowweave run FLOW [-p] [-l] [--metrics-addr ADDR]
//	flowweave info [FLOW]
//	flowweave schedule FLOW --cron EXPR [-p] [-l]
//
// FLOW — путь к YAML файлу либо короткое имя (flow/<name>.yml).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/flowweave/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "flowweave",
		Short:         "FlowWeave — declarative workflow orchestrator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		cli.NewRunCmd(),
		cli.NewInfoCmd(),
		cli.NewScheduleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		// Провал flow — штатный исход запуска, не ошибка использования.
		if !errors.Is(err, cli.ErrFlowFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
