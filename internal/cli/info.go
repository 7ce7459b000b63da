package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/shaiso/flowweave/internal/ops"
)

// NewInfoCmd создаёт команду просмотра доступных операций.
func NewInfoCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info [FLOW]",
		Short: "Show available operation codes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(jsonOutput)

			if len(args) == 0 {
				codes := ops.DefaultRegistry().Codes()
				rows := make([][]string, len(codes))
				for i, code := range codes {
					rows[i] = []string{code}
				}
				out.Print([]string{"OP"}, rows, codes)
				return nil
			}

			flowSpec, _, err := loadFlow(args[0])
			if err != nil {
				return err
			}

			// Stages в порядке flow, tasks внутри stage — по имени.
			type taskOp struct {
				Stage string `json:"stage"`
				Task  string `json:"task"`
				Op    string `json:"op"`
			}
			var items []taskOp

			for _, stageName := range flowSpec.Flow {
				stage := flowSpec.Stages[stageName]

				names := make([]string, 0, len(stage))
				for name := range stage {
					names = append(names, name)
				}
				sort.Strings(names)

				for _, name := range names {
					items = append(items, taskOp{
						Stage: stageName,
						Task:  name,
						Op:    stage[name].Op,
					})
				}
			}

			rows := make([][]string, len(items))
			for i, item := range items {
				rows[i] = []string{item.Stage, item.Task, item.Op}
			}
			out.Print([]string{"STAGE", "TASK", "OP"}, rows, items)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
