package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/ncirc/internal/adapters/tui"
	"github.com/example/ncirc/internal/wire"
)

// InteractiveCmd returns the interactive command
func InteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"ui"},
		Short:   "Explore reductions with a terminal slider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			return tui.Run(context.Background(), wire.ScenarioService(), tui.SliderOptions{
				Initial: cfg.DefaultReduction,
				Max:     cfg.SliderMax,
				Step:    cfg.SliderStep,
			})
		},
	}
}
