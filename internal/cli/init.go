package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/ncirc/internal/config"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .ncirc/config.json",
		Long:  `Create .ncirc/config.json in the current directory with default settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			force, _ := cmd.Flags().GetBool("force")

			path := filepath.Join(dir, config.DirName, "config.json")
			if _, err := config.LoadConfig(dir); err == nil && !force {
				fmt.Printf("Config already exists at %s (use --force to overwrite)\n", path)
				return nil
			} else if err != nil && !errors.Is(err, os.ErrNotExist) && !force {
				return err
			}

			if err := config.SaveConfig(dir, config.Default()); err != nil {
				return err
			}

			fmt.Printf("✓ Config written to %s\n", path)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  ncirc baseline")
			fmt.Println("  ncirc show --reduction 5")
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing config")
	return cmd
}
