package system

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/ticketcreator_backend/config"
)

func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with every default value",
		Long: `Write a config file holding every setting with its default value.
An existing file is never overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}

			if err := config.WriteDefaults(cfgPath); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("Config written to %s\n", cfgPath)
			return nil
		},
	}

	return cmd
}
