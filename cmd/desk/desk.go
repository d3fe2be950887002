package desk

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/ticketcreator_backend/config"
	"github.com/Alijeyrad/ticketcreator_backend/internal/desk"
	"github.com/Alijeyrad/ticketcreator_backend/pkg/client"
)

// NewDeskCommand is the terminal client. Every subcommand loads the full
// ticket list through the desk controller, acts, and prints the result.
func NewDeskCommand() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "desk",
		Short: "Terminal client for the tickets API",
	}
	cmd.PersistentFlags().StringVar(&baseURL, "url", "", "API base URL (overrides client.base_url)")

	open := func(cmd *cobra.Command) (*desk.Controller, context.Context, context.CancelFunc, error) {
		cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return nil, nil, nil, err
		}
		cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
		if err != nil {
			return nil, nil, nil, err
		}
		if baseURL != "" {
			cfg.Client.BaseURL = baseURL
		}

		timeout := time.Duration(cfg.Client.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 4*timeout)

		ctrl := desk.NewController(client.NewFromConfig(cfg.Client))
		if err := ctrl.Load(ctx); err != nil {
			cancel()
			return nil, nil, nil, fmt.Errorf("load tickets from %s: %w", cfg.Client.BaseURL, err)
		}
		return ctrl, ctx, cancel, nil
	}

	cmd.AddCommand(
		newListCommand(open),
		newShowCommand(open),
		newCreateCommand(open),
		newUpdateCommand(open),
		newDeleteCommand(open),
		newNoteCommand(open),
		newStepCommand(open),
	)

	return cmd
}

type opener func(cmd *cobra.Command) (*desk.Controller, context.Context, context.CancelFunc, error)
