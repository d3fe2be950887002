package system

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/ticketcreator_backend/config"
	"github.com/Alijeyrad/ticketcreator_backend/internal/store/mongostore"
	"github.com/Alijeyrad/ticketcreator_backend/pkg/mongodb"
)

func NewIndexesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "Create the ticket collection indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*mongodb.ConnectTimeout(cfg.Mongo))
			defer cancel()

			client, err := mongodb.Connect(ctx, cfg.Mongo)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			st := mongostore.New(mongodb.Collection(client, cfg.Mongo))
			if err := st.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("failed to create indexes: %w", err)
			}

			fmt.Printf("Indexes ready on %s.%s\n", cfg.Mongo.Database, cfg.Mongo.Collection)
			return nil
		},
	}

	return cmd
}
