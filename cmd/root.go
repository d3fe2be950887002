package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	deskcmd "github.com/Alijeyrad/ticketcreator_backend/cmd/desk"
	httpcmd "github.com/Alijeyrad/ticketcreator_backend/cmd/http"
	systemcmd "github.com/Alijeyrad/ticketcreator_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Ticket Creator: a ticket tracker with steps and notes.",
	Long: `Ticket Creator tracks work items per project. Each ticket carries an
ordered checklist of steps and a log of notes.

Run "tickets http start" for the REST API and "tickets desk" for the
terminal client.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(deskcmd.NewDeskCommand())
}
