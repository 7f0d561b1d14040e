package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Inventory and order management web application",
	Long: `Inventory serves the inventory and order management web application and
carries the database maintenance commands.

Configuration is read from environment variables, optionally loaded from a
.env file first.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing env file is fine; the environment alone may configure us.
		_ = godotenv.Load(envFile)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an env file to load before reading configuration")
	rootCmd.AddCommand(serveCmd, initDBCmd, resetDBCmd)
}
