package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coverly/advisor/internal/config"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Insurance advisory chat backend",
	Long: `advisor serves the insurance advisory chat API: it combines a client
profile snapshot, the names of uploaded policy documents, and the user's
question into a single prompt for the hosted model, and returns the
assistant's reply.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the advisor version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("advisor version %s\n", version)
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage advisor configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config keys and current values",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			// Listing must not require a working setup.
			printWarning("%v", err)
			cfg = config.Config{}
		}
		for _, info := range config.ShowAll(cfg) {
			fmt.Printf("%-28s %-36s %s\n", info.Key, info.Value, info.EnvVar)
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the current value of a config key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printWarning("%v", err)
			cfg = config.Config{}
		}
		val, err := config.GetKey(cfg, args[0])
		if err != nil {
			return err
		}
		fmt.Println(val)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config key in the platform backend",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetKey(args[0], args[1]); err != nil {
			return fmt.Errorf("valid keys: %v: %w", config.ValidKeys(), err)
		}
		printSuccess("Set %s = %s", args[0], args[1])
		return nil
	},
}

var configDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a config key, reverting to the default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DeleteKey(args[0]); err != nil {
			return err
		}
		printSuccess("Deleted %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	configCmd.AddCommand(configGetCmd, configListCmd, configSetCmd, configDeleteCmd)
	rootCmd.AddCommand(serveCmd, stopCmd, statusCmd, askCmd, chatCmd, configCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
