package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omnitron/omnitron-in-go/pkg/config"
)

// configurationCmd represents the configuration command
var configurationCmd = &cobra.Command{
	Use:     "configuration",
	Aliases: []string{"config"},
	Short:   "Manage gateway configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'configuration' requires a subcommand (show)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration attributes and their sources",
	Long: `Show configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources, the environment variables and config file. They
may differ from what a running gateway currently uses.

Config file location: /etc/omnitron/config/omnitron.yml (or OMNITRON_CONFIG_PATH)

Example:
  omnitronctl configuration show
  omnitronctl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(configurationCmd)
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if output == "json" {
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Println(jsonOutput)
		return nil
	}

	fmt.Print(cfg.FormatText())
	return nil
}
