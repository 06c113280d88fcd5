package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omnitron/omnitron-in-go/pkg/db"
	"github.com/omnitron/omnitron-in-go/pkg/model"
	gormstore "github.com/omnitron/omnitron-in-go/pkg/server/store/gorm"
)

// targetCmd represents the target command
var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Manage upstream targets",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'target' requires a subcommand (create, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var targetCreateCmd = &cobra.Command{
	Use:   "create <name> <url>",
	Short: "Register an upstream target",
	Long: `Register an upstream target.

Example:
  omnitronctl target create billing http://billing.internal:8080
  omnitronctl target create billing https://billing.internal --tls-mode required --tls-no-verify`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name, url := args[0], args[1]
		tlsMode, _ := cmd.Flags().GetString("tls-mode")
		noVerify, _ := cmd.Flags().GetBool("tls-no-verify")

		switch model.TLSMode(tlsMode) {
		case model.TLSModeDisabled, model.TLSModePreferred, model.TLSModeRequired:
		default:
			fmt.Fprintf(os.Stderr, "Invalid TLS mode %q (disabled, preferred or required)\n", tlsMode)
			os.Exit(1)
		}

		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		target, err := gormstore.NewTargetsStore(conn).CreateTarget(name, model.TargetOptions{
			Kind: model.TargetKindHTTP,
			URL:  url,
			TLS: model.TLSOptions{
				Mode:   model.TLSMode(tlsMode),
				Verify: !noVerify,
			},
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create target %s: %v\n", name, err)
			os.Exit(1)
		}
		fmt.Printf("Created target '%s' (%s) -> %s\n", target.Name, target.ID, url)
	},
}

var targetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List targets",
	Run: func(cmd *cobra.Command, args []string) {
		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		targets, err := gormstore.NewTargetsStore(conn).ListTargets()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list targets: %v\n", err)
			os.Exit(1)
		}

		for _, t := range targets {
			fmt.Printf("%s  %s kind=%s url=%s tls=%s\n", t.ID, t.Name, t.Options.Kind, t.Options.URL, t.Options.TLS.Mode)
		}
	},
}

func init() {
	rootCmd.AddCommand(targetCmd)
	targetCmd.AddCommand(targetCreateCmd)
	targetCmd.AddCommand(targetListCmd)

	targetCreateCmd.Flags().String("tls-mode", string(model.TLSModePreferred), "TLS mode for the upstream (disabled, preferred, required)")
	targetCreateCmd.Flags().Bool("tls-no-verify", false, "skip upstream certificate verification")
}
