package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/omnitron/omnitron-in-go/pkg/config"
	"github.com/omnitron/omnitron-in-go/pkg/db"
	gormstore "github.com/omnitron/omnitron-in-go/pkg/server/store/gorm"
)

// ticketCmd represents the ticket command
var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Manage access tickets",
	Long:  `Issue, list and revoke access tickets.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'ticket' requires a subcommand (issue, list, revoke)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var ticketIssueCmd = &cobra.Command{
	Use:   "issue <username> <target>",
	Short: "Issue a ticket for a user",
	Long: `Issue an access ticket bound to a user and a target.

The plaintext secret is printed to stdout exactly once. Only a digest is
stored; a lost secret cannot be recovered, only revoked and reissued.

Example:
  omnitronctl ticket issue alice billing
  omnitronctl ticket issue alice billing --ttl 1h --uses 5`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		username, targetName := args[0], args[1]
		ttl, _ := cmd.Flags().GetDuration("ttl")
		uses, _ := cmd.Flags().GetInt("uses")

		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		if _, err := gormstore.NewIdentityStore(conn).FetchUser(username); err != nil {
			fmt.Fprintf(os.Stderr, "Unknown user %s: %v\n", username, err)
			os.Exit(1)
		}
		if _, err := gormstore.NewTargetsStore(conn).Resolve(targetName); err != nil {
			fmt.Fprintf(os.Stderr, "Unknown target %s: %v\n", targetName, err)
			os.Exit(1)
		}

		if ttl == 0 {
			ttl = config.Get().DefaultTicketTTL()
		}
		var expiry *time.Time
		if ttl > 0 {
			e := time.Now().Add(ttl)
			expiry = &e
		}
		var usesLeft *int
		if uses > 0 {
			usesLeft = &uses
		}

		ticket, err := gormstore.NewTicketsStore(conn).Issue(username, targetName, expiry, usesLeft)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue ticket: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Issued ticket %s for '%s' on '%s'\n", ticket.ID, username, targetName)
		fmt.Println(ticket.PlainSecret)
	},
}

var ticketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets",
	Run: func(cmd *cobra.Command, args []string) {
		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		tickets, err := gormstore.NewTicketsStore(conn).ListTickets()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list tickets: %v\n", err)
			os.Exit(1)
		}

		for _, t := range tickets {
			expiry := "never"
			if t.Expiry != nil {
				expiry = t.Expiry.Format(time.RFC3339)
			}
			uses := "unlimited"
			if t.UsesLeft != nil {
				uses = fmt.Sprintf("%d", *t.UsesLeft)
			}
			fmt.Printf("%s  user=%s target=%s expiry=%s uses=%s\n", t.ID, t.Username, t.TargetName, expiry, uses)
		}
	},
}

var ticketRevokeCmd = &cobra.Command{
	Use:   "revoke <ticket_id>",
	Short: "Revoke a ticket",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid ticket id %s\n", args[0])
			os.Exit(1)
		}

		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		if err := gormstore.NewTicketsStore(conn).Revoke(id); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to revoke ticket: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Revoked ticket %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(ticketCmd)
	ticketCmd.AddCommand(ticketIssueCmd)
	ticketCmd.AddCommand(ticketListCmd)
	ticketCmd.AddCommand(ticketRevokeCmd)

	ticketIssueCmd.Flags().Duration("ttl", 0, "ticket lifetime (0 = use configured default)")
	ticketIssueCmd.Flags().Int("uses", 0, "number of uses (0 = unlimited)")
}
