package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/omnitron/omnitron-in-go/pkg/db"
	gormstore "github.com/omnitron/omnitron-in-go/pkg/server/store/gorm"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  `Manage gateway users and their passwords.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'user' requires a subcommand (create, set-password)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user",
	Long: `Create a user.

Example:
  omnitronctl user create alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]

		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		user, err := gormstore.NewIdentityStore(conn).CreateUser(username)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user %s: %v\n", username, err)
			os.Exit(1)
		}
		fmt.Printf("Created user '%s' (%s)\n", user.Username, user.ID)
	},
}

var userSetPasswordCmd = &cobra.Command{
	Use:   "set-password <username>",
	Short: "Set a user's password",
	Long: `Set a user's password.

The password is read from stdin. With a terminal attached, input is
hidden.

Example:
  omnitronctl user set-password alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]

		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		identity := gormstore.NewIdentityStore(conn)
		user, err := identity.FetchUser(username)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unknown user %s: %v\n", username, err)
			os.Exit(1)
		}

		password, err := readPassword()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to read password:", err)
			os.Exit(1)
		}

		if err := identity.SetPassword(user.ID, password); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to set password: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Password updated for '%s'\n", username)
	},
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(raw), err
	}

	var password string
	_, err := fmt.Fscanln(os.Stdin, &password)
	return password, err
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userSetPasswordCmd)
}
