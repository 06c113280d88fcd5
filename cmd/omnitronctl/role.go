package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omnitron/omnitron-in-go/pkg/db"
	gormstore "github.com/omnitron/omnitron-in-go/pkg/server/store/gorm"
)

// roleCmd represents the role command
var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage roles and assignments",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'role' requires a subcommand (create, grant, permit)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var roleCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		role, err := gormstore.NewRBACStore(conn).CreateRole(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create role %s: %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Printf("Created role '%s' (%s)\n", role.Name, role.ID)
	},
}

// roleGrantCmd adds a user to a role
var roleGrantCmd = &cobra.Command{
	Use:   "grant <role> <username>",
	Short: "Grant a role to a user",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		roleName, username := args[0], args[1]

		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		rbac := gormstore.NewRBACStore(conn)
		role, err := rbac.FetchRole(roleName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unknown role %s: %v\n", roleName, err)
			os.Exit(1)
		}
		user, err := gormstore.NewIdentityStore(conn).FetchUser(username)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unknown user %s: %v\n", username, err)
			os.Exit(1)
		}

		if err := rbac.AssignUserRole(user.ID, role.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to grant role: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Granted '%s' to '%s'\n", roleName, username)
	},
}

// rolePermitCmd attaches a role to a target
var rolePermitCmd = &cobra.Command{
	Use:   "permit <role> <target>",
	Short: "Permit a role on a target",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		roleName, targetName := args[0], args[1]

		conn, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		rbac := gormstore.NewRBACStore(conn)
		role, err := rbac.FetchRole(roleName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unknown role %s: %v\n", roleName, err)
			os.Exit(1)
		}
		target, err := gormstore.NewTargetsStore(conn).Resolve(targetName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unknown target %s: %v\n", targetName, err)
			os.Exit(1)
		}

		if err := rbac.AssignTargetRole(target.ID, role.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to permit role: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Permitted '%s' on '%s'\n", roleName, targetName)
	},
}

func init() {
	rootCmd.AddCommand(roleCmd)
	roleCmd.AddCommand(roleCreateCmd)
	roleCmd.AddCommand(roleGrantCmd)
	roleCmd.AddCommand(rolePermitCmd)
}
