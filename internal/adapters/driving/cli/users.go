package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage connected accounts",
	Long: `List and remove the Google accounts that have authorized this agent.

Examples:
  folio users list
  folio users remove 109876543210987654321`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connected accounts",
	RunE:  runUsersList,
}

var usersRemoveCmd = &cobra.Command{
	Use:   "remove [user-id]",
	Short: "Remove a connected account and its stored tokens",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersRemove,
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersRemoveCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersList(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if credentialService == nil {
		return errors.New("credential service not configured")
	}

	users, err := credentialService.ListUsers(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		cmd.Println("No connected accounts.")
		cmd.Println("Connect one with: folio auth login")
		return nil
	}

	cmd.Println("Connected accounts:")
	cmd.Println()
	for i := range users {
		cmd.Printf("  %s\n", users[i].UserID)
		cmd.Printf("    Email: %s\n", users[i].Email)
		if !users[i].UpdatedAt.IsZero() {
			cmd.Printf("    Updated: %s\n", users[i].UpdatedAt.Format(time.RFC3339))
		}
		cmd.Println()
	}

	return nil
}

func runUsersRemove(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if credentialService == nil {
		return errors.New("credential service not configured")
	}

	userID := args[0]
	if err := credentialService.RemoveUser(cmd.Context(), userID); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}

	cmd.Printf("Removed account: %s\n", userID)
	return nil
}
