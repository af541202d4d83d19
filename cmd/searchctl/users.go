package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "User operations"}

	// create
	var userId, email, fullName string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userId == "" || email == "" {
				return fmt.Errorf("--userId and --email required")
			}
			c, err := apiClient()
			if err != nil {
				return err
			}
			var displayName *string
			if fullName != "" {
				displayName = &fullName
			}
			u, err := c.CreateUser(cmd.Context(), userId, email, displayName)
			if err != nil {
				return err
			}
			return printJSON(u)
		},
	}
	createCmd.Flags().StringVarP(&userId, "userId", "u", "", "UserID (required)")
	createCmd.Flags().StringVarP(&email, "email", "e", "", "User email (required)")
	createCmd.Flags().StringVarP(&fullName, "name", "n", "", "Display name")
	_ = createCmd.MarkFlagRequired("userId")
	usersCmd.AddCommand(createCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get user by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient()
			if err != nil {
				return err
			}
			u, err := c.GetUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(u)
		},
	}
	usersCmd.AddCommand(getCmd)

	rootCmd.AddCommand(usersCmd)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
