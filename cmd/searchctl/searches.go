package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	var userFlag string

	searchesCmd := &cobra.Command{Use: "searches", Short: "Saved search operations"}
	searchesCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Owner user ID (required)")
	_ = searchesCmd.MarkPersistentFlagRequired("user")

	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved searches in position order",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient()
			if err != nil {
				return err
			}
			searches, err := c.ListSearches(cmd.Context(), userFlag)
			if err != nil {
				return err
			}
			return printJSON(searches)
		},
	}
	searchesCmd.AddCommand(listCmd)

	// create
	var name, query string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a saved search at the end of the list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || query == "" {
				return fmt.Errorf("--name and --query required")
			}
			c, err := apiClient()
			if err != nil {
				return err
			}
			s, err := c.CreateSearch(cmd.Context(), userFlag, name, query)
			if err != nil {
				return err
			}
			return printJSON(s)
		},
	}
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Search name (required)")
	createCmd.Flags().StringVarP(&query, "query", "q", "", "Search query (required)")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("query")
	searchesCmd.AddCommand(createCmd)

	// move
	var position int
	moveCmd := &cobra.Command{
		Use:   "move SEARCH_ID",
		Short: "Move a saved search to a new position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient()
			if err != nil {
				return err
			}
			s, err := c.MoveSearch(cmd.Context(), userFlag, args[0], position)
			if err != nil {
				return err
			}
			return printJSON(s)
		},
	}
	moveCmd.Flags().IntVarP(&position, "position", "p", 0, "Target position (0-based)")
	_ = moveCmd.MarkFlagRequired("position")
	searchesCmd.AddCommand(moveCmd)

	// rename
	var newName string
	renameCmd := &cobra.Command{
		Use:   "rename SEARCH_ID",
		Short: "Rename a saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if newName == "" {
				return fmt.Errorf("--name required")
			}
			c, err := apiClient()
			if err != nil {
				return err
			}
			s, err := c.UpdateSearch(cmd.Context(), userFlag, args[0], &newName, nil, nil)
			if err != nil {
				return err
			}
			return printJSON(s)
		},
	}
	renameCmd.Flags().StringVarP(&newName, "name", "n", "", "New name (required)")
	searchesCmd.AddCommand(renameCmd)

	// delete
	deleteCmd := &cobra.Command{
		Use:   "delete SEARCH_ID",
		Short: "Delete a saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient()
			if err != nil {
				return err
			}
			if err := c.DeleteSearch(cmd.Context(), userFlag, args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
	searchesCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(searchesCmd)
}
