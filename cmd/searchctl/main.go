package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/searchrail/searchrail/client"
)

var (
	apiFlag string
	keyFlag string
	rootCmd = &cobra.Command{
		Use:   "searchctl",
		Short: "CLI client for the search service REST API",
	}
)

// apiClient builds a client from the persistent flags.
func apiClient() (*client.Client, error) {
	if keyFlag == "" {
		return nil, fmt.Errorf("--key required (e.g. sk_local_<userId>)")
	}
	return client.New(apiFlag, keyFlag), nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Search service base URL")
	rootCmd.PersistentFlags().StringVarP(&keyFlag, "key", "k", "", "API key (required)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
