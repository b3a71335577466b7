// Package cmd contains the ledger client commands.
package cmd

import (
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var url string

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "A client for the ledger node",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// client constructs a resty client bound to the configured node.
func client() *resty.Client {
	return resty.New().SetBaseURL(url).SetHeader("Accept", "application/json")
}
