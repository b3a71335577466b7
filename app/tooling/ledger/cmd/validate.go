package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Audit the chain and report any infractions",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := client().R().Get("/v1/chain/validate")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(resp.String())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
