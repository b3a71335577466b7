package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	proofBlock uint64
	proofTxID  string
)

// proofCmd represents the proof command.
var proofCmd = &cobra.Command{
	Use:   "proof",
	Short: "Retrieve a merkle proof of inclusion for a transaction",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := client().R().Get(fmt.Sprintf("/v1/blocks/proof/%d/%s", proofBlock, proofTxID))
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(resp.String())
	},
}

func init() {
	rootCmd.AddCommand(proofCmd)
	proofCmd.Flags().Uint64VarP(&proofBlock, "number", "n", 0, "Block number holding the transaction.")
	proofCmd.Flags().StringVarP(&proofTxID, "id", "i", "", "Transaction id to prove.")
	proofCmd.MarkFlagRequired("id")
}
