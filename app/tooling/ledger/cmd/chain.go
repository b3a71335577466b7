package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var blockNumber int64

// chainCmd represents the chain command.
var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "List the blocks in the chain",
	Run: func(cmd *cobra.Command, args []string) {
		path := "/v1/blocks/list"
		if blockNumber >= 0 {
			path = fmt.Sprintf("/v1/blocks/list/%d", blockNumber)
		}

		resp, err := client().R().Get(path)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(resp.String())
	},
}

// mempoolCmd represents the mempool command.
var mempoolCmd = &cobra.Command{
	Use:   "mempool",
	Short: "List the uncommitted transactions",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := client().R().Get("/v1/tx/uncommitted/list")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(resp.String())
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(mempoolCmd)
	chainCmd.Flags().Int64VarP(&blockNumber, "number", "n", -1, "Show only the block with this number.")
}
