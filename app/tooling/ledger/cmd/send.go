package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	sender   string
	receiver string
	amount   uint64
)

// sendCmd represents the send command.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the mempool",
	Run: func(cmd *cobra.Command, args []string) {
		tx := struct {
			Sender   string `json:"sender"`
			Receiver string `json:"receiver"`
			Amount   uint64 `json:"amount"`
		}{
			Sender:   sender,
			Receiver: receiver,
			Amount:   amount,
		}

		resp, err := client().R().SetBody(tx).Post("/v1/tx/submit")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(resp.String())
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "sender", "s", "", "Account sending the funds.")
	sendCmd.Flags().StringVarP(&receiver, "receiver", "r", "", "Account receiving the funds.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("sender")
	sendCmd.MarkFlagRequired("receiver")
	sendCmd.MarkFlagRequired("amount")
}
