// This program provides a command line client for the ledger node.
package main

import "github.com/minichain/ledger/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}
