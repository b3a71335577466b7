// Package selector provides different transaction selecting algorithms.
package selector

import (
	"fmt"

	"github.com/minichain/ledger/foundation/ledger/database"
)

// List of different select strategies.
const (
	StrategyFIFO   = "fifo"
	StrategyAmount = "amount"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyFIFO:   fifoSelect,
	StrategyAmount: amountSelect,
}

// Func defines a function that takes the pending transactions and selects
// howMany of them in an order based on the function's strategy. Receiving
// -1 for howMany must return all the transactions in the strategy's
// ordering.
type Func func(trans []database.Tx, howMany int) []database.Tx

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// byTimeStamp provides sorting support by the transaction creation time.
type byTimeStamp []database.Tx

// Len returns the number of transactions in the list.
func (bt byTimeStamp) Len() int {
	return len(bt)
}

// Less helps to sort the list by creation time in ascending order to keep
// the transactions in their arrival order.
func (bt byTimeStamp) Less(i, j int) bool {
	if bt[i].TimeStamp == bt[j].TimeStamp {
		return bt[i].ID < bt[j].ID
	}
	return bt[i].TimeStamp < bt[j].TimeStamp
}

// Swap moves transactions in the order of the timestamp value.
func (bt byTimeStamp) Swap(i, j int) {
	bt[i], bt[j] = bt[j], bt[i]
}

// =============================================================================

// byAmount provides sorting support by the transaction amount value.
type byAmount []database.Tx

// Len returns the number of transactions in the list.
func (ba byAmount) Len() int {
	return len(ba)
}

// Less helps to sort the list by amount in descending order to pick the
// largest transfers first.
func (ba byAmount) Less(i, j int) bool {
	if ba[i].Amount == ba[j].Amount {
		return ba[i].ID < ba[j].ID
	}
	return ba[i].Amount > ba[j].Amount
}

// Swap moves transactions in the order of the amount value.
func (ba byAmount) Swap(i, j int) {
	ba[i], ba[j] = ba[j], ba[i]
}
