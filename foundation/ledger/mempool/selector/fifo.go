package selector

import (
	"sort"

	"github.com/minichain/ledger/foundation/ledger/database"
)

// fifoSelect returns transactions in their arrival order.
var fifoSelect = func(trans []database.Tx, howMany int) []database.Tx {
	sorted := append([]database.Tx(nil), trans...)
	sort.Sort(byTimeStamp(sorted))

	if howMany == -1 || howMany > len(sorted) {
		howMany = len(sorted)
	}

	return sorted[:howMany]
}
