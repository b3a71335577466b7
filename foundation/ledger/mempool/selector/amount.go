package selector

import (
	"sort"

	"github.com/minichain/ledger/foundation/ledger/database"
)

// amountSelect returns the transactions moving the most value first.
var amountSelect = func(trans []database.Tx, howMany int) []database.Tx {
	sorted := append([]database.Tx(nil), trans...)
	sort.Sort(byAmount(sorted))

	if howMany == -1 || howMany > len(sorted) {
		howMany = len(sorted)
	}

	return sorted[:howMany]
}
