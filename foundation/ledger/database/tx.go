package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/minichain/ledger/foundation/ledger/digest"
)

// Set of transaction validation failures.
var (
	ErrEmptySender   = errors.New("sender identifier is empty")
	ErrEmptyReceiver = errors.New("receiver identifier is empty")
	ErrZeroAmount    = errors.New("amount must be greater than zero")
)

// Tx is the value transfer record between two parties. A transaction is
// immutable once constructed and is owned by exactly one block once it has
// been included in the chain.
type Tx struct {
	ID        string `json:"id"`        // Unique id assigned at construction.
	Sender    string `json:"sender"`    // Identifier of the party sending value.
	Receiver  string `json:"receiver"`  // Identifier of the party receiving value.
	Amount    uint64 `json:"amount"`    // Value being transferred in whole units.
	TimeStamp uint64 `json:"timestamp"` // Time the transaction was created.
}

// NewTx constructs a new transaction, stamping it with the creation time
// and a unique id. Construction never fails, judgement on the field values
// is deferred to Validate so callers can decide policy.
func NewTx(sender string, receiver string, amount uint64) Tx {
	return Tx{
		ID:        uuid.NewString(),
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		TimeStamp: uint64(time.Now().UTC().Unix()),
	}
}

// Validate checks the transaction fields are usable for inclusion in a
// block and reports the specific rejection reason. Validation is local,
// there is no chain state involved. A sender is allowed to transfer value
// to themselves.
func (tx Tx) Validate() error {
	if tx.Sender == "" {
		return ErrEmptySender
	}

	if tx.Receiver == "" {
		return ErrEmptyReceiver
	}

	if tx.Amount == 0 {
		return ErrZeroAmount
	}

	return nil
}

// Hash implements the merkle Hashable interface for providing a hash of
// the canonical form of the transaction.
func (tx Tx) Hash() ([]byte, error) {
	return hexutil.Decode(digest.Hash(tx))
}

// Equals implements the merkle Hashable interface for providing an
// equality check between two transactions. Transactions with the same id
// are the same transaction.
func (tx Tx) Equals(otherTx Tx) bool {
	return tx.ID == otherTx.ID
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.Sender, tx.Receiver, tx.Amount)
}
