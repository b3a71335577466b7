package public

import "github.com/minichain/ledger/foundation/ledger/database"

// newTx represents a transaction submission from a client.
type newTx struct {
	Sender   string `json:"sender" validate:"required"`
	Receiver string `json:"receiver" validate:"required"`
	Amount   uint64 `json:"amount" validate:"required,gt=0"`
}

// tx represents a recorded or pending transaction.
type tx struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Amount    uint64 `json:"amount"`
	TimeStamp uint64 `json:"timestamp"`
}

func toTx(dbTx database.Tx) tx {
	return tx{
		ID:        dbTx.ID,
		Sender:    dbTx.Sender,
		Receiver:  dbTx.Receiver,
		Amount:    dbTx.Amount,
		TimeStamp: dbTx.TimeStamp,
	}
}

// block represents a block and its transactions.
type block struct {
	Hash          string `json:"hash"`
	Number        uint64 `json:"number"`
	PrevBlockHash string `json:"prev_block_hash"`
	TimeStamp     uint64 `json:"timestamp"`
	TransRoot     string `json:"trans_root"`
	Nonce         uint64 `json:"nonce"`
	Difficulty    uint   `json:"difficulty"`
	Trans         []tx   `json:"trans"`
}

func toBlock(blockData database.BlockData) block {
	trans := make([]tx, len(blockData.Trans))
	for i, dbTx := range blockData.Trans {
		trans[i] = toTx(dbTx)
	}

	return block{
		Hash:          blockData.Hash,
		Number:        blockData.Header.Number,
		PrevBlockHash: blockData.Header.PrevBlockHash,
		TimeStamp:     blockData.Header.TimeStamp,
		TransRoot:     blockData.Header.TransRoot,
		Nonce:         blockData.Header.Nonce,
		Difficulty:    blockData.Header.Difficulty,
		Trans:         trans,
	}
}

// infraction represents one failed validation check.
type infraction struct {
	Number uint64 `json:"number"`
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

// validation represents the result of a full chain audit.
type validation struct {
	Valid       bool         `json:"valid"`
	Height      uint64       `json:"height"`
	Infractions []infraction `json:"infractions,omitempty"`
}

// proof represents a merkle proof of inclusion for a transaction.
type proof struct {
	Block     uint64   `json:"block"`
	TransRoot string   `json:"trans_root"`
	Tx        tx       `json:"tx"`
	Proof     []string `json:"proof"`
	Order     []int64  `json:"order"`
}
