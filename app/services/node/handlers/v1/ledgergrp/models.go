package ledgergrp

import (
	"github.com/scrollsoul/qfs/business/sys/validate"
	"github.com/scrollsoul/qfs/foundation/ledger"
)

// AppNewTx is what clients send to add a transaction to the pool. Any extra
// fields travel with the transaction untouched.
type AppNewTx struct {
	From   string         `json:"from" validate:"required"`
	To     string         `json:"to" validate:"required"`
	Amount *float64       `json:"amount" validate:"required"`
	Type   string         `json:"type"`
	Fields map[string]any `json:"fields"`
}

// Validate checks the data in the model is considered clean.
func (app AppNewTx) Validate() error {
	if err := validate.Check(app); err != nil {
		return err
	}
	return nil
}

// toTx converts the app layer payload into a ledger transaction.
func (app AppNewTx) toTx() ledger.Tx {
	tx := ledger.NewTx(app.From, app.To, *app.Amount, app.Type)

	for k, v := range app.Fields {
		switch k {
		case ledger.FieldFrom, ledger.FieldTo, ledger.FieldAmount, ledger.FieldType:
			continue
		}
		tx[k] = v
	}

	return tx
}

// AppBlock represents a mined block over the wire.
type AppBlock struct {
	Index         uint64      `json:"index"`
	TimeStamp     float64     `json:"timestamp"`
	Transactions  []ledger.Tx `json:"transactions"`
	PrevBlockHash string      `json:"previous_hash"`
	Nonce         uint64      `json:"nonce"`
	Hash          string      `json:"hash"`
}

func toAppBlock(block ledger.Block) AppBlock {
	return AppBlock{
		Index:         block.Index,
		TimeStamp:     block.TimeStamp,
		Transactions:  block.Transactions,
		PrevBlockHash: block.PrevBlockHash,
		Nonce:         block.Nonce,
		Hash:          block.Hash,
	}
}

func toAppBlocks(blocks []ledger.Block) []AppBlock {
	out := make([]AppBlock, len(blocks))
	for i, block := range blocks {
		out[i] = toAppBlock(block)
	}
	return out
}
