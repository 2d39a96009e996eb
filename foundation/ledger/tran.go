package ledger

import (
	"encoding/json"
	"fmt"
)

// SystemAccount is the account that funds mining rewards.
const SystemAccount = "system"

// Set of transaction type tags produced by the ledger itself.
const (
	TxTypeGenesis      = "genesis"
	TxTypeMiningReward = "mining_reward"
)

// Set of field names every transaction must carry. Any other field travels
// with the transaction untouched.
const (
	FieldFrom   = "from"
	FieldTo     = "to"
	FieldAmount = "amount"
	FieldType   = "type"
)

// Tx represents a single transaction in a block. The ledger only interprets
// the from, to, amount and type fields. The document as a whole is opaque so
// callers can attach whatever extra fields they need.
type Tx map[string]any

// NewTx constructs a transaction from the required fields.
func NewTx(from string, to string, amount float64, txType string) Tx {
	tx := Tx{
		FieldFrom:   from,
		FieldTo:     to,
		FieldAmount: amount,
	}
	if txType != "" {
		tx[FieldType] = txType
	}

	return tx
}

// From returns the sending account or the empty string when not present.
func (tx Tx) From() string {
	return asString(tx[FieldFrom])
}

// To returns the receiving account or the empty string when not present.
func (tx Tx) To() string {
	return asString(tx[FieldTo])
}

// Amount returns the transaction amount. The sign is unrestricted, negative
// amounts model debt semantics.
func (tx Tx) Amount() float64 {
	amount, _ := asFloat(tx[FieldAmount])
	return amount
}

// TxType returns the transaction type tag or the empty string when not present.
func (tx Tx) TxType() string {
	return asString(tx[FieldType])
}

// Validate checks the transaction carries the required fields. The amount
// sign is not checked, insufficient funds are not enforced at this layer.
func (tx Tx) Validate() error {
	if tx.From() == "" {
		return fmt.Errorf("%w: missing %q field", ErrMalformedTransaction, FieldFrom)
	}

	if tx.To() == "" {
		return fmt.Errorf("%w: missing %q field", ErrMalformedTransaction, FieldTo)
	}

	if _, ok := asFloat(tx[FieldAmount]); !ok {
		return fmt.Errorf("%w: missing numeric %q field", ErrMalformedTransaction, FieldAmount)
	}

	return nil
}

// Clone produces a copy of the transaction so blocks and pool snapshots own
// their documents independent of the caller.
func (tx Tx) Clone() Tx {
	clone := make(Tx, len(tx))
	for k, v := range tx {
		clone[k] = cloneValue(v)
	}

	return clone
}

// =============================================================================

// cloneValue copies nested documents and lists so no shared mutable state
// leaks between the caller, the pool and the chain.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, nested := range val {
			m[k] = cloneValue(nested)
		}
		return m

	case Tx:
		return map[string]any(val.Clone())

	case []any:
		s := make([]any, len(val))
		for i, nested := range val {
			s[i] = cloneValue(nested)
		}
		return s
	}

	return v
}

// asString reports the value as a string when it is one.
func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asFloat normalizes the numeric types a transaction amount can arrive as,
// depending on whether the document came from Go code or a decoded JSON body.
func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}

	return 0, false
}
