package values

import "fmt"

// VariableKind identifies the reducer a variable accumulator uses.
type VariableKind string

const (
	// VarSum adds each record contribution.
	VarSum VariableKind = "sum"
	// VarCount increments by one per record.
	VarCount VariableKind = "count"
	// VarAverage tracks a running sum and count and exposes the quotient.
	VarAverage VariableKind = "average"
	// VarMin keeps the smallest contribution seen.
	VarMin VariableKind = "min"
	// VarMax keeps the largest contribution seen.
	VarMax VariableKind = "max"
	// VarCustom folds contributions through a caller-registered reducer.
	VarCustom VariableKind = "custom"
)

// Validate returns an error if the kind value is invalid.
func (k VariableKind) Validate() error {
	switch k {
	case VarSum, VarCount, VarAverage, VarMin, VarMax, VarCustom:
		return nil
	default:
		return fmt.Errorf("invalid variable kind: %s", k)
	}
}
