package wizard

import (
	"encoding/json"
	"maps"
)

// StepID identifies a wizard step, e.g. "general-info".
type StepID string

// Data is the validated payload of one step. Each step has its own concrete type;
// StepID tells which step produced it.
type Data interface {
	StepID() StepID
}

// Schema validates raw step input. acc holds the data of previously validated steps
// for rules that span steps; it must not be modified.
type Schema interface {
	Parse(input json.RawMessage, acc Accumulator) (Data, error)
}

// Step describes one position in the wizard.
type Step struct {
	ID     StepID
	Index  int
	Schema Schema
}

// Accumulator maps each step to its last validated data.
type Accumulator map[StepID]Data

// Clone returns a shallow copy.
func (a Accumulator) Clone() Accumulator {
	if a == nil {
		return Accumulator{}
	}
	return maps.Clone(a)
}

// Get returns the data stored for id if it has type T.
func Get[T Data](acc Accumulator, id StepID) (T, bool) {
	var zero T
	d, ok := acc[id]
	if !ok {
		return zero, false
	}
	t, ok := d.(T)
	return t, ok
}
