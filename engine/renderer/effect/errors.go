package effect

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSlot is returned when a parameter name does not match any slot of the effect.
	ErrUnknownSlot = errors.New("effect: unknown slot")

	// ErrSlotKindMismatch is returned when a value is written to a slot of an incompatible kind or type.
	ErrSlotKindMismatch = errors.New("effect: slot kind mismatch")
)

// BindingError reports a failed parameter write. It wraps ErrUnknownSlot or ErrSlotKindMismatch.
type BindingError struct {
	Effect string
	Slot   string
	Kind   SlotKind
	Err    error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("effect %q: cannot write %s to slot %q: %v", e.Effect, e.Kind, e.Slot, e.Err)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}
