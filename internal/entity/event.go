package entity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/scan2pdf/constants"
)

// Event is an immutable update sent from the worker to the presentation layer.
type Event interface {
	isEvent()
}

// StatusEvent reports a status change of one item.
type StatusEvent struct {
	ItemID uuid.UUID
	Status constants.ItemStatus
	Detail string // error text when Status is Failed
}

// ProgressEvent is emitted after each item, whatever its outcome.
type ProgressEvent struct {
	Processed int
	Total     int
}

// DoneEvent closes a run.
type DoneEvent struct {
	Summary Summary
}

func (StatusEvent) isEvent()   {}
func (ProgressEvent) isEvent() {}
func (DoneEvent) isEvent()     {}

// Fraction is processed/total in [0,1].
func (p ProgressEvent) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Processed) / float64(p.Total)
}

// Percent is Fraction scaled to 0..100.
func (p ProgressEvent) Percent() float64 {
	return p.Fraction() * 100
}

// Label renders "processed/total".
func (p ProgressEvent) Label() string {
	return fmt.Sprintf("%d/%d", p.Processed, p.Total)
}
