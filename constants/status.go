package constants

// ItemStatus is the lifecycle state of one job item.
type ItemStatus string

// Display values; the file table prints these verbatim.
const (
	StatusPending    ItemStatus = "Pending"
	StatusConverting ItemStatus = "Converting"
	StatusAddingOCR  ItemStatus = "Adding OCR"
	StatusCompleted  ItemStatus = "Completed"
	StatusFailed     ItemStatus = "Failed" // terminal failure
)

var transitions = map[ItemStatus][]ItemStatus{
	StatusPending:    {StatusConverting, StatusFailed},
	StatusConverting: {StatusAddingOCR, StatusFailed},
	StatusAddingOCR:  {StatusCompleted, StatusFailed},
}

// IsTerminal reports whether no transition leaves s.
func (s ItemStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next keeps the status monotonic.
func (s ItemStatus) CanTransition(next ItemStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
