package entity

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/scan2pdf/constants"
)

// JobItem is one image's progress record through the pipeline.
type JobItem struct {
	ID         uuid.UUID            `json:"id"`
	SourcePath string               `json:"source_path"`
	Status     constants.ItemStatus `json:"status"`
}

// Name returns the file name shown in the file table.
func (i JobItem) Name() string {
	return filepath.Base(i.SourcePath)
}

// Batch is the ordered set of items submitted for one run.
type Batch []JobItem

// Clone returns a copy so the submitter's slice is never shared with the runner.
func (b Batch) Clone() Batch {
	out := make(Batch, len(b))
	copy(out, b)
	return out
}

// ItemResult is the explicit per-item outcome. Kind is empty on success.
type ItemResult struct {
	ItemID     uuid.UUID     `json:"item_id"`
	SourcePath string        `json:"source_path"`
	OutputPath string        `json:"output_path,omitempty"`
	Kind       string        `json:"kind,omitempty"` // common.CodeConversionFailed | common.CodeOCRFailed
	Detail     string        `json:"detail,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// OK reports whether the item completed.
func (r ItemResult) OK() bool { return r.Kind == "" }

// Status returns the terminal status matching the result.
func (r ItemResult) Status() constants.ItemStatus {
	if r.OK() {
		return constants.StatusCompleted
	}
	return constants.StatusFailed
}

// Summary aggregates a finished batch.
type Summary struct {
	RunID     string        `json:"run_id"`
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	Results   []ItemResult  `json:"results"`
	Duration  time.Duration `json:"duration"`
}
