// Package console is the terminal presentation layer: it keeps its own copy of
// the job items and applies events received from the worker.
package console

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/joseph-ayodele/scan2pdf/internal/entity"
)

// Warnings shown to the user instead of starting a batch.
const (
	WarnNoSelection = "Please select at least one file"
	WarnNoFiles     = "No files found in the selected directory"
)

type row struct {
	item   entity.JobItem
	detail string
}

type View struct {
	out      io.Writer
	rows     []row
	index    map[uuid.UUID]int
	progress entity.ProgressEvent
	summary  *entity.Summary
}

func NewView(out io.Writer, items entity.Batch) *View {
	v := &View{out: out, index: make(map[uuid.UUID]int, len(items))}
	v.Reset(items)
	return v
}

// Reset discards the current rows and shows items instead, as a rescan does.
func (v *View) Reset(items entity.Batch) {
	v.rows = v.rows[:0]
	clear(v.index)
	for _, it := range items {
		v.index[it.ID] = len(v.rows)
		v.rows = append(v.rows, row{item: it})
	}
	v.progress = entity.ProgressEvent{}
	v.summary = nil
}

// Add appends items not yet shown.
func (v *View) Add(items entity.Batch) {
	for _, it := range items {
		if _, ok := v.index[it.ID]; ok {
			continue
		}
		v.index[it.ID] = len(v.rows)
		v.rows = append(v.rows, row{item: it})
	}
}

// Apply updates the view's copy from one event.
func (v *View) Apply(ev entity.Event) {
	switch e := ev.(type) {
	case entity.StatusEvent:
		i, ok := v.index[e.ItemID]
		if !ok {
			return
		}
		v.rows[i].item.Status = e.Status
		v.rows[i].detail = e.Detail
		if e.Status.IsTerminal() {
			v.printf("  %s: %s\n", v.rows[i].item.Name(), e.Status)
		}
	case entity.ProgressEvent:
		v.progress = e
		v.printf("Processing %s (%.0f%%)\n", e.Label(), e.Percent())
	case entity.DoneEvent:
		s := e.Summary
		v.summary = &s
		v.printf("Completed %d/%d (%d failed)\n", s.Completed+s.Failed, s.Total, s.Failed)
	}
}

// Consume applies events until the channel is closed and returns the run summary.
func (v *View) Consume(events <-chan entity.Event) entity.Summary {
	for ev := range events {
		v.Apply(ev)
	}
	if v.summary == nil {
		return entity.Summary{}
	}
	return *v.summary
}

// Items returns a snapshot of the view's rows.
func (v *View) Items() entity.Batch {
	out := make(entity.Batch, len(v.rows))
	for i, r := range v.rows {
		out[i] = r.item
	}
	return out
}

func (v *View) Progress() entity.ProgressEvent { return v.progress }

// RenderTable prints the file table with its status column.
func (v *View) RenderTable() {
	table := tablewriter.NewWriter(v.out)
	table.SetHeader([]string{"Filename", "Status", "Detail"})
	table.SetAutoWrapText(false)
	for _, r := range v.rows {
		table.Append([]string{r.item.Name(), string(r.item.Status), firstLine(r.detail)})
	}
	table.Render()
}

// Warn prints a blocking warning.
func (v *View) Warn(msg string) {
	v.printf("Warning: %s\n", msg)
}

func (v *View) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(v.out, format, args...)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
