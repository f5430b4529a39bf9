package ui

import "github.com/jedib0t/go-pretty/v6/progress"

// NewProgressWriter configures the progress renderer used while exporting
// multiple sources.
func NewProgressWriter() progress.Writer {
	writer := progress.NewWriter()
	writer.SetAutoStop(true)
	writer.SetTrackerLength(30)
	writer.SetStyle(progress.StyleBlocks)
	writer.Style().Visibility.ETA = false
	writer.Style().Visibility.Speed = false
	writer.Style().Visibility.Value = true

	return writer
}
