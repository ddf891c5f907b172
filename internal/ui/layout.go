package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutAreaWidth is the minimum width to show the area column.
	LayoutAreaWidth = 110

	// LayoutCreatedWidth is the minimum width to show the created column.
	LayoutCreatedWidth = 130

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Log display limits.
const (
	// LogBufferLimit is the maximum number of log lines to keep in memory.
	LogBufferLimit = 5000
)

// Timing constants.
const (
	// SearchDebounce is how long typing must pause before the text filter
	// is applied and a fetch goes out.
	SearchDebounce = 400 * time.Millisecond
)
