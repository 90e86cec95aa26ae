package ui

import "time"

// Terminal width thresholds.
const (
	// LayoutCompactWidth is the width below which the header drops labels.
	LayoutCompactWidth = 100

	// LayoutDescriptionWidth is the minimum width to show the description column.
	LayoutDescriptionWidth = 130
)

// Rows reserved outside the table: header, command bar, banner line and
// the detail line under the box.
const chromeRows = 4

// Activity view limits.
const (
	// ActivityLineLimit is how many log lines the activity view reads.
	ActivityLineLimit = 500
)

// Timing constants.
const (
	// FlashDuration is how long a status flash stays in the banner line.
	FlashDuration = 3 * time.Second
)
