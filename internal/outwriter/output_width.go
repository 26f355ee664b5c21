package outwriter

import (
	"os"

	"github.com/alvinmin/auditradar/internal/contract"
	"golang.org/x/term"
)

// Width bounds of the free-text column of a table.
const (
	minTextWidth = 15
	maxTextWidth = 70
)

// GetMaxTableTextWidth calculates the maximum width of the free-text column of a table
// (unit name, alert title, news headline) given the width taken by the fixed columns.
func GetMaxTableTextWidth(cfg *contract.Config, fixedWidth int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for table borders, separators, and padding
	available := termWidth - fixedWidth - 20
	if available < minTextWidth {
		return minTextWidth
	}
	if available > maxTextWidth {
		return maxTextWidth
	}
	return available
}
