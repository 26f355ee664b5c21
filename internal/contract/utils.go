package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alvinmin/auditradar/schema"
	"github.com/fatih/color"
)

// DateTimeFormat is the timestamp layout of CSV output.
const DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// Severity labels as rendered in every output format.
const (
	CriticalValue = "Critical"
	HighValue     = "High"
	MediumValue   = "Medium"
	LowValue      = "Low"
)

type severityStyle struct {
	label string
	paint *color.Color
}

// severityStyles maps each band to its label and console color. Unknown
// severities render as Low.
var severityStyles = map[schema.Severity]severityStyle{
	schema.CriticalSeverity: {CriticalValue, color.New(color.FgRed, color.Bold)},
	schema.HighSeverity:     {HighValue, color.New(color.FgMagenta, color.Bold)},
	schema.MediumSeverity:   {MediumValue, color.New(color.FgYellow)},
	schema.LowSeverity:      {LowValue, color.New(color.FgCyan)},
}

func styleFor(sev schema.Severity) severityStyle {
	if st, ok := severityStyles[sev]; ok {
		return st
	}
	return severityStyles[schema.LowSeverity]
}

// GetPlainLabel returns the uncolored label for a severity band.
func GetPlainLabel(sev schema.Severity) string {
	return styleFor(sev).label
}

// GetColorLabel returns the label painted for terminal tables.
func GetColorLabel(sev schema.Severity) string {
	st := styleFor(sev)
	return st.paint.Sprint(st.label)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the default SQLite DB file for entity storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".auditradar.db"
	}
	return filepath.Join(homeDir, ".auditradar.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the "..." suffix and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
