// Package ux provides user experience utilities for kantra-impact's command-line interface.
// It includes colored output formatting, progress tracking, spinners, and consistent
// message styling for success, error, warning, and informational messages.
package ux

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Color definitions for consistent output
var (
	Success = color.New(color.FgGreen).SprintFunc()
	Error   = color.New(color.FgRed).SprintFunc()
	Warning = color.New(color.FgYellow).SprintFunc()
	Info    = color.New(color.FgCyan).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
)

// ansiPattern matches SGR escape sequences emitted by fatih/color.
var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

// PrintSuccess prints a success message with green checkmark
func PrintSuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", Success("✓"), msg)
}

// PrintError prints an error message with red X
func PrintError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", Error("✗"), msg)
}

// PrintWarning prints a warning message with yellow triangle
func PrintWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", Warning("⚠"), msg)
}

// PrintInfo prints an info message with cyan dot
func PrintInfo(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", Info("•"), msg)
}

// PrintHeader prints a bold header
func PrintHeader(text string) {
	fmt.Println(Bold(text))
	fmt.Println(Bold(repeat("=", len(text))))
	fmt.Println()
}

// PrintSection prints a section header
func PrintSection(text string) {
	fmt.Println()
	fmt.Println(Bold(text))
}

// NewProgressBar creates a new progress bar with consistent styling.
// It draws on stderr so piped stdout stays clean.
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
}

// Spinner is a simple text-based spinner
type Spinner struct {
	message string
	frames  []string
	index   int
	done    chan struct{}
	stopped chan struct{}
	writer  io.Writer
}

// NewSpinner creates a new spinner with a message
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		writer:  os.Stderr,
	}
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				// Clear the line
				fmt.Fprintf(s.writer, "\r%s\r", repeat(" ", len(s.message)+5))
				return
			case <-ticker.C:
				frame := s.frames[s.index%len(s.frames)]
				fmt.Fprintf(s.writer, "\r%s %s", Info(frame), s.message)
				s.index++
			}
		}
	}()
}

// Stop stops the spinner and waits for the line to be cleared.
// Start must have been called.
func (s *Spinner) Stop() {
	close(s.done)
	<-s.stopped
}

// StopWithSuccess stops the spinner and shows success
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	PrintSuccess("%s", message)
}

// StopWithError stops the spinner and shows error
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	PrintError("%s", message)
}

// FormatCount formats an incident or violation count with color by magnitude
func FormatCount(n int) string {
	switch {
	case n == 0:
		return Dim("0")
	case n < 10:
		return Success(fmt.Sprintf("%d", n))
	case n < 100:
		return Info(fmt.Sprintf("%d", n))
	case n < 1000:
		return Warning(fmt.Sprintf("%d", n))
	}
	return Error(fmt.Sprintf("%d", n))
}

// FormatCategory colors a violation category
func FormatCategory(category string) string {
	switch category {
	case "mandatory":
		return Error(category)
	case "optional":
		return Warning(category)
	case "potential":
		return Info(category)
	case "":
		return Dim("-")
	}
	return category
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return Dim(d.Round(time.Millisecond).String())
	}
	return Dim(d.Round(time.Second).String())
}

// FormatWarning returns a warning-colored string
func FormatWarning(s string) string {
	return Warning(s)
}

// PrintSummaryTable prints a summary table to stdout
func PrintSummaryTable(rows [][]string) {
	FprintSummaryTable(os.Stdout, rows)
}

// FprintSummaryTable writes rows as left-aligned columns. Widths ignore
// color codes so colored cells line up with plain ones.
func FprintSummaryTable(w io.Writer, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	var colWidths []int
	for _, row := range rows {
		for i, col := range row {
			if i >= len(colWidths) {
				colWidths = append(colWidths, 0)
			}
			if n := visibleLen(col); n > colWidths[i] {
				colWidths[i] = n
			}
		}
	}

	// Print rows
	for _, row := range rows {
		var line strings.Builder
		for i, col := range row {
			line.WriteString(col)
			if i < len(row)-1 {
				line.WriteString(repeat(" ", colWidths[i]-visibleLen(col)+2))
			}
		}
		fmt.Fprintln(w, line.String())
	}
}

// IsTerminal checks if output is going to a terminal
func IsTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

func visibleLen(s string) int {
	return len([]rune(ansiPattern.ReplaceAllString(s, "")))
}

// Helper function to repeat a string
func repeat(s string, count int) string {
	if count <= 0 {
		return ""
	}
	return strings.Repeat(s, count)
}
