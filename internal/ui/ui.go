// Package ui manages the terminal output preference of the CLI: colors,
// icons, spinners and machine-readable mode.
package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/sys/unix"
)

const (
	ColorGreen  = "\x1b[0032m"
	ColorYellow = "\x1b[0033m"
	ColorRed    = "\x1b[0031m"
	ColorGrey   = "\x1b[0090m"
	DefaultText = "\x1b[0039m"
	ColorReset  = "\x1b[0000m"
)

var Indent = indent{
	Small:  " ",
	Medium: "  ",
}

type indent struct {
	Small  string
	Medium string
}

type icons struct {
	Ok    string
	Info  string
	Error string
}

var Icons icons
var isOutputRich bool
var isColored bool
var isOutputMachineReadable bool

func init() {
	// Default to colored and animated terminal experience
	ConfigureOutput(true, true, false)
}

// IsInteractive returns true if the standard output is a terminal.
func IsInteractive() bool {
	return isTerminal(os.Stdout.Fd())
}

// isTerminal returns true if the file descriptor is a terminal.
func isTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// ConfigureOutput sets up global state for communicating information to the user.
// 'rich' represents output's ability to display animations or colors,
// 'colored' represents user's preference to display colors, and requires 'rich' to be true,
// 'machine' is true when the output is formatted as JSON or similar machine-readable format.
func ConfigureOutput(rich bool, colored bool, machine bool) {
	if machine {
		isOutputMachineReadable = true
		isOutputRich = false
		isColored = false
	}
	isOutputRich = rich && !machine
	isColored = colored && !machine

	Icons = icons{
		Ok:    "✓",
		Info:  "●",
		Error: "𐄂",
	}
	if isOutputRich && isColored {
		Icons.Ok = ColorGreen + Icons.Ok + ColorReset
		Icons.Info = ColorYellow + Icons.Info + ColorReset
		Icons.Error = ColorRed + Icons.Error + ColorReset
	}
}

// IsOutputMachineReadable returns true when the output should be formatted as
// JSON or similar machine-readable format.
func IsOutputMachineReadable() bool {
	return isOutputMachineReadable
}

// IsOutputRich returns true when the output should be displayed in a terminal
// supporting animations and colors.
func IsOutputRich() bool {
	return isOutputRich
}

// IsOutputColored returns true when the output should be displayed with colors.
func IsOutputColored() bool {
	return isColored
}

// Printf acts as a no-op if the output is machine-readable.
// Otherwise, passes the input to fmt.Printf.
func Printf(
	format string,
	a ...interface{},
) {
	if IsOutputMachineReadable() {
		return
	}
	fmt.Printf(format, a...)
}

// Spinner calls a function and displays a spinner with explanatory message.
// The spinner is not displayed if the output isn't a rich terminal.
func Spinner(
	function func() error,
	prefix string,
	message string,
) error {
	var s *spinner.Spinner
	if IsOutputRich() {
		s = spinner.New(spinner.CharSets[9], 100*time.Millisecond)
		s.Prefix = prefix + "["
		s.Suffix = "]" + " " + message
		s.Start()
		// Stop the spinner when the function exits.
		defer func() { s.Stop() }()
	}
	return function()
}

// PrintTable prints rows as an aligned table, columns separated by sep.
// Every column is padded to the width of its widest cell, except the last
// one. Lines wider than termWidth are truncated with an ellipsis.
func PrintTable(rows [][]string, sep string, termWidth int) {
	if len(rows) == 0 {
		return
	}

	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			for len(widths) <= i {
				widths = append(widths, 0)
			}
			if width := len([]rune(cell)); width > widths[i] {
				widths[i] = width
			}
		}
	}

	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i > 0 {
				b.WriteString(sep)
			}
			if i < len(row)-1 {
				b.WriteString(cell)
				b.WriteString(strings.Repeat(" ", widths[i]-len([]rune(cell))))
			} else {
				b.WriteString(cell)
			}
		}
		line := b.String()
		if runes := []rune(line); termWidth > 3 && len(runes) > termWidth {
			line = string(runes[:termWidth-3]) + "..."
		}
		fmt.Println(line)
	}
}
