// Package ui renders human-facing terminal output. Everything goes to stderr
// so that planned SQL on stdout can be redirected to a file.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

var out io.Writer = os.Stderr

// SetOutput redirects all output. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...any) {
	fmt.Fprintln(out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...any) {
	fmt.Fprintln(out, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...any) {
	fmt.Fprintln(out, InfoStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Fprintln(out, TitleStyle.Render(title))
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	return pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render()
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(out, "  • %s\n", item)
	}
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return err
	}

	fmt.Fprint(out, rendered)
	return nil
}

// PrintKeyValue prints an aligned label and value.
func PrintKeyValue(key, value string) {
	fmt.Fprintf(out, "%s %s\n", SecondaryStyle.Render(fmt.Sprintf("%-12s", key+":")), value)
}
