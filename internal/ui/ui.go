// Package ui provides console output for mode-launcher
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UI writes progress to one stream and errors to another. Styling is
// resolved per stream, so output redirected to a file or buffer stays plain.
type UI struct {
	out io.Writer
	err io.Writer

	outRenderer *lipgloss.Renderer
	errRenderer *lipgloss.Renderer
}

// NewUI creates a UI on stdout and stderr
func NewUI() *UI {
	return NewUIWithWriters(os.Stdout, os.Stderr)
}

// NewUIWithWriters creates a UI on the given streams
func NewUIWithWriters(out, err io.Writer) *UI {
	return &UI{
		out:         out,
		err:         err,
		outRenderer: lipgloss.NewRenderer(out),
		errRenderer: lipgloss.NewRenderer(err),
	}
}

func (ui *UI) successStyle() lipgloss.Style {
	return ui.outRenderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
}

func (ui *UI) infoStyle() lipgloss.Style {
	return ui.outRenderer.NewStyle().Foreground(lipgloss.Color("12"))
}

func (ui *UI) subtleStyle() lipgloss.Style {
	return ui.outRenderer.NewStyle().Foreground(lipgloss.Color("8"))
}

func (ui *UI) headerStyle() lipgloss.Style {
	return ui.outRenderer.NewStyle().Bold(true).Underline(true)
}

func (ui *UI) errorStyle() lipgloss.Style {
	return ui.errRenderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
}

func (ui *UI) warningStyle() lipgloss.Style {
	return ui.errRenderer.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
}

// Success prints a completion message
func (ui *UI) Success(msg string) {
	fmt.Fprintln(ui.out, ui.successStyle().Render(msg))
}

// Info prints a progress message
func (ui *UI) Info(msg string) {
	fmt.Fprintln(ui.out, ui.infoStyle().Render(msg))
}

// Subtle prints a muted message
func (ui *UI) Subtle(msg string) {
	fmt.Fprintln(ui.out, ui.subtleStyle().Render(msg))
}

// Error prints to the error stream
func (ui *UI) Error(msg string) {
	fmt.Fprintln(ui.err, ui.errorStyle().Render(msg))
}

// Warning prints to the error stream
func (ui *UI) Warning(msg string) {
	fmt.Fprintln(ui.err, ui.warningStyle().Render(msg))
}

// Println prints a regular message
func (ui *UI) Println(msg string) {
	fmt.Fprintln(ui.out, msg)
}

// Printf prints a formatted message
func (ui *UI) Printf(format string, args ...interface{}) {
	fmt.Fprintf(ui.out, format, args...)
}

// Header prints a section header
func (ui *UI) Header(title string) {
	fmt.Fprintln(ui.out, ui.headerStyle().Render(title))
}

// ListItem prints a list item
func (ui *UI) ListItem(item string) {
	fmt.Fprintln(ui.out, "  - "+item)
}

// Table prints a simple table
type Table struct {
	ui      *UI
	headers []string
	rows    [][]string
}

// NewTable creates a new table
func (ui *UI) NewTable(headers ...string) *Table {
	return &Table{
		ui:      ui,
		headers: headers,
		rows:    make([][]string, 0),
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}

	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerParts := make([]string, len(t.headers))
	for i, header := range t.headers {
		headerParts[i] = padRight(header, widths[i])
	}
	t.ui.Println(t.ui.headerStyle().Render(strings.TrimRight(strings.Join(headerParts, "  "), " ")))

	for _, row := range t.rows {
		rowParts := make([]string, len(t.headers))
		for i := range t.headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			rowParts[i] = padRight(cell, widths[i])
		}
		t.ui.Println(strings.TrimRight(strings.Join(rowParts, "  "), " "))
	}
}

// padRight pads a string to the right with spaces
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
