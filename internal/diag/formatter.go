package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	messageStyle = lipgloss.NewStyle().Bold(true)
)

// Formatter renders diagnostics with a source snippet and caret underline.
type Formatter struct {
	w           io.Writer
	color       bool
	sourceCache map[string]string // source text by filename
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithColor toggles ANSI styling of the output.
func WithColor(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.color = enabled
	}
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(w io.Writer, opts ...FormatterOption) *Formatter {
	f := &Formatter{
		w:           w,
		sourceCache: make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddSource registers in-memory source text for filename, so snippets can be
// printed for input that never touched the filesystem.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	if filename == "" {
		return "", fmt.Errorf("no source registered for anonymous input")
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// Format writes d to the formatter's writer.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)

	if d.Span.IsValid() {
		fmt.Fprintf(f.w, "  %s %s\n", f.paint(gutterStyle, "-->"), d.Span)
		if src, err := f.LoadSource(d.Span.Filename); err == nil {
			spans := append([]LabeledSpan{{Span: d.Span}}, d.Labels...)
			f.printSnippet(src, spans)
		}
	}

	f.printHelp(d)
}

// FormatAll writes every diagnostic in ds, separated by blank lines.
func (f *Formatter) FormatAll(ds []Diagnostic) {
	for i, d := range ds {
		if i > 0 {
			fmt.Fprintln(f.w)
		}
		f.Format(d)
	}
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := d.Severity
	if severity == "" {
		severity = SeverityError
	}

	var style lipgloss.Style
	switch severity {
	case SeverityWarning:
		style = warningStyle
	case SeverityNote:
		style = noteStyle
	default:
		style = errorStyle
	}

	label := string(severity)
	if d.Code != "" {
		label = fmt.Sprintf("%s[%s]", severity, d.Code)
	}
	fmt.Fprintf(f.w, "%s: %s\n", f.paint(style, label), f.paint(messageStyle, d.Message))
}

// printSnippet prints the source lines touched by spans with underlines.
// The first span is primary (^); the rest are secondary (-).
func (f *Formatter) printSnippet(src string, spans []LabeledSpan) {
	lines := strings.Split(src, "\n")

	byLine := make(map[int][]int)
	for i, s := range spans {
		if s.Span.IsValid() && s.Span.Line <= len(lines) {
			byLine[s.Span.Line] = append(byLine[s.Span.Line], i)
		}
	}
	if len(byLine) == 0 {
		return
	}

	lineNumbers := make([]int, 0, len(byLine))
	for n := range byLine {
		lineNumbers = append(lineNumbers, n)
	}
	sort.Ints(lineNumbers)

	width := len(fmt.Sprintf("%d", lineNumbers[len(lineNumbers)-1]))
	pad := strings.Repeat(" ", width)
	bar := f.paint(gutterStyle, "|")

	fmt.Fprintf(f.w, " %s %s\n", pad, bar)
	for _, n := range lineNumbers {
		content := lines[n-1]
		fmt.Fprintf(f.w, " %s %s %s\n", f.paint(gutterStyle, fmt.Sprintf("%*d", width, n)), bar, content)

		for _, idx := range byLine[n] {
			s := spans[idx]
			mark := "^"
			style := errorStyle
			if idx > 0 {
				mark = "-"
				style = noteStyle
			}
			start := s.Span.Column - 1
			length := max(1, min(s.Span.End-s.Span.Start, len(content)-start))
			underline := strings.Repeat(" ", start) + f.paint(style, strings.Repeat(mark, length))
			if s.Label != "" {
				underline += " " + f.paint(style, s.Label)
			}
			fmt.Fprintf(f.w, " %s %s %s\n", pad, bar, underline)
		}
	}
	fmt.Fprintf(f.w, " %s %s\n", pad, bar)
}

func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  = %s: %s\n", f.paint(noteStyle, "note"), note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.w, "  = %s: %s\n", f.paint(noteStyle, "help"), d.Help)
	}
}

func (f *Formatter) paint(style lipgloss.Style, s string) string {
	if !f.color {
		return s
	}
	return style.Render(s)
}
