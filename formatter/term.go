package formatter

import (
	"bytes"
	"io"

	"github.com/fatih/color"

	"github.com/elmarx/slog-kickstarter/core"
)

// TermFormatter formats log entries as single human-readable lines:
// timestamp, level tag, message, then fields as key=value pairs.
// Level tags are styled with ANSI colors when Config.Color is set.
type TermFormatter struct {
	Config
	levelTags [core.NumLevels]string
}

// levelColor maps each level to its terminal style
func levelColor(level core.Level) *color.Color {
	switch level {
	case core.TraceLevel:
		return color.New(color.FgHiBlack)
	case core.DebugLevel:
		return color.New(color.FgCyan)
	case core.InfoLevel:
		return color.New(color.FgGreen)
	case core.WarnLevel:
		return color.New(color.FgYellow)
	case core.ErrorLevel:
		return color.New(color.FgRed)
	case core.CriticalLevel:
		return color.New(color.FgHiRed, color.Bold)
	default:
		return color.New()
	}
}

// NewTermFormatter creates a new terminal formatter. Level tags are
// rendered once at construction time so the per-entry path is a
// plain WriteString.
func NewTermFormatter(cfg Config) *TermFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = "15:04:05"
	}

	f := &TermFormatter{Config: cfg}
	for l := core.TraceLevel; l <= core.CriticalLevel; l++ {
		tag := l.String()
		if cfg.Color {
			c := levelColor(l)
			// Color choice is made by the caller (TTY detection);
			// bypass the package-level auto detection.
			c.EnableColor()
			tag = c.Sprint(tag)
		}
		f.levelTags[l] = tag
	}
	return f
}

// Format formats an entry as a single text line
func (f *TermFormatter) Format(entry *core.Entry) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.formatToBuffer(entry, buf)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatTo formats an entry and writes it directly to the writer
func (f *TermFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	buf := getBuffer()

	f.formatToBuffer(entry, buf)

	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}

// formatToBuffer writes the formatted entry into the given buffer
func (f *TermFormatter) formatToBuffer(entry *core.Entry, buf *bytes.Buffer) {
	// Timestamp - use AppendFormat to avoid string allocation
	buf.Write(entry.Time.Local().AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteByte(' ')

	// Level - pre-rendered tag
	if int(entry.Level) < len(f.levelTags) && entry.Level >= 0 {
		buf.WriteString(f.levelTags[entry.Level])
	} else {
		buf.WriteString("UNKNOWN")
	}
	buf.WriteByte(' ')

	// Message
	buf.WriteString(entry.Message)

	// Module origin of the emitting call site
	if entry.Module != "" {
		buf.WriteString(" module=")
		buf.WriteString(entry.Module)
	}

	// Fields
	for _, field := range entry.Fields {
		buf.WriteByte(' ')
		buf.WriteString(field.Key)
		buf.WriteByte('=')
		buf.WriteString(field.StringValue())
	}

	buf.WriteByte('\n')
}
