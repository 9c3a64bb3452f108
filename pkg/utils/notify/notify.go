package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"
)

// MessageType selects the symbol and colour of a message.
type MessageType int

const (
	// ErrorType is red, prefixed with ✗.
	ErrorType MessageType = iota
	// WarningType is yellow, prefixed with ⚠.
	WarningType
	// ActivityType marks work in progress, prefixed with ►.
	ActivityType
	// GenerateType marks a written file, prefixed with ✚.
	GenerateType
	// SuccessType is green, prefixed with ✔.
	SuccessType
	// InfoType is blue, prefixed with ℹ.
	InfoType
	// TitleType is bold and prefixed with an emoji instead of a symbol.
	TitleType
)

const defaultTitleEmoji = "ℹ️"

// Message is a single notification.
type Message struct {
	Type    MessageType
	Content string
	// Emoji replaces the default title emoji. Only used by TitleType.
	Emoji string
	// Writer defaults to os.Stdout.
	Writer io.Writer
	// Args, when present, are applied to Content as format arguments.
	Args []any
}

type style struct {
	symbol     string
	attributes []fcolor.Attribute
}

var styles = map[MessageType]style{
	ErrorType:    {symbol: "✗ ", attributes: []fcolor.Attribute{fcolor.FgRed}},
	WarningType:  {symbol: "⚠ ", attributes: []fcolor.Attribute{fcolor.FgYellow}},
	ActivityType: {symbol: "► ", attributes: []fcolor.Attribute{fcolor.Reset}},
	GenerateType: {symbol: "✚ ", attributes: []fcolor.Attribute{fcolor.Reset}},
	SuccessType:  {symbol: "✔ ", attributes: []fcolor.Attribute{fcolor.FgGreen}},
	InfoType:     {symbol: "ℹ ", attributes: []fcolor.Attribute{fcolor.FgBlue}},
	TitleType:    {attributes: []fcolor.Attribute{fcolor.Reset, fcolor.Bold}},
}

// ConfigureColor sets process-wide colour output. noColor wins over forceColor.
// Without either flag the terminal detection of fatih/color is kept.
// It must be called once, before any message is written.
func ConfigureColor(noColor, forceColor bool) {
	switch {
	case noColor:
		fcolor.NoColor = true
	case forceColor:
		fcolor.NoColor = false
	}
}

// ColorEnabled reports whether messages are currently coloured.
func ColorEnabled() bool {
	return !fcolor.NoColor
}

// Errorf writes an error message to writer.
func Errorf(writer io.Writer, format string, args ...any) {
	writef(writer, ErrorType, format, args)
}

// Warningf writes a warning message to writer.
func Warningf(writer io.Writer, format string, args ...any) {
	writef(writer, WarningType, format, args)
}

// Activityf writes a progress message to writer.
func Activityf(writer io.Writer, format string, args ...any) {
	writef(writer, ActivityType, format, args)
}

// Generatef reports a generated file.
func Generatef(writer io.Writer, format string, args ...any) {
	writef(writer, GenerateType, format, args)
}

// Successf writes a success message to writer.
func Successf(writer io.Writer, format string, args ...any) {
	writef(writer, SuccessType, format, args)
}

// Infof writes an informational message to writer.
func Infof(writer io.Writer, format string, args ...any) {
	writef(writer, InfoType, format, args)
}

// Titlef writes a bold header line led by emoji.
func Titlef(writer io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{Type: TitleType, Content: fmt.Sprintf(format, args...), Emoji: emoji, Writer: writer})
}

func writef(writer io.Writer, msgType MessageType, format string, args []any) {
	WriteMessage(Message{Type: msgType, Content: format, Args: args, Writer: writer})
}

// WriteMessage renders msg. Print failures are reported on stderr and never
// returned, so a broken output stream cannot fail the operation being reported.
func WriteMessage(msg Message) {
	writer := msg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(content, msg.Args...)
	}

	st, ok := styles[msg.Type]
	if !ok {
		st = style{attributes: []fcolor.Attribute{fcolor.Reset}}
	}

	prefix := st.symbol
	if msg.Type == TitleType {
		prefix = msg.Emoji
		if prefix == "" {
			prefix = defaultTitleEmoji
		}

		prefix += " "
	} else {
		content = indentContinuationLines(content, len([]rune(st.symbol)))
	}

	_, err := fcolor.New(st.attributes...).Fprintf(writer, "%s%s\n", prefix, content)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

// indentContinuationLines aligns every non-empty line after the first with
// the text that follows the symbol.
func indentContinuationLines(content string, width int) string {
	if width == 0 || !strings.Contains(content, "\n") {
		return content
	}

	lines := strings.Split(content, "\n")
	pad := strings.Repeat(" ", width)

	for i, line := range lines[1:] {
		if line != "" {
			lines[i+1] = pad + line
		}
	}

	return strings.Join(lines, "\n")
}
