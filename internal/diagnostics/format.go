package diagnostics

import (
	"fmt"
	"strconv"
	"strings"
)

// Render formats a diagnostic the way the command line shows it: a header,
// the location, and when the source is available the offending line with a
// caret under the column.
func Render(d Diag, src []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "error[%s]: %s\n", d.Kind, d.Message)
	fmt.Fprintf(&b, "  --> %s\n", d.Pos)

	line, ok := sourceLine(src, d.Pos.Line)
	if !ok {
		return b.String()
	}

	num := strconv.Itoa(d.Pos.Line)
	gutter := strings.Repeat(" ", len(num))
	fmt.Fprintf(&b, "%s |\n", gutter)
	fmt.Fprintf(&b, "%s | %s\n", num, line)

	col := d.Pos.Column
	if col < 1 {
		col = 1
	}
	fmt.Fprintf(&b, "%s | %s^\n", gutter, caretPadding(line, col))
	return b.String()
}

func sourceLine(src []byte, line int) (string, bool) {
	if src == nil || line < 1 {
		return "", false
	}
	lines := strings.Split(string(src), "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[line-1], "\r"), true
}

// caretPadding keeps tabs so the caret lines up with the rendered source.
func caretPadding(line string, col int) string {
	var pad strings.Builder
	for i := 0; i < col-1; i++ {
		if i < len(line) && line[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	return pad.String()
}
