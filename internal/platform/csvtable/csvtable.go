// Package csvtable converts rows of named string fields to and from a plain
// comma separated table.
//
// The format is deliberately narrower than RFC 4180: cells are quoted only
// when they contain a comma, a double quote or a newline, rows are separated by
// a bare "\n", the header row is never quote-aware and decoding trims every
// value. Decoding never fails; short rows yield empty strings.
package csvtable

import (
	"strings"

	"github.com/valyala/bytebufferpool"
)

// Row maps a header name to its cell value.
type Row map[string]string

// Encode renders rows under headers. Missing keys encode as empty cells and
// the output carries no trailing newline.
func Encode(rows []Row, headers []string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(strings.Join(headers, ","))
	for _, row := range rows {
		_ = buf.WriteByte('\n')
		for i, header := range headers {
			if i > 0 {
				_ = buf.WriteByte(',')
			}
			_, _ = buf.WriteString(encodeCell(row[header]))
		}
	}

	return buf.String()
}

func encodeCell(value string) string {
	if !strings.ContainsAny(value, ",\"\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// Parse reads text produced by Encode (or a hand-written table in the same
// shape). Blank lines are skipped, the first remaining line is the header.
func Parse(text string) []Row {
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []Row{}
	}

	headers := parseHeader(lines[0])
	out := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitLine(line)
		row := make(Row, len(headers))
		for i, header := range headers {
			value := ""
			if i < len(values) {
				value = strings.TrimSpace(values[i])
			}
			row[header] = value
		}
		out = append(out, row)
	}

	return out
}

func parseHeader(line string) []string {
	parts := strings.Split(line, ",")
	headers := make([]string, 0, len(parts))
	for _, part := range parts {
		h := strings.TrimSpace(part)
		h = strings.TrimPrefix(h, `"`)
		h = strings.TrimSuffix(h, `"`)
		headers = append(headers, h)
	}
	return headers
}

// splitLine walks the line once, toggling quote state on '"'. Inside quotes a
// doubled quote emits one literal quote.
func splitLine(line string) []string {
	var (
		values   []string
		current  strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			values = append(values, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	return append(values, current.String())
}
