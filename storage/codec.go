package storage

import (
	"strings"
	"time"
)

// Data files are UTF-8 text: one entity per line, fields joined by '|',
// '#'-prefixed comment lines ignored. Literal '|', newline, carriage-return
// and backslash characters inside field values are escaped so that any
// string survives a round trip.

const fileFormatVersion = "v1"

// escapeField escapes the field separator and line-control characters in a
// single field value.
func escapeField(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '|':
			b.WriteString(`\|`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unescapeField reverses escapeField. Unrecognized escape sequences are kept
// verbatim rather than rejected, so a slightly damaged field still loads.
func unescapeField(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	escaped := false
	for _, r := range value {
		if !escaped {
			if r == '\\' {
				escaped = true
				continue
			}
			b.WriteRune(r)
			continue
		}
		switch r {
		case '\\':
			b.WriteRune('\\')
		case '|':
			b.WriteRune('|')
		case 'n':
			b.WriteRune('\n')
		case 'r':
			b.WriteRune('\r')
		default:
			b.WriteRune('\\')
			b.WriteRune(r)
		}
		escaped = false
	}
	if escaped {
		b.WriteRune('\\')
	}
	return b.String()
}

// joinFields escapes each field and joins them into one record line.
func joinFields(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = escapeField(f)
	}
	return strings.Join(escaped, "|")
}

// splitFields splits a record line on unescaped '|' separators and
// unescapes each field.
func splitFields(line string) []string {
	var fields []string
	var b strings.Builder
	escaped := false
	for _, r := range line {
		if escaped {
			b.WriteRune('\\')
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '|':
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteRune('\\')
	}
	fields = append(fields, b.String())

	for i, f := range fields {
		fields[i] = unescapeField(f)
	}
	return fields
}

// fileHeader builds the comment header written at the top of every data
// file. Loaders skip it along with any other '#' line.
func fileHeader(entity string, now time.Time) []string {
	return []string{
		"# printhaus data file " + fileFormatVersion,
		"# " + entity + " saved " + now.Format(time.RFC3339),
	}
}

// joinLines assembles file lines into the final file content with a
// trailing newline.
func joinLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

// isRecordLine reports whether a raw file line holds an entity record, as
// opposed to a comment or blank spacing.
func isRecordLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && !strings.HasPrefix(trimmed, "#")
}
