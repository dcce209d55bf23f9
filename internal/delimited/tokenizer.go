// Package delimited splits decoded text documents into lines and fields.
package delimited

import (
	"strings"
)

const byteOrderMark = "\ufeff"

// SplitLine splits one line of delimited text into trimmed fields.
//
// A delimiter between double quotes does not separate fields, and a doubled
// quote inside a quoted field is a literal quote. An unterminated quote runs
// to the end of the line. Each field loses a leading byte-order mark and
// surrounding whitespace.
func SplitLine(line string, delim rune) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, cleanField(current.String()))
	return fields
}

func cleanField(s string) string {
	s = strings.TrimPrefix(s, byteOrderMark)
	return strings.TrimSpace(s)
}

// IsBlank reports whether every field is empty.
func IsBlank(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}

// DelimiterFor picks the field delimiter for a file extension; fallback is
// used for anything that is not tab-separated.
func DelimiterFor(ext string, fallback rune) rune {
	switch strings.ToLower(ext) {
	case ".tsv", ".tab":
		return '\t'
	}
	if fallback == 0 {
		return ','
	}
	return fallback
}
