package delimited

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText converts raw file bytes to a UTF-8 string. A UTF-8 byte-order
// mark is dropped; a UTF-16 mark switches decoding to UTF-16. Invalid UTF-8
// sequences become U+FFFD rather than failing.
func DecodeText(b []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, b)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(string(out), byteOrderMark), nil
}

// SplitLines splits a document on LF, CRLF or lone CR line endings. A final
// line terminator does not produce a trailing empty line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// IsEmptyDocument reports whether a decoded document holds nothing but whitespace.
func IsEmptyDocument(text string) bool {
	return strings.TrimSpace(strings.TrimPrefix(text, byteOrderMark)) == ""
}
