package format

import (
	"strings"
	"unicode/utf8"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes the characters Telegram's HTML parse mode treats as markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// TruncateRunes shortens s to at most max runes, ending with an ellipsis when cut.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max == 1 {
		return "…"
	}
	return strings.TrimRightFunc(string(r[:max-1]), func(r rune) bool { return r == ' ' || r == '\n' }) + "…"
}
