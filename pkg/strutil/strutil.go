// Package strutil provides the small string helpers a streaming source
// client needs when it hands metadata to external commands: shell-safe
// quoting, placeholder substitution, and filename suffix comparison.
package strutil

import "strings"

// quoteInputMax bounds how much input Quote considers, as a defense
// against pathological allocation sizes.
const quoteInputMax = 8191

// Quote returns s wrapped in single quotes so it is safe to pass to a
// POSIX shell as one word. Embedded single quotes are escaped by
// closing the quote, emitting \' and reopening. Input beyond
// quoteInputMax bytes is truncated.
func Quote(s string) string {
	if len(s) > quoteInputMax {
		s = s[:quoteInputMax]
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			b.WriteString(`'\''`)
			continue
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('\'')

	return b.String()
}

// ReplaceQuoted replaces the first occurrence of from in source with
// the shell-quoted form of to; the rest of source is copied verbatim.
// If from does not occur, source is returned unchanged.
func ReplaceQuoted(source, from, to string) string {
	i := strings.Index(source, from)
	if i < 0 {
		return source
	}
	return source[:i] + Quote(to) + source[i+len(from):]
}

// CompareSuffix returns 0 when suffix is a byte-exact suffix of s, and
// 1 when suffix is longer than s; otherwise it returns the comparison
// result of the tail of s against suffix. Callers should only rely on
// zero versus non-zero.
func CompareSuffix(s, suffix string) int {
	if len(suffix) > len(s) {
		return 1
	}
	return strings.Compare(s[len(s)-len(suffix):], suffix)
}

// CompareSuffixFold is CompareSuffix on lower-cased copies of both
// operands.
func CompareSuffixFold(s, suffix string) int {
	return CompareSuffix(strings.ToLower(s), strings.ToLower(suffix))
}
