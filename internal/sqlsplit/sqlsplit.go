// Package sqlsplit splits a SQL script into independently executable
// statements for drivers that refuse multi-statement batches.
//
// The scanner honors quoted regions, comments, and the mysql-style
// "delimiter" directive, so a delimiter character inside any of those is
// inert. Statement text is preserved verbatim apart from leading
// whitespace; embedded comments stay part of their statement.
package sqlsplit

import "strings"

// DefaultDelimiter separates statements until a script redefines it.
const DefaultDelimiter = ";"

// Split scans script token by token and returns the statements found,
// in order, each trimmed of leading whitespace. Blank statements are
// dropped. Unterminated strings and block comments at end of input are
// tolerated and flushed as-is.
func Split(script string) []string {
	var out []string
	var stmt strings.Builder
	delim := DefaultDelimiter

	flush := func() {
		s := strings.TrimLeft(stmt.String(), " \t\r\n")
		stmt.Reset()
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}

	i := 0
	for i < len(script) {
		rest := script[i:]

		// The active delimiter closes the statement and is excluded from it.
		if strings.HasPrefix(rest, delim) {
			flush()
			i += len(delim)
			continue
		}

		// A redefinition directive also closes the statement, updates the
		// delimiter, and consumes the rest of its line.
		if newDelim, width, ok := matchDirective(rest); ok {
			flush()
			delim = newDelim
			i += width
			continue
		}

		var width int
		switch {
		case isSpace(script[i]):
			width = span(rest, isSpace)
		case isWord(script[i]):
			width = span(rest, isWord)
		case strings.HasPrefix(rest, "--"), script[i] == '#':
			width = lineEnd(rest)
		case strings.HasPrefix(rest, "/*"):
			width = blockComment(rest)
		case script[i] == '\'' || script[i] == '"':
			width = quoted(rest, script[i])
		case script[i] == '`':
			width = backtick(rest)
		default:
			width = 1
		}
		stmt.WriteString(rest[:width])
		i += width
	}

	flush()
	return out
}

// matchDirective recognizes "delimiter <token>" (case-insensitive) at the
// current position. It reports the new delimiter and how many bytes the
// whole directive line occupies.
func matchDirective(s string) (string, int, bool) {
	const keyword = "delimiter"
	if len(s) < len(keyword)+2 {
		return "", 0, false
	}
	if !strings.EqualFold(s[:len(keyword)], keyword) {
		return "", 0, false
	}
	i := len(keyword)
	if s[i] != ' ' && s[i] != '\t' {
		return "", 0, false
	}
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	start := i
	for i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != '\n' && s[i] != '\r' {
		i++
	}
	if start == i {
		return "", 0, false
	}
	delim := s[start:i]
	return delim, start + len(delim) + lineEnd(s[start+len(delim):]), true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWord(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func span(s string, pred func(byte) bool) int {
	i := 0
	for i < len(s) && pred(s[i]) {
		i++
	}
	return i
}

// lineEnd returns the number of bytes up to, but excluding, the next
// newline. The newline itself is picked up as ordinary whitespace.
func lineEnd(s string) int {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return idx
	}
	return len(s)
}

func blockComment(s string) int {
	if idx := strings.Index(s[2:], "*/"); idx >= 0 {
		return 2 + idx + 2
	}
	return len(s)
}

// quoted consumes a single- or double-quoted string supporting backslash
// escapes and doubled-quote escapes.
func quoted(s string, quote byte) int {
	i := 1
	for i < len(s) {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			i += 2
		case s[i] == quote && i+1 < len(s) && s[i+1] == quote:
			i += 2
		case s[i] == quote:
			return i + 1
		default:
			i++
		}
	}
	return len(s)
}

// backtick consumes a backtick-quoted identifier with doubled-backtick
// escaping. Backslashes are not special inside backticks.
func backtick(s string) int {
	i := 1
	for i < len(s) {
		switch {
		case s[i] == '`' && i+1 < len(s) && s[i+1] == '`':
			i += 2
		case s[i] == '`':
			return i + 1
		default:
			i++
		}
	}
	return len(s)
}
