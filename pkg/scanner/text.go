package scanner

import (
	"regexp"
	"slices"
	"strings"

	"github.com/a13labs/hypgen/pkg/utils"
)

// codeMask marks the bytes of src that are not code: comments, string
// and character literals, and preprocessor lines
func codeMask(src string) []bool {
	mask := make([]bool, len(src))
	lineStart := true
	for i := 0; i < len(src); {
		c := src[i]
		start := i
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				i = len(src)
			} else {
				i += end + 4
			}
		case c == '"' || (c == '\'' && (i == 0 || !isWordByte(src[i-1]))):
			for i++; i < len(src); i++ {
				if src[i] == '\\' {
					i++
					continue
				}
				if src[i] == c || src[i] == '\n' {
					i++
					break
				}
			}
		case c == '#' && lineStart:
			for i < len(src) && src[i] != '\n' {
				if src[i] == '\\' && i+1 < len(src) && src[i+1] == '\n' {
					i++
				}
				i++
			}
		default:
			if c == '\n' {
				lineStart = true
			} else if c != ' ' && c != '\t' && c != '\r' {
				lineStart = false
			}
			i++
			continue
		}
		for j := start; j < i && j < len(src); j++ {
			mask[j] = true
		}
		lineStart = false
	}
	return mask
}

// matchClose returns the index of the bracket closing src[open], or -1
func matchClose(src string, mask []bool, open int) int {
	var closer byte
	switch src[open] {
	case '(':
		closer = ')'
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	default:
		return -1
	}
	depth := 0
	for i := open; i < len(src); i++ {
		if mask[i] {
			continue
		}
		switch src[i] {
		case src[open]:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// findBodyOpen returns the index of the first '{' at or after from, or -1
// when a ';' or the end of input comes first
func findBodyOpen(src string, mask []bool, from int) int {
	for i := from; i < len(src); i++ {
		if mask[i] {
			continue
		}
		switch src[i] {
		case '{':
			return i
		case ';', '}':
			return -1
		}
	}
	return -1
}

// memberEnd returns the index just past the declaration starting at
// from: its ';' at depth zero, or the '}' of a body. It returns -1 when
// limit is reached first.
func memberEnd(src string, mask []bool, from, limit int) int {
	depth := 0
	for i := from; i < limit; i++ {
		if mask[i] {
			continue
		}
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']':
			depth--
		case '}':
			depth--
			if depth < 0 {
				return -1
			}
			if depth > 0 {
				continue
			}
			j := nextCode(src, mask, i+1, limit)
			if j < 0 {
				return i + 1
			}
			switch src[j] {
			case ';':
				return j + 1
			case ',', '{':
				// brace initializer in a constructor initializer list
				continue
			}
			return i + 1
		case ';':
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// nextCode returns the index of the next non-blank code byte before limit
func nextCode(src string, mask []bool, from, limit int) int {
	for i := from; i < limit; i++ {
		if mask[i] || isSpace(src[i]) {
			continue
		}
		return i
	}
	return -1
}

var (
	namespaceHeadRe = regexp.MustCompile(`\bnamespace\b\s*(?:\[\[[^\]]*\]\]\s*)?((?:\s+|::|[A-Za-z_]\w*)*?)\s*$`)
	classHeadRe     = regexp.MustCompile(`\b(?:class|struct|union)\s+(?:[A-Za-z_]\w*\s+)*?([A-Za-z_]\w*)\s*(?:final\s*)?(?::[^;{}]*)?$`)
)

// scopeName returns the names a '{' opens given the code in front of it:
// the components of a namespace, a class name, or nothing
func scopeName(head string) []string {
	if m := namespaceHeadRe.FindStringSubmatch(head); m != nil {
		var names []string
		for _, part := range strings.FieldsFunc(m[1], func(r rune) bool { return r == ':' || isSpace(byte(r)) }) {
			if part != "inline" {
				names = append(names, part)
			}
		}
		return names
	}
	if m := classHeadRe.FindStringSubmatch(head); m != nil {
		return []string{m[1]}
	}
	return nil
}

// scopesAt returns the enclosing namespaces and classes at each of the
// ascending offsets
func scopesAt(src string, mask []bool, offsets []int) [][]string {
	out := make([][]string, len(offsets))
	var stack [][]string
	stmt, next := 0, 0
	for i := 0; i < len(src) && next < len(offsets); i++ {
		for next < len(offsets) && offsets[next] == i {
			out[next] = slices.Concat(stack...)
			next++
		}
		if mask[i] {
			continue
		}
		switch src[i] {
		case '{':
			stack = append(stack, scopeName(codeText(src, mask, stmt, i)))
			stmt = i + 1
		case '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			stmt = i + 1
		case ';':
			stmt = i + 1
		}
	}
	return out
}

// codeText returns src[from:to] with everything that is not code blanked
func codeText(src string, mask []bool, from, to int) string {
	b := []byte(src[from:to])
	for i := range b {
		if mask[from+i] {
			b[i] = ' '
		}
	}
	return string(b)
}

// leadingDoxygen returns the documentation comments directly in front of
// pos. A blank line ends the search.
func leadingDoxygen(src string, pos int) string {
	var blocks []string
	end := pos
	for {
		text := strings.TrimRight(src[:end], " \t\r\n")
		if strings.Count(src[len(text):end], "\n") > 1 {
			break
		}
		lineStart := strings.LastIndexByte(text, '\n') + 1
		line := strings.TrimSpace(text[lineStart:])
		if strings.HasPrefix(line, "//") {
			if !utils.IsDoxygenComment(line) {
				break
			}
			blocks = append(blocks, line)
			end = lineStart
			continue
		}
		if strings.HasSuffix(text, "*/") {
			open := strings.LastIndex(text, "/*")
			if open < 0 || !utils.IsDoxygenComment(text[open:]) {
				break
			}
			blocks = append(blocks, text[open:])
			end = open
			continue
		}
		break
	}
	slices.Reverse(blocks)
	return strings.Join(blocks, "\n")
}

func lineOf(src string, offset int) int {
	return strings.Count(src[:offset], "\n") + 1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
