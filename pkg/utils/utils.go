// Package utils provides helpers shared by the parser and the generator
package utils

import (
	"bufio"
	"regexp"
	"strings"
)

// IsDoxygenComment checks if a comment token is a leading doxygen comment
func IsDoxygenComment(text string) bool {
	trimmed := strings.TrimSpace(text)
	if IsTrailingDoxygen(trimmed) {
		return false
	}
	switch {
	case strings.HasPrefix(trimmed, "////"), trimmed == "/**/", strings.HasPrefix(trimmed, "/***"):
		return false
	}
	return strings.HasPrefix(trimmed, "/**") ||
		strings.HasPrefix(trimmed, "///") ||
		strings.HasPrefix(trimmed, "//!") ||
		strings.HasPrefix(trimmed, "/*!")
}

// IsTrailingDoxygen checks for the ///< family that documents the
// preceding declaration
func IsTrailingDoxygen(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, prefix := range []string{"///<", "//!<", "/**<", "/*!<"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

var commentMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^/\*\*<?`), // /** or /**<
	regexp.MustCompile(`^/\*!<?`),  // /*! or /*!<
	regexp.MustCompile(`^\*/`),     // */
	regexp.MustCompile(`^///<?`),   // /// or ///<
	regexp.MustCompile(`^//!<?`),   // //! or //!<
	regexp.MustCompile(`^\*\s?`),   // * or *
	regexp.MustCompile(`\*/$`),     // */
}

// CleanComment removes comment markers and normalizes whitespace
func CleanComment(comment string) string {
	if comment == "" {
		return ""
	}

	var result strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(comment))

	for scanner.Scan() {
		cleaned := cleanCommentLine(scanner.Text())
		if cleaned != "" || result.Len() > 0 {
			if result.Len() > 0 {
				result.WriteString("\n")
			}
			result.WriteString(cleaned)
		}
	}

	return strings.TrimRight(result.String(), "\n")
}

// cleanCommentLine cleans a single line of a comment
func cleanCommentLine(line string) string {
	line = strings.TrimSpace(line)
	for _, re := range commentMarkers {
		line = re.ReplaceAllString(line, "")
	}
	return strings.TrimSpace(line)
}

// ExtractBrief extracts the brief description from a doxygen comment
func ExtractBrief(comment string) string {
	lines := strings.Split(CleanComment(comment), "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)

		// Look for @brief or \brief
		if strings.HasPrefix(line, "@brief ") || strings.HasPrefix(line, "\\brief ") {
			return strings.TrimSpace(line[7:])
		}

		// If no explicit @brief, the first non-empty line is the brief
		if line != "" && !strings.HasPrefix(line, "@") && !strings.HasPrefix(line, "\\") {
			return line
		}
	}

	return ""
}

// SplitPath splits a C++ qualified name into parts
func SplitPath(path string) []string {
	path = strings.Trim(path, ":")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "::")
}

// JoinPath joins path parts into a C++ qualified name
func JoinPath(parts []string) string {
	return strings.Join(parts, "::")
}

// LastSegment returns the unqualified name with any template arguments
// removed, e.g. "Handle" for "hyperion::Handle<Entity>".
func LastSegment(path string) string {
	parts := SplitPath(RemoveTemplateParams(path))
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-1])
}

// IsValidCppIdentifier checks if a string is a valid C++ identifier
func IsValidCppIdentifier(name string) bool {
	if name == "" {
		return false
	}

	// Must start with letter or underscore
	if !isLetter(rune(name[0])) && name[0] != '_' {
		return false
	}

	// Rest must be letters, digits, or underscores
	for _, char := range name[1:] {
		if !isLetter(char) && !isDigit(char) && char != '_' {
			return false
		}
	}

	return true
}

// isLetter checks if a rune is a letter
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isDigit checks if a rune is a digit
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// RemoveTemplateParams removes template parameters from a type name
func RemoveTemplateParams(typeName string) string {
	depth := 0
	var result strings.Builder

	for _, char := range typeName {
		if char == '<' {
			depth++
		} else if char == '>' {
			depth--
		} else if depth == 0 {
			result.WriteRune(char)
		}
	}

	return result.String()
}

// StripExtension drops the last file extension of a slash separated path
func StripExtension(path string) string {
	slash := strings.LastIndexByte(path, '/')
	if dot := strings.LastIndexByte(path, '.'); dot > slash+1 {
		return path[:dot]
	}
	return path
}
