package parsers

import (
	"strings"
	"unicode"

	"github.com/haukened/rr-urf/internal/urf/common/utils"
)

// stripLineBOM removes a leading byte order mark.
func stripLineBOM(line string) string {
	return strings.TrimPrefix(line, "\uFEFF")
}

// classifyLine reports whether the trimmed line is empty or a whole-line
// comment, before inline comment stripping.
func classifyLine(line string) (isEmpty, isComment bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true, false
	}
	if strings.HasPrefix(trimmed, "#") {
		return false, true
	}
	return false, false
}

// stripInlineComment removes everything from the first '#' onward.
func stripInlineComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// normalizeDomainName trims surrounding whitespace, removes leading "*."
// or "." markers, and canonicalizes via utils.CanonicalHost.
func normalizeDomainName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "*.")
	name = strings.TrimPrefix(name, ".")
	return utils.CanonicalHost(name)
}

// isValidDomainName checks whether name is a plausible domain:
//   - at most 253 characters overall
//   - at least two labels
//   - each label between 1 and 63 characters
//   - the first label starts with a letter or digit
func isValidDomainName(name string) bool {
	if len(name) > 253 {
		return false
	}
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
	}
	first := []rune(labels[0])
	return unicode.IsLetter(first[0]) || unicode.IsDigit(first[0])
}

// isLocalhostAlias filters the boilerplate entries hosts files carry.
func isLocalhostAlias(name string) bool {
	switch name {
	case "localhost.localdomain", "local.localdomain", "broadcasthost":
		return true
	}
	return false
}
