// Package idnasec analyzes internationalized domain names for homograph
// and invisible-character spoofing. A domain passes only when every label
// is script-consistent after IDNA decoding; anything ambiguous fails
// closed.
package idnasec

import (
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

// maxDomainLen is the ceiling for a full domain name in its Unicode form.
const maxDomainLen = 253

// lookup decodes punycode labels and applies UTS-46 mapping. DNS length
// checks are applied separately against the decoded Unicode form.
var lookup = idna.New(
	idna.MapForLookup(),
	idna.StrictDomainName(true),
	idna.BidiRule(),
	idna.VerifyDNSLength(false),
)

// RestrictionLevel classifies how many distinct scripts a label mixes,
// after UTS #39.
type RestrictionLevel uint8

const (
	// Unrestricted covers every mix not matched by a stricter level.
	Unrestricted RestrictionLevel = iota
	// ASCIIOnly labels contain only ASCII code points.
	ASCIIOnly
	// SingleScript labels resolve to at most one script.
	SingleScript
	// HighlyRestrictive labels mix Latin with one CJK script family.
	HighlyRestrictive
)

// String returns a stable name for the level.
func (l RestrictionLevel) String() string {
	switch l {
	case ASCIIOnly:
		return "ascii-only"
	case SingleScript:
		return "single-script"
	case HighlyRestrictive:
		return "highly-restrictive"
	default:
		return "unrestricted"
	}
}

// Secure reports whether host is safe from homograph and invisible
// character spoofing. The host is decoded to its Unicode form; decode
// errors and oversized results fail. Every dot-separated label must be
// non-empty (also after hyphen removal), contain only identifier-safe
// code points, and sit at a permitted restriction level.
func Secure(host string) bool {
	unicodeForm, err := lookup.ToUnicode(host)
	if err != nil || len(unicodeForm) > maxDomainLen {
		return false
	}
	for _, label := range strings.Split(unicodeForm, ".") {
		if !secureLabel(label) {
			return false
		}
	}
	return true
}

// secureLabel applies the per-label battery from Secure.
func secureLabel(label string) bool {
	if label == "" {
		return false
	}
	cleaned := strings.ReplaceAll(label, "-", "")
	if cleaned == "" {
		return false
	}
	for _, r := range cleaned {
		if !identifierAllowed(r) {
			return false
		}
	}
	switch DetectRestrictionLevel(cleaned) {
	case ASCIIOnly, SingleScript, HighlyRestrictive:
		return true
	default:
		return false
	}
}

// identifierAllowed reports whether r is safe to appear in a domain
// label: letters, digits, and combining marks only. Format, control, and
// other invisible code points are rejected outright.
func identifierAllowed(r rune) bool {
	if unicode.In(r, unicode.Cf, unicode.Cc, unicode.Cs, unicode.Co) {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// DetectRestrictionLevel classifies the script mix of s.
// Common and Inherited code points (digits, combining marks) are neutral
// and never count as a script of their own.
func DetectRestrictionLevel(s string) RestrictionLevel {
	ascii := true
	scripts := make(map[string]struct{}, 2)
	for _, r := range s {
		if r > unicode.MaxASCII {
			ascii = false
		}
		if name := scriptOf(r); name != "" {
			scripts[name] = struct{}{}
		}
	}
	if ascii {
		return ASCIIOnly
	}
	if len(scripts) <= 1 {
		return SingleScript
	}
	if highlyRestrictive(scripts) {
		return HighlyRestrictive
	}
	return Unrestricted
}

// cjkFamilies are the script combinations Latin may legitimately mix
// with: Japanese, Korean, and Han-with-Bopomofo writing systems.
var cjkFamilies = [][]string{
	{"Han", "Hiragana", "Katakana"},
	{"Han", "Hangul"},
	{"Han", "Bopomofo"},
}

// highlyRestrictive reports whether scripts is covered by Latin plus a
// single CJK family.
func highlyRestrictive(scripts map[string]struct{}) bool {
	for _, family := range cjkFamilies {
		if coveredBy(scripts, family) {
			return true
		}
	}
	return false
}

// coveredBy reports whether every script is Latin or a member of family.
func coveredBy(scripts map[string]struct{}, family []string) bool {
	for name := range scripts {
		if name == "Latin" {
			continue
		}
		member := false
		for _, f := range family {
			if name == f {
				member = true
				break
			}
		}
		if !member {
			return false
		}
	}
	return true
}

// scriptOf returns the Unicode script name for r, or "" for neutral
// (Common/Inherited) and unassigned code points.
func scriptOf(r rune) string {
	if unicode.In(r, unicode.Common, unicode.Inherited) {
		return ""
	}
	for name, table := range unicode.Scripts {
		if name == "Common" || name == "Inherited" {
			continue
		}
		if unicode.Is(table, r) {
			return name
		}
	}
	return ""
}
