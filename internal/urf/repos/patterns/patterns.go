// Package patterns compiles allow/block regular expression lists once at
// engine construction. A pattern that fails to compile is dropped rather
// than failing construction; the drop count is surfaced so operators can
// see when a policy is quietly narrower than written.
package patterns

import (
	"regexp"

	"github.com/haukened/rr-urf/internal/urf/common/log"
)

// List holds an ordered set of compiled expressions.
// Immutable after Compile; safe for concurrent use.
type List struct {
	exprs []*regexp.Regexp
}

// Compile compiles each expression in order, dropping any that fail.
// Returns the list and the number of dropped expressions; each drop is
// logged at warn level with the offending source.
func Compile(exprs []string, logger log.Logger) (*List, int) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	l := &List{exprs: make([]*regexp.Regexp, 0, len(exprs))}
	dropped := 0
	for _, src := range exprs {
		re, err := regexp.Compile(src)
		if err != nil {
			dropped++
			logger.Warn(map[string]any{
				"pattern": src,
				"error":   err.Error(),
			}, "dropping pattern that failed to compile")
			continue
		}
		l.exprs = append(l.exprs, re)
	}
	return l, dropped
}

// MatchAny reports whether text matches any compiled expression,
// short-circuiting on the first match.
func (l *List) MatchAny(text string) bool {
	for _, re := range l.exprs {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Len returns the number of successfully compiled expressions.
func (l *List) Len() int { return len(l.exprs) }
