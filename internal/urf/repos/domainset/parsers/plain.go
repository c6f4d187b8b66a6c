// Package parsers turns blocklist feed files into canonical domain
// entries for a domainset. Every entry matches itself and its
// subdomains, so wildcard markers like "*.example.com" collapse to the
// bare domain.
package parsers

import (
	"bufio"
	"io"
	"strings"

	logpkg "github.com/haukened/rr-urf/internal/urf/common/log"
)

// ParsePlainList parses a newline-delimited list of domains.
//
// Behavior:
// - Supports comments starting with '#' (inline or whole-line)
// - Strips leading "*." or "." markers and trailing dots
// - Skips empty lines and tokens that are not plausible domain names
// - De-duplicates by canonical name while preserving first-seen order
func ParsePlainList(r io.Reader, source string, logger logpkg.Logger) ([]string, error) {
	scanner := bufio.NewScanner(r)

	seen := make(map[string]struct{})
	out := make([]string, 0, 256)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := stripLineBOM(scanner.Text())

		if isEmpty, isComment := classifyLine(line); isEmpty || isComment {
			continue
		}
		line = stripInlineComment(line)

		name := normalizeDomainName(line)
		if !isValidDomainName(name) {
			logger.Debug(map[string]any{"source": source, "line": lineNum, "raw": line}, "skip invalid entry")
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if err := scanner.Err(); err != nil {
		logger.Debug(map[string]any{"source": source, "error": err.Error()}, "scan error")
		return nil, err
	}
	logger.Debug(map[string]any{"source": source, "count": len(out)}, "parsed plain list")
	return out, nil
}

// ParseHostsFile parses /etc/hosts-style files, ignoring the IP field
// and extracting the hostnames that follow it. Wildcard tokens and names
// starting with '.' are skipped per standard hosts file syntax.
func ParseHostsFile(r io.Reader, source string, logger logpkg.Logger) ([]string, error) {
	scanner := bufio.NewScanner(r)

	seen := make(map[string]struct{})
	out := make([]string, 0, 256)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := stripLineBOM(scanner.Text())

		if isEmpty, isComment := classifyLine(line); isEmpty || isComment {
			continue
		}
		line = stripInlineComment(line)

		fields := strings.Fields(line)
		if len(fields) < 2 {
			// no hostnames after the IP field
			continue
		}
		for _, raw := range fields[1:] {
			if raw == "" || strings.HasPrefix(raw, ".") || strings.Contains(raw, "*") {
				logger.Debug(map[string]any{"source": source, "line": lineNum, "raw": raw}, "skip invalid token")
				continue
			}
			name := normalizeDomainName(raw)
			if !isValidDomainName(name) || isLocalhostAlias(name) {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	logger.Debug(map[string]any{"source": source, "count": len(out)}, "parsed hosts file")
	return out, nil
}
