package utils

import "strings"

// CanonicalHost returns a host in canonical comparison form:
// - Lowercased
// - Trimmed of surrounding whitespace
// - No trailing dots, so "example.com." and "example.com" compare equal.
func CanonicalHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.ToLower(host)
	for strings.HasSuffix(host, ".") {
		host = strings.TrimSuffix(host, ".")
	}
	return host
}

// Ancestors returns host followed by each parent domain obtained by
// dropping leading labels: "a.b.example.com" yields
// ["a.b.example.com", "b.example.com", "example.com", "com"].
// An empty host yields nil.
func Ancestors(host string) []string {
	if host == "" {
		return nil
	}
	out := make([]string, 0, strings.Count(host, ".")+1)
	for {
		out = append(out, host)
		i := strings.IndexByte(host, '.')
		if i < 0 || i+1 >= len(host) {
			break
		}
		host = host[i+1:]
	}
	return out
}
