package reputation

// DomainSet answers ancestor-inclusive membership: a host matches when
// it equals a set entry or is a subdomain of one.
type DomainSet interface {
	Contains(host string) bool
}

// TLDSet answers whether a domain's final label is a registered TLD.
// Injected so tests can swap the embedded registry for a small table.
type TLDSet interface {
	Legal(domain string) bool
}
