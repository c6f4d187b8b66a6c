package domainset

// Nop is a Set that matches nothing. Used when a list is not configured,
// so the engine never needs a nil check.
type Nop struct{}

func (Nop) Lookup(string) Match                     { return Match{} }
func (Nop) Contains(string) bool                    { return false }
func (Nop) UpdateAll([]string, uint64, int64) error { return nil }
func (Nop) Stats() RepoStats                        { return RepoStats{} }

var _ Set = Nop{}
