package domain

// ViolationCode is the stable classification string attached to every
// blocking outcome. Callers route on Reason for the specific cause.
const ViolationCode = "URL_REPUTATION_BLOCK"

// Block reasons, one per rule in the evaluation pipeline.
const (
	ReasonParseURL       = "could not parse url"
	ReasonParseDomain    = "could not parse domain"
	ReasonNonSecureHTTP  = "blocked non secure http url"
	ReasonBlockedDomain  = "domain in blocked set"
	ReasonBlockedPattern = "blocked pattern"
	ReasonHighEntropy    = "high entropy domain"
	ReasonIllegalTLD     = "illegal tld"
	ReasonUnicode        = "domain unicode is not secure"
)

// Detail keys used in Violation.Details.
const (
	DetailURL    = "url"
	DetailDomain = "domain"
)

// Violation describes why a URL was blocked.
// Pure value type, no external dependencies.
type Violation struct {
	Reason      string            `json:"reason"`
	Description string            `json:"description"`
	Code        string            `json:"code"`
	Details     map[string]string `json:"details,omitempty"`
}

// Decision is the outcome of evaluating one URL. Exactly one of the two
// states holds: allowed (Violation nil) or blocked (Violation set).
type Decision struct {
	Allowed   bool       `json:"continue_processing"`
	Violation *Violation `json:"violation,omitempty"`
}

// Blocked is a convenience accessor.
func (d Decision) Blocked() bool { return !d.Allowed }

// Reason returns the violation reason, or "" when the URL was allowed.
func (d Decision) Reason() string {
	if d.Violation == nil {
		return ""
	}
	return d.Violation.Reason
}

// Allow returns an allowed decision.
func Allow() Decision { return Decision{Allowed: true} }

// Block returns a blocked decision carrying a fully populated Violation.
func Block(reason, description string, details map[string]string) Decision {
	return Decision{
		Allowed: false,
		Violation: &Violation{
			Reason:      reason,
			Description: description,
			Code:        ViolationCode,
			Details:     details,
		},
	}
}
