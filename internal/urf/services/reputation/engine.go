// Package reputation implements the URL reputation decision engine. An
// Engine is built once from an immutable policy and evaluates every
// candidate URL through an ordered rule pipeline: whitelist, allow
// patterns, scheme policy, blocked domains, blocked patterns, and
// finally the heuristic battery (entropy, TLD legality, Unicode
// security). First match wins.
package reputation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/haukened/rr-urf/internal/urf/analyzers/idnasec"
	"github.com/haukened/rr-urf/internal/urf/analyzers/lexical"
	"github.com/haukened/rr-urf/internal/urf/common/log"
	"github.com/haukened/rr-urf/internal/urf/common/utils"
	"github.com/haukened/rr-urf/internal/urf/domain"
	"github.com/haukened/rr-urf/internal/urf/repos/patterns"
)

// secureScheme is the only scheme the non-secure-http rule permits.
const secureScheme = "https"

// Engine evaluates URLs against a fixed policy. Construct once via New;
// the engine holds no per-call state and is safe for concurrent use.
type Engine struct {
	policy    domain.Policy
	whitelist DomainSet
	blocklist DomainSet
	tlds      TLDSet
	allow     *patterns.List
	block     *patterns.List
	dropped   int
	logger    log.Logger
}

// Options carries the engine's dependencies.
// Whitelist and Blocklist may be nil when the policy has no domain
// lists; TLDs is required whenever the heuristic battery is enabled.
type Options struct {
	Policy    domain.Policy
	Whitelist DomainSet
	Blocklist DomainSet
	TLDs      TLDSet
	Logger    log.Logger
}

// New builds an Engine, compiling the policy's pattern lists. Patterns
// that fail to compile are dropped and counted, never fatal; the count
// is observable via DroppedPatterns.
func New(opts Options) (*Engine, error) {
	if err := opts.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	if opts.Policy.UseHeuristicCheck && opts.TLDs == nil {
		return nil, fmt.Errorf("heuristic check enabled but no TLD set provided")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	allow, droppedAllow := patterns.Compile(opts.Policy.AllowedPatterns, logger)
	block, droppedBlock := patterns.Compile(opts.Policy.BlockedPatterns, logger)
	dropped := droppedAllow + droppedBlock
	if dropped > 0 {
		logger.Info(map[string]any{
			"dropped":  dropped,
			"compiled": allow.Len() + block.Len(),
		}, "engine built with dropped patterns")
	}

	return &Engine{
		policy:    opts.Policy,
		whitelist: opts.Whitelist,
		blocklist: opts.Blocklist,
		tlds:      opts.TLDs,
		allow:     allow,
		block:     block,
		dropped:   dropped,
		logger:    logger,
	}, nil
}

// DroppedPatterns returns how many policy patterns failed to compile and
// were discarded at construction.
func (e *Engine) DroppedPatterns() int { return e.dropped }

// Policy returns the engine's policy.
func (e *Engine) Policy() domain.Policy { return e.policy }

// Validate evaluates one URL and returns the decision. It never returns
// an error: malformed input is itself a blocking outcome. The method is
// a pure function of (rawURL, engine state) with no side effects.
//
// Normalization lowercases the scheme and host only; the path, query,
// and fragment keep their case so patterns match what the caller sent.
func (e *Engine) Validate(rawURL string) domain.Decision {
	trimmed := strings.TrimSpace(rawURL)

	parsed, err := url.ParseRequestURI(trimmed)
	if err != nil {
		return domain.Block(
			domain.ReasonParseURL,
			fmt.Sprintf("URL %s is blocked", rawURL),
			map[string]string{domain.DetailURL: rawURL},
		)
	}

	host := utils.CanonicalHost(parsed.Hostname())
	if host == "" {
		return domain.Block(
			domain.ReasonParseDomain,
			fmt.Sprintf("URL %s is blocked", rawURL),
			map[string]string{domain.DetailURL: rawURL},
		)
	}

	ipLiteral := utils.IsIPLiteral(host)
	scheme := strings.ToLower(parsed.Scheme)

	// Whitelisted domains take precedence over every blocking rule.
	if e.whitelist != nil && e.whitelist.Contains(host) {
		return domain.Allow()
	}
	if e.allow.MatchAny(trimmed) {
		return domain.Allow()
	}

	if e.policy.BlockNonSecureHTTP && scheme != secureScheme {
		return domain.Block(
			domain.ReasonNonSecureHTTP,
			fmt.Sprintf("URL %s is blocked", rawURL),
			map[string]string{domain.DetailURL: rawURL},
		)
	}

	if e.blocklist != nil && e.blocklist.Contains(host) {
		return domain.Block(
			domain.ReasonBlockedDomain,
			fmt.Sprintf("Domain %s is blocked", host),
			map[string]string{domain.DetailDomain: host},
		)
	}

	if e.block.MatchAny(trimmed) {
		return domain.Block(
			domain.ReasonBlockedPattern,
			"URL matches blocked pattern",
			map[string]string{domain.DetailURL: rawURL},
		)
	}

	// IP literals never undergo heuristic analysis.
	if !ipLiteral && e.policy.UseHeuristicCheck {
		if lexical.Random(host, e.policy.EntropyThreshold) {
			return domain.Block(
				domain.ReasonHighEntropy,
				fmt.Sprintf("Domain exceeds entropy threshold: %s", host),
				map[string]string{domain.DetailDomain: host},
			)
		}
		if !e.tlds.Legal(host) {
			return domain.Block(
				domain.ReasonIllegalTLD,
				fmt.Sprintf("Domain TLD not legal: %s", host),
				map[string]string{domain.DetailDomain: host},
			)
		}
		if !idnasec.Secure(host) {
			return domain.Block(
				domain.ReasonUnicode,
				fmt.Sprintf("Domain unicode is not secure for domain: %s", host),
				map[string]string{domain.DetailDomain: host},
			)
		}
	}

	return domain.Allow()
}
