package main

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/haukened/rr-urf/internal/urf/common/log"
	"github.com/haukened/rr-urf/internal/urf/config"
	"github.com/haukened/rr-urf/internal/urf/domain"
	"github.com/haukened/rr-urf/internal/urf/gateways/httpapi"
	"github.com/haukened/rr-urf/internal/urf/repos/domainset"
	"github.com/haukened/rr-urf/internal/urf/repos/domainset/bloom"
	"github.com/haukened/rr-urf/internal/urf/repos/domainset/bolt"
	"github.com/haukened/rr-urf/internal/urf/repos/domainset/lru"
	"github.com/haukened/rr-urf/internal/urf/repos/domainset/mem"
	"github.com/haukened/rr-urf/internal/urf/repos/domainset/parsers"
	"github.com/haukened/rr-urf/internal/urf/repos/policyfile"
	"github.com/haukened/rr-urf/internal/urf/repos/tldset"
	"github.com/haukened/rr-urf/internal/urf/services/reputation"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "rr-urfd"
)

// Application holds all the components of the reputation service
type Application struct {
	config *config.AppConfig
	server *httpapi.Server
	store  domainset.Store
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":     version,
		"env":         cfg.Env,
		"log_level":   cfg.LogLevel,
		"port":        cfg.Port,
		"cache_size":  cfg.CacheSize,
		"policy_path": cfg.PolicyPath,
		"store_path":  cfg.StorePath,
		"blocklists":  cfg.BlocklistFiles,
	}, "Starting RR-URF server")

	// Build application with all dependencies
	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	// Start the HTTP gateway
	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "RR-URF server stopped gracefully")
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	// Initialize logger (already configured globally)
	logger := log.GetLogger()

	// Load the policy that drives the engine
	policy, err := loadPolicy(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	// Build repository layer
	repos, err := buildRepositories(cfg, policy, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build repositories: %w", err)
	}

	// Build service layer
	engine, err := reputation.New(reputation.Options{
		Policy:    policy,
		Whitelist: repos.whitelist,
		Blocklist: repos.blocklist,
		TLDs:      repos.tlds,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	// Build gateway layer
	metrics := httpapi.NewMetrics()
	metrics.SetDroppedPatterns(engine.DroppedPatterns())
	metrics.SetBlockedDomains(repos.blocklist.Stats().Store.Entries)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := httpapi.NewServer(httpapi.Options{
		Addr:           addr,
		Engine:         engine,
		Metrics:        metrics,
		Logger:         logger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	return &Application{
		config: cfg,
		server: server,
		store:  repos.store,
	}, nil
}

// loadPolicy reads the policy file when one is configured, otherwise
// the packaged defaults apply.
func loadPolicy(cfg *config.AppConfig) (domain.Policy, error) {
	if cfg.PolicyPath == "" {
		log.Info(nil, "No policy file configured, using default policy")
		return domain.DefaultPolicy(), nil
	}
	policy, err := policyfile.Load(cfg.PolicyPath)
	if err != nil {
		return domain.Policy{}, err
	}
	log.Info(map[string]any{
		"path":             cfg.PolicyPath,
		"whitelist":        len(policy.WhitelistDomains),
		"blocked_domains":  len(policy.BlockedDomains),
		"allowed_patterns": len(policy.AllowedPatterns),
		"blocked_patterns": len(policy.BlockedPatterns),
		"heuristics":       policy.UseHeuristicCheck,
	}, "Policy file loaded")
	return policy, nil
}

// repositories holds all repository implementations
type repositories struct {
	whitelist domainset.Set
	blocklist domainset.Set
	tlds      *tldset.Set
	store     domainset.Store
}

// buildRepositories creates and seeds the domain sets and TLD table
func buildRepositories(cfg *config.AppConfig, policy domain.Policy, logger log.Logger) (*repositories, error) {
	// TLD table backs the heuristic battery
	tlds, err := tldset.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load TLD table: %w", err)
	}

	factory := bloom.NewFactory()

	// Whitelist is always in-memory; it is small and policy-owned
	whitelist, err := buildSet(mem.New(), cfg, factory)
	if err != nil {
		return nil, fmt.Errorf("failed to create whitelist set: %w", err)
	}

	// Blocklist may be bbolt-backed for large feeds
	var blockStore domainset.Store
	if cfg.StorePath != "" {
		blockStore, err = bolt.New(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open store %s: %w", cfg.StorePath, err)
		}
		log.Info(map[string]any{"path": cfg.StorePath}, "Blocked-domain store opened")
	} else {
		blockStore = mem.New()
	}
	blocklist, err := buildSet(blockStore, cfg, factory)
	if err != nil {
		return nil, fmt.Errorf("failed to create blocklist set: %w", err)
	}

	// Seed both sets from the policy and any configured feed files
	version := uint64(time.Now().UnixNano())
	now := time.Now().Unix()

	if err := whitelist.UpdateAll(policy.WhitelistDomains, version, now); err != nil {
		return nil, fmt.Errorf("failed to seed whitelist: %w", err)
	}

	blocked := append([]string(nil), policy.BlockedDomains...)
	for _, path := range cfg.BlocklistFiles {
		names, err := loadFeed(path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load blocklist file %s: %w", path, err)
		}
		blocked = append(blocked, names...)
	}
	if err := blocklist.UpdateAll(blocked, version, now); err != nil {
		return nil, fmt.Errorf("failed to seed blocklist: %w", err)
	}

	log.Info(map[string]any{
		"whitelist": whitelist.Stats().Store.Entries,
		"blocklist": blocklist.Stats().Store.Entries,
		"tlds":      tlds.Len(),
	}, "Domain sets initialized")

	return &repositories{
		whitelist: whitelist,
		blocklist: blocklist,
		tlds:      tlds,
		store:     blockStore,
	}, nil
}

// buildSet assembles one cache+bloom+store repository
func buildSet(store domainset.Store, cfg *config.AppConfig, factory domainset.BloomFactory) (domainset.Set, error) {
	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return domainset.NewRepository(store, cache, factory, cfg.BloomFPRate), nil
}

// loadFeed parses one blocklist feed file. Hosts-format files are
// detected by their leading IP field; everything else is treated as a
// plain newline-delimited domain list.
func loadFeed(path string, logger log.Logger) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if looksLikeHostsFile(path) {
		return parsers.ParseHostsFile(f, path, logger)
	}
	return parsers.ParsePlainList(f, path, logger)
}

// looksLikeHostsFile sniffs the first data line of the file for an IP
// address in the first field.
func looksLikeHostsFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		_, err := netip.ParseAddr(fields[0])
		return err == nil
	}
	return false
}

// Run starts the HTTP gateway and blocks until context is cancelled
func (app *Application) Run(ctx context.Context) error {
	log.Info(map[string]any{
		"address": app.server.Address(),
	}, "HTTP gateway starting")

	err := app.server.Start(ctx)

	// Close the persistent store after the listener drains
	if cerr := app.store.Close(); cerr != nil {
		log.Warn(map[string]any{"error": cerr}, "Error closing store")
	}

	return err
}
