package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const minSecretLength = 32

// Config holds the application configuration
type Config struct {
	Port                 string        // Service port
	DatabaseURL          string        // Postgres DSN
	RedisURL             string        // Revocation list backend; empty selects the in-memory list
	AppKey               string        // HMAC secret for the client_data cookie
	TokenSecret          string        // Secret for signing bearer JWTs
	TokenIssuer          string        // JWT issuer claim
	TokenAudience        string        // JWT audience claim
	TokenTTL             time.Duration // Bearer token lifetime
	TenantBindingEnabled bool          // Toggles the client cookie validator
	CookieSecure         bool          // Secure attribute on issued cookies
	InternalAuthSecret   string        // Guards /internal/* when set
	TrustedProxies       []*net.IPNet  // Hops allowed to set X-Forwarded-For; empty means the peer address is the client
	BcryptCost           int
	SeedAdminEmail       string
	SeedAdminPassword    string
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		AppKey:             getEnv("APP_KEY", ""),
		TokenSecret:        getEnv("TOKEN_SECRET", ""),
		TokenIssuer:        getEnv("TOKEN_ISSUER", "client-gate"),
		TokenAudience:      getEnv("TOKEN_AUDIENCE", "client-gate-spa"),
		TokenTTL:           24 * time.Hour,
		InternalAuthSecret: getEnv("INTERNAL_AUTH_SECRET", ""),
		SeedAdminEmail:     getEnv("SEED_ADMIN_EMAIL", "admin@erp.com"),
		SeedAdminPassword:  getEnv("SEED_ADMIN_PASSWORD", ""),
	}

	if ttlStr := os.Getenv("TOKEN_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL format: %w", err)
		}
		config.TokenTTL = duration
	}

	var err error
	if config.TenantBindingEnabled, err = getBool("TENANT_BINDING_ENABLED", true); err != nil {
		return nil, err
	}
	if config.CookieSecure, err = getBool("COOKIE_SECURE", true); err != nil {
		return nil, err
	}

	if config.TrustedProxies, err = getCIDRs("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	config.BcryptCost = 10
	if costStr := os.Getenv("BCRYPT_COST"); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		config.BcryptCost = cost
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if len(c.AppKey) < minSecretLength {
		return fmt.Errorf("APP_KEY must be at least %d characters", minSecretLength)
	}

	if len(c.TokenSecret) < minSecretLength {
		return fmt.Errorf("TOKEN_SECRET must be at least %d characters", minSecretLength)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// getCIDRs parses a comma-separated list of CIDRs or bare IPs.
func getCIDRs(key string) ([]*net.IPNet, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return nil, nil
	}

	var nets []*net.IPNet
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid %s entry %q", key, entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry %q: %w", key, entry, err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}
