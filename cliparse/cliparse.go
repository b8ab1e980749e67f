package cliparse

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
)

const (
	TracingNone   = "none"
	TracingStdout = "stdout"
	TracingOTLP   = "otlp"
)

type Config struct {
	Port           int      `envconfig:"PORT"             default:"3318"`
	DatabaseURL    string   `envconfig:"DATABASE_URL"`
	DatabaseType   string   `envconfig:"DATABASE_TYPE"    default:"sqlite"`
	IdentitySecret string   `envconfig:"IDENTITY_SECRET"`
	IdentityIssuer string   `envconfig:"IDENTITY_ISSUER"`
	RateLimitRPS   float64  `envconfig:"RATE_LIMIT_RPS"   default:"5"`
	RateLimitBurst int      `envconfig:"RATE_LIMIT_BURST" default:"10"`
	RedisAddr      string   `envconfig:"REDIS_ADDR"`
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
	Tracing        string   `envconfig:"TRACING"          default:"none"`
	MetricsEnabled bool     `envconfig:"METRICS_ENABLED"  default:"true"`
}

// AddFlags registers the configuration flags on fs. Flags only override
// the environment when set explicitly.
func AddFlags(fs *pflag.FlagSet) {
	// Network and storage
	fs.IntP("port", "p", 0, "Server port (env PORT)")
	fs.StringP("database-url", "d", "", "Database URL (env DATABASE_URL)")
	fs.StringP("database-type", "t", "", "Database type, sqlite or postgres (env DATABASE_TYPE)")

	// Identity (prefer env for the secret)
	fs.String("identity-secret", "", "Identity token signing secret (prefer env IDENTITY_SECRET)")
	fs.String("identity-issuer", "", "Required identity token issuer (env IDENTITY_ISSUER)")

	// Rate limiting
	fs.Float64("rate-limit-rps", 0, "Requests per second per client (env RATE_LIMIT_RPS)")
	fs.Int("rate-limit-burst", 0, "Burst size per client (env RATE_LIMIT_BURST)")
	fs.String("redis-addr", "", "Redis address for a shared rate limiter (env REDIS_ADDR)")
	fs.StringSlice("trusted-proxies", nil, "Proxy addresses or CIDRs whose X-Forwarded-For is believed (env TRUSTED_PROXIES)")

	// Observability
	fs.String("tracing", "", "Tracing exporter: none, stdout or otlp (env TRACING)")
	fs.Bool("metrics", true, "Expose /metrics (env METRICS_ENABLED)")

	fs.String("env-file", ".env", "Dotenv file loaded before the environment")
}

// Resolve builds a Config from defaults, the dotenv file, the environment
// and the flags on fs, in increasing precedence. fs must have been set up
// with AddFlags and parsed.
func Resolve(fs *pflag.FlagSet) (Config, error) {
	envFile, _ := fs.GetString("env-file")
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			// Load never overrides variables already in the environment
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	var err error
	changed := func(name string) bool { return err == nil && fs.Changed(name) }
	if changed("port") {
		cfg.Port, err = fs.GetInt("port")
	}
	if changed("database-url") {
		cfg.DatabaseURL, err = fs.GetString("database-url")
	}
	if changed("database-type") {
		cfg.DatabaseType, err = fs.GetString("database-type")
	}
	if changed("identity-secret") {
		cfg.IdentitySecret, err = fs.GetString("identity-secret")
	}
	if changed("identity-issuer") {
		cfg.IdentityIssuer, err = fs.GetString("identity-issuer")
	}
	if changed("rate-limit-rps") {
		cfg.RateLimitRPS, err = fs.GetFloat64("rate-limit-rps")
	}
	if changed("rate-limit-burst") {
		cfg.RateLimitBurst, err = fs.GetInt("rate-limit-burst")
	}
	if changed("redis-addr") {
		cfg.RedisAddr, err = fs.GetString("redis-addr")
	}
	if changed("trusted-proxies") {
		cfg.TrustedProxies, err = fs.GetStringSlice("trusted-proxies")
	}
	if changed("tracing") {
		cfg.Tracing, err = fs.GetString("tracing")
	}
	if changed("metrics") {
		cfg.MetricsEnabled, err = fs.GetBool("metrics")
	}
	if err != nil {
		return Config{}, err
	}

	cfg.DatabaseType = strings.ToLower(cfg.DatabaseType)
	cfg.Tracing = strings.ToLower(cfg.Tracing)
	return cfg, nil
}

// ParseFlags parses args and resolves a fully validated Config
func ParseFlags(args []string) (Config, error) {
	fs := pflag.NewFlagSet("civicvote", pflag.ContinueOnError)
	AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg, err := Resolve(fs)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateDatabase checks the settings needed to open the database.
func (c Config) ValidateDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	switch c.DatabaseType {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database type %q (use sqlite or postgres)", c.DatabaseType)
	}
	return nil
}

// Validate checks every setting the server needs.
func (c Config) Validate() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.IdentitySecret == "" {
		return errors.New("IDENTITY_SECRET required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	switch c.Tracing {
	case TracingNone, TracingStdout, TracingOTLP:
	default:
		return fmt.Errorf("unsupported tracing exporter %q (use none, stdout or otlp)", c.Tracing)
	}
	return nil
}
