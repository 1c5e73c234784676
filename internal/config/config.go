package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets have no insecure defaults: the process
// refuses to start when JWT_SECRET, ADMIN_PASSWORD or BOOTSTRAP_SECRET are
// missing.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DatabaseURL     string // full MySQL DSN; takes precedence over discrete params
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	DBTLS           string // TLS mode for the DB connection ("", "true", "skip-verify")
	JWTSecret       string // secret used to sign JWTs
	TokenTTLHours   int    // access token time-to-live in hours
	BcryptCost      int    // bcrypt cost for password hashing
	AdminPassword   string // password for the seeded admin account
	BootstrapSecret string // secret required by POST /api/create-admin
	PayPalBaseURL   string // PayPal REST API base URL (sandbox or live)
	PayPalClientID  string // PayPal client id (empty disables the gateway)
	PayPalSecret    string // PayPal client secret
	PayPalCurrency  string // currency code used for orders
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Database parameters
// are only required individually when DATABASE_URL is unset.
func Load() Config {
	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("PORT", "3000"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBTLS:           os.Getenv("DB_TLS"),
		JWTSecret:       must("JWT_SECRET"),
		TokenTTLHours:   envInt("TOKEN_TTL_HOURS", 24),
		BcryptCost:      envInt("BCRYPT_COST", 10),
		AdminPassword:   must("ADMIN_PASSWORD"),
		BootstrapSecret: must("BOOTSTRAP_SECRET"),
		PayPalBaseURL:   envStr("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
		PayPalClientID:  os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalSecret:    os.Getenv("PAYPAL_CLIENT_SECRET"),
		PayPalCurrency:  envStr("PAYPAL_CURRENCY", "PHP"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASSWORD")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = envStr("DB_PORT", "3306")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
