package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// BaseDomain is the shared platform domain that free subdomains hang off,
	// e.g. "sites.smallbiznis.app".
	BaseDomain       string
	JurisdictionHint string

	DomainSearchURL      string
	DomainSearchAPIKey   string
	DeployerURL          string
	DeployerTokenURL     string
	DeployerClientID     string
	DeployerClientSecret string

	// DNSTargetIP / DNSTargetHost back the post-launch instructions shown to
	// tenants who bring their own domain.
	DNSTargetIP   string
	DNSTargetHost string

	PollInterval   time.Duration
	StuckThreshold time.Duration
	SweepInterval  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SnapshotTTL   time.Duration

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "sitekit"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		BaseDomain:       getenv("BASE_DOMAIN", "sites.smallbiznis.app"),
		JurisdictionHint: getenv("JURISDICTION_HINT", "US"),

		DomainSearchURL:      strings.TrimSpace(getenv("DOMAIN_SEARCH_URL", "")),
		DomainSearchAPIKey:   strings.TrimSpace(getenv("DOMAIN_SEARCH_API_KEY", "")),
		DeployerURL:          strings.TrimSpace(getenv("DEPLOYER_URL", "")),
		DeployerTokenURL:     strings.TrimSpace(getenv("DEPLOYER_TOKEN_URL", "")),
		DeployerClientID:     strings.TrimSpace(getenv("DEPLOYER_CLIENT_ID", "")),
		DeployerClientSecret: strings.TrimSpace(getenv("DEPLOYER_CLIENT_SECRET", "")),

		DNSTargetIP:   getenv("DNS_TARGET_IP", "76.76.21.21"),
		DNSTargetHost: getenv("DNS_TARGET_HOST", "edge.smallbiznis.app"),

		PollInterval:   getenvDuration("PUBLISH_POLL_INTERVAL", 5*time.Second),
		StuckThreshold: getenvDuration("PUBLISH_STUCK_THRESHOLD", 2*time.Minute),
		SweepInterval:  getenvDuration("PUBLISH_SWEEP_INTERVAL", time.Minute),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),
		SnapshotTTL:   getenvDuration("WIZARD_SNAPSHOT_TTL", 7*24*time.Hour),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "sitekit"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
