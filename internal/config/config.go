package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/guild-tickets/internal/domain"
)

const defaultThemeColor = 0x111827

// Config aggregates runtime configuration for the service.
type Config struct {
	App     AppConfig
	Bot     BotConfig
	Brand   BrandConfig
	Tickets TicketsConfig
	Redis   RedisConfig
	Admin   AdminConfig
	Logger  LoggerConfig
}

// AppConfig controls the HTTP callback server.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BotConfig holds the platform credentials. Token, ClientID and GuildID are
// required; missing values fail startup.
type BotConfig struct {
	Token     string
	ClientID  string
	GuildID   string
	PublicKey string
}

// BrandConfig controls panel and welcome embed presentation.
type BrandConfig struct {
	Name       string
	ThemeColor int
	LogoURL    string
}

// TicketsConfig holds the ticket lifecycle settings.
type TicketsConfig struct {
	HelpChannelName        string
	CategoryID             string
	ArchiveMode            bool
	ArchiveCategoryID      string
	RoleMap                map[string]string
	LogChannelID           string
	AllowMultiplePerDomain bool
	PersistFile            string
}

// RedisConfig holds the optional index-mirror connection values. An empty
// Addr disables the mirror.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AdminConfig secures the administrative HTTP surface.
type AdminConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults
// where possible. The bot credentials have no defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("BOT_TOKEN")
	clientID := os.Getenv("CLIENT_ID")
	guildID := os.Getenv("GUILD_ID")
	if token == "" || clientID == "" || guildID == "" {
		return nil, fmt.Errorf("missing required env: BOT_TOKEN, CLIENT_ID, GUILD_ID")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "guild-tickets"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Bot: BotConfig{
			Token:     token,
			ClientID:  clientID,
			GuildID:   guildID,
			PublicKey: os.Getenv("BOT_PUBLIC_KEY"),
		},
		Brand: BrandConfig{
			Name:       getEnv("BRAND_NAME", "4hats"),
			ThemeColor: parseThemeColor(getEnv("THEME_COLOR", "0x111827")),
			LogoURL:    getEnv("LOGO_URL", ""),
		},
		Tickets: TicketsConfig{
			HelpChannelName:        strings.ToLower(getEnv("HELP_CHANNEL_NAME", "ticketes")),
			CategoryID:             getEnv("TICKET_CATEGORY_ID", ""),
			ArchiveMode:            getEnvAsBool("ARCHIVE_MODE", false),
			ArchiveCategoryID:      getEnv("ARCHIVE_CATEGORY_ID", ""),
			RoleMap:                loadRoleMap(),
			LogChannelID:           getEnv("LOG_CHANNEL_ID", ""),
			AllowMultiplePerDomain: getEnvAsBool("ALLOW_MULTIPLE_PER_DOMAIN", false),
			PersistFile:            getEnv("PERSIST_FILE", "tickets.json"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Admin: AdminConfig{
			JWTSecret:       getEnv("ADMIN_JWT_SECRET", "dev-secret"),
			TokenTTLMinutes: getEnvAsInt("ADMIN_TOKEN_TTL_MINUTES", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// RoleEnvKey maps a domain name to its role override variable:
// ROLE_<DOMAIN>_ID with the domain upper-cased and runs of spaces replaced
// by underscores.
func RoleEnvKey(dom string) string {
	return "ROLE_" + strings.Join(strings.Fields(strings.ToUpper(dom)), "_") + "_ID"
}

func loadRoleMap() map[string]string {
	roleMap := make(map[string]string, len(domain.Domains))
	for _, d := range domain.Domains {
		roleMap[d] = os.Getenv(RoleEnvKey(d))
	}
	return roleMap
}

func parseThemeColor(val string) int {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(val, "0x"), "0X")
	color, err := strconv.ParseInt(trimmed, 16, 32)
	if err != nil {
		return defaultThemeColor
	}
	return int(color)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Enabled reports whether the Redis mirror is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.ToLower(val))
	if err != nil {
		return fallback
	}
	return parsed
}
