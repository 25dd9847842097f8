package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "TBH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvDBDSN  = "TBH_DB_DSN"
	EnvDBHost = "TBH_DB_HOST"
	EnvDBUser = "TBH_DB_USER"
	EnvDBName = "TBH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TBH_APP_ENV" required:"true"`
	Port         string `envconfig:"TBH_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TBH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TBH_LOG_WARN_STACK" default:"false"`
	WebsiteInfo  string `envconfig:"TBH_WEBSITE_INFO" default:"Welcome to Tales by Hand: Shop authentic artisan products linked to the rich history of their Indian states."`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"TBH_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"TBH_HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"TBH_HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"TBH_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"TBH_HTTP_CORS_ORIGINS" default:"http://localhost:3000"`
}

type DBConfig struct {
	DSN    string `envconfig:"TBH_DB_DSN"`
	Driver string `envconfig:"TBH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TBH_DB_HOST"`
	LegacyPort     int    `envconfig:"TBH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TBH_DB_USER"`
	LegacyPassword string `envconfig:"TBH_DB_PASSWORD"`
	LegacyName     string `envconfig:"TBH_DB_NAME"`
	LegacySSLMode  string `envconfig:"TBH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TBH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TBH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TBH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TBH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"TBH_REDIS_URL"`
	Address      string        `envconfig:"TBH_REDIS_ADDR"`
	Password     string        `envconfig:"TBH_REDIS_PASSWORD"`
	DB           int           `envconfig:"TBH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TBH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TBH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TBH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TBH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TBH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TBH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TBH_JWT_ISSUER" default:"talesbyhand"`
	ExpirationMinutes      int    `envconfig:"TBH_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"TBH_REFRESH_TOKEN_TTL_MINUTES" default:"20160"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type SessionConfig struct {
	CookieName   string `envconfig:"TBH_SESSION_COOKIE_NAME" default:"tbh_session"`
	CookieSecure bool   `envconfig:"TBH_SESSION_COOKIE_SECURE" default:"false"`
	LoginPath    string `envconfig:"TBH_SESSION_LOGIN_PATH" default:"/login/"`
	RedirectPath string `envconfig:"TBH_SESSION_REDIRECT_PATH" default:"/"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TBH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TBH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TBH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TBH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TBH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TBH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"TBH_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"TBH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type CartConfig struct {
	MaxLineQuantity int `envconfig:"TBH_CART_MAX_LINE_QUANTITY" default:"999"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TBH_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
