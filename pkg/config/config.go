package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Taxonomy     TaxonomyConfig
	Favourites   FavouritesConfig
	Currency     CurrencyConfig
	Cron         CronConfig
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
	Env          string `envconfig:"MOTORLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"MOTORLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MOTORLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MOTORLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MOTORLINE_DB_DSN"`
	Driver string `envconfig:"MOTORLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MOTORLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"MOTORLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MOTORLINE_DB_USER"`
	LegacyPassword string `envconfig:"MOTORLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"MOTORLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"MOTORLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MOTORLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MOTORLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MOTORLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MOTORLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MOTORLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MOTORLINE_REDIS_ADDR"`
	Password     string        `envconfig:"MOTORLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MOTORLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MOTORLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MOTORLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MOTORLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MOTORLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MOTORLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MOTORLINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MOTORLINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MOTORLINE_JWT_EXPIRATION_MINUTES" default:"480"`
}

// Expiration returns the admin token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MOTORLINE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MOTORLINE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MOTORLINE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MOTORLINE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MOTORLINE_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MOTORLINE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MOTORLINE_AUTO_MIGRATE" default:"false"`
}

type TaxonomyConfig struct {
	CacheTTL time.Duration `envconfig:"MOTORLINE_TAXONOMY_CACHE_TTL" default:"24h"`
	LockTTL  time.Duration `envconfig:"MOTORLINE_TAXONOMY_LOCK_TTL" default:"60s"`
	FilePath string        `envconfig:"MOTORLINE_TAXONOMY_FILE_PATH" default:"var/taxonomy.json"`
}

type FavouritesConfig struct {
	PageSize int `envconfig:"MOTORLINE_FAVOURITES_PAGE_SIZE" default:"12"`
}

type CurrencyConfig struct {
	Base  string `envconfig:"MOTORLINE_CURRENCY_BASE" default:"GBP"`
	Rates string `envconfig:"MOTORLINE_CURRENCY_RATES" default:"EUR=1.17,USD=1.27"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"MOTORLINE_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"MOTORLINE_CRON_LOCK_TTL" default:"25h"`
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
