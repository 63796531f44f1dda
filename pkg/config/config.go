package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FARMBASKET_APP_ENV" required:"true"`
	Port         string `envconfig:"FARMBASKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FARMBASKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FARMBASKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FARMBASKET_DB_DSN"`
	Driver string `envconfig:"FARMBASKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FARMBASKET_DB_HOST"`
	LegacyPort     int    `envconfig:"FARMBASKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FARMBASKET_DB_USER"`
	LegacyPassword string `envconfig:"FARMBASKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"FARMBASKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"FARMBASKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FARMBASKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FARMBASKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FARMBASKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FARMBASKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FARMBASKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FARMBASKET_REDIS_ADDR"`
	Password     string        `envconfig:"FARMBASKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"FARMBASKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FARMBASKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FARMBASKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FARMBASKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FARMBASKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FARMBASKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig drives the cart core: shipping fee policy, the seller-switch
// proposal lifetime, and snapshot durability knobs.
type CartConfig struct {
	FreeShippingThreshold decimal.Decimal `envconfig:"FARMBASKET_CART_FREE_SHIPPING_THRESHOLD" default:"150"`
	FlatShippingFee       decimal.Decimal `envconfig:"FARMBASKET_CART_FLAT_SHIPPING_FEE" default:"20"`
	ProposalTTL           time.Duration   `envconfig:"FARMBASKET_CART_PROPOSAL_TTL" default:"10m"`
	SnapshotTTL           time.Duration   `envconfig:"FARMBASKET_CART_SNAPSHOT_TTL" default:"720h"`
	VerifyTotals          bool            `envconfig:"FARMBASKET_CART_VERIFY_TOTALS" default:"false"`
}

func (c CartConfig) validate() error {
	if c.FreeShippingThreshold.IsNegative() {
		return fmt.Errorf("free shipping threshold cannot be negative")
	}
	if c.FlatShippingFee.IsNegative() {
		return fmt.Errorf("flat shipping fee cannot be negative")
	}
	if c.ProposalTTL <= 0 {
		return fmt.Errorf("proposal ttl must be positive")
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FARMBASKET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FARMBASKET_AUTO_MIGRATE" default:"false"`
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
