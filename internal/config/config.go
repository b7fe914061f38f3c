package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when IDENTITYSVC_CONFIG is not set. It may be absent.
const DefaultPath = "config/config.yml"

type AppConfig struct {
	Env             string `yaml:"env"`
	Port            int    `yaml:"port"`
	GinMode         string `yaml:"gin_mode"`
	LogLevel        string `yaml:"log_level"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"`
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	Issuer    string `yaml:"issuer"`
	AccessTTL string `yaml:"access_ttl"`
}

type PasswordConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type VerificationConfig struct {
	ResendWindow string `yaml:"resend_window"`
}

type TwilioConfig struct {
	AccountSID       string `yaml:"account_sid"`
	AuthToken        string `yaml:"auth_token"`
	VerifyServiceSID string `yaml:"verify_service_sid"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	Password     PasswordConfig     `yaml:"password"`
	Verification VerificationConfig `yaml:"verification"`
	Twilio       TwilioConfig       `yaml:"twilio"`
	Casbin       CasbinConfig       `yaml:"casbin"`
}

type Config struct {
	Env             string
	Port            string
	GinMode         string
	LogLevel        string
	ShutdownTimeout time.Duration

	DBDriver          string
	DSN               string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	AccessTTL  time.Duration
	BcryptCost int

	VerificationResendWindow time.Duration

	TwilioSID              string
	TwilioToken            string
	TwilioVerifyServiceSID string

	CasbinModelPath string
}

func defaults() ConfigFile {
	return ConfigFile{
		App: AppConfig{
			Env:             "development",
			Port:            8080,
			GinMode:         "release",
			LogLevel:        "info",
			ShutdownTimeout: "10s",
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "30m",
		},
		JWT: JWTConfig{
			Issuer:    "identitysvc",
			AccessTTL: "1h",
		},
		Verification: VerificationConfig{ResendWindow: "60s"},
	}
}

// Load reads the YAML file named by IDENTITYSVC_CONFIG (or DefaultPath),
// applies environment overrides and validates the result.
func Load() (*Config, error) {
	path := strings.TrimSpace(os.Getenv("IDENTITYSVC_CONFIG"))
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	file := defaults()
	if err := loadConfigFile(path, &file); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := applyEnv(&file); err != nil {
		return nil, err
	}
	return build(file)
}

func loadConfigFile(path string, into *ConfigFile) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file at %s: %w", path, err)
	}
	if err := yaml.Unmarshal(bytes, into); err != nil {
		return fmt.Errorf("could not parse config yaml: %w", err)
	}
	return nil
}

func applyEnv(f *ConfigFile) error {
	setString(&f.App.Env, "APP_ENV")
	setString(&f.App.GinMode, "GIN_MODE")
	setString(&f.App.LogLevel, "LOG_LEVEL")
	setString(&f.Database.Driver, "DATABASE_DRIVER")
	setString(&f.Database.DSN, "DATABASE_DSN")
	setString(&f.Redis.Addr, "REDIS_ADDR")
	setString(&f.Redis.Password, "REDIS_PASSWORD")
	setString(&f.JWT.Secret, "JWT_SECRET")
	setString(&f.JWT.Issuer, "JWT_ISSUER")
	setString(&f.JWT.AccessTTL, "JWT_ACCESS_TTL")
	setString(&f.Verification.ResendWindow, "VERIFICATION_RESEND_WINDOW")
	setString(&f.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	setString(&f.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	setString(&f.Twilio.VerifyServiceSID, "TWILIO_VERIFY_SERVICE_SID")
	setString(&f.Casbin.ModelPath, "CASBIN_MODEL_PATH")

	if err := setInt(&f.App.Port, "PORT"); err != nil {
		return err
	}
	if err := setInt(&f.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}
	return setInt(&f.Password.BcryptCost, "BCRYPT_COST")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func build(f ConfigFile) (*Config, error) {
	var problems []string
	if strings.TrimSpace(f.Database.DSN) == "" {
		problems = append(problems, "database.dsn (DATABASE_DSN) is required")
	}
	if strings.TrimSpace(f.JWT.Secret) == "" {
		problems = append(problems, "jwt.secret (JWT_SECRET) is required")
	}
	if f.App.Port <= 0 || f.App.Port > 65535 {
		problems = append(problems, fmt.Sprintf("app.port %d is out of range", f.App.Port))
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"app.shutdown_timeout", f.App.ShutdownTimeout, new(time.Duration)},
		{"database.conn_max_lifetime", f.Database.ConnMaxLifetime, new(time.Duration)},
		{"jwt.access_ttl", f.JWT.AccessTTL, new(time.Duration)},
		{"verification.resend_window", f.Verification.ResendWindow, new(time.Duration)},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil || parsed < 0 {
			problems = append(problems, fmt.Sprintf("%s %q is not a valid duration", d.name, d.value))
			continue
		}
		*d.dst = parsed
	}
	if *durations[2].dst <= 0 {
		problems = append(problems, "jwt.access_ttl must be positive")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return &Config{
		Env:             f.App.Env,
		Port:            strconv.Itoa(f.App.Port),
		GinMode:         f.App.GinMode,
		LogLevel:        f.App.LogLevel,
		ShutdownTimeout: *durations[0].dst,

		DBDriver:          f.Database.Driver,
		DSN:               f.Database.DSN,
		DBMaxOpenConns:    f.Database.MaxOpenConns,
		DBMaxIdleConns:    f.Database.MaxIdleConns,
		DBConnMaxLifetime: *durations[1].dst,

		RedisAddr:     f.Redis.Addr,
		RedisPassword: f.Redis.Password,
		RedisDB:       f.Redis.DB,

		JWTSecret:  f.JWT.Secret,
		JWTIssuer:  f.JWT.Issuer,
		AccessTTL:  *durations[2].dst,
		BcryptCost: f.Password.BcryptCost,

		VerificationResendWindow: *durations[3].dst,

		TwilioSID:              f.Twilio.AccountSID,
		TwilioToken:            f.Twilio.AuthToken,
		TwilioVerifyServiceSID: f.Twilio.VerifyServiceSID,

		CasbinModelPath: f.Casbin.ModelPath,
	}, nil
}
