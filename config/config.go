package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DBConfig holds the hosted Postgres connection settings.
type DBConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"sslmode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// DSN builds the lib/pq connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// AuthConfig selects how sessions are verified against the auth service.
// Mode "jwt" verifies access tokens locally with JWTSecret; mode "remote"
// asks the service at URL for every lookup.
type AuthConfig struct {
	Mode          string        `yaml:"mode"`
	JWTSecret     string        `yaml:"jwt_secret"`
	URL           string        `yaml:"url"`
	APIKey        string        `yaml:"api_key"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	SessionSecret string        `yaml:"session_secret"`
	SecureCookie  bool          `yaml:"secure_cookie"`
}

// GuardConfig tunes the session guard.
type GuardConfig struct {
	SignInPath     string        `yaml:"sign_in_path"`
	LoadingTimeout time.Duration `yaml:"loading_timeout"`
	LookupTimeout  time.Duration `yaml:"lookup_timeout"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	UploadDir       string        `yaml:"upload_dir"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type JobsConfig struct {
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
}

type Config struct {
	DB     DBConfig     `yaml:"db"`
	Auth   AuthConfig   `yaml:"auth"`
	Guard  GuardConfig  `yaml:"guard"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Jobs   JobsConfig   `yaml:"jobs"`
}

// Default returns the configuration used when neither the file nor the
// environment sets a value.
func Default() Config {
	return Config{
		DB: DBConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "require",
		},
		Auth: AuthConfig{
			Mode:     "jwt",
			TokenTTL: time.Hour,
		},
		Guard: GuardConfig{
			SignInPath:     "/auth",
			LoadingTimeout: 2 * time.Second,
			LookupTimeout:  5 * time.Second,
		},
		Server: ServerConfig{
			Port:            "3000",
			AllowedOrigins:  []string{"http://localhost:5173"},
			UploadDir:       "uploads",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Jobs: JobsConfig{
			ReconcileInterval: time.Hour,
		},
	}
}

// Load reads path (when it exists) over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := overrideFromEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.DB.User == "" {
		missing = append(missing, "DB_USER")
	}
	if c.DB.Name == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.Auth.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	switch c.Auth.Mode {
	case "jwt":
		if c.Auth.JWTSecret == "" {
			missing = append(missing, "JWT_SECRET")
		}
	case "remote":
		if c.Auth.URL == "" {
			missing = append(missing, "AUTH_URL")
		}
		if c.Auth.APIKey == "" {
			missing = append(missing, "AUTH_API_KEY")
		}
	default:
		return fmt.Errorf("unknown auth mode %q (want jwt or remote)", c.Auth.Mode)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if !strings.HasPrefix(c.Guard.SignInPath, "/") {
		return fmt.Errorf("guard sign-in path must be absolute, got %q", c.Guard.SignInPath)
	}
	if c.Guard.LoadingTimeout <= 0 || c.Guard.LookupTimeout <= 0 {
		return errors.New("guard timeouts must be positive")
	}
	return nil
}

func overrideFromEnv(cfg *Config) error {
	setString(&cfg.DB.Host, "DB_HOST")
	setString(&cfg.DB.User, "DB_USER")
	setString(&cfg.DB.Password, "DB_PASSWORD")
	setString(&cfg.DB.Name, "DB_NAME")
	setString(&cfg.DB.SSLMode, "DB_SSLMODE")
	setString(&cfg.Auth.Mode, "AUTH_MODE")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Auth.URL, "AUTH_URL")
	setString(&cfg.Auth.APIKey, "AUTH_API_KEY")
	setString(&cfg.Auth.SessionSecret, "SESSION_SECRET")
	setString(&cfg.Guard.SignInPath, "GUARD_SIGN_IN_PATH")
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.UploadDir, "UPLOAD_DIR")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}

	if err := setInt(&cfg.DB.Port, "DB_PORT"); err != nil {
		return err
	}
	for key, dst := range map[string]*bool{
		"DB_AUTO_MIGRATE":    &cfg.DB.AutoMigrate,
		"AUTH_SECURE_COOKIE": &cfg.Auth.SecureCookie,
		"LOG_DEVELOPMENT":    &cfg.Log.Development,
	} {
		if err := setBool(dst, key); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*time.Duration{
		"AUTH_TOKEN_TTL":          &cfg.Auth.TokenTTL,
		"GUARD_LOADING_TIMEOUT":   &cfg.Guard.LoadingTimeout,
		"GUARD_LOOKUP_TIMEOUT":    &cfg.Guard.LookupTimeout,
		"SHUTDOWN_TIMEOUT":        &cfg.Server.ShutdownTimeout,
		"JOBS_RECONCILE_INTERVAL": &cfg.Jobs.ReconcileInterval,
	} {
		if err := setDuration(dst, key); err != nil {
			return err
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
