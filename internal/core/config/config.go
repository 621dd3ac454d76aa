package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "vidprobe"
)

// ConfigDir returns the standard config directory for vidprobe.
// Windows: %APPDATA%\vidprobe\
// macOS/Linux: ~/.config/vidprobe/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
// e.g., ~/.config/vidprobe/config.yml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

type Config struct {
	// Language for user-facing error messages (e.g., "tr", "en")
	Language string `yaml:"language,omitempty"`

	// Server holds HTTP listener settings
	Server ServerConfig `yaml:"server,omitempty"`

	// Limits holds throttling and size constraints
	Limits LimitsConfig `yaml:"limits,omitempty"`

	// Engine holds extraction engine settings
	Engine EngineConfig `yaml:"engine,omitempty"`

	// Redis holds the optional Redis rate-limit store settings.
	// When Addr is empty the in-memory store is used.
	Redis RedisConfig `yaml:"redis,omitempty"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	// Host is the listen address (default: 0.0.0.0)
	Host string `yaml:"host,omitempty"`

	// Port is the HTTP listen port (default: 8000)
	Port int `yaml:"port,omitempty"`

	// AllowedOrigins are the CORS origins, "*" allows any
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// LimitsConfig holds per-client and per-request constraints
type LimitsConfig struct {
	// RateLimitPerMinute is the max requests per client per minute (default: 30)
	RateLimitPerMinute int `yaml:"rate_limit_per_minute,omitempty"`

	// MaxDownloadSizeMB rejects videos whose selected stream exceeds
	// this size; 0 disables the check (default: 500)
	MaxDownloadSizeMB int `yaml:"max_download_size_mb,omitempty"`

	// DownloadTimeoutSeconds bounds a single extraction call (default: 300)
	DownloadTimeoutSeconds int `yaml:"download_timeout_seconds,omitempty"`

	// MaxConcurrent is the max number of concurrent engine invocations (default: 10)
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`
}

// EngineConfig holds settings for the external extraction engine
type EngineConfig struct {
	// Binary is the yt-dlp executable name or path (default: yt-dlp)
	Binary string `yaml:"binary,omitempty"`

	// ScratchDir is where the engine may write transient cache
	// artifacts; never served to callers (default: <tmp>/vidprobe)
	ScratchDir string `yaml:"scratch_dir,omitempty"`
}

// RedisConfig holds Redis connection settings for the rate-limit store
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// DefaultScratchDir returns the default scratch directory for engine cache
func DefaultScratchDir() string {
	return filepath.Join(os.TempDir(), AppDirName)
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Language: "tr",
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			AllowedOrigins: []string{"*"},
		},
		Limits: LimitsConfig{
			RateLimitPerMinute:     30,
			MaxDownloadSizeMB:      500,
			DownloadTimeoutSeconds: 300,
			MaxConcurrent:          10,
		},
		Engine: EngineConfig{
			Binary:     "yt-dlp",
			ScratchDir: DefaultScratchDir(),
		},
	}
}

// Exists checks if config file exists
func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config from ~/.config/vidprobe/config.yml
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.Engine.ScratchDir = expandPath(cfg.Engine.ScratchDir)

	return cfg, nil
}

// expandPath expands the tilde (~) in the path to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		if len(path) == 1 || path[1] == '/' || path[1] == '\\' {
			home, err := os.UserHomeDir()
			if err == nil {
				subPath := path[1:]
				if len(subPath) > 0 && (subPath[0] == '/' || subPath[0] == '\\') {
					subPath = subPath[1:]
				}
				return filepath.Join(home, subPath)
			}
		}
	}

	return path
}

// Save writes the config to ~/.config/vidprobe/config.yml
func Save(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	configPath, err := ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# vidprobe configuration file\n# Run 'vidprobe init' to regenerate with defaults\n\n"
	content := header + string(data)

	return os.WriteFile(configPath, []byte(content), 0644)
}

// Init creates a new config.yml with default values
func Init() error {
	if Exists() {
		path, _ := ConfigPath()
		return fmt.Errorf("%s already exists", path)
	}
	return Save(DefaultConfig())
}

// LoadOrDefault loads config if it exists, otherwise returns defaults.
// Environment overrides are applied in both cases.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		cfg = DefaultConfig()
	}
	applyDefaults(cfg)
	ApplyEnv(cfg)
	return cfg
}

// applyDefaults fills zero-valued fields so a sparse config file still
// yields a runnable configuration.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = def.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = def.Server.AllowedOrigins
	}
	if cfg.Limits.RateLimitPerMinute == 0 {
		cfg.Limits.RateLimitPerMinute = def.Limits.RateLimitPerMinute
	}
	if cfg.Limits.MaxDownloadSizeMB == 0 {
		cfg.Limits.MaxDownloadSizeMB = def.Limits.MaxDownloadSizeMB
	}
	if cfg.Limits.DownloadTimeoutSeconds == 0 {
		cfg.Limits.DownloadTimeoutSeconds = def.Limits.DownloadTimeoutSeconds
	}
	if cfg.Limits.MaxConcurrent == 0 {
		cfg.Limits.MaxConcurrent = def.Limits.MaxConcurrent
	}
	if cfg.Engine.Binary == "" {
		cfg.Engine.Binary = def.Engine.Binary
	}
	if cfg.Engine.ScratchDir == "" {
		cfg.Engine.ScratchDir = def.Engine.ScratchDir
	}
}

// ApplyEnv overlays environment variables onto cfg. Deployment-oriented
// settings can be set without a config file, container style.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitOrigins(v)
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limits.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("MAX_DOWNLOAD_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Limits.MaxDownloadSizeMB = n
		}
	}
	if v := os.Getenv("DOWNLOAD_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limits.DownloadTimeoutSeconds = n
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Redis.DB = n
		}
	}
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
