package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	ErrInvalidPort    = errors.New("port must be between 1 and 65535")
	ErrInvalidTimeout = errors.New("discover timeout must be greater than 0")
	ErrMissingLogFile = errors.New("log file must be set while the terminal UI is running")
)

const (
	EnvPrefix      = "TUIFS"
	configName     = ".tuifs"
	DefaultPort    = 3333
	DefaultAddress = "127.0.0.1:3333"
)

// ServerConfig holds tuifs-server settings.
type ServerConfig struct {
	StorageDir string `mapstructure:"storage_dir"`
	Port       int    `mapstructure:"port"`
	Announce   bool   `mapstructure:"announce"`
	Watch      bool   `mapstructure:"watch"`
	LogFile    string `mapstructure:"log_file"`
	Debug      bool   `mapstructure:"debug"`
}

// ClientConfig holds tuifs settings.
type ClientConfig struct {
	ServerAddress   string        `mapstructure:"server_address"`
	DownloadDir     string        `mapstructure:"download_dir"`
	LogFile         string        `mapstructure:"log_file"`
	Debug           bool          `mapstructure:"debug"`
	DiscoverTimeout time.Duration `mapstructure:"discover_timeout"`
}

// DefaultServerConfig returns a configuration with sensible defaults.
// An empty StorageDir means "storage" next to the executable.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port: DefaultPort,
	}
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ServerAddress:   DefaultAddress,
		DownloadDir:     ".",
		LogFile:         "tuifs.log",
		DiscoverTimeout: 3 * time.Second,
	}
}

// Validate ensures the configuration is valid
func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	return nil
}

// Validate ensures the configuration is valid
func (c *ClientConfig) Validate() error {
	if c.DiscoverTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if strings.TrimSpace(c.LogFile) == "" {
		return ErrMissingLogFile
	}
	return nil
}

// LoadServer merges defaults, the config file, TUIFS_* variables and flags,
// in increasing priority.
func LoadServer(cfgFile string, flags *pflag.FlagSet) (*ServerConfig, error) {
	def := DefaultServerConfig()
	defaults := map[string]any{
		"storage_dir": def.StorageDir,
		"port":        def.Port,
		"announce":    def.Announce,
		"watch":       def.Watch,
		"log_file":    def.LogFile,
		"debug":       def.Debug,
	}
	v := newViper(defaults)
	if err := load(v, defaults, cfgFile, flags); err != nil {
		return nil, err
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClient is LoadServer for the terminal client.
func LoadClient(cfgFile string, flags *pflag.FlagSet) (*ClientConfig, error) {
	def := DefaultClientConfig()
	defaults := map[string]any{
		"server_address":   def.ServerAddress,
		"download_dir":     def.DownloadDir,
		"log_file":         def.LogFile,
		"debug":            def.Debug,
		"discover_timeout": def.DiscoverTimeout,
	}
	v := newViper(defaults)
	if err := load(v, defaults, cfgFile, flags); err != nil {
		return nil, err
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode client config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper(defaults map[string]any) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// load reads the config file and binds every flag that names a known key.
// Flag names use dashes, keys use underscores.
func load(v *viper.Viper, known map[string]any, cfgFile string, flags *pflag.FlagSet) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(configName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("Using config file", "path", used)
	}

	if flags == nil {
		return nil
	}
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if _, ok := known[key]; !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}
