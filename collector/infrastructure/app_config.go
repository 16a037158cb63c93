package infrastructure

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	collectorDomain "github.com/samoilenko/sensorlog/collector/domain"
)

// Default values of the collector settings.
const (
	DefaultDataDir      = "."
	DefaultMaxFrameSize = "256KiB"
)

// AppConfig holds all validated configuration parameters for the collector application.
type AppConfig struct {
	BindAddress    collectorDomain.BindAddress
	DataDir        collectorDomain.DataDir
	MaxFrameSize   collectorDomain.MaxFrameSize
	IdleTimeout    collectorDomain.IdleTimeout
	MaxConnections collectorDomain.MaxConnections
	RateLimit      collectorDomain.RateLimit
	NoColor        bool
}

// ListenerConfig returns the part of the configuration applied by the listener.
func (c *AppConfig) ListenerConfig() ListenerConfig {
	return ListenerConfig{
		BindAddress:    c.BindAddress,
		MaxConnections: c.MaxConnections,
		MaxFrameSize:   c.MaxFrameSize,
		IdleTimeout:    c.IdleTimeout,
	}
}

// rawConfig holds settings before validation. It is filled from defaults,
// then from the optional config file, then from explicitly set flags.
type rawConfig struct {
	Host           string `toml:"host" yaml:"host"`
	DataDir        string `toml:"data_dir" yaml:"data_dir"`
	MaxFrameSize   string `toml:"max_frame_size" yaml:"max_frame_size"`
	IdleTimeout    string `toml:"idle_timeout" yaml:"idle_timeout"`
	MaxConnections int    `toml:"max_connections" yaml:"max_connections"`
	RateLimit      int    `toml:"rate_limit" yaml:"rate_limit"`
	NoColor        bool   `toml:"no_color" yaml:"no_color"`
}

// NewFlagSet declares the collector flags on a new FlagSet.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("host", "", "Interface to bind, all interfaces when empty")
	flags.String("data-dir", DefaultDataDir, "Directory holding the sensor_<id>.log files")
	flags.String("max-frame-size", DefaultMaxFrameSize, "Largest accepted message (e.g. 64KiB, 1MB)")
	flags.Duration("idle-timeout", 0, "Close sessions idle for this long, 0 disables")
	flags.Int("max-connections", 0, "Maximum number of concurrent sessions, 0 is unlimited")
	flags.Int("rate-limit", 0, "Per-session rate limit in bytes/sec, 0 is unlimited")
	flags.String("config", "", "Optional TOML (.toml) or YAML (.yaml, .yml) config file")
	flags.Bool("no-color", false, "Disable colored log levels")
	// errors are reported by the caller together with Usage
	flags.SetOutput(io.Discard)
	return flags
}

// Usage returns the help text of the collector command line.
func Usage(flags *pflag.FlagSet) string {
	return fmt.Sprintf("Usage: %s [flags] <port>\n\nFlags:\n%s", flags.Name(), flags.FlagUsages())
}

// ParseAppConfig parses args with flags and returns validated collector
// configuration. The port is the only positional argument and is required.
// Values from the config file override defaults and are overridden by flags
// set on the command line.
func ParseAppConfig(flags *pflag.FlagSet, args []string) (*AppConfig, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if flags.NArg() != 1 {
		return nil, errors.New("exactly one positional argument, the port, is required")
	}
	port, err := collectorDomain.NewPort(flags.Arg(0))
	if err != nil {
		return nil, err
	}

	raw := rawConfig{
		DataDir:      DefaultDataDir,
		MaxFrameSize: DefaultMaxFrameSize,
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := loadConfigFile(configPath, &raw); err != nil {
			return nil, err
		}
	}

	if err := applyFlags(flags, &raw); err != nil {
		return nil, err
	}

	return validate(raw, port)
}

// GetFromCommandLineParameters parses the process arguments and returns
// validated collector configuration.
func GetFromCommandLineParameters(flags *pflag.FlagSet) (*AppConfig, error) {
	return ParseAppConfig(flags, os.Args[1:])
}

func loadConfigFile(path string, raw *rawConfig) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error on reading config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(content), raw); err != nil {
			return fmt.Errorf("error on parsing config file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, raw); err != nil {
			return fmt.Errorf("error on parsing config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}

	return nil
}

func applyFlags(flags *pflag.FlagSet, raw *rawConfig) error {
	var err error
	if flags.Changed("host") {
		if raw.Host, err = flags.GetString("host"); err != nil {
			return err
		}
	}
	if flags.Changed("data-dir") {
		if raw.DataDir, err = flags.GetString("data-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("max-frame-size") {
		if raw.MaxFrameSize, err = flags.GetString("max-frame-size"); err != nil {
			return err
		}
	}
	if flags.Changed("idle-timeout") {
		idleTimeout, err := flags.GetDuration("idle-timeout")
		if err != nil {
			return err
		}
		raw.IdleTimeout = idleTimeout.String()
	}
	if flags.Changed("max-connections") {
		if raw.MaxConnections, err = flags.GetInt("max-connections"); err != nil {
			return err
		}
	}
	if flags.Changed("rate-limit") {
		if raw.RateLimit, err = flags.GetInt("rate-limit"); err != nil {
			return err
		}
	}
	if flags.Changed("no-color") {
		if raw.NoColor, err = flags.GetBool("no-color"); err != nil {
			return err
		}
	}
	return nil
}

func validate(raw rawConfig, port collectorDomain.Port) (*AppConfig, error) {
	bindAddress, err := collectorDomain.NewBindAddress(raw.Host, port)
	if err != nil {
		return nil, err
	}

	dataDir, err := collectorDomain.NewDataDir(raw.DataDir)
	if err != nil {
		return nil, err
	}

	frameBytes, err := humanize.ParseBytes(raw.MaxFrameSize)
	if err != nil {
		return nil, fmt.Errorf("invalid max frame size %q: %w", raw.MaxFrameSize, err)
	}
	if frameBytes > uint64(^uint32(0)) {
		return nil, fmt.Errorf("max frame size is too large: %s", raw.MaxFrameSize)
	}
	maxFrameSize, err := collectorDomain.NewMaxFrameSize(int(frameBytes))
	if err != nil {
		return nil, err
	}

	var rawIdleTimeout time.Duration
	if raw.IdleTimeout != "" {
		if rawIdleTimeout, err = time.ParseDuration(raw.IdleTimeout); err != nil {
			return nil, fmt.Errorf("invalid idle timeout %q: %w", raw.IdleTimeout, err)
		}
	}
	idleTimeout, err := collectorDomain.NewIdleTimeout(rawIdleTimeout)
	if err != nil {
		return nil, err
	}

	maxConnections, err := collectorDomain.NewMaxConnections(raw.MaxConnections)
	if err != nil {
		return nil, err
	}

	rateLimit, err := collectorDomain.NewRateLimit(raw.RateLimit)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		BindAddress:    bindAddress,
		DataDir:        dataDir,
		MaxFrameSize:   maxFrameSize,
		IdleTimeout:    idleTimeout,
		MaxConnections: maxConnections,
		RateLimit:      rateLimit,
		NoColor:        raw.NoColor,
	}

	return config, nil
}
