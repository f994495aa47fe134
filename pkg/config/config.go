package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the cdecoder application configuration: the CORE's
// default CoderType and frame-stealing predicate, plus the optional
// ambient components' settings. Nothing here changes CORE output framing
// on its own — the CLI flags (A3) always take precedence over whatever
// is loaded here.
type Config struct {
	Decode  DecodeConfig  `mapstructure:"decode"`
	Logging LoggingConfig `mapstructure:"logging"`
	Record  RecordConfig  `mapstructure:"record"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Web     WebConfig     `mapstructure:"web"`
	MQTT    MQTTConfig    `mapstructure:"mqtt"`
}

// DecodeConfig holds the CORE's defaults.
type DecodeConfig struct {
	// CoderType is 0 (TETRA) or 1 (AMR475).
	CoderType int `mapstructure:"coder_type"`
	// StealingModulus/StealingResidue define the frame-stealing
	// simulation predicate `(slot_index % modulus) == residue`,
	// defaulting to 10/2 to match the reference tool's simulation knob.
	StealingModulus int `mapstructure:"stealing_modulus"`
	StealingResidue int `mapstructure:"stealing_residue"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RecordConfig holds the optional Run Recorder (A4) configuration.
type RecordConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MetricsConfig holds the optional Metrics Collector (A5) configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// WebConfig holds the optional Live Status Server (A6) configuration.
type WebConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// MQTTConfig holds the optional Event Publisher (A7) configuration.
type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
	QoS         byte   `mapstructure:"qos"`
	Retained    bool   `mapstructure:"retained"`
}

// Load loads configuration from file and environment variables, layered
// under whatever defaults setDefaults installs. Matches the teacher's
// pkg/config.Load precedence: defaults, then an optional file, then
// CDECODER_-prefixed environment variables; CLI flags are applied by the
// caller afterward and always win.
func Load(configFile string) (*Config, error) {
	v := viper.GetViper()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("cdecoder")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/cdecoder")
	}

	v.SetEnvPrefix("CDECODER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file is fine; defaults apply.
		} else if os.IsNotExist(err) {
			// Explicitly named file missing is also fine.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("decode.coder_type", 0)
	v.SetDefault("decode.stealing_modulus", 10)
	v.SetDefault("decode.stealing_residue", 2)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("record.enabled", false)
	v.SetDefault("record.path", "cdecoder.db")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("web.enabled", false)
	v.SetDefault("web.addr", ":8080")

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.topic_prefix", "cdecoder")
	v.SetDefault("mqtt.client_id", "cdecoder")
	v.SetDefault("mqtt.qos", 0)
	v.SetDefault("mqtt.retained", false)
}
