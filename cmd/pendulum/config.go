package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeycumines/go-rtpendulum/cyclic"
	"github.com/joeycumines/go-rtpendulum/rtshare"
	"github.com/joeycumines/go-rtpendulum/supervisor"
	"github.com/joeycumines/logiface"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "PENDULUM"

// Config holds the process configuration.
type Config struct {
	Period       time.Duration `mapstructure:"period"`
	Priority     int           `mapstructure:"priority"`
	CPUs         []int         `mapstructure:"cpus"`
	LockMemory   bool          `mapstructure:"lock_memory"`
	Capacity     int           `mapstructure:"capacity"`
	Gains        GainsConfig   `mapstructure:"gains"`
	Setpoint     float64       `mapstructure:"setpoint"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	LogLevel     string        `mapstructure:"log_level"`
	OTLPEndpoint string        `mapstructure:"otlp_endpoint"`
	Duration     time.Duration `mapstructure:"duration"`
}

// GainsConfig holds the initial PID gains.
type GainsConfig struct {
	Kp float64 `mapstructure:"kp"`
	Ki float64 `mapstructure:"ki"`
	Kd float64 `mapstructure:"kd"`
}

func (x GainsConfig) PIDGains() rtshare.PIDGains {
	return rtshare.PIDGains{
		Proportional: x.Kp,
		Integral:     x.Ki,
		Derivative:   x.Kd,
	}
}

// loadConfig resolves configuration from (highest precedence first) flags,
// PENDULUM_* environment variables, the config file, and defaults.
func loadConfig(args []string) (*Config, error) {
	v := viper.New()

	v.SetDefault("period", cyclic.DefaultPeriod.String())
	v.SetDefault("priority", cyclic.DefaultPriority)
	v.SetDefault("cpus", []int{})
	v.SetDefault("lock_memory", false)
	v.SetDefault("capacity", rtshare.DefaultCapacity)
	v.SetDefault("gains.kp", 0.0)
	v.SetDefault("gains.ki", 0.0)
	v.SetDefault("gains.kd", 0.0)
	v.SetDefault("setpoint", 0.0)
	v.SetDefault("poll_interval", supervisor.DefaultPollInterval.String())
	v.SetDefault("log_level", logiface.LevelInformational.String())
	v.SetDefault("otlp_endpoint", "")
	v.SetDefault("duration", "0s")

	flags := pflag.NewFlagSet("pendulum", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to a config file")
	flags.Duration("period", cyclic.DefaultPeriod, "control cycle period")
	flags.Int("priority", cyclic.DefaultPriority, "SCHED_FIFO priority, 0 to disable")
	flags.Int("capacity", rtshare.DefaultCapacity, "telemetry channel capacity")
	flags.String("log-level", logiface.LevelInformational.String(), "log level")
	flags.String("otlp-endpoint", "", "OTLP/HTTP metrics endpoint, host:port")
	flags.Duration("duration", 0, "stop after this long, 0 to run until signaled")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	for key, name := range map[string]string{
		"period":        "period",
		"priority":      "priority",
		"capacity":      "capacity",
		"log_level":     "log-level",
		"otlp_endpoint": "otlp-endpoint",
		"duration":      "duration",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("pendulum")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pendulum/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}

// parseLevel accepts the short syslog keywords used by logiface.Level.String.
func parseLevel(s string) (logiface.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for level := logiface.LevelDisabled; level <= logiface.LevelTrace; level++ {
		if level.String() == s {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
