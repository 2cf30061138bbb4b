package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"i4.energy/across/sa818gw/radio"
)

// Config holds the application configuration
type Config struct {
	// BindAddress is the address the server listens on (e.g. "0.0.0.0:8080")
	BindAddress string `yaml:"bind_address"`
	// SerialPort is the path to the module's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string `yaml:"serial_port"`
	// BaudRate is the baud rate for serial communication with the module (e.g. 9600)
	BaudRate int `yaml:"baud_rate"`
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string `yaml:"log_level"`
	// InactivityTimeout is the silence that completes a reply
	InactivityTimeout time.Duration `yaml:"inactivity_timeout"`
	// MaxCapture caps a single reply capture, zero for no ceiling
	MaxCapture time.Duration `yaml:"max_capture"`
	// RSSIInterval is the period of the websocket RSSI stream
	RSSIInterval time.Duration `yaml:"rssi_interval"`

	GPIO GPIOConfig `yaml:"gpio"`
	MQTT MQTTConfig `yaml:"mqtt"`

	// Radio is programmed into the module at startup
	Radio radio.Settings `yaml:"radio"`
}

// GPIOConfig assigns the module's control lines to host GPIO numbers.
type GPIOConfig struct {
	Enabled      bool `yaml:"enabled"`
	PTTPin       int  `yaml:"ptt_pin"`
	PowerDownPin int  `yaml:"power_down_pin"`
	HighLowPin   int  `yaml:"high_low_pin"`
}

// MQTTConfig configures the command bridge. An empty Broker disables it.
type MQTTConfig struct {
	Broker       string `yaml:"broker"`
	ClientID     string `yaml:"client_id"`
	CommandTopic string `yaml:"command_topic"`
	ResultTopic  string `yaml:"result_topic"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BindAddress = "0.0.0.0:8080"
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = radio.DefaultBaudRate
		c.LogLevel = "info"
		c.InactivityTimeout = radio.DefaultInactivityTimeout
		c.RSSIInterval = time.Second
		c.GPIO = GPIOConfig{PTTPin: 17, PowerDownPin: 27, HighLowPin: 22}
		c.MQTT = MQTTConfig{
			ClientID:     "sa818-gw-1",
			CommandTopic: "sa818/command",
			ResultTopic:  "sa818/result",
		}
		c.Radio = radio.DefaultSettings()
		return nil
	}
}

// WithFile overlays values from a YAML file. Keys missing from the file keep
// their current value. A missing file is not an error.
func WithFile(path string) ConfigOption {
	return func(c *Config) error {
		if path == "" {
			return nil
		}

		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
			c.BindAddress = addr
		}

		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if broker := os.Getenv("MQTT_BROKER"); broker != "" {
			c.MQTT.Broker = broker
		}

		if user := os.Getenv("MQTT_USERNAME"); user != "" {
			c.MQTT.Username = user
		}

		if pass := os.Getenv("MQTT_PASSWORD"); pass != "" {
			c.MQTT.Password = pass
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		var err error
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "bind-address":
				c.BindAddress = f.Value.String()
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, perr := strconv.Atoi(f.Value.String()); perr == nil {
					c.BaudRate = b
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			case "inactivity-timeout":
				if d, perr := time.ParseDuration(f.Value.String()); perr == nil {
					c.InactivityTimeout = d
				} else {
					err = fmt.Errorf("inactivity-timeout: %w", perr)
				}
			case "mqtt-broker":
				c.MQTT.Broker = f.Value.String()
			case "gpio":
				c.GPIO.Enabled = f.Value.String() == "true"
			}
		})
		return err
	}
}
