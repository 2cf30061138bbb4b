package radio

import (
	"log/slog"
	"time"
)

// DefaultInactivityTimeout is how long the module may stay silent before a
// reply is considered complete.
const DefaultInactivityTimeout = 500 * time.Millisecond

type Config struct {
	dialer            Dialer
	pins              PinDriver
	clock             Clock
	logger            *slog.Logger
	inactivityTimeout time.Duration
	maxCapture        time.Duration
}

func (c *Config) validate() error {
	if c.dialer == nil {
		return ErrNoDialer
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.inactivityTimeout <= 0 {
		c.inactivityTimeout = DefaultInactivityTimeout
	}
	if c.clock == nil {
		c.clock = systemClock{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
}

// ConfigBuilder assembles a Config. Build applies defaults and validates.
type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.dialer = d
	return b
}

// WithPinDriver sets the GPIO driver used by ConfigurePins and the single
// pin helpers.
func (b *ConfigBuilder) WithPinDriver(p PinDriver) *ConfigBuilder {
	b.config.pins = p
	return b
}

func (b *ConfigBuilder) WithClock(c Clock) *ConfigBuilder {
	b.config.clock = c
	return b
}

func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.logger = l
	return b
}

// WithInactivityTimeout sets the silence that ends a capture. Every byte
// received restarts it.
func (b *ConfigBuilder) WithInactivityTimeout(d time.Duration) *ConfigBuilder {
	b.config.inactivityTimeout = d
	return b
}

// WithMaxCapture sets a hard ceiling on one capture. Zero, the default, keeps
// a capture open for as long as bytes keep arriving.
func (b *ConfigBuilder) WithMaxCapture(d time.Duration) *ConfigBuilder {
	b.config.maxCapture = d
	return b
}

func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}
