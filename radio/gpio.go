package radio

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/ecc1/gpio"
)

//go:generate go tool mockgen -source=gpio.go -destination=mock_gpio.go -package=radio

// PinDriver drives the module's auxiliary digital inputs.
type PinDriver interface {
	// SetOutput configures pin as a digital output.
	SetOutput(pin int) error
	// Write drives pin high or low.
	Write(pin int, high bool) error
}

// PinConfig assigns the three control lines and the levels written to them.
//
//	PTT        low = transmit, high = receive
//	PowerDown  low = sleep, high = active
//	HighLow    low = reduced power, high = full power
type PinConfig struct {
	PTTPin         int  `yaml:"ptt_pin" json:"ptt_pin"`
	PTTLevel       bool `yaml:"ptt_level" json:"ptt_level"`
	PowerDownPin   int  `yaml:"power_down_pin" json:"power_down_pin"`
	PowerDownLevel bool `yaml:"power_down_level" json:"power_down_level"`
	HighLowPin     int  `yaml:"high_low_pin" json:"high_low_pin"`
	HighLowLevel   bool `yaml:"high_low_level" json:"high_low_level"`
}

// IdlePins returns a PinConfig for the given lines with the module receiving,
// awake and at full power.
func IdlePins(ptt, powerDown, highLow int) PinConfig {
	return PinConfig{
		PTTPin:         ptt,
		PTTLevel:       true,
		PowerDownPin:   powerDown,
		PowerDownLevel: true,
		HighLowPin:     highLow,
		HighLowLevel:   true,
	}
}

// SysfsUnexport is the sysfs file that releases an exported GPIO line.
const SysfsUnexport = "/sys/class/gpio/unexport"

// SysfsPins is a PinDriver backed by the Linux sysfs GPIO interface.
type SysfsPins struct {
	mu   sync.Mutex
	pins map[int]gpio.OutputPin
	// unexport is the sysfs unexport file, overridable in tests
	unexport string
}

func NewSysfsPins() *SysfsPins {
	return &SysfsPins{
		pins:     make(map[int]gpio.OutputPin),
		unexport: SysfsUnexport,
	}
}

// SetOutput exports pin as an output. Lines come up high, the idle level of
// all three SA818 control inputs.
func (s *SysfsPins) SetOutput(pin int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pins[pin]; ok {
		return nil
	}
	p, err := gpio.Output(pin, false, true)
	if err != nil {
		return fmt.Errorf("gpio %d: set output: %w", pin, err)
	}
	s.pins[pin] = p
	return nil
}

func (s *SysfsPins) Write(pin int, high bool) error {
	s.mu.Lock()
	p, ok := s.pins[pin]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("gpio %d: not configured as output", pin)
	}
	if err := p.Write(high); err != nil {
		return fmt.Errorf("gpio %d: write: %w", pin, err)
	}
	return nil
}

// Close unexports every line set up by SetOutput. The lines keep their last
// level until the kernel reclaims them.
func (s *SysfsPins) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for pin := range s.pins {
		if err := os.WriteFile(s.unexport, []byte(strconv.Itoa(pin)), 0); err != nil {
			errs = append(errs, fmt.Errorf("gpio %d: unexport: %w", pin, err))
		}
		delete(s.pins, pin)
	}
	return errors.Join(errs...)
}

var _ PinDriver = (*SysfsPins)(nil)
