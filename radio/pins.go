package radio

import "fmt"

// ConfigurePins switches the PTT, power-down and power-level lines to
// outputs and writes the given levels verbatim. No serial exchange takes
// place.
func (c *CommandChannel) ConfigurePins(p PinConfig) error {
	c.pinMu.Lock()
	defer c.pinMu.Unlock()

	if c.pins == nil {
		return ErrNoPinDriver
	}

	for _, pin := range []int{p.PTTPin, p.PowerDownPin, p.HighLowPin} {
		if err := c.pins.SetOutput(pin); err != nil {
			return fmt.Errorf("configure pin %d: %w", pin, err)
		}
	}

	writes := []struct {
		pin   int
		level bool
	}{
		{p.PTTPin, p.PTTLevel},
		{p.PowerDownPin, p.PowerDownLevel},
		{p.HighLowPin, p.HighLowLevel},
	}
	for _, w := range writes {
		if err := c.pins.Write(w.pin, w.level); err != nil {
			return fmt.Errorf("write pin %d: %w", w.pin, err)
		}
	}

	c.lines = &p
	return nil
}

// SetPTT keys the transmitter. PTT is active low.
func (c *CommandChannel) SetPTT(transmit bool) error {
	return c.writeLine(linePTT, !transmit)
}

// SetSleep puts the module to sleep or wakes it. PD is active low.
func (c *CommandChannel) SetSleep(sleep bool) error {
	return c.writeLine(linePowerDown, !sleep)
}

// SetHighPower selects full (true) or reduced (false) RF output.
func (c *CommandChannel) SetHighPower(high bool) error {
	return c.writeLine(lineHighLow, high)
}

// Pins returns the current control line assignment and levels.
func (c *CommandChannel) Pins() (PinConfig, bool) {
	c.pinMu.Lock()
	defer c.pinMu.Unlock()
	if c.lines == nil {
		return PinConfig{}, false
	}
	return *c.lines, true
}

type controlLine int

const (
	linePTT controlLine = iota
	linePowerDown
	lineHighLow
)

func (c *CommandChannel) writeLine(l controlLine, high bool) error {
	c.pinMu.Lock()
	defer c.pinMu.Unlock()

	if c.pins == nil {
		return ErrNoPinDriver
	}
	if c.lines == nil {
		return ErrPinsNotConfigured
	}

	var (
		pin   int
		level *bool
	)
	switch l {
	case linePTT:
		pin, level = c.lines.PTTPin, &c.lines.PTTLevel
	case linePowerDown:
		pin, level = c.lines.PowerDownPin, &c.lines.PowerDownLevel
	case lineHighLow:
		pin, level = c.lines.HighLowPin, &c.lines.HighLowLevel
	}

	if err := c.pins.Write(pin, high); err != nil {
		return fmt.Errorf("write pin %d: %w", pin, err)
	}
	*level = high
	return nil
}
