package radio

import (
	"context"
	"fmt"

	"i4.energy/across/sa818gw/at"
)

// Connect checks that the module answers the AT+DMOCONNECT handshake.
func (c *CommandChannel) Connect(ctx context.Context) (at.Result, error) {
	return c.classified(ctx, at.OpConnect, at.Connect())
}

// ScanFrequency asks the module whether a carrier is present on mhz.
// ResultOK means a signal was found; ResultError covers both "no signal" and
// no reply, which the raw reply from Send tells apart.
func (c *CommandChannel) ScanFrequency(ctx context.Context, mhz float64) (at.Result, error) {
	return c.classified(ctx, at.OpScan, at.Scan(mhz))
}

// SetGroup programs bandwidth, frequencies, tone codes and squelch. Values
// are sent as given; the module rejects what it does not accept.
func (c *CommandChannel) SetGroup(ctx context.Context, g at.Group) (at.Result, error) {
	return c.classified(ctx, at.OpSetGroup, at.SetGroup(g))
}

// SetVolume sets the audio output level, 1 to 8.
func (c *CommandChannel) SetVolume(ctx context.Context, level int) (at.Result, error) {
	return c.classified(ctx, at.OpSetVolume, at.SetVolume(level))
}

// SetFilter configures pre/de-emphasis, high-pass and low-pass filters.
// 0 enables a filter and 1 disables it.
func (c *CommandChannel) SetFilter(ctx context.Context, preDeEmphasis, highPass, lowPass int) (at.Result, error) {
	return c.classified(ctx, at.OpSetFilter, at.SetFilter(preDeEmphasis, highPass, lowPass))
}

// SetTail turns the transmit tail tone on (1) or off (0).
func (c *CommandChannel) SetTail(ctx context.Context, tail int) (at.Result, error) {
	return c.classified(ctx, at.OpSetTail, at.SetTail(tail))
}

// ReadRSSI queries the received signal strength and returns the raw
// "RSSI:XXX" reply.
func (c *CommandChannel) ReadRSSI(ctx context.Context) (string, error) {
	return c.query(ctx, at.OpReadRSSI, at.CmdRSSI)
}

// ReadGroup returns the raw "+DMOREADGROUP:..." reply.
func (c *CommandChannel) ReadGroup(ctx context.Context) (string, error) {
	return c.query(ctx, at.OpReadGroup, at.CmdReadGroup)
}

// Version returns the raw firmware version reply.
func (c *CommandChannel) Version(ctx context.Context) (string, error) {
	return c.query(ctx, at.OpVersion, at.CmdVersion)
}

// RSSI queries and parses the received signal strength.
func (c *CommandChannel) RSSI(ctx context.Context) (int, error) {
	resp, err := c.ReadRSSI(ctx)
	if err != nil {
		return 0, err
	}
	if resp == "" {
		return 0, fmt.Errorf("rssi: %w", ErrNoResponse)
	}
	return at.ParseRSSI(resp)
}

// Group queries and parses the current group configuration.
func (c *CommandChannel) Group(ctx context.Context) (at.Group, error) {
	resp, err := c.ReadGroup(ctx)
	if err != nil {
		return at.Group{}, err
	}
	if resp == "" {
		return at.Group{}, fmt.Errorf("read group: %w", ErrNoResponse)
	}
	return at.ParseGroup(resp)
}
