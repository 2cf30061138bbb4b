package radio

import (
	"context"
	"fmt"

	"i4.energy/across/sa818gw/at"
)

// Filter holds the three filter switches. 0 enables a filter, 1 disables it.
type Filter struct {
	PreDeEmphasis int `yaml:"pre_de_emphasis" json:"pre_de_emphasis"`
	HighPass      int `yaml:"high_pass" json:"high_pass"`
	LowPass       int `yaml:"low_pass" json:"low_pass"`
}

// Settings is a complete module configuration, applied in one go at startup.
type Settings struct {
	Group  at.Group `yaml:"group" json:"group"`
	Volume int      `yaml:"volume" json:"volume"`
	Filter Filter   `yaml:"filter" json:"filter"`
	Tail   int      `yaml:"tail" json:"tail"`
}

// DefaultSettings returns a simplex 2 m calling channel with no tones,
// squelch 4, mid volume and every filter enabled.
func DefaultSettings() Settings {
	return Settings{
		Group: at.Group{
			Bandwidth:   0,
			TxFrequency: 145.5,
			RxFrequency: 145.5,
			TxTone:      at.NoTone,
			Squelch:     4,
			RxTone:      at.NoTone,
		},
		Volume: 4,
	}
}

// Apply performs the connect handshake and then programs group, volume,
// filter and tail settings in that order. It stops at the first step the
// module does not acknowledge and returns an error wrapping ErrRejected.
func (c *CommandChannel) Apply(ctx context.Context, s Settings) error {
	steps := []struct {
		name  string
		op    at.Operation
		frame string
	}{
		{"connect", at.OpConnect, at.Connect()},
		{"set group", at.OpSetGroup, at.SetGroup(s.Group)},
		{"set volume", at.OpSetVolume, at.SetVolume(s.Volume)},
		{"set filter", at.OpSetFilter, at.SetFilter(s.Filter.PreDeEmphasis, s.Filter.HighPass, s.Filter.LowPass)},
		{"set tail", at.OpSetTail, at.SetTail(s.Tail)},
	}

	for _, step := range steps {
		reply, err := c.Send(ctx, step.op, step.frame)
		if err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
		if reply.Result != at.ResultOK {
			return fmt.Errorf("%s: %w: %q", step.name, ErrRejected, reply.Response)
		}
	}
	return nil
}
