package at

import (
	"strconv"
	"strings"
)

// FormatFrequency renders a frequency in MHz with exactly four fractional
// digits, the only precision the module accepts.
func FormatFrequency(mhz float64) string {
	return strconv.FormatFloat(mhz, 'f', 4, 64)
}

// Group is one channel configuration: bandwidth, frequencies, tone codes and
// squelch. It is both the argument of AT+DMOSETGROUP and the parsed form of a
// +DMOREADGROUP reply.
type Group struct {
	// Bandwidth is 0 for 12.5 kHz and 1 for 25 kHz.
	Bandwidth   int     `yaml:"bandwidth" json:"bandwidth"`
	TxFrequency float64 `yaml:"tx_frequency" json:"tx_frequency"`
	RxFrequency float64 `yaml:"rx_frequency" json:"rx_frequency"`
	TxTone      string  `yaml:"tx_tone" json:"tx_tone"`
	// Squelch ranges 0-8, 0 is monitor mode.
	Squelch int    `yaml:"squelch" json:"squelch"`
	RxTone  string `yaml:"rx_tone" json:"rx_tone"`
}

// Connect returns the connectivity check frame.
func Connect() string { return CmdConnect }

// Scan returns the frame asking whether a carrier is present on mhz.
func Scan(mhz float64) string {
	return CmdScan + FormatFrequency(mhz)
}

// SetGroup returns the group configuration frame. Tone codes are passed
// through untouched.
func SetGroup(g Group) string {
	return CmdSetGroup + join(
		strconv.Itoa(g.Bandwidth),
		FormatFrequency(g.TxFrequency),
		FormatFrequency(g.RxFrequency),
		g.TxTone,
		strconv.Itoa(g.Squelch),
		g.RxTone,
	)
}

func SetVolume(level int) string {
	return CmdSetVolume + strconv.Itoa(level)
}

// SetFilter returns the filter frame. Each flag is 0 to enable the filter
// and 1 to disable it.
func SetFilter(preDeEmphasis, highPass, lowPass int) string {
	return CmdSetFilter + join(
		strconv.Itoa(preDeEmphasis),
		strconv.Itoa(highPass),
		strconv.Itoa(lowPass),
	)
}

func SetTail(tail int) string {
	return CmdSetTail + strconv.Itoa(tail)
}

func join(fields ...string) string {
	return strings.Join(fields, ",")
}
