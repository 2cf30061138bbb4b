package at

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedResponse is returned when a query reply does not have the
// documented shape.
var ErrMalformedResponse = errors.New("malformed response")

// ParseRSSI extracts the signal strength from an "RSSI:XXX" reply. Larger
// values mean a stronger signal.
func ParseRSSI(response string) (int, error) {
	line, ok := findLine(response, RSSIPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: no %q line in %q", ErrMalformedResponse, RSSIPrefix, response)
	}
	v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, RSSIPrefix)))
	if err != nil {
		return 0, fmt.Errorf("%w: rssi %q: %v", ErrMalformedResponse, line, err)
	}
	return v, nil
}

// ParseGroup decodes a "+DMOREADGROUP:bw,tx,rx,txCSS,sq,rxCSS" reply.
func ParseGroup(response string) (Group, error) {
	line, ok := findLine(response, ReadGroupPrefix)
	if !ok {
		return Group{}, fmt.Errorf("%w: no %q line in %q", ErrMalformedResponse, ReadGroupPrefix, response)
	}

	fields := strings.Split(strings.TrimPrefix(line, ReadGroupPrefix), ",")
	if len(fields) != 6 {
		return Group{}, fmt.Errorf("%w: group has %d fields, want 6", ErrMalformedResponse, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var (
		g   Group
		err error
	)
	if g.Bandwidth, err = strconv.Atoi(fields[0]); err != nil {
		return Group{}, fmt.Errorf("%w: bandwidth %q", ErrMalformedResponse, fields[0])
	}
	if g.TxFrequency, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return Group{}, fmt.Errorf("%w: tx frequency %q", ErrMalformedResponse, fields[1])
	}
	if g.RxFrequency, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return Group{}, fmt.Errorf("%w: rx frequency %q", ErrMalformedResponse, fields[2])
	}
	g.TxTone = fields[3]
	if g.Squelch, err = strconv.Atoi(fields[4]); err != nil {
		return Group{}, fmt.Errorf("%w: squelch %q", ErrMalformedResponse, fields[4])
	}
	g.RxTone = fields[5]

	return g, nil
}

// ParseVersion returns the version string of an AT+VERSION reply, without
// the "+VERSION:" prefix some firmware adds.
func ParseVersion(response string) (string, error) {
	if line, ok := findLine(response, VersionPrefix); ok {
		return strings.TrimSpace(strings.TrimPrefix(line, VersionPrefix)), nil
	}
	lines := Lines(response)
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: empty version reply", ErrMalformedResponse)
	}
	return lines[0], nil
}

// ValidTone reports whether code is a tone code the module understands:
// "0000" for none, a four digit CTCSS index, or a DCS code of three or four
// digits followed by N (normal) or I (inverted) polarity.
func ValidTone(code string) bool {
	digits := code
	if n := len(code); n > 0 && (code[n-1] == 'N' || code[n-1] == 'I') {
		digits = code[:n-1]
		if len(digits) != 3 && len(digits) != 4 {
			return false
		}
	} else if len(code) != 4 {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func findLine(response, prefix string) (string, bool) {
	for _, line := range Lines(response) {
		if i := strings.Index(line, prefix); i >= 0 {
			return line[i:], true
		}
	}
	return "", false
}
