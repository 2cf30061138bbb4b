package at_test

import (
	"errors"
	"testing"

	"i4.energy/across/sa818gw/at"
)

func TestParseRSSI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "Plain reply", input: "RSSI:010", want: 10},
		{name: "CRLF terminated", input: "RSSI:127\r\n", want: 127},
		{name: "After echo", input: "RSSI?\r\nRSSI:055\r\n", want: 55},
		{name: "Empty", input: "", wantErr: true},
		{name: "Missing prefix", input: "+DMOCONNECT:0\r\n", wantErr: true},
		{name: "Not a number", input: "RSSI:abc\r\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := at.ParseRSSI(tt.input)
			if tt.wantErr {
				if !errors.Is(err, at.ErrMalformedResponse) {
					t.Errorf("expected ErrMalformedResponse, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseGroup(t *testing.T) {
	t.Run("Documented example", func(t *testing.T) {
		g, err := at.ParseGroup("+DMOREADGROUP:0,145.1250,145.1250,0001,4,0001\r\n")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := at.Group{Bandwidth: 0, TxFrequency: 145.125, RxFrequency: 145.125, TxTone: "0001", Squelch: 4, RxTone: "0001"}
		if g != want {
			t.Errorf("expected %+v, got %+v", want, g)
		}
	})

	t.Run("Round-trips through the set frame", func(t *testing.T) {
		want := at.Group{Bandwidth: 1, TxFrequency: 433.5, RxFrequency: 434.025, TxTone: "023I", Squelch: 8, RxTone: at.NoTone}
		frame := at.SetGroup(want)
		reply := at.ReadGroupPrefix + frame[len(at.CmdSetGroup):]

		g, err := at.ParseGroup(reply)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g != want {
			t.Errorf("expected %+v, got %+v", want, g)
		}
	})

	for _, input := range []string{
		"",
		"+DMOREADGROUP:0,145.1250,145.1250,0001,4",
		"+DMOREADGROUP:x,145.1250,145.1250,0001,4,0001",
		"+DMOREADGROUP:0,abc,145.1250,0001,4,0001",
		"+DMOREADGROUP:0,145.1250,145.1250,0001,high,0001",
	} {
		if _, err := at.ParseGroup(input); !errors.Is(err, at.ErrMalformedResponse) {
			t.Errorf("ParseGroup(%q): expected ErrMalformedResponse, got: %v", input, err)
		}
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+VERSION:SA818S_V5.0\r\n", "SA818S_V5.0"},
		{"SA818_V4.2\r\n", "SA818_V4.2"},
		{"\r\nSA818_V4.2", "SA818_V4.2"},
	}
	for _, tt := range tests {
		got, err := at.ParseVersion(tt.input)
		if err != nil {
			t.Errorf("ParseVersion(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVersion(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}

	if _, err := at.ParseVersion("\r\n"); !errors.Is(err, at.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse for empty reply, got: %v", err)
	}
}

func TestValidTone(t *testing.T) {
	valid := []string{"0000", "0001", "0038", "023N", "754I", "0023N"}
	invalid := []string{"", "1", "00001", "023X", "N", "12a4", "abcN"}

	for _, code := range valid {
		if !at.ValidTone(code) {
			t.Errorf("expected %q to be valid", code)
		}
	}
	for _, code := range invalid {
		if at.ValidTone(code) {
			t.Errorf("expected %q to be invalid", code)
		}
	}
}
