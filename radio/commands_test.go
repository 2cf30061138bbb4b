package radio_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
	"i4.energy/across/sa818gw/at"
	"i4.energy/across/sa818gw/radio"
)

func TestClassifiedCommands(t *testing.T) {
	group := at.Group{Bandwidth: 0, TxFrequency: 145.125, RxFrequency: 145.125, TxTone: "0001", Squelch: 4, RxTone: "0001"}

	tests := []struct {
		name    string
		frame   string
		success string
		run     func(ctx context.Context, c *radio.CommandChannel) (at.Result, error)
	}{
		{
			name:    "Connect",
			frame:   "AT+DMOCONNECT",
			success: "+DMOCONNECT:0\r\n",
			run: func(ctx context.Context, c *radio.CommandChannel) (at.Result, error) {
				return c.Connect(ctx)
			},
		},
		{
			name:    "ScanFrequency",
			frame:   "S+146.5200",
			success: "S=0\r\n",
			run: func(ctx context.Context, c *radio.CommandChannel) (at.Result, error) {
				return c.ScanFrequency(ctx, 146.52)
			},
		},
		{
			name:    "SetGroup",
			frame:   "AT+DMOSETGROUP=0,145.1250,145.1250,0001,4,0001",
			success: "+DMOSETGROUP:0\r\n",
			run: func(ctx context.Context, c *radio.CommandChannel) (at.Result, error) {
				return c.SetGroup(ctx, group)
			},
		},
		{
			name:    "SetVolume",
			frame:   "AT+DMOSETVOLUME=6",
			success: "+DMOSETVOLUME:0\r\n",
			run: func(ctx context.Context, c *radio.CommandChannel) (at.Result, error) {
				return c.SetVolume(ctx, 6)
			},
		},
		{
			name:    "SetFilter",
			frame:   "AT+SETFILTER=1,0,1",
			success: "+DMOSETFILTER:0\r\n",
			run: func(ctx context.Context, c *radio.CommandChannel) (at.Result, error) {
				return c.SetFilter(ctx, 1, 0, 1)
			},
		},
		{
			name:    "SetTail",
			frame:   "AT+SETTAIL=1",
			success: "+DMOSETTAIL:0\r\n",
			run: func(ctx context.Context, c *radio.CommandChannel) (at.Result, error) {
				return c.SetTail(ctx, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+" acknowledged", func(t *testing.T) {
			c, transport, _ := newTestChannel(t)
			transport.Reply(tt.frame, tt.success)

			result, err := tt.run(context.Background(), c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != at.ResultOK {
				t.Errorf("expected ResultOK, got %v", result)
			}
			if got := transport.Written(); len(got) != 1 || got[0] != tt.frame {
				t.Errorf("expected frame %q, got %q", tt.frame, got)
			}
			if c.LastResponse() != tt.success {
				t.Errorf("expected last response %q, got %q", tt.success, c.LastResponse())
			}
		})

		t.Run(tt.name+" unrelated reply", func(t *testing.T) {
			c, transport, _ := newTestChannel(t)
			transport.Reply(tt.frame, "ERROR\r\n")

			result, err := tt.run(context.Background(), c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != at.ResultError {
				t.Errorf("expected ResultError, got %v", result)
			}
			if c.LastResponse() != "ERROR\r\n" {
				t.Errorf("expected reply to be kept, got %q", c.LastResponse())
			}
		})

		t.Run(tt.name+" silent module", func(t *testing.T) {
			c, _, _ := newTestChannel(t)

			result, err := tt.run(context.Background(), c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != at.ResultError {
				t.Errorf("expected ResultError, got %v", result)
			}
			if c.LastResponse() != "" {
				t.Errorf("expected empty last response, got %q", c.LastResponse())
			}
		})
	}
}

func TestSetGroupAcknowledged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, mockTransport, clock := newMockChannel(t, ctrl)
	gomock.InOrder(NewMockSequence(mockTransport, clock).
		Exchange("AT+DMOSETGROUP=0,145.1250,145.1250,0001,4,0001", "+DMOSETGROUP:0\r\n").
		Build()...)

	result, err := c.SetGroup(context.Background(), at.Group{
		Bandwidth:   0,
		TxFrequency: 145.125,
		RxFrequency: 145.125,
		TxTone:      "0001",
		Squelch:     4,
		RxTone:      "0001",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != at.ResultOK {
		t.Errorf("expected ResultOK, got %v", result)
	}
}

func TestScanFrequencyNoSignal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, mockTransport, clock := newMockChannel(t, ctrl)
	gomock.InOrder(NewMockSequence(mockTransport, clock).
		Exchange("S+146.5200", "S=1\r\n").
		Build()...)

	result, err := c.ScanFrequency(context.Background(), 146.520)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != at.ResultError {
		t.Errorf("expected ResultError, got %v", result)
	}
	if c.LastResponse() != "S=1\r\n" {
		t.Errorf("expected S=1 to be kept for the caller, got %q", c.LastResponse())
	}
}

func TestQueries(t *testing.T) {
	t.Run("ReadRSSI returns the raw reply", func(t *testing.T) {
		c, transport, _ := newTestChannel(t)
		transport.Reply("RSSI?", "RSSI:010")

		resp, err := c.ReadRSSI(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp != "RSSI:010" {
			t.Errorf("expected %q, got %q", "RSSI:010", resp)
		}
		if c.LastResponse() != "RSSI:010" {
			t.Errorf("expected last response %q, got %q", "RSSI:010", c.LastResponse())
		}
	})

	t.Run("ReadGroup returns the raw reply", func(t *testing.T) {
		c, transport, _ := newTestChannel(t)
		reply := "+DMOREADGROUP:0,145.1250,145.1250,0001,4,0001\r\n"
		transport.Reply("AT+DMOREADGROUP", reply)

		resp, err := c.ReadGroup(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp != reply {
			t.Errorf("expected %q, got %q", reply, resp)
		}
	})

	t.Run("Version returns the raw reply", func(t *testing.T) {
		c, transport, _ := newTestChannel(t)
		transport.Reply("AT+VERSION", "+VERSION:SA818S_V5.0\r\n")

		resp, err := c.Version(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp != "+VERSION:SA818S_V5.0\r\n" {
			t.Errorf("unexpected version reply %q", resp)
		}
	})

	t.Run("Silent query returns empty", func(t *testing.T) {
		c, _, _ := newTestChannel(t)

		resp, err := c.ReadRSSI(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp != "" {
			t.Errorf("expected empty reply, got %q", resp)
		}
	})
}

func TestTypedQueries(t *testing.T) {
	t.Run("RSSI parses the level", func(t *testing.T) {
		c, transport, _ := newTestChannel(t)
		transport.Reply("RSSI?", "RSSI:073\r\n")

		level, err := c.RSSI(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if level != 73 {
			t.Errorf("expected 73, got %d", level)
		}
	})

	t.Run("RSSI on a silent module", func(t *testing.T) {
		c, _, _ := newTestChannel(t)

		if _, err := c.RSSI(context.Background()); !errors.Is(err, radio.ErrNoResponse) {
			t.Errorf("expected ErrNoResponse, got: %v", err)
		}
	})

	t.Run("RSSI with garbage", func(t *testing.T) {
		c, transport, _ := newTestChannel(t)
		transport.Reply("RSSI?", "RSSI:??\r\n")

		if _, err := c.RSSI(context.Background()); !errors.Is(err, at.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got: %v", err)
		}
	})

	t.Run("Group parses the readback", func(t *testing.T) {
		c, transport, _ := newTestChannel(t)
		transport.Reply("AT+DMOREADGROUP", "+DMOREADGROUP:1,433.5000,434.0000,023N,2,0000\r\n")

		g, err := c.Group(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := at.Group{Bandwidth: 1, TxFrequency: 433.5, RxFrequency: 434, TxTone: "023N", Squelch: 2, RxTone: "0000"}
		if g != want {
			t.Errorf("expected %+v, got %+v", want, g)
		}
	})

	t.Run("Group on a silent module", func(t *testing.T) {
		c, _, _ := newTestChannel(t)

		if _, err := c.Group(context.Background()); !errors.Is(err, radio.ErrNoResponse) {
			t.Errorf("expected ErrNoResponse, got: %v", err)
		}
	})
}
