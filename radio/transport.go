package radio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=radio

// Transport represents an established, bidirectional byte stream to an SA818
// module.
//
// A Transport is assumed to be already connected and ready for use. Besides
// plain I/O it must let the caller bound how long a Read may block and discard
// bytes that arrived before a request was sent. serial.Port satisfies it as is;
// in-memory fakes are used for testing.
type Transport interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds the next Reads. A Read that times out returns
	// zero bytes and a nil error.
	SetReadTimeout(t time.Duration) error

	// ResetInputBuffer discards any received but unread bytes.
	ResetInputBuffer() error
}

// Dialer opens the serial link to an SA818 module. New calls it once; the
// CommandChannel then owns the returned Transport until Close.
type Dialer interface {
	// Dial returns a Transport ready for AT traffic, or an error when the
	// port cannot be opened. It gives up early when ctx is already done.
	Dial(ctx context.Context) (Transport, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (Transport, error)

func (f DialerFunc) Dial(ctx context.Context) (Transport, error) {
	return f(ctx)
}

// DefaultBaudRate is the factory UART speed of SA818 modules.
const DefaultBaudRate = 9600

// SerialDialer opens a module over a serial port using go.bug.st/serial.
type SerialDialer struct {
	PortName string
	BaudRate int
	// Mode overrides BaudRate and the 8N1 framing when set.
	Mode *serial.Mode
}

func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("sa818: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("sa818: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		baud := d.BaudRate
		if baud == 0 {
			baud = DefaultBaudRate
		}
		mode = &serial.Mode{
			BaudRate: baud,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("sa818: open %s: %w", d.PortName, err)
	}
	return port, nil
}

var _ Dialer = SerialDialer{}
