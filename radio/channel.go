package radio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"i4.energy/across/sa818gw/at"
)

// CommandChannel drives an SA818 transceiver module through its AT command
// protocol. It owns the transport exclusively and keeps at most one request
// outstanding: every operation holds the channel lock across draining,
// sending, capturing and classifying, so concurrent callers are serialized.
type CommandChannel struct {
	// mu serializes exchanges with the module
	mu sync.Mutex
	// transport provides the physical connection to the module
	transport Transport
	// closed indicates if the channel has been shut down
	closed bool
	// clock times the inactivity window
	clock  Clock
	logger *slog.Logger
	// inactivityTimeout is the silence that completes a reply
	inactivityTimeout time.Duration
	// maxCapture is an optional ceiling on a single capture, zero for none
	maxCapture time.Duration

	// response accumulates the reply of the exchange in flight
	response []byte
	// lastResponse is the most recent capture, empty after a silent one
	lastResponse string

	// pinMu guards the control line assignment, which is independent of
	// the serial exchange
	pinMu sync.Mutex
	pins  PinDriver
	lines *PinConfig
}

// New creates a CommandChannel with the given configuration. It dials the
// transport but does not talk to the module; call Connect to check that the
// module answers.
func New(ctx context.Context, config Config) (*CommandChannel, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	transport, err := config.dialer.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	return &CommandChannel{
		transport:         transport,
		clock:             config.clock,
		logger:            config.logger,
		inactivityTimeout: config.inactivityTimeout,
		maxCapture:        config.maxCapture,
		pins:              config.pins,
		response:          make([]byte, 0, 64),
	}, nil
}

// Close releases the transport. After calling Close the channel cannot be
// reused.
func (c *CommandChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrAlreadyClosed
	}
	c.closed = true

	if c.transport != nil {
		return c.transport.Close()
	}
	return nil
}

// LastResponse returns the raw bytes of the most recent capture. It is empty
// before the first exchange and after an exchange the module never answered.
func (c *CommandChannel) LastResponse() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastResponse
}

// CaptureResponse collects whatever the module sends until it has been
// silent for the inactivity window and stores it as the last response. It
// reports whether at least one byte arrived.
func (c *CommandChannel) CaptureResponse(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ready(); err != nil {
		return false, err
	}
	return c.capture(ctx)
}

func (c *CommandChannel) ready() error {
	if c.closed {
		return ErrAlreadyClosed
	}
	if c.transport == nil {
		return ErrNotInitialized
	}
	return nil
}

// capture is the inactivity-window read loop. The window restarts on every
// chunk received and there is no overall deadline unless maxCapture is set,
// so a module that keeps trickling bytes keeps the capture open.
//
// Each Read blocks for at most the remainder of the window. Transports that
// return early with no data are simply polled again until the clock says the
// window has passed.
func (c *CommandChannel) capture(ctx context.Context) (bool, error) {
	c.response = c.response[:0]
	defer func() {
		c.lastResponse = string(c.response)
	}()

	buf := make([]byte, 64)
	start := c.clock.Now()
	last := start

	for {
		if err := ctx.Err(); err != nil {
			return len(c.response) > 0, err
		}

		now := c.clock.Now()
		wait := c.inactivityTimeout - now.Sub(last)
		if wait <= 0 {
			break
		}
		if c.maxCapture > 0 {
			left := c.maxCapture - now.Sub(start)
			if left <= 0 {
				c.logger.Warn("capture ceiling reached", "max_capture", c.maxCapture, "bytes", len(c.response))
				break
			}
			wait = min(wait, left)
		}

		if err := c.transport.SetReadTimeout(wait); err != nil {
			return len(c.response) > 0, fmt.Errorf("set read timeout: %w", err)
		}
		n, err := c.transport.Read(buf)
		if n > 0 {
			c.response = append(c.response, buf[:n]...)
			last = c.clock.Now()
		}
		if err != nil {
			return len(c.response) > 0, fmt.Errorf("read error: %w", err)
		}
	}

	if len(c.response) == 0 {
		c.logger.Warn("read timeout", "inactivity_timeout", c.inactivityTimeout)
		return false, nil
	}
	c.logger.Debug("rx", "response", string(c.response))
	return true, nil
}

// exchange drains stale input, sends frame and captures the reply. The
// caller must hold mu.
func (c *CommandChannel) exchange(ctx context.Context, op at.Operation, frame string) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("command cancelled before sending: %w", err)
	}

	if err := c.transport.ResetInputBuffer(); err != nil {
		return false, fmt.Errorf("drain input: %w", err)
	}

	c.logger.Debug("tx", "op", op.String(), "frame", frame)
	if _, err := c.transport.Write([]byte(frame + at.CRLF)); err != nil {
		return false, fmt.Errorf("write command %q: %w", frame, err)
	}

	return c.capture(ctx)
}

// Reply is the outcome of one exchange: the classified result together with
// the raw reply captured for that same request.
type Reply struct {
	Result   at.Result
	Response string
}

// Send drains stale input, writes frame, captures the reply and classifies
// it for op, all under the channel lock. Operations with a marker entry are
// ResultOK only when the success marker is present; queries are ResultOK
// when the module answered at all. A silent module and a negative
// acknowledgment yield ResultError with a nil error; errors are reserved for
// transport failures.
//
// Callers that need the raw reply should take it from the returned Reply.
// LastResponse may already belong to another caller's exchange.
func (c *CommandChannel) Send(ctx context.Context, op at.Operation, frame string) (Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.exchange(ctx, op, frame); err != nil {
		return Reply{Result: at.ResultError}, err
	}

	reply := Reply{Result: at.ResultError, Response: c.lastResponse}
	if _, classified := at.MarkersFor(op); classified {
		reply.Result = at.Classify(op, reply.Response)
	} else if reply.Response != "" {
		reply.Result = at.ResultOK
	}

	if reply.Result != at.ResultOK {
		c.logger.Info("command not acknowledged", "op", op.String(), "response", reply.Response)
	}
	return reply, nil
}

func (c *CommandChannel) classified(ctx context.Context, op at.Operation, frame string) (at.Result, error) {
	reply, err := c.Send(ctx, op, frame)
	return reply.Result, err
}

// query returns the raw reply, empty when the module did not answer.
func (c *CommandChannel) query(ctx context.Context, op at.Operation, frame string) (string, error) {
	reply, err := c.Send(ctx, op, frame)
	return reply.Response, err
}
