package radio

import (
	"io"
	"strings"
	"sync"
	"time"

	"i4.energy/across/sa818gw/at"
)

// TestTransport is a test helper that plays the module side of the link.
// Replies are registered per request frame; writing a frame queues its reply
// for the following reads. With nothing queued, Read behaves like a serial
// read running into its timeout: it advances the attached ManualClock by the
// read timeout (or sleeps for it when no clock is attached) and returns no
// data.
type TestTransport struct {
	mu          sync.Mutex
	clock       *ManualClock
	replies     map[string]string
	pending     []byte
	readTimeout time.Duration
	written     []string
	resets      int
	closed      bool
}

// NewTestTransport creates a new test transport for testing.
// Exported for use in tests.
func NewTestTransport(clock *ManualClock) *TestTransport {
	return &TestTransport{
		clock:   clock,
		replies: make(map[string]string),
	}
}

// Reply registers the bytes sent back when frame (without CRLF) is written.
func (t *TestTransport) Reply(frame, response string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies[frame] = response
}

// SendData queues data to be read by the transport.
// This simulates bytes arriving from the module unprompted.
func (t *TestTransport) SendData(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = append(t.pending, data...)
}

// Written returns the frames written so far, CRLF stripped.
func (t *TestTransport) Written() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.written...)
}

// Resets returns how many times the input buffer was discarded.
func (t *TestTransport) Resets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resets
}

func (t *TestTransport) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	frame := strings.TrimSuffix(string(p), at.CRLF)
	t.written = append(t.written, frame)
	if reply, ok := t.replies[frame]; ok {
		t.pending = append(t.pending, reply...)
	}
	return len(p), nil
}

func (t *TestTransport) Read(p []byte) (n int, err error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, io.EOF
	}
	if len(t.pending) > 0 {
		n = copy(p, t.pending)
		t.pending = t.pending[n:]
		t.mu.Unlock()
		return n, nil
	}
	timeout := t.readTimeout
	t.mu.Unlock()

	if t.clock != nil {
		t.clock.Advance(timeout)
	} else {
		time.Sleep(timeout)
	}
	return 0, nil
}

func (t *TestTransport) SetReadTimeout(d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readTimeout = d
	return nil
}

func (t *TestTransport) ResetInputBuffer() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = nil
	t.resets++
	return nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

var _ Transport = (*TestTransport)(nil)
