package radio_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	gomock "go.uber.org/mock/gomock"
	"i4.energy/across/sa818gw/at"
	"i4.energy/across/sa818gw/radio"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// MockSequenceBuilder records the transport calls of consecutive exchanges.
// Every exchange drains, writes the frame, optionally delivers a reply and
// ends with a silent read that moves the clock past the inactivity window.
type MockSequenceBuilder struct {
	transport *radio.MockTransport
	clock     *radio.ManualClock
	calls     []any
}

func NewMockSequence(transport *radio.MockTransport, clock *radio.ManualClock) *MockSequenceBuilder {
	return &MockSequenceBuilder{
		transport: transport,
		clock:     clock,
		calls:     []any{},
	}
}

func (b *MockSequenceBuilder) Exchange(frame, reply string) *MockSequenceBuilder {
	wire := frame + at.CRLF
	b.calls = append(b.calls,
		b.transport.EXPECT().ResetInputBuffer().Return(nil),
		b.transport.EXPECT().Write([]byte(wire)).Return(len(wire), nil),
	)
	if reply != "" {
		b.calls = append(b.calls,
			b.transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
				return copy(p, reply), nil
			}),
		)
	}
	b.calls = append(b.calls,
		b.transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
			b.clock.Advance(radio.DefaultInactivityTimeout)
			return 0, nil
		}),
	)
	return b
}

func (b *MockSequenceBuilder) Connect() *MockSequenceBuilder {
	return b.Exchange(at.CmdConnect, "+DMOCONNECT:0\r\n")
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}

// newMockChannel wires a CommandChannel to a MockTransport and a manual
// clock. SetReadTimeout is accepted any number of times.
func newMockChannel(t *testing.T, ctrl *gomock.Controller, opts ...func(*radio.ConfigBuilder)) (*radio.CommandChannel, *radio.MockTransport, *radio.ManualClock) {
	t.Helper()
	mockTransport := radio.NewMockTransport(ctrl)
	mockTransport.EXPECT().SetReadTimeout(gomock.Any()).Return(nil).AnyTimes()
	clock := radio.NewManualClock()

	b := radio.NewConfigBuilder().
		WithDialer(radio.DialerFunc(func(ctx context.Context) (radio.Transport, error) {
			return mockTransport, nil
		})).
		WithClock(clock).
		WithLogger(discardLogger)
	for _, opt := range opts {
		opt(b)
	}
	config, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error from Build(): %v", err)
	}

	c, err := radio.New(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error from New(): %v", err)
	}
	return c, mockTransport, clock
}

// newTestChannel wires a CommandChannel to a TestTransport sharing a manual
// clock.
func newTestChannel(t *testing.T, opts ...func(*radio.ConfigBuilder)) (*radio.CommandChannel, *radio.TestTransport, *radio.ManualClock) {
	t.Helper()
	clock := radio.NewManualClock()
	transport := radio.NewTestTransport(clock)

	b := radio.NewConfigBuilder().
		WithDialer(radio.DialerFunc(func(ctx context.Context) (radio.Transport, error) {
			return transport, nil
		})).
		WithClock(clock).
		WithLogger(discardLogger)
	for _, opt := range opts {
		opt(b)
	}
	config, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error from Build(): %v", err)
	}

	c, err := radio.New(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error from New(): %v", err)
	}
	return c, transport, clock
}
