package radio

import "errors"

var (
	// ErrNoDialer is returned by Build and New when no Dialer was supplied,
	// so there is no way to reach the module's UART.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when the Dialer handed back no Transport,
	// or when a CommandChannel is used without going through New.
	ErrNotInitialized = errors.New("radio not initialized")

	// ErrAlreadyClosed is returned when an operation or Close is called on a
	// CommandChannel that has already been closed.
	ErrAlreadyClosed = errors.New("radio already closed")

	// ErrNoPinDriver is returned by pin operations when the Config carries no
	// PinDriver.
	ErrNoPinDriver = errors.New("no pin driver configured")

	// ErrPinsNotConfigured is returned by single-pin helpers such as SetPTT
	// before ConfigurePins has assigned the control lines.
	ErrPinsNotConfigured = errors.New("control pins not configured")

	// ErrNoResponse is returned by the typed query helpers when the module
	// stayed silent for a whole inactivity window.
	ErrNoResponse = errors.New("no response from module")

	// ErrRejected is returned by Apply when a configuration step did not
	// come back with its success marker.
	ErrRejected = errors.New("command rejected")
)
