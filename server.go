package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"i4.energy/across/sa818gw/at"
	"i4.energy/across/sa818gw/radio"
)

// Server handles incoming HTTP requests for interacting with the
// configured radio module
type Server struct {
	Logger *slog.Logger
	Radio  *radio.CommandChannel
	// RSSIInterval is the period of the /rssi/stream push
	RSSIInterval time.Duration

	upgrader websocket.Upgrader
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /connect", s.handleConnect)
	mux.HandleFunc("POST /scan", s.handleScan)
	mux.HandleFunc("PUT /group", s.handleSetGroup)
	mux.HandleFunc("GET /group", s.handleReadGroup)
	mux.HandleFunc("PUT /volume", s.handleVolume)
	mux.HandleFunc("PUT /filter", s.handleFilter)
	mux.HandleFunc("PUT /tail", s.handleTail)
	mux.HandleFunc("GET /rssi", s.handleRSSI)
	mux.HandleFunc("GET /rssi/stream", s.handleRSSIStream)
	mux.HandleFunc("GET /version", s.handleVersion)
	mux.HandleFunc("PUT /ptt", s.handlePTT)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	s.sendJSON(w, ErrorResponse{Message: message}, statusCode)
}

func (s *Server) sendJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// ResultResponse is the body returned by every classified command.
type ResultResponse struct {
	Result   string `json:"result"`
	Response string `json:"response"`
}

// sendResult reports a classified command. A reply without the success marker
// is a 502: the module answered, but not with what was asked of it.
func (s *Server) sendResult(w http.ResponseWriter, op at.Operation, reply radio.Reply, err error) {
	if err != nil {
		s.Logger.Error("Command failed", "op", op.String(), "error", err)
		s.sendError(w, err.Error(), statusFor(err))
		return
	}

	status := http.StatusOK
	if reply.Result != at.ResultOK {
		status = http.StatusBadGateway
	}
	s.sendJSON(w, ResultResponse{Result: reply.Result.String(), Response: reply.Response}, status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, radio.ErrNoResponse):
		return http.StatusGatewayTimeout
	case errors.Is(err, at.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, radio.ErrNoPinDriver), errors.Is(err, radio.ErrPinsNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	reply, err := s.Radio.Send(r.Context(), at.OpConnect, at.Connect())
	s.sendResult(w, at.OpConnect, reply, err)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	type ScanRequest struct {
		Frequency float64 `json:"frequency"`
	}

	var req ScanRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Frequency <= 0 {
		s.sendError(w, "'frequency' must be a positive MHz value", http.StatusBadRequest)
		return
	}

	reply, err := s.Radio.Send(r.Context(), at.OpScan, at.Scan(req.Frequency))
	s.sendResult(w, at.OpScan, reply, err)
}

// validateGroup checks what the module would otherwise reject without
// saying why.
func validateGroup(g at.Group) error {
	switch {
	case g.Bandwidth != 0 && g.Bandwidth != 1:
		return errors.New("'bandwidth' must be 0 (12.5 kHz) or 1 (25 kHz)")
	case g.TxFrequency <= 0 || g.RxFrequency <= 0:
		return errors.New("'tx_frequency' and 'rx_frequency' must be positive MHz values")
	case g.Squelch < 0 || g.Squelch > 8:
		return errors.New("'squelch' must be between 0 and 8")
	case !at.ValidTone(g.TxTone):
		return errors.New("'tx_tone' is not a CTCSS or DCS code")
	case !at.ValidTone(g.RxTone):
		return errors.New("'rx_tone' is not a CTCSS or DCS code")
	}
	return nil
}

func (s *Server) handleSetGroup(w http.ResponseWriter, r *http.Request) {
	var g at.Group
	if !s.decode(w, r, &g) {
		return
	}
	if err := validateGroup(g); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := s.Radio.Send(r.Context(), at.OpSetGroup, at.SetGroup(g))
	s.sendResult(w, at.OpSetGroup, reply, err)
}

func (s *Server) handleReadGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.Radio.Group(r.Context())
	if err != nil {
		s.Logger.Error("Failed to read group", "error", err)
		s.sendError(w, err.Error(), statusFor(err))
		return
	}
	s.sendJSON(w, g, http.StatusOK)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	type VolumeRequest struct {
		Level int `json:"level"`
	}

	var req VolumeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Level < 1 || req.Level > 8 {
		s.sendError(w, "'level' must be between 1 and 8", http.StatusBadRequest)
		return
	}

	reply, err := s.Radio.Send(r.Context(), at.OpSetVolume, at.SetVolume(req.Level))
	s.sendResult(w, at.OpSetVolume, reply, err)
}

func validSwitch(v int) bool { return v == 0 || v == 1 }

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var f radio.Filter
	if !s.decode(w, r, &f) {
		return
	}
	if !validSwitch(f.PreDeEmphasis) || !validSwitch(f.HighPass) || !validSwitch(f.LowPass) {
		s.sendError(w, "filter switches must be 0 (enabled) or 1 (disabled)", http.StatusBadRequest)
		return
	}

	reply, err := s.Radio.Send(r.Context(), at.OpSetFilter, at.SetFilter(f.PreDeEmphasis, f.HighPass, f.LowPass))
	s.sendResult(w, at.OpSetFilter, reply, err)
}

func (s *Server) handleTail(w http.ResponseWriter, r *http.Request) {
	type TailRequest struct {
		Tail int `json:"tail"`
	}

	var req TailRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !validSwitch(req.Tail) {
		s.sendError(w, "'tail' must be 0 (off) or 1 (on)", http.StatusBadRequest)
		return
	}

	reply, err := s.Radio.Send(r.Context(), at.OpSetTail, at.SetTail(req.Tail))
	s.sendResult(w, at.OpSetTail, reply, err)
}

// RSSIResponse carries a parsed signal strength reading.
type RSSIResponse struct {
	RSSI     int    `json:"rssi"`
	Response string `json:"response,omitempty"`
}

func (s *Server) handleRSSI(w http.ResponseWriter, r *http.Request) {
	resp, err := s.Radio.ReadRSSI(r.Context())
	if err == nil && resp == "" {
		err = radio.ErrNoResponse
	}
	var level int
	if err == nil {
		level, err = at.ParseRSSI(resp)
	}
	if err != nil {
		s.Logger.Error("Failed to read RSSI", "error", err)
		s.sendError(w, err.Error(), statusFor(err))
		return
	}
	s.sendJSON(w, RSSIResponse{RSSI: level, Response: resp}, http.StatusOK)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	type VersionResponse struct {
		Version string `json:"version"`
	}

	resp, err := s.Radio.Version(r.Context())
	if err == nil && resp == "" {
		err = radio.ErrNoResponse
	}
	var version string
	if err == nil {
		version, err = at.ParseVersion(resp)
	}
	if err != nil {
		s.Logger.Error("Failed to read version", "error", err)
		s.sendError(w, err.Error(), statusFor(err))
		return
	}
	s.sendJSON(w, VersionResponse{Version: version}, http.StatusOK)
}

func (s *Server) handlePTT(w http.ResponseWriter, r *http.Request) {
	type PTTRequest struct {
		Transmit bool `json:"transmit"`
	}

	var req PTTRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.Radio.SetPTT(req.Transmit); err != nil {
		s.Logger.Error("Failed to drive PTT", "error", err, "transmit", req.Transmit)
		s.sendError(w, err.Error(), statusFor(err))
		return
	}

	s.Logger.Info("PTT switched", "transmit", req.Transmit)
	w.WriteHeader(http.StatusNoContent)
}

// RSSIFrame is one message of the /rssi/stream websocket.
type RSSIFrame struct {
	RSSI  int       `json:"rssi"`
	Time  time.Time `json:"time"`
	Error string    `json:"error,omitempty"`
}

// handleRSSIStream pushes an RSSI reading every RSSIInterval until the client
// goes away. Each reading is a full exchange, so the stream competes with
// other callers for the module.
func (s *Server) handleRSSIStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Error("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	interval := s.RSSIInterval
	if interval <= 0 {
		interval = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reader goroutine (detects the client closing)
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.Logger.Info("RSSI stream opened", "remote", r.RemoteAddr, "interval", interval)
	defer s.Logger.Info("RSSI stream closed", "remote", r.RemoteAddr)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame := RSSIFrame{Time: time.Now().UTC()}
		level, err := s.Radio.RSSI(ctx)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			s.Logger.Debug("RSSI reading failed", "error", err)
			frame.Error = err.Error()
		}
		frame.RSSI = level

		if err := conn.WriteJSON(frame); err != nil {
			return
		}
	}
}
