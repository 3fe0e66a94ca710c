package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/optimization"
	"github.com/rgehrsitz/rothsim/internal/storage"
	"nhooyr.io/websocket"
)

const streamWriteTimeout = 10 * time.Second

// streamRequest is the first and only message a client sends on the stream
type streamRequest struct {
	Type     string          `json:"type"`
	Scenario domain.Scenario `json:"scenario"`
}

// streamFrame is sent to the client. Kind is "progress", "result" or "error".
type streamFrame struct {
	Kind   string                     `json:"kind"`
	Done   int                        `json:"done,omitempty"`
	Total  int                        `json:"total,omitempty"`
	Label  string                     `json:"label,omitempty"`
	Result *domain.OptimizationResult `json:"result,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

// handleOptimizeStream runs one sweep per connection and pushes progress frames
// as candidates finish, followed by the full result.
func (s *Server) handleOptimizeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.CORSOrigins,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected exit")

	ctx := r.Context()
	log := s.log.With().Str("stream", "optimize").Logger()

	req, err := readStreamRequest(ctx, conn)
	if err != nil {
		s.sendFrame(ctx, conn, streamFrame{Kind: "error", Error: err.Error()})
		conn.Close(websocket.StatusPolicyViolation, "bad request")
		return
	}

	t, err := domain.ParseOptimizationType(req.Type)
	if err == nil {
		err = s.prepareScenario(&req.Scenario)
	}
	if err != nil {
		s.sendFrame(ctx, conn, streamFrame{Kind: "error", Error: err.Error()})
		conn.Close(websocket.StatusPolicyViolation, "invalid request")
		return
	}

	log.Info().Str("type", string(t)).Msg("Client started streamed optimization")

	// The client sends nothing more. CloseRead handles control frames and
	// cancels ctx when the peer goes away.
	ctx = conn.CloseRead(ctx)

	progress := func(done, total int, label string) {
		if ctx.Err() != nil {
			return
		}
		s.sendFrame(ctx, conn, streamFrame{Kind: "progress", Done: done, Total: total, Label: label})
	}

	res, err := s.optimizer(optimization.WithProgress(progress)).Run(t, req.Scenario)
	if err != nil {
		s.sendFrame(ctx, conn, streamFrame{Kind: "error", Error: err.Error()})
		conn.Close(websocket.StatusInternalError, "optimization failed")
		return
	}
	if ctx.Err() != nil {
		log.Info().Str("type", string(t)).Msg("Client disconnected before the sweep finished")
		return
	}
	if res.Best != nil {
		s.recordRun(r, "", storage.RunOptimize, res.Best.Label, res.Best.Summary)
	}

	if err := s.sendFrame(ctx, conn, streamFrame{Kind: "result", Result: &res}); err != nil {
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func readStreamRequest(ctx context.Context, conn *websocket.Conn) (streamRequest, error) {
	var req streamRequest

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msgType, data, err := conn.Read(readCtx)
	if err != nil {
		return req, fmt.Errorf("read request: %w", err)
	}
	if msgType != websocket.MessageText {
		return req, errors.New("request must be a text message")
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}

func (s *Server) sendFrame(ctx context.Context, conn *websocket.Conn, f streamFrame) error {
	data, err := json.Marshal(f)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to marshal stream frame")
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()

	if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		s.log.Debug().Err(err).Str("kind", f.Kind).Msg("Stream write failed")
		return err
	}
	return nil
}
