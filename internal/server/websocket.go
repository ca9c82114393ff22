// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     server
// Description: Websocket protocol for parsing documents on request
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/msto63/fdl/internal/store"
	"github.com/msto63/fdl/pkg/core/cache"
	fdlerr "github.com/msto63/fdl/pkg/core/error"
	"github.com/msto63/fdl/pkg/core/log"
	"github.com/msto63/fdl/pkg/fdl"
	"github.com/msto63/fdl/pkg/fdl/export"
	"github.com/msto63/fdl/pkg/fdl/lexer"
	"github.com/msto63/fdl/pkg/fdl/parser"
	"github.com/msto63/fdl/pkg/fdl/printer"
)

// Message types
const (
	TypeParse  = "parse"
	TypeTokens = "tokens"
	TypeFormat = "format"
	TypeSave   = "save"
	TypePing   = "ping"

	TypeResult = "result"
	TypeError  = "error"
	TypePong   = "pong"
)

// WSMessage represents an incoming websocket message
type WSMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// WSSourcePayload carries a document for parse, tokens, format and save
type WSSourcePayload struct {
	Name   string `json:"name,omitempty"`
	Source string `json:"source"`
}

// WSResponse represents an outgoing websocket message. ID echoes the
// request ID.
type WSResponse struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload"`
}

// WSParseResult is the payload of a successful parse
type WSParseResult struct {
	Forest map[string]interface{} `json:"forest"`
	Stats  fdl.Stats              `json:"stats"`
}

// WSToken is one entry of a tokens result
type WSToken struct {
	Kind    string `json:"kind"`
	Literal string `json:"literal"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// WSFormatResult is the payload of a format request
type WSFormatResult struct {
	Source string `json:"source"`
}

// WSSaveResult is the payload of a save request
type WSSaveResult struct {
	ID    string `json:"id"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// WSErrorPayload represents an error. Line, Column and Kind are set for
// parse errors only.
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    *int   `json:"line,omitempty"`
	Column  *int   `json:"column,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// WebSocketHandler serves the live-parse protocol
type WebSocketHandler struct {
	upgrader  websocket.Upgrader
	parser    *parser.Parser
	snapshots store.SnapshotStore
	results   *cache.Cache[parseOutcome]
	logger    *log.Logger
	config    Config
}

// parseOutcome is a cached answer to a parse request. Parse errors are
// cached too.
type parseOutcome struct {
	result WSParseResult
	err    error
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(cfg Config, p *parser.Parser, snapshots store.SnapshotStore, logger *log.Logger) *WebSocketHandler {
	if logger == nil {
		logger = log.Nop()
	}
	if p == nil {
		p = parser.New(parser.Options{Logger: logger})
	}
	h := &WebSocketHandler{
		parser:    p,
		snapshots: snapshots,
		logger:    logger.WithField("handler", "websocket"),
		config:    cfg,
	}
	if cfg.CacheSize > 0 {
		h.results = cache.New[parseOutcome](cache.Config{
			MaxItems: cfg.CacheSize,
			TTL:      cfg.CacheTTL,
		})
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin allows every origin unless an allow list is configured
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if len(h.config.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// ServeHTTP handles websocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnWithErr("WebSocket upgrade failed", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection reads requests until the client goes away. Requests are
// answered in order from this goroutine; only control frames are written
// from elsewhere.
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", log.Fields{"remote": conn.RemoteAddr().String()})

	if h.config.MaxSourceSize > 0 {
		// Room for the JSON envelope around the source
		conn.SetReadLimit(2*h.config.MaxSourceSize + 4096)
	}

	interval := h.config.PingInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	deadline := 2 * interval
	conn.SetReadDeadline(time.Now().Add(deadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(deadline))
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go h.keepAlive(ctx, conn, interval)

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WarnWithErr("WebSocket read error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(deadline))

		h.sendResponse(conn, h.dispatch(ctx, msg))
	}
}

// keepAlive sends ping frames until ctx is done
func (h *WebSocketHandler) keepAlive(ctx context.Context, conn *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

// dispatch answers a single request
func (h *WebSocketHandler) dispatch(ctx context.Context, msg WSMessage) WSResponse {
	if msg.Type == TypePing {
		return WSResponse{Type: TypePong, ID: msg.ID}
	}

	var payload WSSourcePayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errorResponse(msg.ID, "invalid_payload", "Invalid payload: "+err.Error())
		}
	}
	if h.config.MaxSourceSize > 0 && int64(len(payload.Source)) > h.config.MaxSourceSize {
		return errorResponse(msg.ID, "source_too_large", "Source exceeds the maximum size")
	}

	switch msg.Type {
	case TypeParse:
		out := h.parse(payload.Source)
		if out.err != nil {
			return parseErrorResponse(msg.ID, out.err)
		}
		return WSResponse{Type: TypeResult, ID: msg.ID, Payload: out.result}

	case TypeTokens:
		tokens := make([]WSToken, 0)
		for tok, pos := range lexer.Tokenize(payload.Source) {
			tokens = append(tokens, WSToken{
				Kind:    tok.Kind.String(),
				Literal: tok.Literal,
				Line:    pos.Line,
				Column:  pos.Column,
			})
		}
		return WSResponse{Type: TypeResult, ID: msg.ID, Payload: tokens}

	case TypeFormat:
		formatted, err := printer.Format(payload.Source)
		if err != nil {
			return parseErrorResponse(msg.ID, err)
		}
		return WSResponse{Type: TypeResult, ID: msg.ID, Payload: WSFormatResult{Source: formatted}}

	case TypeSave:
		if h.snapshots == nil {
			return errorResponse(msg.ID, "store_disabled", "Snapshot store is not configured")
		}
		snap, err := h.snapshots.Save(ctx, payload.Name, payload.Source)
		if err != nil {
			h.logger.LogError(err)
			return errorResponse(msg.ID, strings.ToLower(string(fdlerr.GetCode(err))), err.Error())
		}
		return WSResponse{Type: TypeResult, ID: msg.ID, Payload: WSSaveResult{
			ID:    snap.ID,
			Valid: snap.Valid,
			Error: snap.Error,
		}}

	default:
		return errorResponse(msg.ID, "unknown_type", "Unknown message type: "+msg.Type)
	}
}

// parse parses src, answering repeated sources from the cache
func (h *WebSocketHandler) parse(src string) parseOutcome {
	if h.results == nil {
		return h.parseUncached(src)
	}
	out, _ := h.results.GetOrSet(cache.ContentKey(src), func() (parseOutcome, error) {
		return h.parseUncached(src), nil
	})
	return out
}

func (h *WebSocketHandler) parseUncached(src string) parseOutcome {
	forest, err := fdl.ParseSource(h.parser, src)
	if err != nil {
		return parseOutcome{err: err}
	}
	return parseOutcome{result: WSParseResult{
		Forest: export.ToJSONMap(forest),
		Stats:  fdl.Summarize(forest),
	}}
}

// Close releases the parse cache
func (h *WebSocketHandler) Close() {
	if h.results == nil {
		return
	}
	hits, misses, rate := h.results.Stats()
	h.logger.Debug("Parse cache closed", log.Fields{
		"cache_hits":     hits,
		"cache_misses":   misses,
		"cache_hit_rate": rate,
		"cache_size":     h.results.Size(),
	})
	h.results.Close()
}

// sendResponse sends a response message via websocket
func (h *WebSocketHandler) sendResponse(conn *websocket.Conn, resp WSResponse) {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.WarnWithErr("Failed to send WebSocket response", err)
	}
}

func errorResponse(id, code, message string) WSResponse {
	return WSResponse{Type: TypeError, ID: id, Payload: WSErrorPayload{Code: code, Message: message}}
}

func parseErrorResponse(id string, err error) WSResponse {
	pe, ok := parser.AsParseError(err)
	if !ok {
		return errorResponse(id, "internal", err.Error())
	}
	line, column := pe.Pos.Line, pe.Pos.Column
	return WSResponse{Type: TypeError, ID: id, Payload: WSErrorPayload{
		Code:    "parse_error",
		Message: pe.Message,
		Line:    &line,
		Column:  &column,
		Kind:    pe.Kind.String(),
	}}
}
