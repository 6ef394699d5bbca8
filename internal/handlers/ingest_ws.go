package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"logsify/internal/logger"
	"logsify/internal/models"
	"logsify/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 20 // 1 MB per batch frame
)

// closeAuthFailure is the close code reserved for rejected authentication,
// distinct from normal closure codes.
const closeAuthFailure = 4001

// Error acknowledgements sent in-band; none of them close the connection.
const (
	errInvalidFormat  = "invalid format"
	errExpectedArray  = "expected array"
	errInvalidRecords = "invalid log format"
	errStoreFailure   = "failed to process logs"
)

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins for production
}

// ingestSession owns one connection for its entire lifetime. Frames are
// handled strictly in order: frame n+1 is not read before frame n's
// acknowledgement has been written.
type ingestSession struct {
	conn    *websocket.Conn
	account *models.Account
	token   *models.IssuanceToken
	log     *logger.Logger
}

// sessionRegistry is the listener-owned collection of open sessions,
// keyed by connection identity. Inserted on accept, removed on close.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*ingestSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*ingestSession)}
}

func (r *sessionRegistry) add(s *ingestSession) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id
}

func (r *sessionRegistry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *sessionRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// ingestStream accepts an ingestion connection: upgrade, authenticate the
// ?token= query parameter, then run the per-frame loop until close. One
// goroutine per connection; a slow session never blocks another.
func (h *Handler) ingestStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ingest_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	acct, tok, err := h.services.TokenAuth.Authenticate(c.Request.Context(), c.Query("token"))
	if err != nil {
		if !errors.Is(err, service.ErrTokenRejected) && h.log != nil {
			h.log.Errorw("ingest_auth_lookup_failed", "err", err)
		}
		// Reject with the dedicated close code and no body. This is the
		// only close the server initiates before application data flows.
		msg := websocket.FormatCloseMessage(closeAuthFailure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return
	}

	sess := &ingestSession{conn: conn, account: acct, token: tok, log: h.log}
	id := h.sessions.add(sess)
	defer h.sessions.remove(id)

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stop := make(chan struct{})
	defer close(stop)
	go sess.keepAlive(stop)

	// No record traffic is accepted before the confirmation is sent.
	if err := sess.writeJSON(gin.H{
		"status":  "connected",
		"message": "log stream established",
		"user":    acct.DisplayName,
	}); err != nil {
		if h.log != nil {
			h.log.Infow("ingest_write_failed_initial", "err", err)
		}
		return
	}

	sess.run(c.Request.Context(), h.services.Ingest)
}

// keepAlive pings until the session ends. WriteControl is safe to call
// concurrently with the ack writes on the read loop.
func (s *ingestSession) keepAlive(stop <-chan struct{}) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ping.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// run processes one frame at a time until client close, transport error or
// shutdown. A frame already being handled is allowed to finish; a store
// write in flight when the connection drops still completes, its ack is
// simply never delivered.
func (s *ingestSession) run(ctx context.Context, ingest service.Ingest) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.log != nil {
				s.log.Infow("ingest_read_closed", "err", err)
			}
			return
		}
		s.handleFrame(ctx, ingest, data)
	}
}

// handleFrame runs the per-message procedure: decode, require an array,
// validate/stamp/persist through the ingest service, acknowledge. Every
// failure is reported in-band and leaves the session open.
func (s *ingestSession) handleFrame(ctx context.Context, ingest service.Ingest, data []byte) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		s.writeError(errInvalidFormat)
		return
	}

	batch, ok := payload.([]any)
	if !ok {
		s.writeError(errExpectedArray)
		return
	}

	count, err := ingest.IngestBatch(ctx, s.account.ID, s.token.ID, batch)
	switch {
	case errors.Is(err, service.ErrInvalidBatch):
		s.writeError(errInvalidRecords)
	case err != nil:
		if s.log != nil {
			s.log.Errorw("ingest_store_failed", "err", err, "account_id", s.account.ID)
		}
		s.writeError(errStoreFailure)
	default:
		_ = s.writeJSON(gin.H{"status": "ok", "count": count})
	}
}

func (s *ingestSession) writeJSON(v any) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

func (s *ingestSession) writeError(msg string) {
	_ = s.writeJSON(gin.H{"error": msg})
}
