package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"proctor-quiz-service/internal/app"
	"proctor-quiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewWSHandler(service *app.QuizService, allowedOrigins []string, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, allowed := range allowedOrigins {
					if strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		log: log.With().Str("component", "ws_handler").Logger(),
	}
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS streams the admin listing: one "results" snapshot, then a
// "submission" message per newly saved record. A record saved while the
// snapshot is being read can appear in both; clients dedupe by id.
func (h *WSHandler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := h.service.Subscribe()
	defer cancel()

	results, err := h.service.Results(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("ws snapshot failed")
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: msgResultsFailure}})
		return
	}
	if err := conn.WriteJSON(outboundMessage[[]domain.Submission]{Type: "results", Payload: results}); err != nil {
		return
	}

	// The reader only watches for the peer going away; this goroutine owns all writes.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Debug().Err(err).Msg("ws closed unexpectedly")
				}
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case submission, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[domain.Submission]{Type: "submission", Payload: submission}); err != nil {
				h.log.Debug().Err(err).Msg("ws write failed")
				return
			}
		}
	}
}
