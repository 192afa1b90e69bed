package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/quizmentor/quizmentor/internal/services"
	"github.com/quizmentor/quizmentor/internal/utils"
	"github.com/redis/go-redis/v9"
)

// InterviewWSHandler drives a live interview over a websocket: the client
// sends answers, the server replies with the next turn. Status events
// published on the session channel (difficulty changes, auto-end) are
// forwarded as-is.
type InterviewWSHandler struct {
	svc      services.InterviewService
	redis    *redis.Client
	upgrader websocket.Upgrader
}

func NewInterviewWSHandler(svc services.InterviewService, rdb *redis.Client) *InterviewWSHandler {
	return &InterviewWSHandler{
		svc:   svc,
		redis: rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type    string `json:"type"` // respond|end
	Message string `json:"message"`
	Skipped bool   `json:"skipped"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) writeJSON(typ string, payload any) error {
	b, err := json.Marshal(gin.H{"type": typ, "data": payload})
	if err != nil {
		return err
	}
	return w.writeText(b)
}

func (h *InterviewWSHandler) SessionWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if sessionID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewWSHandler.SessionWS", "missing session_id", nil))
		return
	}

	// authorize session ownership
	sess, err := h.svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	if sess.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "InterviewWSHandler.SessionWS", "forbidden", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	statusCh := "interview:" + sessionID + ":status"
	pubsub := h.redis.Subscribe(ctx, statusCh)
	defer pubsub.Close()

	// reader: client messages drive the interview
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"invalid json"}`))
				continue
			}

			switch msg.Type {
			case "respond":
				if msg.Message == "" && !msg.Skipped {
					_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"message is required"}`))
					continue
				}

				out, err := h.svc.Respond(ctx, sessionID, msg.Message, msg.Skipped)
				if err != nil {
					_ = wc.writeJSON("error", APIError{Code: errCode(err), Message: "failed to process answer"})
					continue
				}

				if out.AutoEnd {
					_ = wc.writeJSON("auto_end", out)
					_ = h.redis.Publish(ctx, statusCh, `{"type":"status","status":"auto_end","message":"topic skip limit reached"}`).Err()
					continue
				}
				_ = wc.writeJSON("turn", out)

			case "end":
				rec, err := h.svc.End(ctx, sessionID)
				if err != nil {
					_ = wc.writeJSON("error", APIError{Code: errCode(err), Message: "failed to end interview"})
					continue
				}
				_ = wc.writeJSON("summary", rec)
				_ = h.redis.Publish(ctx, statusCh, `{"type":"status","status":"ended","message":"interview ended"}`).Err()
				return

			default:
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"unknown message type"}`))
			}
		}
	}()

	// writer: Redis Pub/Sub -> WS
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		default:
			m, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				return
			}
			// forward as-is (payload expected JSON string)
			if werr := wc.writeText([]byte(m.Payload)); werr != nil {
				return
			}
		}
	}
}

func errCode(err error) utils.Code {
	var ae *utils.AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return utils.CodeInternal
}
