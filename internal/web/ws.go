package web

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Zachkp/neon-portfolio/internal/content"
	"github.com/Zachkp/neon-portfolio/internal/loop"
	"github.com/Zachkp/neon-portfolio/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
	outboxSize     = 256
	closeWait      = time.Second
)

// handleSession upgrades to a websocket and runs one live session on its own
// loop until the browser goes away.
func (s *Server) handleSession(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	lp := loop.New(64)
	defer lp.Close()
	go func() { _ = lp.Run(ctx) }()

	outbox := make(chan session.Outbound, outboxSize)
	emit := func(m session.Outbound) {
		// rain frames are disposable; everything else must arrive in order
		if m.Type == session.TypeRain {
			select {
			case outbox <- m:
			default:
			}
			return
		}
		select {
		case outbox <- m:
		case <-ctx.Done():
		}
	}

	cfg := s.sessCfg
	cfg.Render = s.renderSections
	sess := session.New(ctx, lp, content.Static{Content: s.content}, cfg, emit, s.log)
	log := s.log.With(zap.String("session", sess.ID()))
	log.Info("session opened", zap.String("visitor", visitorFrom(c.Request.Context())))

	go s.writePump(ctx, cancel, conn, outbox, log)

	lp.Post(func() {
		if err := sess.Start(); err != nil {
			log.Error("starting session", zap.Error(err))
			cancel()
		}
	})

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read", zap.Error(err))
			}
			break
		}
		lp.Post(func() { _ = sess.Handle(data) })
	}

	closed := make(chan struct{})
	lp.Post(func() {
		sess.Close()
		close(closed)
	})
	select {
	case <-closed:
	case <-lp.Done():
	case <-time.After(closeWait):
		log.Warn("session did not close in time")
	}
	log.Info("session closed")
}

func (s *Server) writePump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, outbox <-chan session.Outbound, log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case m := <-outbox:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m); err != nil {
				log.Debug("websocket write", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
