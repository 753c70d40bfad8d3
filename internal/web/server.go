// Package web serves the portfolio page, its HTMX fragments and the live
// session socket.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Zachkp/neon-portfolio/internal/contact"
	"github.com/Zachkp/neon-portfolio/internal/content"
	"github.com/Zachkp/neon-portfolio/internal/logging"
	"github.com/Zachkp/neon-portfolio/internal/session"
	"github.com/Zachkp/neon-portfolio/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const shutdownTimeout = 10 * time.Second

// Deps are the collaborators a Server needs. Prefs, Content and Session are
// required.
type Deps struct {
	Prefs     *theme.Prefs
	Content   content.Content
	Session   session.Config
	Submitter contact.Submitter
	Log       *zap.Logger
	// SecureCookies marks the visitor cookie Secure.
	SecureCookies bool
}

type Server struct {
	engine    *gin.Engine
	tmpl      *template.Template
	prefs     *theme.Prefs
	content   content.Content
	sessCfg   session.Config
	submitter contact.Submitter
	log       *zap.Logger
	secure    bool
	upgrader  websocket.Upgrader
}

// New builds the gin engine with every route registered.
func New(deps Deps) (*Server, error) {
	if deps.Prefs == nil {
		return nil, errors.New("web: theme preferences are required")
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Submitter == nil {
		deps.Submitter = contact.Simulated{Delay: contact.DefaultDelay, Log: deps.Log}
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	s := &Server{
		tmpl:      tmpl,
		prefs:     deps.Prefs,
		content:   deps.Content,
		sessCfg:   deps.Session,
		submitter: deps.Submitter,
		log:       deps.Log,
		secure:    deps.SecureCookies,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}

	r := gin.New()
	r.Use(logging.Middleware(deps.Log), gin.Recovery())
	r.Use(s.visitorMiddleware(), s.themeMiddleware())
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(static))

	r.GET("/", s.handleIndex)
	r.GET("/ws", s.handleSession)
	r.GET("/healthz", s.handleHealth)
	r.POST("/contact", s.handleContact)
	r.POST("/theme", s.handleTheme)

	s.engine = r
	return s, nil
}

// Handler exposes the engine, mostly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
