package wsview

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tagsphere/internal/cloud"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 64 * 1024
)

//go:embed static/index.html
var indexHTML []byte

type Option func(s *Server)

// WithFPS sets the frame rate of every session.
func WithFPS(fps int) Option {
	return func(s *Server) {
		s.fps = fps
	}
}

// WithEngineOptions passes options to the engine of every session.
func WithEngineOptions(options ...cloud.Option) Option {
	return func(s *Server) {
		s.engineOptions = append(s.engineOptions, options...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// Server serves the page and runs one sphere per connected page.
type Server struct {
	labels        []string
	fps           int
	engineOptions []cloud.Option
	logger        *slog.Logger
	upgrader      websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
}

func NewServer(labels []string, options ...Option) *Server {
	s := &Server{
		labels: labels,
		fps:    60,
		logger: slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		sessions: make(map[string]*session),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.serveHome)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// ListenAndServe serves until ctx is done. Open sessions end with ctx.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("failed to shutdown server", slog.String("error", err.Error()))
		}
	}()

	s.logger.Info("server starting", slog.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Sessions returns the number of connected pages.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) serveHome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func viewportFromQuery(r *http.Request) (float64, float64, error) {
	query := r.URL.Query()
	var size [2]float64
	for i, key := range []string{"vw", "vh"} {
		raw := query.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return 0, 0, fmt.Errorf("invalid %s: %q", key, raw)
		}
		size[i] = v
	}
	return size[0], size[1], nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	vw, vh, err := viewportFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	id := uuid.Must(uuid.NewV7()).String()
	logger := s.logger.With(slog.String("session", id))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	// unblocks the reader when the session ends from the scheduler side
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	write := func(data []byte) error {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		return conn.WriteMessage(websocket.TextMessage, data)
	}

	hello, err := json.Marshal(&initMessage{
		Type:        typeInit,
		ID:          id,
		Labels:      s.labels,
		MinFontSize: cloud.MinFontSize(vw, vh),
	})
	if err != nil {
		logger.Error("failed to encode init message", slog.String("error", err.Error()))
		return
	}
	if err := write(hello); err != nil {
		logger.Warn("failed to send init message", slog.String("error", err.Error()))
		return
	}

	surface := newSurface(len(s.labels), vw, vh, write, func(err error) {
		logger.Debug("failed to send frame", slog.String("error", err.Error()))
		cancel()
	})
	options := append([]cloud.Option{}, s.engineOptions...)
	options = append(options, cloud.WithLogger(logger))
	sess := &session{
		id:      id,
		surface: surface,
		logger:  logger,
		engine:  cloud.New(surface, s.labels, options...),
	}

	scheduler := cloud.NewTickerScheduler(s.fps)
	if err := sess.engine.Start(scheduler); err != nil {
		logger.Error("failed to start engine", slog.String("error", err.Error()))
		return
	}
	sess.engine.Attach(func() { surface.closed = true })

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
	}()

	go func() {
		_ = scheduler.Run(ctx)
	}()

	s.readLoop(ctx, conn, scheduler, sess)

	cancel()
	<-scheduler.Done()
	sess.engine.Stop()
	logger.Info("session closed")
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, scheduler *cloud.TickerScheduler, sess *session) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.logger.Warn("failed to read message", slog.String("error", err.Error()))
			}
			return
		}

		msg, err := decodeClientMessage(data)
		if err != nil {
			sess.logger.Debug("dropping malformed message", slog.String("error", err.Error()))
			continue
		}
		if !scheduler.Post(func() { sess.handle(msg) }) {
			return
		}
	}
}
