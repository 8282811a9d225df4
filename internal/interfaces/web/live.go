package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trade"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/id"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-manager-hub/internal/usecase"
)

const (
	livePageTrade    = "trade-calculator"
	livePageTrending = "trending"

	defaultPingInterval = 30 * time.Second
	writeWait           = 10 * time.Second
	maxEventSize        = 4 << 10
)

var errUnknownEvent = fmt.Errorf("%w: unknown live event", usecase.ErrInvalidInput)

type LiveConfig struct {
	// AllowedOrigins lists origins allowed to open a socket. Empty means same host only.
	AllowedOrigins []string
	PingInterval   time.Duration
	SearchDebounce time.Duration
	FilterDebounce time.Duration
}

type LiveDeps struct {
	Players   player.Directory
	Simulator trade.Simulator
	Runtime   usecase.Runtime
	IDs       id.Generator
	Metrics   *metrics.Recorder
	Logger    *logging.Logger
	Renderer  *Renderer
}

// Live serves the websocket endpoint that binds one page controller to one browser tab.
type Live struct {
	cfg      LiveConfig
	deps     LiveDeps
	logger   *logging.Logger
	upgrader websocket.Upgrader
	validate *validator.Validate

	mu       sync.Mutex
	sessions map[string]*liveSession
	closing  bool
}

func NewLive(cfg LiveConfig, deps LiveDeps) *Live {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if deps.IDs == nil {
		deps.IDs = id.NewUUIDGenerator()
	}
	if deps.Runtime.Logger == nil {
		deps.Runtime.Logger = logger
	}

	l := &Live{
		cfg:      cfg,
		deps:     deps,
		logger:   logger.Named("live"),
		validate: validator.New(),
		sessions: make(map[string]*liveSession),
	}
	l.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     l.checkOrigin,
	}
	return l
}

func (l *Live) checkOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	if len(l.cfg.AllowedOrigins) == 0 {
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
	for _, allowed := range l.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimRight(allowed, "/"), origin) {
			return true
		}
	}
	return false
}

// Connect upgrades GET /live/{page} and runs the session until the socket closes.
func (l *Live) Connect(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Live.Connect")

	page := r.PathValue("page")
	if page != livePageTrade && page != livePageTrending {
		writeError(w, fmt.Errorf("%w: live page %q", usecase.ErrNotFound, page))
		span.End()
		return
	}

	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already answered the request.
		l.logger.WarnContext(ctx, "websocket upgrade failed", "page", page, "error", err)
		span.End()
		return
	}

	sessionID, err := l.deps.IDs.NewID()
	if err != nil {
		l.logger.ErrorContext(ctx, "create live session id", "error", err)
		_ = conn.Close()
		span.End()
		return
	}
	span.End()

	session := &liveSession{
		id:        sessionID,
		pageName:  page,
		conn:      conn,
		renderer:  l.deps.Renderer,
		metrics:   l.deps.Metrics,
		validate:  l.validate,
		logger:    l.logger.With("session_id", sessionID, "page", page),
		ping:      l.cfg.PingInterval,
		dirty:     make(chan struct{}, 1),
		lastHTML:  make(map[string]string),
		lastValue: make(map[string]string),
	}
	if !l.register(session) {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	defer l.unregister(session)

	session.run(r.Context(), func(ctx context.Context, onChange func()) livePage {
		return l.newPage(ctx, page, r.URL.Query(), onChange)
	})
}

func (l *Live) newPage(ctx context.Context, page string, query url.Values, onChange func()) livePage {
	switch page {
	case livePageTrending:
		return newTrendingLivePage(ctx, l.deps.Players, query, usecase.TrendingPlayersConfig{
			FilterDebounce: l.cfg.FilterDebounce,
		}, l.deps.Runtime, onChange)
	default:
		return newTradeLivePage(ctx, l.deps.Players, l.deps.Simulator, usecase.TradeCalculatorConfig{
			SearchDebounce: l.cfg.SearchDebounce,
		}, l.deps.Runtime, onChange)
	}
}

func (l *Live) register(s *liveSession) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closing {
		return false
	}
	l.sessions[s.id] = s
	l.deps.Metrics.LiveSessionOpened(s.pageName)
	return true
}

func (l *Live) unregister(s *liveSession) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sessions[s.id]; !ok {
		return
	}
	delete(l.sessions, s.id)
	l.deps.Metrics.LiveSessionClosed(s.pageName)
}

// Sessions reports how many sockets are open.
func (l *Live) Sessions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

// Shutdown closes every open socket. Hijacked connections are not tracked by http.Server, so the
// server's own Shutdown never reaches them.
func (l *Live) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	l.closing = true
	open := make([]*liveSession, 0, len(l.sessions))
	for _, s := range l.sessions {
		open = append(open, s)
	}
	l.mu.Unlock()

	for _, s := range open {
		s.closeGoingAway()
	}

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for l.Sessions() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// liveEvent is one browser interaction.
type liveEvent struct {
	Type   string `json:"type" validate:"required,max=32"`
	Target string `json:"target" validate:"max=32"`
	Value  string `json:"value" validate:"max=256"`
}

type liveMessage struct {
	Type   string `json:"type"`
	Target string `json:"target,omitempty"`
	HTML   string `json:"html,omitempty"`
	Value  string `json:"value,omitempty"`
}

type fragmentSpec struct {
	Target string
	Name   string
	Data   any
}

type inputValue struct {
	Target string
	Value  string
}

// liveFrame is the rendered state of a page: fragments by element id, input values and, for pages
// that mirror their state in the address bar, the location.
type liveFrame struct {
	Fragments []fragmentSpec
	Values    []inputValue
	Location  string
}

type livePage interface {
	mount()
	// handle applies one event to the controller.
	handle(ev liveEvent) error
	// valueTarget names the input whose text ev carries, or "".
	valueTarget(ev liveEvent) string
	frame() liveFrame
	close()
}

type liveSession struct {
	id       string
	pageName string
	conn     *websocket.Conn
	renderer *Renderer
	metrics  *metrics.Recorder
	validate *validator.Validate
	logger   *logging.Logger
	ping     time.Duration
	dirty    chan struct{}
	page     livePage

	mu           sync.Mutex
	lastHTML     map[string]string
	lastValue    map[string]string
	lastLocation string
	flushed      bool
}

func (s *liveSession) run(parent context.Context, newPage func(ctx context.Context, onChange func()) livePage) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	s.page = newPage(ctx, s.markDirty)
	s.logger.InfoContext(ctx, "live session opened")

	var wg conc.WaitGroup
	wg.Go(func() { s.writeLoop(ctx) })

	s.page.mount()
	s.markDirty()
	s.readLoop(ctx)

	cancel()
	wg.Wait()
	s.page.close()
	_ = s.conn.Close()
	s.logger.InfoContext(ctx, "live session closed")
}

func (s *liveSession) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *liveSession) readLoop(ctx context.Context) {
	pongWait := 2 * s.ping
	s.conn.SetReadLimit(maxEventSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.logger.WarnContext(ctx, "live socket closed unexpectedly", "error", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		if err := s.dispatch(raw); err != nil {
			s.logger.WarnContext(ctx, "live event rejected", "error", err)
		}
	}
}

func (s *liveSession) dispatch(raw []byte) error {
	var ev liveEvent
	if err := sonic.Unmarshal(raw, &ev); err != nil {
		s.metrics.RecordLiveEvent(s.pageName, "malformed", false)
		return fmt.Errorf("%w: decode event: %v", usecase.ErrInvalidInput, err)
	}
	if err := s.validate.Struct(ev); err != nil {
		s.metrics.RecordLiveEvent(s.pageName, "invalid", false)
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	if target := s.page.valueTarget(ev); target != "" {
		s.mu.Lock()
		s.lastValue[target] = ev.Value
		s.mu.Unlock()
	}

	if err := s.page.handle(ev); err != nil {
		accepted := !errors.Is(err, usecase.ErrInvalidInput)
		s.metrics.RecordLiveEvent(s.pageName, eventLabel(ev.Type, accepted), accepted)
		if errors.Is(err, errUnknownEvent) {
			return fmt.Errorf("%w: %q", err, ev.Type)
		}
		return err
	}
	s.metrics.RecordLiveEvent(s.pageName, ev.Type, true)
	s.markDirty()
	return nil
}

// eventLabel keeps unknown event names out of metric labels.
func eventLabel(eventType string, known bool) string {
	if known {
		return eventType
	}
	return "rejected"
}

func (s *liveSession) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(s.ping)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.dirty:
			if err := s.flush(); err != nil {
				s.logger.WarnContext(ctx, "live write failed", "error", err)
				_ = s.conn.Close()
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.logger.DebugContext(ctx, "live ping failed", "error", err)
				_ = s.conn.Close()
				return
			}
		}
	}
}

// flush renders the page and writes one frame holding only what changed since the last one.
func (s *liveSession) flush() error {
	messages, err := s.diff(s.page.frame())
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	payload, err := sonic.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode live frame: %w", err)
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

func (s *liveSession) diff(frame liveFrame) ([]liveMessage, error) {
	messages := make([]liveMessage, 0, len(frame.Fragments)+len(frame.Values)+1)
	for _, spec := range frame.Fragments {
		html, err := s.renderer.Fragment(spec.Name, spec.Data)
		if err != nil {
			return nil, err
		}
		if prev, ok := s.lastHTML[spec.Target]; ok && prev == html {
			continue
		}
		s.lastHTML[spec.Target] = html
		messages = append(messages, liveMessage{Type: "patch", Target: spec.Target, HTML: html})
	}

	s.mu.Lock()
	// The first frame only learns the values the document was rendered with.
	first := !s.flushed
	s.flushed = true
	for _, v := range frame.Values {
		prev, ok := s.lastValue[v.Target]
		s.lastValue[v.Target] = v.Value
		if first || (ok && prev == v.Value) || (!ok && v.Value == "") {
			continue
		}
		messages = append(messages, liveMessage{Type: "value", Target: v.Target, Value: v.Value})
	}
	s.mu.Unlock()

	if frame.Location != "" && frame.Location != s.lastLocation {
		s.lastLocation = frame.Location
		messages = append(messages, liveMessage{Type: "location", Value: frame.Location})
	}
	return messages, nil
}

func (s *liveSession) closeGoingAway() {
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
		time.Now().Add(writeWait))
	_ = s.conn.Close()
}
