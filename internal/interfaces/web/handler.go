package web

import (
	"context"
	"net/http"
	"time"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trending"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
	"github.com/riskibarqy/fantasy-manager-hub/internal/usecase"
)

// HealthChecker reports whether the backend API is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Handler struct {
	home     *usecase.HomeService
	health   HealthChecker
	renderer *Renderer
	logger   *logging.Logger
	now      func() time.Time
}

func NewHandler(home *usecase.HomeService, health HealthChecker, renderer *Renderer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		home:     home,
		health:   health,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

type layoutData struct {
	Title   string
	Nav     navigation
	Year    int
	LiveURL string
	Content any
}

type tradeModel struct {
	Sides []usecase.TradeSideView
	View  usecase.TradeView
}

type trendingModel struct {
	View        usecase.TrendingView
	Positions   []string
	SortOptions []trending.SortOption
	Rows        []player.Row
	ShownPage   int
}

type stubModel struct {
	Heading string
}

func newTradeModel(view usecase.TradeView) tradeModel {
	return tradeModel{
		Sides: []usecase.TradeSideView{view.A, view.B},
		View:  view,
	}
}

func newTrendingModel(view usecase.TrendingView) trendingModel {
	positions := make([]string, 0, len(player.DefaultPositions))
	for _, pos := range player.DefaultPositions {
		positions = append(positions, string(pos))
	}

	model := trendingModel{
		View:        view,
		Positions:   positions,
		SortOptions: trending.SortOptions,
		ShownPage:   view.State.Page,
	}
	if view.Page != nil {
		model.Rows = view.Page.Items
		if view.Page.Page > 0 {
			model.ShownPage = view.Page.Page
		}
	}
	return model
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	_, span := startSpan(r.Context(), "web.Handler.Healthz")
	defer span.End()

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports ready only while the backend API answers its health check.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Handler.Readyz")
	defer span.End()

	if h.health != nil {
		if err := h.health.Health(ctx); err != nil {
			h.logger.WarnContext(ctx, "backend api not ready", "error", err)
			writeError(w, err)
			return
		}
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Handler.Home")
	defer span.End()

	welcome := player.DefaultWelcome()
	if h.home != nil {
		welcome = h.home.Welcome(ctx)
	}
	h.renderPage(ctx, w, r, pageHome, welcome.Title, "", welcome)
}

func (h *Handler) TradeCalculator(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Handler.TradeCalculator")
	defer span.End()

	calc := usecase.NewTradeCalculator(ctx, nil, nil, usecase.TradeCalculatorConfig{}, usecase.Runtime{Logger: h.logger}, nil)
	view := calc.View()
	calc.Close()

	h.renderPage(ctx, w, r, pageTrade, "Trade Calculator", "/live/"+livePageTrade, newTradeModel(view))
}

func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Handler.Trending")
	defer span.End()

	state := trending.ParseViewState(r.URL.Query())
	players := usecase.NewTrendingPlayers(ctx, nil, state, usecase.TrendingPlayersConfig{}, usecase.Runtime{Logger: h.logger}, nil)
	view := players.View()
	players.Close()
	// The live session loads the first page once the socket connects.
	view.Loading = true

	h.renderPage(ctx, w, r, pageTrending, "Trending Players", "/live/"+livePageTrending+"?"+state.Query(), newTrendingModel(view))
}

// Stub serves the placeholder pages that only carry a heading.
func (h *Handler) Stub(heading string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "web.Handler.Stub")
		defer span.End()

		h.renderPage(ctx, w, r, pageStub, heading, "", stubModel{Heading: heading})
	}
}

func (h *Handler) renderPage(ctx context.Context, w http.ResponseWriter, r *http.Request, page, title, liveURL string, content any) {
	data := layoutData{
		Title:   title,
		Nav:     buildNavigation(r.URL.Path),
		Year:    h.now().Year(),
		LiveURL: liveURL,
		Content: content,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Page(w, page, data); err != nil {
		h.logger.ErrorContext(ctx, "render page failed", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
