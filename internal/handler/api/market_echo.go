package api

import (
	"errors"
	"time"

	models "MarTrade/internal/domain/models"
	domrepo "MarTrade/internal/domain/repository"
	"MarTrade/internal/service/metrics"
	"MarTrade/internal/usecase"
	xhttp "MarTrade/pkg/http"
	xlogger "MarTrade/pkg/logger"
	xutil "MarTrade/pkg/util"

	"github.com/labstack/echo/v4"
)

// MarketEchoHandler serves quotes, series, signals and charts over Echo.
type MarketEchoHandler struct {
	logger *xlogger.Logger
	md     *usecase.MarketData
}

func NewMarketEchoHandler(logger *xlogger.Logger, md *usecase.MarketData) *MarketEchoHandler {
	metrics.Register()
	return &MarketEchoHandler{logger: logger, md: md}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/quote", h.Quote)
	g.GET("/summary", h.Summary)
	g.GET("/series", h.Series)
	g.GET("/signals", h.Signals)
	g.GET("/signals/performance", h.Performance)
	g.GET("/correlation", h.Correlation)
	g.GET("/chart", h.Chart)
	g.GET("/status", h.Status)
}

// SeriesResponse is the /api/series payload.
type SeriesResponse struct {
	Code     string                `json:"code"`
	Interval string                `json:"interval"`
	SMA      []int                 `json:"sma_windows"`
	EMA      []int                 `json:"ema_windows"`
	Count    int                   `json:"count"`
	Bars     []models.IndicatorBar `json:"bars"`
}

func (h *MarketEchoHandler) Quote(c echo.Context) error {
	defer observe("quote", time.Now())
	req := &models.QuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	code := h.md.CanonicalCode(req.Code)

	q, err := h.md.GetQuote(c.Request().Context(), code)
	if err != nil {
		metrics.APIErrors.WithLabelValues("quote").Inc()
		if errors.Is(err, usecase.ErrNoQuote) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no quote for %s", code).WithError(err))
		}
		h.logger.Error("quote usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if q.Source == models.SourceFallback {
		metrics.APIDegraded.WithLabelValues("quote").Inc()
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, q)
}

func (h *MarketEchoHandler) Summary(c echo.Context) error {
	defer observe("summary", time.Now())
	quotes := h.md.GetMarketSummary(c.Request().Context())
	return xhttp.ListResponse(c, quotes, int64(len(quotes)))
}

func (h *MarketEchoHandler) Series(c echo.Context) error {
	defer observe("series", time.Now())
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	code := h.md.CanonicalCode(req.Code)
	interval := domrepo.NormalizeInterval(req.Interval)
	// ema defaults to the sma windows
	smaWindows := positiveWindows(xhttp.ParseWindows(req.Windows))
	emaWindows := smaWindows
	if req.EMA != "" {
		emaWindows = positiveWindows(xutil.ParseIntList(req.EMA))
	}

	bars := h.md.GetSeries(c.Request().Context(), code, interval, req.Size)
	if len(bars) == 0 {
		metrics.APIDegraded.WithLabelValues("series").Inc()
	}
	return xhttp.SuccessResponse(c, SeriesResponse{
		Code:     code,
		Interval: string(interval),
		SMA:      smaWindows,
		EMA:      emaWindows,
		Count:    len(bars),
		Bars:     h.md.GetIndicatorSet(bars, smaWindows, emaWindows),
	})
}

func (h *MarketEchoHandler) Signals(c echo.Context) error {
	defer observe("signals", time.Now())
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	views := h.md.Signals(req.N)
	return xhttp.ListResponse(c, views, int64(len(views)))
}

func (h *MarketEchoHandler) Performance(c echo.Context) error {
	defer observe("performance", time.Now())
	perf := h.md.Performance()
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300")
	return xhttp.ListResponse(c, perf, int64(len(perf)))
}

func (h *MarketEchoHandler) Correlation(c echo.Context) error {
	defer observe("correlation", time.Now())
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300")
	return xhttp.SuccessResponse(c, h.md.Correlation())
}

func (h *MarketEchoHandler) Chart(c echo.Context) error {
	defer observe("chart", time.Now())
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	code := h.md.CanonicalCode(req.Code)

	png, err := h.md.GetChart(c.Request().Context(), code, domrepo.ChartParams{
		Interval:   req.Interval,
		Type:       req.Type,
		Theme:      req.Theme,
		Studies:    xutil.SplitTrim(req.Studies, ","),
		OutputSize: req.OutputSize,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues("chart").Inc()
		if errors.Is(err, usecase.ErrNoChart) {
			return xhttp.AppErrorResponse(c, xhttp.UnavailableErrorf("chart for %s is unavailable", code).WithError(err))
		}
		h.logger.Error("chart usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.ImageResponse(c, png)
}

func (h *MarketEchoHandler) Status(c echo.Context) error {
	defer observe("status", time.Now())
	return xhttp.SuccessResponse(c, h.md.Status(c.Request().Context()))
}

func observe(endpoint string, start time.Time) {
	metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func positiveWindows(ws []int) []int {
	seen := map[int]bool{}
	out := []int{}
	for _, w := range ws {
		if w > 0 && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
