package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"AlphaLabs/internal/domain/models"
	"AlphaLabs/internal/service/retention"
	"AlphaLabs/internal/usecase"
	xhttp "AlphaLabs/pkg/http"
	xlogger "AlphaLabs/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TimelineEchoHandler exposes the merged timeline and its derived views.
type TimelineEchoHandler struct {
	logger   *xlogger.Logger
	agg      *usecase.EventAggregator
	strength *usecase.StrengthService
	news     *usecase.NewsSource
	schedule *usecase.ScheduleSource
}

func NewTimelineEchoHandler(
	logger *xlogger.Logger,
	agg *usecase.EventAggregator,
	strength *usecase.StrengthService,
	news *usecase.NewsSource,
	schedule *usecase.ScheduleSource,
) *TimelineEchoHandler {
	return &TimelineEchoHandler{
		logger:   logger,
		agg:      agg,
		strength: strength,
		news:     news,
		schedule: schedule,
	}
}

func (h *TimelineEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/api")
	g.GET("/timeline", h.Timeline)
	g.GET("/strength", h.Strength)
	g.GET("/speeches", h.Speeches)
	g.GET("/schedule", h.Schedule)
}

func (h *TimelineEchoHandler) Timeline(c echo.Context) error {
	req := &models.TimelineRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	tl, err := h.agg.Timeline(c.Request().Context(), time.Now().UTC(), models.View(req.View))
	if err != nil {
		h.logger.Error("timeline merge error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, coldSourceError(err))
	}
	return xhttp.SuccessResponse(c, tl)
}

func (h *TimelineEchoHandler) Strength(c echo.Context) error {
	table, err := h.strength.Table(c.Request().Context(), time.Now().UTC())
	if err != nil {
		h.logger.Error("strength table error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, coldSourceError(err))
	}
	return xhttp.SuccessResponse(c, table)
}

func (h *TimelineEchoHandler) Speeches(c echo.Context) error {
	req := &models.SpeechesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	items := h.news.Retained().AllByPredicate(now, func(it retention.Item[models.CBItem]) bool {
		if req.Type != "" && string(it.Payload.Type) != req.Type {
			return false
		}
		if req.Institution != "" && !strings.EqualFold(it.Payload.Institution, req.Institution) {
			return false
		}
		return true
	})

	out := make([]models.CBItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.Payload)
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *TimelineEchoHandler) Schedule(c echo.Context) error {
	req := &models.ScheduleRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	items := h.schedule.Retained().AllByPredicate(now, nil)
	if len(items) > req.Limit {
		items = items[:req.Limit]
	}

	out := make([]models.ScheduleItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.Payload)
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *TimelineEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// coldSourceError maps a cold-and-backed-off upstream onto a 503 with a
// retry hint; everything else stays a 500.
func coldSourceError(err error) error {
	var retry *models.RetryAfterError
	if errors.As(err, &retry) {
		return xhttp.UnavailableError(retry.Error()).WithError(err)
	}
	if errors.Is(err, models.ErrUpstreamUnavailable) || errors.Is(err, models.ErrRateLimited) {
		return xhttp.UnavailableError("upstream sources unavailable").WithError(err)
	}
	return err
}
