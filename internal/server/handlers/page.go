package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-lookup-app/internal/config"
	"github.com/vzahanych/weather-lookup-app/internal/lookup"
	"github.com/vzahanych/weather-lookup-app/internal/server/utils"
	"github.com/vzahanych/weather-lookup-app/internal/server/views"
)

// PageHandler serves the lookup form. Both form posts redirect back to
// the page so a reload never resubmits.
type PageHandler struct {
	session *lookup.Session
	cfg     *config.Config
	logger  *zap.Logger
	metrics LookupRecorder
}

func NewPageHandler(session *lookup.Session, cfg *config.Config, logger *zap.Logger, metrics LookupRecorder) *PageHandler {
	return &PageHandler{
		session: session,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *PageHandler) Index(c *gin.Context) {
	page := views.NewPage(h.session.View(), h.cfg)
	c.HTML(http.StatusOK, views.IndexTemplate, page)
}

func (h *PageHandler) Lookup(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)

	city := c.PostForm("city")
	outcome := h.session.Submit(ctx, city)

	if h.metrics != nil {
		h.metrics.RecordLookup(ctx, outcome)
	}

	utils.RequestLogger(c, h.logger).Info("Lookup submitted",
		zap.String("city", city),
		zap.String("outcome", string(outcome)))

	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) ToggleUnits(c *gin.Context) {
	unit := h.session.ToggleUnit()

	if h.metrics != nil {
		h.metrics.RecordUnitToggle(utils.GetContextFromGinContext(c))
	}

	utils.RequestLogger(c, h.logger).Debug("Units toggled",
		zap.String("units", unit.String()))

	c.Redirect(http.StatusSeeOther, "/")
}
