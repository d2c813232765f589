package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/assistravel/casedesk/internal/cache"
	"github.com/assistravel/casedesk/internal/domain"
	"github.com/assistravel/casedesk/internal/report"
	"github.com/assistravel/casedesk/internal/state"
	"github.com/assistravel/casedesk/internal/store"
	"github.com/assistravel/casedesk/pkg/logger"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	app    *state.AppStore
	cache  cache.Cache
	db     *gorm.DB
	logger *logger.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(app *state.AppStore, cache cache.Cache, db *gorm.DB, logger *logger.Logger) *Handlers {
	return &Handlers{
		app:    app,
		cache:  cache,
		db:     db,
		logger: logger,
	}
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	var count int64
	dbHealthy := h.db.Model(&domain.Case{}).Count(&count).Error == nil

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbHealthy,
		"cache":    h.cache.Stats(),
		"time":     time.Now().Unix(),
	})
}

// ListCases refreshes the case collection and returns it newest-first.
func (h *Handlers) ListCases(c *gin.Context) {
	if err := h.app.FetchCases(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.app.Cases,
	})
}

// CreateCase validates the submitted form and inserts through the store.
func (h *Handlers) CreateCase(c *gin.Context) {
	var in domain.CaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
		return
	}

	if fields := in.Validate(); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"fields":  fields,
		})
		return
	}

	if err := h.app.CreateCase(c.Request.Context(), &in); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    h.app.Cases[0],
	})
}

// UpdateCase validates the form and replaces the mutable fields of the case.
func (h *Handlers) UpdateCase(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var in domain.CaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
		return
	}

	if fields := in.Validate(); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"fields":  fields,
		})
		return
	}

	if err := h.app.UpdateCase(c.Request.Context(), id, &in); err != nil {
		h.respondError(c, err)
		return
	}

	for i := range h.app.Cases {
		if h.app.Cases[i].ID == id {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": h.app.Cases[i]})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteCase removes the case with the given id.
func (h *Handlers) DeleteCase(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.app.DeleteCase(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListCorrespondents refreshes and returns the correspondent collection.
func (h *Handlers) ListCorrespondents(c *gin.Context) {
	if err := h.app.FetchCorrespondents(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.app.Correspondents,
	})
}

func (h *Handlers) CreateCorrespondent(c *gin.Context) {
	var in domain.CorrespondentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
		return
	}

	if fields := in.Validate(); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"fields":  fields,
		})
		return
	}

	if err := h.app.CreateCorrespondent(c.Request.Context(), &in); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    h.app.Correspondents[len(h.app.Correspondents)-1],
	})
}

func (h *Handlers) UpdateCorrespondent(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var in domain.CorrespondentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
		return
	}

	if fields := in.Validate(); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"fields":  fields,
		})
		return
	}

	if err := h.app.UpdateCorrespondent(c.Request.Context(), id, &in); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) DeleteCorrespondent(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.app.DeleteCorrespondent(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DashboardMetrics returns the KPI snapshot, recomputing it when no cached
// snapshot survives the last mutation.
func (h *Handlers) DashboardMetrics(c *gin.Context) {
	if err := h.app.FetchMetrics(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.app.Metrics,
	})
}

// Report returns the filtered case rows plus the report summary.
func (h *Handlers) Report(c *gin.Context) {
	filters := report.Filters{
		Status:     c.DefaultQuery("estado", report.StatusAll),
		TimeWindow: c.DefaultQuery("periodo", report.WindowAll),
	}

	if err := h.app.FetchCases(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}

	filtered := report.Apply(h.app.Cases, filters, time.Now())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"casos":   filtered,
			"summary": report.Summarize(filtered),
		},
	})
}

// ExportReport streams the filtered cases as the CSV export.
func (h *Handlers) ExportReport(c *gin.Context) {
	filters := report.Filters{
		Status:     c.DefaultQuery("estado", report.StatusAll),
		TimeWindow: c.DefaultQuery("periodo", report.WindowAll),
	}

	if err := h.app.FetchCases(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}

	now := time.Now()
	filtered := report.Apply(h.app.Cases, filters, now)
	content := report.CSV(filtered)

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename(now)+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}

// respondError maps the store error taxonomy onto HTTP statuses. The state
// store has already recorded the message in its error flag.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var validationErr *store.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"fields":  validationErr.Fields,
		})
		return
	}

	var notFoundErr *store.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   notFoundErr.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func (h *Handlers) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid id",
		})
		return 0, false
	}
	return uint(id), true
}
