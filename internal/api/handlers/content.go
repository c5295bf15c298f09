package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/each4all/shinchon-saessaks-sub000/internal/api/middleware"
	"github.com/each4all/shinchon-saessaks-sub000/internal/content"
	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
	"github.com/each4all/shinchon-saessaks-sub000/internal/workflow"
)

// ContentHandler serves one content family. All five families bind their
// models straight from JSON; the repository overwrites every field the
// caller must not control (author, provenance, version).
type ContentHandler[T any, PT content.Ptr[T]] struct {
	repo   *content.Repository[T, PT]
	logger *zap.Logger
}

func NewContentHandler[T any, PT content.Ptr[T]](repo *content.Repository[T, PT], logger *zap.Logger) *ContentHandler[T, PT] {
	return &ContentHandler[T, PT]{
		repo:   repo,
		logger: logger.With(zap.String("handler", repo.Family())),
	}
}

// Register mounts the family's routes on rg. Reads are open to guests;
// writes need a session; bulk import needs the admin role.
func (h *ContentHandler[T, PT]) Register(rg *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)

	writes := rg.Group("")
	writes.Use(auth.RequireAuth())
	writes.POST("", h.Create)
	writes.POST("/:id/transition", h.Transition)
	writes.DELETE("/:id", h.Delete)

	admin := rg.Group("")
	admin.Use(auth.RequireAuth(), auth.RequireAdmin())
	admin.POST("/import", h.ImportBatch)
}

func (h *ContentHandler[T, PT]) Create(c *gin.Context) {
	var row T
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.repo.Create(c.Request.Context(), PT(&row), middleware.Viewer(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

type transitionRequest struct {
	Status models.Status `json:"status" binding:"required"`
	Reason string        `json:"reason"`
}

func (h *ContentHandler[T, PT]) Transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.repo.Transition(c.Request.Context(), c.Param("id"), req.Status, middleware.Viewer(c), req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ContentHandler[T, PT]) List(c *gin.Context) {
	var filter content.Filter
	if raw := c.Query("group_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group_id"})
			return
		}
		groupID := uint(id)
		filter.OwnerGroupID = &groupID
	}
	filter.IncludeDrafts = c.Query("include_drafts") == "true"

	items, err := h.repo.List(c.Request.Context(), filter, middleware.Viewer(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *ContentHandler[T, PT]) GetByID(c *gin.Context) {
	item, err := h.repo.GetByID(c.Request.Context(), c.Param("id"), middleware.Viewer(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ContentHandler[T, PT]) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id"), middleware.Viewer(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler[T, PT]) ImportBatch(c *gin.Context) {
	var req struct {
		Mode    content.ImportMode `json:"mode"`
		Records []T                `json:"records"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	records := make([]PT, len(req.Records))
	for i := range req.Records {
		records[i] = PT(&req.Records[i])
	}

	sum, err := h.repo.ImportBatch(c.Request.Context(), records, req.Mode)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// respondError maps engine errors to responses. NotFound and NotVisible
// share one body on purpose: existence must not leak to unauthorized
// viewers. The audit trail distinguishing them lives in the repository's
// logs and counters.
func (h *ContentHandler[T, PT]) respondError(c *gin.Context, err error) {
	var guard *workflow.GuardError
	switch {
	case errors.As(err, &guard):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": guard.Reason, "guard": guard.Guard})
	case errors.Is(err, content.ErrNotFound), errors.Is(err, content.ErrNotVisible):
		c.JSON(http.StatusNotFound, gin.H{"error": "content item not found"})
	case errors.Is(err, content.ErrStaleWrite):
		c.JSON(http.StatusConflict, gin.H{"error": "item was modified concurrently, reload and retry"})
	case errors.Is(err, content.ErrBadImportMode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
