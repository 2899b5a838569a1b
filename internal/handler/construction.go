package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"site-diary/internal/logger"
	"site-diary/internal/middleware"
	"site-diary/internal/model"
	"site-diary/internal/service"
)

type ConstructionHandler struct {
	svc *service.ConstructionService
}

func NewConstructionHandler(svc *service.ConstructionService) *ConstructionHandler {
	return &ConstructionHandler{svc: svc}
}

// POST /api/constructions
func (h *ConstructionHandler) Create(c *gin.Context) {
	var req model.ConstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	out, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("construction.create.ok", "id", out.ID, "owner", out.OwnerID)
	c.JSON(http.StatusOK, out)
}

// GET /api/constructions
func (h *ConstructionHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if out == nil {
		out = []model.Construction{}
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/constructions/:id
func (h *ConstructionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	out, err := h.svc.Get(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/constructions/:id
func (h *ConstructionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req model.ConstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	out, err := h.svc.Update(c.Request.Context(), id, middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/constructions/:id
func (h *ConstructionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	logger.Info("construction.delete.ok", "id", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
