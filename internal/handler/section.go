package handler

import (
	"net/http"

	"github.com/aidocs/backend/internal/middleware"
	"github.com/aidocs/backend/internal/service"
	"github.com/gin-gonic/gin"
)

// SectionHandler 章节精修与反馈接口
type SectionHandler struct {
	service *service.SectionService
}

func NewSectionHandler(service *service.SectionService) *SectionHandler {
	return &SectionHandler{service: service}
}

func (h *SectionHandler) RegisterRoutes(router gin.IRoutes) {
	router.PUT("/sections/:id/refine", h.Refine)
	router.PUT("/sections/:id/feedback", h.UpdateFeedback)
}

func (h *SectionHandler) Refine(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, err := h.service.RefineSection(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

func (h *SectionHandler) UpdateFeedback(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpdateFeedback(c.Request.Context(), middleware.CurrentUser(c), id, req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Updated"})
}
