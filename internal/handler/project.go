package handler

import (
	"mime"
	"net/http"

	"github.com/aidocs/backend/internal/middleware"
	"github.com/aidocs/backend/internal/service"
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
)

// ProjectHandler 项目相关接口
type ProjectHandler struct {
	service *service.ProjectService
}

func NewProjectHandler(service *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// RegisterRoutes 注册需要认证的项目路由
func (h *ProjectHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/generate-outline", h.GenerateOutline)
	router.GET("/projects", h.List)
	router.POST("/projects", h.Create)
	router.POST("/projects/", h.Create)
	router.GET("/projects/:id", h.Get)
	router.DELETE("/projects/:id", h.Delete)
	router.GET("/projects/:id/sections", h.GetSections)
	router.GET("/projects/:id/export", h.Export)
}

func (h *ProjectHandler) GenerateOutline(c *gin.Context) {
	var req service.OutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outline, err := h.service.RequestOutline(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outline": outline})
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.service.ListProjects(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Create 生成全部章节正文后保存项目
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.service.CreateProject(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       project.ID,
		"title":    project.Title,
		"topic":    project.Topic,
		"doc_type": project.DocType,
	})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	project, err := h.service.GetProject(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteProject(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Deleted"})
}

func (h *ProjectHandler) GetSections(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sections, err := h.service.GetSections(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

// Export 以附件形式下载 docx / pptx
func (h *ProjectHandler) Export(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.service.ExportProject(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	klog.V(6).Infof("[ProjectHandler] 导出文件: id=%d, filename=%s, requestID=%s", id, result.Filename, middleware.RequestID(c))
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	c.Data(http.StatusOK, result.MediaType, result.Data)
}
