package handlers

import (
	"net/http"

	"leadtrack/internal/auth"
	"leadtrack/internal/middleware"
	"leadtrack/internal/services"
	"leadtrack/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	*BaseHandler
	tagService services.TagService
}

func NewTagHandler(base *BaseHandler, tagService services.TagService) *TagHandler {
	return &TagHandler{
		BaseHandler: base,
		tagService:  tagService,
	}
}

// RegisterRoutes mounts tags under /leads/tags; the static segment coexists
// with the /leads/:id parameter routes.
func (h *TagHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tags := rg.Group("/leads/tags")
	tags.Use(middleware.AuthMiddleware())
	{
		tags.GET("", middleware.RequirePermission(auth.ActionTagsRead), h.List)
		tags.POST("", middleware.RequirePermission(auth.ActionTagsManage), h.Create)
	}
}

func (h *TagHandler) List(c *gin.Context) {
	response, err := h.tagService.List()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": response})
}

func (h *TagHandler) Create(c *gin.Context) {
	var req dto.CreateTagRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.tagService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}
