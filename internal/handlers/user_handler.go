package handlers

import (
	"net/http"

	"leadtrack/internal/auth"
	"leadtrack/internal/middleware"
	"leadtrack/internal/services"
	"leadtrack/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.RequirePermission(auth.ActionUsersRead), h.List)
		users.GET("/:id", middleware.RequirePermission(auth.ActionUsersRead), h.Get)
		users.POST("", middleware.RequirePermission(auth.ActionUsersManage), h.Create)
		users.PUT("/:id", middleware.RequirePermission(auth.ActionUsersManage), h.Update)
		users.DELETE("/:id", middleware.RequirePermission(auth.ActionUsersManage), h.Delete)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := ParsePagination(c)

	response, err := h.userService.List(page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) Get(c *gin.Context) {
	response, err := h.userService.Get(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.userService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.userService.Update(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) Delete(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	if err := h.userService.Delete(callerID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
