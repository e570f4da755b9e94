package handlers

import (
	"fmt"
	"net/http"
	"time"

	"leadtrack/internal/auth"
	"leadtrack/internal/middleware"
	"leadtrack/internal/services"
	"leadtrack/internal/services/dto"

	"leadtrack/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	*BaseHandler
	leadService  services.LeadService
	importExport services.ImportExportService
}

func NewLeadHandler(base *BaseHandler, leadService services.LeadService, importExport services.ImportExportService) *LeadHandler {
	return &LeadHandler{
		BaseHandler:  base,
		leadService:  leadService,
		importExport: importExport,
	}
}

func (h *LeadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	leads := rg.Group("/leads")
	leads.Use(middleware.AuthMiddleware())
	{
		leads.GET("", middleware.RequirePermission(auth.ActionLeadsRead), h.List)
		leads.POST("", middleware.RequirePermission(auth.ActionLeadsCreate), h.Create)
		leads.POST("/import", middleware.RequirePermission(auth.ActionLeadsImport), h.Import)
		leads.GET("/export", middleware.RequirePermission(auth.ActionLeadsExport), h.Export)
		leads.GET("/:id", middleware.RequirePermission(auth.ActionLeadsRead), h.Get)
		leads.PUT("/:id", middleware.RequirePermission(auth.ActionLeadsUpdate), h.Update)
		leads.DELETE("/:id", middleware.RequirePermission(auth.ActionLeadsDelete), h.Delete)
		leads.POST("/:id/notes", middleware.RequirePermission(auth.ActionNotesCreate), h.AddNote)
	}
}

func (h *LeadHandler) List(c *gin.Context) {
	var req dto.LeadListRequest
	if !h.BindAndValidateQuery(c, &req) {
		return
	}

	response, err := h.leadService.List(middleware.GetUserID(c), middleware.GetRole(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *LeadHandler) Get(c *gin.Context) {
	response, err := h.leadService.Get(middleware.GetUserID(c), middleware.GetRole(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *LeadHandler) Create(c *gin.Context) {
	var req dto.CreateLeadRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.leadService.Create(middleware.GetUserID(c), middleware.GetRole(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *LeadHandler) Update(c *gin.Context) {
	var req dto.UpdateLeadRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.leadService.Update(middleware.GetUserID(c), middleware.GetRole(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *LeadHandler) Delete(c *gin.Context) {
	if err := h.leadService.Delete(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted"})
}

func (h *LeadHandler) AddNote(c *gin.Context) {
	var req dto.AddNoteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.leadService.AddNote(middleware.GetUserID(c), middleware.GetRole(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *LeadHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file upload field 'file'"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	result, err := h.importExport.Import(middleware.GetUserID(c), file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *LeadHandler) Export(c *gin.Context) {
	var req dto.LeadExportRequest
	if !h.BindAndValidateQuery(c, &req) {
		return
	}

	data, err := h.importExport.Export(middleware.GetUserID(c), middleware.GetRole(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("leads-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
