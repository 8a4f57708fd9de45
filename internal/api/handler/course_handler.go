package handler

import (
	"github.com/gin-gonic/gin"

	"gestion-notas/internal/dto"
	"gestion-notas/internal/service"
	"gestion-notas/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	svc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(svc service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// List GET /materias
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"materias": courses})
}

// Get GET /materias/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	course, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"materia": course})
}

// Create POST /materias
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, gin.H{"materia": course})
}

// Update PUT /materias/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"materia": course})
}

// Delete DELETE /materias/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"data": id})
}
