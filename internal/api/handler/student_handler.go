package handler

import (
	"github.com/gin-gonic/gin"

	"gestion-notas/internal/dto"
	"gestion-notas/internal/service"
	"gestion-notas/pkg/response"
)

// StudentHandler 学生模块 HTTP 处理器
type StudentHandler struct {
	svc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(svc service.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

// List GET /alumnos
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"alumnos": students})
}

// Get GET /alumnos/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	student, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"alumno": student})
}

// Create POST /alumnos
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.StudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, gin.H{"alumno": student})
}

// Update PUT /alumnos/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.StudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"alumno": student})
}

// Delete DELETE /alumnos/:id
func (h *StudentHandler) Delete(c *gin.Context) {
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
