package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"gestion-notas/internal/dto"
	"gestion-notas/internal/service"
	"gestion-notas/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GradeHandler 成绩模块 HTTP 处理器
type GradeHandler struct {
	svc service.GradeService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(svc service.GradeService) *GradeHandler {
	return &GradeHandler{svc: svc}
}

// gradeKey 解析 :alumnoId 与 :materiaId
func gradeKey(c *gin.Context) (int64, int64, bool) {
	studentID, ok := ParseIDParam(c, "alumnoId")
	if !ok {
		return 0, 0, false
	}
	courseID, ok := ParseIDParam(c, "materiaId")
	if !ok {
		return 0, 0, false
	}
	return studentID, courseID, true
}

// Get GET /notas/:alumnoId/:materiaId
func (h *GradeHandler) Get(c *gin.Context) {
	studentID, courseID, ok := gradeKey(c)
	if !ok {
		return
	}
	grade, err := h.svc.Get(c.Request.Context(), studentID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"notas": grade})
}

// Create POST /notas/:alumnoId/:materiaId
func (h *GradeHandler) Create(c *gin.Context) {
	studentID, courseID, ok := gradeKey(c)
	if !ok {
		return
	}
	var req dto.GradeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	grade, err := h.svc.Create(c.Request.Context(), studentID, courseID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, gin.H{"notas": grade})
}

// Update PUT /notas/:alumnoId/:materiaId
func (h *GradeHandler) Update(c *gin.Context) {
	studentID, courseID, ok := gradeKey(c)
	if !ok {
		return
	}
	var req dto.GradeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	grade, err := h.svc.Update(c.Request.Context(), studentID, courseID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"notas": grade})
}

// Upsert PUT /notas/upsert/:alumnoId/:materiaId
func (h *GradeHandler) Upsert(c *gin.Context) {
	studentID, courseID, ok := gradeKey(c)
	if !ok {
		return
	}
	var req dto.GradeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	grade, err := h.svc.Upsert(c.Request.Context(), studentID, courseID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"notas": grade})
}

// Delete DELETE /notas/:alumnoId/:materiaId
func (h *GradeHandler) Delete(c *gin.Context) {
	studentID, courseID, ok := gradeKey(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), studentID, courseID); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"data": dto.GradeKey{AlumnoID: studentID, MateriaID: courseID}})
}

// Average GET /notas/promedio/:alumnoId/:materiaId
// 无任何分数时 promedio 为 null
func (h *GradeHandler) Average(c *gin.Context) {
	studentID, courseID, ok := gradeKey(c)
	if !ok {
		return
	}
	avg, err := h.svc.Average(c.Request.Context(), studentID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"promedio": avg})
}

// ListByStudent GET /notas/alumno/:alumnoId
func (h *GradeHandler) ListByStudent(c *gin.Context) {
	studentID, ok := ParseIDParam(c, "alumnoId")
	if !ok {
		return
	}
	rows, err := h.svc.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"notas": rows})
}

// ListByCourse GET /notas/materia/:materiaId
func (h *GradeHandler) ListByCourse(c *gin.Context) {
	courseID, ok := ParseIDParam(c, "materiaId")
	if !ok {
		return
	}
	rows, err := h.svc.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"notas": rows})
}

// ExportCourse GET /notas/materia/:materiaId/export
func (h *GradeHandler) ExportCourse(c *gin.Context) {
	courseID, ok := ParseIDParam(c, "materiaId")
	if !ok {
		return
	}
	buf, filename, err := h.svc.ExportCourseSheet(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportCourse POST /notas/materia/:materiaId/import
// multipart 字段 file：首个工作表，表头含 dni 与可选 nota1..nota3
func (h *GradeHandler) ImportCourse(c *gin.Context) {
	courseID, ok := ParseIDParam(c, "materiaId")
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.ValidationFailed(c, "Archivo requerido", []response.FieldError{{Path: "file", Msg: "Campo requerido"}})
		return
	}
	file, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	result, err := h.svc.ImportCourseSheet(c.Request.Context(), courseID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"importadas": result.Importadas, "errores": result.Errores})
}
