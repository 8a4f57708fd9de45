package dto

// ── 成绩模块 DTO ──

// GradeRequest 成绩写入请求
// 三个分数均可省略或为 null；更新时省略的分数写为 NULL（整体替换）
type GradeRequest struct {
	Nota1 *float64 `json:"nota1" binding:"omitempty,min=0,max=10"`
	Nota2 *float64 `json:"nota2" binding:"omitempty,min=0,max=10"`
	Nota3 *float64 `json:"nota3" binding:"omitempty,min=0,max=10"`
}

// GradeKey 成绩主键（学生 + 课程）
type GradeKey struct {
	AlumnoID  int64 `json:"alumno_id"`
	MateriaID int64 `json:"materia_id"`
}

// ImportRowError 表格导入中的单行错误
type ImportRowError struct {
	Fila    int    `json:"fila"`
	Mensaje string `json:"mensaje"`
}

// ImportResult 表格导入结果
type ImportResult struct {
	Importadas int              `json:"importadas"`
	Errores    []ImportRowError `json:"errores"`
}
