package dto

// ── 课程模块 DTO ──

// CourseRequest 创建 / 更新课程请求（更新为整体替换）
type CourseRequest struct {
	Nombre string `json:"nombre" binding:"required,notblank,max=100"`
	Codigo string `json:"codigo" binding:"required,notblank,max=20"`
	Anio   int    `json:"anio"   binding:"min=1"`
}
