package dto

// ── 学生模块 DTO ──

// StudentRequest 创建 / 更新学生请求（更新为整体替换）
type StudentRequest struct {
	Nombre   string `json:"nombre"   binding:"required,notblank,max=100"`
	Apellido string `json:"apellido" binding:"required,notblank,max=100"`
	DNI      string `json:"dni"      binding:"required,notblank,max=20"`
}
