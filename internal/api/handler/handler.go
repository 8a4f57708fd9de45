package handler

import "gestion-notas/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Student *StudentHandler
	Course  *CourseHandler
	Grade   *GradeHandler
	System  *SystemHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		Student: NewStudentHandler(svc.Student),
		Course:  NewCourseHandler(svc.Course),
		Grade:   NewGradeHandler(svc.Grade),
		System:  NewSystemHandler(svc.System),
	}
}
