package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-notas/config"
	"gestion-notas/internal/repository"
	"gestion-notas/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth    AuthService
	Student StudentService
	Course  CourseService
	Grade   GradeService
	System  SystemService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	db *gorm.DB,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(cfg, repo, jwtMgr, logger),
		Student: NewStudentService(repo, logger),
		Course:  NewCourseService(repo, logger),
		Grade:   NewGradeService(repo, logger),
		System:  NewSystemService(db, logger),
	}
}
