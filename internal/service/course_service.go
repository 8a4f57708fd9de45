package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-notas/internal/dto"
	"gestion-notas/internal/model"
	"gestion-notas/internal/repository"
	apperrors "gestion-notas/pkg/errors"
)

// CourseService 课程业务接口
type CourseService interface {
	List(ctx context.Context) ([]model.Course, error)
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	Create(ctx context.Context, req *dto.CourseRequest) (*model.Course, error)
	Update(ctx context.Context, id int64, req *dto.CourseRequest) (*model.Course, error)
	Delete(ctx context.Context, id int64) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}

func (s *courseService) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) Create(ctx context.Context, req *dto.CourseRequest) (*model.Course, error) {
	course := courseFromRequest(req)
	if err := s.repo.Course.Create(ctx, course); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrCodeExists
		}
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, id int64, req *dto.CourseRequest) (*model.Course, error) {
	course := courseFromRequest(req)
	course.ID = id
	if err := s.repo.Course.Update(ctx, course); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrCourseNotFound
		case apperrors.IsDuplicateKey(err):
			return nil, ErrCodeExists
		}
		s.logger.Error("更新课程失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		s.logger.Error("删除课程失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func courseFromRequest(req *dto.CourseRequest) *model.Course {
	return &model.Course{
		Nombre: strings.TrimSpace(req.Nombre),
		Codigo: strings.TrimSpace(req.Codigo),
		Anio:   req.Anio,
	}
}
