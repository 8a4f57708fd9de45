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

// StudentService 学生业务接口
type StudentService interface {
	List(ctx context.Context) ([]model.Student, error)
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	Create(ctx context.Context, req *dto.StudentRequest) (*model.Student, error)
	Update(ctx context.Context, id int64, req *dto.StudentRequest) (*model.Student, error)
	Delete(ctx context.Context, id int64) error
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

func (s *studentService) List(ctx context.Context) ([]model.Student, error) {
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

func (s *studentService) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}

func (s *studentService) Create(ctx context.Context, req *dto.StudentRequest) (*model.Student, error) {
	student := studentFromRequest(req)
	if err := s.repo.Student.Create(ctx, student); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrDNIExists
		}
		s.logger.Error("创建学生失败", zap.Error(err))
		return nil, err
	}
	return student, nil
}

// Update 整体替换学生信息
func (s *studentService) Update(ctx context.Context, id int64, req *dto.StudentRequest) (*model.Student, error) {
	student := studentFromRequest(req)
	student.ID = id
	if err := s.repo.Student.Update(ctx, student); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrStudentNotFound
		case apperrors.IsDuplicateKey(err):
			return nil, ErrDNIExists
		}
		s.logger.Error("更新学生失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}

// Delete 删除学生，其成绩随外键级联删除
func (s *studentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Student.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("删除学生失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func studentFromRequest(req *dto.StudentRequest) *model.Student {
	return &model.Student{
		Nombre:   strings.TrimSpace(req.Nombre),
		Apellido: strings.TrimSpace(req.Apellido),
		DNI:      strings.TrimSpace(req.DNI),
	}
}
