package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-notas/internal/dto"
	"gestion-notas/internal/model"
	"gestion-notas/internal/repository"
	apperrors "gestion-notas/pkg/errors"
)

// 分数取值范围
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// GradeService 成绩业务接口
type GradeService interface {
	Get(ctx context.Context, studentID, courseID int64) (*model.Grade, error)
	Create(ctx context.Context, studentID, courseID int64, req *dto.GradeRequest) (*model.Grade, error)
	Update(ctx context.Context, studentID, courseID int64, req *dto.GradeRequest) (*model.Grade, error)
	// Upsert 不存在则创建，存在则整体替换
	Upsert(ctx context.Context, studentID, courseID int64, req *dto.GradeRequest) (*model.Grade, error)
	Average(ctx context.Context, studentID, courseID int64) (*float64, error)
	ListByStudent(ctx context.Context, studentID int64) ([]model.GradeWithCourse, error)
	ListByCourse(ctx context.Context, courseID int64) ([]model.GradeWithStudent, error)
	Delete(ctx context.Context, studentID, courseID int64) error

	// ExportCourseSheet 导出课程成绩为 Excel，返回内容与建议文件名
	ExportCourseSheet(ctx context.Context, courseID int64) (*bytes.Buffer, string, error)
	// ImportCourseSheet 从 Excel 导入课程成绩，逐行 upsert，坏行汇总返回
	ImportCourseSheet(ctx context.Context, courseID int64, r io.Reader) (*dto.ImportResult, error)
}

type gradeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGradeService 创建 GradeService 实例
func NewGradeService(repo *repository.Repository, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, logger: logger}
}

func (s *gradeService) Get(ctx context.Context, studentID, courseID int64) (*model.Grade, error) {
	grade, err := s.repo.Grade.Get(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		s.logger.Error("查询成绩失败",
			zap.Int64("alumno_id", studentID), zap.Int64("materia_id", courseID), zap.Error(err))
		return nil, err
	}
	return grade, nil
}

func (s *gradeService) Create(ctx context.Context, studentID, courseID int64, req *dto.GradeRequest) (*model.Grade, error) {
	grade, err := s.prepare(ctx, studentID, courseID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Grade.Create(ctx, grade); err != nil {
		switch {
		case apperrors.IsDuplicateKey(err):
			return nil, ErrGradeExists
		case apperrors.IsForeignKeyViolation(err):
			return nil, ErrGradeRefMissing
		}
		s.logger.Error("创建成绩失败", zap.Error(err))
		return nil, err
	}
	// 以数据库中的精度为准（NUMERIC(4,2)）
	return s.Get(ctx, studentID, courseID)
}

// Update 整体替换三个分数，省略的分数置空
func (s *gradeService) Update(ctx context.Context, studentID, courseID int64, req *dto.GradeRequest) (*model.Grade, error) {
	if err := validateScores(req); err != nil {
		return nil, err
	}

	grade := gradeFromRequest(studentID, courseID, req)
	if err := s.repo.Grade.Update(ctx, grade); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		s.logger.Error("更新成绩失败", zap.Error(err))
		return nil, err
	}
	return s.Get(ctx, studentID, courseID)
}

func (s *gradeService) Upsert(ctx context.Context, studentID, courseID int64, req *dto.GradeRequest) (*model.Grade, error) {
	grade, err := s.prepare(ctx, studentID, courseID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Grade.Upsert(ctx, grade); err != nil {
		if apperrors.IsForeignKeyViolation(err) {
			return nil, ErrGradeRefMissing
		}
		s.logger.Error("写入成绩失败", zap.Error(err))
		return nil, err
	}
	// 冲突更新时部分驱动不回填主键，重新读取
	return s.Get(ctx, studentID, courseID)
}

func (s *gradeService) Average(ctx context.Context, studentID, courseID int64) (*float64, error) {
	grade, err := s.Get(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	return grade.Average(), nil
}

func (s *gradeService) ListByStudent(ctx context.Context, studentID int64) ([]model.GradeWithCourse, error) {
	rows, err := s.repo.Grade.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生成绩失败", zap.Int64("alumno_id", studentID), zap.Error(err))
		return nil, err
	}
	if rows == nil {
		rows = []model.GradeWithCourse{}
	}
	return rows, nil
}

func (s *gradeService) ListByCourse(ctx context.Context, courseID int64) ([]model.GradeWithStudent, error) {
	rows, err := s.repo.Grade.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程成绩失败", zap.Int64("materia_id", courseID), zap.Error(err))
		return nil, err
	}
	if rows == nil {
		rows = []model.GradeWithStudent{}
	}
	return rows, nil
}

func (s *gradeService) Delete(ctx context.Context, studentID, courseID int64) error {
	if err := s.repo.Grade.Delete(ctx, studentID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGradeNotFound
		}
		s.logger.Error("删除成绩失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 辅助函数 ──

// prepare 校验分数并确认学生与课程存在
func (s *gradeService) prepare(ctx context.Context, studentID, courseID int64, req *dto.GradeRequest) (*model.Grade, error) {
	if err := validateScores(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Int64("alumno_id", studentID), zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("materia_id", courseID), zap.Error(err))
		return nil, err
	}
	return gradeFromRequest(studentID, courseID, req), nil
}

func gradeFromRequest(studentID, courseID int64, req *dto.GradeRequest) *model.Grade {
	return &model.Grade{
		StudentID: studentID,
		CourseID:  courseID,
		Nota1:     req.Nota1,
		Nota2:     req.Nota2,
		Nota3:     req.Nota3,
	}
}

func validateScores(req *dto.GradeRequest) error {
	for _, v := range []*float64{req.Nota1, req.Nota2, req.Nota3} {
		if v != nil && !validScore(*v) {
			return ErrScoreOutOfRange
		}
	}
	return nil
}

func validScore(v float64) bool {
	return !math.IsNaN(v) && v >= MinScore && v <= MaxScore
}
