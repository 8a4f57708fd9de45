package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestion-notas/internal/model"
)

// GradeRepository 成绩数据访问接口（以 学生+课程 为键）
type GradeRepository interface {
	Get(ctx context.Context, studentID, courseID int64) (*model.Grade, error)
	Create(ctx context.Context, g *model.Grade) error
	Update(ctx context.Context, g *model.Grade) error
	Upsert(ctx context.Context, g *model.Grade) error
	CreateIfAbsent(ctx context.Context, g *model.Grade) (bool, error)
	Delete(ctx context.Context, studentID, courseID int64) error
	ListByStudent(ctx context.Context, studentID int64) ([]model.GradeWithCourse, error)
	ListByCourse(ctx context.Context, courseID int64) ([]model.GradeWithStudent, error)
}

type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo 创建 GradeRepository 实例
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

var gradeKeyColumns = []clause.Column{{Name: "alumno_id"}, {Name: "materia_id"}}

func (r *gradeRepo) Get(ctx context.Context, studentID, courseID int64) (*model.Grade, error) {
	var g model.Grade
	err := r.db.WithContext(ctx).
		Where("alumno_id = ? AND materia_id = ?", studentID, courseID).
		Take(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gradeRepo) Create(ctx context.Context, g *model.Grade) error {
	return r.db.WithContext(ctx).Create(g).Error
}

// Update 覆盖全部三个分数（nil 写为 NULL）；无匹配行时返回 gorm.ErrRecordNotFound
func (r *gradeRepo) Update(ctx context.Context, g *model.Grade) error {
	result := r.db.WithContext(ctx).
		Model(&model.Grade{}).
		Where("alumno_id = ? AND materia_id = ?", g.StudentID, g.CourseID).
		Updates(map[string]interface{}{
			"nota1": g.Nota1,
			"nota2": g.Nota2,
			"nota3": g.Nota3,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Upsert 单条语句完成 插入或整体替换
// postgres/sqlite: ON CONFLICT (alumno_id, materia_id) DO UPDATE
// mysql: ON DUPLICATE KEY UPDATE
func (r *gradeRepo) Upsert(ctx context.Context, g *model.Grade) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   gradeKeyColumns,
			DoUpdates: clause.AssignmentColumns([]string{"nota1", "nota2", "nota3"}),
		}).
		Create(g).Error
}

// CreateIfAbsent 已存在时保持原值不变，返回是否新建
func (r *gradeRepo) CreateIfAbsent(ctx context.Context, g *model.Grade) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: gradeKeyColumns, DoNothing: true}).
		Create(g)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gradeRepo) Delete(ctx context.Context, studentID, courseID int64) error {
	result := r.db.WithContext(ctx).
		Where("alumno_id = ? AND materia_id = ?", studentID, courseID).
		Delete(&model.Grade{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gradeRepo) ListByStudent(ctx context.Context, studentID int64) ([]model.GradeWithCourse, error) {
	var rows []model.GradeWithCourse
	err := r.db.WithContext(ctx).
		Table("nota AS n").
		Select("n.id_nota, n.alumno_id, n.materia_id, m.nombre AS materia, n.nota1, n.nota2, n.nota3").
		Joins("JOIN materia AS m ON n.materia_id = m.id_materia").
		Where("n.alumno_id = ?", studentID).
		Order("m.nombre ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *gradeRepo) ListByCourse(ctx context.Context, courseID int64) ([]model.GradeWithStudent, error) {
	var rows []model.GradeWithStudent
	err := r.db.WithContext(ctx).
		Table("nota AS n").
		Select("n.id_nota, n.alumno_id, n.materia_id, a.apellido, a.nombre, a.dni, n.nota1, n.nota2, n.nota3").
		Joins("JOIN alumno AS a ON n.alumno_id = a.id_alumno").
		Where("n.materia_id = ?", courseID).
		Order("a.apellido ASC, a.nombre ASC").
		Scan(&rows).Error
	return rows, err
}
