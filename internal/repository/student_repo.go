package repository

import (
	"context"

	"gorm.io/gorm"

	"gestion-notas/internal/model"
)

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, s *model.Student) error
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	GetByDNI(ctx context.Context, dni string) (*model.Student, error)
	List(ctx context.Context) ([]model.Student, error)
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, id int64) error
	// FirstOrCreate 按 DNI 查找，不存在时创建（种子数据使用）
	FirstOrCreate(ctx context.Context, s *model.Student) error
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, s *model.Student) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	var s model.Student
	err := r.db.WithContext(ctx).
		Where("id_alumno = ?", id).
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) GetByDNI(ctx context.Context, dni string) (*model.Student, error) {
	var s model.Student
	err := r.db.WithContext(ctx).
		Where("dni = ?", dni).
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) List(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Order("apellido ASC, nombre ASC").
		Find(&students).Error
	return students, err
}

// Update 整体替换；无匹配行时返回 gorm.ErrRecordNotFound
func (r *studentRepo) Update(ctx context.Context, s *model.Student) error {
	result := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("id_alumno = ?", s.ID).
		Updates(map[string]interface{}{
			"nombre":   s.Nombre,
			"apellido": s.Apellido,
			"dni":      s.DNI,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 无匹配行时返回 gorm.ErrRecordNotFound
func (r *studentRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id_alumno = ?", id).
		Delete(&model.Student{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepo) FirstOrCreate(ctx context.Context, s *model.Student) error {
	return r.db.WithContext(ctx).
		Where("dni = ?", s.DNI).
		FirstOrCreate(s).Error
}
