package repository

import (
	"context"

	"gorm.io/gorm"

	"gestion-notas/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id int64) error
	// FirstOrCreate 按课程代码查找，不存在时创建（种子数据使用）
	FirstOrCreate(ctx context.Context, c *model.Course) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, c *model.Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	var c model.Course
	err := r.db.WithContext(ctx).
		Where("id_materia = ?", id).
		Take(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Order("nombre ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, c *model.Course) error {
	result := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("id_materia = ?", c.ID).
		Updates(map[string]interface{}{
			"nombre": c.Nombre,
			"codigo": c.Codigo,
			"anio":   c.Anio,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id_materia = ?", id).
		Delete(&model.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepo) FirstOrCreate(ctx context.Context, c *model.Course) error {
	return r.db.WithContext(ctx).
		Where("codigo = ?", c.Codigo).
		FirstOrCreate(c).Error
}
