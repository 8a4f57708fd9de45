package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User    UserRepository
	Student StudentRepository
	Course  CourseRepository
	Grade   GradeRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:    NewUserRepo(db),
		Student: NewStudentRepo(db),
		Course:  NewCourseRepo(db),
		Grade:   NewGradeRepo(db),
	}
}
