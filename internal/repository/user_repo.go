package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestion-notas/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// userRepo UserRepository 的 GORM 实现
// 密码列名在首次读写时解析（兼容 password_hash / contraseña / contrasena）
type userRepo struct {
	db      *gorm.DB
	passCol *passwordColumn
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db, passCol: newPasswordColumn(db)}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	col, err := r.passCol.Resolve(ctx)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).
		Table(model.User{}.TableName()).
		Create(map[string]interface{}{
			"nombre": user.Nombre,
			"email":  user.Email,
			col:      user.PasswordHash,
		}).Error
	if err != nil {
		return err
	}

	// map 方式插入不会回填主键，按唯一邮箱回查
	created, err := r.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	user.ID = created.ID
	return nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getBy(ctx, "id_usuario = ?", id)
}

func (r *userRepo) getBy(ctx context.Context, cond string, arg interface{}) (*model.User, error) {
	col, err := r.passCol.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var user model.User
	err = r.db.WithContext(ctx).
		Table(model.User{}.TableName()).
		Select("id_usuario, nombre, email, ? AS password_hash", clause.Column{Name: col}).
		Where(cond, arg).
		Take(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
