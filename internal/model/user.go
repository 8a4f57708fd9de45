package model

// User 系统用户表，对应 usuario
// 密码列名可能因历史库结构不同而变化，读写时由 repository 动态解析
type User struct {
	ID           int64  `gorm:"column:id_usuario;primaryKey;autoIncrement" json:"id"`
	Nombre       string `gorm:"column:nombre;type:varchar(100);not null"   json:"nombre"`
	Email        string `gorm:"column:email;type:varchar(100);not null;uniqueIndex:uk_usuario_email" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
}

// TableName 指定表名
func (User) TableName() string { return "usuario" }
