package model

// Student 学生表，对应 alumno
type Student struct {
	ID       int64  `gorm:"column:id_alumno;primaryKey;autoIncrement"                      json:"id_alumno"`
	Nombre   string `gorm:"column:nombre;type:varchar(100);not null"                       json:"nombre"`
	Apellido string `gorm:"column:apellido;type:varchar(100);not null"                     json:"apellido"`
	DNI      string `gorm:"column:dni;type:varchar(20);not null;uniqueIndex:uk_alumno_dni" json:"dni"`
}

// TableName 指定表名
func (Student) TableName() string { return "alumno" }
