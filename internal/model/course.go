package model

// Course 课程表，对应 materia
type Course struct {
	ID     int64  `gorm:"column:id_materia;primaryKey;autoIncrement"                           json:"id_materia"`
	Nombre string `gorm:"column:nombre;type:varchar(100);not null"                             json:"nombre"`
	Codigo string `gorm:"column:codigo;type:varchar(20);not null;uniqueIndex:uk_materia_codigo" json:"codigo"`
	Anio   int    `gorm:"column:anio;not null"                                                 json:"anio"`
}

// TableName 指定表名
func (Course) TableName() string { return "materia" }
