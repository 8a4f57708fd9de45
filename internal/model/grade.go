package model

// Grade 成绩表，对应 nota
// 每个 (alumno_id, materia_id) 至多一行；三个分数均可为空，取值 [0,10]
type Grade struct {
	ID        int64    `gorm:"column:id_nota;primaryKey;autoIncrement"                             json:"id_nota"`
	StudentID int64    `gorm:"column:alumno_id;not null;uniqueIndex:uk_nota_alumno_materia,priority:1"  json:"alumno_id"`
	CourseID  int64    `gorm:"column:materia_id;not null;uniqueIndex:uk_nota_alumno_materia,priority:2" json:"materia_id"`
	Nota1     *float64 `gorm:"column:nota1;type:decimal(4,2)"                                      json:"nota1"`
	Nota2     *float64 `gorm:"column:nota2;type:decimal(4,2)"                                      json:"nota2"`
	Nota3     *float64 `gorm:"column:nota3;type:decimal(4,2)"                                      json:"nota3"`
}

// TableName 指定表名
func (Grade) TableName() string { return "nota" }

// Scores 返回三个分数槽位
func (g *Grade) Scores() [3]*float64 {
	return [3]*float64{g.Nota1, g.Nota2, g.Nota3}
}

// Average 当前成绩行的平均分
func (g *Grade) Average() *float64 {
	s := g.Scores()
	return Average(s[:]...)
}

// Average 仅对非空分数求算术平均；全部为空时返回 nil
func Average(scores ...*float64) *float64 {
	var sum float64
	var n int
	for _, s := range scores {
		if s == nil {
			continue
		}
		sum += *s
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// GradeWithCourse 按学生查询成绩时附带课程名称
type GradeWithCourse struct {
	Grade   `gorm:"embedded"`
	Materia string `gorm:"column:materia" json:"materia"`
}

// GradeWithStudent 按课程查询成绩时附带学生姓名与 DNI
type GradeWithStudent struct {
	Grade    `gorm:"embedded"`
	Apellido string `gorm:"column:apellido" json:"apellido"`
	Nombre   string `gorm:"column:nombre"   json:"nombre"`
	DNI      string `gorm:"column:dni"      json:"dni"`
}
