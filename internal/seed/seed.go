package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gestion-notas/internal/model"
	"gestion-notas/internal/repository"
)

// ── 演示数据 ──

// DemoUser 演示账号
var DemoUser = struct {
	Nombre   string
	Email    string
	Password string
}{"Demo", "demo@example.com", "hola1234"}

// DemoStudents 演示学生
var DemoStudents = []model.Student{
	{Nombre: "Ana", Apellido: "Pérez", DNI: "12345678"},
	{Nombre: "Carlos", Apellido: "Gómez", DNI: "23456789"},
	{Nombre: "Lucía", Apellido: "Rodríguez", DNI: "34567890"},
}

// DemoCourses 演示课程
var DemoCourses = []model.Course{
	{Nombre: "Matemática I", Codigo: "MAT1", Anio: 1},
	{Nombre: "Historia", Codigo: "HIS1", Anio: 1},
	{Nombre: "Programación", Codigo: "PROG1", Anio: 1},
}

// DemoGrade 按 DNI 与课程代码引用的演示成绩
type DemoGrade struct {
	DNI                 string
	Codigo              string
	Nota1, Nota2, Nota3 float64
}

// DemoGrades 演示成绩，仅在不存在时写入
var DemoGrades = []DemoGrade{
	{DNI: "12345678", Codigo: "MAT1", Nota1: 8, Nota2: 7, Nota3: 9},
	{DNI: "23456789", Codigo: "MAT1", Nota1: 6, Nota2: 7, Nota3: 6},
	{DNI: "34567890", Codigo: "HIS1", Nota1: 9, Nota2: 8, Nota3: 8},
}

// Result 一次填充的统计
type Result struct {
	UserID        int64
	UserCreated   bool
	Students      int
	Courses       int
	GradesCreated int
}

// Seeder 幂等地写入演示数据
// 已存在的记录（按邮箱 / DNI / 课程代码 / 学生+课程）保持不变
type Seeder struct {
	db         *gorm.DB
	repo       *repository.Repository
	bcryptCost int
	logger     *zap.Logger
}

// New 创建 Seeder
func New(db *gorm.DB, repo *repository.Repository, bcryptCost int, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, repo: repo, bcryptCost: bcryptCost, logger: logger}
}

// Run 执行填充
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	s.logger.Info("开始写入演示数据")
	s.logUserColumns(ctx)

	res := &Result{}

	userID, created, err := s.ensureUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("写入演示用户失败: %w", err)
	}
	res.UserID, res.UserCreated = userID, created

	studentIDs := make(map[string]int64, len(DemoStudents))
	for _, st := range DemoStudents {
		if err := s.repo.Student.FirstOrCreate(ctx, &st); err != nil {
			return nil, fmt.Errorf("写入学生 %s 失败: %w", st.DNI, err)
		}
		studentIDs[st.DNI] = st.ID
		res.Students++
	}

	courseIDs := make(map[string]int64, len(DemoCourses))
	for _, c := range DemoCourses {
		if err := s.repo.Course.FirstOrCreate(ctx, &c); err != nil {
			return nil, fmt.Errorf("写入课程 %s 失败: %w", c.Codigo, err)
		}
		courseIDs[c.Codigo] = c.ID
		res.Courses++
	}

	for _, dg := range DemoGrades {
		studentID, okS := studentIDs[dg.DNI]
		courseID, okC := courseIDs[dg.Codigo]
		if !okS || !okC {
			continue
		}
		n1, n2, n3 := dg.Nota1, dg.Nota2, dg.Nota3
		inserted, err := s.repo.Grade.CreateIfAbsent(ctx, &model.Grade{
			StudentID: studentID,
			CourseID:  courseID,
			Nota1:     &n1,
			Nota2:     &n2,
			Nota3:     &n3,
		})
		if err != nil {
			return nil, fmt.Errorf("写入成绩 %s/%s 失败: %w", dg.DNI, dg.Codigo, err)
		}
		if inserted {
			res.GradesCreated++
		}
	}

	s.logger.Info("演示数据写入完成",
		zap.Int64("user_id", res.UserID),
		zap.Bool("user_created", res.UserCreated),
		zap.Int("alumnos", res.Students),
		zap.Int("materias", res.Courses),
		zap.Int("notas_nuevas", res.GradesCreated),
	)
	return res, nil
}

// ensureUser 演示用户不存在时以 bcrypt 哈希密码创建
func (s *Seeder) ensureUser(ctx context.Context) (int64, bool, error) {
	existing, err := s.repo.User.GetByEmail(ctx, DemoUser.Email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoUser.Password), s.bcryptCost)
	if err != nil {
		return 0, false, err
	}

	user := &model.User{Nombre: DemoUser.Nombre, Email: DemoUser.Email, PasswordHash: string(hash)}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return 0, false, err
	}
	return user.ID, true, nil
}

// logUserColumns 输出 usuario 表的实际列，便于排查历史库的密码列名
// 查询失败只记录警告
func (s *Seeder) logUserColumns(ctx context.Context) {
	cols, err := s.db.WithContext(ctx).Migrator().ColumnTypes(model.User{}.TableName())
	if err != nil {
		s.logger.Warn("无法读取 usuario 表结构", zap.Error(err))
		return
	}
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name())
	}
	s.logger.Info("usuario 表列", zap.Strings("columns", names))
}
