package service

import (
	"context"
	"math"
	"sort"

	"gorm.io/gorm"

	"gestion-notas/internal/model"
	"gestion-notas/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[string]*model.User // key: email
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[int64]*model.Student
	nextID   int64
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[int64]*model.Student)}
}

func (m *mockStudentRepo) dniTaken(dni string, except int64) bool {
	for id, s := range m.students {
		if s.DNI == dni && id != except {
			return true
		}
	}
	return false
}

func (m *mockStudentRepo) Create(_ context.Context, s *model.Student) error {
	if m.dniTaken(s.DNI, 0) {
		return gorm.ErrDuplicatedKey
	}
	m.nextID++
	s.ID = m.nextID
	cp := *s
	m.students[s.ID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int64) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByDNI(_ context.Context, dni string) (*model.Student, error) {
	for _, s := range m.students {
		if s.DNI == dni {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Apellido != result[j].Apellido {
			return result[i].Apellido < result[j].Apellido
		}
		return result[i].Nombre < result[j].Nombre
	})
	return result, nil
}

func (m *mockStudentRepo) Update(_ context.Context, s *model.Student) error {
	if _, ok := m.students[s.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if m.dniTaken(s.DNI, s.ID) {
		return gorm.ErrDuplicatedKey
	}
	cp := *s
	m.students[s.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) FirstOrCreate(ctx context.Context, s *model.Student) error {
	if existing, err := m.GetByDNI(ctx, s.DNI); err == nil {
		*s = *existing
		return nil
	}
	return m.Create(ctx, s)
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[int64]*model.Course
	nextID  int64
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[int64]*model.Course)}
}

func (m *mockCourseRepo) codeTaken(code string, except int64) bool {
	for id, c := range m.courses {
		if c.Codigo == code && id != except {
			return true
		}
	}
	return false
}

func (m *mockCourseRepo) Create(_ context.Context, c *model.Course) error {
	if m.codeTaken(c.Codigo, 0) {
		return gorm.ErrDuplicatedKey
	}
	m.nextID++
	c.ID = m.nextID
	cp := *c
	m.courses[c.ID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id int64) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Nombre < result[j].Nombre })
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, c *model.Course) error {
	if _, ok := m.courses[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if m.codeTaken(c.Codigo, c.ID) {
		return gorm.ErrDuplicatedKey
	}
	cp := *c
	m.courses[c.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) FirstOrCreate(ctx context.Context, c *model.Course) error {
	for _, existing := range m.courses {
		if existing.Codigo == c.Codigo {
			*c = *existing
			return nil
		}
	}
	return m.Create(ctx, c)
}

// ── Mock GradeRepository ──

type gradeKey struct{ student, course int64 }

type mockGradeRepo struct {
	grades   map[gradeKey]*model.Grade
	students *mockStudentRepo
	courses  *mockCourseRepo
	nextID   int64
	// numeric 为 true 时按 NUMERIC(4,2) 存储分数
	numeric bool
}

func newMockGradeRepo(students *mockStudentRepo, courses *mockCourseRepo) *mockGradeRepo {
	return &mockGradeRepo{
		grades:   make(map[gradeKey]*model.Grade),
		students: students,
		courses:  courses,
	}
}

func (m *mockGradeRepo) Get(_ context.Context, studentID, courseID int64) (*model.Grade, error) {
	if g, ok := m.grades[gradeKey{studentID, courseID}]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) Create(_ context.Context, g *model.Grade) error {
	k := gradeKey{g.StudentID, g.CourseID}
	if _, ok := m.grades[k]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.nextID++
	g.ID = m.nextID
	cp := *g
	if m.numeric {
		cp.Nota1, cp.Nota2, cp.Nota3 = round2(g.Nota1), round2(g.Nota2), round2(g.Nota3)
	}
	m.grades[k] = &cp
	return nil
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}

func (m *mockGradeRepo) Update(_ context.Context, g *model.Grade) error {
	k := gradeKey{g.StudentID, g.CourseID}
	existing, ok := m.grades[k]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Nota1, existing.Nota2, existing.Nota3 = g.Nota1, g.Nota2, g.Nota3
	return nil
}

func (m *mockGradeRepo) Upsert(ctx context.Context, g *model.Grade) error {
	if err := m.Update(ctx, g); err == nil {
		return nil
	}
	return m.Create(ctx, g)
}

func (m *mockGradeRepo) CreateIfAbsent(ctx context.Context, g *model.Grade) (bool, error) {
	if _, ok := m.grades[gradeKey{g.StudentID, g.CourseID}]; ok {
		return false, nil
	}
	return true, m.Create(ctx, g)
}

func (m *mockGradeRepo) Delete(_ context.Context, studentID, courseID int64) error {
	k := gradeKey{studentID, courseID}
	if _, ok := m.grades[k]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.grades, k)
	return nil
}

func (m *mockGradeRepo) ListByStudent(_ context.Context, studentID int64) ([]model.GradeWithCourse, error) {
	var result []model.GradeWithCourse
	for k, g := range m.grades {
		if k.student != studentID {
			continue
		}
		row := model.GradeWithCourse{Grade: *g}
		if c, ok := m.courses.courses[k.course]; ok {
			row.Materia = c.Nombre
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Materia < result[j].Materia })
	return result, nil
}

func (m *mockGradeRepo) ListByCourse(_ context.Context, courseID int64) ([]model.GradeWithStudent, error) {
	var result []model.GradeWithStudent
	for k, g := range m.grades {
		if k.course != courseID {
			continue
		}
		row := model.GradeWithStudent{Grade: *g}
		if s, ok := m.students.students[k.student]; ok {
			row.Apellido, row.Nombre, row.DNI = s.Apellido, s.Nombre, s.DNI
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Apellido < result[j].Apellido })
	return result, nil
}

// ── 测试辅助 ──

type mockRepos struct {
	user    *mockUserRepo
	student *mockStudentRepo
	course  *mockCourseRepo
	grade   *mockGradeRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	students := newMockStudentRepo()
	courses := newMockCourseRepo()
	m := &mockRepos{
		user:    newMockUserRepo(),
		student: students,
		course:  courses,
		grade:   newMockGradeRepo(students, courses),
	}
	return &repository.Repository{
		User:    m.user,
		Student: m.student,
		Course:  m.course,
		Grade:   m.grade,
	}, m
}

func ptr(v float64) *float64 { return &v }
