package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gestion-notas/internal/model"
	apperrors "gestion-notas/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func migrateAll(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Student{}, &model.Course{}, &model.Grade{}))
}

func f(v float64) *float64 { return &v }

// ── User ──

func TestUserRepo_CreateAndGetByEmail(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewUserRepo(db)
	ctx := context.Background()

	u := &model.User{Nombre: "Demo", Email: "demo@example.com", PasswordHash: "$2a$hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := repo.GetByEmail(ctx, "demo@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "$2a$hash", got.PasswordHash)

	_, err = repo.GetByEmail(ctx, "nadie@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Create(ctx, &model.User{Nombre: "Otro", Email: "demo@example.com", PasswordHash: "x"})
	assert.True(t, apperrors.IsDuplicateKey(err), "got %v", err)
}

func TestUserRepo_LegacyPasswordColumn(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE usuario (
		id_usuario INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		contrasena VARCHAR(255) NOT NULL
	)`).Error)

	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Nombre: "Demo", Email: "demo@example.com", PasswordHash: "legacy-hash"}))

	var stored string
	require.NoError(t, db.Raw("SELECT contrasena FROM usuario WHERE email = ?", "demo@example.com").Scan(&stored).Error)
	assert.Equal(t, "legacy-hash", stored)

	got, err := repo.GetByEmail(ctx, "demo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "legacy-hash", got.PasswordHash)
}

func TestPasswordColumn_FallbackAndMemoized(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE usuario (id_usuario INTEGER PRIMARY KEY, email TEXT)`).Error)
	ctx := context.Background()

	col := newPasswordColumn(db)
	name, err := col.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPasswordColumn, name)

	// 表结构变化后仍返回首次解析结果
	require.NoError(t, db.Exec(`ALTER TABLE usuario ADD COLUMN "contraseña" TEXT`).Error)
	name, err = col.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPasswordColumn, name)

	name, err = newPasswordColumn(db).Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "contraseña", name)
}

func TestPasswordColumn_FailedLookupNotCached(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE usuario (
		id_usuario INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		contrasena VARCHAR(255) NOT NULL
	)`).Error)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	col := newPasswordColumn(db)
	_, err := col.Resolve(cancelled)
	require.Error(t, err)

	name, err := col.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "contrasena", name)

	// 仓储层同样传播错误，之后的请求仍写入正确的列
	repo := NewUserRepo(db)
	err = repo.Create(cancelled, &model.User{Nombre: "Demo", Email: "demo@example.com", PasswordHash: "h"})
	require.Error(t, err)

	require.NoError(t, repo.Create(context.Background(), &model.User{Nombre: "Demo", Email: "demo@example.com", PasswordHash: "legacy-hash"}))
	got, err := repo.GetByEmail(context.Background(), "demo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "legacy-hash", got.PasswordHash)
}

// ── Student / Course ──

func TestStudentRepo_CRUD(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewStudentRepo(db)
	ctx := context.Background()

	for _, s := range []*model.Student{
		{Nombre: "Lucía", Apellido: "Rodríguez", DNI: "34567890"},
		{Nombre: "Ana", Apellido: "Pérez", DNI: "12345678"},
		{Nombre: "Carlos", Apellido: "Gómez", DNI: "23456789"},
	} {
		require.NoError(t, repo.Create(ctx, s))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Gómez", list[0].Apellido)
	assert.Equal(t, "Rodríguez", list[2].Apellido)

	err = repo.Create(ctx, &model.Student{Nombre: "X", Apellido: "Y", DNI: "12345678"})
	assert.True(t, apperrors.IsDuplicateKey(err), "got %v", err)

	ana, err := repo.GetByDNI(ctx, "12345678")
	require.NoError(t, err)

	ana.Nombre = "Ana María"
	require.NoError(t, repo.Update(ctx, ana))
	got, err := repo.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.Nombre)

	// 内容未变化的更新仍视为命中
	require.NoError(t, repo.Update(ctx, got))

	assert.ErrorIs(t, repo.Update(ctx, &model.Student{ID: 999, Nombre: "a", Apellido: "b", DNI: "c"}), gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, ana.ID))
	assert.ErrorIs(t, repo.Delete(ctx, ana.ID), gorm.ErrRecordNotFound)
	_, err = repo.GetByID(ctx, ana.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStudentRepo_FirstOrCreate(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewStudentRepo(db)
	ctx := context.Background()

	a := &model.Student{Nombre: "Ana", Apellido: "Pérez", DNI: "12345678"}
	require.NoError(t, repo.FirstOrCreate(ctx, a))
	b := &model.Student{Nombre: "Otra", Apellido: "Persona", DNI: "12345678"}
	require.NoError(t, repo.FirstOrCreate(ctx, b))

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Ana", b.Nombre)
}

func TestCourseRepo_CRUD(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewCourseRepo(db)
	ctx := context.Background()

	prog := &model.Course{Nombre: "Programación", Codigo: "PROG1", Anio: 1}
	require.NoError(t, repo.Create(ctx, prog))
	require.NoError(t, repo.Create(ctx, &model.Course{Nombre: "Historia", Codigo: "HIS1", Anio: 1}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Historia", list[0].Nombre)

	err = repo.Create(ctx, &model.Course{Nombre: "Otra", Codigo: "HIS1", Anio: 2})
	assert.True(t, apperrors.IsDuplicateKey(err), "got %v", err)

	prog.Anio = 2
	require.NoError(t, repo.Update(ctx, prog))
	got, err := repo.GetByID(ctx, prog.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Anio)

	same := &model.Course{Nombre: "Ignorado", Codigo: "PROG1", Anio: 9}
	require.NoError(t, repo.FirstOrCreate(ctx, same))
	assert.Equal(t, prog.ID, same.ID)

	require.NoError(t, repo.Delete(ctx, prog.ID))
	assert.ErrorIs(t, repo.Delete(ctx, prog.ID), gorm.ErrRecordNotFound)
}

// ── Grade ──

func seedGradeFixtures(t *testing.T, db *gorm.DB) (*model.Student, *model.Student, *model.Course, *model.Course) {
	t.Helper()
	ctx := context.Background()
	ana := &model.Student{Nombre: "Ana", Apellido: "Pérez", DNI: "12345678"}
	carlos := &model.Student{Nombre: "Carlos", Apellido: "Gómez", DNI: "23456789"}
	mat := &model.Course{Nombre: "Matemática I", Codigo: "MAT1", Anio: 1}
	his := &model.Course{Nombre: "Historia", Codigo: "HIS1", Anio: 1}
	require.NoError(t, NewStudentRepo(db).Create(ctx, ana))
	require.NoError(t, NewStudentRepo(db).Create(ctx, carlos))
	require.NoError(t, NewCourseRepo(db).Create(ctx, mat))
	require.NoError(t, NewCourseRepo(db).Create(ctx, his))
	return ana, carlos, mat, his
}

func TestGradeRepo_CreateGetUpdateDelete(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewGradeRepo(db)
	ctx := context.Background()
	ana, _, mat, _ := seedGradeFixtures(t, db)

	g := &model.Grade{StudentID: ana.ID, CourseID: mat.ID, Nota1: f(8), Nota2: f(7), Nota3: f(9)}
	require.NoError(t, repo.Create(ctx, g))
	assert.NotZero(t, g.ID)

	err := repo.Create(ctx, &model.Grade{StudentID: ana.ID, CourseID: mat.ID})
	assert.True(t, apperrors.IsDuplicateKey(err), "got %v", err)

	got, err := repo.Get(ctx, ana.ID, mat.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Average())
	assert.InDelta(t, 8.0, *got.Average(), 1e-9)

	require.NoError(t, repo.Update(ctx, &model.Grade{StudentID: ana.ID, CourseID: mat.ID, Nota1: f(10)}))
	got, err = repo.Get(ctx, ana.ID, mat.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, *got.Nota1, 1e-9)
	assert.Nil(t, got.Nota2)
	assert.Nil(t, got.Nota3)

	assert.ErrorIs(t, repo.Update(ctx, &model.Grade{StudentID: ana.ID, CourseID: 999}), gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, ana.ID, mat.ID))
	assert.ErrorIs(t, repo.Delete(ctx, ana.ID, mat.ID), gorm.ErrRecordNotFound)
}

func TestGradeRepo_Upsert(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewGradeRepo(db)
	ctx := context.Background()
	ana, _, mat, _ := seedGradeFixtures(t, db)

	require.NoError(t, repo.Upsert(ctx, &model.Grade{StudentID: ana.ID, CourseID: mat.ID, Nota1: f(5), Nota2: f(6), Nota3: f(7)}))
	require.NoError(t, repo.Upsert(ctx, &model.Grade{StudentID: ana.ID, CourseID: mat.ID, Nota1: f(9), Nota2: f(9)}))

	var count int64
	require.NoError(t, db.Model(&model.Grade{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	got, err := repo.Get(ctx, ana.ID, mat.ID)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, *got.Nota1, 1e-9)
	assert.Nil(t, got.Nota3)
}

func TestGradeRepo_CreateIfAbsent(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewGradeRepo(db)
	ctx := context.Background()
	ana, _, mat, _ := seedGradeFixtures(t, db)

	created, err := repo.CreateIfAbsent(ctx, &model.Grade{StudentID: ana.ID, CourseID: mat.ID, Nota1: f(8)})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, &model.Grade{StudentID: ana.ID, CourseID: mat.ID, Nota1: f(1)})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.Get(ctx, ana.ID, mat.ID)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, *got.Nota1, 1e-9)
}

func TestGradeRepo_Lists(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewGradeRepo(db)
	ctx := context.Background()
	ana, carlos, mat, his := seedGradeFixtures(t, db)

	require.NoError(t, repo.Create(ctx, &model.Grade{StudentID: ana.ID, CourseID: mat.ID, Nota1: f(8)}))
	require.NoError(t, repo.Create(ctx, &model.Grade{StudentID: ana.ID, CourseID: his.ID, Nota1: f(9)}))
	require.NoError(t, repo.Create(ctx, &model.Grade{StudentID: carlos.ID, CourseID: mat.ID, Nota1: f(6)}))

	byStudent, err := repo.ListByStudent(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, byStudent, 2)
	assert.Equal(t, "Historia", byStudent[0].Materia)
	assert.Equal(t, "Matemática I", byStudent[1].Materia)
	assert.Equal(t, ana.ID, byStudent[0].StudentID)

	byCourse, err := repo.ListByCourse(ctx, mat.ID)
	require.NoError(t, err)
	require.Len(t, byCourse, 2)
	assert.Equal(t, "Gómez", byCourse[0].Apellido)
	assert.Equal(t, "23456789", byCourse[0].DNI)
	assert.Equal(t, "Pérez", byCourse[1].Apellido)

	empty, err := repo.ListByCourse(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNewRepository(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewRepository(db)

	_, err := repo.Student.GetByID(context.Background(), 1)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
