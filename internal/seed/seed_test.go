package seed

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gestion-notas/internal/model"
	"gestion-notas/internal/repository"
)

func newTestSeeder(t *testing.T) (*Seeder, *gorm.DB, *observer.ObservedLogs) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Student{}, &model.Course{}, &model.Grade{}))

	core, logs := observer.New(zapcore.InfoLevel)
	return New(db, repository.NewRepository(db), bcrypt.MinCost, zap.New(core)), db, logs
}

func count(t *testing.T, db *gorm.DB, m interface{}) int64 {
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestSeeder_Run(t *testing.T) {
	s, db, logs := newTestSeeder(t)
	ctx := context.Background()

	res, err := s.Run(ctx)
	require.NoError(t, err)

	assert.True(t, res.UserCreated)
	assert.NotZero(t, res.UserID)
	assert.Equal(t, 3, res.Students)
	assert.Equal(t, 3, res.Courses)
	assert.Equal(t, 3, res.GradesCreated)

	assert.Equal(t, int64(1), count(t, db, &model.User{}))
	assert.Equal(t, int64(3), count(t, db, &model.Student{}))
	assert.Equal(t, int64(3), count(t, db, &model.Course{}))
	assert.Equal(t, int64(3), count(t, db, &model.Grade{}))

	// 演示用户可用明文密码校验
	user, err := s.repo.User.GetByEmail(ctx, DemoUser.Email)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DemoUser.Password)))

	// Ana / MAT1 的平均分为 8
	ana, err := s.repo.Student.GetByDNI(ctx, "12345678")
	require.NoError(t, err)
	grades, err := s.repo.Grade.ListByStudent(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, "Matemática I", grades[0].Materia)
	assert.InDelta(t, 8.0, *grades[0].Average(), 1e-9)

	cols := logs.FilterMessage("usuario 表列").All()
	require.Len(t, cols, 1)
	assert.Contains(t, cols[0].ContextMap()["columns"], "password_hash")
}

func TestSeeder_Idempotent(t *testing.T) {
	s, db, _ := newTestSeeder(t)
	ctx := context.Background()

	first, err := s.Run(ctx)
	require.NoError(t, err)

	// 已有成绩被修改后，再次填充不覆盖
	ana, err := s.repo.Student.GetByDNI(ctx, "12345678")
	require.NoError(t, err)
	grades, err := s.repo.Grade.ListByStudent(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	ten := 10.0
	changed := grades[0].Grade
	changed.Nota1 = &ten
	require.NoError(t, s.repo.Grade.Update(ctx, &changed))

	second, err := s.Run(ctx)
	require.NoError(t, err)

	assert.False(t, second.UserCreated)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, 0, second.GradesCreated)

	assert.Equal(t, int64(1), count(t, db, &model.User{}))
	assert.Equal(t, int64(3), count(t, db, &model.Student{}))
	assert.Equal(t, int64(3), count(t, db, &model.Course{}))
	assert.Equal(t, int64(3), count(t, db, &model.Grade{}))

	g, err := s.repo.Grade.Get(ctx, ana.ID, grades[0].CourseID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, *g.Nota1)
}

func TestSeeder_KeepsExistingStudent(t *testing.T) {
	s, _, _ := newTestSeeder(t)
	ctx := context.Background()

	pre := &model.Student{Nombre: "Ana María", Apellido: "Pérez", DNI: "12345678"}
	require.NoError(t, s.repo.Student.Create(ctx, pre))

	_, err := s.Run(ctx)
	require.NoError(t, err)

	got, err := s.repo.Student.GetByDNI(ctx, "12345678")
	require.NoError(t, err)
	assert.Equal(t, pre.ID, got.ID)
	assert.Equal(t, "Ana María", got.Nombre)
}
