package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gestion-notas/config"
	"gestion-notas/internal/api/handler"
	"gestion-notas/internal/model"
	"gestion-notas/internal/repository"
	"gestion-notas/internal/service"
	"gestion-notas/pkg/jwt"
)

type testServer struct {
	t      *testing.T
	engine http.Handler
	jwtMgr *jwt.Manager
	token  string
}

func newTestServer(t *testing.T) *testServer {
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

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 3000, BodyLimit: 1 << 20},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret-key-for-unit-testing",
			TokenTTL:   4 * time.Hour,
			Issuer:     "test",
			BcryptCost: 4,
		},
		RateLimit: config.RateLimitConfig{AuthLimit: 20, AuthWindow: time.Minute},
	}
	log := zap.NewNop()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, db, repository.NewRepository(db), jwtMgr, log)

	return &testServer{
		t:      t,
		engine: Setup(cfg, handler.NewHandler(svc), jwtMgr, nil, log),
		jwtMgr: jwtMgr,
	}
}

func (s *testServer) do(method, path string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func (s *testServer) login() {
	s.t.Helper()
	code, _ := s.do("POST", "/auth/register", map[string]string{
		"nombre": "Demo", "email": "demo@example.com", "password": "hola1234",
	})
	require.Equal(s.t, http.StatusCreated, code)

	code, body := s.do("POST", "/auth/login", map[string]string{
		"email": "demo@example.com", "password": "hola1234",
	})
	require.Equal(s.t, http.StatusOK, code)
	s.token = body["token"].(string)
}

func TestEndToEnd_GradeAverageFlow(t *testing.T) {
	s := newTestServer(t)
	s.login()

	code, _ := s.do("POST", "/alumnos", map[string]string{"nombre": "Ana", "apellido": "Pérez", "dni": "12345678"})
	require.Equal(t, http.StatusCreated, code)
	code, _ = s.do("POST", "/materias", map[string]interface{}{"nombre": "Matemática I", "codigo": "MAT1", "anio": 1})
	require.Equal(t, http.StatusCreated, code)

	code, body := s.do("POST", "/notas/1/1", map[string]float64{"nota1": 8, "nota2": 7, "nota3": 9})
	require.Equal(t, http.StatusCreated, code, body)

	code, body = s.do("GET", "/notas/promedio/1/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.InDelta(t, 8.0, body["promedio"], 1e-9)

	code, _ = s.do("POST", "/notas/1/1", map[string]float64{"nota1": 1})
	assert.Equal(t, http.StatusConflict, code)

	code, body = s.do("GET", "/notas/alumno/1", nil)
	require.Equal(t, http.StatusOK, code)
	notas := body["notas"].([]interface{})
	require.Len(t, notas, 1)
	assert.Equal(t, "Matemática I", notas[0].(map[string]interface{})["materia"])
}

func TestEndToEnd_UpsertReplacesAllScores(t *testing.T) {
	s := newTestServer(t)
	s.login()
	s.do("POST", "/alumnos", map[string]string{"nombre": "Ana", "apellido": "Pérez", "dni": "1"})
	s.do("POST", "/materias", map[string]interface{}{"nombre": "Historia", "codigo": "HIS1", "anio": 1})

	code, _ := s.do("PUT", "/notas/upsert/1/1", map[string]float64{"nota1": 5, "nota2": 6, "nota3": 7})
	require.Equal(t, http.StatusOK, code)
	code, body := s.do("PUT", "/notas/upsert/1/1", map[string]float64{"nota1": 9, "nota2": 9})
	require.Equal(t, http.StatusOK, code)

	notas := body["notas"].(map[string]interface{})
	assert.InDelta(t, 9.0, notas["nota1"], 1e-9)
	assert.Nil(t, notas["nota3"])

	code, _ = s.do("PUT", "/notas/upsert/1/99", map[string]float64{"nota1": 1})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEndToEnd_ResourceErrors(t *testing.T) {
	s := newTestServer(t)
	s.login()

	code, _ := s.do("POST", "/alumnos", map[string]string{"nombre": "Ana", "apellido": "Pérez", "dni": "1"})
	require.Equal(t, http.StatusCreated, code)

	code, body := s.do("POST", "/alumnos", map[string]string{"nombre": "Otra", "apellido": "Persona", "dni": "1"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "DNI ya registrado", body["message"])

	code, _ = s.do("DELETE", "/alumnos/1", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do("DELETE", "/alumnos/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do("DELETE", "/materias/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do("DELETE", "/notas/1/1", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do("GET", "/alumnos/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestEndToEnd_AuthContract(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do("GET", "/alumnos", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])

	s.login()

	code, body = s.do("POST", "/auth/register", map[string]string{
		"nombre": "Demo", "email": "DEMO@example.com", "password": "hola1234",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Email ya registrado", body["message"])

	_, wrongPw := s.do("POST", "/auth/login", map[string]string{"email": "demo@example.com", "password": "mala1234"})
	_, unknown := s.do("POST", "/auth/login", map[string]string{"email": "x@example.com", "password": "hola1234"})
	assert.Equal(t, wrongPw, unknown)

	code, body = s.do("GET", "/auth/me", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "demo@example.com", body["user"].(map[string]interface{})["email"])

	code, body = s.do("GET", "/alumnos", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.NotNil(t, body["alumnos"])
}

func TestEndToEnd_ExpiredToken(t *testing.T) {
	s := newTestServer(t)
	s.login()

	expired := jwt.NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing",
		TokenTTL:  -time.Minute,
		Issuer:    "test",
	})
	token, _, err := expired.GenerateToken(1)
	require.NoError(t, err)
	s.token = token

	code, _ := s.do("GET", "/alumnos", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestEndToEnd_Operational(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do("GET", "/", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "exitosa", body["conexion"])
	assert.EqualValues(t, 2, body["resultado"])

	code, body = s.do("GET", "/nada/por/aqui", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not found", body["message"])

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "gestion_notas_http_requests_total"))
}
