package service

import (
	apperrors "gestion-notas/pkg/errors"
)

// ── 业务错误 ──
// 每个错误包装一个分类（pkg/errors），Handler 据分类映射状态码

var (
	ErrInvalidCredentials = apperrors.New(apperrors.ErrValidation, "Credenciales inválidas")
	ErrEmailExists        = apperrors.New(apperrors.ErrConflict, "Email ya registrado")
	ErrUserGone           = apperrors.New(apperrors.ErrUnauthenticated, "Usuario no encontrado")

	ErrStudentNotFound = apperrors.New(apperrors.ErrNotFound, "Alumno no encontrado")
	ErrDNIExists       = apperrors.New(apperrors.ErrConflict, "DNI ya registrado")

	ErrCourseNotFound = apperrors.New(apperrors.ErrNotFound, "Materia no encontrada")
	ErrCodeExists     = apperrors.New(apperrors.ErrConflict, "Código ya registrado")

	ErrGradeNotFound   = apperrors.New(apperrors.ErrNotFound, "Notas no encontradas")
	ErrGradeExists     = apperrors.New(apperrors.ErrConflict, "Notas ya existen para alumno/materia")
	ErrGradeRefMissing = apperrors.New(apperrors.ErrNotFound, "Alumno o materia no encontrado")
	ErrScoreOutOfRange = apperrors.New(apperrors.ErrValidation, "Las notas deben estar entre 0 y 10")

	ErrInvalidSheet = apperrors.New(apperrors.ErrValidation, "Planilla inválida: se requiere una columna dni")
)
