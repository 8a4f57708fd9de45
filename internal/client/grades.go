package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"gestion-notas/internal/dto"
	"gestion-notas/internal/model"
)

type gradeEnvelope struct {
	Notas model.Grade `json:"notas"`
}

func gradePath(alumnoID, materiaID int64) string {
	return fmt.Sprintf("/notas/%d/%d", alumnoID, materiaID)
}

// GetGrades 查询某学生某课程的成绩行
func (c *Client) GetGrades(ctx context.Context, sess *Session, alumnoID, materiaID int64) (*model.Grade, error) {
	var resp gradeEnvelope
	if err := c.doRequest(ctx, http.MethodGet, gradePath(alumnoID, materiaID), sess, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Notas, nil
}

// CreateGrades 新建成绩行，已存在时返回 409
func (c *Client) CreateGrades(ctx context.Context, sess *Session, alumnoID, materiaID int64, req dto.GradeRequest) (*model.Grade, error) {
	var resp gradeEnvelope
	if err := c.doRequest(ctx, http.MethodPost, gradePath(alumnoID, materiaID), sess, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Notas, nil
}

// UpdateGrades 整体替换已有成绩行，不存在时返回 404
func (c *Client) UpdateGrades(ctx context.Context, sess *Session, alumnoID, materiaID int64, req dto.GradeRequest) (*model.Grade, error) {
	var resp gradeEnvelope
	if err := c.doRequest(ctx, http.MethodPut, gradePath(alumnoID, materiaID), sess, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Notas, nil
}

// UpsertGrades 创建或整体替换成绩行，服务端单条语句完成
func (c *Client) UpsertGrades(ctx context.Context, sess *Session, alumnoID, materiaID int64, req dto.GradeRequest) (*model.Grade, error) {
	var resp gradeEnvelope
	path := fmt.Sprintf("/notas/upsert/%d/%d", alumnoID, materiaID)
	if err := c.doRequest(ctx, http.MethodPut, path, sess, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Notas, nil
}

// DeleteGrades 删除成绩行
func (c *Client) DeleteGrades(ctx context.Context, sess *Session, alumnoID, materiaID int64) error {
	return c.doRequest(ctx, http.MethodDelete, gradePath(alumnoID, materiaID), sess, nil, nil)
}

// Average 平均分；无任何分数时返回 nil
func (c *Client) Average(ctx context.Context, sess *Session, alumnoID, materiaID int64) (*float64, error) {
	var resp struct {
		Promedio *float64 `json:"promedio"`
	}
	path := fmt.Sprintf("/notas/promedio/%d/%d", alumnoID, materiaID)
	if err := c.doRequest(ctx, http.MethodGet, path, sess, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Promedio, nil
}

// ListGradesByStudent 某学生的全部成绩（附课程名）
func (c *Client) ListGradesByStudent(ctx context.Context, sess *Session, alumnoID int64) ([]model.GradeWithCourse, error) {
	var resp struct {
		Notas []model.GradeWithCourse `json:"notas"`
	}
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/notas/alumno/%d", alumnoID), sess, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notas, nil
}

// ListGradesByCourse 某课程的全部成绩（附学生姓名与 DNI）
func (c *Client) ListGradesByCourse(ctx context.Context, sess *Session, materiaID int64) ([]model.GradeWithStudent, error) {
	var resp struct {
		Notas []model.GradeWithStudent `json:"notas"`
	}
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/notas/materia/%d", materiaID), sess, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notas, nil
}

// ── 表格导入导出 ──

// ExportCourseSheet 下载课程成绩表，返回文件内容与服务端建议的文件名
func (c *Client) ExportCourseSheet(ctx context.Context, sess *Session, materiaID int64) ([]byte, string, error) {
	path := fmt.Sprintf("/notas/materia/%d/export", materiaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", fmt.Errorf("crear petición: %w", err)
	}

	data, header, err := c.send(req, sess)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("notas_%d.xlsx", materiaID)
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return data, filename, nil
}

// ImportCourseSheet 上传课程成绩表，逐行 upsert
func (c *Client) ImportCourseSheet(ctx context.Context, sess *Session, materiaID int64, filename string, r io.Reader) (*dto.ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("crear formulario: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("cerrar formulario: %w", err)
	}

	path := fmt.Sprintf("/notas/materia/%d/import", materiaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("crear petición: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	data, _, err := c.send(req, sess)
	if err != nil {
		return nil, err
	}

	var result dto.ImportResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decodificar respuesta: %w", err)
	}
	return &result, nil
}
