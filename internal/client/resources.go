package client

import (
	"context"
	"fmt"
	"net/http"

	"gestion-notas/internal/dto"
	"gestion-notas/internal/model"
)

// ── 学生 ──

type studentEnvelope struct {
	Alumno model.Student `json:"alumno"`
}

// ListStudents 学生列表
func (c *Client) ListStudents(ctx context.Context, sess *Session) ([]model.Student, error) {
	var resp struct {
		Alumnos []model.Student `json:"alumnos"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/alumnos", sess, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Alumnos, nil
}

// GetStudent 按 ID 查询学生
func (c *Client) GetStudent(ctx context.Context, sess *Session, id int64) (*model.Student, error) {
	var resp studentEnvelope
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/alumnos/%d", id), sess, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Alumno, nil
}

// CreateStudent 创建学生
func (c *Client) CreateStudent(ctx context.Context, sess *Session, req dto.StudentRequest) (*model.Student, error) {
	var resp studentEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/alumnos", sess, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Alumno, nil
}

// UpdateStudent 整体替换学生信息
func (c *Client) UpdateStudent(ctx context.Context, sess *Session, id int64, req dto.StudentRequest) (*model.Student, error) {
	var resp studentEnvelope
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/alumnos/%d", id), sess, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Alumno, nil
}

// DeleteStudent 删除学生
func (c *Client) DeleteStudent(ctx context.Context, sess *Session, id int64) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/alumnos/%d", id), sess, nil, nil)
}

// ── 课程 ──

type courseEnvelope struct {
	Materia model.Course `json:"materia"`
}

// ListCourses 课程列表
func (c *Client) ListCourses(ctx context.Context, sess *Session) ([]model.Course, error) {
	var resp struct {
		Materias []model.Course `json:"materias"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/materias", sess, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Materias, nil
}

// GetCourse 按 ID 查询课程
func (c *Client) GetCourse(ctx context.Context, sess *Session, id int64) (*model.Course, error) {
	var resp courseEnvelope
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/materias/%d", id), sess, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Materia, nil
}

// CreateCourse 创建课程
func (c *Client) CreateCourse(ctx context.Context, sess *Session, req dto.CourseRequest) (*model.Course, error) {
	var resp courseEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/materias", sess, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Materia, nil
}

// UpdateCourse 整体替换课程信息
func (c *Client) UpdateCourse(ctx context.Context, sess *Session, id int64, req dto.CourseRequest) (*model.Course, error) {
	var resp courseEnvelope
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/materias/%d", id), sess, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Materia, nil
}

// DeleteCourse 删除课程
func (c *Client) DeleteCourse(ctx context.Context, sess *Session, id int64) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/materias/%d", id), sess, nil, nil)
}
