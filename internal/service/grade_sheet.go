package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-notas/internal/dto"
	"gestion-notas/internal/model"
)

const (
	gradeSheetName = "Notas"
	maxImportRows  = 1000
)

var gradeSheetHeader = []string{"dni", "apellido", "nombre", "nota1", "nota2", "nota3", "promedio"}

// ────────────────────── ExportCourseSheet ──────────────────────

func (s *gradeService) ExportCourseSheet(ctx context.Context, courseID int64) (*bytes.Buffer, string, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("materia_id", courseID), zap.Error(err))
		return nil, "", err
	}

	rows, err := s.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(gradeSheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range gradeSheetHeader {
		f.SetCellValue(gradeSheetName, sheetCell(i, 1), h)
	}
	f.SetCellStyle(gradeSheetName, sheetCell(0, 1), sheetCell(len(gradeSheetHeader)-1, 1), headerStyle)
	f.SetColWidth(gradeSheetName, "A", "C", 16)

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(gradeSheetName, sheetCell(0, row), r.DNI)
		f.SetCellValue(gradeSheetName, sheetCell(1, row), r.Apellido)
		f.SetCellValue(gradeSheetName, sheetCell(2, row), r.Nombre)
		scores := r.Scores()
		for j, v := range scores {
			if v != nil {
				f.SetCellValue(gradeSheetName, sheetCell(3+j, row), *v)
			}
		}
		if avg := model.Average(scores[:]...); avg != nil {
			f.SetCellValue(gradeSheetName, sheetCell(6, row), *avg)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", err
	}
	return buf, fmt.Sprintf("notas_%s.xlsx", course.Codigo), nil
}

// ────────────────────── ImportCourseSheet ──────────────────────

func (s *gradeService) ImportCourseSheet(ctx context.Context, courseID int64, r io.Reader) (*dto.ImportResult, error) {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("materia_id", courseID), zap.Error(err))
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrInvalidSheet
	}
	defer f.Close()

	sheetRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(sheetRows) == 0 {
		return nil, ErrInvalidSheet
	}

	cols := sheetHeaderIndex(sheetRows[0])
	if cols["dni"] < 0 {
		return nil, ErrInvalidSheet
	}
	if len(sheetRows)-1 > maxImportRows {
		return nil, ErrInvalidSheet
	}

	result := &dto.ImportResult{Errores: []dto.ImportRowError{}}
	for i := 1; i < len(sheetRows); i++ {
		line := i + 1
		row := sheetRows[i]

		dni := strings.TrimSpace(cellAt(row, cols["dni"]))
		if dni == "" {
			if rowBlank(row) {
				continue
			}
			result.Errores = append(result.Errores, dto.ImportRowError{Fila: line, Mensaje: "DNI vacío"})
			continue
		}

		req, msg := parseSheetScores(row, cols)
		if msg != "" {
			result.Errores = append(result.Errores, dto.ImportRowError{Fila: line, Mensaje: msg})
			continue
		}

		student, err := s.repo.Student.GetByDNI(ctx, dni)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Errores = append(result.Errores, dto.ImportRowError{
					Fila: line, Mensaje: fmt.Sprintf("Alumno con DNI %s no encontrado", dni),
				})
				continue
			}
			s.logger.Error("查询学生失败", zap.String("dni", dni), zap.Error(err))
			return nil, err
		}

		if err := s.repo.Grade.Upsert(ctx, gradeFromRequest(student.ID, courseID, req)); err != nil {
			s.logger.Error("导入成绩失败", zap.Int("fila", line), zap.Error(err))
			return nil, err
		}
		result.Importadas++
	}

	s.logger.Info("成绩导入完成",
		zap.Int64("materia_id", courseID),
		zap.Int("importadas", result.Importadas),
		zap.Int("errores", len(result.Errores)))
	return result, nil
}

// ── 辅助函数 ──

func sheetCell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

// sheetHeaderIndex 表头列名 -> 列索引（不区分大小写，缺失为 -1）
func sheetHeaderIndex(header []string) map[string]int {
	idx := map[string]int{"dni": -1, "nota1": -1, "nota2": -1, "nota3": -1}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[key]; ok && idx[key] < 0 {
			idx[key] = i
		}
	}
	return idx
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func rowBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseSheetScores 解析 nota1..3；空单元格为 nil，接受逗号小数
func parseSheetScores(row []string, cols map[string]int) (*dto.GradeRequest, string) {
	var scores [3]*float64
	for i, key := range []string{"nota1", "nota2", "nota3"} {
		raw := strings.TrimSpace(cellAt(row, cols[key]))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil {
			return nil, fmt.Sprintf("%s inválida: %q", key, raw)
		}
		if !validScore(v) {
			return nil, fmt.Sprintf("%s fuera de rango: %s", key, raw)
		}
		scores[i] = &v
	}
	return &dto.GradeRequest{Nota1: scores[0], Nota2: scores[1], Nota3: scores[2]}, ""
}
