package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gestion-notas/internal/client"
	"gestion-notas/internal/dto"
	"gestion-notas/internal/model"
)

// 写入模式
const (
	modeUpsert = "upsert"
	modeCreate = "create"
	modeUpdate = "update"
)

func newGradesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notas",
		Aliases: []string{"nota"},
		Short:   "Gestionar notas",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get ALUMNO_ID MATERIA_ID",
			Short: "Ver las notas de un alumno en una materia",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				alumnoID, materiaID, err := parsePair(args)
				if err != nil {
					return err
				}
				var g *model.Grade
				err = app.authed(cmd.Context(), func(s *client.Session) (err error) {
					g, err = app.api.GetGrades(cmd.Context(), s, alumnoID, materiaID)
					return err
				})
				if err != nil {
					return err
				}
				return app.renderGrade(cmd, g)
			},
		},
		newGradeSetCmd(app),
		&cobra.Command{
			Use:   "delete ALUMNO_ID MATERIA_ID",
			Short: "Eliminar las notas de un alumno en una materia",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				alumnoID, materiaID, err := parsePair(args)
				if err != nil {
					return err
				}
				err = app.authed(cmd.Context(), func(s *client.Session) error {
					return app.api.DeleteGrades(cmd.Context(), s, alumnoID, materiaID)
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Notas %d/%d eliminadas\n", alumnoID, materiaID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "promedio ALUMNO_ID MATERIA_ID",
			Short: "Promedio de las notas cargadas",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				alumnoID, materiaID, err := parsePair(args)
				if err != nil {
					return err
				}
				var avg *float64
				err = app.authed(cmd.Context(), func(s *client.Session) (err error) {
					avg, err = app.api.Average(cmd.Context(), s, alumnoID, materiaID)
					return err
				})
				if err != nil {
					return err
				}
				if app.JSON {
					return printJSON(cmd.OutOrStdout(), map[string]any{"promedio": avg})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Promedio: %s\n", score(avg))
				return nil
			},
		},
		&cobra.Command{
			Use:   "alumno ALUMNO_ID",
			Short: "Notas de un alumno en todas sus materias",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				alumnoID, err := parseID(args[0], "ID de alumno")
				if err != nil {
					return err
				}
				var list []model.GradeWithCourse
				err = app.authed(cmd.Context(), func(s *client.Session) (err error) {
					list, err = app.api.ListGradesByStudent(cmd.Context(), s, alumnoID)
					return err
				})
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(list))
				for _, g := range list {
					rows = append(rows, []string{itoa(g.CourseID), g.Materia, score(g.Nota1), score(g.Nota2), score(g.Nota3), score(g.Average())})
				}
				return app.render(cmd, list, []string{"MATERIA_ID", "MATERIA", "NOTA1", "NOTA2", "NOTA3", "PROMEDIO"}, rows)
			},
		},
		&cobra.Command{
			Use:   "materia MATERIA_ID",
			Short: "Notas de todos los alumnos de una materia",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				materiaID, err := parseID(args[0], "ID de materia")
				if err != nil {
					return err
				}
				var list []model.GradeWithStudent
				err = app.authed(cmd.Context(), func(s *client.Session) (err error) {
					list, err = app.api.ListGradesByCourse(cmd.Context(), s, materiaID)
					return err
				})
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(list))
				for _, g := range list {
					rows = append(rows, []string{itoa(g.StudentID), g.Apellido + ", " + g.Nombre, g.DNI, score(g.Nota1), score(g.Nota2), score(g.Nota3), score(g.Average())})
				}
				return app.render(cmd, list, []string{"ALUMNO_ID", "ALUMNO", "DNI", "NOTA1", "NOTA2", "NOTA3", "PROMEDIO"}, rows)
			},
		},
		newGradeExportCmd(app),
		newGradeImportCmd(app),
	)

	return cmd
}

// newGradeSetCmd 写入三项分数；未指定的分数写为空
func newGradeSetCmd(app *App) *cobra.Command {
	var (
		n1, n2, n3 float64
		mode       string
	)

	cmd := &cobra.Command{
		Use:   "set ALUMNO_ID MATERIA_ID",
		Short: "Cargar o reemplazar las notas de un alumno en una materia",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			alumnoID, materiaID, err := parsePair(args)
			if err != nil {
				return err
			}

			var req dto.GradeRequest
			if cmd.Flags().Changed("nota1") {
				req.Nota1 = &n1
			}
			if cmd.Flags().Changed("nota2") {
				req.Nota2 = &n2
			}
			if cmd.Flags().Changed("nota3") {
				req.Nota3 = &n3
			}

			var g *model.Grade
			err = app.authed(cmd.Context(), func(s *client.Session) (err error) {
				switch mode {
				case modeUpsert:
					g, err = app.api.UpsertGrades(cmd.Context(), s, alumnoID, materiaID, req)
				case modeCreate:
					g, err = app.api.CreateGrades(cmd.Context(), s, alumnoID, materiaID, req)
				case modeUpdate:
					g, err = app.api.UpdateGrades(cmd.Context(), s, alumnoID, materiaID, req)
				default:
					err = fmt.Errorf("modo inválido %q (upsert, create, update)", mode)
				}
				return err
			})
			if err != nil {
				return err
			}
			return app.renderGrade(cmd, g)
		},
	}

	cmd.Flags().Float64Var(&n1, "nota1", 0, "nota 1 (0-10)")
	cmd.Flags().Float64Var(&n2, "nota2", 0, "nota 2 (0-10)")
	cmd.Flags().Float64Var(&n3, "nota3", 0, "nota 3 (0-10)")
	cmd.Flags().StringVar(&mode, "modo", modeUpsert, "upsert | create | update")

	return cmd
}

func newGradeExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export MATERIA_ID",
		Short: "Descargar la planilla de notas de una materia",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			materiaID, err := parseID(args[0], "ID de materia")
			if err != nil {
				return err
			}
			var (
				data     []byte
				filename string
			)
			err = app.authed(cmd.Context(), func(s *client.Session) (err error) {
				data, filename, err = app.api.ExportCourseSheet(cmd.Context(), s, materiaID)
				return err
			})
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Base(filename)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planilla guardada en %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "archivo de salida (por defecto el nombre sugerido por el servidor)")
	return cmd
}

func newGradeImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import MATERIA_ID ARCHIVO",
		Short: "Importar una planilla de notas (.xlsx) a una materia",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			materiaID, err := parseID(args[0], "ID de materia")
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			var res *dto.ImportResult
			err = app.authed(cmd.Context(), func(s *client.Session) (err error) {
				res, err = app.api.ImportCourseSheet(cmd.Context(), s, materiaID, filepath.Base(f.Name()), f)
				return err
			})
			if err != nil {
				return err
			}
			if app.JSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Filas importadas: %d\n", res.Importadas)
			for _, e := range res.Errores {
				fmt.Fprintf(cmd.OutOrStdout(), "  fila %d: %s\n", e.Fila, e.Mensaje)
			}
			return nil
		},
	}
}

func (a *App) renderGrade(cmd *cobra.Command, g *model.Grade) error {
	rows := [][]string{{itoa(g.StudentID), itoa(g.CourseID), score(g.Nota1), score(g.Nota2), score(g.Nota3), score(g.Average())}}
	return a.render(cmd, g, []string{"ALUMNO_ID", "MATERIA_ID", "NOTA1", "NOTA2", "NOTA3", "PROMEDIO"}, rows)
}

func parsePair(args []string) (int64, int64, error) {
	alumnoID, err := parseID(args[0], "ID de alumno")
	if err != nil {
		return 0, 0, err
	}
	materiaID, err := parseID(args[1], "ID de materia")
	if err != nil {
		return 0, 0, err
	}
	return alumnoID, materiaID, nil
}
