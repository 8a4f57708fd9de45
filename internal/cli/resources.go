package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gestion-notas/internal/client"
	"gestion-notas/internal/dto"
	"gestion-notas/internal/model"
)

// ── alumnos ──

func newStudentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alumnos",
		Aliases: []string{"alumno"},
		Short:   "Gestionar alumnos",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Listar alumnos",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				var list []model.Student
				err := app.authed(cmd.Context(), func(s *client.Session) (err error) {
					list, err = app.api.ListStudents(cmd.Context(), s)
					return err
				})
				if err != nil {
					return err
				}
				return app.renderStudents(cmd, list, list...)
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Ver un alumno",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				alumnoID, err := parseID(args[0], "ID de alumno")
				if err != nil {
					return err
				}
				var st *model.Student
				err = app.authed(cmd.Context(), func(s *client.Session) (err error) {
					st, err = app.api.GetStudent(cmd.Context(), s, alumnoID)
					return err
				})
				if err != nil {
					return err
				}
				return app.renderStudents(cmd, st, *st)
			},
		},
		newStudentWriteCmd(app, "create", "Crear un alumno"),
		newStudentWriteCmd(app, "update", "Reemplazar los datos de un alumno"),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Eliminar un alumno y sus notas",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				alumnoID, err := parseID(args[0], "ID de alumno")
				if err != nil {
					return err
				}
				err = app.authed(cmd.Context(), func(s *client.Session) error {
					return app.api.DeleteStudent(cmd.Context(), s, alumnoID)
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Alumno %d eliminado\n", alumnoID)
				return nil
			},
		},
	)

	return cmd
}

// newStudentWriteCmd create 与 update 共用同一组参数
func newStudentWriteCmd(app *App, verb, short string) *cobra.Command {
	var req dto.StudentRequest

	use := verb
	argRule := cobra.NoArgs
	if verb == "update" {
		use = "update ID"
		argRule = cobra.ExactArgs(1)
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  argRule,
		RunE: func(cmd *cobra.Command, args []string) error {
			var st *model.Student
			err := app.authed(cmd.Context(), func(s *client.Session) error {
				if len(args) == 0 {
					var err error
					st, err = app.api.CreateStudent(cmd.Context(), s, req)
					return err
				}
				alumnoID, err := parseID(args[0], "ID de alumno")
				if err != nil {
					return err
				}
				st, err = app.api.UpdateStudent(cmd.Context(), s, alumnoID, req)
				return err
			})
			if err != nil {
				return err
			}
			return app.renderStudents(cmd, st, *st)
		},
	}

	cmd.Flags().StringVar(&req.Nombre, "nombre", "", "nombre")
	cmd.Flags().StringVar(&req.Apellido, "apellido", "", "apellido")
	cmd.Flags().StringVar(&req.DNI, "dni", "", "DNI")
	_ = cmd.MarkFlagRequired("nombre")
	_ = cmd.MarkFlagRequired("apellido")
	_ = cmd.MarkFlagRequired("dni")

	return cmd
}

func (a *App) renderStudents(cmd *cobra.Command, v any, list ...model.Student) error {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{itoa(s.ID), s.Apellido, s.Nombre, s.DNI})
	}
	return a.render(cmd, v, []string{"ID", "APELLIDO", "NOMBRE", "DNI"}, rows)
}

// ── materias ──

func newCoursesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "materias",
		Aliases: []string{"materia"},
		Short:   "Gestionar materias",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Listar materias",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				var list []model.Course
				err := app.authed(cmd.Context(), func(s *client.Session) (err error) {
					list, err = app.api.ListCourses(cmd.Context(), s)
					return err
				})
				if err != nil {
					return err
				}
				return app.renderCourses(cmd, list, list...)
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Ver una materia",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				materiaID, err := parseID(args[0], "ID de materia")
				if err != nil {
					return err
				}
				var c *model.Course
				err = app.authed(cmd.Context(), func(s *client.Session) (err error) {
					c, err = app.api.GetCourse(cmd.Context(), s, materiaID)
					return err
				})
				if err != nil {
					return err
				}
				return app.renderCourses(cmd, c, *c)
			},
		},
		newCourseWriteCmd(app, "create", "Crear una materia"),
		newCourseWriteCmd(app, "update", "Reemplazar los datos de una materia"),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Eliminar una materia y sus notas",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				materiaID, err := parseID(args[0], "ID de materia")
				if err != nil {
					return err
				}
				err = app.authed(cmd.Context(), func(s *client.Session) error {
					return app.api.DeleteCourse(cmd.Context(), s, materiaID)
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Materia %d eliminada\n", materiaID)
				return nil
			},
		},
	)

	return cmd
}

func newCourseWriteCmd(app *App, verb, short string) *cobra.Command {
	var req dto.CourseRequest

	use := verb
	argRule := cobra.NoArgs
	if verb == "update" {
		use = "update ID"
		argRule = cobra.ExactArgs(1)
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  argRule,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c *model.Course
			err := app.authed(cmd.Context(), func(s *client.Session) error {
				if len(args) == 0 {
					var err error
					c, err = app.api.CreateCourse(cmd.Context(), s, req)
					return err
				}
				materiaID, err := parseID(args[0], "ID de materia")
				if err != nil {
					return err
				}
				c, err = app.api.UpdateCourse(cmd.Context(), s, materiaID, req)
				return err
			})
			if err != nil {
				return err
			}
			return app.renderCourses(cmd, c, *c)
		},
	}

	cmd.Flags().StringVar(&req.Nombre, "nombre", "", "nombre")
	cmd.Flags().StringVar(&req.Codigo, "codigo", "", "código")
	cmd.Flags().IntVar(&req.Anio, "anio", 0, "año")
	_ = cmd.MarkFlagRequired("nombre")
	_ = cmd.MarkFlagRequired("codigo")
	_ = cmd.MarkFlagRequired("anio")

	return cmd
}

func (a *App) renderCourses(cmd *cobra.Command, v any, list ...model.Course) error {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{itoa(c.ID), c.Codigo, c.Nombre, strconv.Itoa(c.Anio)})
	}
	return a.render(cmd, v, []string{"ID", "CODIGO", "NOMBRE", "AÑO"}, rows)
}
