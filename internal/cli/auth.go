package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gestion-notas/internal/client"
	"gestion-notas/internal/client/sessionstore"
	"gestion-notas/internal/dto"
)

func newRegisterCmd(app *App) *cobra.Command {
	var req dto.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Registrar un usuario nuevo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				pw, err := app.readPassword(cmd, "Contraseña: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}

			user, err := app.api.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			if app.JSON {
				return printJSON(cmd.OutOrStdout(), user)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Usuario registrado: %s <%s> (id %d)\n", user.Nombre, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Nombre, "nombre", "", "nombre del usuario")
	cmd.Flags().StringVar(&req.Email, "email", "", "email")
	cmd.Flags().StringVar(&req.Password, "password", "", "contraseña (se pide por consola si se omite)")
	_ = cmd.MarkFlagRequired("nombre")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var req dto.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión y guardar el token localmente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				pw, err := app.readPassword(cmd, "Contraseña: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}

			sess, err := app.api.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := app.store.Save(cmd.Context(), app.Server, sess); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sesión iniciada como %s, válida hasta %s\n",
				sess.User.Email, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email")
	cmd.Flags().StringVar(&req.Password, "password", "", "contraseña (se pide por consola si se omite)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar la sesión local",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 令牌无状态，登出只需删除本地会话
			if err := app.store.Delete(cmd.Context(), app.Server); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Mostrar el estado de la sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := app.store.Load(ctx, app.Server)
			if errors.Is(err, sessionstore.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "Servidor: %s\nSin sesión\n", app.Server)
				return nil
			}
			if err != nil {
				return err
			}

			var user *dto.UserResponse
			err = app.authed(ctx, func(s *client.Session) error {
				var err error
				user, err = app.api.Me(ctx, s)
				return err
			})
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Servidor: %s\nSin sesión (%v)\n", app.Server, err)
				return nil
			}

			if app.JSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"server":     app.Server,
					"user":       user,
					"expires_at": sess.ExpiresAt,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Servidor: %s\nUsuario: %s <%s>\nExpira en: %s\n",
				app.Server, user.Nombre, user.Email, sess.Remaining().Round(time.Second))
			return nil
		},
	}
}
