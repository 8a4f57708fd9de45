package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gestion-notas/internal/client"
	"gestion-notas/internal/client/sessionstore"
)

// 版本信息，构建时通过 ldflags 注入
var (
	Version   = "dev"
	BuildDate = "unknown"
)

// App 命令执行上下文
type App struct {
	Server    string
	StorePath string
	JSON      bool

	api   *client.Client
	store *sessionstore.Store
	in    *bufio.Reader
}

// newRootCmd 构建 gradectl 命令树
func newRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "gradectl",
		Short:         "Cliente de línea de comandos para la gestión de notas",
		Version:       fmt.Sprintf("%s (%s)", Version, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd)
		},
	}

	defaultServer := os.Getenv("GRADECTL_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:3000"
	}

	root.PersistentFlags().StringVar(&app.Server, "server", defaultServer, "URL del servidor")
	root.PersistentFlags().StringVar(&app.StorePath, "store", sessionstore.DefaultPath(), "archivo de sesión local")
	root.PersistentFlags().BoolVar(&app.JSON, "json", false, "salida en formato JSON")

	root.AddCommand(
		newRegisterCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newStudentsCmd(app),
		newCoursesCmd(app),
		newGradesCmd(app),
	)

	return root
}

// Execute 运行 gradectl，返回进程退出码
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := &App{}
	// 无论命令成败都关闭会话文件
	defer func() { _ = app.close() }()

	root := newRootCmd(app)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *App) open(cmd *cobra.Command) error {
	a.api = client.NewClient(a.Server)
	a.in = bufio.NewReader(cmd.InOrStdin())

	store, err := sessionstore.Open(a.StorePath)
	if err != nil {
		return err
	}
	a.store = store
	return nil
}

func (a *App) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// ── 会话 ──

// session 读取当前服务端的会话，已过期时清除
func (a *App) session(ctx context.Context) (*client.Session, error) {
	sess, err := a.store.Load(ctx, a.Server)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return nil, errors.New("no hay sesión activa, ejecuta 'gradectl login'")
	}
	if err != nil {
		return nil, err
	}
	if sess.Expired() {
		_ = a.store.Delete(ctx, a.Server)
		return nil, errors.New("la sesión expiró, ejecuta 'gradectl login'")
	}
	return sess, nil
}

// authed 以当前会话执行调用；服务端拒绝令牌时清除会话
func (a *App) authed(ctx context.Context, fn func(sess *client.Session) error) error {
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	err = fn(sess)
	if errors.Is(err, client.ErrUnauthorized) {
		_ = a.store.Delete(ctx, a.Server)
		return errors.New("la sesión ya no es válida, ejecuta 'gradectl login'")
	}
	return err
}

// ── 输入 ──

// readLine 从输入读取一行
func (a *App) readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword 终端下不回显读取密码，否则按行读取
func (a *App) readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return a.readLine(cmd, prompt)
}

// ── 参数解析 ──

func parseID(s, name string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s inválido: %q", name, s)
	}
	return id, nil
}
