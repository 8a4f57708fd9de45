package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gestion-notas/config"
	"gestion-notas/internal/repository"
	"gestion-notas/internal/seed"
	"gestion-notas/pkg/database"
	applogger "gestion-notas/pkg/logger"
)

func main() {
	var (
		configPath string
		migrate    bool
	)

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Cargar datos de ejemplo (idempotente)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, migrate)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("NOTAS_CONFIG"), "ruta del archivo de configuración")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "aplicar migraciones antes de cargar datos")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error en seed: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, migrate bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if migrate {
		if err := database.RunMigrations(sqlDB, cfg.Database.Driver, logger); err != nil {
			return err
		}
	}

	res, err := seed.New(db, repository.NewRepository(db), cfg.Auth.BcryptCost, logger).Run(ctx)
	if err != nil {
		logger.Error("演示数据写入失败", zap.Error(err))
		return err
	}

	fmt.Printf("Seed completo: usuario %d, %d alumnos, %d materias, %d notas nuevas\n",
		res.UserID, res.Students, res.Courses, res.GradesCreated)
	return nil
}
