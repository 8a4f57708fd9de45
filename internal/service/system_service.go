package service

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SystemService 数据库连通性探测
type SystemService interface {
	// Probe 执行 SELECT 1 + 1，返回结果（正常为 2）
	Probe(ctx context.Context) (int, error)
}

type systemService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSystemService 创建 SystemService 实例
func NewSystemService(db *gorm.DB, logger *zap.Logger) SystemService {
	return &systemService{db: db, logger: logger}
}

func (s *systemService) Probe(ctx context.Context) (int, error) {
	var resultado int
	if err := s.db.WithContext(ctx).Raw("SELECT 1 + 1 AS resultado").Scan(&resultado).Error; err != nil {
		s.logger.Error("数据库探测失败", zap.Error(err))
		return 0, err
	}
	return resultado, nil
}
