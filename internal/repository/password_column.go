package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"gestion-notas/internal/model"
)

// DefaultPasswordColumn 未检测到候选列时使用的列名
const DefaultPasswordColumn = "password_hash"

// passwordColumnCandidates 按优先级排列的历史密码列名
var passwordColumnCandidates = []string{"password_hash", "contraseña", "contrasena"}

// passwordColumn 延迟解析 usuario 表的密码列名
// 首次成功探测后在进程生命周期内复用；探测失败不缓存，下次调用重试
type passwordColumn struct {
	db   *gorm.DB
	mu   sync.Mutex
	name string
}

func newPasswordColumn(db *gorm.DB) *passwordColumn {
	return &passwordColumn{db: db}
}

// Resolve 返回密码列名（并发安全）
func (p *passwordColumn) Resolve(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.name != "" {
		return p.name, nil
	}

	table := model.User{}.TableName()
	cols, err := p.db.WithContext(ctx).Migrator().ColumnTypes(table)
	if err != nil {
		return "", fmt.Errorf("读取 %s 表结构失败: %w", table, err)
	}

	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[strings.ToLower(c.Name())] = true
	}

	name := DefaultPasswordColumn
	for _, col := range passwordColumnCandidates {
		if present[col] {
			name = col
			break
		}
	}
	p.name = name
	return name, nil
}
