package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"gestion-notas/internal/client"
)

// ErrNotFound 指定服务端没有已保存的会话
var ErrNotFound = errors.New("sesión no encontrada")

var bucketSessions = []byte("sessions")

// Store 基于 BoltDB 的本地会话存储
// 以服务端地址为键，同一文件可保存多个服务端的会话
type Store struct {
	db *bbolt.DB
}

// DefaultPath 默认会话文件路径（用户配置目录下）
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gradectl.db"
	}
	return filepath.Join(dir, "gradectl", "session.db")
}

// Open 打开（不存在则创建）会话文件
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("crear directorio de sesión: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("abrir almacén de sesión: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("inicializar almacén de sesión: %w", err)
	}

	return &Store{db: db}, nil
}

// Close 关闭会话文件
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save 保存（覆盖）某服务端的会话
func (s *Store) Save(ctx context.Context, server string, sess *client.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("serializar sesión: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(server), data)
	})
}

// Load 读取某服务端的会话；不存在时返回 ErrNotFound
// 过期会话原样返回，由调用方判断并清除
func (s *Store) Load(ctx context.Context, server string) (*client.Session, error) {
	var sess *client.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSessions).Get([]byte(server))
		if data == nil {
			return ErrNotFound
		}
		sess = &client.Session{}
		if err := json.Unmarshal(data, sess); err != nil {
			return fmt.Errorf("decodificar sesión: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Delete 删除某服务端的会话；不存在时不报错
func (s *Store) Delete(ctx context.Context, server string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(server))
	})
}
