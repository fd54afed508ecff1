// Package storage владеет файлом SQLite: открывает его, гарантирует схему
// и выдает соединения с гарантированным освобождением.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	busyTimeout = 5 * time.Second

	// Формат, в котором SQLite пишет created_at (strftime '%Y-%m-%d %H:%M:%f').
	// Дробная часть секунд при парсинге принимается автоматически.
	TimeLayout = "2006-01-02 15:04:05"
)

var ErrStorageUnavailable = errors.New("storage unavailable")

//go:embed schema.sql
var schema string

type DB struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open открывает файл базы по пути path (":memory:" для тестов) и проверяет доступность.
// Схему не создает, для этого есть EnsureSchema.
func Open(ctx context.Context, path string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open(driverName, dsn(path))
	if err != nil {
		return nil, Wrap(err)
	}

	// Один писатель на файл: держим ровно одно соединение
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, Wrap(err)
	}

	logger.Info("Opened task database", zap.String("path", path))
	return &DB{db: db, path: path, logger: logger}, nil
}

// EnsureSchema идемпотентна: повторный вызов ничего не меняет.
func (d *DB) EnsureSchema(ctx context.Context) error {
	err := d.WithConn(ctx, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, schema)
		return Wrap(err)
	})
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	d.logger.Debug("Schema is ready", zap.String("path", d.path))
	return nil
}

// WithConn выдает соединение на время fn и возвращает его в пул на любом пути выхода.
func (d *DB) WithConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return Wrap(err)
	}
	defer conn.Close()

	return fn(conn)
}

func (d *DB) Path() string {
	return d.path
}

func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return Wrap(err)
	}
	d.logger.Info("Closed task database", zap.String("path", d.path))
	return nil
}

// Wrap помечает ошибку драйвера как ErrStorageUnavailable, сохраняя исходную в цепочке.
func Wrap(err error) error {
	if err == nil || errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

func ParseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return t, nil
}

func dsn(path string) string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", path, busyTimeout.Milliseconds())
}
