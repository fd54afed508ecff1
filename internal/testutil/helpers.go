package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/storage"
)

// SetupTestDB создает отдельный файл базы во временной директории теста.
// Файл удаляется вместе с t.TempDir(), чистить таблицы между тестами не нужно.
func SetupTestDB(t *testing.T) *storage.DB {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "task_tracker.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

// SeedTasks создает count задач с заголовками "Task 1".."Task N"
func SeedTasks(t *testing.T, db *storage.DB, count int) []int64 {
	t.Helper()
	ctx := context.Background()

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		var id int64
		err := db.WithConn(ctx, func(conn *sql.Conn) error {
			return conn.QueryRowContext(ctx,
				"INSERT INTO tasks (title) VALUES (?) RETURNING id",
				fmt.Sprintf("Task %d", i+1),
			).Scan(&id)
		})
		if err != nil {
			t.Fatalf("Failed to seed task: %v", err)
		}
		ids = append(ids, id)
	}

	return ids
}

// CountTasks возвращает число строк в tasks
func CountTasks(t *testing.T, db *storage.DB) int {
	t.Helper()
	ctx := context.Background()

	var n int
	err := db.WithConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, "SELECT count(*) FROM tasks").Scan(&n)
	})
	if err != nil {
		t.Fatalf("Failed to count tasks: %v", err)
	}
	return n
}
