package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/storage"
)

var (
	ErrorNotFound = errors.New("not found")
)

const taskColumns = "id, title, status, created_at"

// Экранирование спецсимволов LIKE, чтобы ключевое слово искалось как обычная подстрока
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type TaskRepo struct { // Репозиторий поверх файла SQLite
	db *storage.DB
}

func NewTaskRepo(db *storage.DB) *TaskRepo { // Конструктор
	return &TaskRepo{
		db: db,
	}
}

func (r *TaskRepo) Create(ctx context.Context, title string) (model.Task, error) {
	var t model.Task
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		return scanTask(conn.QueryRowContext(ctx, `
			INSERT INTO tasks (title)
			VALUES (?)
			RETURNING `+taskColumns,
			title,
		), &t)
	})
	return t, r.mapError(err)
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		return scanTask(conn.QueryRowContext(ctx, `
			SELECT `+taskColumns+`
			FROM tasks
			WHERE id = ?
		`, id), &t)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, r.mapError(err)
}

func (r *TaskRepo) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	// Пустой статус = без фильтра; при равных created_at более новый id идет первым
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC, id DESC
	`
	status := string(filter.Status)
	return r.query(ctx, query, status, status)
}

func (r *TaskRepo) MarkDone(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, "UPDATE tasks SET status = 'DONE' WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, r.mapError(err)
	}
	return affected == 1, nil
}

func (r *TaskRepo) Search(ctx context.Context, keyword string, mode SearchMode) ([]model.Task, error) {
	if mode == SearchSensitive {
		// instr учитывает регистр; instr(title, '') = 1, поэтому пустой запрос находит все
		return r.query(ctx, `
			SELECT `+taskColumns+`
			FROM tasks
			WHERE instr(title, ?) > 0
			ORDER BY created_at DESC, id DESC
		`, keyword)
	}

	pattern := "%" + likeEscaper.Replace(keyword) + "%"
	return r.query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE title LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, id DESC
	`, pattern)
}

func (r *TaskRepo) GetStats(ctx context.Context) (model.Stats, error) {
	stats := model.Stats{ByStatus: map[model.Status]int{}}
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, "SELECT status, count(*) FROM tasks GROUP BY status")
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				status model.Status
				n      int
			)
			if err := rows.Scan(&status, &n); err != nil {
				return err
			}
			stats.ByStatus[status] = n
			stats.TotalTasks += n
		}
		return rows.Err()
	})
	return stats, r.mapError(err)
}

func (r *TaskRepo) query(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var t model.Task
			if err := scanTask(rows, &t); err != nil {
				return err
			}
			tasks = append(tasks, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, r.mapError(err)
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner, t *model.Task) error {
	var createdAt string
	if err := s.Scan(&t.ID, &t.Title, &t.Status, &createdAt); err != nil {
		return err
	}
	ts, err := storage.ParseTime(createdAt)
	if err != nil {
		return err
	}
	t.CreatedAt = ts
	return nil
}

func (r *TaskRepo) mapError(err error) error {
	if err == nil || errors.Is(err, ErrorNotFound) {
		return err
	}
	return storage.Wrap(err)
}
