package repo

import (
	"context"

	"github.com/BuzzLyutic/task-tracker/internal/config"
	"github.com/BuzzLyutic/task-tracker/internal/model"
)

// SearchMode задает чувствительность поиска к регистру
type SearchMode int

const (
	SearchInsensitive SearchMode = iota
	SearchSensitive
)

// ParseSearchMode переводит значение config.SearchMode; неизвестное значение = без учета регистра
func ParseSearchMode(s string) SearchMode {
	if s == config.SearchSensitive {
		return SearchSensitive
	}
	return SearchInsensitive
}

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, title string) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	MarkDone(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, keyword string, mode SearchMode) ([]model.Task, error)
	GetStats(ctx context.Context) (model.Stats, error)
}
