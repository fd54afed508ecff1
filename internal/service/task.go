package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type TaskService struct {
	repo       repo.TaskRepository
	searchMode repo.SearchMode
}

func NewTaskService(repo repo.TaskRepository, searchMode repo.SearchMode) *TaskService {
	return &TaskService{repo: repo, searchMode: searchMode}
}

// Create сохраняет задачу с обрезанным заголовком; пустой заголовок до хранилища не доходит
func (s *TaskService) Create(ctx context.Context, title string) (model.Task, error) {
	title, err := s.validateTitle(title)
	if err != nil {
		return model.Task{}, err
	}
	return s.repo.Create(ctx, title)
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	return s.repo.List(ctx, filter)
}

// MarkComplete возвращает false без ошибки, если задачи с таким id нет
func (s *TaskService) MarkComplete(ctx context.Context, id int64) (bool, error) {
	return s.repo.MarkDone(ctx, id)
}

func (s *TaskService) Search(ctx context.Context, keyword string) ([]model.Task, error) {
	return s.repo.Search(ctx, strings.TrimSpace(keyword), s.searchMode)
}

func (s *TaskService) Stats(ctx context.Context) (model.Stats, error) {
	return s.repo.GetStats(ctx)
}

func (s *TaskService) validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return title, nil
}

// ParseStatus проверяет статус из внешнего ввода; пустая строка = без фильтра
func ParseStatus(s string) (model.Status, error) {
	status := model.Status(strings.ToUpper(strings.TrimSpace(s)))
	if status == "" || status.Valid() {
		return status, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
}
