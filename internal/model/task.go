package model

import "time"

type Status string

const (
	StatusOpen Status = "OPEN"
	StatusDone Status = "DONE"
)

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusDone
}

type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskFilter: пустой Status означает "без фильтра"
type TaskFilter struct {
	Status Status
}

type Stats struct {
	ByStatus   map[Status]int `json:"by_status"`
	TotalTasks int            `json:"total_tasks"`
}
