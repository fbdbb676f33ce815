package models

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "Todo"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          TaskID     `bson:"_id,omitempty" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	ProjectID   ProjectID  `bson:"projectId" json:"projectId"`
	AssignedTo  *UserID    `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CreatedBy   UserID     `bson:"createdBy" json:"createdBy"`
	Status      TaskStatus `bson:"status" json:"status"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	Version     int64      `bson:"version" json:"-"`
}
