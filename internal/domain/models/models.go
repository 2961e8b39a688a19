package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status обозначает колонку доски, в которой находится задача.
type Status string

const (
	StatusBacklog Status = "backlog"
	StatusTodo    Status = "todo"
	StatusDoing   Status = "doing"
	StatusDone    Status = "done"
)

// Statuses перечисляет колонки доски в порядке отображения.
var Statuses = []Status{StatusBacklog, StatusTodo, StatusDoing, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// IsValidID сообщает, является ли строка корректным идентификатором документа.
func IsValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=100"`
	Image string `json:"image" validate:"omitempty,url"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,max=100"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	Status      Status    `json:"status"`
	UserID      string    `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Status      string `json:"status"`
	UserID      string `json:"user"`
}

// UpdateTaskRequest описывает полную замену полей задачи: пропущенные
// необязательные поля перезаписываются присланными (возможно пустыми)
// значениями, а не сохраняются из прежней записи.
type UpdateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Status      string `json:"status"`
	UserID      string `json:"user"`
}

// GoogleProfile содержит проверенные данные личности, которые возвращает Google
// после обмена кода авторизации.
type GoogleProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"picture"`
}
