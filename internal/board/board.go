// Package board хранит локальную копию списка задач, которую показывает
// клиент. Список плоский, порядок задаёт сервер; колонки доски лишь
// проекция по статусу, пересчитываемая при каждом изменении.
package board

import (
	"github.com/sirajahmedx/task-manager/internal/domain/models"
)

type Board struct {
	tasks []models.Task
}

func New() *Board {
	return &Board{}
}

// Replace целиком заменяет локальный список ответом сервера.
func (b *Board) Replace(tasks []models.Task) {
	b.tasks = append([]models.Task(nil), tasks...)
}

// Tasks возвращает копию плоского списка.
func (b *Board) Tasks() []models.Task {
	return append([]models.Task(nil), b.tasks...)
}

func (b *Board) Len() int {
	return len(b.tasks)
}

// Prepend добавляет только что созданную задачу в начало списка.
func (b *Board) Prepend(task models.Task) {
	b.tasks = append([]models.Task{task}, b.tasks...)
}

// Patch заменяет задачу с тем же идентификатором ответом сервера.
func (b *Board) Patch(task models.Task) bool {
	for i := range b.tasks {
		if b.tasks[i].ID == task.ID {
			b.tasks[i] = task
			return true
		}
	}
	return false
}

// Remove удаляет задачу по идентификатору.
func (b *Board) Remove(id string) bool {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Board) Find(id string) (models.Task, bool) {
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// NeedsMove сообщает, требуется ли запрос к серверу для переноса задачи
// в колонку status. Перенос в текущую колонку ничего не меняет: запрос не
// отправляется, updatedAt не меняется.
func (b *Board) NeedsMove(id string, status models.Status) bool {
	task, ok := b.Find(id)
	if !ok {
		return false
	}
	return task.Status != status
}

// Column возвращает задачи одной колонки. Чистая проекция: исходный
// список не меняется, относительный порядок сохраняется.
func Column(tasks []models.Task, status models.Status) []models.Task {
	out := []models.Task{}
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}
