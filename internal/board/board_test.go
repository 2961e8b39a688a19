package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sirajahmedx/task-manager/internal/domain/models"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "t1", Title: "Задача 1", Status: models.StatusTodo},
		{ID: "t2", Title: "Задача 2", Status: models.StatusDoing},
		{ID: "t3", Title: "Задача 3", Status: models.StatusTodo},
		{ID: "t4", Title: "Задача 4", Status: models.StatusDone},
	}
}

func TestColumnProjection(t *testing.T) {
	tasks := sampleTasks()

	todo := Column(tasks, models.StatusTodo)
	assert.Len(t, todo, 2)
	assert.Equal(t, "t1", todo[0].ID)
	assert.Equal(t, "t3", todo[1].ID)

	assert.Len(t, Column(tasks, models.StatusBacklog), 0)
	assert.Len(t, Column(tasks, models.StatusDoing), 1)
	assert.Len(t, Column(tasks, models.StatusDone), 1)
}

func TestReplaceAndTasksCopy(t *testing.T) {
	b := New()
	b.Replace(sampleTasks())
	assert.Equal(t, 4, b.Len())

	snapshot := b.Tasks()
	snapshot[0].Title = "испорчено"

	// Снимок не связан с внутренним состоянием доски.
	fresh, ok := b.Find("t1")
	assert.True(t, ok)
	assert.Equal(t, "Задача 1", fresh.Title)
}

func TestPrepend(t *testing.T) {
	b := New()
	b.Replace(sampleTasks())

	b.Prepend(models.Task{ID: "t5", Title: "Задача 5", Status: models.StatusTodo})

	tasks := b.Tasks()
	assert.Equal(t, 5, len(tasks))
	assert.Equal(t, "t5", tasks[0].ID)
}

func TestPatch(t *testing.T) {
	b := New()
	b.Replace(sampleTasks())

	moved := models.Task{ID: "t1", Title: "Задача 1", Status: models.StatusDone}
	assert.True(t, b.Patch(moved))

	task, ok := b.Find("t1")
	assert.True(t, ok)
	assert.Equal(t, models.StatusDone, task.Status)

	assert.False(t, b.Patch(models.Task{ID: "missing"}))
}

func TestRemove(t *testing.T) {
	b := New()
	b.Replace(sampleTasks())

	assert.True(t, b.Remove("t2"))
	assert.Equal(t, 3, b.Len())
	_, ok := b.Find("t2")
	assert.False(t, ok)

	assert.False(t, b.Remove("t2"))
}

func TestNeedsMove(t *testing.T) {
	b := New()
	b.Replace(sampleTasks())

	// Перенос в ту же колонку запроса не требует.
	assert.False(t, b.NeedsMove("t1", models.StatusTodo))
	assert.True(t, b.NeedsMove("t1", models.StatusDoing))
	assert.False(t, b.NeedsMove("missing", models.StatusDoing))
}
