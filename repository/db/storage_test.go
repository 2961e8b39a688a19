package db

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sirajahmedx/task-manager/internal/domain/errors"
	"github.com/sirajahmedx/task-manager/internal/domain/models"
)

func testMongoURI() string {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

// newTestStorage подключается к тестовой базе или пропускает тест,
// если MongoDB недоступна.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	prevTimeout := connectTimeout
	connectTimeout = 2 * time.Second
	t.Cleanup(func() { connectTimeout = prevTimeout })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	s, err := NewStorage(ctx, testMongoURI(), "tasks_test")
	if err != nil {
		t.Skipf("MongoDB недоступна: %v", err)
	}

	require.NoError(t, s.db.Drop(ctx))
	require.NoError(t, s.EnsureSchema(ctx))

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cleanupCancel()
		_ = s.db.Drop(cleanupCtx)
		_ = Close(cleanupCtx)
	})

	return s
}

func testOwner() string {
	return primitive.NewObjectID().Hex()
}

func TestTaskCRUD(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	owner := testOwner()

	task := &models.Task{
		Title:       "Задача",
		Description: "Описание",
		Status:      models.StatusTodo,
		UserID:      owner,
	}
	require.NoError(t, s.CreateTask(ctx, task))
	assert.True(t, models.IsValidID(task.ID))
	assert.False(t, task.CreatedAt.IsZero())

	found, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, found.Title)
	assert.Equal(t, owner, found.UserID)

	replacement := &models.Task{
		Title:  "Обновлённая задача",
		Status: models.StatusDone,
		UserID: owner,
	}
	require.NoError(t, s.UpdateTask(ctx, task.ID, replacement))
	assert.Equal(t, task.ID, replacement.ID)
	assert.Equal(t, models.StatusDone, replacement.Status)
	// Полная замена не трогает время создания.
	assert.True(t, task.CreatedAt.Equal(replacement.CreatedAt))

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	assert.ErrorIs(t, s.DeleteTask(ctx, task.ID), errors.ErrNotFound)

	_, err = s.GetTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestGetTasksOrdering(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	owner := testOwner()

	titles := []string{"Первая", "Вторая", "Третья"}
	for _, title := range titles {
		task := &models.Task{Title: title, Status: models.StatusTodo, UserID: owner}
		require.NoError(t, s.CreateTask(ctx, task))
	}

	tasks, err := s.GetTasks(ctx, owner)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, "Третья", tasks[0].Title)
	assert.Equal(t, "Вторая", tasks[1].Title)
	assert.Equal(t, "Первая", tasks[2].Title)
}

func TestGetTasksOwnershipIsolation(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	owner, stranger := testOwner(), testOwner()

	mine := &models.Task{Title: "Моя задача", Status: models.StatusTodo, UserID: owner}
	foreign := &models.Task{Title: "Чужая задача", Status: models.StatusTodo, UserID: stranger}
	require.NoError(t, s.CreateTask(ctx, mine))
	require.NoError(t, s.CreateTask(ctx, foreign))

	tasks, err := s.GetTasks(ctx, owner)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Моя задача", tasks[0].Title)
}

func TestGetTasksRequiresOwner(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetTasks(context.Background(), "")
	assert.ErrorIs(t, err, errors.ErrOwnerRequired)
}

func TestSchemaRejectsUnknownStatus(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	task := &models.Task{
		Title:  "Задача",
		Status: models.Status("archived"),
		UserID: testOwner(),
	}
	err := s.CreateTask(ctx, task)
	assert.ErrorIs(t, err, errors.ErrSchemaViolation)
}

func TestSchemaRejectsLongTitle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	title := make([]byte, 101)
	for i := range title {
		title[i] = 'a'
	}

	task := &models.Task{
		Title:  string(title),
		Status: models.StatusTodo,
		UserID: testOwner(),
	}
	err := s.CreateTask(ctx, task)
	assert.ErrorIs(t, err, errors.ErrSchemaViolation)
}

func TestUpdateTaskErrors(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	owner := testOwner()

	t.Run("malformed id", func(t *testing.T) {
		err := s.UpdateTask(ctx, "bogus", &models.Task{Title: "Задача", Status: models.StatusTodo, UserID: owner})
		assert.ErrorIs(t, err, errors.ErrInvalidTaskID)
	})

	t.Run("missing task", func(t *testing.T) {
		err := s.UpdateTask(ctx, primitive.NewObjectID().Hex(), &models.Task{Title: "Задача", Status: models.StatusTodo, UserID: owner})
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})
}

func TestCreateUserUniqueEmail(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	first := &models.User{Email: "user@example.com", Name: "Первый"}
	require.NoError(t, s.CreateUser(ctx, first))
	assert.True(t, models.IsValidID(first.ID))

	second := &models.User{Email: "user@example.com", Name: "Второй"}
	err := s.CreateUser(ctx, second)
	assert.ErrorIs(t, err, errors.ErrUserAlreadyExists)

	found, err := s.GetUserByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestAcquireClientShared(t *testing.T) {
	s := newTestStorage(t)
	_ = s

	ctx := context.Background()
	const workers = 8

	var wg sync.WaitGroup
	clients := make([]interface{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client, err := acquireClient(ctx, testMongoURI())
			assert.NoError(t, err)
			clients[i] = client
		}(i)
	}
	wg.Wait()

	// Все вызовы делят одно соединение.
	for i := 1; i < workers; i++ {
		assert.Same(t, clients[0], clients[i])
	}
}
