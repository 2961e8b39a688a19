package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirajahmedx/task-manager/internal/domain/errors"
	"github.com/sirajahmedx/task-manager/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Storage хранит данные в памяти. Используется как резервный вариант,
// когда база данных недоступна, и в тестах. Проверки схемы повторяют
// валидаторы коллекций MongoDB, чтобы поведение обоих хранилищ совпадало.
type Storage struct {
	mu    sync.RWMutex
	users map[string]models.User
	tasks map[string]models.Task
	seq   map[string]uint64
	next  uint64
}

func NewStorage() *Storage {
	return &Storage{
		users: make(map[string]models.User),
		tasks: make(map[string]models.Task),
		seq:   make(map[string]uint64),
	}
}

// checkTaskSchema повторяет $jsonSchema-валидатор коллекции tasks.
func checkTaskSchema(task *models.Task) error {
	if task.Title == "" || len([]rune(task.Title)) > 100 {
		return errors.ErrSchemaViolation
	}
	if len([]rune(task.Description)) > 500 {
		return errors.ErrSchemaViolation
	}
	if !task.Status.Valid() {
		return errors.ErrSchemaViolation
	}
	if !models.IsValidID(task.UserID) {
		return errors.ErrSchemaViolation
	}
	return nil
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.Email == "" {
		return errors.ErrSchemaViolation
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return errors.ErrUserAlreadyExists
		}
	}

	user.ID = primitive.NewObjectID().Hex()
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, errors.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkTaskSchema(task); err != nil {
		return err
	}

	now := time.Now().UTC()
	task.ID = primitive.NewObjectID().Hex()
	task.CreatedAt = now
	task.UpdatedAt = now

	s.next++
	s.seq[task.ID] = s.next
	s.tasks[task.ID] = *task
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, errors.ErrNotFound
	}
	return &task, nil
}

// GetTasks возвращает задачи владельца от новых к старым.
func (s *Storage) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	if userID == "" {
		return nil, errors.ErrOwnerRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []models.Task{}
	for _, t := range s.tasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return s.seq[tasks[i].ID] > s.seq[tasks[j].ID]
	})
	return tasks, nil
}

func (s *Storage) UpdateTask(ctx context.Context, id string, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.tasks[id]
	if !exists {
		return errors.ErrNotFound
	}
	if err := checkTaskSchema(task); err != nil {
		return err
	}

	task.ID = id
	task.CreatedAt = prev.CreatedAt
	task.UpdatedAt = time.Now().UTC()
	s.tasks[id] = *task
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return errors.ErrNotFound
	}
	delete(s.tasks, id)
	delete(s.seq, id)
	return nil
}
