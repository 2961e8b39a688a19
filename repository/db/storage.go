package db

import (
	"context"
	"log"
	"time"

	"github.com/sirajahmedx/task-manager/internal/domain/errors"
	"github.com/sirajahmedx/task-manager/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 15 * time.Second

type Storage struct {
	db    *mongo.Database
	users *mongo.Collection
	tasks *mongo.Collection
}

type userDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Email string             `bson:"email"`
	Name  string             `bson:"name,omitempty"`
	Image string             `bson:"image,omitempty"`
}

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	UserID      primitive.ObjectID `bson:"user"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d userDoc) toModel() models.User {
	return models.User{
		ID:    d.ID.Hex(),
		Email: d.Email,
		Name:  d.Name,
		Image: d.Image,
	}
}

func (d taskDoc) toModel() models.Task {
	return models.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      models.Status(d.Status),
		UserID:      d.UserID.Hex(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func NewStorage(ctx context.Context, uri, dbName string) (*Storage, error) {
	client, err := acquireClient(ctx, uri)
	if err != nil {
		log.Println("[ERROR] Не удалось подключиться к базе данных:", err)
		return nil, err
	}

	database := client.Database(dbName)
	s := &Storage{
		db:    database,
		users: database.Collection("users"),
		tasks: database.Collection("tasks"),
	}
	log.Println("[SUCCESS] Соединение с базой данных установлено успешно")
	return s, nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(task.UserID)
	if err != nil {
		log.Println("[ERROR] Некорректный идентификатор владельца:", task.UserID)
		return errors.ErrValidationFailed
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := taskDoc{
		ID:          primitive.NewObjectID(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		UserID:      owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.tasks.InsertOne(ctx, doc); err != nil {
		log.Println("[ERROR] Не удалось создать задачу:", err)
		return errors.ErrSchemaViolation
	}

	*task = doc.toModel()
	log.Println("[SUCCESS] Задача успешно создана:", task.ID)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.ErrInvalidTaskID
	}

	var doc taskDoc
	if err := s.tasks.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			log.Println("[ERROR] Задача не найдена:", id)
			return nil, errors.ErrNotFound
		}
		log.Println("[ERROR] Ошибка при получении задачи:", err)
		return nil, errors.ErrDatabaseConnection
	}

	task := doc.toModel()
	return &task, nil
}

func (s *Storage) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if userID == "" {
		return nil, errors.ErrOwnerRequired
	}
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.ErrValidationFailed
	}

	cur, err := s.tasks.Find(ctx, bson.M{"user": owner},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		log.Println("[ERROR] Не удалось получить задачи:", err)
		return nil, errors.ErrDatabaseConnection
	}

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		log.Println("[ERROR] Ошибка при чтении задач:", err)
		return nil, errors.ErrDatabaseConnection
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toModel())
	}
	log.Println("[SUCCESS] Получено задач:", len(tasks))
	return tasks, nil
}

// UpdateTask выполняет полную замену полей title/description/status/user.
// createdAt сохраняется, updatedAt проставляется заново.
func (s *Storage) UpdateTask(ctx context.Context, id string, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.ErrInvalidTaskID
	}
	owner, err := primitive.ObjectIDFromHex(task.UserID)
	if err != nil {
		return errors.ErrValidationFailed
	}

	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"user":        owner,
		"updatedAt":   time.Now().UTC().Truncate(time.Millisecond),
	}}

	var doc taskDoc
	err = s.tasks.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Println("[ERROR] Задача для обновления не найдена:", id)
			return errors.ErrNotFound
		}
		log.Println("[ERROR] Не удалось обновить задачу:", err)
		return errors.ErrSchemaViolation
	}

	*task = doc.toModel()
	log.Println("[SUCCESS] Задача успешно обновлена:", id)
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.ErrInvalidTaskID
	}

	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		log.Println("[ERROR] Не удалось удалить задачу:", err)
		return errors.ErrDatabaseConnection
	}
	if res.DeletedCount == 0 {
		log.Println("[ERROR] Задача для удаления не найдена:", id)
		return errors.ErrNotFound
	}

	log.Println("[SUCCESS] Задача успешно удалена:", id)
	return nil
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc := userDoc{
		ID:    primitive.NewObjectID(),
		Email: user.Email,
		Name:  user.Name,
		Image: user.Image,
	}

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Println("[ERROR] Пользователь уже существует:", user.Email)
			return errors.ErrUserAlreadyExists
		}
		log.Println("[ERROR] Не удалось создать пользователя:", err)
		return errors.ErrDatabaseConnection
	}

	*user = doc.toModel()
	log.Println("[SUCCESS] Пользователь успешно создан:", user.ID)
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}

	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			log.Println("[ERROR] Пользователь не найден:", id)
			return nil, errors.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, errors.ErrDatabaseConnection
	}

	user := doc.toModel()
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			log.Println("[ERROR] Пользователь не найден:", email)
			return nil, errors.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, errors.ErrDatabaseConnection
	}

	user := doc.toModel()
	log.Println("[SUCCESS] Пользователь найден:", email)
	return &user, nil
}
