package db

import (
	"context"
	stderrors "errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Валидаторы коллекций. Ограничения полей проверяются на уровне схемы
// хранилища: документ с пустым заголовком или неизвестным статусом
// отклоняется базой, а не сервисом.
var (
	taskSchema = bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "status", "user"},
			"properties": bson.M{
				"title": bson.M{
					"bsonType":  "string",
					"minLength": 1,
					"maxLength": 100,
				},
				"description": bson.M{
					"bsonType":  "string",
					"maxLength": 500,
				},
				"status": bson.M{
					"enum": bson.A{"backlog", "todo", "doing", "done"},
				},
				"user": bson.M{
					"bsonType": "objectId",
				},
			},
		},
	}

	userSchema = bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email"},
			"properties": bson.M{
				"email": bson.M{
					"bsonType":  "string",
					"minLength": 3,
				},
			},
		},
	}
)

// EnsureSchema создаёт коллекции с валидаторами и индексы.
// Выполняется при старте сервиса; повторные вызовы безопасны.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := s.ensureCollection(ctx, "users", userSchema); err != nil {
		log.Println("[ERROR] Не удалось создать коллекцию users:", err)
		return err
	}
	if err := s.ensureCollection(ctx, "tasks", taskSchema); err != nil {
		log.Println("[ERROR] Не удалось создать коллекцию tasks:", err)
		return err
	}

	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		log.Println("[ERROR] Не удалось создать индекс users.email:", err)
		return err
	}

	if _, err := s.tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}); err != nil {
		log.Println("[ERROR] Не удалось создать индексы tasks:", err)
		return err
	}

	log.Println("[SUCCESS] Схема и индексы применены успешно")
	return nil
}

func (s *Storage) ensureCollection(ctx context.Context, name string, schema bson.M) error {
	err := s.db.CreateCollection(ctx, name, options.CreateCollection().SetValidator(schema))
	if err == nil {
		return nil
	}

	var cmdErr mongo.CommandError
	if stderrors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists" {
		// Коллекция уже есть, обновляем валидатор.
		return s.db.RunCommand(ctx, bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: schema},
		}).Err()
	}
	return err
}
