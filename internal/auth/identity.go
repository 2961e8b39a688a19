package auth

import (
	"context"
	"log"

	"github.com/sirajahmedx/task-manager/internal/domain/errors"
	"github.com/sirajahmedx/task-manager/internal/domain/models"
)

// UserRepository задаёт минимальный контракт хранилища пользователей,
// нужный для разрешения личности.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// Resolve связывает внешний профиль с внутренним пользователем по email.
// При первом входе создаёт запись, при повторных входах возвращает
// существующую: на один email приходится не более одной записи за всё
// время. Любая ошибка хранилища означает отказ во входе: сессия без
// внутреннего идентификатора не выпускается.
func Resolve(ctx context.Context, repo UserRepository, profile models.GoogleProfile) (*models.User, error) {
	if profile.Email == "" {
		return nil, errors.ErrInvalidEmail
	}

	user, err := repo.GetUserByEmail(ctx, profile.Email)
	if err == nil {
		return user, nil
	}
	if err != errors.ErrUserNotFound {
		return nil, err
	}

	newUser := &models.User{
		Email: profile.Email,
		Name:  profile.Name,
		Image: profile.Image,
	}
	if err := repo.CreateUser(ctx, newUser); err != nil {
		if err == errors.ErrUserAlreadyExists {
			// Параллельный первый вход: запись уже создана, перечитываем.
			return repo.GetUserByEmail(ctx, profile.Email)
		}
		return nil, err
	}

	log.Println("[SUCCESS] Пользователь создан при первом входе:", newUser.ID)
	return newUser, nil
}
