package errors

import "errors"

var (
	ErrUserNotFound      = errors.New("пользователь не найден")
	ErrUserAlreadyExists = errors.New("пользователь уже существует")
	ErrNotFound          = errors.New("задача не найдена")

	ErrValidationFailed   = errors.New("ошибка валидации")
	ErrDatabaseConnection = errors.New("ошибка соединения с базой данных")
	ErrSchemaViolation    = errors.New("документ не прошёл проверку схемы")
	ErrInternalServer     = errors.New("внутренняя ошибка сервера")
	ErrBadRequest         = errors.New("неверный запрос")
	ErrUnauthorized       = errors.New("нет доступа")

	ErrAuthFailed     = errors.New("не удалось выполнить вход")
	ErrSessionInvalid = errors.New("недействительная сессия")
	ErrStateMismatch  = errors.New("несовпадение параметра state")

	ErrOwnerRequired      = errors.New("не указан владелец задач")
	ErrInvalidTaskID      = errors.New("некорректный идентификатор задачи")
	ErrInvalidTitle       = errors.New("некорректный заголовок задачи")
	ErrInvalidDescription = errors.New("некорректное описание задачи")
	ErrInvalidStatus      = errors.New("недопустимый статус задачи")
	ErrInvalidEmail       = errors.New("некорректный email")

	ErrConfigFileReadFailed = errors.New("не удалось прочитать файл конфигурации")
	ErrConfigParseFailed    = errors.New("не удалось разобрать файл конфигурации")
	ErrConfigInvalidFormat  = errors.New("некорректный формат значения")

	ErrInvalidGzipRequest    = errors.New("некорректное gzip-тело запроса")
	ErrGzipCompressionFailed = errors.New("ошибка сжатия ответа")
)
