package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия
	// (например, попытка редактировать чужую викторину).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния.
	ErrConflict = errors.New("resource state conflict")

	// ErrRoundUnavailable возвращается, когда провайдер данных (TMDB) не смог
	// собрать раунд: API недоступен или вернул слишком мало подходящих кандидатов.
	// Ошибка не фатальна для сессии, клиент может повторить запрос.
	ErrRoundUnavailable = errors.New("round unavailable")
)
