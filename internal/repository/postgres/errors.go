package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// uniqueViolationCode — код ошибки PostgreSQL unique_violation
const uniqueViolationCode = "23505"

// isUniqueViolation проверяет, является ли ошибка нарушением уникального
// ограничения. Проверяем оба драйвера: pgx (текущий) и pq (старые пути).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}
