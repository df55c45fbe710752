package db

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Типизированные ошибки слоя хранения. Наружу из пакета db уходят
// только они, обёрнутые через %w.
var (
	ErrNotFound    = errors.New("запись не найдена")
	ErrConstraint  = errors.New("нарушение целостности данных")
	ErrEmailTaken  = errors.New("email уже зарегистрирован")
	ErrNoImage     = errors.New("изображение отсутствует")
	ErrUnavailable = errors.New("хранилище недоступно")
)

const (
	codeUniqueViolation = "23505"
	codeFKViolation     = "23503"
	codeCheckViolation  = "23514"
)

// sqlState достаёт SQLSTATE из ошибки драйвера.
// Прод ходит через pgx, тесты — через lib/pq, поэтому понимаем оба.
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool { return sqlState(err) == codeUniqueViolation }
func isFKViolation(err error) bool     { return sqlState(err) == codeFKViolation }

// translateConstraint переводит ошибку констрейнта в ErrConstraint,
// остальное отдаёт в storeErr.
func translateConstraint(err error) error {
	switch sqlState(err) {
	case codeUniqueViolation, codeFKViolation, codeCheckViolation:
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return storeErr(err)
}

func notFoundIfNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return storeErr(err)
}

// storeErr заворачивает ошибки связи с базой в ErrUnavailable:
// сетевые сбои, битые соединения и SQLSTATE класса 08.
// Всё остальное уходит наружу как есть.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) ||
		errors.As(err, &netErr) ||
		strings.HasPrefix(sqlState(err), "08") {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
