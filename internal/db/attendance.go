package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-club-portal/internal/ctxutil"
)

// RegisterAttendee записывает участника на мероприятие.
// Возвращает false, если он уже был записан — это не ошибка.
// Одновременные вызовы для одной пары безопасны: составной первичный ключ
// event_attendees отбивает второй INSERT, ON CONFLICT глушит конфликт,
// и по RowsAffected мы отличаем «записан» от «уже был».
func RegisterAttendee(ctx context.Context, database *sql.DB, userID, eventID int64) (bool, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var exists bool
	if err := database.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return false, storeErr(err)
	}
	if !exists {
		return false, fmt.Errorf("участник %d: %w", userID, ErrNotFound)
	}
	if err := database.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return false, storeErr(err)
	}
	if !exists {
		return false, fmt.Errorf("мероприятие %d: %w", eventID, ErrNotFound)
	}

	res, err := database.ExecContext(ctx, `
		INSERT INTO event_attendees (user_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`, userID, eventID)
	if err != nil {
		// Гонка с удалением мероприятия между проверкой и вставкой.
		if isFKViolation(err) {
			return false, fmt.Errorf("мероприятие %d: %w", eventID, ErrNotFound)
		}
		return false, storeErr(err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// UnregisterAttendee снимает запись. Отсутствие строки — не ошибка.
func UnregisterAttendee(ctx context.Context, database *sql.DB, userID, eventID int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	_, err := database.ExecContext(ctx,
		`DELETE FROM event_attendees WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	return storeErr(err)
}

// IsAttending — прямой EXISTS по таблице связи, без загрузки списка участников.
func IsAttending(ctx context.Context, database *sql.DB, userID, eventID int64) (bool, error) {
	var attending bool
	err := database.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM event_attendees WHERE user_id = $1 AND event_id = $2)
	`, userID, eventID).Scan(&attending)
	return attending, storeErr(err)
}

// CountAttendees — число записанных на мероприятие (для карточки события).
func CountAttendees(ctx context.Context, database *sql.DB, eventID int64) (int64, error) {
	var n int64
	err := database.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_attendees WHERE event_id = $1`, eventID).Scan(&n)
	return n, storeErr(err)
}
