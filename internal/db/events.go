package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-club-portal/internal/ctxutil"
	"github.com/Spok95/school-club-portal/internal/models"
)

// CreateEvent создаёт мероприятие. image/mime опциональны (nil — без картинки).
// Несуществующий организатор превращается в ErrNotFound.
func CreateEvent(ctx context.Context, database *sql.DB, e models.Event, image []byte, mime *string) (int64, error) {
	if e.EndsAt.Before(e.StartsAt) {
		return 0, fmt.Errorf("%w: дата окончания не может быть раньше даты начала", ErrConstraint)
	}

	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO events (title, description, starts_at, ends_at, location, organizer_id, image_data, image_mime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, e.Title, e.Description, e.StartsAt, e.EndsAt, e.Location, e.OrganizerID, image, mime).Scan(&id)
	if err != nil {
		if isFKViolation(err) {
			return 0, fmt.Errorf("организатор %d: %w", e.OrganizerID, ErrNotFound)
		}
		return 0, translateConstraint(err)
	}
	return id, nil
}

func GetEventByID(ctx context.Context, database *sql.DB, id int64) (*models.Event, error) {
	row := database.QueryRowContext(ctx, `
		SELECT id, title, description, starts_at, ends_at, location, organizer_id, image_data IS NOT NULL
		FROM events WHERE id = $1
	`, id)

	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartsAt, &e.EndsAt, &e.Location, &e.OrganizerID, &e.HasImage)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return &e, nil
}

// ListEvents — все мероприятия в порядке начала (как на странице событий).
func ListEvents(ctx context.Context, database *sql.DB) ([]models.Event, error) {
	return listEvents(ctx, database, 0)
}

// ListUpcomingEvents — ближайшие limit мероприятий для главной страницы.
func ListUpcomingEvents(ctx context.Context, database *sql.DB, limit int) ([]models.Event, error) {
	return listEvents(ctx, database, limit)
}

func listEvents(ctx context.Context, database *sql.DB, limit int) ([]models.Event, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	q := `
		SELECT id, title, description, starts_at, ends_at, location, organizer_id, image_data IS NOT NULL
		FROM events
		ORDER BY starts_at, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartsAt, &e.EndsAt,
			&e.Location, &e.OrganizerID, &e.HasImage); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, storeErr(rows.Err())
}

// DeleteEvent удаляет мероприятие вместе со строками посещаемости одной
// транзакцией: либо уходит всё, либо ничего. Запросы только параметризованные.
func DeleteEvent(ctx context.Context, database *sql.DB, eventID int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_attendees WHERE event_id = $1`, eventID); err != nil {
		return storeErr(err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return storeErr(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("мероприятие %d: %w", eventID, ErrNotFound)
	}

	return storeErr(tx.Commit())
}
