package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/Spok95/school-club-portal/internal/ctxutil"
)

// Агрегаты для админской аналитики. Все запросы только читают,
// детерминированы (явный ORDER BY) и на пустой базе возвращают
// пустой срез, а не ошибку.

type EventAttendance struct {
	Title     string `db:"title"`
	Attendees int64  `db:"attendees"`
}

// AttendancePerEvent — сколько различных участников записано на каждое
// мероприятие. Мероприятия без записей не попадают в выборку.
// Порядок — как на странице событий: по началу, затем по id.
func AttendancePerEvent(ctx context.Context, database *sql.DB) ([]EventAttendance, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT e.title, COUNT(DISTINCT a.user_id) AS attendees
		FROM events e
		JOIN event_attendees a ON a.event_id = e.id
		GROUP BY e.id, e.title
		ORDER BY e.starts_at, e.id
	`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func() { _ = rows.Close() }()

	out := []EventAttendance{}
	for rows.Next() {
		var r EventAttendance
		if err := rows.Scan(&r.Title, &r.Attendees); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, storeErr(rows.Err())
}

type MonthCount struct {
	Month  string `db:"month"` // ГГГГ-ММ
	Events int64  `db:"events"`
}

// EventsPerMonth — количество мероприятий по календарным месяцам начала.
func EventsPerMonth(ctx context.Context, database *sql.DB) ([]MonthCount, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT to_char(starts_at, 'YYYY-MM') AS month, COUNT(*) AS events
		FROM events
		GROUP BY to_char(starts_at, 'YYYY-MM')
		ORDER BY month
	`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func() { _ = rows.Close() }()

	out := []MonthCount{}
	for rows.Next() {
		var r MonthCount
		if err := rows.Scan(&r.Month, &r.Events); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, storeErr(rows.Err())
}

type UserActivity struct {
	Name   string `db:"name"`
	Events int64  `db:"events"`
}

// TopActiveUsers — не более limit самых активных участников: по числу
// различных посещённых мероприятий по убыванию, при равенстве — по имени.
// Порядок здесь контрактный; разворот для горизонтальной диаграммы
// делает слой представления.
func TopActiveUsers(ctx context.Context, database *sql.DB, limit int) ([]UserActivity, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT u.first_name || ' ' || u.last_name AS name,
		       COUNT(DISTINCT a.event_id) AS events
		FROM users u
		JOIN event_attendees a ON a.user_id = u.id
		GROUP BY u.id, u.first_name, u.last_name
		ORDER BY events DESC, name ASC, u.id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func() { _ = rows.Close() }()

	out := []UserActivity{}
	for rows.Next() {
		var r UserActivity
		if err := rows.Scan(&r.Name, &r.Events); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, storeErr(rows.Err())
}

type DayCount struct {
	Day   time.Time `db:"day"`
	Users int64     `db:"users"`
}

// RegistrationsPerEnrollmentDate — сколько участников записалось в клуб
// в каждый календарный день (enrolled_on и так DATE, без времени).
func RegistrationsPerEnrollmentDate(ctx context.Context, database *sql.DB) ([]DayCount, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT enrolled_on AS day, COUNT(*) AS users
		FROM users
		GROUP BY enrolled_on
		ORDER BY enrolled_on
	`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func() { _ = rows.Close() }()

	out := []DayCount{}
	for rows.Next() {
		var r DayCount
		if err := rows.Scan(&r.Day, &r.Users); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, storeErr(rows.Err())
}
