//go:build testutil
// +build testutil

package db_test

import (
	"database/sql"
	"fmt"
	"testing"
	"time"
)

func mustSeedUser(t *testing.T, dbx *sql.DB, firstName, lastName string, enrolledOn time.Time) int64 {
	t.Helper()
	var id int64
	email := fmt.Sprintf("%s.%s.%d@club.test", firstName, lastName, time.Now().UnixNano())
	err := dbx.QueryRow(`
		INSERT INTO users (first_name, last_name, age, role, enrolled_on, email, password_hash)
		VALUES ($1, $2, 12, 'student', $3, $4, 'x')
		RETURNING id`, firstName, lastName, enrolledOn, email).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func mustSeedEvent(t *testing.T, dbx *sql.DB, title string, startsAt time.Time, organizerID int64) int64 {
	t.Helper()
	var id int64
	err := dbx.QueryRow(`
		INSERT INTO events (title, description, starts_at, ends_at, location, organizer_id)
		VALUES ($1, 'описание', $2, $3, 'актовый зал', $4)
		RETURNING id`, title, startsAt, startsAt.Add(2*time.Hour), organizerID).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func countAttendanceRows(t *testing.T, dbx *sql.DB, eventID int64) int {
	t.Helper()
	var n int
	if err := dbx.QueryRow(`SELECT COUNT(*) FROM event_attendees WHERE event_id = $1`, eventID).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}
