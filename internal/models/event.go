package models

import "time"

// Event — мероприятие клуба. Блоб картинки в структуре не носим,
// он достаётся отдельно через db.EventImage.
type Event struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	StartsAt    time.Time `db:"starts_at"`
	EndsAt      time.Time `db:"ends_at"`
	Location    string    `db:"location"`
	OrganizerID int64     `db:"organizer_id"`
	HasImage    bool      `db:"has_image"`
}
