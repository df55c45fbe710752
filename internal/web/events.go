package web

import (
	"net/http"
	"time"

	"github.com/Spok95/school-club-portal/internal/db"
	"github.com/Spok95/school-club-portal/internal/metrics"
	"github.com/Spok95/school-club-portal/internal/models"
)

type eventView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Location    string    `json:"location"`
	OrganizerID int64     `json:"organizer_id"`
	HasImage    bool      `json:"has_image"`
}

func toEventView(e models.Event) eventView {
	return eventView{
		ID: e.ID, Title: e.Title, Description: e.Description,
		StartsAt: e.StartsAt, EndsAt: e.EndsAt, Location: e.Location,
		OrganizerID: e.OrganizerID, HasImage: e.HasImage,
	}
}

// handleIndex — главная: три ближайших мероприятия.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	events, err := db.ListUpcomingEvents(r.Context(), s.db, 3)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]eventView, 0, len(events))
	for _, e := range events {
		out = append(out, toEventView(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := db.ListEvents(r.Context(), s.db)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]eventView, 0, len(events))
	for _, e := range events {
		out = append(out, toEventView(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

const eventTimeLayout = "2006-01-02T15:04"

// Нижняя граница дат исходной схемы (SQL Server datetime).
const minEventYear = 1753

// handleEvent — карточка мероприятия: само событие, число записанных
// и признак «текущий посетитель уже записан» (для гостя всегда false).
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "некорректный id мероприятия")
		return
	}

	e, err := db.GetEventByID(r.Context(), s.db, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	attendees, err := db.CountAttendees(r.Context(), s.db, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	attending := false
	if u, err := s.sessionUser(r); err == nil && u != nil {
		attending, err = db.IsAttending(r.Context(), s.db, u.ID, id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"event":     toEventView(*e),
		"attendees": attendees,
		"attending": attending,
	})
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "форма слишком большая")
		return
	}

	title := r.PostFormValue("title")
	description := r.PostFormValue("description")
	location := r.PostFormValue("location")
	if title == "" || description == "" || location == "" {
		writeError(w, http.StatusBadRequest, "название, описание и место обязательны")
		return
	}
	startsAt, err := time.ParseInLocation(eventTimeLayout, r.PostFormValue("starts_at"), s.cfg.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "некорректная дата начала")
		return
	}
	endsAt, err := time.ParseInLocation(eventTimeLayout, r.PostFormValue("ends_at"), s.cfg.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "некорректная дата окончания")
		return
	}
	if startsAt.Year() < minEventYear || endsAt.Year() < minEventYear {
		writeError(w, http.StatusBadRequest, "дата вне допустимого диапазона")
		return
	}
	if endsAt.Before(startsAt) {
		writeError(w, http.StatusBadRequest, "дата окончания раньше даты начала")
		return
	}

	image, mime, err := readImageUpload(r, "image")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := db.CreateEvent(r.Context(), s.db, models.Event{
		Title:       title,
		Description: description,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Location:    location,
		OrganizerID: u.ID,
	}, image, mime)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.Infow("мероприятие создано", "id", id, "organizer", u.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleAttend(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "некорректный id мероприятия")
		return
	}
	u := userFrom(r.Context())

	registered, err := db.RegisterAttendee(r.Context(), s.db, u.ID, eventID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !registered {
		// повторная запись — не ошибка
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_registered"})
		return
	}
	metrics.Registrations.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "registered"})
}

func (s *Server) handleUnattend(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "некорректный id мероприятия")
		return
	}
	u := userFrom(r.Context())

	if err := db.UnregisterAttendee(r.Context(), s.db, u.ID, eventID); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unregistered"})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "некорректный id мероприятия")
		return
	}

	if err := db.DeleteEvent(r.Context(), s.db, eventID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Infow("мероприятие удалено", "id", eventID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
