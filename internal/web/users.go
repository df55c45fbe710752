package web

import (
	"net/http"
	"time"

	"github.com/Spok95/school-club-portal/internal/db"
)

type userView struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Age        int     `json:"age"`
	Role       string  `json:"role"`
	Grade      *string `json:"grade,omitempty"`
	EnrolledOn string  `json:"enrolled_on"`
	Email      string  `json:"email"`
	IsAdmin    bool    `json:"is_admin"`
}

// handleUsers — список участников для админа, по фамилии.
// Хэши паролей наружу не отдаём.
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := db.ListUsers(r.Context(), s.db)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, userView{
			ID:         u.ID,
			Name:       u.FullName(),
			Age:        u.Age,
			Role:       string(u.Role),
			Grade:      u.Grade,
			EnrolledOn: u.EnrolledOn.Format(time.DateOnly),
			Email:      u.Email,
			IsAdmin:    u.IsAdmin,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}
