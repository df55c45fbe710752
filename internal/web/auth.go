package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/school-club-portal/internal/db"
	"github.com/Spok95/school-club-portal/internal/models"
)

const minPasswordLen = 8

var allowedRoles = map[models.Role]bool{
	models.Student: true,
	models.Parent:  true,
	models.Teacher: true,
}

// handleRegister — регистрация участника. Админ через форму не создаётся:
// is_admin выставляет только bootstrap (db.EnsureAdmin).
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "некорректная форма")
		return
	}

	firstName := strings.TrimSpace(r.PostFormValue("first_name"))
	lastName := strings.TrimSpace(r.PostFormValue("last_name"))
	email := strings.ToLower(strings.TrimSpace(r.PostFormValue("email")))
	role := models.Role(r.PostFormValue("role"))
	grade := strings.TrimSpace(r.PostFormValue("grade"))
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirm_password")

	if firstName == "" || lastName == "" || email == "" {
		writeError(w, http.StatusBadRequest, "имя, фамилия и email обязательны")
		return
	}
	age, err := strconv.Atoi(r.PostFormValue("age"))
	if err != nil || age <= 0 {
		writeError(w, http.StatusBadRequest, "некорректный возраст")
		return
	}
	if !allowedRoles[role] {
		writeError(w, http.StatusBadRequest, "некорректная роль")
		return
	}
	// грейд обязателен только для учеников
	if role == models.Student && grade == "" {
		writeError(w, http.StatusBadRequest, "для ученика нужно указать класс")
		return
	}
	if role != models.Student {
		grade = ""
	}
	enrolledOn, err := time.ParseInLocation("2006-01-02", r.PostFormValue("enrolled_on"), s.cfg.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "некорректная дата записи")
		return
	}
	if enrolledOn.After(time.Now().In(s.cfg.Location)) {
		writeError(w, http.StatusBadRequest, "дата записи не может быть в будущем")
		return
	}
	if len(password) < minPasswordLen {
		writeError(w, http.StatusBadRequest, "пароль короче 8 символов")
		return
	}
	if password != confirm {
		writeError(w, http.StatusBadRequest, "пароли не совпадают")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	u := models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Age:          age,
		Role:         role,
		EnrolledOn:   enrolledOn,
		Email:        email,
		PasswordHash: string(hash),
	}
	if grade != "" {
		u.Grade = &grade
	}

	id, err := db.CreateUser(r.Context(), s.db, u)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.Infow("участник зарегистрирован", "id", id, "role", role)
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "некорректная форма")
		return
	}
	email := strings.ToLower(strings.TrimSpace(r.PostFormValue("email")))
	password := r.PostFormValue("password")

	u, err := db.GetUserByEmail(r.Context(), s.db, email)
	if err != nil {
		if isNotFound(err) {
			// одинаковый ответ для незнакомого email и неверного пароля
			writeError(w, http.StatusUnauthorized, "неверный email или пароль")
			return
		}
		s.fail(w, r, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		writeError(w, http.StatusUnauthorized, "неверный email или пароль")
		return
	}

	sess, _ := s.store.Get(r, sessionName)
	sess.Values["user_id"] = u.ID
	if err := sess.Save(r, w); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "is_admin": u.IsAdmin})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.store.Get(r, sessionName)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
