package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Spok95/school-club-portal/internal/ctxutil"
	"github.com/Spok95/school-club-portal/internal/db"
	"github.com/Spok95/school-club-portal/internal/metrics"
	"github.com/Spok95/school-club-portal/internal/observability"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func isNotFound(err error) bool { return errors.Is(err, db.ErrNotFound) }

// fail переводит ошибки слоя хранения в HTTP-статусы; всё неожиданное
// уходит в Sentry и наружу как 500 без деталей.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "не найдено")
	case errors.Is(err, db.ErrNoImage):
		writeError(w, http.StatusNotFound, "изображение отсутствует")
	case errors.Is(err, db.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email уже зарегистрирован")
	case errors.Is(err, db.ErrConstraint):
		writeError(w, http.StatusBadRequest, "некорректные данные")
	case errors.Is(err, db.ErrUnavailable):
		metrics.HandlerErrors.Inc()
		s.logFail(r, err)
		writeError(w, http.StatusServiceUnavailable, "сервис временно недоступен")
	default:
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		s.logFail(r, err)
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка")
	}
}

// logFail пишет ошибку вместе с именем операции и участником из контекста.
func (s *Server) logFail(r *http.Request, err error) {
	fields := []any{"path", r.URL.Path, "err", err}
	if op, ok := ctxutil.Op(r.Context()); ok {
		fields = append(fields, "op", op)
	}
	if uid, ok := ctxutil.UserID(r.Context()); ok {
		fields = append(fields, "user", uid)
	}
	s.log.Errorw("handler", fields...)
}

// pathID разбирает {id} из шаблона маршрута.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
