package web

import (
	"context"
	"net/http"

	"github.com/Spok95/school-club-portal/internal/ctxutil"
	"github.com/Spok95/school-club-portal/internal/db"
	"github.com/Spok95/school-club-portal/internal/metrics"
	"github.com/Spok95/school-club-portal/internal/models"
)

const sessionName = "clubsession"

type ctxKey int

const keyUser ctxKey = iota

// count — счётчик запросов по имени обработчика.
func (s *Server) count(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequests.WithLabelValues(name).Inc()
		next(w, r.WithContext(ctxutil.WithOp(r.Context(), name)))
	}
}

// sessionUser достаёт залогиненного участника по сессии.
// Возвращает nil без ошибки, если сессии нет или она протухла.
func (s *Server) sessionUser(r *http.Request) (*models.User, error) {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		// битая кука — считаем, что не залогинен
		return nil, nil
	}
	id, ok := sess.Values["user_id"].(int64)
	if !ok {
		return nil, nil
	}
	u, err := db.GetUserByID(r.Context(), s.db, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// requireUser пускает только залогиненных; участник кладётся в контекст.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := s.sessionUser(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if u == nil {
			writeError(w, http.StatusUnauthorized, "требуется вход")
			return
		}
		ctx := context.WithValue(r.Context(), keyUser, u)
		ctx = ctxutil.WithUserID(ctx, u.ID)
		next(w, r.WithContext(ctx))
	}
}

// requireAdmin — только для администраторов. Проверяется флаг IsAdmin,
// роль участника тут ни при чём.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireUser(func(w http.ResponseWriter, r *http.Request) {
		u := userFrom(r.Context())
		if u == nil || !u.IsAdmin {
			writeError(w, http.StatusForbidden, "доступ только для администраторов")
			return
		}
		next(w, r)
	})
}

func userFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(keyUser).(*models.User)
	return u
}
