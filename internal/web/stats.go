package web

import (
	"net/http"
	"time"

	"github.com/Spok95/school-club-portal/internal/db"
	"github.com/Spok95/school-club-portal/internal/export"
)

// Сколько участников показываем в топе активности.
const topActiveLimit = 20

type chartPoint struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// handleAnalytics — данные для четырёх диаграмм админского дашборда.
// Сами картинки рисует клиент; здесь только ряды.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	byEvent, err := db.AttendancePerEvent(ctx, s.db)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	byMonth, err := db.EventsPerMonth(ctx, s.db)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	topUsers, err := db.TopActiveUsers(ctx, s.db, topActiveLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	byDay, err := db.RegistrationsPerEnrollmentDate(ctx, s.db)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	attendance := make([]chartPoint, 0, len(byEvent))
	for _, row := range byEvent {
		attendance = append(attendance, chartPoint{Label: row.Title, Value: row.Attendees})
	}
	months := make([]chartPoint, 0, len(byMonth))
	for _, row := range byMonth {
		months = append(months, chartPoint{Label: row.Month, Value: row.Events})
	}
	// Разворот только для горизонтальной диаграммы: самый активный
	// участник должен оказаться верхней полосой. Контракт запроса —
	// по убыванию; это чисто презентационная перестановка.
	active := make([]chartPoint, 0, len(topUsers))
	for i := len(topUsers) - 1; i >= 0; i-- {
		active = append(active, chartPoint{Label: topUsers[i].Name, Value: topUsers[i].Events})
	}
	enrollments := make([]chartPoint, 0, len(byDay))
	for _, row := range byDay {
		enrollments = append(enrollments, chartPoint{Label: row.Day.Format("2006-01-02"), Value: row.Users})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"attendance_per_event": attendance,
		"events_per_month":     months,
		"top_active_users":     active,
		"enrollments_per_day":  enrollments,
	})
}

// handleAnalyticsExport — те же четыре выборки одним XLSX-файлом.
func (s *Server) handleAnalyticsExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.BuildStatsWorkbook(r.Context(), s.db, topActiveLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	filename := "club_stats_" + time.Now().In(s.cfg.Location).Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := export.WriteWorkbook(f, w); err != nil {
		s.log.Errorw("выгрузка аналитики", "err", err)
	}
}
