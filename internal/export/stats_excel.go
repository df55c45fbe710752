package export

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/school-club-portal/internal/db"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// BuildStatsWorkbook собирает четыре аналитические выборки в одну книгу —
// то же, что видит админ на дашборде, но в виде файла.
func BuildStatsWorkbook(ctx context.Context, database *sql.DB, topLimit int) (*excelize.File, error) {
	byEvent, err := db.AttendancePerEvent(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("посещаемость по мероприятиям: %w", err)
	}
	byMonth, err := db.EventsPerMonth(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("мероприятия по месяцам: %w", err)
	}
	topUsers, err := db.TopActiveUsers(ctx, database, topLimit)
	if err != nil {
		return nil, fmt.Errorf("активные участники: %w", err)
	}
	byDay, err := db.RegistrationsPerEnrollmentDate(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("записи по датам: %w", err)
	}

	sheets := []SheetSpec{
		{
			Title:  "По мероприятиям",
			Header: []string{"Мероприятие", "Участников"},
			Rows:   rowsOf(byEvent, func(r db.EventAttendance) []string { return []string{r.Title, i64(r.Attendees)} }),
		},
		{
			Title:  "По месяцам",
			Header: []string{"Месяц", "Мероприятий"},
			Rows:   rowsOf(byMonth, func(r db.MonthCount) []string { return []string{r.Month, i64(r.Events)} }),
		},
		{
			Title:  "Активные участники",
			Header: []string{"Участник", "Посещено мероприятий"},
			Rows:   rowsOf(topUsers, func(r db.UserActivity) []string { return []string{r.Name, i64(r.Events)} }),
		},
		{
			Title:  "Записи в клуб",
			Header: []string{"Дата записи", "Участников"},
			Rows:   rowsOf(byDay, func(r db.DayCount) []string { return []string{r.Day.Format("2006-01-02"), i64(r.Users)} }),
		},
	}
	return NewWorkbook(sheets)
}

// NewWorkbook раскладывает листы с жирными заголовками, автофильтром
// и эвристической шириной колонок.
func NewWorkbook(sheets []SheetSpec) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}
		// заголовки
		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		// стиль заголовков + автофильтр
		end := colName(len(s.Header)) + "1"
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		// строки
		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		// эвристическая ширина: по длине заголовка и первых строк
		for c := 1; c <= len(s.Header); c++ {
			maxim := len(s.Header[c-1])
			for r := 0; r < minim(50, len(s.Rows)); r++ {
				if l := len(s.Rows[r][c-1]); l > maxim {
					maxim = l
				}
			}
			w := float64(maxim) * 0.9
			if w < 12 {
				w = 12
			}
			if w > 40 {
				w = 40
			}
			_ = f.SetColWidth(name, colName(c), colName(c), w)
		}
	}
	return f, nil
}

// WriteWorkbook отдаёт книгу в поток (для HTTP-выгрузки, без temp-файлов).
func WriteWorkbook(f *excelize.File, w io.Writer) error {
	return f.Write(w)
}

// helpers

func rowsOf[T any](in []T, conv func(T) []string) [][]string {
	out := make([][]string, 0, len(in))
	for _, r := range in {
		out = append(out, conv(r))
	}
	return out
}

func i64(n int64) string { return strconv.FormatInt(n, 10) }

func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
