//go:build testutil
// +build testutil

package web_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/school-club-portal/internal/config"
	"github.com/Spok95/school-club-portal/internal/db"
	"github.com/Spok95/school-club-portal/internal/models"
	"github.com/Spok95/school-club-portal/internal/testutil/testdb"
	"github.com/Spok95/school-club-portal/internal/web"
)

const (
	memberPassword = "secret123"
	adminEmail     = "admin@club.test"
	adminPassword  = "admin-secret-1"
)

// newTestPortal поднимает портал поверх одноразового Postgres.
func newTestPortal(t *testing.T) (*httptest.Server, *testdb.DBHandle) {
	t.Helper()

	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Close)

	cfg := &config.Config{
		SessionSecret:  "тестовый-секрет",
		Location:       time.UTC,
		MaxUploadBytes: 16 << 20,
	}
	srv := web.New(h.DB, zap.NewNop().Sugar(), cfg)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, h
}

// newClient — клиент с cookie jar, чтобы сессия жила между запросами.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func postForm(t *testing.T, c *http.Client, rawURL string, form url.Values, wantStatus int) *http.Response {
	t.Helper()
	resp, err := c.PostForm(rawURL, form)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: ожидали %d, получили %d", rawURL, wantStatus, resp.StatusCode)
	}
	return resp
}

func getStatus(t *testing.T, c *http.Client, rawURL string, wantStatus int) *http.Response {
	t.Helper()
	resp, err := c.Get(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: ожидали %d, получили %d", rawURL, wantStatus, resp.StatusCode)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

// registerMember регистрирует ученика через форму и логинит его.
func registerMember(t *testing.T, ts *httptest.Server, c *http.Client, firstName, lastName, email string) {
	t.Helper()
	form := url.Values{
		"first_name":       {firstName},
		"last_name":        {lastName},
		"age":              {"12"},
		"role":             {"student"},
		"grade":            {"Пятый класс"},
		"enrolled_on":      {time.Now().UTC().Format("2006-01-02")},
		"email":            {email},
		"password":         {memberPassword},
		"confirm_password": {memberPassword},
	}
	resp := postForm(t, c, ts.URL+"/register", form, http.StatusCreated)
	_ = resp.Body.Close()
	login(t, ts, c, email, memberPassword)
}

func login(t *testing.T, ts *httptest.Server, c *http.Client, email, password string) {
	t.Helper()
	resp := postForm(t, c, ts.URL+"/login", url.Values{
		"email":    {email},
		"password": {password},
	}, http.StatusOK)
	_ = resp.Body.Close()
}

// seedAdmin создаёт админа тем же путём, что и боевой запуск.
func seedAdmin(t *testing.T, h *testdb.DBHandle) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.EnsureAdmin(context.Background(), h.DB, adminEmail, string(hash)); err != nil {
		t.Fatal(err)
	}
}

func TestAdminGate(t *testing.T) {
	ts, h := newTestPortal(t)

	// без сессии — 401
	resp := postForm(t, newClient(t), ts.URL+"/events/1/attend", url.Values{}, http.StatusUnauthorized)
	_ = resp.Body.Close()

	// обычный участник: вход есть, прав нет
	member := newClient(t)
	registerMember(t, ts, member, "Вера", "Лебедева", "vera@club.test")
	for _, path := range []string{"/analytics", "/analytics/export", "/users"} {
		resp := getStatus(t, member, ts.URL+path, http.StatusForbidden)
		_ = resp.Body.Close()
	}

	// админ проходит
	seedAdmin(t, h)
	admin := newClient(t)
	login(t, ts, admin, adminEmail, adminPassword)
	resp = getStatus(t, admin, ts.URL+"/analytics", http.StatusOK)
	_ = resp.Body.Close()

	var body struct {
		Users []struct {
			Name    string `json:"name"`
			IsAdmin bool   `json:"is_admin"`
		} `json:"users"`
	}
	decodeBody(t, getStatus(t, admin, ts.URL+"/users", http.StatusOK), &body)
	names := map[string]bool{}
	for _, u := range body.Users {
		names[u.Name] = u.IsAdmin
	}
	if isAdmin, ok := names["Вера Лебедева"]; !ok || isAdmin {
		t.Fatalf("в списке должна быть Вера Лебедева без прав админа: %v", names)
	}
}

func TestAttendFlow(t *testing.T) {
	ts, h := newTestPortal(t)
	ctx := context.Background()

	organizerID, err := db.CreateUser(ctx, h.DB, models.User{
		FirstName: "Орг", LastName: "Анизатор", Age: 40, Role: models.Teacher,
		EnrolledOn: time.Now().UTC(), Email: "org@club.test", PasswordHash: "x",
	})
	if err != nil {
		t.Fatal(err)
	}
	starts := time.Now().UTC().AddDate(0, 0, 7)
	eventID, err := db.CreateEvent(ctx, h.DB, models.Event{
		Title: "Шахматный турнир", Description: "описание",
		StartsAt: starts, EndsAt: starts.Add(2 * time.Hour),
		Location: "актовый зал", OrganizerID: organizerID,
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	member := newClient(t)
	registerMember(t, ts, member, "Иван", "Иванов", "ivan@club.test")
	attendURL := fmt.Sprintf("%s/events/%d/attend", ts.URL, eventID)

	var status struct {
		Status string `json:"status"`
	}
	decodeBody(t, postForm(t, member, attendURL, url.Values{}, http.StatusOK), &status)
	if status.Status != "registered" {
		t.Fatalf("ожидали registered, получили %q", status.Status)
	}

	// повтор — не ошибка
	decodeBody(t, postForm(t, member, attendURL, url.Values{}, http.StatusOK), &status)
	if status.Status != "already_registered" {
		t.Fatalf("ожидали already_registered, получили %q", status.Status)
	}

	var card struct {
		Attendees int64 `json:"attendees"`
		Attending bool  `json:"attending"`
	}
	cardURL := fmt.Sprintf("%s/events/%d", ts.URL, eventID)
	decodeBody(t, getStatus(t, member, cardURL, http.StatusOK), &card)
	if card.Attendees != 1 || !card.Attending {
		t.Fatalf("ожидали (1, true), получили (%d, %v)", card.Attendees, card.Attending)
	}

	// гость видит счётчик, но не флаг записи
	decodeBody(t, getStatus(t, newClient(t), cardURL, http.StatusOK), &card)
	if card.Attendees != 1 || card.Attending {
		t.Fatalf("для гостя ожидали (1, false), получили (%d, %v)", card.Attendees, card.Attending)
	}

	resp := getStatus(t, member, ts.URL+"/events/99999", http.StatusNotFound)
	_ = resp.Body.Close()
}

func TestForumPostRoute(t *testing.T) {
	ts, h := newTestPortal(t)
	ctx := context.Background()

	authorID, err := db.CreateUser(ctx, h.DB, models.User{
		FirstName: "Автор", LastName: "Новостей", Age: 35, Role: models.Teacher,
		EnrolledOn: time.Now().UTC(), Email: "author@club.test", PasswordHash: "x",
	})
	if err != nil {
		t.Fatal(err)
	}
	postID, err := db.CreatePost(ctx, h.DB, models.ForumPost{
		Title: "Итоги месяца", Content: "Коротко о главном.", AuthorID: authorID,
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	var body struct {
		Post struct {
			Title      string `json:"title"`
			AuthorName string `json:"author_name"`
		} `json:"post"`
	}
	c := newClient(t)
	decodeBody(t, getStatus(t, c, fmt.Sprintf("%s/forum/%d", ts.URL, postID), http.StatusOK), &body)
	if body.Post.Title != "Итоги месяца" || body.Post.AuthorName != "Автор Новостей" {
		t.Fatalf("неожиданная публикация: %+v", body.Post)
	}

	resp := getStatus(t, c, ts.URL+"/forum/99999", http.StatusNotFound)
	_ = resp.Body.Close()
}

// Контракт выборки — по убыванию активности; JSON для горизонтальной
// диаграммы отдаёт ряд в обратном порядке, чтобы лидер оказался сверху.
func TestAnalyticsTopOrder(t *testing.T) {
	ts, h := newTestPortal(t)
	ctx := context.Background()

	organizerID, err := db.CreateUser(ctx, h.DB, models.User{
		FirstName: "Орг", LastName: "Анизатор", Age: 40, Role: models.Teacher,
		EnrolledOn: time.Now().UTC(), Email: "org2@club.test", PasswordHash: "x",
	})
	if err != nil {
		t.Fatal(err)
	}

	events := make([]int64, 3)
	for i := range events {
		starts := time.Now().UTC().AddDate(0, 0, i+1)
		events[i], err = db.CreateEvent(ctx, h.DB, models.Event{
			Title: fmt.Sprintf("Мероприятие %d", i), Description: "описание",
			StartsAt: starts, EndsAt: starts.Add(time.Hour),
			Location: "спортзал", OrganizerID: organizerID,
		}, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
	}

	// участник i посещает i+1 мероприятий
	for i := 0; i < 3; i++ {
		uid, err := db.CreateUser(ctx, h.DB, models.User{
			FirstName: fmt.Sprintf("Участник%d", i), LastName: "Активный", Age: 12,
			Role: models.Student, EnrolledOn: time.Now().UTC(),
			Email: fmt.Sprintf("active%d@club.test", i), PasswordHash: "x",
		})
		if err != nil {
			t.Fatal(err)
		}
		for j := 0; j <= i; j++ {
			if _, err := db.RegisterAttendee(ctx, h.DB, uid, events[j]); err != nil {
				t.Fatal(err)
			}
		}
	}

	seedAdmin(t, h)
	admin := newClient(t)
	login(t, ts, admin, adminEmail, adminPassword)

	var body struct {
		Top []struct {
			Label string `json:"label"`
			Value int64  `json:"value"`
		} `json:"top_active_users"`
	}
	decodeBody(t, getStatus(t, admin, ts.URL+"/analytics", http.StatusOK), &body)

	if len(body.Top) != 3 {
		t.Fatalf("ожидали три ряда, получили %d", len(body.Top))
	}
	for i := 1; i < len(body.Top); i++ {
		if body.Top[i].Value < body.Top[i-1].Value {
			t.Fatalf("ряд для диаграммы должен идти по возрастанию, позиция %d: %+v", i, body.Top)
		}
	}
	last := body.Top[len(body.Top)-1]
	if last.Value != 3 || last.Label != "Участник2 Активный" {
		t.Fatalf("лидер должен стоять последним: %+v", last)
	}
}
