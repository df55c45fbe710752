//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Spok95/school-club-portal/internal/db"
	"github.com/Spok95/school-club-portal/internal/models"
	"github.com/Spok95/school-club-portal/internal/testutil/testdb"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	grade := "Пятый класс"
	u := models.User{
		FirstName:    "Света",
		LastName:     "Новикова",
		Age:          11,
		Role:         models.Student,
		Grade:        &grade,
		EnrolledOn:   time.Now().UTC(),
		Email:        "sveta@club.test",
		PasswordHash: "hash",
	}

	if _, err := db.CreateUser(ctx, h.DB, u); err != nil {
		t.Fatal(err)
	}

	_, err = db.CreateUser(ctx, h.DB, u)
	if !errors.Is(err, db.ErrEmailTaken) {
		t.Fatalf("ожидали ErrEmailTaken, получили %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	u := models.User{
		FirstName:    "Борис",
		LastName:     "Волков",
		Age:          35,
		Role:         models.Teacher,
		EnrolledOn:   time.Now().UTC(),
		Email:        "boris@club.test",
		PasswordHash: "hash",
	}
	id, err := db.CreateUser(ctx, h.DB, u)
	if err != nil {
		t.Fatal(err)
	}

	got, err := db.GetUserByEmail(ctx, h.DB, "boris@club.test")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != id || got.Role != models.Teacher || got.IsAdmin {
		t.Fatalf("неожиданный пользователь: %+v", got)
	}
	// роль учителя не делает админом — флаги независимы
	if got.Grade != nil {
		t.Fatal("у учителя не должно быть класса")
	}

	_, err = db.GetUserByEmail(ctx, h.DB, "nobody@club.test")
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}
}

func TestCreateEvent_RejectsBadDates(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	organizer := mustSeedUser(t, h.DB, "Орг", "Анизатор", time.Now().UTC())

	starts := time.Now().UTC().AddDate(0, 0, 10)
	_, err = db.CreateEvent(ctx, h.DB, models.Event{
		Title:       "Неправильное",
		Description: "даты перепутаны",
		StartsAt:    starts,
		EndsAt:      starts.Add(-time.Hour),
		Location:    "спортзал",
		OrganizerID: organizer,
	}, nil, nil)
	if !errors.Is(err, db.ErrConstraint) {
		t.Fatalf("ожидали ErrConstraint, получили %v", err)
	}

	_, err = db.CreateEvent(ctx, h.DB, models.Event{
		Title:       "Сирота",
		Description: "организатора нет",
		StartsAt:    starts,
		EndsAt:      starts.Add(time.Hour),
		Location:    "спортзал",
		OrganizerID: 99999,
	}, nil, nil)
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}
}
