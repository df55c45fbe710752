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

func TestForumPostLifecycle(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	authorID := mustSeedUser(t, h.DB, "Автор", "Публикаций", time.Now().UTC())

	videoID := "dQw4w9WgXcQ"
	id, err := db.CreatePost(ctx, h.DB, models.ForumPost{
		Title:    "Отчёт о турнире",
		Content:  "Фотографии и видео с прошедшего турнира.",
		VideoID:  &videoID,
		AuthorID: authorID,
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	p, err := db.GetPostByID(ctx, h.DB, id)
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Отчёт о турнире" || p.AuthorID != authorID {
		t.Fatalf("неожиданная публикация: %+v", p)
	}
	if p.VideoID == nil || *p.VideoID != videoID {
		t.Fatalf("ожидали video_id %q, получили %v", videoID, p.VideoID)
	}
	if p.AuthorName != "Автор Публикаций" {
		t.Fatalf("ожидали имя автора из JOIN, получили %q", p.AuthorName)
	}

	if _, err := db.GetPostByID(ctx, h.DB, 99999); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}

	if err := db.DeletePost(ctx, h.DB, id); err != nil {
		t.Fatal(err)
	}
	if err := db.DeletePost(ctx, h.DB, id); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("повторное удаление должно дать ErrNotFound, получили %v", err)
	}
}
