package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/Spok95/school-club-portal/internal/db"
	"github.com/Spok95/school-club-portal/internal/models"
	"github.com/Spok95/school-club-portal/internal/video"
)

type postView struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	VideoID    *string   `json:"video_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	HasImage   bool      `json:"has_image"`
}

func (s *Server) handleForum(w http.ResponseWriter, r *http.Request) {
	posts, err := db.ListPosts(r.Context(), s.db)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		out = append(out, postView{
			ID: p.ID, Title: p.Title, Content: p.Content, VideoID: p.VideoID,
			CreatedAt: p.CreatedAt, AuthorID: p.AuthorID, AuthorName: p.AuthorName,
			HasImage: p.HasImage,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": out})
}

// handleForumPost — одна публикация по id.
func (s *Server) handleForumPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "некорректный id публикации")
		return
	}

	p, err := db.GetPostByID(r.Context(), s.db, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": postView{
		ID: p.ID, Title: p.Title, Content: p.Content, VideoID: p.VideoID,
		CreatedAt: p.CreatedAt, AuthorID: p.AuthorID, AuthorName: p.AuthorName,
		HasImage: p.HasImage,
	}})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "форма слишком большая")
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")
	if title == "" || content == "" {
		writeError(w, http.StatusBadRequest, "заголовок и текст обязательны")
		return
	}

	// Ссылку на видео не храним — только извлечённый идентификатор.
	var videoID *string
	if raw := r.PostFormValue("video_url"); raw != "" {
		id, err := video.ExtractID(raw)
		if err != nil {
			if errors.Is(err, video.ErrInvalidURL) {
				writeError(w, http.StatusBadRequest, "поддерживаются только ссылки на YouTube")
				return
			}
			s.fail(w, r, err)
			return
		}
		videoID = &id
	}

	image, mime, err := readImageUpload(r, "image")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := db.CreatePost(r.Context(), s.db, models.ForumPost{
		Title:    title,
		Content:  content,
		VideoID:  videoID,
		AuthorID: u.ID,
	}, image, mime)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.Infow("публикация создана", "id", id, "author", u.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "некорректный id публикации")
		return
	}

	if err := db.DeletePost(r.Context(), s.db, id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Infow("публикация удалена", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
