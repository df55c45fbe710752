package web

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Spok95/school-club-portal/internal/db"
)

// Разрешённые расширения картинок — как в исходной форме загрузки.
var imageMimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// readImageUpload читает необязательный файл из multipart-формы.
// Возвращает (nil, nil, nil), если файла нет.
func readImageUpload(r *http.Request, field string) ([]byte, *string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, errors.New("не удалось прочитать файл")
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	mime, ok := imageMimeByExt[ext]
	if !ok {
		return nil, nil, errors.New("допускаются только изображения JPG, JPEG и PNG")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, errors.New("не удалось прочитать файл")
	}
	return data, &mime, nil
}

// serveImage отдаёт блоб с его MIME. «Нет строки» и «нет картинки»
// слой db различает, но для клиента оба случая — 404.
func (s *Server) serveImage(w http.ResponseWriter, r *http.Request, owner db.ImageOwner) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "некорректный id")
		return
	}

	data, mime, err := db.GetImage(r.Context(), s.db, owner, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	_, _ = w.Write(data)
}

func (s *Server) handleEventImage(w http.ResponseWriter, r *http.Request) {
	s.serveImage(w, r, db.OwnerEvent)
}

func (s *Server) handlePostImage(w http.ResponseWriter, r *http.Request) {
	s.serveImage(w, r, db.OwnerPost)
}
