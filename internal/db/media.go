package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-club-portal/internal/ctxutil"
)

// ImageOwner — чья картинка: мероприятия или публикации форума.
type ImageOwner string

const (
	OwnerEvent ImageOwner = "event"
	OwnerPost  ImageOwner = "forum_post"
)

// Имя таблицы выбирается по фиксированному перечню — пользовательский
// ввод в текст запроса не попадает никогда.
func ownerTable(owner ImageOwner) (string, error) {
	switch owner {
	case OwnerEvent:
		return "events", nil
	case OwnerPost:
		return "forum_posts", nil
	}
	return "", fmt.Errorf("неизвестный владелец изображения %q", owner)
}

// SetImage привязывает картинку к мероприятию или публикации.
// Валидация содержимого (расширение, MIME, размер) — забота загрузчика.
func SetImage(ctx context.Context, database *sql.DB, owner ImageOwner, id int64, data []byte, mime string) error {
	table, err := ownerTable(owner)
	if err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx,
		`UPDATE `+table+` SET image_data = $2, image_mime = $3 WHERE id = $1`,
		id, data, mime)
	if err != nil {
		return storeErr(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%s %d: %w", owner, id, ErrNotFound)
	}
	return nil
}

// GetImage возвращает (байты, MIME). Различаем два случая:
// строки нет — ErrNotFound, строка есть, но без картинки — ErrNoImage.
func GetImage(ctx context.Context, database *sql.DB, owner ImageOwner, id int64) ([]byte, string, error) {
	table, err := ownerTable(owner)
	if err != nil {
		return nil, "", err
	}

	var data []byte
	var mime sql.NullString
	err = database.QueryRowContext(ctx,
		`SELECT image_data, image_mime FROM `+table+` WHERE id = $1`, id).Scan(&data, &mime)
	if err != nil {
		return nil, "", notFoundIfNoRows(err)
	}
	if data == nil || !mime.Valid {
		return nil, "", fmt.Errorf("%s %d: %w", owner, id, ErrNoImage)
	}
	return data, mime.String, nil
}
