package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-club-portal/internal/ctxutil"
	"github.com/Spok95/school-club-portal/internal/models"
)

// CreatePost создаёт публикацию форума. В p.VideoID уже лежит извлечённый
// идентификатор ролика (internal/video), не сырой URL.
func CreatePost(ctx context.Context, database *sql.DB, p models.ForumPost, image []byte, mime *string) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO forum_posts (title, content, image_data, image_mime, video_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.Title, p.Content, image, mime, p.VideoID, p.AuthorID).Scan(&id)
	if err != nil {
		if isFKViolation(err) {
			return 0, fmt.Errorf("автор %d: %w", p.AuthorID, ErrNotFound)
		}
		return 0, translateConstraint(err)
	}
	return id, nil
}

// ListPosts — лента форума, свежие сверху.
func ListPosts(ctx context.Context, database *sql.DB) ([]models.ForumPost, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT p.id, p.title, p.content, p.video_id, p.created_at, p.author_id,
		       p.image_data IS NOT NULL,
		       u.first_name || ' ' || u.last_name AS author_name
		FROM forum_posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC, p.id DESC
	`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.ForumPost{}
	for rows.Next() {
		var p models.ForumPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.VideoID, &p.CreatedAt,
			&p.AuthorID, &p.HasImage, &p.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, storeErr(rows.Err())
}

func GetPostByID(ctx context.Context, database *sql.DB, id int64) (*models.ForumPost, error) {
	row := database.QueryRowContext(ctx, `
		SELECT p.id, p.title, p.content, p.video_id, p.created_at, p.author_id,
		       p.image_data IS NOT NULL,
		       u.first_name || ' ' || u.last_name AS author_name
		FROM forum_posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id)

	var p models.ForumPost
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.VideoID, &p.CreatedAt,
		&p.AuthorID, &p.HasImage, &p.AuthorName)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return &p, nil
}

// DeletePost удаляет публикацию. Блоб картинки лежит в той же строке
// и уходит вместе с ней.
func DeletePost(ctx context.Context, database *sql.DB, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `DELETE FROM forum_posts WHERE id = $1`, id)
	if err != nil {
		return storeErr(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("публикация %d: %w", id, ErrNotFound)
	}
	return nil
}
