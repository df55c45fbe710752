package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/Spok95/school-club-portal/internal/models"
)

// EnsureAdmin создаёт учётку администратора при первом старте, если её ещё
// нет. Повторный запуск ничего не делает (конфликт по email глушится).
// Это единственный путь получить is_admin = TRUE: форма регистрации
// админа не создаёт.
func EnsureAdmin(ctx context.Context, database *sql.DB, email, passwordHash string) error {
	if email == "" {
		return nil
	}

	_, err := database.ExecContext(ctx, `
		INSERT INTO users (first_name, last_name, age, role, enrolled_on, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		ON CONFLICT (email) DO NOTHING
	`, "Администратор", "Портала", 0, string(models.Teacher), time.Now(), email, passwordHash)
	return storeErr(err)
}
