package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/school-club-portal/internal/ctxutil"
	"github.com/Spok95/school-club-portal/internal/models"
)

// CreateUser регистрирует нового участника. Дубликат email превращается
// в ErrEmailTaken, прочие нарушения схемы — в ErrConstraint.
func CreateUser(ctx context.Context, database *sql.DB, u models.User) (int64, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO users (first_name, last_name, age, role, grade, enrolled_on, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, u.FirstName, u.LastName, u.Age, string(u.Role), u.Grade, u.EnrolledOn, u.Email, u.PasswordHash, u.IsAdmin).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, translateConstraint(err)
	}
	return id, nil
}

func GetUserByID(ctx context.Context, database *sql.DB, id int64) (*models.User, error) {
	row := database.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, age, role, grade, enrolled_on, email, password_hash, is_admin
		FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

func GetUserByEmail(ctx context.Context, database *sql.DB, email string) (*models.User, error) {
	row := database.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, age, role, grade, enrolled_on, email, password_hash, is_admin
		FROM users WHERE email = $1
	`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Age, &role, &u.Grade,
		&u.EnrolledOn, &u.Email, &u.PasswordHash, &u.IsAdmin)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	u.Role = models.Role(role)
	return &u, nil
}

// ListUsers — все участники для админских выгрузок, по фамилии.
func ListUsers(ctx context.Context, database *sql.DB) ([]models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `
		SELECT id, first_name, last_name, age, role, grade, enrolled_on, email, password_hash, is_admin
		FROM users
		ORDER BY LOWER(last_name), LOWER(first_name), id
	`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Age, &role, &u.Grade,
			&u.EnrolledOn, &u.Email, &u.PasswordHash, &u.IsAdmin); err != nil {
			return nil, err
		}
		u.Role = models.Role(role)
		out = append(out, u)
	}
	return out, storeErr(rows.Err())
}
