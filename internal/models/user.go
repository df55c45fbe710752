package models

import "time"

type Role string

const (
	Student Role = "student"
	Parent  Role = "parent"
	Teacher Role = "teacher"
)

// User — участник клуба.
// Role и IsAdmin — независимые поля: роль описывает, кем человек является
// в школе, а IsAdmin даёт права на управление порталом. Регистрация через
// форму никогда не выставляет IsAdmin.
type User struct {
	ID           int64     `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Age          int       `db:"age"`
	Role         Role      `db:"role"`
	Grade        *string   `db:"grade"` // обязателен только для учеников
	EnrolledOn   time.Time `db:"enrolled_on"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
