package entity

import (
	"time"
)

// Роли пользователей. Аутентификация выполняется внешним сервисом,
// роль приходит в составе access-токена и дублируется здесь для выборок.
const (
	UserRoleStudent = "student"
	UserRoleAdmin   = "admin"
)

// User представляет пользователя (студента или администратора).
// Учетные данные хранятся во внешнем сервисе аутентификации,
// здесь только проекция для истории результатов.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"size:20;not null;default:'student'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
