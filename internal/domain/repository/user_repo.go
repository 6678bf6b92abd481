package repository

import (
	"github.com/yourusername/exam-api/internal/domain/entity"
)

// UserRepository определяет методы для чтения проекции пользователей.
// Учетные записи ведет внешний сервис аутентификации.
type UserRepository interface {
	GetByID(id uint) (*entity.User, error)
}
