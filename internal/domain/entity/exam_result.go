package entity

import (
	"time"
)

// Константы статусов сессии (попытки сдачи экзамена)
const (
	SessionStatusInProgress = "IN_PROGRESS"
	SessionStatusCompleted  = "COMPLETED"
)

// ExamResult представляет единственную попытку пользователя сдать экзамен.
// Уникальный индекс idx_user_exam гарантирует не более одной попытки на пару
// (user, exam) — проверка выполняется базой, а не кодом приложения.
// Переход IN_PROGRESS → COMPLETED выполняется ровно один раз; после этого
// запись и её ответы неизменяемы.
type ExamResult struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"not null;index;uniqueIndex:idx_user_exam" json:"user_id"`
	ExamID         uint         `gorm:"not null;index;uniqueIndex:idx_user_exam" json:"exam_id"`
	TotalQuestions int          `gorm:"not null" json:"total_questions"` // Копия exam.total_questions на момент старта
	TotalScore     int          `gorm:"not null;default:0" json:"total_score"`
	Percentage     float64      `gorm:"not null;default:0" json:"percentage"`
	Status         string       `gorm:"size:20;not null;default:'IN_PROGRESS';index" json:"status"`
	StartedAt      time.Time    `gorm:"not null" json:"started_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	Answers        []ExamAnswer `gorm:"foreignKey:ExamResultID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
	Exam           *Exam        `gorm:"foreignKey:ExamID" json:"exam,omitempty"`
	User           *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (ExamResult) TableName() string {
	return "exam_results"
}

// IsInProgress проверяет, идет ли сессия
func (r *ExamResult) IsInProgress() bool {
	return r.Status == SessionStatusInProgress
}

// IsCompleted проверяет, завершена ли сессия
func (r *ExamResult) IsCompleted() bool {
	return r.Status == SessionStatusCompleted
}
