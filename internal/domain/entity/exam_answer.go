package entity

import (
	"time"
)

// ExamAnswer представляет ответ студента на один вопрос сессии.
// Записи только добавляются, никогда не обновляются и не удаляются
// (кроме каскадного удаления вместе с сессией). Уникальный индекс
// idx_result_question гарантирует не более одного ответа на пару
// (session, question).
//
// IsCorrect вычисляется в момент записи сравнением с правильным ответом
// вопроса; последующее изменение вопроса не влияет на сохраненную оценку.
type ExamAnswer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ExamResultID   uint      `gorm:"not null;index;uniqueIndex:idx_result_question" json:"exam_result_id"`
	QuestionID     uint      `gorm:"not null;index;uniqueIndex:idx_result_question" json:"question_id"`
	SelectedAnswer string    `gorm:"size:255;not null" json:"selected_answer"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	TimeSpentSec   *int      `json:"time_spent_sec,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (ExamAnswer) TableName() string {
	return "exam_answers"
}
