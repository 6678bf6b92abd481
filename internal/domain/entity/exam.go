package entity

import (
	"time"
)

// Константы статусов экзамена
const (
	ExamStatusActive = "ACTIVE"
	ExamStatusClosed = "CLOSED"
)

// Exam представляет сгенерированный экзамен: упорядоченная неизменяемая
// выборка вопросов из пула. Список вопросов фиксируется при создании,
// длина списка всегда равна TotalQuestions.
type Exam struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:100;not null" json:"title"`
	Description    string         `gorm:"size:500;not null;default:''" json:"description"`
	TotalQuestions int            `gorm:"not null" json:"total_questions"`
	Status         string         `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	ExamQuestions  []ExamQuestion `gorm:"foreignKey:ExamID" json:"exam_questions,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Exam) TableName() string {
	return "exams"
}

// IsActive проверяет, доступен ли экзамен для начала сессий
func (e *Exam) IsActive() bool {
	return e.Status == ExamStatusActive
}

// IsClosed проверяет, закрыт ли экзамен
func (e *Exam) IsClosed() bool {
	return e.Status == ExamStatusClosed
}

// ExamQuestion связывает экзамен с вопросом и задает позицию вопроса.
// Позиции образуют плотную последовательность 1..N без дубликатов,
// что гарантируется уникальными индексами (exam_id, position) и
// (exam_id, question_id).
type ExamQuestion struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExamID     uint      `gorm:"not null;index;uniqueIndex:idx_exam_position;uniqueIndex:idx_exam_question" json:"exam_id"`
	QuestionID uint      `gorm:"not null;index;uniqueIndex:idx_exam_question" json:"question_id"`
	Position   int       `gorm:"not null;uniqueIndex:idx_exam_position" json:"position"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// FindQuestion возвращает вопрос экзамена по его ID или nil, если вопрос
// не входит в экзамен. Требует предзагруженных ExamQuestions.
func (e *Exam) FindQuestion(questionID uint) *Question {
	for i := range e.ExamQuestions {
		if e.ExamQuestions[i].QuestionID == questionID && e.ExamQuestions[i].Question != nil {
			return e.ExamQuestions[i].Question
		}
	}
	return nil
}
