package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос из пула авторинга.
// После включения в опубликованный экзамен вопрос считается неизменяемым:
// корректность ответов фиксируется в момент записи и никогда не пересчитывается.
type Question struct {
	ID                   uint        `gorm:"primaryKey" json:"id"`
	Header               string      `gorm:"size:500;not null" json:"header"`
	Alternatives         StringArray `gorm:"type:jsonb;not null" json:"alternatives"`
	CorrectAnswer        string      `gorm:"size:255;not null" json:"-"` // Скрыто от клиента
	EducationalIndicator string      `gorm:"size:255;not null;default:''" json:"educational_indicator,omitempty"`
	ProfessorID          uint        `gorm:"not null;index" json:"professor_id"`
	Professor            *Professor  `gorm:"foreignKey:ProfessorID" json:"professor,omitempty"`
	IsActive             bool        `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет, совпадает ли выбранный вариант с правильным ответом
func (q *Question) IsCorrect(selectedAnswer string) bool {
	return selectedAnswer == q.CorrectAnswer
}

// IsValidAlternative проверяет, входит ли выбранный вариант в список альтернатив
func (q *Question) IsValidAlternative(selectedAnswer string) bool {
	for _, alt := range q.Alternatives {
		if alt == selectedAnswer {
			return true
		}
	}
	return false
}

// AlternativesCount возвращает количество вариантов ответа
func (q *Question) AlternativesCount() int {
	return len(q.Alternatives)
}
