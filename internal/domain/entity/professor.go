package entity

import (
	"time"
)

// Professor представляет автора вопросов.
// Управляется внешней подсистемой авторинга; здесь только для отображения
// имени и предмета в административных выгрузках экзаменов.
type Professor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Subject   string    `gorm:"size:100;not null;default:''" json:"subject"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Professor) TableName() string {
	return "professors"
}
