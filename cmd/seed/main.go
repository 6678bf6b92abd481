package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/config"
	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	pgRepo "github.com/yourusername/exam-api/internal/repository/postgres"
	"github.com/yourusername/exam-api/pkg/database"
)

// seedQuestion — строка файла выгрузки пула вопросов
type seedQuestion struct {
	Header               string   `json:"header"`
	Alternatives         []string `json:"alternatives"`
	CorrectAnswer        string   `json:"correct_answer"`
	EducationalIndicator string   `json:"educational_indicator"`
	Professor            struct {
		Name    string `json:"name"`
		Subject string `json:"subject"`
	} `json:"professor"`
}

// Утилита синхронизации пула вопросов с выгрузкой подсистемы авторинга.
// Вопросы из файла создаются или обновляются; активные вопросы, которых
// в файле больше нет, деактивируются. Вопросы с уже записанными ответами
// не изменяются (история оценок неприкосновенна).
func main() {
	seedPath := flag.String("file", "seed/questions.json", "путь к файлу выгрузки пула вопросов")
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		log.Fatalf("Failed to read seed file %s: %v", *seedPath, err)
	}

	var seeds []seedQuestion
	if err := json.Unmarshal(data, &seeds); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	questionRepo := pgRepo.NewQuestionRepo(db)

	created, updated, skipped := 0, 0, 0
	seen := make(map[string]bool, len(seeds))

	for _, s := range seeds {
		if s.Header == "" || s.CorrectAnswer == "" || len(s.Alternatives) < 2 || s.Professor.Name == "" {
			log.Printf("[Seed] Пропуск некорректной записи: %q", s.Header)
			continue
		}
		seen[s.Header] = true

		professor, err := upsertProfessor(db, s.Professor.Name, s.Professor.Subject)
		if err != nil {
			log.Fatalf("Failed to upsert professor %q: %v", s.Professor.Name, err)
		}

		// Вопрос идентифицируется заголовком в рамках выгрузки
		var existing entity.Question
		err = db.Where("header = ?", s.Header).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			question := &entity.Question{
				Header:               s.Header,
				Alternatives:         entity.StringArray(s.Alternatives),
				CorrectAnswer:        s.CorrectAnswer,
				EducationalIndicator: s.EducationalIndicator,
				ProfessorID:          professor.ID,
				IsActive:             true,
			}
			if err := questionRepo.Create(question); err != nil {
				log.Fatalf("Failed to create question %q: %v", s.Header, err)
			}
			created++
		case err != nil:
			log.Fatalf("Failed to look up question %q: %v", s.Header, err)
		default:
			existing.Alternatives = entity.StringArray(s.Alternatives)
			existing.CorrectAnswer = s.CorrectAnswer
			existing.EducationalIndicator = s.EducationalIndicator
			existing.IsActive = true
			existing.ProfessorID = professor.ID
			err := questionRepo.Update(&existing)
			if errors.Is(err, repository.ErrQuestionInUse) {
				// На вопрос уже отвечали; правка исказила бы историю оценок
				log.Printf("[Seed] Вопрос #%d (%q) уже используется, пропускаю обновление", existing.ID, s.Header)
				skipped++
				continue
			}
			if err != nil {
				log.Fatalf("Failed to update question %q: %v", s.Header, err)
			}
			updated++
		}
	}

	deactivated, err := deactivateMissing(db, questionRepo, seen)
	if err != nil {
		log.Fatalf("Failed to deactivate removed questions: %v", err)
	}

	log.Printf("[Seed] Готово: создано %d, обновлено %d, пропущено %d, деактивировано %d",
		created, updated, skipped, deactivated)
}

// upsertProfessor находит или создает преподавателя по имени
func upsertProfessor(db *gorm.DB, name, subject string) (*entity.Professor, error) {
	var professor entity.Professor
	err := db.Where("name = ?", name).
		Attrs(entity.Professor{Name: name, Subject: subject}).
		FirstOrCreate(&professor).Error
	if err != nil {
		return nil, err
	}
	return &professor, nil
}

// deactivateMissing деактивирует активные вопросы, отсутствующие в выгрузке
func deactivateMissing(db *gorm.DB, repo *pgRepo.QuestionRepo, seen map[string]bool) (int, error) {
	activeIDs, err := repo.GetActiveIDs()
	if err != nil {
		return 0, err
	}

	deactivated := 0
	for _, id := range activeIDs {
		question, err := repo.GetByID(id)
		if err != nil {
			return deactivated, err
		}
		if seen[question.Header] {
			continue
		}
		if err := repo.Deactivate(id); err != nil {
			return deactivated, err
		}
		log.Printf("[Seed] Вопрос #%d (%q) деактивирован", id, question.Header)
		deactivated++
	}
	return deactivated, nil
}
