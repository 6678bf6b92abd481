package entity

// ScoreAnswers подсчитывает итог сессии: количество правильных ответов и
// процент от totalQuestions. Чистая функция: не обращается к базе и не
// пересчитывает корректность — использует только флаги, зафиксированные
// при записи ответов. Неотвеченные вопросы считаются неправильными.
//
// totalQuestions — значение, скопированное в сессию при старте, а не текущая
// длина экзамена: исторические оценки стабильны даже при изменении экзамена.
// Процент не округляется, округление — забота слоя представления.
func ScoreAnswers(answers []ExamAnswer, totalQuestions int) (correctCount int, percentage float64) {
	for i := range answers {
		if answers[i].IsCorrect {
			correctCount++
		}
	}
	if totalQuestions <= 0 {
		return correctCount, 0
	}
	percentage = float64(correctCount) / float64(totalQuestions) * 100
	return correctCount, percentage
}
