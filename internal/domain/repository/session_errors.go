package repository

import "errors"

// Ошибки-предусловия жизненного цикла сессии и генерации экзамена.
// Возвращаются репозиториями, когда нарушение обнаруживает сама база
// (уникальные индексы, guarded UPDATE), и сервисами при проверках статусов.
var (
	// ErrAlreadyAttempted означает, что у пользователя уже есть попытка
	// (в любом статусе) для данного экзамена. Повторные попытки запрещены.
	ErrAlreadyAttempted = errors.New("exam already attempted by this user")

	// ErrQuestionAlreadyAnswered означает, что в сессии уже записан ответ
	// на данный вопрос. Ответы принимаются ровно один раз.
	ErrQuestionAlreadyAnswered = errors.New("question already answered in this session")

	// ErrSessionCompleted означает, что сессия уже завершена и неизменяема.
	ErrSessionCompleted = errors.New("session already completed")

	// ErrExamNotActive означает, что экзамен не находится в статусе ACTIVE.
	ErrExamNotActive = errors.New("exam is not active")

	// ErrInsufficientPool означает, что активных вопросов в пуле меньше,
	// чем запрошено для генерации экзамена.
	ErrInsufficientPool = errors.New("not enough active questions in the pool")

	// ErrQuestionInUse означает, что вопрос уже фигурирует в записанных
	// ответах и его изменение запрещено.
	ErrQuestionInUse = errors.New("question is referenced by recorded answers")
)
