package service

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	"github.com/yourusername/cinetrivia-api/internal/domain/repository"
)

// PlayService фиксирует завершенные игры: грейдит ответы, обновляет
// агрегированную статистику викторины и ведет журнал сыгранных игр.
type PlayService struct {
	quizRepo       repository.QuizRepository
	playRecordRepo repository.PlayRecordRepository
}

// NewPlayService создает новый сервис завершения игр
func NewPlayService(quizRepo repository.QuizRepository, playRecordRepo repository.PlayRecordRepository) *PlayService {
	return &PlayService{
		quizRepo:       quizRepo,
		playRecordRepo: playRecordRepo,
	}
}

// accumulateQuestionStats — чистое преобразование над копией статистики
// вопроса: attempts++, корзина каждого выбранного варианта++, correct++
// при верном ответе. Исходная структура не мутируется.
func accumulateQuestionStats(stats entity.QuestionStats, question *entity.Question, answer entity.AnswerValue) entity.QuestionStats {
	updated := stats.Clone()
	if updated.Answers == nil {
		updated.Answers = map[int]int{}
	}
	updated.Attempts++
	for _, idx := range answer.Indexes() {
		updated.Answers[idx]++
	}
	if question.IsCorrect(answer.Indexes()) {
		updated.Correct++
	}
	return updated
}

// Score подсчитывает итоговый счет: количество вопросов викторины,
// отвеченных верно. Пропущенные вопросы считаются неверными.
// Грейдинг — та же entity.Question.IsCorrect, что и при живой игре.
func (s *PlayService) Score(quiz *entity.Quiz, answers entity.UserAnswers) int {
	score := 0
	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		answer, ok := answers[question.ID]
		if !ok {
			continue
		}
		if question.IsCorrect(answer.Indexes()) {
			score++
		}
	}
	return score
}

// FinishPlay фиксирует завершенную игру.
//
// Инвариант play-once: если userID уже есть в played_by, статистика не
// мутируется — повторное завершение никогда не приводит к двойному счету.
// Запись в журнал истории создается на каждую завершенную игру.
// Неаутентифицированная игра (пустой userID) получает результат для
// локального отображения, но ничего не сохраняет.
func (s *PlayService) FinishPlay(quiz *entity.Quiz, answers entity.UserAnswers, userID string) (*entity.Quiz, *entity.UserPlayRecord, error) {
	score := s.Score(quiz, answers)
	record := &entity.UserPlayRecord{
		UserID:         userID,
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		Category:       quiz.Category,
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		CompletedAt:    time.Now(),
	}

	if userID == "" {
		return quiz, record, nil
	}

	if quiz.HasPlayed(userID) {
		// Повторное завершение — определенный no-op, не ошибка
		log.Printf("[PlayService] Пользователь %s уже сыграл викторину %s, статистика не обновляется", userID, quiz.ID)
		if err := s.playRecordRepo.Create(record); err != nil {
			return nil, nil, fmt.Errorf("failed to append play record: %w", err)
		}
		return quiz, record, nil
	}

	updated := *quiz
	updated.Stats = quiz.Stats.Clone()
	updated.PlayedBy = append(append(entity.StringArray{}, quiz.PlayedBy...), userID)
	updated.Stats.TotalPlays++

	correctInThisPlay := 0
	for questionID, answer := range answers {
		question := updated.QuestionByID(questionID)
		if question == nil {
			// Вопрос удален конкурирующим редактированием — молча пропускаем
			continue
		}
		qStats, ok := updated.Stats.QuestionStats[questionID]
		if !ok {
			qStats = entity.QuestionStats{Answers: map[int]int{}}
		}
		updated.Stats.QuestionStats[questionID] = accumulateQuestionStats(qStats, question, answer)
		if question.IsCorrect(answer.Indexes()) {
			correctInThisPlay++
		}
	}
	updated.Stats.TotalCorrectAnswers += correctInThisPlay

	recorded, err := s.quizRepo.RecordPlay(quiz.ID, userID, updated.Stats, updated.PlayedBy)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record play: %w", err)
	}
	if !recorded {
		// Конкурирующий дубликат успел первым — возвращаем исходное состояние
		log.Printf("[PlayService] Игра пользователя %s в викторине %s уже засчитана конкурирующим запросом", userID, quiz.ID)
		if err := s.playRecordRepo.Create(record); err != nil {
			return nil, nil, fmt.Errorf("failed to append play record: %w", err)
		}
		return quiz, record, nil
	}

	if err := s.playRecordRepo.Create(record); err != nil {
		return nil, nil, fmt.Errorf("failed to append play record: %w", err)
	}

	log.Printf("[PlayService] Игра засчитана: викторина %s, пользователь %s, счет %d/%d",
		quiz.ID, userID, score, len(quiz.Questions))
	return &updated, record, nil
}
