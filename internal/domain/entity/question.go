package entity

import (
	"fmt"
	"sort"
)

// Ограничения на количество вариантов ответа
const (
	MinOptionsPerQuestion = 2
	MaxOptionsPerQuestion = 6
)

// Условия показа пояснения к вопросу
const (
	FeedbackAlways      = "ALWAYS"
	FeedbackOnCorrect   = "ON_CORRECT"
	FeedbackOnIncorrect = "ON_INCORRECT"
)

// QuestionFeedback — пояснение, показываемое игроку после ответа
type QuestionFeedback struct {
	Text             string `json:"text"`
	DisplayCondition string `json:"display_condition"`
}

// Question представляет вопрос викторины.
// Вопросы хранятся внутри JSONB-колонки викторины, а не отдельной таблицей:
// редактирование викторины всегда заменяет список целиком.
type Question struct {
	ID                   string            `json:"id"`
	Text                 string            `json:"text"`
	Image                string            `json:"image,omitempty"`
	Options              []string          `json:"options"`
	CorrectAnswerIndexes []int             `json:"correct_answer_indexes"`
	TimeLimitSec         int               `json:"time_limit_sec,omitempty"` // 0 — таймер вопроса отключен
	Feedback             *QuestionFeedback `json:"feedback,omitempty"`
}

// IsCorrect проверяет, совпадает ли выбранный набор вариантов с правильным.
// Сравнение — по множествам, порядок индексов не имеет значения.
// Единственная реализация грейдинга: используется и при живой игре,
// и при подсчете итогового счета, и при агрегации статистики.
func (q *Question) IsCorrect(selected []int) bool {
	// Пустой выбор всегда неверен. Пустой правильный набор запрещен
	// инвариантом модели, но на всякий случай тоже считаем неверным.
	if len(selected) == 0 || len(q.CorrectAnswerIndexes) == 0 {
		return false
	}
	if len(selected) != len(q.CorrectAnswerIndexes) {
		return false
	}

	a := append([]int(nil), selected...)
	b := append([]int(nil), q.CorrectAnswerIndexes...)
	sort.Ints(a)
	sort.Ints(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsMultiAnswer возвращает true, если у вопроса несколько правильных вариантов
func (q *Question) IsMultiAnswer() bool {
	return len(q.CorrectAnswerIndexes) > 1
}

// IsValidOption проверяет, является ли индекс допустимым вариантом
func (q *Question) IsValidOption(index int) bool {
	return index >= 0 && index < len(q.Options)
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// FeedbackFor возвращает текст пояснения, если его условие показа
// выполняется для данного исхода ответа
func (q *Question) FeedbackFor(isCorrect bool) (string, bool) {
	if q.Feedback == nil || q.Feedback.Text == "" {
		return "", false
	}
	switch q.Feedback.DisplayCondition {
	case FeedbackAlways:
		return q.Feedback.Text, true
	case FeedbackOnCorrect:
		if isCorrect {
			return q.Feedback.Text, true
		}
	case FeedbackOnIncorrect:
		if !isCorrect {
			return q.Feedback.Text, true
		}
	}
	return "", false
}

// Validate проверяет инварианты вопроса при авторинге
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if len(q.Options) < MinOptionsPerQuestion || len(q.Options) > MaxOptionsPerQuestion {
		return fmt.Errorf("question must have between %d and %d options", MinOptionsPerQuestion, MaxOptionsPerQuestion)
	}
	for i, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("option %d must not be empty", i)
		}
	}
	if len(q.CorrectAnswerIndexes) == 0 {
		return fmt.Errorf("question must have at least one correct answer")
	}
	seen := make(map[int]bool, len(q.CorrectAnswerIndexes))
	for _, idx := range q.CorrectAnswerIndexes {
		if !q.IsValidOption(idx) {
			return fmt.Errorf("correct answer index %d is out of range", idx)
		}
		if seen[idx] {
			return fmt.Errorf("correct answer index %d is duplicated", idx)
		}
		seen[idx] = true
	}
	if q.TimeLimitSec < 0 {
		return fmt.Errorf("question time limit must not be negative")
	}
	if q.Feedback != nil {
		switch q.Feedback.DisplayCondition {
		case FeedbackAlways, FeedbackOnCorrect, FeedbackOnIncorrect:
		default:
			return fmt.Errorf("unknown feedback display condition %q", q.Feedback.DisplayCondition)
		}
	}
	return nil
}

// CriticalFieldsEqual сравнивает "критичные" поля вопроса — те, изменение
// которых обесценивает собранную статистику. Сравнение структурное,
// поле за полем (без сериализации).
func (q *Question) CriticalFieldsEqual(other *Question) bool {
	if q.Text != other.Text || q.Image != other.Image || q.TimeLimitSec != other.TimeLimitSec {
		return false
	}
	if len(q.Options) != len(other.Options) {
		return false
	}
	for i := range q.Options {
		if q.Options[i] != other.Options[i] {
			return false
		}
	}
	if len(q.CorrectAnswerIndexes) != len(other.CorrectAnswerIndexes) {
		return false
	}
	a := append([]int(nil), q.CorrectAnswerIndexes...)
	b := append([]int(nil), other.CorrectAnswerIndexes...)
	sort.Ints(a)
	sort.Ints(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
