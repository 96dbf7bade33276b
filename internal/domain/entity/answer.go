package entity

import "encoding/json"

// AnswerValue — ответ пользователя на один вопрос: один индекс варианта либо
// набор индексов (для вопросов с несколькими правильными ответами).
// В JSON принимается и число, и массив чисел; внутри всегда нормализован
// к списку индексов.
type AnswerValue []int

// UnmarshalJSON принимает как `2`, так и `[0, 2]`
func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		*a = AnswerValue{single}
		return nil
	}
	var many []int
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*a = AnswerValue(many)
	return nil
}

// Indexes возвращает выбранные индексы
func (a AnswerValue) Indexes() []int {
	return []int(a)
}

// UserAnswers — ответы одной игровой сессии по идентификаторам вопросов.
// Отсутствие ключа означает, что вопрос пропущен (одиночный ответ по
// таймауту не записывается); пустое значение — отправленный пустой выбор
// мультивыборного вопроса.
type UserAnswers map[string]AnswerValue
