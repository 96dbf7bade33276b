package playsession

import "time"

// CancelFunc отменяет запланированную задачу. Повторный вызов безопасен.
// Возвращает true, если задача была отменена до срабатывания.
type CancelFunc func() bool

// Scheduler — абстракция отменяемой отложенной задачи. Машина состояний
// сессии работает только через нее, поэтому инварианты отмены таймеров
// проверяются в тестах без реального ожидания.
type Scheduler interface {
	Now() time.Time
	Schedule(d time.Duration, fn func()) CancelFunc
}

// realScheduler — боевая реализация поверх time.AfterFunc
type realScheduler struct{}

// NewScheduler возвращает планировщик на системных таймерах
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) Now() time.Time {
	return time.Now()
}

func (realScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}
