package search

import (
	"sync"
	"time"

	"github.com/md7o/articlekit/internal/articlekit/dto"
)

type State int

const (
	// Idle - запрос пуст, показывается полный список
	Idle State = iota
	// Debouncing - ввод продолжается, пересчет отложен
	Debouncing
	// Filtered - результат соответствует последнему запросу
	Filtered
)

func (s State) String() string {
	switch s {
	case Debouncing:
		return "debouncing"
	case Filtered:
		return "filtered"
	default:
		return "idle"
	}
}

const DefaultDebounce = 300 * time.Millisecond

// Engine - дебаунс-машина поиска. Каждое изменение запроса перезапускает
// таймер; фильтрация выполняется один раз после паузы набора, а не на
// каждое нажатие. Потокобезопасен.
type Engine struct {
	mu       sync.Mutex
	delay    time.Duration
	articles []dto.Article
	query    string
	results  []dto.Article
	state    State
	timer    *time.Timer
	onUpdate func([]dto.Article)
}

func NewEngine(delay time.Duration) *Engine {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Engine{delay: delay, state: Idle}
}

// OnUpdate регистрирует получателя результатов фильтрации. Вызывается
// при каждом пересчете, включая сброс на полный список.
func (e *Engine) OnUpdate(fn func([]dto.Article)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = fn
}

// SetArticles задает исходный список. Текущий результат пересчитывается
// сразу, без дебаунса: список пришел не с клавиатуры.
func (e *Engine) SetArticles(articles []dto.Article) {
	e.mu.Lock()
	e.articles = make([]dto.Article, len(articles))
	copy(e.articles, articles)
	e.recomputeLocked()
	fn, res := e.onUpdate, e.results
	e.mu.Unlock()

	if fn != nil {
		fn(res)
	}
}

// SetQuery регистрирует новое значение строки поиска. Пустой запрос
// немедленно возвращает машину в Idle с полным списком; непустой
// переводит в Debouncing и перезапускает таймер.
func (e *Engine) SetQuery(query string) {
	e.mu.Lock()

	e.query = query
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}

	if query == "" {
		e.recomputeLocked()
		fn, res := e.onUpdate, e.results
		e.mu.Unlock()
		if fn != nil {
			fn(res)
		}
		return
	}

	e.state = Debouncing
	e.timer = time.AfterFunc(e.delay, e.fire)
	e.mu.Unlock()
}

func (e *Engine) fire() {
	e.mu.Lock()
	if e.state != Debouncing {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	e.recomputeLocked()
	fn, res := e.onUpdate, e.results
	e.mu.Unlock()

	if fn != nil {
		fn(res)
	}
}

func (e *Engine) recomputeLocked() {
	e.results = Filter(e.articles, e.query)
	if e.query == "" {
		e.state = Idle
	} else {
		e.state = Filtered
	}
}

// State возвращает текущее состояние машины.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Searching возвращает true, пока идет набор и результат еще не
// пересчитан.
func (e *Engine) Searching() bool {
	return e.State() == Debouncing
}

// Results возвращает последний вычисленный результат. Во время
// Debouncing это результат предыдущего запроса.
func (e *Engine) Results() []dto.Article {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]dto.Article, len(e.results))
	copy(out, e.results)
	return out
}

// Flush немедленно применяет отложенный запрос, не дожидаясь таймера.
func (e *Engine) Flush() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.recomputeLocked()
	fn, res := e.onUpdate, e.results
	e.mu.Unlock()

	if fn != nil {
		fn(res)
	}
}

// Stop останавливает отложенный пересчет.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
