package cart

import "sync"

// Store владеет единственным экземпляром состояния корзины и сериализует переходы.
// Подписчики вызываются синхронно, в порядке переходов. Вызывать Dispatch из подписчика нельзя.
type Store struct {
	dispatchMu sync.Mutex

	mu     sync.RWMutex
	state  State
	nextID int
	subs   map[int]func(State)
}

// NewStore создаёт контейнер с пустой корзиной.
func NewStore() *Store {
	return &Store{
		state: Empty(),
		subs:  make(map[int]func(State)),
	}
}

// State возвращает текущее состояние корзины.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Dispatch применяет действие и возвращает новое состояние.
func (s *Store) Dispatch(a Action) State {
	_, after := s.Apply(a)
	return after
}

// Apply атомарно применяет действие и возвращает состояния до и после перехода.
func (s *Store) Apply(a Action) (State, State) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	before := s.state
	after := Reduce(before, a)
	s.state = after
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(after.clone())
	}

	return before.clone(), after.clone()
}

// Subscribe регистрирует обработчик изменений и возвращает функцию отписки.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
