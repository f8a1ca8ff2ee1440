// Package cart реализует состояние корзины: чистую функцию переходов и владеющий им контейнер.
package cart

// Item содержит отображаемые поля товара, добавляемого в корзину.
type Item struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Line описывает позицию корзины. Quantity всегда не меньше единицы.
type Line struct {
	Item
	Quantity int `json:"quantity"`
}

// Subtotal возвращает стоимость позиции без округления.
func (l Line) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// State описывает корзину. Total и ItemCount всегда пересчитываются из Lines.
type State struct {
	Lines     []Line  `json:"lines"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

// Empty возвращает каноническое пустое состояние.
func Empty() State {
	return State{Lines: []Line{}}
}

// IsEmpty сообщает, что в корзине нет позиций.
func (s State) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Find возвращает позицию с указанным идентификатором.
func (s State) Find(id int) (Line, bool) {
	for _, l := range s.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

func (s State) clone() State {
	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)
	s.Lines = lines
	return s
}

// Action описывает действие над корзиной.
type Action interface {
	action()
}

// AddItem увеличивает количество существующей позиции на единицу или добавляет новую в конец.
// Отображаемые поля существующей позиции не обновляются.
type AddItem struct {
	Item Item
}

// RemoveItem удаляет позицию, если она есть.
type RemoveItem struct {
	ID int
}

// SetQuantity заменяет количество позиции. Количество не больше нуля удаляет позицию.
type SetQuantity struct {
	ID       int
	Quantity int
}

// Clear возвращает корзину в пустое состояние.
type Clear struct{}

func (AddItem) action()     {}
func (RemoveItem) action()  {}
func (SetQuantity) action() {}
func (Clear) action()       {}

// Reduce вычисляет новое состояние корзины. Функция не изменяет переданное состояние.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddItem:
		return addItem(s, a.Item)
	case RemoveItem:
		return removeItem(s, a.ID)
	case SetQuantity:
		if a.Quantity <= 0 {
			return removeItem(s, a.ID)
		}
		return setQuantity(s, a.ID, a.Quantity)
	case Clear:
		return Empty()
	default:
		return s
	}
}

func addItem(s State, item Item) State {
	lines := make([]Line, 0, len(s.Lines)+1)
	found := false
	for _, l := range s.Lines {
		if l.ID == item.ID {
			l.Quantity++
			found = true
		}
		lines = append(lines, l)
	}
	if !found {
		lines = append(lines, Line{Item: item, Quantity: 1})
	}
	return withTotals(lines)
}

func removeItem(s State, id int) State {
	lines := make([]Line, 0, len(s.Lines))
	for _, l := range s.Lines {
		if l.ID != id {
			lines = append(lines, l)
		}
	}
	return withTotals(lines)
}

func setQuantity(s State, id, quantity int) State {
	lines := make([]Line, 0, len(s.Lines))
	for _, l := range s.Lines {
		if l.ID == id {
			l.Quantity = quantity
		}
		lines = append(lines, l)
	}
	return withTotals(lines)
}

func withTotals(lines []Line) State {
	s := State{Lines: lines}
	for _, l := range lines {
		s.Total += l.Subtotal()
		s.ItemCount += l.Quantity
	}
	return s
}
