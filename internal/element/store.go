package element

import "github.com/example/snapmark/internal/geom"

// DefaultMaxElements bounds the number of annotations in one session.
const DefaultMaxElements = 1000

// Store is the ordered element list. Later elements paint over earlier ones
// and win hit tests. At most one element is selected at a time.
type Store struct {
	elements []Element
	selected int
	nextID   uint64
	limit    int
	measurer TextMeasurer
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{selected: -1, limit: DefaultMaxElements, measurer: ApproxMeasurer{}}
}

// SetMeasurer installs the text measurer used to fit text elements.
func (s *Store) SetMeasurer(m TextMeasurer) {
	if m == nil {
		m = ApproxMeasurer{}
	}
	s.measurer = m
}

// Measurer returns the installed text measurer.
func (s *Store) Measurer() TextMeasurer { return s.measurer }

// Len returns the number of elements.
func (s *Store) Len() int { return len(s.elements) }

// Elements returns the live slice in paint order. Callers must not retain it
// across mutations.
func (s *Store) Elements() []Element { return s.elements }

// Add appends e and returns its index, or -1 when the store is full.
func (s *Store) Add(e Element) int {
	if len(s.elements) >= s.limit {
		return -1
	}
	s.nextID++
	e.ID = s.nextID
	e.Selected = false
	s.elements = append(s.elements, e)
	return len(s.elements) - 1
}

// Insert places e at index i, shifting later elements. It keeps e's ID so a
// restored element is the same element.
func (s *Store) Insert(i int, e Element) bool {
	if i < 0 || i > len(s.elements) {
		return false
	}
	if e.ID == 0 {
		s.nextID++
		e.ID = s.nextID
	}
	e.Selected = false
	s.elements = append(s.elements, Element{})
	copy(s.elements[i+1:], s.elements[i:])
	s.elements[i] = e
	if s.selected >= i {
		s.selected++
	}
	return true
}

// Remove deletes the element at i and returns it.
func (s *Store) Remove(i int) (Element, bool) {
	if i < 0 || i >= len(s.elements) {
		return Element{}, false
	}
	e := s.elements[i]
	s.elements = append(s.elements[:i], s.elements[i+1:]...)
	switch {
	case s.selected == i:
		s.selected = -1
	case s.selected > i:
		s.selected--
	}
	e.Selected = false
	return e, true
}

// Get returns a pointer to the element at i. The pointer is valid until the
// next structural change.
func (s *Store) Get(i int) (*Element, bool) {
	if i < 0 || i >= len(s.elements) {
		return nil, false
	}
	return &s.elements[i], true
}

// Replace swaps the element at i for e, keeping the selection flag.
func (s *Store) Replace(i int, e Element) bool {
	if i < 0 || i >= len(s.elements) {
		return false
	}
	e.Selected = s.elements[i].Selected
	s.elements[i] = e
	return true
}

// Mutate runs fn on the element at i and recomputes its bounds.
func (s *Store) Mutate(i int, fn func(*Element)) bool {
	e, ok := s.Get(i)
	if !ok {
		return false
	}
	fn(e)
	e.UpdateBounds()
	return true
}

// SetSelected selects the element at i. Any other index clears the selection.
func (s *Store) SetSelected(i int) {
	for j := range s.elements {
		s.elements[j].Selected = false
	}
	if i < 0 || i >= len(s.elements) {
		s.selected = -1
		return
	}
	s.elements[i].Selected = true
	s.selected = i
}

// Selected returns the selected index or -1.
func (s *Store) Selected() int { return s.selected }

// HitTest returns the index of the topmost element under (x, y), or -1.
func (s *Store) HitTest(x, y int) int {
	for i := len(s.elements) - 1; i >= 0; i-- {
		if s.elements[i].Contains(x, y) {
			return i
		}
	}
	return -1
}

// HitTestWithin is HitTest restricted to elements that intersect clip.
func (s *Store) HitTestWithin(x, y int, clip geom.Rect) int {
	for i := len(s.elements) - 1; i >= 0; i-- {
		e := &s.elements[i]
		if !e.Bounds.Intersects(clip) {
			continue
		}
		if e.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Resize applies Element.Resize to the element at i.
func (s *Store) Resize(i int, r geom.Rect) bool {
	e, ok := s.Get(i)
	if !ok {
		return false
	}
	e.Resize(r)
	return true
}

// MoveBy translates the element at i.
func (s *Store) MoveBy(i, dx, dy int) bool {
	e, ok := s.Get(i)
	if !ok {
		return false
	}
	e.MoveBy(dx, dy)
	return true
}

// Clear removes every element.
func (s *Store) Clear() {
	s.elements = s.elements[:0]
	s.selected = -1
}

// EditText runs fn on the text element at i, then refits its box.
func (s *Store) EditText(i int, fn func(*Element) bool) bool {
	e, ok := s.Get(i)
	if !ok || e.Tool != ToolText {
		return false
	}
	changed := fn(e)
	e.FitText(s.measurer)
	return changed
}

// InsertChar inserts r at the cursor of the text element at i.
func (s *Store) InsertChar(i int, r rune) bool {
	return s.EditText(i, func(e *Element) bool {
		e.InsertText(string(r))
		return true
	})
}

// Backspace deletes before the cursor of the text element at i.
func (s *Store) Backspace(i int) bool {
	return s.EditText(i, (*Element).Backspace)
}

// MoveCursor moves the caret of the text element at i.
func (s *Store) MoveCursor(i int, m CursorMove) bool {
	e, ok := s.Get(i)
	if !ok || e.Tool != ToolText {
		return false
	}
	return e.MoveCursor(m)
}
