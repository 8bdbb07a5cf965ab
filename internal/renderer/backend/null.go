package backend

import (
	"strings"
	"sync"
)

// NullBackend is an in-memory backend for tests.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]Cell
	shows         int

	events   chan Event
	done     chan struct{}
	shutdown sync.Once
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
		done:   make(chan struct{}),
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allocate()
	return nil
}

func (b *NullBackend) allocate() {
	b.cells = make([][]Cell, b.height)
	for y := range b.cells {
		b.cells[y] = make([]Cell, b.width)
		for x := range b.cells[y] {
			b.cells[y][x] = EmptyCell
		}
	}
}

func (b *NullBackend) Shutdown() {
	b.shutdown.Do(func() { close(b.done) })
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) GetCell(x, y int) Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return EmptyCell
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = EmptyCell
		}
	}
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shows++
}

func (b *NullBackend) HideCursor() {}

func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.done:
		return Event{Type: EventNone}
	}
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Dropped when the queue is full.
	}
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// Row returns row y as text with trailing blanks trimmed.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Text returns the whole screen, one line per row.
func (b *NullBackend) Text() string {
	_, h := b.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = b.Row(y)
	}
	return strings.Join(rows, "\n")
}

// Resize changes the dimensions, blanks the screen and posts a resize event.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.allocate()
	b.mu.Unlock()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

var _ Backend = (*NullBackend)(nil)
