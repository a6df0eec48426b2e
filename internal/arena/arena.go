package arena

// Arena is a single growable slice of items which are referenced by their index instead of
// pointers. Indexes stay valid for the arena's whole lifetime, whereas pointers obtained via
// At are invalidated by the next Alloc.
type Arena[T any] struct {
	memory []T
}

func NewArena[T any](initialSpace int) Arena[T] {
	return Arena[T]{
		memory: make([]T, 0, initialSpace),
	}
}

// Alloc appends a zero item and returns its index.
func (a *Arena[T]) Alloc() int {
	var zero T
	a.memory = append(a.memory, zero)
	return len(a.memory) - 1
}

// At returns a pointer to the item by the index.
func (a *Arena[T]) At(i int) *T {
	return &a.memory[i]
}
