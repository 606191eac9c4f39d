package worklist

// Worklist is a FIFO queue of pending work.
type Worklist[T any] struct {
	list []T
}

// Start worklist execution with provided `starting` element and an iteration
// function. The iteration function exposes the next element and a function with
// which to add more elements to the worklist.
func Start[T any](start T, do func(next T, add func(el T))) {
	StartV([]T{start}, do)
}

// StartV is Start with a preloaded queue.
func StartV[T any](start []T, do func(next T, add func(el T))) {
	W := Empty[T]()
	for _, e := range start {
		W.Add(e)
	}

	W.Process(do)
}

func Empty[T any]() Worklist[T] {
	return Worklist[T]{}
}

func (w *Worklist[T]) GetNext() (ret T) {
	if len(w.list) == 0 {
		return
	}
	next := w.list[0]
	w.list = w.list[1:]
	return next
}

func (w *Worklist[T]) IsEmpty() bool {
	return len(w.list) == 0
}

func (w *Worklist[T]) Len() int {
	return len(w.list)
}

// Remove drops the first queued element satisfying pred.
func (w *Worklist[T]) Remove(pred func(T) bool) bool {
	for idx, el := range w.list {
		if pred(el) {
			w.list = append(w.list[:idx:idx], w.list[idx+1:]...)
			return true
		}
	}
	return false
}

func (w *Worklist[T]) Process(do func(next T, add func(element T))) {
	for !w.IsEmpty() {
		do(w.GetNext(), w.Add)
	}
}

func (w *Worklist[T]) Add(el T) {
	w.list = append(w.list, el)
}
