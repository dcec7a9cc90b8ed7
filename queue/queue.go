// Package queue provides heap-backed priority queues used to keep the best
// scored selections in bounded memory.
package queue

import (
	"container/heap"
	"slices"
)

// Compile time check to ensure PriorityQueue satisfies the heap interface.
var _ heap.Interface = (*PriorityQueue[int])(nil)

// PriorityQueueItem represents an item in the priority queue.
type PriorityQueueItem[T any] struct {
	Value T   // Value is the queued element.
	Index int // Index is needed by update and is maintained by the heap.Interface methods.
}

// PriorityQueue implements heap.Interface and holds PriorityQueueItems.
// The element for which LessFunc reports true against all others is on top.
type PriorityQueue[T any] struct {
	LessFunc func(a, b T) bool        // LessFunc defines the heap order.
	Items    []*PriorityQueueItem[T] // Items contains the elements of the priority queue.
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue[T]) Len() int { return len(pq.Items) }

// Less reports whether the element with index i should sort before the element with index j.
func (pq *PriorityQueue[T]) Less(i, j int) bool {
	return pq.LessFunc(pq.Items[i].Value, pq.Items[j].Value)
}

// Swap swaps the elements with indexes i and j.
func (pq *PriorityQueue[T]) Swap(i, j int) {
	pq.Items[i], pq.Items[j] = pq.Items[j], pq.Items[i]
	pq.Items[i].Index, pq.Items[j].Index = i, j
}

// Push adds x to the priority queue.
func (pq *PriorityQueue[T]) Push(x any) {
	item, _ := x.(*PriorityQueueItem[T])
	item.Index = len(pq.Items)
	pq.Items = append(pq.Items, item)
}

// Pop removes and returns the last element of the backing slice (heap.Pop
// moves the top element there first).
func (pq *PriorityQueue[T]) Pop() any {
	if len(pq.Items) == 0 {
		return nil
	}

	old := pq.Items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // Avoid memory leak
	item.Index = -1 // For safety
	pq.Items = old[:n-1]

	return item
}

// Top returns the top element of the priority queue.
func (pq *PriorityQueue[T]) Top() T {
	return pq.Items[0].Value
}

// TopK retains the k smallest values pushed so far according to less.
// Memory stays O(k) regardless of how many values are pushed.
type TopK[T any] struct {
	k    int
	less func(a, b T) bool
	pq   PriorityQueue[T]
}

// NewTopK creates a TopK retaining k values. k must be positive.
func NewTopK[T any](k int, less func(a, b T) bool) *TopK[T] {
	t := &TopK[T]{k: k, less: less}
	// Max-heap on less: the worst retained value is on top and is evicted first.
	t.pq = PriorityQueue[T]{
		LessFunc: func(a, b T) bool { return less(b, a) },
		Items:    make([]*PriorityQueueItem[T], 0, min(k, 1024)),
	}
	return t
}

// Push offers v. It is kept if fewer than k values are held or if v is
// better than the current worst.
func (t *TopK[T]) Push(v T) {
	if t.pq.Len() < t.k {
		heap.Push(&t.pq, &PriorityQueueItem[T]{Value: v})
		return
	}
	if !t.less(v, t.pq.Top()) {
		return
	}
	t.pq.Items[0].Value = v
	heap.Fix(&t.pq, 0)
}

// Len returns the number of retained values.
func (t *TopK[T]) Len() int { return t.pq.Len() }

// Sorted returns the retained values in ascending order. t is left intact.
func (t *TopK[T]) Sorted() []T {
	out := make([]T, 0, t.pq.Len())
	for _, it := range t.pq.Items {
		out = append(out, it.Value)
	}
	slices.SortFunc(out, func(a, b T) int {
		switch {
		case t.less(a, b):
			return -1
		case t.less(b, a):
			return 1
		default:
			return 0
		}
	})
	return out
}
