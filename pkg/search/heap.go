package search

// minHeap is a concrete-typed min-heap for the solver frontiers.
// Avoids interface boxing overhead of container/heap. Ties on cost are
// broken by insertion sequence so first-discovered nodes win and repeated
// runs expand nodes in the same order.
type minHeap struct {
	items []pqItem
	seq   uint64
}

// pqItem is a priority queue entry.
type pqItem struct {
	Node uint32
	Cost float64
	seq  uint64
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) Push(node uint32, cost float64) {
	h.items = append(h.items, pqItem{Node: node, Cost: cost, seq: h.seq})
	h.seq++
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) Pop() pqItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

// PeekCost returns the smallest cost in the heap, or +Inf when empty.
func (h *minHeap) PeekCost() float64 {
	if len(h.items) == 0 {
		return inf
	}
	return h.items[0].Cost
}

func (h *minHeap) less(i, j int) bool {
	if h.items[i].Cost != h.items[j].Cost {
		return h.items[i].Cost < h.items[j].Cost
	}
	return h.items[i].seq < h.items[j].seq
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.less(left, smallest) {
			smallest = left
		}
		if right < n && h.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
