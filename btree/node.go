package btree

// The tree lives in two arenas addressed by stable int32 handles: one for
// nodes, one for element slots. Handles never dangle; freed entries go on
// a free list and are reused. Every slot records the handle of the leaf
// that currently holds it, so position lookups can ascend without a scan.

const (
	maxKids = 8
	minKids = maxKids / 2

	nilHandle = int32(-1)
)

type node struct {
	parent int32
	leaf   bool
	count  int // elements in this subtree
	kids   []int32
}

type slot[E any] struct {
	elem E
	leaf int32
}

func (l *List[E]) newNode(leaf bool) int32 {
	if n := len(l.freeNodes); n > 0 {
		h := l.freeNodes[n-1]
		l.freeNodes = l.freeNodes[:n-1]
		l.nodes[h] = node{parent: nilHandle, leaf: leaf}
		return h
	}
	l.nodes = append(l.nodes, node{parent: nilHandle, leaf: leaf})
	return int32(len(l.nodes) - 1)
}

func (l *List[E]) freeNode(h int32) {
	l.nodes[h] = node{parent: nilHandle}
	l.freeNodes = append(l.freeNodes, h)
}

func (l *List[E]) newSlot(e E) int32 {
	if n := len(l.freeSlots); n > 0 {
		id := l.freeSlots[n-1]
		l.freeSlots = l.freeSlots[:n-1]
		l.slots[id] = slot[E]{elem: e, leaf: nilHandle}
		return id
	}
	l.slots = append(l.slots, slot[E]{elem: e, leaf: nilHandle})
	return int32(len(l.slots) - 1)
}

func (l *List[E]) freeSlot(id int32) {
	var zero E
	l.slots[id] = slot[E]{elem: zero, leaf: nilHandle}
	l.freeSlots = append(l.freeSlots, id)
}

// addCount adjusts subtree counts from h up to the root.
func (l *List[E]) addCount(h int32, d int) {
	for h != nilHandle {
		l.nodes[h].count += d
		h = l.nodes[h].parent
	}
}

func (l *List[E]) childIndex(p, h int32) int {
	for i, k := range l.nodes[p].kids {
		if k == h {
			return i
		}
	}
	return -1
}

// adoptAll points the moved kids back at their new holder. This is the
// back-reference update step; every structural move must pass through it.
func (l *List[E]) adoptAll(h int32, kids []int32) {
	if l.nodes[h].leaf {
		for _, id := range kids {
			l.slots[id].leaf = h
		}
	} else {
		for _, k := range kids {
			l.nodes[k].parent = h
		}
	}
}

// kidCount is the number of elements a kid entry stands for: one per slot
// in a leaf, the subtree count for an internal child.
func (l *List[E]) kidCount(h int32, kid int32) int {
	if l.nodes[h].leaf {
		return 1
	}
	return l.nodes[kid].count
}

// splitUp splits h while it is over capacity, then its parent, and so on.
func (l *List[E]) splitUp(h int32) {
	for h != nilHandle && len(l.nodes[h].kids) > maxKids {
		h = l.split(h)
	}
}

func (l *List[E]) split(h int32) int32 {
	leaf := l.nodes[h].leaf
	r := l.newNode(leaf)

	kids := l.nodes[h].kids
	mid := len(kids) / 2
	moved := append([]int32{}, kids[mid:]...)
	l.nodes[h].kids = kids[:mid]
	l.nodes[r].kids = moved
	l.adoptAll(r, moved)

	movedCount := 0
	for _, k := range moved {
		movedCount += l.kidCount(r, k)
	}
	l.nodes[r].count = movedCount
	l.nodes[h].count -= movedCount

	p := l.nodes[h].parent
	if p == nilHandle {
		root := l.newNode(false)
		l.nodes[root].kids = []int32{h, r}
		l.nodes[root].count = l.nodes[h].count + l.nodes[r].count
		l.nodes[h].parent = root
		l.nodes[r].parent = root
		l.root = root
		return root
	}
	i := l.childIndex(p, h)
	pk := l.nodes[p].kids
	pk = append(pk, 0)
	copy(pk[i+2:], pk[i+1:])
	pk[i+1] = r
	l.nodes[p].kids = pk
	l.nodes[r].parent = p
	return p
}

// rebalanceUp restores minimum occupancy from h towards the root after a
// removal, borrowing from a sibling when possible and merging otherwise.
func (l *List[E]) rebalanceUp(h int32) {
	for {
		if h == l.root {
			n := l.nodes[h]
			if !n.leaf && len(n.kids) == 1 {
				child := n.kids[0]
				l.nodes[child].parent = nilHandle
				l.root = child
				l.freeNode(h)
			}
			return
		}
		if len(l.nodes[h].kids) >= minKids {
			return
		}
		p := l.nodes[h].parent
		i := l.childIndex(p, h)
		if i > 0 && len(l.nodes[l.nodes[p].kids[i-1]].kids) > minKids {
			l.borrow(l.nodes[p].kids[i-1], h, true)
			return
		}
		if i < len(l.nodes[p].kids)-1 && len(l.nodes[l.nodes[p].kids[i+1]].kids) > minKids {
			l.borrow(l.nodes[p].kids[i+1], h, false)
			return
		}
		if i > 0 {
			l.merge(l.nodes[p].kids[i-1], h)
		} else {
			l.merge(h, l.nodes[p].kids[i+1])
		}
		h = p
	}
}

// borrow moves one kid from the donor to the receiver. fromLeft means the
// donor is the receiver's left sibling, so its last kid becomes the
// receiver's first.
func (l *List[E]) borrow(donor, recv int32, fromLeft bool) {
	dk := l.nodes[donor].kids
	var moved int32
	if fromLeft {
		moved = dk[len(dk)-1]
		l.nodes[donor].kids = dk[:len(dk)-1]
		l.nodes[recv].kids = append([]int32{moved}, l.nodes[recv].kids...)
	} else {
		moved = dk[0]
		l.nodes[donor].kids = dk[1:]
		l.nodes[recv].kids = append(l.nodes[recv].kids, moved)
	}
	l.adoptAll(recv, []int32{moved})
	c := l.kidCount(recv, moved)
	l.nodes[donor].count -= c
	l.nodes[recv].count += c
}

// merge folds right into left and drops right from their shared parent.
func (l *List[E]) merge(left, right int32) {
	moved := l.nodes[right].kids
	l.nodes[left].kids = append(l.nodes[left].kids, moved...)
	l.adoptAll(left, moved)
	l.nodes[left].count += l.nodes[right].count

	p := l.nodes[right].parent
	i := l.childIndex(p, right)
	pk := l.nodes[p].kids
	l.nodes[p].kids = append(pk[:i], pk[i+1:]...)
	l.freeNode(right)
}
