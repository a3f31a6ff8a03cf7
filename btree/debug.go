package btree

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash"
)

// Fingerprint hashes the element sequence into a single comparable value.
// Two lists fingerprint equal when their formatted elements match in
// order, regardless of tree shape.
func (l *List[E]) Fingerprint() uint64 {
	d := xxhash.New()
	l.ForEach(func(e E) bool {
		_, _ = d.Write(fmt.Appendf(nil, "%v\x00", e))
		return true
	})
	return d.Sum64()
}

// Dump writes the tree structure, one node per line.
func (l *List[E]) Dump(w io.Writer) {
	l.dump(w, l.root, 0)
}

func (l *List[E]) dump(w io.Writer, h int32, depth int) {
	n := l.nodes[h]
	for i := 0; i < depth; i++ {
		fmt.Fprint(w, "  ")
	}
	if n.leaf {
		fmt.Fprintf(w, "leaf #%d (%d):", h, n.count)
		for _, id := range n.kids {
			fmt.Fprintf(w, " %v", l.slots[id].elem)
		}
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "node #%d (%d)\n", h, n.count)
	for _, k := range n.kids {
		l.dump(w, k, depth+1)
	}
}

// check verifies the structural invariants: cached counts, parent links,
// slot back-references and node occupancy. Exercised by the randomized
// tests after every operation batch.
func (l *List[E]) check() error {
	if l.nodes[l.root].parent != nilHandle {
		return fmt.Errorf("root #%d has a parent", l.root)
	}
	return l.checkNode(l.root)
}

func (l *List[E]) checkNode(h int32) error {
	n := l.nodes[h]
	if h != l.root && len(n.kids) < minKids {
		return fmt.Errorf("node #%d underflow: %d kids", h, len(n.kids))
	}
	if len(n.kids) > maxKids {
		return fmt.Errorf("node #%d overflow: %d kids", h, len(n.kids))
	}
	if n.leaf {
		if n.count != len(n.kids) {
			return fmt.Errorf("leaf #%d count %d != %d slots", h, n.count, len(n.kids))
		}
		for _, id := range n.kids {
			if l.slots[id].leaf != h {
				return fmt.Errorf("slot %d back-ref %d != leaf #%d", id, l.slots[id].leaf, h)
			}
		}
		return nil
	}
	if h != l.root && len(n.kids) < 2 {
		return fmt.Errorf("internal node #%d has %d kids", h, len(n.kids))
	}
	sum := 0
	for _, k := range n.kids {
		if l.nodes[k].parent != h {
			return fmt.Errorf("node #%d parent %d != #%d", k, l.nodes[k].parent, h)
		}
		if err := l.checkNode(k); err != nil {
			return err
		}
		sum += l.nodes[k].count
	}
	if sum != n.count {
		return fmt.Errorf("node #%d count %d != sum %d", h, n.count, sum)
	}
	return nil
}
