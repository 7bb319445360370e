// Package seqdiff computes edit scripts between keyed sequences.
//
// The algorithm is greedy rather than minimal-edit-distance: deletions are
// found back to front, additions front to back, then repeated scans emit one
// move at a time until the working buffer matches the target. When the script
// grows at least as long as the target sequence the diff bails out with
// Overkill set, signalling the caller that a full rebuild is no cheaper.
package seqdiff

import "fmt"

// OpKind discriminates edit operations.
type OpKind uint8

const (
	OpDelete OpKind = iota
	OpAdd
	OpMove
)

// String returns the op kind's name.
func (k OpKind) String() string {
	switch k {
	case OpDelete:
		return "delete"
	case OpAdd:
		return "add"
	case OpMove:
		return "move"
	default:
		return "unknown"
	}
}

// Op is one edit step. Index is the position the op applies at in the working
// sequence; DestIndex is the target position of a move.
type Op struct {
	Kind      OpKind
	Item      any
	Index     int
	DestIndex int
}

// Result is an edit script, or the Overkill bail-out.
type Result struct {
	Ops      []Op
	Overkill bool
}

// KeyOf derives the reconciliation key of an item. Items are compared solely
// by key, never by value or reference equality.
type KeyOf func(item any) string

// Diff computes the script transforming old into next. When Overkill is
// false, applying Ops in order to old yields exactly next (given unique keys).
func Diff(old, next []any, keyOf KeyOf) Result {
	oldIndex := make(map[string]int, len(old))
	for i, item := range old {
		oldIndex[keyOf(item)] = i
	}
	nextIndex := make(map[string]int, len(next))
	for i, item := range next {
		nextIndex[keyOf(item)] = i
	}

	var ops []Op
	buf := make([]any, len(old))
	copy(buf, old)

	// Deletions, high index to low so earlier indices stay valid.
	deletions := 0
	for i := len(old) - 1; i >= 0; i-- {
		if _, keep := nextIndex[keyOf(old[i])]; !keep {
			ops = append(ops, Op{Kind: OpDelete, Item: old[i], Index: i})
			buf = append(buf[:i], buf[i+1:]...)
			deletions++
		}
	}
	if deletions > 0 && deletions == len(old) {
		return Result{Overkill: true}
	}

	// Additions, in target order.
	additions := 0
	for i, item := range next {
		if _, known := oldIndex[keyOf(item)]; !known {
			ops = append(ops, Op{Kind: OpAdd, Item: item, Index: i})
			buf = insertAt(buf, i, item)
			additions++
		}
	}
	if deletions+additions >= len(next) {
		return Result{Overkill: true}
	}

	// Moves: fix the first mismatched position, apply, rescan. Each move
	// settles at least its destination, so the loop terminates.
	moves := 0
	for {
		moved := false
		for i := 0; i < len(buf); i++ {
			j, ok := nextIndex[keyOf(buf[i])]
			if !ok || j == i {
				continue
			}
			item := buf[i]
			ops = append(ops, Op{Kind: OpMove, Item: item, Index: i, DestIndex: j})
			buf = append(buf[:i], buf[i+1:]...)
			buf = insertAt(buf, j, item)
			moves++
			moved = true

			if deletions+additions+moves >= len(next) {
				return Result{Overkill: true}
			}

			// A true pairwise swap leaves the displaced partner sitting
			// exactly where the moved item came from; complete the exchange
			// in the same pass.
			if i < len(buf) {
				if k, ok := nextIndex[keyOf(buf[i])]; ok && k != i && swapsWith(buf, i, k, keyOf, nextIndex) {
					partner := buf[i]
					ops = append(ops, Op{Kind: OpMove, Item: partner, Index: i, DestIndex: k})
					buf = append(buf[:i], buf[i+1:]...)
					buf = insertAt(buf, k, partner)
					moves++
					if deletions+additions+moves >= len(next) {
						return Result{Overkill: true}
					}
				}
			}
			break
		}
		if !moved {
			break
		}
	}

	return Result{Ops: ops}
}

// swapsWith reports whether moving buf[i] to k would in turn place the item
// now at k at index i, i.e. a pairwise exchange.
func swapsWith(buf []any, i, k int, keyOf KeyOf, nextIndex map[string]int) bool {
	if k >= len(buf) {
		return false
	}
	// Simulate: after removing i and inserting at k, the item displaced from
	// k must belong at i.
	j, ok := nextIndex[keyOf(buf[k])]
	return ok && j == i
}

// Apply executes ops against old and returns the resulting sequence. Used by
// callers that reconcile plain slices and by correctness tests.
func Apply(old []any, ops []Op) ([]any, error) {
	buf := make([]any, len(old))
	copy(buf, old)

	for _, op := range ops {
		switch op.Kind {
		case OpDelete:
			if op.Index < 0 || op.Index >= len(buf) {
				return nil, fmt.Errorf("seqdiff: delete index %d out of range %d", op.Index, len(buf))
			}
			buf = append(buf[:op.Index], buf[op.Index+1:]...)
		case OpAdd:
			if op.Index < 0 || op.Index > len(buf) {
				return nil, fmt.Errorf("seqdiff: add index %d out of range %d", op.Index, len(buf))
			}
			buf = insertAt(buf, op.Index, op.Item)
		case OpMove:
			if op.Index < 0 || op.Index >= len(buf) {
				return nil, fmt.Errorf("seqdiff: move index %d out of range %d", op.Index, len(buf))
			}
			item := buf[op.Index]
			buf = append(buf[:op.Index], buf[op.Index+1:]...)
			if op.DestIndex < 0 || op.DestIndex > len(buf) {
				return nil, fmt.Errorf("seqdiff: move destination %d out of range %d", op.DestIndex, len(buf))
			}
			buf = insertAt(buf, op.DestIndex, item)
		}
	}
	return buf, nil
}

func insertAt(s []any, i int, item any) []any {
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = item
	return s
}
