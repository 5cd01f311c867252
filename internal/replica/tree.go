package replica

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

type nodeKind uint8

const (
	leafNode nodeKind = iota
	branchNode
)

// node is a tagged tree value: either a leaf holding a JSON-shaped value or a
// branch holding named children. JSON objects are always stored as branches
// so reads can descend into them.
type node struct {
	kind     nodeKind
	value    any
	children map[string]*node
}

func newBranch() *node {
	return &node{kind: branchNode, children: make(map[string]*node)}
}

func newNode(v any) *node {
	obj, ok := v.(map[string]any)
	if !ok {
		return &node{kind: leafNode, value: v}
	}

	b := newBranch()
	for k, child := range obj {
		b.children[k] = newNode(child)
	}
	return b
}

// export returns a deep copy of the subtree as plain JSON-shaped values.
func (n *node) export() any {
	if n.kind == leafNode {
		return cloneValue(n.value)
	}

	out := make(map[string]any, len(n.children))
	for k, child := range n.children {
		out[k] = child.export()
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// normalize turns v into JSON-shaped data: scalars pass through untouched,
// raw JSON is decoded, and composite Go values (structs, typed maps and
// slices, pointers) are round-tripped through encoding/json.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case json.RawMessage:
		return decodeJSON(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			ne, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ne, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = ne
		}
		return out, nil
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array, reflect.Pointer:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %T: %w", v, err)
		}
		return decodeJSON(raw)
	default:
		return v, nil
	}
}

func decodeJSON(raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode json value: %w", err)
	}
	return v, nil
}

// Tree is the in-memory path store. It is safe for concurrent use.
type Tree struct {
	mu   sync.RWMutex
	root *node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{root: newBranch()}
}

// Get returns a read-only copy of the value at path. found is false as soon
// as a segment is missing or a leaf is met before the last segment; absence
// is never an error. Branches are returned as map[string]any.
func (t *Tree) Get(path string) (value any, found bool, err error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, false, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.root
	for _, s := range segments {
		if n.kind != branchNode {
			return nil, false, nil
		}
		child, ok := n.children[s]
		if !ok {
			return nil, false, nil
		}
		n = child
	}

	return n.export(), true, nil
}

// Set replaces the subtree at path with value, creating intermediate
// branches as needed. A leaf met on the way is replaced by a fresh branch.
// Siblings of every segment are left untouched.
func (t *Tree) Set(path string, value any) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.root
	for _, s := range segments[:len(segments)-1] {
		child, ok := n.children[s]
		if !ok || child.kind != branchNode {
			child = newBranch()
			n.children[s] = child
		}
		n = child
	}
	n.children[segments[len(segments)-1]] = newNode(v)

	return nil
}

// Children returns the sorted names of the children of the branch at path.
// The empty path addresses the root. A missing path or a leaf yields nil.
func (t *Tree) Children(path string) ([]string, error) {
	var segments []string
	if path != "" {
		var err error
		if segments, err = splitPath(path); err != nil {
			return nil, err
		}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.root
	for _, s := range segments {
		child, ok := n.children[s]
		if !ok || child.kind != branchNode {
			return nil, nil
		}
		n = child
	}

	names := make([]string, 0, len(n.children))
	for k := range n.children {
		names = append(names, k)
	}
	slices.Sort(names)

	return names, nil
}

// Snapshot returns a deep copy of the whole tree.
func (t *Tree) Snapshot() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.root.export().(map[string]any)
}
