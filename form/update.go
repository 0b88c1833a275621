package form

import (
	"errors"
	"fmt"

	"github.com/reoring/toolform"
)

var (
	// ErrIndexOutOfRange is returned when an index segment is outside the array.
	ErrIndexOutOfRange = errors.New("form: index out of range")
	// ErrNotContainer is returned when a segment addresses into a scalar.
	ErrNotContainer = errors.New("form: value is not a container")
)

// SetIn returns a copy of root with the value at path replaced by leaf. Every
// container on the way from the root to the leaf is copied; nothing reachable
// from root is modified. Missing or null intermediate objects are created.
func SetIn(root any, path toolform.Path, leaf any) (any, error) {
	return setIn(root, path, 0, leaf)
}

func setIn(cur any, path toolform.Path, depth int, leaf any) (any, error) {
	if depth == len(path) {
		return leaf, nil
	}
	seg := path[depth]
	if seg.IsIndex {
		arr, ok := cur.([]any)
		if !ok {
			return nil, fmt.Errorf("%w at %s", ErrNotContainer, path[:depth].Pointer())
		}
		if seg.Index < 0 || seg.Index >= len(arr) {
			return nil, fmt.Errorf("%w: %s (len %d)", ErrIndexOutOfRange, path[:depth+1].Pointer(), len(arr))
		}
		child, err := setIn(arr[seg.Index], path, depth+1, leaf)
		if err != nil {
			return nil, err
		}
		next := make([]any, len(arr))
		copy(next, arr)
		next[seg.Index] = child
		return next, nil
	}
	m, ok := cur.(map[string]any)
	if !ok && cur != nil {
		return nil, fmt.Errorf("%w at %s", ErrNotContainer, path[:depth].Pointer())
	}
	child, err := setIn(m[seg.Key], path, depth+1, leaf)
	if err != nil {
		return nil, err
	}
	next := make(map[string]any, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	next[seg.Key] = child
	return next, nil
}

// GetIn returns the value at path, reporting whether it exists.
func GetIn(root any, path toolform.Path) (any, bool) {
	cur := root
	for _, seg := range path {
		if seg.IsIndex {
			arr, ok := cur.([]any)
			if !ok || seg.Index < 0 || seg.Index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.Index]
			continue
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg.Key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Find locates the field rendered for path under root. Only object children
// are walked; values inside delegated editors have no fields of their own.
func Find(root Field, path toolform.Path) (Field, bool) {
	base := root.Path()
	if len(path) < len(base) || !path[:len(base)].Equal(base) {
		return nil, false
	}
	cur := root
	for _, seg := range path[len(base):] {
		obj, ok := cur.(*ObjectField)
		if !ok || seg.IsIndex {
			return nil, false
		}
		if cur, ok = obj.Child(seg.Key); !ok {
			return nil, false
		}
	}
	return cur, true
}

// FindParam locates the field for path among top-level parameter fields.
func FindParam(params []Property, path toolform.Path) (Field, bool) {
	if len(path) == 0 || path[0].IsIndex {
		return nil, false
	}
	for _, p := range params {
		if p.Name == path[0].Key {
			return Find(p.Field, path)
		}
	}
	return nil, false
}
