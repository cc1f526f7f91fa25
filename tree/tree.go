// Package tree holds the untyped token tree produced by a token source and
// consumed by the binder.
//
// A Node is one of:
//   - Scalar: a bare or quoted token, kept as raw text
//   - Array: an ordered sequence of nodes
//   - Object: an ordered sequence of key/value pairs where keys may repeat
//
// Nodes are treated as immutable once built.
package tree

// Kind discriminates the Node union.
type Kind uint8

const (
	KindScalar Kind = iota
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Node is a single element of the token tree.
type Node struct {
	Kind   Kind
	Text   string // Scalar text, unescaped when Quoted.
	Quoted bool
	Items  []Node // Array elements.
	Pairs  []Pair // Object entries in input order; keys are not deduplicated.
	Offset int64  // Byte offset of the node in its source (-1 when unknown).
}

// Pair is a key/value entry of an object node.
type Pair struct {
	Key       string
	KeyQuoted bool
	Value     Node
}

// Scalar returns a bare scalar node.
func Scalar(text string) Node { return Node{Kind: KindScalar, Text: text, Offset: -1} }

// Quoted returns a quoted scalar node.
func Quoted(text string) Node { return Node{Kind: KindScalar, Text: text, Quoted: true, Offset: -1} }

// Array returns an array node over items.
func Array(items ...Node) Node { return Node{Kind: KindArray, Items: items, Offset: -1} }

// Object returns an object node over pairs.
func Object(pairs ...Pair) Node { return Node{Kind: KindObject, Pairs: pairs, Offset: -1} }

// KV is shorthand for a Pair with a bare key.
func KV(key string, v Node) Pair { return Pair{Key: key, Value: v} }

// IsEmptyContainer reports whether n is `{}`. Empty braces carry no shape
// information, so callers may treat them as either an empty array or an
// empty object.
func (n Node) IsEmptyContainer() bool {
	switch n.Kind {
	case KindArray:
		return len(n.Items) == 0
	case KindObject:
		return len(n.Pairs) == 0
	}
	return false
}

// Lookup returns the values of all pairs whose key equals key, in input order.
func (n Node) Lookup(key string) []Node {
	if n.Kind != KindObject {
		return nil
	}
	var out []Node
	for _, p := range n.Pairs {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}

// Last returns the value of the last pair with key, if any.
func (n Node) Last(key string) (Node, bool) {
	if n.Kind != KindObject {
		return Node{}, false
	}
	for i := len(n.Pairs) - 1; i >= 0; i-- {
		if n.Pairs[i].Key == key {
			return n.Pairs[i].Value, true
		}
	}
	return Node{}, false
}

// Depth returns the nesting depth of n, counting n itself as 1 for
// containers and 0 for scalars.
func (n Node) Depth() int {
	switch n.Kind {
	case KindArray:
		d := 0
		for _, it := range n.Items {
			if c := it.Depth(); c > d {
				d = c
			}
		}
		return d + 1
	case KindObject:
		d := 0
		for _, p := range n.Pairs {
			if c := p.Value.Depth(); c > d {
				d = c
			}
		}
		return d + 1
	}
	return 0
}

// Equal reports structural equality, ignoring offsets.
func Equal(a, b Node) bool {
	if a.Kind != b.Kind {
		if a.IsEmptyContainer() && b.IsEmptyContainer() {
			return true
		}
		return false
	}
	switch a.Kind {
	case KindScalar:
		return a.Text == b.Text && a.Quoted == b.Quoted
	case KindArray:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.Pairs) != len(b.Pairs) {
			return false
		}
		for i := range a.Pairs {
			if a.Pairs[i].Key != b.Pairs[i].Key || !Equal(a.Pairs[i].Value, b.Pairs[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
