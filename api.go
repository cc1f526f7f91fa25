package clausewitz

import (
	"context"

	"github.com/reoring/clausewitz/tree"
)

// Node is the token tree node consumed by schemas.
type Node = tree.Node

// Schema binds token trees to T according to a frozen RecordDescriptor.
type Schema[T any] interface {
	// Descriptor returns the record descriptor driving the binding.
	Descriptor() *RecordDescriptor

	// Decode binds an object node into T. Field-level problems are
	// collected and returned as Issues next to the partially decoded
	// value; structural problems return the zero T.
	Decode(ctx context.Context, n Node) (T, error)

	// Encode turns v back into an object node using the same descriptor.
	Encode(ctx context.Context, v T) (Node, error)
}

// SafeDecode decodes n into T, returning (zero, false) on any issue.
func SafeDecode[T any](ctx context.Context, s Schema[T], n Node) (T, bool) {
	val, err := s.Decode(ctx, n)
	if err != nil {
		var zero T
		return zero, false
	}
	return val, true
}

// ---- Decode-time context options (internal wiring, exported for subpackages) ----

type contextKey int

const (
	_ctxKeyDecodeOpt contextKey = iota
)

// WithDecodeOpt returns a child context carrying opt. DecodeFrom sets it so
// schema implementations see the caller's options.
func WithDecodeOpt(ctx context.Context, opt DecodeOpt) context.Context {
	return context.WithValue(ctx, _ctxKeyDecodeOpt, opt.WithDefaults())
}

// DecodeOptFrom returns the options carried by ctx, or the defaults.
func DecodeOptFrom(ctx context.Context) DecodeOpt {
	if opt, ok := ctx.Value(_ctxKeyDecodeOpt).(DecodeOpt); ok {
		return opt
	}
	return DecodeOpt{}.WithDefaults()
}

// IsFailFast reports whether the current decode should stop on the first issue.
func IsFailFast(ctx context.Context) bool { return DecodeOptFrom(ctx).FailFast }
