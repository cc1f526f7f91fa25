package dsl

import (
	"context"
	"fmt"
	"reflect"

	cw "github.com/reoring/clausewitz"
	"github.com/reoring/clausewitz/i18n"
	"github.com/reoring/clausewitz/tree"
)

// Bind freezes d with reg (unless already frozen, in which case reg is
// ignored) and binds it to struct type T. T may also be a pointer to a
// struct.
func Bind[T any](d *cw.RecordDescriptor, reg cw.Transforms) (cw.Schema[T], error) {
	s, err := BindDeferred[T](d, reg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Deferred is a Schema that can hand Warn-severity issues back to the
// caller instead of forwarding them to DecodeOpt.IssueSink. Callers running
// several decodes at once use it to forward warnings in a fixed order after
// the decodes join.
type Deferred[T any] interface {
	cw.Schema[T]
	DecodeDeferred(ctx context.Context, n cw.Node) (v T, warns cw.Issues, err error)
}

// BindDeferred is like Bind but returns the Deferred form.
func BindDeferred[T any](d *cw.RecordDescriptor, reg cw.Transforms) (Deferred[T], error) {
	if d == nil {
		return nil, fmt.Errorf("dsl: nil descriptor")
	}
	if !d.Frozen() {
		if err := d.Freeze(reg); err != nil {
			return nil, err
		}
	}
	rt := reflect.TypeFor[T]()
	ptr := rt.Kind() == reflect.Pointer
	if ptr {
		rt = rt.Elem()
	}
	rp, err := newRecordPlan(d, rt)
	if err != nil {
		return nil, err
	}
	return &boundSchema[T]{plan: rp, ptr: ptr}, nil
}

// MustBind is like Bind but panics on error.
func MustBind[T any](d *cw.RecordDescriptor, reg cw.Transforms) cw.Schema[T] {
	s, err := Bind[T](d, reg)
	if err != nil {
		panic(err)
	}
	return s
}

type boundSchema[T any] struct {
	plan *recordPlan
	ptr  bool
}

func (s *boundSchema[T]) Descriptor() *cw.RecordDescriptor { return s.plan.desc }

// Decode binds root object n. Field issues come back with the partially
// decoded value; structural issues return the zero T. Warnings reach the
// IssueSink from the calling goroutine, in input order.
func (s *boundSchema[T]) Decode(ctx context.Context, n cw.Node) (T, error) {
	v, warns, err := s.DecodeDeferred(ctx, n)
	opt := cw.DecodeOptFrom(ctx)
	for _, it := range warns {
		opt.Warn(it)
	}
	return v, err
}

func (s *boundSchema[T]) DecodeDeferred(ctx context.Context, n cw.Node) (T, cw.Issues, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, nil, cw.Canceled(err)
	}
	if n.Kind != tree.KindObject && !n.IsEmptyContainer() {
		it := cw.Root().Issue(cw.CodeUnknownTopLevelShape, i18n.T(cw.CodeUnknownTopLevelShape, map[string]string{"got": n.Kind.String()}))
		it.Record = s.plan.desc.Name
		it.Offset = n.Offset
		return zero, nil, cw.Issues{it}
	}
	b := &binder{ctx: ctx, opt: cw.DecodeOptFrom(ctx)}
	out := reflect.New(s.plan.rt)
	iss, _ := b.record(s.plan, n, cw.Root(), 0, out.Elem())
	if iss.Structural() {
		return zero, b.warns, iss
	}
	return s.result(out), b.warns, iss.OrNil()
}

func (s *boundSchema[T]) result(out reflect.Value) T {
	if s.ptr {
		return out.Interface().(T)
	}
	return out.Elem().Interface().(T)
}
