package dsl

import (
	"context"
	"reflect"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	cw "github.com/reoring/clausewitz"
	"github.com/reoring/clausewitz/codec"
	"github.com/reoring/clausewitz/i18n"
	"github.com/reoring/clausewitz/tree"
)

// binder walks a token tree along a recordPlan. One binder serves one
// goroutine; keyed-collection workers each get their own.
type binder struct {
	ctx context.Context
	opt cw.DecodeOpt
	// warns holds Warn-severity issues in walk order. The caller forwards
	// them to the sink once the decode has joined.
	warns cw.Issues
}

// record binds object n into out. ok is false when the record could not be
// bound at all (wrong shape or a structural issue).
func (b *binder) record(rp *recordPlan, n tree.Node, path cw.PathRef, depth int, out reflect.Value) (iss cw.Issues, ok bool) {
	if depth > b.opt.MaxDepth {
		return depthExceeded(path, b.opt.MaxDepth), false
	}
	if n.Kind != tree.KindObject && !n.IsEmptyContainer() {
		return mismatch(path, rp.desc.Name, n), false
	}
	// Pair indexes per field, in input order.
	buckets := make([][]int, len(rp.fields))
	for i, pr := range n.Pairs {
		if fi, known := rp.desc.FieldIndex(pr.Key); known {
			buckets[fi] = append(buckets[fi], i)
		}
	}
	for i := range rp.fields {
		fp := &rp.fields[i]
		more := b.field(rp.desc.Name, fp, n.Pairs, buckets[i], path, depth, out.FieldByIndex(fp.index))
		if len(more) == 0 {
			continue
		}
		iss = append(iss, withRecord(more, rp.desc.Name)...)
		if more.Structural() {
			return iss, false
		}
		if b.opt.FailFast {
			return iss, true
		}
	}
	return iss, true
}

func (b *binder) field(record string, fp *fieldPlan, pairs []tree.Pair, occ []int, path cw.PathRef, depth int, dst reflect.Value) cw.Issues {
	fd := fp.fd
	if fd.Cardinality == cw.Duplicated {
		return b.duplicated(fp, pairs, occ, path, depth, dst)
	}
	if len(occ) == 0 {
		if fd.Cardinality == cw.Required {
			it := path.Field(fd.Name).Issue(cw.CodeMissingField, i18n.T(cw.CodeMissingField, nil))
			it.Hint = fd.Value.String()
			return cw.Issues{it}
		}
		return nil
	}
	last := pairs[occ[len(occ)-1]]
	fpath := path.Field(fd.Name)
	var iss cw.Issues
	if len(occ) > 1 {
		iss = b.duplicate(record, last.Key, fpath, len(occ))
	}
	if fd.Cardinality == cw.Keyed {
		return append(iss, b.keyed(record, fp, last.Value, fpath, depth, dst)...)
	}
	v, more, ok := b.value(fp.value, last.Value, fpath, depth)
	iss = append(iss, more...)
	if ok {
		dst.Set(fit(v, fp.ft))
	}
	return iss
}

func (b *binder) duplicated(fp *fieldPlan, pairs []tree.Pair, occ []int, path cw.PathRef, depth int, dst reflect.Value) cw.Issues {
	if len(occ) == 0 {
		return nil
	}
	var iss cw.Issues
	slice := reflect.MakeSlice(fp.ft, 0, len(occ))
	for i, pi := range occ {
		pr := pairs[pi]
		v, more, ok := b.value(fp.value, pr.Value, path.Field(fp.fd.Name).Index(i), depth)
		if len(more) > 0 {
			iss = append(iss, more...)
			if more.Structural() || b.opt.FailFast {
				return iss
			}
			continue
		}
		if ok {
			slice = reflect.Append(slice, fit(v, fp.ft.Elem()))
		}
	}
	if slice.Len() > 0 {
		dst.Set(slice)
	}
	return iss
}

// duplicate reports a repeated key on a single-valued field. The last
// occurrence has already won; this only decides how loud to be.
func (b *binder) duplicate(record, key string, path cw.PathRef, count int) cw.Issues {
	sev := b.opt.Strictness.OnDuplicateKey
	if sev == cw.Ignore {
		return nil
	}
	msg := i18n.T(cw.CodeDuplicateKey, map[string]string{"got": key})
	it := cw.IssueAt(path, cw.CodeDuplicateKey, msg, map[string]any{"key": key, "count": count})
	it.Record = record
	if sev == cw.Warn {
		b.warns = append(b.warns, it)
		return nil
	}
	return cw.Issues{it}
}

func (b *binder) value(vp *valuePlan, n tree.Node, path cw.PathRef, depth int) (reflect.Value, cw.Issues, bool) {
	switch vp.vt.Hint {
	case cw.HintRecord:
		out := reflect.New(vp.rt).Elem()
		iss, ok := b.record(vp.rec, n, path, depth+1, out)
		if !ok {
			return reflect.Value{}, iss, false
		}
		return out, iss, true
	case cw.HintList:
		return b.list(vp, n, path, depth)
	}
	return b.scalar(vp, n, path)
}

func (b *binder) list(vp *valuePlan, n tree.Node, path cw.PathRef, depth int) (reflect.Value, cw.Issues, bool) {
	if depth+1 > b.opt.MaxDepth {
		return reflect.Value{}, depthExceeded(path, b.opt.MaxDepth), false
	}
	if n.Kind != tree.KindArray && !n.IsEmptyContainer() {
		return reflect.Value{}, mismatch(path, vp.vt.String(), n), false
	}
	var iss cw.Issues
	slice := reflect.MakeSlice(vp.rt, 0, len(n.Items))
	for i, item := range n.Items {
		v, more, ok := b.value(vp.elem, item, path.Index(i), depth+1)
		if len(more) > 0 {
			iss = append(iss, more...)
			if more.Structural() || b.opt.FailFast {
				return reflect.Value{}, iss, false
			}
			continue
		}
		if ok {
			slice = reflect.Append(slice, fit(v, vp.rt.Elem()))
		}
	}
	return slice, iss, true
}

func (b *binder) scalar(vp *valuePlan, n tree.Node, path cw.PathRef) (reflect.Value, cw.Issues, bool) {
	out := reflect.New(vp.rt).Elem()
	var err error
	switch vp.vt.Hint {
	case cw.HintInt:
		var v int64
		if v, err = codec.Int(n); err == nil {
			if out.OverflowInt(v) {
				err = overflow(vp, n)
			} else {
				out.SetInt(v)
			}
		}
	case cw.HintUint:
		var v uint64
		if v, err = codec.Uint(n); err == nil {
			if out.OverflowUint(v) {
				err = overflow(vp, n)
			} else {
				out.SetUint(v)
			}
		}
	case cw.HintFloat:
		var v float64
		if v, err = codec.Float(n); err == nil {
			if out.OverflowFloat(v) {
				err = overflow(vp, n)
			} else {
				out.SetFloat(v)
			}
		}
	case cw.HintReencoded:
		var v float64
		if v, err = codec.Reencode(n, *vp.vt.Transform); err == nil {
			if out.OverflowFloat(v) {
				err = overflow(vp, n)
			} else {
				out.SetFloat(v)
			}
		}
	case cw.HintString:
		var v string
		if v, err = codec.String(n); err == nil {
			out.SetString(v)
		}
	case cw.HintBool:
		var v bool
		if v, err = codec.Bool(n); err == nil {
			out.SetBool(v)
		}
	case cw.HintDate:
		var d cw.Date
		if d, err = codec.Date(n, b.opt.Era); err == nil {
			out.Set(reflect.ValueOf(d))
		}
	}
	if err != nil {
		iss, ok := cw.AsIssues(err)
		if !ok {
			iss = cw.Issues{{Path: "/", Code: cw.CodeTypeMismatch, Message: err.Error(), Cause: err, Offset: n.Offset}}
		}
		return reflect.Value{}, iss.Rebase(path.Pointer()), false
	}
	return out, nil, true
}

type entry struct {
	wire string
	key  reflect.Value
	val  reflect.Value
}

// keyed binds an object of entity-id keyed values into a map.
func (b *binder) keyed(record string, fp *fieldPlan, n tree.Node, path cw.PathRef, depth int, dst reflect.Value) cw.Issues {
	if depth+1 > b.opt.MaxDepth {
		return depthExceeded(path, b.opt.MaxDepth)
	}
	if n.Kind != tree.KindObject && !n.IsEmptyContainer() {
		return mismatch(path, "keyed "+fp.fd.Value.String(), n)
	}
	idx := make([]int, 0, len(n.Pairs))
	for i, pr := range n.Pairs {
		if isNone(pr.Value) {
			continue
		}
		idx = append(idx, i)
	}
	entries, iss := b.entries(fp, n.Pairs, idx, path, depth+1)
	if iss.Structural() {
		return iss
	}
	m := reflect.MakeMapWithSize(fp.ft, len(entries))
	var dups []string
	counts := map[string]int{}
	for _, e := range entries {
		if m.MapIndex(e.key).IsValid() {
			if counts[e.wire] == 0 {
				dups = append(dups, e.wire)
			}
			counts[e.wire]++
		}
		m.SetMapIndex(e.key, fit(e.val, fp.ft.Elem()))
	}
	for _, wire := range dups {
		iss = append(iss, b.duplicate(record, wire, path.Field(wire), counts[wire]+1)...)
	}
	dst.Set(m)
	return iss
}

// entries decodes the selected pairs. With Workers > 1 the pairs are split
// into contiguous partitions decoded concurrently, each by its own binder.
// Partitions are merged in order up to and including the first one that
// stopped early, so entries, issues and warnings match a sequential decode.
func (b *binder) entries(fp *fieldPlan, pairs []tree.Pair, idx []int, path cw.PathRef, depth int) ([]entry, cw.Issues) {
	workers := b.opt.Workers
	if workers < 2 || len(idx) < 2*workers {
		out, iss, _ := b.entryRange(fp, pairs, idx, path, depth, nil)
		return out, iss
	}
	type part struct {
		out     []entry
		iss     cw.Issues
		warns   cw.Issues
		stopped bool
	}
	parts := make([]part, workers)
	chunk := (len(idx) + workers - 1) / workers
	// first partition that stopped; later partitions can give up
	var cut atomic.Int64
	cut.Store(int64(workers))
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(idx) {
			break
		}
		hi := min(lo+chunk, len(idx))
		g.Go(func() error {
			sub := &binder{ctx: b.ctx, opt: b.opt}
			out, iss, stopped := sub.entryRange(fp, pairs, idx[lo:hi], path, depth, func() bool {
				return cut.Load() < int64(w)
			})
			if stopped {
				for {
					c := cut.Load()
					if c <= int64(w) || cut.CompareAndSwap(c, int64(w)) {
						break
					}
				}
			}
			parts[w] = part{out: out, iss: iss, warns: sub.warns, stopped: stopped}
			return nil
		})
	}
	_ = g.Wait()
	b.opt.Logger.Debug("keyed field decoded",
		zap.String("field", fp.fd.Name),
		zap.Int("entries", len(idx)),
		zap.Int("workers", workers))
	out := make([]entry, 0, len(idx))
	var iss cw.Issues
	for _, p := range parts {
		out = append(out, p.out...)
		iss = append(iss, p.iss...)
		b.warns = append(b.warns, p.warns...)
		if p.stopped {
			break
		}
	}
	return out, iss
}

// entryRange decodes idx in order. stopped reports that it returned early
// on a structural issue, a FailFast issue or cancellation. halt, when set,
// lets the caller end the range without an issue once its result can no
// longer be used.
func (b *binder) entryRange(fp *fieldPlan, pairs []tree.Pair, idx []int, path cw.PathRef, depth int, halt func() bool) (out []entry, iss cw.Issues, stopped bool) {
	out = make([]entry, 0, len(idx))
	for _, i := range idx {
		if err := b.ctx.Err(); err != nil {
			return out, append(iss, cw.Canceled(err).Rebase(path.Pointer())...), true
		}
		if halt != nil && halt() {
			return out, iss, false
		}
		pr := pairs[i]
		ep := path.Field(pr.Key)
		k, more, ok := b.scalar(fp.key, tree.Scalar(pr.Key), ep)
		if ok {
			var v reflect.Value
			v, more, ok = b.value(fp.value, pr.Value, ep, depth)
			if ok && len(more) == 0 {
				out = append(out, entry{wire: pr.Key, key: k, val: v})
				continue
			}
		}
		iss = append(iss, more...)
		if more.Structural() || b.opt.FailFast {
			return out, iss, true
		}
	}
	return out, iss, false
}

func isNone(n tree.Node) bool {
	return n.Kind == tree.KindScalar && !n.Quoted && n.Text == "none"
}

func mismatch(path cw.PathRef, expected string, n tree.Node) cw.Issues {
	it := cw.NewIssue(cw.CodeTypeMismatch, expected, n.Kind.String())
	it.Path = path.Pointer()
	it.Offset = n.Offset
	return cw.Issues{it}
}

func overflow(vp *valuePlan, n tree.Node) cw.Issues {
	it := cw.NewIssue(cw.CodeTypeMismatch, vp.rt.String(), n.Text)
	it.Offset = n.Offset
	return cw.Issues{it}
}

func depthExceeded(path cw.PathRef, max int) cw.Issues {
	it := path.Issue(cw.CodeDepthExceeded, i18n.T(cw.CodeDepthExceeded, nil), "max", max)
	return cw.Issues{it}
}

func withRecord(iss cw.Issues, record string) cw.Issues {
	for i := range iss {
		if iss[i].Record == "" {
			iss[i].Record = record
		}
	}
	return iss
}
