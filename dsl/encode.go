package dsl

import (
	"cmp"
	"context"
	"reflect"
	"slices"

	cw "github.com/reoring/clausewitz"
	"github.com/reoring/clausewitz/codec"
	"github.com/reoring/clausewitz/i18n"
	"github.com/reoring/clausewitz/tree"
)

// Encode renders v as an object node in descriptor order. Reencoded fields
// go through the inverse transform; keyed maps are written in key order.
func (s *boundSchema[T]) Encode(ctx context.Context, v T) (cw.Node, error) {
	rv := reflect.ValueOf(v)
	if s.ptr {
		if rv.IsNil() {
			return tree.Object(), nil
		}
		rv = rv.Elem()
	}
	e := &encoder{opt: cw.DecodeOptFrom(ctx)}
	n, iss := e.record(s.plan, rv, cw.Root())
	return n, iss.OrNil()
}

type encoder struct {
	opt cw.DecodeOpt
}

func (e *encoder) record(rp *recordPlan, rv reflect.Value, path cw.PathRef) (tree.Node, cw.Issues) {
	obj := tree.Object()
	var iss cw.Issues
	for i := range rp.fields {
		fp := &rp.fields[i]
		fd := fp.fd
		fv := rv.FieldByIndex(fp.index)
		fpath := path.Field(fd.Name)
		switch fd.Cardinality {
		case cw.Optional, cw.Required:
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					if fd.Cardinality == cw.Required {
						it := fpath.Issue(cw.CodeMissingField, i18n.T(cw.CodeMissingField, nil))
						it.Record = rp.desc.Name
						iss = append(iss, it)
					}
					continue
				}
				fv = fv.Elem()
			}
			if fd.Cardinality == cw.Optional && (fv.Kind() == reflect.Slice || fv.Kind() == reflect.Map) && fv.IsNil() {
				continue
			}
			n, more := e.value(fp.value, fv, fpath)
			if len(more) > 0 {
				iss = append(iss, withRecord(more, rp.desc.Name)...)
				continue
			}
			obj.Pairs = append(obj.Pairs, tree.KV(fd.Name, n))
		case cw.Duplicated:
			for j := 0; j < fv.Len(); j++ {
				el, ok := indirect(fv.Index(j))
				if !ok {
					continue
				}
				n, more := e.value(fp.value, el, fpath.Index(j))
				if len(more) > 0 {
					iss = append(iss, withRecord(more, rp.desc.Name)...)
					continue
				}
				obj.Pairs = append(obj.Pairs, tree.KV(fd.Name, n))
			}
		case cw.Keyed:
			if fv.IsNil() {
				continue
			}
			n, more := e.keyed(fp, fv, fpath)
			iss = append(iss, withRecord(more, rp.desc.Name)...)
			obj.Pairs = append(obj.Pairs, tree.KV(fd.Name, n))
		}
	}
	return obj, iss
}

func (e *encoder) keyed(fp *fieldPlan, m reflect.Value, path cw.PathRef) (tree.Node, cw.Issues) {
	keys := m.MapKeys()
	slices.SortFunc(keys, compareKeys)
	obj := tree.Object()
	var iss cw.Issues
	for _, k := range keys {
		kn, more := e.scalar(fp.key, k)
		if len(more) > 0 {
			iss = append(iss, more.Rebase(path.Pointer())...)
			continue
		}
		el, ok := indirect(m.MapIndex(k))
		if !ok {
			continue
		}
		vn, more := e.value(fp.value, el, path.Field(kn.Text))
		if len(more) > 0 {
			iss = append(iss, more...)
			continue
		}
		obj.Pairs = append(obj.Pairs, tree.KV(kn.Text, vn))
	}
	return obj, iss
}

func (e *encoder) value(vp *valuePlan, v reflect.Value, path cw.PathRef) (tree.Node, cw.Issues) {
	switch vp.vt.Hint {
	case cw.HintRecord:
		return e.record(vp.rec, v, path)
	case cw.HintList:
		arr := tree.Array()
		var iss cw.Issues
		for i := 0; i < v.Len(); i++ {
			el, ok := indirect(v.Index(i))
			if !ok {
				continue
			}
			n, more := e.value(vp.elem, el, path.Index(i))
			if len(more) > 0 {
				iss = append(iss, more...)
				continue
			}
			arr.Items = append(arr.Items, n)
		}
		return arr, iss
	}
	n, iss := e.scalar(vp, v)
	return n, iss.Rebase(path.Pointer())
}

func (e *encoder) scalar(vp *valuePlan, v reflect.Value) (tree.Node, cw.Issues) {
	switch vp.vt.Hint {
	case cw.HintInt:
		return codec.FormatInt(v.Int()), nil
	case cw.HintUint:
		return codec.FormatUint(v.Uint()), nil
	case cw.HintFloat:
		return codec.FormatFloat(v.Float()), nil
	case cw.HintReencoded:
		n, err := codec.Unreencode(v.Float(), *vp.vt.Transform)
		if err != nil {
			iss, _ := cw.AsIssues(err)
			return tree.Node{}, iss
		}
		return n, nil
	case cw.HintString:
		return codec.FormatString(v.String()), nil
	case cw.HintBool:
		return codec.FormatBool(v.Bool()), nil
	case cw.HintDate:
		return codec.FormatDate(v.Interface().(cw.Date), e.opt.Era), nil
	}
	return tree.Node{}, cw.Issues{cw.NewIssue(cw.CodeTypeMismatch, vp.vt.String(), v.Type().String())}
}

func indirect(v reflect.Value) (reflect.Value, bool) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return v, false
		}
		return v.Elem(), true
	}
	return v, true
}

func compareKeys(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Bool:
		return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
	}
	if da, ok := a.Interface().(cw.Date); ok {
		return da.Compare(b.Interface().(cw.Date))
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
