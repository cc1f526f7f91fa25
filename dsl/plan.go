package dsl

import (
	"fmt"
	"reflect"

	cw "github.com/reoring/clausewitz"
)

var dateType = reflect.TypeOf(cw.Date{})

// recordPlan maps a frozen descriptor onto a struct type.
type recordPlan struct {
	desc   *cw.RecordDescriptor
	rt     reflect.Type
	fields []fieldPlan // descriptor order
}

type fieldPlan struct {
	fd    *cw.FieldDescriptor
	index []int
	ft    reflect.Type // struct field type
	key   *valuePlan   // Keyed only
	value *valuePlan
}

// valuePlan is the decoder for one ValueType into rt. rt is never a
// pointer; pointers are added by fit when the destination wants one.
type valuePlan struct {
	vt   *cw.ValueType
	rt   reflect.Type
	rec  *recordPlan
	elem *valuePlan
}

type planKey struct {
	desc *cw.RecordDescriptor
	rt   reflect.Type
}

type planner struct {
	seen map[planKey]*recordPlan
}

func newRecordPlan(d *cw.RecordDescriptor, rt reflect.Type) (*recordPlan, error) {
	p := &planner{seen: map[planKey]*recordPlan{}}
	return p.record(d, rt)
}

func (p *planner) record(d *cw.RecordDescriptor, rt reflect.Type) (*recordPlan, error) {
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("dsl: record %s needs a struct, got %s", d.Name, rt)
	}
	k := planKey{d, rt}
	if rp, ok := p.seen[k]; ok {
		return rp, nil
	}
	rp := &recordPlan{desc: d, rt: rt}
	p.seen[k] = rp

	byTag := structKeys(rt)
	for i := range d.Fields {
		fd := &d.Fields[i]
		sf, ok := byTag[fd.Name]
		if !ok {
			return nil, fmt.Errorf("dsl: %s.%s has no matching field in %s", d.Name, fd.Name, rt)
		}
		fp, err := p.field(d, fd, sf)
		if err != nil {
			return nil, err
		}
		rp.fields = append(rp.fields, fp)
	}
	return rp, nil
}

func (p *planner) field(d *cw.RecordDescriptor, fd *cw.FieldDescriptor, sf reflect.StructField) (fieldPlan, error) {
	fp := fieldPlan{fd: fd, index: sf.Index, ft: sf.Type}
	where := d.Name + "." + fd.Name
	var target reflect.Type
	switch fd.Cardinality {
	case cw.Optional, cw.Required:
		target = deref(sf.Type)
	case cw.Duplicated:
		if sf.Type.Kind() != reflect.Slice {
			return fp, fmt.Errorf("dsl: %s is duplicated and needs a slice, got %s", where, sf.Type)
		}
		target = deref(sf.Type.Elem())
	case cw.Keyed:
		if sf.Type.Kind() != reflect.Map {
			return fp, fmt.Errorf("dsl: %s is keyed and needs a map, got %s", where, sf.Type)
		}
		if fd.Key == cw.HintReencoded {
			return fp, fmt.Errorf("dsl: %s: reencoded map keys are not supported", where)
		}
		kvt := &cw.ValueType{Hint: fd.Key}
		kp, err := p.value(where+" key", kvt, sf.Type.Key())
		if err != nil {
			return fp, err
		}
		fp.key = kp
		target = deref(sf.Type.Elem())
	default:
		return fp, fmt.Errorf("dsl: %s: unknown cardinality %s", where, fd.Cardinality)
	}
	vp, err := p.value(where, &fd.Value, target)
	if err != nil {
		return fp, err
	}
	fp.value = vp
	return fp, nil
}

func (p *planner) value(where string, vt *cw.ValueType, rt reflect.Type) (*valuePlan, error) {
	vp := &valuePlan{vt: vt, rt: rt}
	bad := func() (*valuePlan, error) {
		return nil, fmt.Errorf("dsl: %s: %s value cannot bind to %s", where, vt.Hint, rt)
	}
	switch vt.Hint {
	case cw.HintInt:
		switch rt.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		default:
			return bad()
		}
	case cw.HintUint:
		switch rt.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return bad()
		}
	case cw.HintFloat, cw.HintReencoded:
		if rt.Kind() != reflect.Float64 && rt.Kind() != reflect.Float32 {
			return bad()
		}
		if vt.Hint == cw.HintReencoded && vt.Transform == nil {
			return nil, fmt.Errorf("dsl: %s: reencoded value has no transform", where)
		}
	case cw.HintString:
		if rt.Kind() != reflect.String {
			return bad()
		}
	case cw.HintBool:
		if rt.Kind() != reflect.Bool {
			return bad()
		}
	case cw.HintDate:
		if rt != dateType {
			return bad()
		}
	case cw.HintRecord:
		rp, err := p.record(vt.Record, rt)
		if err != nil {
			return nil, err
		}
		vp.rec = rp
	case cw.HintList:
		if rt.Kind() != reflect.Slice {
			return bad()
		}
		ep, err := p.value(where+"[]", vt.Elem, deref(rt.Elem()))
		if err != nil {
			return nil, err
		}
		vp.elem = ep
	default:
		return bad()
	}
	return vp, nil
}

func deref(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

// fit adapts v to destination type t, allocating a pointer when needed.
func fit(v reflect.Value, t reflect.Type) reflect.Value {
	if t.Kind() == reflect.Pointer && v.Type() == t.Elem() {
		p := reflect.New(t.Elem())
		p.Elem().Set(v)
		return p
	}
	return v
}

// structKeys indexes exported fields by their resolved wire key.
func structKeys(rt reflect.Type) map[string]reflect.StructField {
	out := make(map[string]reflect.StructField, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		if name := cw.ResolveStructKey(sf); name != "-" {
			out[name] = sf
		}
	}
	return out
}
