package clausewitz

import (
	"fmt"
	"strings"
)

// Cardinality tells the binder how many occurrences of a wire key a field
// takes and what the absence of the key means.
type Cardinality int

const (
	// Optional fields may be absent. Repeated keys: the last one wins.
	Optional Cardinality = iota
	// Required fields report missing_field when absent.
	Required
	// Duplicated fields aggregate every occurrence, in input order.
	Duplicated
	// Keyed fields hold an object whose keys are decoded scalars (for
	// example entity ids) and whose values share one element shape.
	Keyed
)

func (c Cardinality) String() string {
	switch c {
	case Optional:
		return "optional"
	case Required:
		return "required"
	case Duplicated:
		return "duplicated"
	case Keyed:
		return "keyed"
	}
	return fmt.Sprintf("cardinality(%d)", int(c))
}

// Hint selects the value decoder for a field.
type Hint int

const (
	HintInt Hint = iota
	HintUint
	HintFloat
	HintReencoded
	HintString
	HintBool
	HintDate
	HintRecord
	HintList
)

func (h Hint) String() string {
	switch h {
	case HintInt:
		return "int"
	case HintUint:
		return "uint"
	case HintFloat:
		return "float"
	case HintReencoded:
		return "reencoded"
	case HintString:
		return "string"
	case HintBool:
		return "bool"
	case HintDate:
		return "date"
	case HintRecord:
		return "record"
	case HintList:
		return "list"
	}
	return fmt.Sprintf("hint(%d)", int(h))
}

// IsScalar reports whether h decodes a single scalar token.
func (h Hint) IsScalar() bool { return h != HintRecord && h != HintList }

// ValueType describes the shape of a decoded value: a scalar hint, a
// nested record, or a list of another ValueType.
type ValueType struct {
	Hint   Hint
	Record *RecordDescriptor // HintRecord
	Elem   *ValueType        // HintList
	// Transform is resolved for HintReencoded when the owning record is
	// bound; it stays nil on unbound descriptors.
	Transform *Transform
}

func (v ValueType) String() string {
	switch v.Hint {
	case HintRecord:
		if v.Record != nil {
			return v.Record.Name
		}
	case HintList:
		if v.Elem != nil {
			return "list<" + v.Elem.String() + ">"
		}
	}
	return v.Hint.String()
}

// FieldDescriptor is the static description of one record field.
type FieldDescriptor struct {
	Name        string   // Logical name, also the default wire key.
	Aliases     []string // Additional accepted wire keys.
	Cardinality Cardinality
	Value       ValueType
	// Key is the decode hint for keys of a Keyed field.
	Key Hint
}

// Keys returns the wire keys accepted by f: its name then its aliases.
func (f *FieldDescriptor) Keys() []string {
	out := make([]string, 0, 1+len(f.Aliases))
	out = append(out, f.Name)
	for _, a := range f.Aliases {
		if a != f.Name {
			out = append(out, a)
		}
	}
	return out
}

// RecordDescriptor is the ordered field list of a record type. It is
// frozen by Freeze and shared read-only between decode calls.
type RecordDescriptor struct {
	Name   string
	Fields []FieldDescriptor

	byKey  map[string]int
	frozen bool
}

// Identity returns the field identity used to look up transforms:
// "Record.field".
func (r *RecordDescriptor) Identity(field string) string { return r.Name + "." + field }

// FieldIndex returns the index of the field accepting wire key k.
func (r *RecordDescriptor) FieldIndex(k string) (int, bool) {
	i, ok := r.byKey[k]
	return i, ok
}

// Frozen reports whether r was frozen.
func (r *RecordDescriptor) Frozen() bool { return r.frozen }

// Freeze validates r, indexes its wire keys and resolves reencoding
// transforms from reg. It must be called before r is shared. Nested
// records are frozen recursively.
func (r *RecordDescriptor) Freeze(reg Transforms) error {
	return r.freeze(reg, map[*RecordDescriptor]bool{})
}

func (r *RecordDescriptor) freeze(reg Transforms, seen map[*RecordDescriptor]bool) error {
	if r.frozen || seen[r] {
		return nil
	}
	seen[r] = true
	if r.Name == "" {
		return fmt.Errorf("clausewitz: record without name")
	}
	byKey := make(map[string]int, len(r.Fields))
	for i := range r.Fields {
		f := &r.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("clausewitz: %s: field %d has no name", r.Name, i)
		}
		for _, k := range f.Keys() {
			if prev, dup := byKey[k]; dup {
				return fmt.Errorf("clausewitz: %s: wire key %q claimed by %s and %s", r.Name, k, r.Fields[prev].Name, f.Name)
			}
			byKey[k] = i
		}
		if f.Cardinality == Keyed && !f.Key.IsScalar() {
			return fmt.Errorf("clausewitz: %s.%s: keyed field needs a scalar key hint, got %s", r.Name, f.Name, f.Key)
		}
		if err := f.Value.resolve(r.Identity(f.Name), reg, seen); err != nil {
			return fmt.Errorf("clausewitz: %s.%s: %w", r.Name, f.Name, err)
		}
	}
	r.byKey = byKey
	r.frozen = true
	return nil
}

func (v *ValueType) resolve(identity string, reg Transforms, seen map[*RecordDescriptor]bool) error {
	switch v.Hint {
	case HintReencoded:
		if v.Transform != nil {
			return nil
		}
		t, ok := reg[identity]
		if !ok || t.Decode == nil {
			return fmt.Errorf("no transform registered for %s", identity)
		}
		v.Transform = &t
	case HintRecord:
		if v.Record == nil {
			return fmt.Errorf("record hint without descriptor")
		}
		return v.Record.freeze(reg, seen)
	case HintList:
		if v.Elem == nil {
			return fmt.Errorf("list hint without element type")
		}
		return v.Elem.resolve(identity, reg, seen)
	}
	return nil
}

// String renders r as a compact schema listing, mainly for diagnostics.
func (r *RecordDescriptor) String() string {
	b := &strings.Builder{}
	b.WriteString(r.Name)
	b.WriteString(" {")
	for i, f := range r.Fields {
		if i > 0 {
			b.WriteString(";")
		}
		fmt.Fprintf(b, " %s %s %s", f.Name, f.Cardinality, f.Value)
	}
	b.WriteString(" }")
	return b.String()
}
