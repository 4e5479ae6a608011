// Package metaobject resolves the commerce API's generic metaobject records
// into the typed view models the storefront renders. Every lookup degrades to
// a default instead of failing: missing text becomes "", missing references
// become nil, missing lists become empty. Only the fetch layer produces
// errors; by the time data reaches this package, absence is a normal outcome.
package metaobject

import (
	"strings"

	"github.com/emberline/storefront/internal/commerce"
)

// Verdict is the terminal classification of a resolved section.
type Verdict int

const (
	// VerdictAbsent means the metaobject itself (or its field list) is
	// missing: the entry is not configured, has the wrong handle or type, or
	// is hidden from the storefront. Callers render a placeholder.
	VerdictAbsent Verdict = iota
	// VerdictEmpty means the entry resolved but its required collection
	// projected to zero usable entries. Callers render nothing.
	VerdictEmpty
	// VerdictReady means the view model is populated.
	VerdictReady
)

// String returns the wire/state name of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictEmpty:
		return "empty"
	case VerdictReady:
		return "ready"
	default:
		return "absent"
	}
}

// Lookup is a key-indexed view over one metaobject, built once per resolution.
// Duplicate keys keep the first field in list order.
type Lookup struct {
	obj    *commerce.Metaobject
	fields map[string]*commerce.Field
}

// NewLookup indexes the metaobject's fields by key. A nil metaobject yields a
// lookup whose accessors all return defaults.
func NewLookup(obj *commerce.Metaobject) Lookup {
	l := Lookup{obj: obj}
	if obj == nil || obj.Fields == nil {
		return l
	}
	l.fields = make(map[string]*commerce.Field, len(obj.Fields))
	for i := range obj.Fields {
		field := &obj.Fields[i]
		if _, ok := l.fields[field.Key]; !ok {
			l.fields[field.Key] = field
		}
	}
	return l
}

// Present reports whether the metaobject and its field list exist at all.
func (l Lookup) Present() bool {
	return l.obj != nil && l.obj.Fields != nil
}

// FieldValue returns the value of the first field with the given key, or ""
// when no such field exists. Key comparison is case-sensitive and exact.
func (l Lookup) FieldValue(key string) string {
	if field, ok := l.fields[key]; ok {
		return field.Value
	}
	return ""
}

// FieldType returns the declared type of the first field with the given key,
// or "" when absent.
func (l Lookup) FieldType(key string) string {
	if field, ok := l.fields[key]; ok {
		return field.Type
	}
	return ""
}

// Reference returns the single linked entity of the field, or nil when the
// field is missing or carries no reference.
func (l Lookup) Reference(key string) *commerce.Reference {
	if field, ok := l.fields[key]; ok {
		return field.Reference
	}
	return nil
}

// ImageRef narrows the field's reference to an image payload. Missing fields,
// missing references, and references without a usable image URL all yield nil.
func (l Lookup) ImageRef(key string) *commerce.Image {
	return l.Reference(key).AsImage()
}

// ReferenceList returns the field's linked entities. No key match, a field
// without references, and an explicitly empty list are indistinguishable: all
// yield an empty slice, never nil.
func (l Lookup) ReferenceList(key string) []commerce.Reference {
	if field, ok := l.fields[key]; ok && field.References != nil {
		return field.References
	}
	return []commerce.Reference{}
}

// Classify is the verdict for sections without a required collection: Absent
// when the metaobject is missing, Ready otherwise.
func (l Lookup) Classify() Verdict {
	if !l.Present() {
		return VerdictAbsent
	}
	return VerdictReady
}

// ClassifyCollection is the verdict for sections whose usefulness depends on a
// projected collection: Absent when the metaobject is missing, Empty when the
// collection projected to zero entries, Ready otherwise.
func (l Lookup) ClassifyCollection(projected int) Verdict {
	if !l.Present() {
		return VerdictAbsent
	}
	if projected <= 0 {
		return VerdictEmpty
	}
	return VerdictReady
}

// Project filters refs to entries satisfying pred and maps the survivors with
// mapper, preserving source order. Dropped entries never surface as partial
// results. The returned slice is never nil.
func Project[T any](refs []commerce.Reference, pred func(*commerce.Reference) bool, mapper func(*commerce.Reference) T) []T {
	out := make([]T, 0, len(refs))
	for i := range refs {
		ref := &refs[i]
		if !pred(ref) {
			continue
		}
		out = append(out, mapper(ref))
	}
	return out
}

// TrimmedValue is FieldValue with surrounding whitespace removed, the common
// case for headings and labels.
func (l Lookup) TrimmedValue(key string) string {
	return strings.TrimSpace(l.FieldValue(key))
}
