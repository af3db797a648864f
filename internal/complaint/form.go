package complaint

import (
	"strings"
)

// State is the position of a form in the intake dialogue. It is derived from the
// form's contents, never stored.
type State string

const (
	StateCategoryPending State = "category_pending"
	StateFieldCollection State = "field_collection"
	StateComplete        State = "complete"
)

// Value is one declared field and its answer. A nil Value means not yet collected.
type Value struct {
	Field string  `json:"field"`
	Value *string `json:"value"`
}

// Form is an in-flight complaint. Values keep the declared field order.
type Form struct {
	Category    string   `json:"category,omitempty"`
	Subtype     string   `json:"subtype,omitempty"`
	Values      []Value  `json:"values"`
	Attachments []string `json:"attachments"`
	// Focus is a field reopened by an edit. It is collected before any other
	// pending field.
	Focus string `json:"focus,omitempty"`
}

// NewForm creates an empty form for the declared fields.
func NewForm(fields []Field) *Form {
	f := &Form{Values: make([]Value, len(fields))}
	for i, field := range fields {
		f.Values[i] = Value{Field: field.Name}
	}
	return f
}

// State reports where the dialogue stands.
func (f *Form) State() State {
	switch {
	case f.Category == "" || f.Subtype == "":
		return StateCategoryPending
	case f.Complete():
		return StateComplete
	}
	return StateFieldCollection
}

// Complete reports whether every declared field has a value.
func (f *Form) Complete() bool {
	for _, v := range f.Values {
		if v.Value == nil {
			return false
		}
	}
	return true
}

// Get returns a field's value and whether it has been collected.
func (f *Form) Get(name string) (string, bool) {
	for _, v := range f.Values {
		if v.Field == name && v.Value != nil {
			return *v.Value, true
		}
	}
	return "", false
}

// Set stores a field value. Unknown fields are ignored and reported false.
func (f *Form) Set(name, value string) bool {
	for i := range f.Values {
		if f.Values[i].Field == name {
			v := value
			f.Values[i].Value = &v
			if f.Focus == name {
				f.Focus = ""
			}
			return true
		}
	}
	return false
}

// Clear nulls exactly one field.
func (f *Form) Clear(name string) bool {
	for i := range f.Values {
		if f.Values[i].Field == name {
			f.Values[i].Value = nil
			return true
		}
	}
	return false
}

// NextPending returns the field to collect next: the focused field if it is still
// empty, otherwise the first field in declared order without a value.
func (f *Form) NextPending() (string, bool) {
	if f.Focus != "" {
		for _, v := range f.Values {
			if v.Field == f.Focus && v.Value == nil {
				return v.Field, true
			}
		}
	}
	for _, v := range f.Values {
		if v.Value == nil {
			return v.Field, true
		}
	}
	return "", false
}

// Pending returns every field without a value, in declared order.
func (f *Form) Pending() []string {
	var out []string
	for _, v := range f.Values {
		if v.Value == nil {
			out = append(out, v.Field)
		}
	}
	return out
}

// Pair returns the form's classification.
func (f *Form) Pair() Pair {
	return Pair{Category: f.Category, Subtype: f.Subtype}
}

// align makes the form's values match the declared fields, keeping collected
// answers for fields that are still declared.
func (f *Form) align(fields []Field) {
	if len(f.Values) == len(fields) {
		same := true
		for i, field := range fields {
			if f.Values[i].Field != field.Name {
				same = false
				break
			}
		}
		if same {
			return
		}
	}
	old := f.Values
	f.Values = make([]Value, len(fields))
	for i, field := range fields {
		f.Values[i] = Value{Field: field.Name}
		for _, v := range old {
			if v.Field == field.Name {
				f.Values[i].Value = v.Value
			}
		}
	}
}

var noneAnswers = map[string]bool{
	"ไม่มี": true, "none": true, "no": true, "-": true, "n/a": true,
}

// parseList splits a list answer on commas and newlines. An explicit "none"
// answer yields an empty, non-nil list.
func parseList(answer string) []string {
	trimmed := strings.TrimSpace(answer)
	if noneAnswers[strings.ToLower(trimmed)] {
		return []string{}
	}
	items := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
