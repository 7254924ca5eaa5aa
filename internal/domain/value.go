package domain

// ValueKind tags the storage type of a tracked attribute value.
type ValueKind string

const (
	ValueNumber    ValueKind = "number"
	ValueInteger   ValueKind = "integer"
	ValueText      ValueKind = "text"
	ValueReference ValueKind = "reference"
)

// AttributeValue is a tagged union over the value types a host parameter can
// carry. Only the fields implied by Kind are meaningful; the rest stay zero.
type AttributeValue struct {
	Kind    ValueKind `json:"kind"`
	Number  float64   `json:"number,omitempty"`
	Integer int64     `json:"integer,omitempty"`
	Text    string    `json:"text,omitempty"`
	Display string    `json:"display,omitempty"`
	RefID   string    `json:"refId,omitempty"`
}

// Attribute pairs a parameter name with its typed value.
type Attribute struct {
	Name  string         `json:"name"`
	Value AttributeValue `json:"value"`
}

// NumberValue wraps a floating-point parameter value.
func NumberValue(v float64) AttributeValue {
	return AttributeValue{Kind: ValueNumber, Number: v}
}

// IntegerValue wraps an integer or enum parameter value. The display string
// holds the human-readable enum text when the host provides one.
func IntegerValue(v int64, display string) AttributeValue {
	return AttributeValue{Kind: ValueInteger, Integer: v, Display: display}
}

// TextValue wraps a text parameter value.
func TextValue(v string) AttributeValue {
	return AttributeValue{Kind: ValueText, Text: v}
}

// ReferenceValue wraps an element-reference parameter value. RefID is the
// stable textual identifier used when no display text is available.
func ReferenceValue(display, refID string) AttributeValue {
	return AttributeValue{Kind: ValueReference, Display: display, RefID: refID}
}

// StorageValue returns the value in the shape persisted into the generic
// attribute mapping: numbers stay numeric, integer enums prefer their display
// text and fall back to the raw integer, references prefer display text and
// fall back to the stable identifier.
func (v AttributeValue) StorageValue() any {
	switch v.Kind {
	case ValueNumber:
		return v.Number
	case ValueInteger:
		if v.Display != "" {
			return v.Display
		}
		return v.Integer
	case ValueText:
		return v.Text
	case ValueReference:
		if v.Display != "" {
			return v.Display
		}
		return v.RefID
	default:
		return v.Text
	}
}

// IsEmptyText reports whether the value is a text parameter holding nothing.
func (v AttributeValue) IsEmptyText() bool {
	return v.Kind == ValueText && v.Text == ""
}
