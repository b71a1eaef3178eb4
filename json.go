package bezsym

import "encoding/json"

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON encodes e as nested {"type": ...} objects.
func ToJSON(e Expr) (string, error) {
	b, err := MarshalExpr(e)
	return string(b), err
}

// MarshalExpr is ToJSON for embedding in larger documents.
func MarshalExpr(e Expr) (json.RawMessage, error) {
	return json.Marshal(e.toJSON())
}
