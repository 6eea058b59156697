package gateway

import (
	"encoding/json"
	"fmt"
)

// ListShape tags which wire shape a list response used.
type ListShape int

const (
	// ShapeBare is a top-level JSON array.
	ShapeBare ListShape = iota

	// ShapeEnvelope is an object carrying the array under "data".
	ShapeEnvelope
)

// DecodeList normalizes the two list shapes the server emits. Resource
// clients always see a plain slice; the shape tag is informational.
func DecodeList[T any](data []byte) ([]T, ListShape, error) {
	var bare []T
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, ShapeBare, nil
	}

	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, ShapeEnvelope, nil
	}

	return nil, ShapeBare, fmt.Errorf("unrecognized list response shape")
}
