package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func EncodeState(s SessionState) ([]byte, error) {
	payload, err := json.Marshal(s.Normalize())
	if err != nil {
		return nil, fmt.Errorf("marshal session state: %w", err)
	}
	return payload, nil
}

// DecodeState parses a persisted payload. Unknown fields, type mismatches and
// out-of-range values are all reported as errors.
func DecodeState(payload []byte) (SessionState, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()
	var s SessionState
	if err := decoder.Decode(&s); err != nil {
		return SessionState{}, fmt.Errorf("decode session state: %w", err)
	}
	if decoder.More() {
		return SessionState{}, fmt.Errorf("decode session state: trailing data")
	}
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return SessionState{}, fmt.Errorf("validate session state: %w", err)
	}
	return s, nil
}
