package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// enumValue is satisfied by every closed string set declared in this package.
type enumValue interface {
	~string
	Valid() bool
}

// parseEnum converts s into T, rejecting anything outside T's declared set.
func parseEnum[T enumValue](field, s string) (T, error) {
	v := T(s)
	if !v.Valid() {
		var zero T
		return zero, newFieldError(field, fmt.Sprintf("%q is not an accepted value", s))
	}
	return v, nil
}

func unmarshalEnum[T enumValue](field string, data []byte, dst *T) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return newFieldError(field, "must be a string")
	}
	v, err := parseEnum[T](field, s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func scanEnum[T enumValue](field string, src interface{}, dst *T) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		return fmt.Errorf("scanning %s: unexpected NULL", field)
	default:
		return fmt.Errorf("scanning %s: unsupported type %T", field, src)
	}
	v, err := parseEnum[T](field, s)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", field, err)
	}
	*dst = v
	return nil
}

func enumDriverValue[T enumValue](field string, v T) (driver.Value, error) {
	if !v.Valid() {
		return nil, newFieldError(field, fmt.Sprintf("%q is not an accepted value", string(v)))
	}
	return string(v), nil
}
