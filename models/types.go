package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IntList is an ordered list of integers stored as a JSON array column.
// Reserved certificate number blocks use it: the batches table keeps the
// block in a single JSON cell, matching the wire shape the API exposes.
type IntList []int

func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *IntList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for IntList", value)
	}

	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

func (IntList) GormDataType() string {
	return "json"
}

// Max returns the largest element, or 0 and false when the list is empty.
func (l IntList) Max() (int, bool) {
	if len(l) == 0 {
		return 0, false
	}
	max := l[0]
	for _, n := range l[1:] {
		if n > max {
			max = n
		}
	}
	return max, true
}
