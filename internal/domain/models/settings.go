package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Setting is one typed key/value configuration row.
type Setting struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	DataType    string    `json:"data_type"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Typed decodes Value according to DataType, falling back to the raw string.
func (s Setting) Typed() any {
	switch s.DataType {
	case "int":
		if n, err := strconv.Atoi(s.Value); err == nil {
			return n
		}
	case "float":
		if f, err := strconv.ParseFloat(s.Value, 64); err == nil {
			return f
		}
	case "bool":
		switch strings.ToLower(s.Value) {
		case "true", "1", "yes":
			return true
		default:
			return false
		}
	case "json":
		var v any
		if err := json.Unmarshal([]byte(s.Value), &v); err == nil {
			return v
		}
	}
	return s.Value
}
