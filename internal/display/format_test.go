package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"funnelscope/domain/dataset"
)

func TestFormat(t *testing.T) {
	day := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		column string
		value  interface{}
		want   string
	}{
		{"duration seconds", "elapsed_time", int64(106200), "1d 5h 30m"},
		{"duration raw header", "Elapsed time", 0, "0s"},
		{"duration string", "elapsed_time", "90m", "1h 30m"},
		{"rate", "completion_rate", 25.2, "25.2%"},
		{"rate whole", "Abandonment rate", 25.0, "25.0%"},
		{"rate string fraction", "completion_rate", "0.252", "25.2%"},
		{"count", "active_users", int64(1234567), "1,234,567"},
		{"count float", "Abandonments", 1500.0, "1,500"},
		{"nil", "anything", nil, ""},
		{"plain string", "name", "Alice", "Alice"},
		{"plain int", "id", 12000, "12,000"},
		{"plain float", "amount", 1234.567, "1,234.57"},
		{"plain whole float", "amount", 42.0, "42"},
		{"bool", "active", true, "true"},
		{"time", "signup", day, "2024-03-15"},
		{"value number", "amount", dataset.NewNumberValue(9876.5), "9,876.5"},
		{"value date", "signup", dataset.NewDateValue(day), "2024-03-15"},
		{"value bool", "active", dataset.NewBooleanValue(false), "false"},
		{"value string", "name", dataset.NewStringValue("Bob"), "Bob"},
		{"value null", "name", dataset.NullValue(dataset.TypeNumber), ""},
		{"value rate", "completion_rate", dataset.NewNumberValue(74.8), "74.8%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.column, tt.value))
		})
	}
}
