package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
		"123e4567-e89b-12d3-a456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"{0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b}",
		"",
	}
	for _, id := range valid {
		assert.True(t, IsValidUUID(id), "IsValidUUID(%q)", id)
	}
	for _, id := range invalid {
		assert.False(t, IsValidUUID(id), "IsValidUUID(%q)", id)
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		assert.True(t, ok, "IsValidDate(%q)", s)
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		assert.False(t, ok, "IsValidDate(%q)", s)
	}
}

func TestParseClockTime(t *testing.T) {
	h, m, ok := ParseClockTime("09:30")
	require.True(t, ok)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	h, m, ok = ParseClockTime("23:59")
	require.True(t, ok)
	assert.Equal(t, 23, h)
	assert.Equal(t, 59, m)

	for _, s := range []string{"24:00", "9:30", "09:60", "0930", "", "09:30:00"} {
		_, _, ok := ParseClockTime(s)
		assert.False(t, ok, "ParseClockTime(%q)", s)
	}
}

func TestIsValidISOWeek(t *testing.T) {
	for _, s := range []string{"2024-W01", "2020-W53", "2025-W27"} {
		assert.True(t, IsValidISOWeek(s), s)
	}
	for _, s := range []string{"2024-W00", "2024-W54", "2024W01", "2024-w01", "24-W01"} {
		assert.False(t, IsValidISOWeek(s), s)
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	assert.True(t, IsInSlice("a", slice))
	assert.False(t, IsInSlice("d", slice))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "invalid"},
		{Field: "start_time", Message: "required"},
	}
	assert.Equal(t, "date: invalid; start_time: required", errs.Error())
}

func TestValidationErrors_ToMap(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("date", "invalid")
	errs.Add("start_time", "required")

	require.Error(t, errs.Err())
	assert.Equal(t, map[string]string{"date": "invalid", "start_time": "required"}, errs.ToMap())
}
