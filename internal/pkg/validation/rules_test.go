package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringField(t *testing.T) {
	code := String("Code").Required().MaxLength(10)

	tests := []struct {
		raw     string
		want    string
		message string
	}{
		{"CSE", "CSE", ""},
		{"  EEE  ", "EEE", ""},
		{"", "", "Code is required"},
		{"   ", "", "Code is required"},
		{strings.Repeat("X", 11), "", "Code must be at most 10 characters"},
	}

	for _, tt := range tests {
		res := code.Check(tt.raw)
		assert.Equal(t, tt.message, res.Message, "raw=%q", tt.raw)
		assert.Equal(t, tt.message == "", res.Valid())
		if res.Valid() {
			assert.Equal(t, tt.want, res.Value)
		}
	}
}

func TestStringField_OptionalPassesBlank(t *testing.T) {
	res := String("Teacher").Check("  ")
	assert.True(t, res.Valid())
	assert.Equal(t, "", res.Value)
}

func TestIntField(t *testing.T) {
	credits := Int("Credits").Required().Between(1, 6)

	tests := []struct {
		raw     string
		want    int
		message string
	}{
		{"3", 3, ""},
		{"1", 1, ""},
		{"6", 6, ""},
		{"0", 0, "Credits must be between 1 and 6"},
		{"7", 0, "Credits must be between 1 and 6"},
		{"-2", 0, "Credits must be between 1 and 6"},
		{"", 0, "Credits is required"},
		{"three", 0, "Credits must be a whole number"},
		{"2.5", 0, "Credits must be a whole number"},
	}

	for _, tt := range tests {
		res := credits.Check(tt.raw)
		assert.Equal(t, tt.message, res.Message, "raw=%q", tt.raw)
		if tt.message == "" {
			assert.Equal(t, tt.want, res.Value)
		}
	}
}

func TestStringField_Email(t *testing.T) {
	email := String("Email").Required().Email()

	assert.True(t, email.Check(" u2304001@student.cuet.ac.bd ").Valid())
	assert.Equal(t, "Email must be a valid email address", email.Check("u2304001").Message)
	assert.Equal(t, "Email is required", email.Check("").Message)

	assert.True(t, String("Email").Email().Check("").Valid(), "optional address may be blank")
}
