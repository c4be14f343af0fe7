package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{name: "ok", title: "Ordinance 12/2024", want: true},
		{name: "empty", title: "", want: false},
		{name: "blank", title: "   ", want: false},
		{name: "at limit", title: strings.Repeat("a", 60), want: true},
		{name: "over limit", title: strings.Repeat("a", 61), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsValidTitle(tt.title))
		})
	}
}

func TestIsValidNumber(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidNumber("ORD-12-2024"))
	assert.False(t, IsValidNumber(" "))
	assert.False(t, IsValidNumber(strings.Repeat("9", 46)))
}

func TestIsValidSummary(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidSummary(""))
	assert.True(t, IsValidSummary(strings.Repeat("a", 145)))
	assert.False(t, IsValidSummary(strings.Repeat("a", 146)))
}

func TestIsValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{name: "ok", email: "clerk@registry.gov", want: true},
		{name: "no at", email: "clerk.registry.gov", want: false},
		{name: "leading at", email: "@registry.gov", want: false},
		{name: "trailing at", email: "clerk@", want: false},
		{name: "whitespace", email: "cl erk@registry.gov", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestIsValidPassword(t *testing.T) {
	t.Parallel()

	assert.False(t, IsValidPassword("short"))
	assert.True(t, IsValidPassword("longenough"))
	assert.False(t, IsValidPassword(strings.Repeat("p", 73)))
}
