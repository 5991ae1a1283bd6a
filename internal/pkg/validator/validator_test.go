package validator

import (
	"errors"
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

func TestIsValidEmail(t *testing.T) {
	for _, email := range []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"} {
		assert.True(t, IsValidEmail(email), email)
	}
	for _, email := range []string{"test@", "@example.com", "test@.com", "test@com", " ", ""} {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"))
	assert.True(t, IsValidUUID("123e4567-e89b-12d3-a456-426614174000"))
	assert.False(t, IsValidUUID("0188d0f27b8c7b4a8a2b6b8b8b8b8b8b"))
	assert.False(t, IsValidUUID("g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"))
	assert.False(t, IsValidUUID(""))
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2024-02-29")
	require.True(t, ok)
	assert.Equal(t, 29, d.Day())

	_, ok = IsValidDate("2023-02-29")
	assert.False(t, ok)
	_, ok = IsValidDate("29-02-2024")
	assert.False(t, ok)
}

func TestValidationErrors_ToMapKeepsFirstMessage(t *testing.T) {
	var errs ValidationErrors
	errs.Add("name", "name is required")
	errs.Add("name", "name must be at least 2 characters")
	errs.Add("email", "email is required")

	m := errs.ToMap()
	assert.Equal(t, "name is required", m["name"])
	assert.Equal(t, "email is required", m["email"])
	assert.Equal(t, "name: name is required; name: name must be at least 2 characters; email: email is required", errs.Error())
}

func TestValidationErrors_OrNil(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.OrNil())

	errs.Add("x", "bad")
	assert.Error(t, errs.OrNil())
}

type contact struct {
	Name  string `json:"name" validate:"required,min=2"`
	Phone string `json:"phone" validate:"required,numeric,len=10"`
}

type sample struct {
	Email    string    `json:"email" validate:"required,email"`
	Kind     string    `json:"kind" validate:"oneof=A B"`
	Contacts []contact `json:"contacts" validate:"min=1,dive"`
}

func TestStruct_ReportsJSONFieldPaths(t *testing.T) {
	err := Struct(sample{
		Email:    "not-an-email",
		Kind:     "C",
		Contacts: []contact{{Name: "J", Phone: "12345"}},
	})
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	m := verrs.ToMap()

	assert.Equal(t, "email must be a valid email address", m["email"])
	assert.Equal(t, "kind must be one of: A, B", m["kind"])
	assert.Equal(t, "name must be at least 2 characters", m["contacts[0].name"])
	assert.Equal(t, "phone must be exactly 10 characters", m["contacts[0].phone"])
}

func TestStruct_EmptySliceBelowMin(t *testing.T) {
	err := Struct(sample{Email: "a@b.cd", Kind: "A"})
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "contacts must contain at least 1 item(s)", verrs.ToMap()["contacts"])
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sample{
		Email:    "a@b.cd",
		Kind:     "B",
		Contacts: []contact{{Name: "Jo", Phone: "0123456789"}},
	})
	assert.NoError(t, err)
}
