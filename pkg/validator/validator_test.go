package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deliverySample struct {
	Name    string `validate:"required,trimmin=3"`
	Phone   string `validate:"required,bdphone"`
	Address string `validate:"required,trimmin=10"`
	Area    string `validate:"required,oneof=inside_dhaka sub_dhaka outside_dhaka"`
	Note    string `validate:"omitempty,trimmin=5"`
}

func validSample() deliverySample {
	return deliverySample{
		Name:    "Rahim Uddin",
		Phone:   "01712345678",
		Address: "House 12, Road 5, Dhanmondi, Dhaka",
		Area:    "inside_dhaka",
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(validSample()))
}

func TestValidate_PhoneTooShort(t *testing.T) {
	s := validSample()
	s.Phone = "123456789"

	err := Validate(s)
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, valErr.Fields(), "Phone")
}

func TestValidate_PhoneBengaliDigits(t *testing.T) {
	s := validSample()
	s.Phone = "০১৭১২৩৪৫৬৭৮"
	assert.NoError(t, Validate(s))
}

func TestValidate_PhoneWrongPrefix(t *testing.T) {
	s := validSample()
	s.Phone = "02712345678"
	assert.Error(t, Validate(s))
}

func TestValidate_NameWhitespaceOnly(t *testing.T) {
	s := validSample()
	s.Name = "   ab   "
	assert.Error(t, Validate(s))
}

func TestValidate_NoteOptional(t *testing.T) {
	s := validSample()
	s.Note = ""
	assert.NoError(t, Validate(s))
}

func TestValidate_NoteTooShortOnceSet(t *testing.T) {
	s := validSample()
	s.Note = "hi"
	err := Validate(s)
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "must be at least 5 characters", valErr.Fields()["Note"])
}

func TestValidate_InvalidArea(t *testing.T) {
	s := validSample()
	s.Area = "mars"
	assert.Error(t, Validate(s))
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "01712345678", NormalizeDigits("০১৭১২৩৪৫৬৭৮"))
	assert.Equal(t, "abc019", NormalizeDigits("abc০১৯"))
	assert.Equal(t, "01712345678", NormalizeDigits("01712345678"))
	assert.Equal(t, "", NormalizeDigits(""))
}
