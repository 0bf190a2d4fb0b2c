package validation_test

import (
	"strings"
	"testing"

	"go-leave/internal/shared/validation"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	WhatsAppNumber string `json:"whatsappNumber" validate:"required,whatsapp"`
	LeaveReason    string `json:"leaveReason" validate:"omitempty,min=10,max=500"`
}

func TestIsWhatsAppNumber(t *testing.T) {
	assert.True(t, validation.IsWhatsAppNumber("+919147389854"))
	assert.True(t, validation.IsWhatsAppNumber("9147389854"))
	assert.False(t, validation.IsWhatsAppNumber("12345"))
	assert.False(t, validation.IsWhatsAppNumber("+91-914-738"))
	assert.False(t, validation.IsWhatsAppNumber("+1234567890123456"))
}

func TestMessage(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Struct(sample{WhatsAppNumber: "+919147389854"}))

	err := v.Struct(sample{WhatsAppNumber: "abc"})
	assert.Equal(t, "Please enter a valid WhatsApp number", validation.Message(err))

	err = v.Struct(sample{WhatsAppNumber: "+919147389854", LeaveReason: "short"})
	assert.Equal(t, "Reason must be at least 10 characters", validation.Message(err))

	err = v.Struct(sample{WhatsAppNumber: "+919147389854", LeaveReason: strings.Repeat("x", 501)})
	assert.Equal(t, "Reason too long", validation.Message(err))

	assert.Empty(t, validation.Message(assert.AnError))
}
