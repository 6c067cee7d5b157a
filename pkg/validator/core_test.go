package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electroredes/contactguard/pkg/validator"
)

func TestValidationErrors_Error(t *testing.T) {
	t.Run("returns default message when no errors", func(t *testing.T) {
		var errs validator.ValidationErrors
		assert.Equal(t, "validation failed", errs.Error())
	})

	t.Run("returns formatted message with single error", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{
			Field:   "email",
			Message: "Formato de email inválido",
		})
		assert.Equal(t, "validation failed: email: Formato de email inválido", errs.Error())
	})

	t.Run("joins multiple errors", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{Field: "name", Message: "too short"})
		errs.Add(validator.ValidationError{Field: "message", Message: "empty"})

		assert.Equal(t, "validation failed: name: too short; message: empty", errs.Error())
	})
}

func TestValidationErrors_Lookup(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add(validator.ValidationError{Field: "email", Reason: "format", Message: "bad format"})
	errs.Add(validator.ValidationError{Field: "email", Reason: "dots", Message: "bad dots"})
	errs.Add(validator.ValidationError{Field: "name", Reason: "length", Message: "bad length"})

	t.Run("has", func(t *testing.T) {
		assert.True(t, errs.Has("email"))
		assert.False(t, errs.Has("message"))
	})

	t.Run("has reason", func(t *testing.T) {
		assert.True(t, errs.HasReason("email", "dots"))
		assert.False(t, errs.HasReason("email", "start"))
		assert.False(t, errs.HasReason("name", "dots"))
	})

	t.Run("get keeps order", func(t *testing.T) {
		assert.Equal(t, []string{"bad format", "bad dots"}, errs.Get("email"))
		assert.Nil(t, errs.Get("message"))
	})

	t.Run("first", func(t *testing.T) {
		first, ok := errs.First("email")
		require.True(t, ok)
		assert.Equal(t, "format", first.Reason)

		_, ok = errs.First("message")
		assert.False(t, ok)
	})

	t.Run("fields are unique and ordered", func(t *testing.T) {
		assert.Equal(t, []string{"email", "name"}, errs.Fields())
	})
}

func TestApply(t *testing.T) {
	t.Run("returns nil when every rule passes", func(t *testing.T) {
		err := validator.Apply(
			validator.RuneLength("name", "Ana", 2, 100),
			validator.Excludes("name", "excessive", "Ana", "   "),
		)
		assert.NoError(t, err)
	})

	t.Run("collects failures in rule order", func(t *testing.T) {
		err := validator.Apply(
			validator.RuneLength("email", "a@", 5, 254),
			validator.EmailDomain("email", "a@"),
			validator.NoLeading("email", "start", "a@", ".", "@"),
		)
		require.Error(t, err)

		errs := validator.ExtractValidationErrors(err)
		require.Len(t, errs, 2)
		assert.Equal(t, "length", errs[0].Reason)
		assert.Equal(t, "domain", errs[1].Reason)
	})
}

func TestExtractValidationErrors(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, validator.ExtractValidationErrors(nil))
		assert.False(t, validator.IsValidationError(nil))
	})

	t.Run("wrapped validation errors", func(t *testing.T) {
		inner := validator.ValidationErrors{{Field: "name", Message: "x"}}
		err := fmt.Errorf("submit: %w", inner)

		assert.True(t, validator.IsValidationError(err))
		assert.Equal(t, inner, validator.ExtractValidationErrors(err))
	})

	t.Run("unrelated error", func(t *testing.T) {
		err := errors.New("boom")
		assert.Nil(t, validator.ExtractValidationErrors(err))
		assert.False(t, validator.IsValidationError(err))
	})
}
