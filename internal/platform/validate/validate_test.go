// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/epaper/internal/platform/apperr"
	"github.com/taibuivan/epaper/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "reader-1", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("reader_id", tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				ae := apperr.As(v.Err())
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				assert.Equal(t, "reader_id", ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Date checks calendar date validation.
*/
func TestValidator_Date(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"valid", "2024-06-22", true},
		{"leap_day", "2024-02-29", true},
		{"not_a_leap_day", "2023-02-29", false},
		{"month_13", "2024-13-01", false},
		{"wrong_layout", "22/06/2024", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Date("date", tt.value, "2006-01-02")
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Slug("id", "../etc/passwd").
		OneOf("theme", "neon", "light", "dark", "system").
		Range("flip_duration", 10, 200, 5000).
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_Chain tests the fluent API with passing rules.
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Slug("id", "edition-14").
		MaxLen("reader_id", "reader-1", 64).
		OneOf("view_mode", "flip", "flip", "single", "scroll").
		Custom("page", false, "unused").
		Err()

	assert.NoError(t, err)
}
