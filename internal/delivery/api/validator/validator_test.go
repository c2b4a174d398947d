package validator

import (
	"testing"

	domainerrors "storefront/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Category string `query:"category" validate:"omitempty,uuid"`
	MinPrice string `query:"minPrice" validate:"omitempty,numeric"`
	Notes    string `json:"notes" validate:"max=5"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     sampleRequest
		wantMsg string
	}{
		{name: "valid", req: sampleRequest{Category: "0190a4b2-7c1e-7cc0-9f3a-4d1f0b6a2c11", MinPrice: "10.5"}},
		{name: "bad id", req: sampleRequest{Category: "abc"}, wantMsg: "category must be a valid id"},
		{name: "bad number", req: sampleRequest{MinPrice: "ten"}, wantMsg: "minPrice must be a number"},
		{name: "too long", req: sampleRequest{Notes: "abcdefg"}, wantMsg: "notes must be at most 5 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantMsg == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

			var appErr domainerrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantMsg, appErr.Message())
		})
	}
}
