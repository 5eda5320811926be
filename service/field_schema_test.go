package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFieldMap(t *testing.T) {
	fields, err := DecodeFieldMap([]byte(`{
		"principal": 1000000,
		"annual_rate": "5.25%",
		"period_start": "2024-01-01",
		"period_end": "2024-01-31",
		"notice_amount": 4375.00
	}`))

	require.NoError(t, err)
	assert.Equal(t, "1000000", fields["principal"])
	assert.Equal(t, "5.25%", fields["annual_rate"])
	assert.Equal(t, "4375.00", fields["notice_amount"])
}

func TestDecodeFieldMapRejects(t *testing.T) {
	cases := map[string]string{
		"malformed":     `{"principal": `,
		"not an object": `["principal"]`,
		"empty object":  `{}`,
		"unknown key":   `{"principal": "1000", "borrower": "Acme"}`,
		"nested value":  `{"principal": {"amount": 1000}}`,
		"boolean value": `{"principal": true}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeFieldMap([]byte(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFieldMap))
		})
	}
}
