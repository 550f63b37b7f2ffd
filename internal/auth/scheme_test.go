package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Scheme
		wantErr bool
	}{
		{name: "empty is unset", input: "", want: SchemeUnset},
		{name: "basic", input: "basic", want: SchemeBasic},
		{name: "param", input: "param", want: SchemeParam},
		{name: "bearer", input: "bearer", want: SchemeBearer},
		{name: "header", input: "header", want: SchemeHeader},
		{name: "cookie", input: "cookie", want: SchemeCookie},
		{name: "tparam", input: "tparam", want: SchemeTParam},
		{name: "fake", input: "fake", want: SchemeFake},
		{name: "none", input: "none", want: SchemeNone},
		{name: "unknown", input: "foobla", wantErr: true},
		{name: "case sensitive", input: "Basic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseScheme(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnexpectedScheme)
				assert.Equal(t, "unexpected auth: "+tt.input, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSchemes(t *testing.T) {
	t.Parallel()

	t.Run("whitespace separated", func(t *testing.T) {
		t.Parallel()

		got, err := ParseSchemes("  bearer basic\tparam\nnone ")
		require.NoError(t, err)
		assert.Equal(t, DefaultAllow, got)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		got, err := ParseSchemes("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown member", func(t *testing.T) {
		t.Parallel()

		_, err := ParseSchemes("basic oauth")
		assert.ErrorIs(t, err, ErrUnexpectedScheme)
	})
}

func TestScheme_Categories(t *testing.T) {
	t.Parallel()

	for _, s := range AllSchemes() {
		assert.True(t, s.IsValid(), s.String())
		assert.False(t, s.IsToken() && s.IsPassword(), s.String())

		parsed, err := ParseScheme(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	assert.Len(t, AllSchemes(), 8)
	assert.False(t, SchemeUnset.IsValid())
	assert.False(t, Scheme(200).IsValid())
	assert.Equal(t, "<unset>", SchemeUnset.String())
	assert.Equal(t, "<invalid>", Scheme(200).String())

	assert.True(t, SchemeCookie.IsToken())
	assert.True(t, SchemeTParam.IsToken())
	assert.True(t, SchemeParam.IsPassword())
	assert.False(t, SchemeFake.IsToken())
	assert.False(t, SchemeFake.IsPassword())
	assert.False(t, SchemeNone.IsToken())
	assert.False(t, SchemeNone.IsPassword())
}

func TestFormatSchemes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[bearer basic param none]", formatSchemes(DefaultAllow))
	assert.Equal(t, "[]", formatSchemes(nil))
}
