package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_SetParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   Params
		ptype    ParamType
		wantJSON map[string]any
		wantForm map[string]any
	}{
		{
			name:     "json body wins",
			params:   Params{JSON: map[string]any{"a": 1}, Form: map[string]any{}},
			ptype:    ParamTypeData,
			wantJSON: map[string]any{"a": 1, "k": "v"},
			wantForm: map[string]any{},
		},
		{
			name:     "form body when no json",
			params:   Params{Form: map[string]any{"a": "1"}},
			ptype:    ParamTypeJSON,
			wantForm: map[string]any{"a": "1", "k": "v"},
		},
		{
			name:     "new form body by default",
			ptype:    ParamTypeData,
			wantForm: map[string]any{"k": "v"},
		},
		{
			name:     "new json body",
			ptype:    ParamTypeJSON,
			wantJSON: map[string]any{"k": "v"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := tt.params
			p.SetParam(tt.ptype, "k", "v")
			assert.Equal(t, tt.wantJSON, p.JSON)
			assert.Equal(t, tt.wantForm, p.Form)
		})
	}
}

func TestParamType_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, ParamTypeData.IsValid())
	assert.True(t, ParamTypeJSON.IsValid())
	assert.False(t, ParamType("").IsValid())
	assert.False(t, ParamType("xml").IsValid())
}
