package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckStatus(t *testing.T) {
	t.Parallel()

	msg, ok := checkStatus(200, &Response{StatusCode: 200})
	assert.True(t, ok)
	assert.Empty(t, msg)

	msg, ok = checkStatus(200, &Response{StatusCode: 401, Text: "denied"})
	assert.False(t, ok)
	assert.Equal(t, "bad 200 result: 401 denied...", msg)

	long := strings.Repeat("a", 1000)
	msg, _ = checkStatus(201, &Response{StatusCode: 500, Text: long})
	assert.Equal(t, "bad 201 result: 500 "+long[:512]+"...", msg)
}

func TestCheckContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		text    string
		ok      bool
	}{
		{"literal", "world", "hello world", true},
		{"regexp", `"user":\s*"calvin"`, `{"user": "calvin"}`, true},
		{"dot matches newline", "hello.world", "hello\nworld", true},
		{"missing", "NOT THERE", "hello", false},
		{"invalid pattern", "(", "(", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, ok := checkContent(tt.pattern, &Response{Text: tt.text})
			assert.Equal(t, tt.ok, ok)
			if !ok {
				assert.Contains(t, msg, tt.pattern)
			}
		})
	}

	msg, _ := checkContent("NOT THERE", &Response{Text: "body"})
	assert.Equal(t, "cannot find NOT THERE in body...", msg)
}
