package client

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thing struct {
	TID   int    `json:"tid"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

type modelThing struct {
	thing
}

func (m modelThing) ToModel() (any, error) {
	return map[string]any{"tid": m.TID, "name": m.Name, "owner": m.Owner, "model": true}, nil
}

func (m modelThing) MarshalField() (string, error) {
	return "thing:" + m.Name, nil
}

type failingModel struct{}

func (failingModel) ToModel() (any, error) {
	return nil, errors.New("cannot model")
}

func TestNormalizeJSON(t *testing.T) {
	t.Parallel()

	t.Run("plain values pass through", func(t *testing.T) {
		t.Parallel()

		fields := map[string]any{
			"nil":   nil,
			"bool":  true,
			"int":   42,
			"float": 1.5,
			"str":   "s",
			"list":  []any{1, "a"},
			"map":   map[string]any{"k": "v"},
			"ints":  []int{1, 2},
		}
		want := map[string]any{
			"nil":   nil,
			"bool":  true,
			"int":   42,
			"float": 1.5,
			"str":   "s",
			"list":  []any{1, "a"},
			"map":   map[string]any{"k": "v"},
			"ints":  []int{1, 2},
		}
		require.NoError(t, normalizeJSON(fields))
		assert.Equal(t, want, fields)
	})

	t.Run("structs become maps", func(t *testing.T) {
		t.Parallel()

		fields := map[string]any{
			"thing": thing{TID: 1, Name: "one", Owner: "calvin"},
			"ptr":   &thing{TID: 2, Name: "two", Owner: "hobbes"},
			"model": modelThing{thing{TID: 3, Name: "three", Owner: "susie"}},
			"nilp":  (*thing)(nil),
		}
		require.NoError(t, normalizeJSON(fields))

		assert.Equal(t, map[string]any{"tid": 1.0, "name": "one", "owner": "calvin"}, fields["thing"])
		assert.Equal(t, map[string]any{"tid": 2.0, "name": "two", "owner": "hobbes"}, fields["ptr"])
		assert.Equal(t, map[string]any{"tid": 3, "name": "three", "owner": "susie", "model": true}, fields["model"])
		assert.Nil(t, fields["nilp"])
	})

	t.Run("json marshaler", func(t *testing.T) {
		t.Parallel()

		ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		fields := map[string]any{"at": ts, "raw": json.RawMessage(`{"x":1}`)}
		require.NoError(t, normalizeJSON(fields))
		assert.Equal(t, "2024-01-02T03:04:05Z", fields["at"])
		assert.Equal(t, map[string]any{"x": 1.0}, fields["raw"])
	})

	t.Run("unrepresentable values", func(t *testing.T) {
		t.Parallel()

		for name, v := range map[string]any{
			"chan":  make(chan int),
			"func":  func() {},
			"model": failingModel{},
		} {
			err := normalizeJSON(map[string]any{name: v})
			require.Error(t, err, name)
			assert.ErrorIs(t, err, ErrSerialization)

			var serr *SerializationError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, "json", serr.Body)
			assert.Equal(t, name, serr.Field)
		}
	})
}

func TestNormalizeForm(t *testing.T) {
	t.Parallel()

	upload := File{Reader: strings.NewReader("x"), Name: "x.txt"}
	reader := strings.NewReader("y")

	fields := map[string]any{
		"nil":    nil,
		"str":    "s",
		"int":    3,
		"bool":   false,
		"bytes":  []byte("raw"),
		"list":   []any{1, "a"},
		"map":    map[string]any{"k": "v"},
		"thing":  thing{TID: 1, Name: "one", Owner: "calvin"},
		"model":  modelThing{thing{TID: 2, Name: "two"}},
		"at":     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		"upload": upload,
		"reader": reader,
	}
	require.NoError(t, normalizeForm(fields))

	assert.Equal(t, "null", fields["nil"])
	assert.Equal(t, "s", fields["str"])
	assert.Equal(t, 3, fields["int"])
	assert.Equal(t, false, fields["bool"])
	assert.Equal(t, "raw", fields["bytes"])
	assert.Equal(t, `[1,"a"]`, fields["list"])
	assert.Equal(t, `{"k":"v"}`, fields["map"])
	assert.JSONEq(t, `{"tid":1,"name":"one","owner":"calvin"}`, fields["thing"].(string))
	assert.Equal(t, "thing:two", fields["model"])
	assert.Equal(t, `"2024-01-02T03:04:05Z"`, fields["at"])
	assert.Equal(t, upload, fields["upload"])
	assert.Same(t, reader, fields["reader"])

	err := normalizeForm(map[string]any{"c": make(chan int)})
	var serr *SerializationError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "form", serr.Body)
	assert.Contains(t, err.Error(), `form field "c"`)
}
