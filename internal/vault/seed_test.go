package vault

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockKV struct {
	data map[string]any
	err  error
}

func (m *mockKV) Read(_ context.Context, _, _ string) (map[string]any, error) {
	return m.data, m.err
}

type recordingSetter struct {
	logins []string
	fail   string
}

func (r *recordingSetter) SetPassword(login, _ string) error {
	if login == r.fail {
		return errors.New("refused")
	}
	r.logins = append(r.logins, login)
	return nil
}

func TestPasswords(t *testing.T) {
	t.Parallel()

	got, err := Passwords(context.Background(), &mockKV{data: map[string]any{"calvin": "clv-pass"}}, "secret", "users")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"calvin": "clv-pass"}, got)

	_, err = Passwords(context.Background(), &mockKV{data: map[string]any{"calvin": 42}}, "secret", "users")
	assert.ErrorIs(t, err, ErrInvalidSecret)

	_, err = Passwords(context.Background(), &mockKV{err: ErrSecretNotFound}, "secret", "users")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestSeedPasswords(t *testing.T) {
	t.Parallel()

	kv := &mockKV{data: map[string]any{"susie": "ss-pass", "calvin": "clv-pass", "hobbes": "hbs-pass"}}

	t.Run("sorted", func(t *testing.T) {
		t.Parallel()

		dst := &recordingSetter{}
		n, err := SeedPasswords(context.Background(), kv, "secret", "users", dst)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []string{"calvin", "hobbes", "susie"}, dst.logins)
	})

	t.Run("setter error", func(t *testing.T) {
		t.Parallel()

		dst := &recordingSetter{fail: "hobbes"}
		n, err := SeedPasswords(context.Background(), kv, "secret", "users", dst)
		require.Error(t, err)
		assert.Equal(t, 1, n)
	})
}
