package vault

import (
	"context"
	"fmt"
	"sort"
)

// PasswordSetter receives seeded passwords. *auth.Policy implements it.
type PasswordSetter interface {
	SetPassword(login, password string) error
}

// Passwords reads mount/path and returns its login to password pairs.
func Passwords(ctx context.Context, kv KVReader, mount, path string) (map[string]string, error) {
	data, err := kv.Read(ctx, mount, path)
	if err != nil {
		return nil, err
	}

	passwords := make(map[string]string, len(data))
	for login, value := range data {
		password, ok := value.(string)
		if !ok {
			return nil, NewVaultError("seed", path, fmt.Errorf("%w: login %q has a %T value", ErrInvalidSecret, login, value))
		}
		passwords[login] = password
	}
	return passwords, nil
}

// SeedPasswords reads mount/path and sets every password on dst, in login
// order. It returns the number of passwords set.
func SeedPasswords(ctx context.Context, kv KVReader, mount, path string, dst PasswordSetter) (int, error) {
	passwords, err := Passwords(ctx, kv, mount, path)
	if err != nil {
		return 0, err
	}

	logins := make([]string, 0, len(passwords))
	for login := range passwords {
		logins = append(logins, login)
	}
	sort.Strings(logins)

	for i, login := range logins {
		if err := dst.SetPassword(login, passwords[login]); err != nil {
			return i, err
		}
	}
	return len(logins), nil
}
