package auth

// PasswordHook is notified after every successful password update. A nil
// password means the password was removed. Typical use is a fixture that
// exchanges the password for a token right away.
type PasswordHook interface {
	OnPassword(login string, password *string)
}

// PasswordHookFunc adapts a function to PasswordHook.
type PasswordHookFunc func(login string, password *string)

// OnPassword calls f.
func (f PasswordHookFunc) OnPassword(login string, password *string) {
	f(login, password)
}

// NopHook is the default hook; it does nothing.
type NopHook struct{}

// OnPassword does nothing.
func (NopHook) OnPassword(string, *string) {}

var _ PasswordHook = NopHook{}
