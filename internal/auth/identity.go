package auth

// Identity is the logical user a request is issued for. The zero value is
// Anonymous: the request goes out without credentials or login cookies.
type Identity struct {
	login   string
	present bool
}

// Anonymous is the identity of an unauthenticated request.
var Anonymous = Identity{}

// As returns the identity for login.
func As(login string) Identity {
	return Identity{login: login, present: true}
}

// Login returns the login and whether the identity is set.
func (i Identity) Login() (string, bool) {
	return i.login, i.present
}

// IsAnonymous reports whether no login is attached.
func (i Identity) IsAnonymous() bool {
	return !i.present
}

// String returns the login, or "<none>" for Anonymous.
func (i Identity) String() string {
	if !i.present {
		return "<none>"
	}
	return i.login
}
