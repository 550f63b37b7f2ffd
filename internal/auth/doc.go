// Package auth attaches test credentials to outgoing HTTP requests.
//
// A Policy holds per-login passwords, tokens and cookies in a Store and,
// for each request, picks the scheme and carrier used to send them.
// Supported schemes:
//
//   - basic: password with HTTP Basic authentication
//   - param: login and password as request parameters
//   - bearer: token in an "Authorization: Bearer" header
//   - header: token in a dedicated header
//   - cookie: token in a cookie
//   - tparam: token as a request parameter
//   - fake: login passed directly as a request parameter
//   - none: no credential, only the login cookies
//
// # Usage
//
//	policy, err := auth.NewPolicy(auth.PolicyConfig{
//	    Allow: []auth.Scheme{auth.SchemeBearer, auth.SchemeBasic},
//	}, auth.WithLogger(logger))
//	if err != nil {
//	    // handle error
//	}
//	_ = policy.SetPassword("calvin", "clv-pass")
//
//	params := &auth.Params{}
//	cookies := map[string]string{}
//	err = policy.Apply(ctx, auth.As("calvin"), params, cookies, auth.SchemeUnset)
//
// # Selection order
//
// Without an explicit scheme a stored token wins over a stored password,
// which wins over the fake and none schemes. Token carriers are tried in the
// order bearer, header, tparam, cookie; password carriers in the order basic,
// param. An explicit scheme restricts the choice to that single carrier.
//
// Parameters always go into the JSON body when there is one, else into the
// form body when there is one, else into a new body of the configured
// ParamType.
package auth
