// Package client issues authenticated HTTP requests for tests.
//
// A Client pairs an auth.Policy with a Transport. Each request names a
// logical login; the policy attaches the matching credential and the
// transport delivers the request, either to an http.Handler in process or
// to a running server over the network. Responses are adapted to a single
// Response type and may be checked against an expected status and a body
// regular expression.
//
//	policy, _ := auth.NewPolicy(auth.PolicyConfig{})
//	_ = policy.SetPassword("calvin", "clv-pass")
//	c, _ := client.New(policy, client.NewHandlerTransport(handler),
//	    client.WithReporter(t))
//	res, _ := c.Get(ctx, "/who-am-i", client.WithLogin("calvin"),
//	    client.ExpectStatus(http.StatusOK))
package client
