// Package fixture builds ready to use policies and clients from a
// config.Config.
//
// The application under test is either the name of a registered
// http.Handler factory, served in process, or an http(s) URL reached over
// the network:
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//	    t.Fatal(err)
//	}
//	api, err := fixture.NewClient(ctx, cfg, fixture.WithReporter(t))
//	if err != nil {
//	    t.Fatal(err)
//	}
//	api.Get(ctx, "/who-am-i", client.WithLogin("calvin"), client.ExpectStatus(200))
package fixture
