// Package exampleapp is a small gin application with password, token and
// cookie based authentication. It is the application under test for the
// client package tests and the authtester serve command.
//
// Users calvin, hobbes, susie and moe are known by default; calvin and susie
// are administrators. Routes:
//
//	GET  /login      basic authentication only, returns {user, token}
//	POST /login      param authentication only, returns {user, token} with 201
//	GET  /who-am-i   any authentication, returns {user, isadmin, lang}
//	GET  /admin      any authentication, administrators only
//	GET  /hello      open, greets in the language of the lang cookie
//	POST /upload     open, echoes multipart fields and file sizes
//	GET  /health     open
package exampleapp
