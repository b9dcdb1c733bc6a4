// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires URL patterns to handlers.

Routes use Go 1.22 method-qualified patterns on the standard ServeMux.
Every route is wrapped with request logging; protected routes add JWT
authentication, and management routes additionally require the admin
claim. Handler construction happens here so main stays a thin shell.
*/
package router
