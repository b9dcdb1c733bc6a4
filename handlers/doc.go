// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for the election API.

Each handler group is a struct built from the collaborators it needs
(database handle, election service, config, fingerprint sensor) and
exposes methods matching the routes in the router package. Handlers
parse and validate the request shape, delegate all domain decisions to
the election service, and translate domain errors to HTTP statuses
through the middleware helpers.
*/
package handlers
