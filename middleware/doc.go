// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Middleware

  - WithLogging: structured request/completion logging via slog
  - CORS: cross-origin headers and preflight handling
  - RequireAuth: Bearer access-token verification; stores the principal
    in the request context (read it back with PrincipalFrom)
  - RequireAdmin: RequireAuth plus a privileged check on the is_admin
    claim

# JSON Helpers

  - JSONResponse: encode a response with status code
  - ErrorResponse: standard error envelope
  - WriteError: translate a core election.Error kind into the HTTP
    status table (validation and vote-rule failures 400, permission and
    eligibility failures 403, missing entities 404, write races 409,
    everything unclassified 500)
  - ParseJSONBody: decode a request body
*/
package middleware
