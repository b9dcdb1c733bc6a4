// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing from CLI flags and
environment variables.

# Sources

Flags win over environment variables; a .env file is loaded if present.

	-p / PORT                  server port (default 8742)
	-d / DATABASE_URL          database connection string (required)
	-t / DATABASE_TYPE         sqlite or postgres (default sqlite)
	-year / ACADEMIC_YEAR      current academic year tag (default 2024-2025)
	-sweep / SWEEP_SECONDS     expired-election sweep interval (default 60)
	-sensor / SENSOR_PORT      fingerprint sensor device path (optional)
	-jwt-secret / JWT_SECRET   token signing secret (required)

# Errors

ParseFlags returns an error for a missing database URL or JWT secret and
for malformed numeric variables; the caller decides how to exit.
*/
package cliparse
