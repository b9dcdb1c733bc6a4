// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package fingerprint integrates the hardware fingerprint sensor.

The Sensor interface is all the rest of the system sees: Enroll during
first login stores an opaque template ID on the voter, Verify compares a
fresh capture against it. LineSensor implements the device's
newline-delimited text protocol over any io.ReadWriteCloser, so the HTTP
layer opens the serial device file and tests drive the protocol through
an in-memory pipe. Failures are distinguished as ErrTimeout (no reply
within the deadline) and ErrSensor (the device reported a failure).
*/
package fingerprint
