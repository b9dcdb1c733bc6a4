// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var (
	ErrTimeout = errors.New("fingerprint sensor timed out")
	ErrSensor  = errors.New("fingerprint sensor reported failure")
)

// Sensor is the hardware collaborator. The core stores and compares the
// returned template IDs opaquely and never talks to the device directly.
type Sensor interface {
	Enroll(voterID string) (templateID string, err error)
	Verify() (templateID string, err error)
}

// Default reply deadlines; enrollment waits for the user to press the
// sensor multiple times.
const (
	enrollTimeout = 30 * time.Second
	verifyTimeout = 15 * time.Second
)

// LineSensor speaks the sensor's newline-delimited text protocol over any
// byte stream (a serial device file in production, an in-memory pipe in
// tests).
//
// Protocol:
//
//	-> ENROLL:<voter-id>\n
//	<- ENROLL_SUCCESS:<template-id>:OK | ENROLL_FAILED
//	-> VERIFY\n
//	<- VERIFY_SUCCESS:<template-id>:OK | VERIFY_FAILED
type LineSensor struct {
	rw    io.ReadWriteCloser
	lines chan lineResult
}

type lineResult struct {
	line string
	err  error
}

func NewLineSensor(rw io.ReadWriteCloser) *LineSensor {
	s := &LineSensor{rw: rw, lines: make(chan lineResult)}
	go s.readLines()
	return s
}

// readLines is the only reader of the stream. One long-lived goroutine
// owns the scanner for the sensor's lifetime; delivery blocks until await
// picks the line up, so a reply arriving after a timeout is held here and
// handed to the next await instead of racing a second reader.
func (s *LineSensor) readLines() {
	scanner := bufio.NewScanner(s.rw)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.lines <- lineResult{line: line}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	s.lines <- lineResult{err: err}
}

func (s *LineSensor) Close() error {
	return s.rw.Close()
}

func (s *LineSensor) send(command string) error {
	if _, err := io.WriteString(s.rw, command+"\n"); err != nil {
		return fmt.Errorf("failed to write sensor command: %w", err)
	}
	return nil
}

// await reads lines until one starts with the success prefix or equals
// the failure line, within the deadline. Unrelated chatter from the
// device firmware is skipped.
func (s *LineSensor) await(successPrefix, failureLine string, deadline time.Duration) (string, error) {
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	for {
		select {
		case res := <-s.lines:
			if res.err != nil {
				return "", fmt.Errorf("sensor read failed: %w", res.err)
			}
			line := res.line
			if line == failureLine {
				return "", ErrSensor
			}
			if strings.HasPrefix(line, successPrefix) {
				parts := strings.Split(line, ":")
				if len(parts) == 3 && parts[2] == "OK" {
					return parts[1], nil
				}
				return "", ErrSensor
			}
			// Unrelated line; keep reading.
		case <-timer.C:
			return "", ErrTimeout
		}
	}
}

// Enroll asks the sensor to capture a new template for a voter and
// returns the template ID.
func (s *LineSensor) Enroll(voterID string) (string, error) {
	if err := s.send("ENROLL:" + voterID); err != nil {
		return "", err
	}
	return s.await("ENROLL_SUCCESS:", "ENROLL_FAILED", enrollTimeout)
}

// Verify asks the sensor to match the presented finger against its
// stored templates and returns the matched template ID.
func (s *LineSensor) Verify() (string, error) {
	if err := s.send("VERIFY"); err != nil {
		return "", err
	}
	return s.await("VERIFY_SUCCESS:", "VERIFY_FAILED", verifyTimeout)
}
