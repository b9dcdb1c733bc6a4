// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"campusvote/election"
)

// Required CSV header columns, in any order.
var requiredColumns = []string{
	"reg_number", "name", "username", "academic_year", "class_year", "program", "activities",
}

// Summary reports the outcome of one import batch.
type Summary struct {
	Created int
	Updated int
	Skipped int
}

// ImportVoters reads a CSV voter roster and upserts each row through the
// voter directory. Bad rows are skipped with a warning; the batch never
// aborts on row-level problems. Only a malformed header or an unreadable
// stream fails the whole call.
func ImportVoters(svc *election.Service, logger *slog.Logger, r io.Reader) (Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	batchID := uuid.NewString()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Summary{}, election.Errf(election.KindValidation, "could not read CSV header")
	}
	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return Summary{}, election.Errf(election.KindValidation,
				"missing required column: "+required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var summary Summary
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn("skipping unreadable row", "batch_id", batchID, "line", line, "error", err)
			summary.Skipped++
			continue
		}

		classYear, err := strconv.Atoi(field(record, "class_year"))
		if err != nil {
			logger.Warn("skipping row with bad class_year", "batch_id", batchID, "line", line)
			summary.Skipped++
			continue
		}

		row := election.ImportRow{
			RegNumber:    field(record, "reg_number"),
			Name:         field(record, "name"),
			Username:     field(record, "username"),
			AcademicYear: field(record, "academic_year"),
			ClassYear:    classYear,
			Program:      strings.ToUpper(field(record, "program")),
		}
		if activities := field(record, "activities"); activities != "" {
			row.Activities = strings.Split(activities, ",")
		}
		if sport := field(record, "sport_type"); sport != "" {
			row.SportType = &sport
		}

		outcome, reason, err := svc.UpsertVoter(row)
		if err != nil {
			// Store trouble, not a row problem: stop the batch.
			return summary, err
		}
		switch outcome {
		case election.UpsertCreated:
			summary.Created++
		case election.UpsertUpdated:
			summary.Updated++
		default:
			logger.Warn("skipping row", "batch_id", batchID, "line", line, "reason", reason)
			summary.Skipped++
		}
	}

	logger.Info("voter import finished", "batch_id", batchID,
		"created", summary.Created, "updated", summary.Updated, "skipped", summary.Skipped)
	return summary, nil
}

// String renders the batch outcome for logs and API messages.
func (s Summary) String() string {
	return fmt.Sprintf("created %d, updated %d, skipped %d", s.Created, s.Updated, s.Skipped)
}
