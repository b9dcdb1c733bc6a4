// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package importer reads CSV voter rosters and feeds them through the voter
directory's upsert.

Expected header (any column order, extra columns ignored):

	reg_number,name,username,academic_year,class_year,program,activities,sport_type

activities is a comma-separated list of tags; tags are case-folded and
unknown ones dropped. Rows with a malformed registration number (not
exactly four digits) or a username already taken by another voter are
skipped, never aborting the batch. The returned Summary counts created,
updated, and skipped rows.
*/
package importer
