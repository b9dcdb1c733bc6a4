// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"strings"
	"testing"

	"campusvote/election"
	"campusvote/testutil"
)

func TestImportVoters(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := election.NewService(conn, nil)

	csv := `reg_number,name,username,academic_year,class_year,program,activities,sport_type
1001,Alice Rakoto,alice,2024-2025,2,INFO,"DANSE,CHANT",
1002,Bob Rabe,bob,2024-2025,3,ECO,SPORT,FOOT
10,Bad Reg,badreg,2024-2025,1,INFO,,
1003,Carol Andry,alice,2024-2025,1,SA,,
1004,Dan Hery,dan,2024-2025,notanumber,INFO,,
`

	summary, err := ImportVoters(svc, nil, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportVoters failed: %v", err)
	}
	if summary.Created != 2 {
		t.Errorf("Expected 2 created, got %d", summary.Created)
	}
	if summary.Skipped != 3 {
		t.Errorf("Expected 3 skipped, got %d", summary.Skipped)
	}
	if summary.Updated != 0 {
		t.Errorf("Expected 0 updated, got %d", summary.Updated)
	}

	bob, err := svc.GetVoterByUsername("bob")
	if err != nil {
		t.Fatalf("Imported voter missing: %v", err)
	}
	if bob.SportType == nil || *bob.SportType != "FOOT" {
		t.Errorf("Expected sport type FOOT, got %v", bob.SportType)
	}

	t.Run("reimport updates instead of creating", func(t *testing.T) {
		again := `reg_number,name,username,academic_year,class_year,program,activities,sport_type
1001,Alice R.,alice,2024-2025,3,INFO,DANSE,
`
		summary, err := ImportVoters(svc, nil, strings.NewReader(again))
		if err != nil {
			t.Fatalf("ImportVoters failed: %v", err)
		}
		if summary.Updated != 1 || summary.Created != 0 {
			t.Errorf("Expected 1 updated, got %+v", summary)
		}
	})
}

func TestImportVotersHeaderValidation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := election.NewService(conn, nil)

	t.Run("missing column", func(t *testing.T) {
		csv := "reg_number,name,username\n1001,A,a\n"
		_, err := ImportVoters(svc, nil, strings.NewReader(csv))
		if election.KindOf(err) != election.KindValidation {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("empty stream", func(t *testing.T) {
		_, err := ImportVoters(svc, nil, strings.NewReader(""))
		if election.KindOf(err) != election.KindValidation {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("column order does not matter", func(t *testing.T) {
		csv := `name,username,program,class_year,academic_year,reg_number,activities
Eva Soa,eva,DROIT,1,2024-2025,2001,SLAM
`
		summary, err := ImportVoters(svc, nil, strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportVoters failed: %v", err)
		}
		if summary.Created != 1 {
			t.Errorf("Expected 1 created, got %+v", summary)
		}
	})
}

func TestSummaryString(t *testing.T) {
	s := Summary{Created: 3, Updated: 1, Skipped: 2}
	if got := s.String(); got != "created 3, updated 1, skipped 2" {
		t.Errorf("Unexpected summary string: %q", got)
	}
}
