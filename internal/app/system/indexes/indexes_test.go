// internal/app/system/indexes/indexes_test.go
package indexes

import (
	"errors"
	"testing"
)

func TestIsOptionsConflictErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"conflict", errors.New("(IndexOptionsConflict) Index with name: uniq_email already exists with different options"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isOptionsConflictErr(tc.err); got != tc.want {
				t.Fatalf("isOptionsConflictErr(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIndexOptionHelpers(t *testing.T) {
	u := uniqueNamed("uniq_email")
	if u.Name == nil || *u.Name != "uniq_email" {
		t.Fatalf("uniqueNamed: name not set")
	}
	if u.Unique == nil || !*u.Unique {
		t.Fatalf("uniqueNamed: unique not set")
	}

	n := named("club_meeting_date")
	if n.Name == nil || *n.Name != "club_meeting_date" {
		t.Fatalf("named: name not set")
	}
	if n.Unique != nil {
		t.Fatalf("named: unique should be unset")
	}
}
