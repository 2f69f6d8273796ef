package repository

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestPlaceholders(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}
	for _, tc := range cases {
		if got := placeholders(tc.n); got != tc.want {
			t.Errorf("placeholders(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestDedupeIDs(t *testing.T) {
	cases := []struct {
		name string
		in   []uint64
		want []uint64
	}{
		{"nil", nil, []uint64{}},
		{"already clean", []uint64{1, 2, 3}, []uint64{1, 2, 3}},
		{"duplicates", []uint64{3, 1, 3, 2, 1}, []uint64{1, 2, 3}},
		{"unsorted", []uint64{9, 4, 7}, []uint64{4, 7, 9}},
	}
	for _, tc := range cases {
		if got := dedupeIDs(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: dedupeIDs(%v) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestIsFKViolation(t *testing.T) {
	fk := &mysql.MySQLError{Number: mysqlErrNoReferencedRow, Message: "no referenced row"}
	if !isFKViolation(fk) {
		t.Error("errno 1452 not recognized as a foreign key violation")
	}
	if !isFKViolation(errors.Join(errors.New("wrapped"), fk)) {
		t.Error("wrapped errno 1452 not recognized")
	}
	if isFKViolation(&mysql.MySQLError{Number: 1062}) {
		t.Error("duplicate-key errno treated as foreign key violation")
	}
	if isFKViolation(errors.New("plain error")) {
		t.Error("plain error treated as foreign key violation")
	}
}
