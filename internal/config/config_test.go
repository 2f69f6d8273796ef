package config

import (
	"reflect"
	"testing"
)

func TestParseAuthUsers(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want map[string]string
	}{
		{
			"default pairs",
			"user1:password1,user2:password2",
			map[string]string{"user1": "password1", "user2": "password2"},
		},
		{
			"single pair",
			"alice:secret",
			map[string]string{"alice": "secret"},
		},
		{
			"colon in password",
			"alice:se:cr:et",
			map[string]string{"alice": "se:cr:et"},
		},
		{
			"whitespace around pairs",
			" alice:secret , bob:hunter2 ",
			map[string]string{"alice": "secret", "bob": "hunter2"},
		},
		{
			"entries without colon skipped",
			"alice:secret,garbage,bob:hunter2",
			map[string]string{"alice": "secret", "bob": "hunter2"},
		},
		{
			"empty username skipped",
			":secret,alice:ok",
			map[string]string{"alice": "ok"},
		},
		{
			"empty input",
			"",
			map[string]string{},
		},
	}
	for _, tc := range cases {
		if got := parseAuthUsers(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: parseAuthUsers(%q) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}
