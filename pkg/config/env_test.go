package config

import "testing"

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_DSN", " postgres://h/db ")
	if got := GetEnvString("TEST_DSN", "x"); got != "postgres://h/db" {
		t.Errorf("GetEnvString = %q, want %q", got, "postgres://h/db")
	}
	if got := GetEnvString("TEST_DSN_UNSET", "sqlite://h.db"); got != "sqlite://h.db" {
		t.Errorf("GetEnvString unset = %q", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"true", false, true},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		if got := GetEnvBool("TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("GetEnvBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}
