package util

import "testing"

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   bool
		want  bool
	}{
		{"True", "true", false, true},
		{"One", "1", false, true},
		{"False", "FALSE", true, false},
		{"Garbage", "yes please", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MP_TEST_BOOL", tt.value)
			if got := GetEnvBool("MP_TEST_BOOL", tt.def); got != tt.want {
				t.Fatalf("GetEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("MP_TEST_INT", " 8 ")
	if got := GetEnvInt("MP_TEST_INT", 2); got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
	t.Setenv("MP_TEST_INT", "eight")
	if got := GetEnvInt("MP_TEST_INT", 2); got != 2 {
		t.Fatalf("expected default 2, got %d", got)
	}
	if got := GetEnvInt("MP_TEST_INT_UNSET", 3); got != 3 {
		t.Fatalf("expected default 3, got %d", got)
	}
}

func TestMustGetEnv(t *testing.T) {
	t.Setenv("MP_TEST_REQUIRED", "")
	if _, err := MustGetEnv("MP_TEST_REQUIRED"); err == nil {
		t.Fatal("expected error for empty variable")
	}
	t.Setenv("MP_TEST_REQUIRED", "x")
	if v, err := MustGetEnv("MP_TEST_REQUIRED"); err != nil || v != "x" {
		t.Fatalf("MustGetEnv = %q, %v", v, err)
	}
}
