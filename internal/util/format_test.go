package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		0:                                          "-",
		-time.Second:                               "-",
		500 * time.Microsecond:                     "500µs",
		1234567 * time.Microsecond:                 "1.234s",
		42*time.Millisecond + 900*time.Microsecond: "42ms",
	}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestOrDash(t *testing.T) {
	if OrDash("") != "-" || OrDash("x") != "x" {
		t.Fatal("unexpected OrDash result")
	}
}
