package util

import (
	"reflect"
	"testing"
)

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("empty: got %d", got)
	}
	if got := ParseIntDefault("x", 7); got != 7 {
		t.Fatalf("invalid: got %d", got)
	}
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Fatalf("valid: got %d", got)
	}
}

func TestParseIntList(t *testing.T) {
	if got := ParseIntList("  "); got != nil {
		t.Fatalf("blank: got %v", got)
	}
	got := ParseIntList("20, 50,x,,-3")
	if want := []int{20, 50, -3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSplitTrim(t *testing.T) {
	got := SplitTrim(" sma , ,ema,", ",")
	if want := []string{"sma", "ema"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got := SplitTrim("", ","); len(got) != 0 {
		t.Fatalf("empty: got %v", got)
	}
}
