package service

import (
	"regexp"
	"testing"
)

func TestGenerateOrderNumber_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{4}-\d{6}$`)
	for i := 0; i < 50; i++ {
		number := generateOrderNumber()
		if !pattern.MatchString(number) {
			t.Fatalf("unexpected order number format %q", number)
		}
	}
}

func TestSafeCustomerName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "Jane D."},
		{"Jane van der Berg", "Jane B."},
		{"Madonna", "Madonna"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := safeCustomerName(tc.in); got != tc.want {
			t.Fatalf("safeCustomerName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := round2(10.006); got != 10.01 {
		t.Fatalf("round2(10.006) = %v, want 10.01", got)
	}
	if got := round2(33.333333); got != 33.33 {
		t.Fatalf("round2(33.333333) = %v, want 33.33", got)
	}
}
