package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.org",
		"first.last+tag@sub.example.co",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Fatalf("ValidateEmail(%q): expected valid", email)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"missing@domain",
		"@example.org",
		"user@.org",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Fatalf("ValidateEmail(%q): expected invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, msg := ValidatePassword("short"); ok || msg == "" {
		t.Fatal("expected a short password to be rejected with a message")
	}
	if ok, _ := ValidatePassword("longenough"); !ok {
		t.Fatal("expected an 8+ character password to pass")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  https://docs.example.org/plan.pdf\x00 "); got != "https://docs.example.org/plan.pdf" {
		t.Fatalf("SanitizeInput: got %q", got)
	}
}
