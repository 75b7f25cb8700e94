package redact

import (
	"strings"
	"testing"
)

func TestRedactEmail(t *testing.T) {
	text := "Contact jane.doe+ops@example-corp.co.uk for the migration plan"
	out, detected := Redact(text)

	if !detected {
		t.Fatal("expected detected=true")
	}
	if !strings.Contains(out, "[REDACTED_EMAIL]") {
		t.Errorf("missing email placeholder: %q", out)
	}
	if emailRe.MatchString(out) {
		t.Errorf("output still matches email pattern: %q", out)
	}
}

func TestRedactPhoneFormats(t *testing.T) {
	cases := []string{
		"call 555-123-4567 today",
		"call 555.123.4567 today",
		"call 5551234567 today",
	}
	for _, text := range cases {
		out, detected := Redact(text)
		if !detected {
			t.Errorf("%q: expected detected=true", text)
		}
		if !strings.Contains(out, "[REDACTED_PHONE]") {
			t.Errorf("%q: missing phone placeholder, got %q", text, out)
		}
	}
}

func TestRedactSSNNotPhone(t *testing.T) {
	// A 3-2-4 hyphenated group must be classified as an ID, not a phone number.
	out, detected := Redact("SSN on file: 123-45-6789")

	if !detected {
		t.Fatal("expected detected=true")
	}
	if !strings.Contains(out, "[REDACTED_SSN]") {
		t.Errorf("expected SSN placeholder, got %q", out)
	}
	if strings.Contains(out, "[REDACTED_PHONE]") {
		t.Errorf("SSN misclassified as phone: %q", out)
	}
}

func TestRedactMultipleClasses(t *testing.T) {
	text := "Reach bob@corp.io or 555-123-4567, SSN 123-45-6789"
	out, detected := Redact(text)

	if !detected {
		t.Fatal("expected detected=true")
	}
	for _, want := range []string{"[REDACTED_EMAIL]", "[REDACTED_PHONE]", "[REDACTED_SSN]"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %q", want, out)
		}
	}
}

func TestRedactCleanTextUnchanged(t *testing.T) {
	text := "A global retailer needs to migrate their inventory system to GCP"
	out, detected := Redact(text)

	if detected {
		t.Error("expected detected=false")
	}
	if out != text {
		t.Errorf("clean text modified: %q", out)
	}
}

func TestRedactEmptyInput(t *testing.T) {
	out, detected := Redact("")
	if detected || out != "" {
		t.Errorf("empty input: got (%q, %v)", out, detected)
	}
}

func TestRedactIdempotent(t *testing.T) {
	text := "bob@corp.io called from 555-123-4567 about SSN 123-45-6789"
	once, _ := Redact(text)
	twice, detected := Redact(once)

	if detected {
		t.Error("second pass should detect nothing")
	}
	if twice != once {
		t.Errorf("double redaction changed output:\n once: %q\ntwice: %q", once, twice)
	}
}

func TestScanPositionsSorted(t *testing.T) {
	matches := Scan("first 123-45-6789 then a@b.co then 555-123-4567")
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d: %v", len(matches), matches)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Start < matches[i-1].End {
			t.Errorf("matches overlap or unsorted: %v", matches)
		}
	}
}

func TestScanEmpty(t *testing.T) {
	if got := Scan(""); got != nil {
		t.Errorf("expected nil matches for empty input, got %v", got)
	}
}
