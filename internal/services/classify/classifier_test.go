package classify

import (
	"testing"

	"AlphaLabs/internal/domain/models"
)

func TestClassifyPressConference(t *testing.T) {
	c := New()
	got, ok := c.Classify("ECB's Lagarde: press conference on rate decision")
	if !ok {
		t.Fatalf("expected cb content")
	}
	if got.Institution != "European Central Bank" || got.Code != "EUR" {
		t.Fatalf("unexpected institution %q/%q", got.Institution, got.Code)
	}
	if got.Speaker != "Lagarde" {
		t.Fatalf("unexpected speaker %q", got.Speaker)
	}
	if got.Type != models.ContentPressConference {
		t.Fatalf("unexpected type %q", got.Type)
	}
}

func TestClassifyRejectsEarningsNews(t *testing.T) {
	c := New()
	if _, ok := c.Classify("Apple Q3 earnings beat forecasts"); ok {
		t.Fatalf("earnings news classified as cb content")
	}
}

func TestClassifySpeech(t *testing.T) {
	c := New()
	got, ok := c.Classify("Fed Chair Powell to deliver remarks at Jackson Hole")
	if !ok {
		t.Fatalf("expected cb content")
	}
	if got.Type != models.ContentSpeech || got.Speaker != "Powell" || got.Code != "USD" {
		t.Fatalf("unexpected classification %+v", got)
	}
}

func TestClassifyQuotePattern(t *testing.T) {
	c := New()
	got, ok := c.Classify("Bailey says UK inflation path remains uncertain")
	if !ok {
		t.Fatalf("expected quote-pattern acceptance")
	}
	if got.Type != models.ContentSpeech || got.Institution != "Bank of England" {
		t.Fatalf("unexpected classification %+v", got)
	}
}

func TestClassifyGenericOfficialFallback(t *testing.T) {
	c := New()
	got, ok := c.Classify("Bank of Japan statement on yield curve control")
	if !ok {
		t.Fatalf("expected cb content")
	}
	if got.Speaker != GenericSpeaker {
		t.Fatalf("expected generic speaker, got %q", got.Speaker)
	}
}

func TestClassifyExclusionWithoutTypeKeyword(t *testing.T) {
	c := New()
	// Mentions the Fed and quotes an official, but reads like a routine
	// market wrap: the exclusion list must reject it.
	if _, ok := c.Classify("Stock futures rise as Powell comments lift sentiment"); ok {
		t.Fatalf("market wrap accepted despite exclusion keywords")
	}
}

func TestClassifyExclusionOverriddenByTypeKeyword(t *testing.T) {
	c := New()
	// Same market vocabulary, but an explicit speech keyword is present.
	got, ok := c.Classify("Powell speech moves stock futures")
	if !ok {
		t.Fatalf("explicit speech keyword must override exclusion")
	}
	if got.Type != models.ContentSpeech {
		t.Fatalf("unexpected type %q", got.Type)
	}
}

func TestClassifyInstitutionOnlyRejected(t *testing.T) {
	c := New()
	// Institution mention with no speech/press/quote signal is not content.
	if _, ok := c.Classify("ECB headquarters building renovation completed"); ok {
		t.Fatalf("institution-only mention accepted")
	}
}

func TestClassifyIdempotent(t *testing.T) {
	c := New()
	texts := []string{
		"ECB's Lagarde: press conference on rate decision",
		"Fed Chair Powell to deliver remarks at Jackson Hole",
		"Apple Q3 earnings beat forecasts",
		"Bailey says UK inflation path remains uncertain",
	}
	for _, text := range texts {
		a, okA := c.Classify(text)
		b, okB := c.Classify(text)
		if okA != okB || a != b {
			t.Fatalf("classification not idempotent for %q", text)
		}
	}
}

func TestClassifyTableOrderTieBreak(t *testing.T) {
	c := New()
	// Both institutions present: the first table entry wins.
	got, ok := c.Classify("Federal Reserve and European Central Bank joint statement")
	if !ok {
		t.Fatalf("expected cb content")
	}
	if got.Code != "USD" {
		t.Fatalf("table order tie-break violated, got %q", got.Code)
	}
}
