package email

import (
	"strings"
	"testing"
	"time"

	"eventplanner/internal/domain"
)

func TestTemplateRenderer_Welcome(t *testing.T) {
	r := NewTemplateRenderer()

	subject, html, text, err := r.Render("welcome", &domain.WelcomeMessageEmailData{
		Email: "ana@example.com",
		Name:  "Ana",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(subject, "Ana") {
		t.Errorf("subject does not mention the user name: %q", subject)
	}
	if subject != strings.TrimSpace(subject) {
		t.Errorf("subject has surrounding whitespace: %q", subject)
	}
	if !strings.Contains(html, "Ana") || !strings.Contains(text, "Ana") {
		t.Error("rendered bodies do not mention the user name")
	}
}

func TestTemplateRenderer_RegistrationConfirmed(t *testing.T) {
	r := NewTemplateRenderer()

	start := time.Date(2026, 10, 5, 18, 30, 0, 0, time.UTC)
	subject, html, text, err := r.Render("registration_confirmed", &domain.RegistrationConfirmedEmailData{
		Email:      "ana@example.com",
		Name:       "Ana",
		EventTitle: "Go Meetup",
		EventPlace: "Lisbon",
		StartDate:  start,
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(subject, "Go Meetup") {
		t.Errorf("subject does not mention the event: %q", subject)
	}
	for _, body := range []string{html, text} {
		if !strings.Contains(body, "Lisbon") {
			t.Error("rendered body does not mention the place")
		}
		if !strings.Contains(body, "Monday, 5 October 2026") {
			t.Error("rendered body does not contain the formatted start date")
		}
	}
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r := NewTemplateRenderer()

	if _, _, _, err := r.Render("nonexistent", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestTemplateRenderer_HTMLEscaping(t *testing.T) {
	r := NewTemplateRenderer()

	_, html, text, err := r.Render("registration_confirmed", &domain.RegistrationConfirmedEmailData{
		Email:      "ana@example.com",
		Name:       "<script>alert(1)</script>",
		EventTitle: "Go Meetup",
		EventPlace: "Lisbon",
		StartDate:  time.Now(),
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("html body must escape template data")
	}
	if !strings.Contains(text, "<script>") {
		t.Error("text body should keep data verbatim")
	}
}
