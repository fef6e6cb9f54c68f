// ABOUTME: Tests for the sign-in form model
// ABOUTME: Validates submit messages, error reset and the demo hint

package login

import (
	"strings"
	"testing"

	"github.com/markalston/hrdesk/internal/client"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		field string
		value string
	}{
		{"Username", ""},
		{"Username", "  "},
		{"Password", ""},
	}
	for _, tt := range tests {
		got := ValidateField(tt.field)(tt.value)
		want := client.ValidateCredentialField(tt.field, tt.value)
		if got == nil || want == nil || got.Error() != want.Error() {
			t.Errorf("%s %q: expected %v, got %v", tt.field, tt.value, want, got)
		}
		if got != nil && got.Error() != tt.field+" is required" {
			t.Errorf("%s: expected %q, got %q", tt.field, tt.field+" is required", got.Error())
		}
	}

	if err := ValidateField("Username")("hr"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestViewShowsDemoCredentials(t *testing.T) {
	f := New()
	view := f.View()

	for _, expected := range []string{
		"Demo Credentials",
		"HR User: hr / password123",
		"Employee User: employee / password123",
		"Username",
		"Password",
	} {
		if !strings.Contains(view, expected) {
			t.Errorf("expected view to contain %q\nView:\n%s", expected, view)
		}
	}
}

func TestSetErrorResetsForm(t *testing.T) {
	f := New()
	f.username = "hr"
	f.password = "wrong"
	f.submitting = true

	f.SetError("Invalid username or password")

	if f.Submitting() {
		t.Error("expected submitting to be cleared")
	}
	if f.password != "" {
		t.Errorf("expected password cleared, got %q", f.password)
	}
	if f.username != "hr" {
		t.Errorf("expected username kept, got %q", f.username)
	}
	if f.Err() != "Invalid username or password" {
		t.Errorf("expected error kept, got %q", f.Err())
	}
	if !strings.Contains(f.View(), "Invalid username or password") {
		t.Error("expected error in view")
	}
}

func TestSubmittingIgnoresInput(t *testing.T) {
	f := New()
	f.submitting = true

	_, cmd := f.Update(struct{}{})
	if cmd != nil {
		t.Error("expected no command while submitting")
	}
	if !strings.Contains(f.View(), "Signing in") {
		t.Error("expected signing in message")
	}
}
