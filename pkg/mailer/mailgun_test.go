package mailer

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		job      EmailJob
		subject  string
		contains string
		wantErr  bool
	}{
		{
			name:     "verify",
			job:      EmailJob{Template: TemplateVerifyEmail, Data: map[string]string{"username": "ana", "token": "ab12cd34", "expires_in": "24h"}},
			subject:  "Verify your account",
			contains: "ab12cd34",
		},
		{
			name:     "forgot",
			job:      EmailJob{Template: TemplateForgotPassword, Data: map[string]string{"username": "ana", "token": "123456", "expires_in": "15m"}},
			subject:  "Reset your password",
			contains: "123456",
		},
		{
			name:    "unknown",
			job:     EmailJob{Template: "newsletter"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body, err := Render(tt.job)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if subject != tt.subject {
				t.Fatalf("subject = %q, want %q", subject, tt.subject)
			}
			if !strings.Contains(body, tt.contains) {
				t.Fatalf("body %q does not contain %q", body, tt.contains)
			}
		})
	}
}
