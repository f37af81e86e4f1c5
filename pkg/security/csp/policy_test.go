package csp

import (
	"testing"
)

func TestCSPBuilder_Build(t *testing.T) {
	tests := []struct {
		name    string
		builder *CSPBuilder
		want    string
	}{
		{
			name:    "empty",
			builder: NewCSPBuilder(),
			want:    "",
		},
		{
			name:    "single directive",
			builder: NewCSPBuilder().DefaultSrc("'self'"),
			want:    "default-src 'self'",
		},
		{
			name: "fixed order regardless of call order",
			builder: NewCSPBuilder().
				ReportURI("/csp-report").
				ObjectSrc("'none'").
				ConnectSrc("'self'").
				ImgSrc("'self'", "data:").
				StyleSrc("'self'").
				ScriptSrc("'self'", "https://cdn.example.com").
				DefaultSrc("'none'"),
			want: "default-src 'none'; script-src 'self' https://cdn.example.com; style-src 'self'; " +
				"img-src 'self' data:; connect-src 'self'; object-src 'none'; report-uri /csp-report",
		},
		{
			name:    "empty sources omitted",
			builder: NewCSPBuilder().DefaultSrc("'self'").ScriptSrc(),
			want:    "default-src 'self'",
		},
		{
			name:    "last call wins",
			builder: NewCSPBuilder().DefaultSrc("'self'").DefaultSrc("'none'"),
			want:    "default-src 'none'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.builder.Build(); got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCSPBuilder_HeaderName(t *testing.T) {
	b := NewCSPBuilder()
	if got := b.HeaderName(); got != "Content-Security-Policy" {
		t.Errorf("HeaderName() = %q", got)
	}
	if got := b.ReportOnly(true).HeaderName(); got != "Content-Security-Policy-Report-Only" {
		t.Errorf("HeaderName() in report-only mode = %q", got)
	}
	if got := b.ReportOnly(false).HeaderName(); got != "Content-Security-Policy" {
		t.Errorf("HeaderName() after disabling report-only = %q", got)
	}
}

func TestAPIPolicy(t *testing.T) {
	want := "default-src 'none'; frame-ancestors 'none'; form-action 'none'; base-uri 'none'"
	if got := APIPolicy().Build(); got != want {
		t.Errorf("APIPolicy() = %q, want %q", got, want)
	}
}
