// Package csp builds Content-Security-Policy header values.
package csp

import (
	"strings"
)

// directiveOrder fixes the order directives appear in the header.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"report-uri",
}

// CSPBuilder assembles a policy. It is not safe for concurrent use.
//
//	policy := NewCSPBuilder().
//	    DefaultSrc("'none'").
//	    FrameAncestors("'none'").
//	    Build()
//	// "default-src 'none'; frame-ancestors 'none'"
type CSPBuilder struct {
	directives map[string][]string
	reportOnly bool
}

// NewCSPBuilder returns an empty builder.
func NewCSPBuilder() *CSPBuilder {
	return &CSPBuilder{directives: make(map[string][]string)}
}

func (b *CSPBuilder) set(directive string, sources []string) *CSPBuilder {
	b.directives[directive] = sources
	return b
}

// DefaultSrc sets default-src, the fallback for every fetch directive.
func (b *CSPBuilder) DefaultSrc(sources ...string) *CSPBuilder {
	return b.set("default-src", sources)
}

func (b *CSPBuilder) ScriptSrc(sources ...string) *CSPBuilder { return b.set("script-src", sources) }
func (b *CSPBuilder) StyleSrc(sources ...string) *CSPBuilder  { return b.set("style-src", sources) }
func (b *CSPBuilder) ImgSrc(sources ...string) *CSPBuilder    { return b.set("img-src", sources) }

func (b *CSPBuilder) ConnectSrc(sources ...string) *CSPBuilder {
	return b.set("connect-src", sources)
}

// FrameAncestors sets frame-ancestors; "'none'" forbids framing entirely.
func (b *CSPBuilder) FrameAncestors(sources ...string) *CSPBuilder {
	return b.set("frame-ancestors", sources)
}

func (b *CSPBuilder) FormAction(sources ...string) *CSPBuilder {
	return b.set("form-action", sources)
}

func (b *CSPBuilder) BaseURI(sources ...string) *CSPBuilder {
	return b.set("base-uri", sources)
}

func (b *CSPBuilder) ObjectSrc(sources ...string) *CSPBuilder {
	return b.set("object-src", sources)
}

// ReportURI sets the endpoint violations are posted to.
func (b *CSPBuilder) ReportURI(uri string) *CSPBuilder {
	return b.set("report-uri", []string{uri})
}

// ReportOnly switches HeaderName to the report-only header.
func (b *CSPBuilder) ReportOnly(enabled bool) *CSPBuilder {
	b.reportOnly = enabled
	return b
}

// Build renders the policy. Directives without sources are omitted.
func (b *CSPBuilder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, directive := range directiveOrder {
		if sources := b.directives[directive]; len(sources) > 0 {
			parts = append(parts, directive+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns Content-Security-Policy, or the report-only variant.
func (b *CSPBuilder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// APIPolicy is the policy for JSON responses: nothing may be loaded,
// framed or submitted.
func APIPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'none'").
		FormAction("'none'")
}
