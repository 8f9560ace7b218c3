package export

import "slices"

// Warning types.
const (
	TypeGeneral       = "general"
	TypeHTML          = "html"
	TypeCSS           = "css"
	TypeLayout        = "layout"
	TypeCompatibility = "compatibility"
)

// Warning severities.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// DefaultWidth of the email container in pixels.
const DefaultWidth = 600

// GmailClipSize is the message size above which Gmail clips the body.
const GmailClipSize = 102 * 1024

type Options struct {
	InlineCSS             bool   `json:"inline_css"`
	RemoveIncompatibleCSS bool   `json:"remove_incompatible_css"`
	ConvertLayout         bool   `json:"convert_layout"`
	OutlookFixes          bool   `json:"outlook_fixes"`
	Minify                bool   `json:"minify"`
	PlainText             bool   `json:"plain_text"`
	Title                 string `json:"title,omitempty"`
	Preheader             string `json:"preheader,omitempty"`
	// Width of the container in pixels. Zero means DefaultWidth.
	Width int `json:"width,omitempty"`
}

// DefaultOptions enables every pass except minification and the plain-text
// alternative.
func DefaultOptions() Options {
	return Options{
		InlineCSS:             true,
		RemoveIncompatibleCSS: true,
		ConvertLayout:         true,
		OutlookFixes:          true,
		Width:                 DefaultWidth,
	}
}

func (o Options) width() int {
	if o.Width <= 0 {
		return DefaultWidth
	}
	return o.Width
}

type Warning struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type Stats struct {
	InlinedRules      int `json:"inlined_rules"`
	ConvertedElements int `json:"converted_elements"`
	RemovedProperties int `json:"removed_properties"`
	// OutputSize is the length of HTML in bytes.
	OutputSize int `json:"output_size"`
}

type Result struct {
	HTML     string    `json:"html"`
	Text     string    `json:"text,omitempty"`
	Warnings []Warning `json:"warnings"`
	Stats    Stats     `json:"stats"`
}

// HasErrors reports whether any warning has error severity.
func (r *Result) HasErrors() bool {
	return slices.ContainsFunc(r.Warnings, func(w Warning) bool { return w.Severity == SeverityError })
}

func (r *Result) clone() *Result {
	out := *r
	out.Warnings = slices.Clone(r.Warnings)
	return &out
}
