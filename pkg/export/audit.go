package export

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	urlTokenRe   = regexp.MustCompile(`(?i)url\([^)]*\)`)
	colorTokenRe = regexp.MustCompile(`(?i)#[0-9a-f]{3,8}\b|\b(?:rgba?|hsla?)\(|\b(?:white|black|red|green|blue|yellow|orange|purple|gray|grey|silver|navy|teal|maroon|olive|lime|aqua|fuchsia|transparent|currentcolor)\b`)
)

// hasColorToken reports whether a background shorthand sets a colour
// outside its url() parts.
func hasColorToken(v string) bool {
	return colorTokenRe.MatchString(urlTokenRe.ReplaceAllString(v, ""))
}

// audit reports compatibility problems in the final markup.
func (p *pipeline) audit() {
	missingAlt := 0
	bgNoColor := 0
	mapTags(p.html, func(e *element) bool {
		if e.is("img") && !e.has("alt") {
			missingAlt++
		}
		if e.has("style") {
			s := e.styles()
			bg, hasBgImage := s["background-image"]
			if !hasBgImage {
				if v, ok := s["background"]; ok && strings.Contains(strings.ToLower(v), "url(") && !hasColorToken(v) {
					bg, hasBgImage = v, true
				}
			}
			if hasBgImage && strings.Contains(strings.ToLower(bg), "url(") {
				if _, ok := s["background-color"]; !ok {
					bgNoColor++
				}
			}
		}
		return true
	})

	if missingAlt > 0 {
		p.warn(TypeCompatibility, SeverityWarning, fmt.Sprintf("%d image(s) without alt text; many clients block images by default", missingAlt))
	}
	if bgNoColor > 0 {
		p.warn(TypeCompatibility, SeverityWarning, fmt.Sprintf("%d background image(s) without a fallback background-color; Outlook ignores background images", bgNoColor))
	}
	if size := len(p.html); size > GmailClipSize {
		p.warn(TypeCompatibility, SeverityWarning, fmt.Sprintf("output is %d KB; Gmail clips messages over %d KB", size/1024, GmailClipSize/1024))
	}
}
