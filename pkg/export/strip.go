package export

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/emailkit/pkg/style"
)

// deniedProperties are dropped from every style attribute. Entries ending
// in '*' match by prefix.
var deniedProperties = []string{
	"position", "float", "flex*", "grid*", "gap", "transform", "transition*",
	"animation*", "box-shadow", "filter", "backdrop-filter", "clip-path",
	"z-index", "object-fit", "justify-content", "align-items", "align-self",
	"order",
}

// deniedDisplay are display values that email clients do not lay out.
var deniedDisplay = map[string]struct{}{
	"flex": {}, "grid": {}, "inline-flex": {}, "inline-grid": {},
}

func isDenied(prop string) bool {
	for _, d := range deniedProperties {
		if prefix, ok := strings.CutSuffix(d, "*"); ok {
			if strings.HasPrefix(prop, prefix) {
				return true
			}
			continue
		}
		if prop == d {
			return true
		}
	}
	return false
}

// deniedDisplayValue reports whether a display value, with any !important
// flag removed, is one email clients do not lay out.
func deniedDisplayValue(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.TrimSpace(strings.TrimSuffix(v, "!important"))
	_, bad := deniedDisplay[v]
	return bad
}

// stripIncompatible removes denied properties from style attributes and
// from the rules kept in the document head. @media and @font-face blocks
// are left as written since they only apply in clients that support them.
// Each distinct property is reported once.
func (p *pipeline) stripIncompatible() {
	reported := make(map[string]struct{})
	report := func(prop, detail string) {
		p.stats.RemovedProperties++
		if _, ok := reported[prop]; ok {
			return
		}
		reported[prop] = struct{}{}
		p.warn(TypeCSS, SeverityWarning, fmt.Sprintf("removed %s; %s", prop, detail))
	}
	strip := func(s style.Styles) bool {
		changed := false
		for _, prop := range s.Keys() {
			if isDenied(prop) {
				delete(s, prop)
				changed = true
				report(prop, "not supported by major email clients")
				continue
			}
			if prop == "display" && deniedDisplayValue(s[prop]) {
				report("display: "+s[prop], "use table layout instead")
				delete(s, prop)
				changed = true
			}
		}
		return changed
	}

	for _, r := range p.headRule {
		strip(r.decls)
	}
	p.html = mapTags(p.html, func(e *element) bool {
		if !e.has("style") {
			return true
		}
		s := e.styles()
		if strip(s) {
			e.setStyles(s)
		}
		return true
	})
}
