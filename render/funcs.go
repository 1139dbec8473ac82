package render

import (
	"html/template"

	"github.com/mb256/web/assets"
)

// Funcs returns the site-specific template functions layered on top of the
// sprig set.
func Funcs(a *assets.Assets) template.FuncMap {
	return template.FuncMap{
		"asset": a.Path,
		"safeHTML": func(s any) template.HTML {
			switch val := s.(type) {
			case template.HTML:
				return val
			case string:
				return template.HTML(val)
			default:
				return ""
			}
		},
	}
}
