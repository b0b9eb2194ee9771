package reminder

import "regexp"

// placeholder matches {name} and the older {$name} form.
var placeholder = regexp.MustCompile(`\{\$?(\w+)\}`)

// Render substitutes known variables. Unknown placeholders are kept as
// written so a typo in the template shows up in the message, not as an error.
func Render(tmpl string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return m
	})
}
