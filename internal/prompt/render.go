// Package prompt renders the model-facing templates. Placeholders use
// snake_case inside braces; Render fails loudly if one slips through
// unfilled.
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	auraErrors "github.com/aurelabs/aura/internal/errors"
)

var placeholderPattern = regexp.MustCompile(`\{[a-z_]+\}`)

// Render substitutes {placeholder} tokens in a template from a typed
// key-value record. A placeholder left unfilled is an error, never
// silently passed through to the model.
func Render(template string, vars map[string]string) (string, error) {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}

	if leftover := placeholderPattern.FindString(out); leftover != "" {
		return "", fmt.Errorf("%w: unresolved template placeholder %s", auraErrors.ErrInternal, leftover)
	}
	return out, nil
}
