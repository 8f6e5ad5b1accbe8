package placeholder

import (
	"regexp"

	"reqloop/internal/shared/logger"
)

// tokenPattern matches flat {name} tokens. The colon enables parameterized
// forms like {random_int:10:20} and {generator:city}.
var tokenPattern = regexp.MustCompile(`\{([A-Za-z0-9_\-:]+)\}`)

// Resolver substitutes {token} placeholders in request text. Each distinct
// token is resolved exactly once per Replace call, so repeated occurrences of
// the same token within one text get the same value.
type Resolver struct {
	store    *Store
	gen      *Generator
	rotation Rotation
}

func NewResolver(store *Store, gen *Generator, rotation Rotation) *Resolver {
	if rotation != RotationSequential && rotation != RotationRandom {
		l := logger.WithComponent("Placeholder")
		l.Warn().
			Str("rotation", string(rotation)).
			Msg("Unknown placeholder rotation, falling back to 'sequential'.")
		rotation = RotationSequential
	}
	return &Resolver{store: store, gen: gen, rotation: rotation}
}

// Replace resolves every distinct token in text and substitutes all of its
// occurrences with the single resolved value. Resolved values are not
// re-scanned for further tokens. The first resolution error aborts the call.
func (r *Resolver) Replace(text string) (string, error) {
	matches := tokenPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	resolved := make(map[string]string, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, done := resolved[name]; done {
			continue
		}
		value, err := r.resolve(name)
		if err != nil {
			return "", err
		}
		resolved[name] = value
	}

	return tokenPattern.ReplaceAllStringFunc(text, func(tok string) string {
		return resolved[tok[1:len(tok)-1]]
	}), nil
}

func (r *Resolver) resolve(name string) (string, error) {
	if value, ok := r.gen.Resolve(name); ok {
		return value, nil
	}
	return r.store.Next(name, r.rotation)
}
