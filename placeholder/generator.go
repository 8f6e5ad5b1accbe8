package placeholder

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FieldProvider generates pseudo-data fields by name. Implementations return
// false when they do not handle a given field, which lets resolution fall
// through to file-backed lookup.
type FieldProvider interface {
	GenerateField(name string) (string, bool)
}

// Token names routed to the external provider without the "generator:" prefix.
var providerAliases = map[string]struct{}{
	"email":      {},
	"first_name": {},
	"last_name":  {},
	"user_agent": {},
	"country":    {},
}

const generatorPrefix = "generator:"

// Generator resolves built-in dynamic tokens and, when a provider is present,
// aliased or explicitly prefixed pseudo-data tokens. Anything it does not
// handle falls through to the ValueStore.
type Generator struct {
	provider FieldProvider // nil when no external provider is linked in
}

func NewGenerator(provider FieldProvider) *Generator {
	return &Generator{provider: provider}
}

// Resolve returns the generated value and true when name is a dynamic token
// this generator handles.
func (g *Generator) Resolve(name string) (string, bool) {
	switch name {
	case "uuid":
		return uuid.NewString(), true
	case "timestamp":
		return strconv.FormatInt(time.Now().Unix(), 10), true
	}

	if bounds, ok := strings.CutPrefix(name, "random_int:"); ok {
		if v, ok := randomInt(bounds); ok {
			return v, true
		}
		// Malformed bounds fall through to file lookup.
		return "", false
	}

	if g.provider == nil {
		return "", false
	}
	if _, ok := providerAliases[name]; ok {
		return g.provider.GenerateField(name)
	}
	if method, ok := strings.CutPrefix(name, generatorPrefix); ok {
		return g.provider.GenerateField(method)
	}
	return "", false
}

func randomInt(bounds string) (string, bool) {
	parts := strings.Split(bounds, ":")
	if len(parts) != 2 {
		return "", false
	}
	lo, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", false
	}
	hi, err := strconv.Atoi(parts[1])
	if err != nil || hi < lo {
		return "", false
	}
	return strconv.Itoa(lo + rand.IntN(hi-lo+1)), true
}
