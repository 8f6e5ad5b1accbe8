package placeholder

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// FakeitProvider adapts gofakeit to the FieldProvider capability interface.
type FakeitProvider struct {
	faker *gofakeit.Faker
}

func NewFakeitProvider() *FakeitProvider {
	return &FakeitProvider{faker: gofakeit.New(0)}
}

// GenerateField handles the aliased field names directly and dispatches any
// other method name through gofakeit's template lookup. Unknown names return
// false rather than an error, so callers can fall back to file lookup.
func (p *FakeitProvider) GenerateField(name string) (string, bool) {
	switch name {
	case "email":
		return p.faker.Email(), true
	case "first_name":
		return p.faker.FirstName(), true
	case "last_name":
		return p.faker.LastName(), true
	case "user_agent":
		return p.faker.UserAgent(), true
	case "country":
		return p.faker.Country(), true
	}

	// gofakeit function names are lowercase without separators.
	method := strings.ToLower(strings.ReplaceAll(name, "_", ""))
	template := "{" + method + "}"
	out, err := p.faker.Generate(template)
	if err != nil || out == "" || out == template {
		return "", false
	}
	return out, true
}
