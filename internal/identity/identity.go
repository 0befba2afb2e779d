// Package identity generates the randomized per-session parameters of a
// simulated user: credentials, marketing attribution, plan and content choice.
package identity

import (
	"net/url"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

const (
	// Alphanumeric is the alphabet for password and username suffix characters.
	Alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	PasswordLength     = 9
	UsernameSuffixLen  = 3
	industryDomainRate = 0.1

	// SearchMedium is the only medium that carries a utm_term.
	SearchMedium = "search"

	MinMovieNumber = 1
	MaxMovieNumber = 3
)

// User is a synthetic account used for signup and then login.
type User struct {
	Username string
	Email    string
	Password string
}

// UTM is the marketing attribution attached to the landing URL.
// Term is set only when Medium is "search".
type UTM struct {
	Source   string
	Medium   string
	Campaign string
	Term     string
}

// HasTerm reports whether a search term is attached.
func (u UTM) HasTerm() bool { return u.Term != "" }

// Values renders the utm_* query parameters.
func (u UTM) Values() url.Values {
	v := url.Values{}
	v.Set("utm_source", u.Source)
	v.Set("utm_medium", u.Medium)
	v.Set("utm_campaign", u.Campaign)
	if u.HasTerm() {
		v.Set("utm_term", u.Term)
	}
	return v
}

// Plan is a subscription tier selectable on the signup page.
type Plan struct {
	Name  string
	Price float64
}

// ButtonLabel is the visible text of the plan's select button.
func (p Plan) ButtonLabel() string { return "SELECT " + p.Name }

// Generator draws identities and parameters from a single random source.
// It is not safe for concurrent use.
type Generator struct {
	rng *gofakeit.Faker
}

// NewGenerator returns a Generator backed by rng. A nil rng gets a randomly seeded source.
func NewGenerator(rng *gofakeit.Faker) *Generator {
	if rng == nil {
		rng = gofakeit.New(0)
	}
	return &Generator{rng: rng}
}

// User builds adjective + Capitalized name + 3-char suffix, an email on that
// local part and a 9-character alphanumeric password.
func (g *Generator) User() User {
	adjective := g.rng.RandomString(adjectives)
	name := g.rng.RandomString(names)
	username := adjective + strings.ToUpper(name[:1]) + name[1:] + g.alphanumeric(UsernameSuffixLen)

	domains := regularDomains
	if g.rng.Float64() < industryDomainRate {
		domains = industryDomains
	}

	return User{
		Username: username,
		Email:    username + "@" + g.rng.RandomString(domains),
		Password: g.alphanumeric(PasswordLength),
	}
}

// UTM draws source, medium and campaign uniformly, plus a term for search traffic.
func (g *Generator) UTM() UTM {
	u := UTM{
		Source:   g.rng.RandomString(utmSources),
		Medium:   g.rng.RandomString(utmMediums),
		Campaign: g.rng.RandomString(utmCampaigns),
	}
	if u.Medium == SearchMedium {
		u.Term = g.rng.RandomString(utmTerms)
	}
	return u
}

// Plan picks a subscription tier uniformly.
func (g *Generator) Plan() Plan {
	return Plans[g.rng.IntRange(0, len(Plans)-1)]
}

// MovieNumber picks the content tile to open, in [1,3].
func (g *Generator) MovieNumber() int {
	return g.rng.IntRange(MinMovieNumber, MaxMovieNumber)
}

func (g *Generator) alphanumeric(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(Alphanumeric[g.rng.IntRange(0, len(Alphanumeric)-1)])
	}
	return b.String()
}
