package identity

import (
	"regexp"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usernamePattern = regexp.MustCompile(`^([a-z]+)([A-Z][a-z]+)([A-Za-z0-9]{3})$`)

func TestGenerator_User(t *testing.T) {
	g := NewGenerator(gofakeit.New(7))
	industry := 0

	for i := 0; i < 2000; i++ {
		u := g.User()

		m := usernamePattern.FindStringSubmatch(u.Username)
		require.NotNil(t, m, "username %q has the wrong shape", u.Username)
		assert.Contains(t, adjectives, m[1])
		assert.Contains(t, names, strings.ToLower(m[2]))

		local, domain, ok := strings.Cut(u.Email, "@")
		require.True(t, ok)
		assert.Equal(t, u.Username, local)
		if contains(industryDomains, domain) {
			industry++
		} else {
			assert.Contains(t, regularDomains, domain)
		}

		require.Len(t, u.Password, PasswordLength)
		for _, c := range u.Password {
			assert.True(t, strings.ContainsRune(Alphanumeric, c), "password char %q", c)
		}
	}

	// 10% expected; allow a wide band to stay seed independent.
	assert.Greater(t, industry, 100)
	assert.Less(t, industry, 320)
}

func TestCatalogShapes(t *testing.T) {
	lower := regexp.MustCompile(`^[a-z]+$`)
	for _, a := range adjectives {
		assert.Regexp(t, lower, a)
	}
	for _, n := range names {
		assert.Regexp(t, lower, n)
	}
	assert.Len(t, utmSources, 6)
	assert.Len(t, utmMediums, 5)
	assert.Len(t, utmCampaigns, 4)
	assert.Len(t, utmTerms, 4)
}

func TestGenerator_UTMTermOnlyForSearch(t *testing.T) {
	g := NewGenerator(gofakeit.New(11))
	sawSearch := false

	for i := 0; i < 1000; i++ {
		u := g.UTM()
		assert.Contains(t, utmSources, u.Source)
		assert.Contains(t, utmMediums, u.Medium)
		assert.Contains(t, utmCampaigns, u.Campaign)

		if u.Medium == SearchMedium {
			sawSearch = true
			assert.True(t, u.HasTerm())
			assert.Contains(t, utmTerms, u.Term)
			assert.Equal(t, u.Term, u.Values().Get("utm_term"))
		} else {
			assert.False(t, u.HasTerm())
			assert.False(t, u.Values().Has("utm_term"))
		}
	}
	assert.True(t, sawSearch)
}

func TestUTM_Values(t *testing.T) {
	u := UTM{Source: "google", Medium: "search", Campaign: "organic", Term: "new movies"}
	assert.Equal(t, "utm_campaign=organic&utm_medium=search&utm_source=google&utm_term=new+movies", u.Values().Encode())
}

func TestGenerator_PlanAndMovie(t *testing.T) {
	g := NewGenerator(gofakeit.New(3))
	plans := map[string]int{}
	movies := map[int]int{}

	for i := 0; i < 900; i++ {
		p := g.Plan()
		plans[p.Name]++
		n := g.MovieNumber()
		require.GreaterOrEqual(t, n, MinMovieNumber)
		require.LessOrEqual(t, n, MaxMovieNumber)
		movies[n]++
	}

	assert.Len(t, plans, 3)
	assert.Len(t, movies, 3)
	assert.Equal(t, "SELECT MAX-IMAL", Plans[2].ButtonLabel())
	assert.InDelta(t, 9.99, Plans[1].Price, 1e-9)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
