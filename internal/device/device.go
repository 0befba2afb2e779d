// Package device holds the closed catalog of emulated device profiles.
package device

import "github.com/brianvoe/gofakeit/v7"

// Category is the coarse device class.
type Category string

const (
	Desktop Category = "desktop"
	Tablet  Category = "tablet"
	Mobile  Category = "mobile"
)

// Variant narrows the mobile category.
type Variant string

const (
	IPhone  Variant = "iphone"
	Android Variant = "android"
)

// BrowserType is the only engine the provisioning service offers.
const BrowserType = "chromium"

// Viewport is the emulated screen size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// Profile describes a device to emulate on the provisioned page.
// UserAgent is set only for mobile variants.
type Profile struct {
	Category    Category
	Variant     Variant
	Viewport    Viewport
	ScaleFactor float64
	IsMobile    bool
	HasTouch    bool
	UserAgent   string
}

// Name is the variant for mobile profiles and the category otherwise.
func (p Profile) Name() string {
	if p.Variant != "" {
		return string(p.Variant)
	}
	return string(p.Category)
}

// BrowserType reports the browser engine name for session reports.
func (p Profile) BrowserType() string { return BrowserType }

var (
	desktopProfile = Profile{
		Category:    Desktop,
		Viewport:    Viewport{Width: 1920, Height: 1080},
		ScaleFactor: 1,
	}
	tabletProfile = Profile{
		Category:    Tablet,
		Viewport:    Viewport{Width: 1024, Height: 768},
		ScaleFactor: 2,
		IsMobile:    true,
		HasTouch:    true,
	}
	mobileProfiles = map[Variant]Profile{
		IPhone: {
			Category:    Mobile,
			Variant:     IPhone,
			Viewport:    Viewport{Width: 390, Height: 844},
			ScaleFactor: 3,
			IsMobile:    true,
			HasTouch:    true,
			UserAgent:   "Mozilla/5.0 (iPhone; CPU iPhone OS 14_4 like Mac OS X)",
		},
		Android: {
			Category:    Mobile,
			Variant:     Android,
			Viewport:    Viewport{Width: 393, Height: 851},
			ScaleFactor: 2.75,
			IsMobile:    true,
			HasTouch:    true,
			UserAgent:   "Mozilla/5.0 (Linux; Android 12; Pixel 6)",
		},
	}

	categories = []Category{Desktop, Tablet, Mobile}
	variants   = []Variant{IPhone, Android}
)

// Select picks a category uniformly and, for mobile, a variant uniformly.
func Select(rng *gofakeit.Faker) Profile {
	switch categories[rng.IntRange(0, len(categories)-1)] {
	case Desktop:
		return desktopProfile
	case Tablet:
		return tabletProfile
	default:
		return mobileProfiles[variants[rng.IntRange(0, len(variants)-1)]]
	}
}

// Lookup returns the catalog profile for a category and, for mobile, a variant.
func Lookup(c Category, v Variant) (Profile, bool) {
	switch c {
	case Desktop:
		return desktopProfile, true
	case Tablet:
		return tabletProfile, true
	case Mobile:
		p, ok := mobileProfiles[v]
		return p, ok
	}
	return Profile{}, false
}
