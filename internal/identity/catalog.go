package identity

// Email domains. The industry list is drawn with industryDomainRate probability.
var (
	regularDomains = []string{
		"hogmail.com",
		"squeak.com",
		"furryfamilies.com",
		"quillpost.net",
		"spikeymail.org",
		"hedgehoghaven.com",
		"pricklypal.net",
		"snufflemail.com",
		"spinyspace.org",
		"hedgenet.com",
	}

	industryDomains = []string{
		"pixhog.biz",
		"imaginhog.ai",
		"marvelhogstudios.io",
		"hannahogbera.com",
		"dreamhogs.biz",
		"bluespiky.com",
		"illuminhogion.tech",
		"hogartsentertainment.tech",
		"pricklypictures.app",
		"spinemation.io",
	}
)

// adjectives are all lowercase ASCII letters.
var adjectives = []string{
	// hedgehog traits
	"spiky", "sleepy", "speedy", "grumpy", "happy", "snuggly", "tiny", "rolly", "fuzzy",
	"cozy", "sniffing", "curious", "hungry", "adventurous", "bouncy", "wiggly", "giggly",
	// watching
	"binging", "watching", "streaming", "viewing", "chilling", "relaxing", "comfy",
	"snacking", "moviegoing", "cinematic",
	// kids
	"silli", "jumpy", "sparkly", "magical", "dancing", "singing", "laffy",
	// engineering
	"debugging", "coding", "hacking", "building", "shipping", "testing", "deploying",
	"scaling", "optimizing", "refactoring",
	// growth
	"growing", "launching", "iterating", "measuring", "analyzing", "converting",
}

// names are lowercase ASCII letters; the generator capitalizes the first one.
var names = []string{
	"sonic", "spike", "prickles", "hoglet", "nibbles", "waddles", "pokey", "ziggy",
	"quills", "bramble", "thistle",
	"moviebuff", "cinephile", "filmfan", "bingewatcher", "couchpotato", "streammaster",
	"flickpicker", "showtime", "cinema",
	"princess", "superhero", "dragon", "unicorn", "wizard", "fairy", "pirate", "ninja",
	"astronaut", "dinosaur", "mermaid",
	"dev", "sre", "backend", "frontend", "fullstack", "devops", "aiops", "architect", "llmops",
	"product", "growth", "metrics", "funnel", "journey", "northstar", "pmf", "mvp",
}

// UTM catalogs.
var (
	utmSources   = []string{"google", "chatgpt", "facebook", "twitter", "direct", "email"}
	utmMediums   = []string{"search", "social", "cpc", "email", "organic"}
	utmCampaigns = []string{"winter2024", "socialads", "emailblast", "organic"}
	utmTerms     = []string{"movie streaming", "watch movies online", "best streaming service", "new movies"}
)

// Plans offered on the signup page.
var Plans = []Plan{
	{Name: "FREE", Price: 0},
	{Name: "PREMIUM", Price: 9.99},
	{Name: "MAX-IMAL", Price: 19.99},
}
