package rss

import (
	"fmt"
	"strings"
	"time"

	"github.com/deusflow/digest/internal/news"
)

const generalNews = "General News"

type sampleArticle struct {
	title   string
	content string
}

var sampleArticles = map[string][]sampleArticle{
	generalNews: {
		{"Global Climate Summit Reaches Historic Agreement", "World leaders have agreed to a new climate treaty that will significantly reduce carbon emissions by 2030. The agreement includes financial aid for developing nations and stricter regulations for major polluters."},
		{"New International Trade Deal Signed", "A landmark trade agreement has been signed between 15 countries, creating one of the largest free trade zones in the world. Economists predict this will boost global GDP by at least 0.5% over the next five years."},
	},
	"Technology": {
		{"Tech Giant Unveils Revolutionary AI System", "A leading technology company has announced a new artificial intelligence system that can solve complex problems faster than any previous model, with potential applications in healthcare, climate science, and quantum physics."},
		{"Breakthrough in Quantum Computing Achieved", "Scientists have demonstrated quantum supremacy in a new experiment that solved calculations impossible for traditional supercomputers. This development brings practical quantum computing applications closer to reality."},
	},
	"Finance": {
		{"Central Banks Announce Coordinated Rate Decision", "Multiple central banks have announced a coordinated approach to interest rates in response to global inflation concerns. Markets responded positively to the rare show of international financial cooperation."},
		{"Major Cryptocurrency Adoption by Banking Sector", "Several international banks have announced plans to integrate cryptocurrency services into their traditional banking offerings, signaling a shift in mainstream financial acceptance of digital currencies."},
	},
	"Sports": {
		{"Underdog Team Wins Championship in Stunning Upset", "In what analysts are calling one of the greatest upsets in sports history, the underdog team defeated the heavily favored champions with a last-minute play that will be remembered for years to come."},
		{"Star Athlete Breaks Decades-Old World Record", "A remarkable performance has resulted in breaking a world record that stood for over 30 years. Sports scientists are analyzing the techniques used to achieve this historic milestone."},
	},
	"Entertainment": {
		{"Indie Film Sweeps Major Awards Season", "A low-budget independent film has won multiple prestigious awards, beating out big-studio productions. The director's unique storytelling approach has been praised for revolutionizing the genre."},
		{"Streaming Platforms Announce Groundbreaking Content Partnership", "Two major streaming services have announced a collaboration to produce a series of interconnected shows, representing the largest content investment in streaming history."},
	},
	"Science": {
		{"Researchers Discover Potential Cancer Treatment Breakthrough", "Scientists have identified a new mechanism that could lead to more effective cancer treatments with fewer side effects. Early clinical trials show promising results across multiple types of previously resistant tumors."},
		{"New Space Telescope Reveals Unprecedented Views of Deep Space", "The newest space telescope has sent back its first images, showing previously unobservable celestial features. Astronomers say this will revolutionize our understanding of the early universe."},
	},
}

var sampleDomains = map[string][]string{
	generalNews:     {"bbc.com", "nytimes.com", "reuters.com"},
	"Technology":    {"techcrunch.com", "wired.com", "technologyreview.com"},
	"Finance":       {"bloomberg.com", "cnbc.com", "ft.com"},
	"Sports":        {"espn.com", "bbc.co.uk", "skysports.com"},
	"Entertainment": {"variety.com", "hollywoodreporter.com", "billboard.com"},
	"Science":       {"nasa.gov", "sciencedaily.com", "arstechnica.com"},
}

const samplePath = "/article/sample-"

// IsSample reports whether item came from the built-in sample corpus.
func IsSample(item news.Item) bool {
	return strings.Contains(item.Link, samplePath)
}

// SampleItems returns the built-in items for category, or the general news
// samples for categories without their own. Output depends only on category
// and now.
func SampleItems(category string, now time.Time) []news.Item {
	articles, ok := sampleArticles[category]
	if !ok {
		articles = sampleArticles[generalNews]
	}
	domains, ok := sampleDomains[category]
	if !ok {
		domains = []string{"example.com"}
	}

	slug := strings.ToLower(strings.ReplaceAll(category, " ", "-"))
	items := make([]news.Item, 0, len(articles))
	for i, a := range articles {
		domain := domains[i%len(domains)]
		items = append(items, news.Item{
			Title:            a.title,
			Link:             fmt.Sprintf("https://%s%s%s-%d", domain, samplePath, slug, i),
			Published:        now.Add(-time.Duration(i+1) * time.Hour),
			Content:          a.content,
			Source:           sourceName(domain),
			FeedCategoryHint: category,
		})
	}
	return items
}

// sourceName turns "techcrunch.com" into "Techcrunch".
func sourceName(domain string) string {
	name, _, _ := strings.Cut(domain, ".")
	if name == "" {
		return domain
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
