package newsletter

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/deusflow/digest/internal/news"
)

var generated = time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC)

func item(title string, cats ...string) news.Summarized {
	return news.Summarized{
		Scored: news.Scored{Categorized: news.Categorized{
			Item: news.Item{
				Title:     title,
				Link:      "https://example.com/" + strings.ReplaceAll(strings.ToLower(title), " ", "-"),
				Published: time.Date(2025, time.February, 27, 8, 0, 0, 0, time.UTC),
				Source:    "Example",
			},
			Categories: cats,
		}},
		Summary: title + " summary.",
	}
}

var reader = news.Profile{Name: "Alex Parker", Interests: []string{"AI", "Cybersecurity", "Blockchain", "Startups"}}

func TestComposeStructure(t *testing.T) {
	doc := New(nil).Compose([]news.Summarized{item("Robots learn", "Technology")}, reader, generated)

	for _, want := range []string{
		"# Alex Parker's Personalized Newsletter\n### March 01, 2025\n\n---\n\n",
		"## Today's Highlights\n",
		"based on your interests in AI, Cybersecurity, Blockchain, and more.",
		"## 💻 Technology\n\n",
		"### [Robots learn](https://example.com/robots-learn)\n*Example - February 27, 2025*\n\nRobots learn summary.\n\n",
		"## Thanks for Reading!\n",
		"personal interests including AI, Cybersecurity, Blockchain.",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "Startups") {
		t.Error("only the top 3 interests belong in the intro")
	}
}

func TestSectionsOrderedByCountThenFirstSeen(t *testing.T) {
	items := []news.Summarized{
		item("a", "Science"),
		item("b", "Sports"),
		item("c", "Business"),
		item("d", "Sports"),
		item("e", "Business"),
		item("f", "Health"),
	}
	sections := New(nil).Sections(items)

	var got []string
	for _, s := range sections {
		got = append(got, s.Category)
	}
	want := []string{"Sports", "Business", "Science", "Health"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if sections[0].Items[0].Title != "b" || sections[0].Items[1].Title != "d" {
		t.Error("items lost relevance order within section")
	}
}

func TestSectionCapAndDividers(t *testing.T) {
	var items []news.Summarized
	for i := 0; i < 6; i++ {
		items = append(items, item(fmt.Sprintf("Story %d", i), "Sports"))
	}
	doc := New(nil).Compose(items, reader, generated)

	if n := strings.Count(doc, "### ["); n != DefaultSectionCap {
		t.Errorf("rendered %d items, want %d", n, DefaultSectionCap)
	}
	if strings.Contains(doc, "Story 4") {
		t.Error("item beyond the cap rendered")
	}
	section := doc[strings.Index(doc, "## 🏆 Sports"):strings.Index(doc, "## Thanks")]
	if n := strings.Count(section, "---"); n != DefaultSectionCap-1 {
		t.Errorf("dividers = %d, want %d", n, DefaultSectionCap-1)
	}
}

func TestPrimaryPlacementOnly(t *testing.T) {
	doc := New(nil).Compose([]news.Summarized{item("Chip tariffs", "Technology", "Business")}, reader, generated)
	if strings.Contains(doc, "Business") {
		t.Error("item placed outside its primary section")
	}
	if strings.Count(doc, "Chip tariffs summary.") != 1 {
		t.Error("item rendered more than once")
	}
}

func TestPlacementAll(t *testing.T) {
	c := New(nil, WithPlacement(PlacementAll))
	doc := c.Compose([]news.Summarized{item("Chip tariffs", "Technology", "Business")}, reader, generated)
	if !strings.Contains(doc, "## 💼 Business") || !strings.Contains(doc, "## 💻 Technology") {
		t.Fatalf("expected both sections:\n%s", doc)
	}
}

func TestIconsAndFallbacks(t *testing.T) {
	uncategorized := item("Loose story")
	uncategorized.Published = time.Time{}
	doc := New(nil).Compose([]news.Summarized{uncategorized, item("Odd", "Gardening")}, reader, generated)

	if !strings.Contains(doc, "## 📰 General") {
		t.Error("uncategorized item should land in General")
	}
	if !strings.Contains(doc, "## 📄 Gardening") {
		t.Error("unknown category should use the default icon")
	}
	if !strings.Contains(doc, "*Example - Recent*") {
		t.Error("missing date should render as Recent")
	}
}

func TestComposeEmpty(t *testing.T) {
	doc := New(nil).Compose(nil, reader, generated)
	if !strings.HasPrefix(doc, "# Alex Parker's Personalized Newsletter") || !strings.Contains(doc, "## Thanks for Reading!") {
		t.Fatalf("empty digest lost its frame:\n%s", doc)
	}
	if strings.Contains(doc, "### [") {
		t.Error("empty digest rendered items")
	}
}

func TestParsePlacement(t *testing.T) {
	for in, want := range map[string]Placement{"": PlacementPrimary, "primary": PlacementPrimary, " ALL ": PlacementAll} {
		got, err := ParsePlacement(in)
		if err != nil || got != want {
			t.Errorf("ParsePlacement(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePlacement("everywhere"); err == nil {
		t.Error("expected error for unknown placement")
	}
}

func TestHTMLKeepsStructureAndSanitizes(t *testing.T) {
	it := item("Robots learn", "Technology")
	it.Summary = "Plain text <script>alert(1)</script> here."
	out := HTML(New(nil).Compose([]news.Summarized{it}, reader, generated))

	if strings.Contains(out, "<script") {
		t.Error("script survived sanitizing")
	}
	for _, want := range []string{"<h1", "<h2", `href="https://example.com/robots-learn"`, "<hr"} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
	if strings.Index(out, "Highlights") > strings.Index(out, "Technology") {
		t.Error("section order changed")
	}
	if HTML("  ") != "" {
		t.Error("blank document should render empty")
	}
}

func TestLinkedTitleSurvivesAwkwardTitlesAndLinks(t *testing.T) {
	it := item("x", "Technology")
	it.Title = `[Live] Markets \ rates (update)`
	it.Link = "https://example.com/a b(1)"
	doc := New(nil).Compose([]news.Summarized{it}, reader, generated)

	want := "### [\\[Live\\] Markets \\\\ rates (update)](https://example.com/a%20b%281%29)\n"
	if !strings.Contains(doc, want) {
		t.Fatalf("document missing %q\n%s", want, doc)
	}

	out := HTML(doc)
	if !strings.Contains(out, `href="https://example.com/a%20b%281%29"`) {
		t.Errorf("link destination lost: %s", out)
	}
	if !strings.Contains(out, `[Live] Markets \ rates (update)</a>`) {
		t.Errorf("link text lost: %s", out)
	}
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename("Alex Parker", generated)
	if got != "Alex Parker_newsletter_2025-03-01_09-30-00.md" {
		t.Errorf("got %q", got)
	}
}
