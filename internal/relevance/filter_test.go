package relevance

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/deusflow/digest/internal/news"
	"github.com/deusflow/digest/internal/taxonomy"
)

func item(title, content, source string, categories ...string) news.Categorized {
	return news.Categorized{
		Item:       news.Item{Title: title, Content: content, Source: source, Link: "https://example.com/" + title},
		Categories: categories,
	}
}

func TestScoreRules(t *testing.T) {
	f := New(taxonomy.Default())

	tests := []struct {
		name    string
		item    news.Categorized
		profile news.Profile
		want    int
	}{
		{
			name:    "category overlap by name",
			item:    item("Quarterly numbers", "", "", "Business"),
			profile: news.Profile{Interests: []string{"business news"}},
			want:    3,
		},
		{
			name:    "category overlap counted once per category",
			item:    item("Quarterly numbers", "", "", "Business", "Politics"),
			profile: news.Profile{Interests: []string{"business", "busi", "politics"}},
			want:    6,
		},
		{
			name:    "title match adds four once",
			item:    item("Fintech startup raises funds", "", "", "General"),
			profile: news.Profile{Interests: []string{"fintech", "startup"}},
			want:    4,
		},
		{
			name:    "content fallback only when nothing else matched",
			item:    item("Quarterly numbers", "Analysts discuss fintech growth", "", "General"),
			profile: news.Profile{Interests: []string{"fintech"}},
			want:    1,
		},
		{
			name:    "content ignored when score already positive",
			item:    item("Fintech weekly", "Analysts discuss fintech growth", "", "General"),
			profile: news.Profile{Interests: []string{"fintech"}},
			want:    4,
		},
		{
			name:    "content fallback precedes source match",
			item:    item("Quarterly numbers", "Analysts discuss fintech growth", "Forbes", "General"),
			profile: news.Profile{Interests: []string{"fintech"}, Sources: []string{"forbes"}},
			want:    3,
		},
		{
			name:    "source match either direction",
			item:    item("Quarterly numbers", "", "Financial Times", "General"),
			profile: news.Profile{Sources: []string{"Financial Times Weekend"}},
			want:    2,
		},
		{
			name:    "empty source never matches",
			item:    item("Quarterly numbers", "", "", "General"),
			profile: news.Profile{Sources: []string{"Bloomberg"}},
			want:    0,
		},
		{
			name:    "entertainment affinity via title",
			item:    item("New film tops charts", "", "", "General"),
			profile: news.Profile{Interests: []string{"Celebrity news"}},
			want:    2,
		},
		{
			name:    "entertainment affinity via content",
			item:    item("Weekend roundup", "A new album dropped", "", "General"),
			profile: news.Profile{Interests: []string{"Movies"}},
			want:    1,
		},
		{
			name:    "no affinity without entertainment interests",
			item:    item("New film tops charts", "", "", "General"),
			profile: news.Profile{Interests: []string{"Economics"}},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Score(tt.item, tt.profile); got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTitleOnlyInterestAddsFour(t *testing.T) {
	f := New(taxonomy.Default())
	it := item("Zebra crossing opens", "Local road news", "Daily", "General")

	base := news.Profile{Interests: []string{"gardening"}}
	extended := news.Profile{Interests: []string{"gardening", "zebra"}}

	if diff := f.Score(it, extended) - f.Score(it, base); diff != 4 {
		t.Fatalf("score difference = %d, want 4", diff)
	}
}

func TestTechnologyHeadlineScoresSeven(t *testing.T) {
	f := New(taxonomy.Default())
	it := item("Tech Giant Unveils Revolutionary AI System", "", "Wired", "Technology")
	it.Content = "A leading technology company has announced a new artificial intelligence system."

	res := f.Filter([]news.Categorized{it}, news.Profile{Name: "Reader", Interests: []string{"AI"}})
	if res.Tier != TierMatched || len(res.Items) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := res.Items[0].RelevanceScore; got != 7 {
		t.Fatalf("score = %d, want 7", got)
	}
}

func TestFilterOrdersStablyAndTruncates(t *testing.T) {
	f := New(taxonomy.Default())
	var items []news.Categorized
	for i := 0; i < 20; i++ {
		items = append(items, item(fmt.Sprintf("story %02d", i), "", "Bloomberg", "General"))
	}
	// one stronger item in the middle
	items[10].Title = "markets story"

	res := f.Filter(items, news.Profile{Interests: []string{"markets"}, Sources: []string{"Bloomberg"}})
	if res.Tier != TierMatched {
		t.Fatalf("tier = %s", res.Tier)
	}
	if len(res.Items) != DefaultMaxResults {
		t.Fatalf("len = %d, want %d", len(res.Items), DefaultMaxResults)
	}
	if res.Items[0].Title != "markets story" || res.Items[0].RelevanceScore != 6 {
		t.Fatalf("expected strongest item first, got %q (%d)", res.Items[0].Title, res.Items[0].RelevanceScore)
	}
	// remaining ties keep retrieval order
	if res.Items[1].Title != "story 00" || res.Items[2].Title != "story 01" {
		t.Errorf("ties reordered: %q, %q", res.Items[1].Title, res.Items[2].Title)
	}
}

func TestNoCrossReaderContamination(t *testing.T) {
	f := New(taxonomy.Default())
	shared := []news.Categorized{
		item("AI chip shortage", "", "TechCrunch", "Technology"),
		item("Football final tonight", "", "ESPN", "Sports"),
	}
	snapshot := make([]news.Categorized, len(shared))
	for i := range shared {
		snapshot[i] = shared[i].Clone()
	}

	alex := news.Profile{Name: "A", Interests: []string{"AI"}, Sources: []string{"TechCrunch"}}
	marco := news.Profile{Name: "B", Interests: []string{"Football"}, Sources: []string{"ESPN"}}

	bAlone := f.Filter(shared, marco)
	a := f.Filter(shared, alex)
	b := f.Filter(shared, marco)

	if len(b.Items) != len(bAlone.Items) {
		t.Fatalf("B result changed after running A: %d vs %d", len(b.Items), len(bAlone.Items))
	}
	for i := range b.Items {
		if b.Items[i].Title != bAlone.Items[i].Title || b.Items[i].RelevanceScore != bAlone.Items[i].RelevanceScore {
			t.Errorf("B item %d differs: %+v vs %+v", i, b.Items[i], bAlone.Items[i])
		}
	}

	// mutating a result must not leak into the shared set or another result
	a.Items[0].Categories[0] = "Hacked"
	a.Items[0].RelevanceScore = 999
	for i := range shared {
		if shared[i].Categories[0] != snapshot[i].Categories[0] {
			t.Fatalf("shared item %d mutated: %v", i, shared[i].Categories)
		}
	}
	again := f.Filter(shared, alex)
	if again.Items[0].RelevanceScore == 999 || again.Items[0].Categories[0] == "Hacked" {
		t.Fatal("previous result leaked into a new run")
	}
}

func TestBroadEntertainmentTier(t *testing.T) {
	f := New(taxonomy.Default())
	items := []news.Categorized{
		item("Council meets on budget", "Routine session.", "Gazette", "Local"),
		item("Broadway revival opens downtown", "Tickets go on sale Friday.", "Gazette", "Local"),
	}

	res := f.Filter(items, news.Profile{Name: "Lisa", Interests: []string{"Movies"}})
	if res.Tier != TierEntertainment {
		t.Fatalf("tier = %s, want %s", res.Tier, TierEntertainment)
	}
	if len(res.Items) != 1 || res.Items[0].RelevanceScore != 1 {
		t.Fatalf("unexpected items %+v", res.Items)
	}
	if res.Items[0].Title != "Broadway revival opens downtown" {
		t.Errorf("unexpected item %q", res.Items[0].Title)
	}
}

func TestSampleTierMostRecent(t *testing.T) {
	f := New(taxonomy.Default(), WithSampleSize(3))
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var items []news.Categorized
	for i := 0; i < 6; i++ {
		it := item(fmt.Sprintf("notice %d", i), "", "", "General")
		it.Published = base.Add(time.Duration(i) * time.Hour)
		items = append(items, it)
	}

	res := f.Filter(items, news.Profile{Name: "Nobody", Interests: []string{"zzz"}})
	if res.Tier != TierSample {
		t.Fatalf("tier = %s", res.Tier)
	}
	want := []string{"notice 5", "notice 4", "notice 3"}
	if len(res.Items) != len(want) {
		t.Fatalf("len = %d", len(res.Items))
	}
	for i, w := range want {
		if res.Items[i].Title != w {
			t.Errorf("item %d = %q, want %q", i, res.Items[i].Title, w)
		}
		if res.Items[i].RelevanceScore != 0 {
			t.Errorf("sample items must be unscored")
		}
	}
}

func TestSampleTierSeededIsReproducible(t *testing.T) {
	var items []news.Categorized
	for i := 0; i < 30; i++ {
		items = append(items, item(fmt.Sprintf("notice %d", i), "", "", "General"))
	}
	p := news.Profile{Interests: []string{"zzz"}}

	a := New(nil, WithRand(rand.New(rand.NewSource(42)))).Filter(items, p)
	b := New(nil, WithRand(rand.New(rand.NewSource(42)))).Filter(items, p)
	if len(a.Items) != DefaultSampleSize || len(b.Items) != DefaultSampleSize {
		t.Fatalf("expected %d sampled items, got %d and %d", DefaultSampleSize, len(a.Items), len(b.Items))
	}
	for i := range a.Items {
		if a.Items[i].Title != b.Items[i].Title {
			t.Fatalf("same seed produced different samples at %d", i)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	res := New(taxonomy.Default()).Filter(nil, news.Profile{Interests: []string{"Movies"}})
	if res.Tier != TierNone || !res.Empty() {
		t.Fatalf("expected empty none-tier result, got %+v", res)
	}
}
