package taxonomy

// Default returns the built-in seven-category news taxonomy.
func Default() *Taxonomy {
	t, err := New(defaultCategories(), defaultEmoji(), DefaultIcon)
	if err != nil {
		// the built-in table is static; an error here is a programming mistake
		panic(err)
	}
	return t
}

func defaultCategories() []Category {
	return []Category{
		{Name: "Technology", Keywords: []string{
			"technology", "tech", "software", "hardware", "app", "computer", "programming",
			"ai", "artificial intelligence", "machine learning", "data", "cyber", "digital",
			"internet", "web", "mobile", "device", "smartphone", "code", "blockchain", "bitcoin",
		}},
		{Name: "Business", Keywords: []string{
			"business", "company", "corporate", "market", "economy", "finance", "stock",
			"investment", "trade", "startup", "venture", "entrepreneur", "industry",
			"retail", "revenue", "profit", "growth", "commercial", "enterprise", "consumer",
		}},
		{Name: "Politics", Keywords: []string{
			"politics", "government", "election", "vote", "political", "policy",
			"congress", "senate", "president", "law", "legislation", "court", "democrat",
			"republican", "parliament", "minister", "diplomat", "foreign", "domestic",
		}},
		{Name: "Health", Keywords: []string{
			"health", "medical", "medicine", "doctor", "disease", "patient", "treatment",
			"hospital", "drug", "virus", "vaccine", "diet", "fitness", "nutrition",
			"mental health", "wellness", "therapy", "pandemic", "covid", "healthcare",
		}},
		{Name: "Science", Keywords: []string{
			"science", "scientific", "research", "study", "discovery", "physics", "biology",
			"chemistry", "space", "earth", "climate", "environment", "energy", "nasa",
			"experiment", "laboratory", "gene", "species", "evolution", "astronomy",
		}},
		{Name: "Entertainment", Keywords: []string{
			"entertainment", "movie", "film", "cinema", "music", "celebrity", "hollywood",
			"actor", "actress", "director", "show", "television", "tv", "streaming", "concert",
			"performance", "award", "drama", "comedy", "series", "theater", "book", "novel",
			"author", "star", "song", "album", "artist", "band", "release", "singer", "netflix",
			"disney", "hbo", "amazon prime", "blockbuster", "box office", "hit", "billboard",
			"magazine", "fashion", "style", "red carpet", "premiere", "trailer", "review",
			"critic", "broadway", "musical", "festival",
		}},
		{Name: "Sports", Keywords: []string{
			"sport", "sports", "game", "match", "team", "player", "athlete", "championship",
			"tournament", "football", "soccer", "basketball", "baseball", "tennis", "golf",
			"olympics", "league", "coach", "stadium", "score", "win", "race", "racing",
		}},
	}
}

func defaultEmoji() map[string]string {
	return map[string]string{
		"Technology":    "💻",
		"Business":      "💼",
		"Politics":      "🏛️",
		"Health":        "🏥",
		"Science":       "🔬",
		"Entertainment": "🎬",
		"Sports":        "🏆",
		"Finance":       "💰",
		"Education":     "📚",
		"Travel":        "✈️",
		"General":       "📰",
	}
}
