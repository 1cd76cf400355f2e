package profiles

import "github.com/deusflow/digest/internal/news"

// Personas are the built-in reader profiles.
func Personas() []news.Profile {
	return []news.Profile{
		{
			Name:      "Alex Parker",
			Age:       28,
			Location:  "USA",
			Interests: []string{"AI", "Cybersecurity", "Blockchain", "Startups", "Programming"},
			Sources:   []string{"TechCrunch", "Wired Tech", "Ars Technica", "MIT Tech Review"},
		},
		{
			Name:      "Priya Sharma",
			Age:       35,
			Location:  "India",
			Interests: []string{"Global markets", "Startups", "Fintech", "Cryptocurrency", "Economics"},
			Sources:   []string{"Bloomberg", "Financial Times", "Forbes", "CoinDesk"},
		},
		{
			Name:      "Marco Rossi",
			Age:       30,
			Location:  "Italy",
			Interests: []string{"Football", "F1", "NBA", "Olympic sports", "Esports"},
			Sources:   []string{"ESPN", "BBC Sport", "Sky Sports F1", "The Athletic"},
		},
		{
			Name:      "Lisa Thompson",
			Age:       24,
			Location:  "UK",
			Interests: []string{"Movies", "Celebrity news", "TV shows", "Music", "Books"},
			Sources:   []string{"Variety", "Rolling Stone", "Billboard", "Hollywood Reporter"},
		},
		{
			Name:      "David Martinez",
			Age:       40,
			Location:  "Spain",
			Interests: []string{"Space exploration", "AI", "Biotech", "Physics", "Renewable energy"},
			Sources:   []string{"NASA", "Science Daily", "Nature", "Ars Technica Science"},
		},
	}
}

// Default returns a registry of the built-in personas.
func Default() *Registry {
	r, err := New(Personas())
	if err != nil {
		panic(err)
	}
	return r
}
