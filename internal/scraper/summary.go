package scraper

import (
	"sort"
	"strings"

	"github.com/deusflow/digest/internal/textutil"
)

// DefaultSummarySentences is how many sentences the extractive summary keeps.
const DefaultSummarySentences = 5

const topKeywords = 10

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above after again against all am an and any are as at be because
		been before being below between both but by can could did do does doing down during each few for from
		further had has have having he her here hers herself him himself his how i if in into is it its itself
		just me more most my myself no nor not now of off on once only or other our ours out over own said same
		she should so some such than that the their theirs them themselves then there these they this those
		through to too under until up very was we were what when where which while who whom why will with would
		you your yours also new one two says told like`) {
		stopWords[w] = struct{}{}
	}
}

// Summarize returns up to n sentences of text, chosen by keyword frequency
// and title overlap, in their original order.
func Summarize(text, title string, splitter textutil.Splitter, n int) string {
	sentences := splitter.Split(text)
	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) <= n {
		return strings.Join(sentences, " ")
	}

	keywords := keywordFrequencies(text)
	titleWords := wordSet(title)

	type ranked struct {
		index int
		score float64
	}
	scores := make([]ranked, len(sentences))
	for i, s := range sentences {
		words := strings.Fields(textutil.Normalize(s))
		if len(words) == 0 {
			scores[i] = ranked{index: i}
			continue
		}
		var kw, tw float64
		for _, w := range words {
			kw += keywords[w]
			if _, ok := titleWords[w]; ok {
				tw++
			}
		}
		// earlier sentences carry the lede
		position := 1.0 - float64(i)/float64(len(sentences))
		scores[i] = ranked{index: i, score: kw/float64(len(words)) + tw/float64(len(words)) + 0.2*position}
	}

	sort.SliceStable(scores, func(a, b int) bool { return scores[a].score > scores[b].score })
	picked := scores[:n]
	sort.Slice(picked, func(a, b int) bool { return picked[a].index < picked[b].index })

	out := make([]string, 0, n)
	for _, r := range picked {
		out = append(out, sentences[r.index])
	}
	return strings.Join(out, " ")
}

// keywordFrequencies returns the relative frequency of the most common
// non-stop words in text.
func keywordFrequencies(text string) map[string]float64 {
	counts := make(map[string]int)
	for _, w := range strings.Fields(textutil.Normalize(text)) {
		if _, stop := stopWords[w]; stop || len(w) < 3 {
			continue
		}
		counts[w]++
	}

	type wc struct {
		word  string
		count int
	}
	all := make([]wc, 0, len(counts))
	for w, c := range counts {
		all = append(all, wc{w, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].word < all[j].word
	})
	if len(all) > topKeywords {
		all = all[:topKeywords]
	}

	out := make(map[string]float64, len(all))
	if len(all) == 0 {
		return out
	}
	top := float64(all[0].count)
	for _, e := range all {
		out[e.word] = float64(e.count) / top
	}
	return out
}

func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(textutil.Normalize(s)) {
		if _, stop := stopWords[w]; !stop {
			out[w] = struct{}{}
		}
	}
	return out
}
