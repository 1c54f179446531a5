package tagging

import (
	"sort"
	"strings"
	"sync"
)

// Tagger infers travel tags for a place from keyword rules.
type Tagger struct {
	mu    sync.RWMutex
	rules map[string][]string
}

func New() *Tagger {
	return &Tagger{
		rules: map[string][]string{
			"Heritage":     {"fort", "palace", "mahal", "haveli", "monument", "heritage", "tomb", "stepwell", "minar", "ruins"},
			"Spiritual":    {"temple", "mandir", "mosque", "masjid", "gurudwara", "gurdwara", "church", "ghat", "ashram", "monastery", "dargah", "math"},
			"Nature":       {"park", "garden", "lake", "waterfall", "falls", "valley", "forest", "hill", "viewpoint"},
			"Beach":        {"beach", "coast", "seashore", "bay"},
			"Hill Station": {"hill station", "manali", "shimla", "darjeeling", "ooty", "munnar", "mussoorie"},
			"Food":         {"restaurant", "cafe", "dhaba", "food", "bakery", "sweet", "street food", "thali"},
			"Shopping":     {"market", "bazaar", "mall", "shopping", "emporium"},
			"Adventure":    {"trek", "rafting", "paragliding", "camp", "safari", "skiing", "adventure"},
			"Museum":       {"museum", "gallery", "memorial", "planetarium"},
			"Wildlife":     {"wildlife", "national park", "sanctuary", "zoo", "tiger reserve", "bird"},
		},
	}
}

// InferTags returns the matching tags in sorted order.
func (t *Tagger) InferTags(title, kind string) []string {
	combined := strings.ToLower(title + " " + kind)

	t.mu.RLock()
	defer t.mu.RUnlock()

	tags := make(map[string]bool)
	for tag, keywords := range t.rules {
		for _, keyword := range keywords {
			if containsWord(combined, keyword) {
				tags[tag] = true
				break
			}
		}
	}

	result := make([]string, 0, len(tags))
	for tag := range tags {
		result = append(result, tag)
	}
	sort.Strings(result)
	return result
}

func (t *Tagger) AddRule(tag string, keywords []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules[tag] = keywords
}

func (t *Tagger) RemoveRule(tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rules, tag)
}

func (t *Tagger) GetRules() map[string][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rules := make(map[string][]string)
	for k, v := range t.rules {
		rules[k] = v
	}
	return rules
}

// containsWord matches keyword at word boundaries so "math" does not tag
// "mathematics" and "bay" does not tag "ebay".
func containsWord(text, keyword string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], keyword)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(keyword)
		if (idx == 0 || !isWordByte(text[idx-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
