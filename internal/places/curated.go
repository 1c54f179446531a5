package places

import (
	"context"
	"strings"

	"github.com/johnrirwin/yatra/internal/locations"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/tagging"
	"github.com/johnrirwin/yatra/internal/textutil"
)

const curatedName = "curated"

type curatedPlace struct {
	city    string
	title   string
	kind    string
	address string
	rating  float64
	reviews int
	lat     float64
	lng     float64
}

var curatedPlaces = []curatedPlace{
	{city: "New Delhi", title: "Red Fort", kind: "Historical landmark", address: "Netaji Subhash Marg, Chandni Chowk, New Delhi", rating: 4.5, reviews: 180000, lat: 28.6562, lng: 77.2410},
	{city: "New Delhi", title: "Qutub Minar", kind: "Historical landmark", address: "Mehrauli, New Delhi", rating: 4.5, reviews: 150000, lat: 28.5245, lng: 77.1855},
	{city: "New Delhi", title: "National Museum", kind: "Museum", address: "Janpath, New Delhi", rating: 4.5, reviews: 25000, lat: 28.6119, lng: 77.2193},
	{city: "New Delhi", title: "Humayun's Tomb", kind: "Historical landmark", address: "Nizamuddin, New Delhi", rating: 4.6, reviews: 95000, lat: 28.5933, lng: 77.2507},
	{city: "New Delhi", title: "Chandni Chowk Market", kind: "Market", address: "Chandni Chowk, New Delhi", rating: 4.3, reviews: 60000, lat: 28.6506, lng: 77.2303},
	{city: "Agra", title: "Taj Mahal", kind: "Historical landmark", address: "Dharmapuri, Agra", rating: 4.6, reviews: 250000, lat: 27.1751, lng: 78.0421},
	{city: "Agra", title: "Agra Fort", kind: "Fort", address: "Rakabganj, Agra", rating: 4.5, reviews: 80000, lat: 27.1795, lng: 78.0211},
	{city: "Jaipur", title: "Hawa Mahal", kind: "Historical landmark", address: "Badi Choupad, Jaipur", rating: 4.4, reviews: 120000, lat: 26.9239, lng: 75.8267},
	{city: "Jaipur", title: "Amber Fort", kind: "Fort", address: "Devisinghpura, Amer, Jaipur", rating: 4.6, reviews: 110000, lat: 26.9855, lng: 75.8513},
	{city: "Jaipur", title: "Johari Bazaar", kind: "Market", address: "Johari Bazar Road, Jaipur", rating: 4.3, reviews: 20000, lat: 26.9206, lng: 75.8262},
	{city: "Udaipur", title: "City Palace", kind: "Palace", address: "Old City, Udaipur", rating: 4.6, reviews: 70000, lat: 24.5764, lng: 73.6835},
	{city: "Udaipur", title: "Lake Pichola", kind: "Lake", address: "Udaipur", rating: 4.6, reviews: 50000, lat: 24.5720, lng: 73.6794},
	{city: "Jodhpur", title: "Mehrangarh Fort", kind: "Fort", address: "Fort Road, Jodhpur", rating: 4.7, reviews: 75000, lat: 26.2978, lng: 73.0185},
	{city: "Varanasi", title: "Dashashwamedh Ghat", kind: "Ghat", address: "Dashashwamedh, Varanasi", rating: 4.7, reviews: 60000, lat: 25.3069, lng: 83.0104},
	{city: "Varanasi", title: "Kashi Vishwanath Temple", kind: "Hindu temple", address: "Lahori Tola, Varanasi", rating: 4.7, reviews: 90000, lat: 25.3109, lng: 83.0107},
	{city: "Mumbai", title: "Gateway of India", kind: "Historical landmark", address: "Apollo Bandar, Colaba, Mumbai", rating: 4.6, reviews: 200000, lat: 18.9220, lng: 72.8347},
	{city: "Mumbai", title: "Marine Drive", kind: "Promenade", address: "Netaji Subhash Chandra Bose Road, Mumbai", rating: 4.7, reviews: 130000, lat: 18.9440, lng: 72.8230},
	{city: "Mumbai", title: "Chhatrapati Shivaji Maharaj Vastu Sangrahalaya", kind: "Museum", address: "Fort, Mumbai", rating: 4.6, reviews: 30000, lat: 18.9269, lng: 72.8326},
	{city: "Kolkata", title: "Victoria Memorial", kind: "Museum", address: "Maidan, Kolkata", rating: 4.6, reviews: 150000, lat: 22.5448, lng: 88.3426},
	{city: "Kolkata", title: "Dakshineswar Kali Temple", kind: "Hindu temple", address: "Dakshineswar, Kolkata", rating: 4.7, reviews: 80000, lat: 22.6548, lng: 88.3575},
	{city: "Chennai", title: "Marina Beach", kind: "Beach", address: "Marina Beach Road, Chennai", rating: 4.4, reviews: 140000, lat: 13.0500, lng: 80.2824},
	{city: "Chennai", title: "Kapaleeshwarar Temple", kind: "Hindu temple", address: "Mylapore, Chennai", rating: 4.7, reviews: 40000, lat: 13.0339, lng: 80.2698},
	{city: "Madurai", title: "Meenakshi Amman Temple", kind: "Hindu temple", address: "Madurai Main, Madurai", rating: 4.8, reviews: 110000, lat: 9.9195, lng: 78.1193},
	{city: "Bengaluru", title: "Lalbagh Botanical Garden", kind: "Garden", address: "Mavalli, Bengaluru", rating: 4.5, reviews: 100000, lat: 12.9507, lng: 77.5848},
	{city: "Mysuru", title: "Mysore Palace", kind: "Palace", address: "Sayyaji Rao Road, Mysuru", rating: 4.7, reviews: 140000, lat: 12.3052, lng: 76.6552},
	{city: "Kochi", title: "Fort Kochi Beach", kind: "Beach", address: "Fort Kochi, Kochi", rating: 4.3, reviews: 25000, lat: 9.9658, lng: 76.2421},
	{city: "Panaji", title: "Miramar Beach", kind: "Beach", address: "Miramar, Panaji", rating: 4.3, reviews: 30000, lat: 15.4829, lng: 73.8073},
	{city: "Manali", title: "Solang Valley", kind: "Valley", address: "Solang, Manali", rating: 4.5, reviews: 45000, lat: 32.3166, lng: 77.1573},
	{city: "Manali", title: "Hadimba Devi Temple", kind: "Hindu temple", address: "Old Manali, Manali", rating: 4.6, reviews: 35000, lat: 32.2480, lng: 77.1806},
	{city: "Shimla", title: "The Ridge", kind: "Viewpoint", address: "The Mall, Shimla", rating: 4.5, reviews: 40000, lat: 31.1041, lng: 77.1749},
	{city: "Darjeeling", title: "Tiger Hill", kind: "Viewpoint", address: "Tiger Hill, Darjeeling", rating: 4.5, reviews: 25000, lat: 26.9963, lng: 88.2778},
	{city: "Amritsar", title: "Golden Temple", kind: "Gurudwara", address: "Golden Temple Road, Amritsar", rating: 4.9, reviews: 250000, lat: 31.6200, lng: 74.8765},
	{city: "Hyderabad", title: "Charminar", kind: "Historical landmark", address: "Char Kaman, Ghansi Bazaar, Hyderabad", rating: 4.5, reviews: 200000, lat: 17.3616, lng: 78.4747},
}

// CuratedProvider answers from a built-in list of well-known attractions. It
// keeps explore useful when the search API is unavailable or unconfigured.
type CuratedProvider struct {
	tagger *tagging.Tagger
}

func NewCuratedProvider(tagger *tagging.Tagger) *CuratedProvider {
	if tagger == nil {
		tagger = tagging.New()
	}
	return &CuratedProvider{tagger: tagger}
}

func (p *CuratedProvider) SourceInfo() models.SourceInfo {
	return models.SourceInfo{
		Name:        curatedName,
		Description: "Hand-picked attractions across India",
		Enabled:     true,
	}
}

// Search returns attractions in the requested city whose title, type or tags
// match any query term.
func (p *CuratedProvider) Search(ctx context.Context, q models.PlaceQuery) ([]models.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	city := strings.TrimSpace(q.Location)
	if c, ok := locations.Lookup(q.Location); ok {
		city = c.Name
	} else if name, _, found := strings.Cut(city, ","); found {
		city = strings.TrimSpace(name)
	}
	terms := queryTerms(q.Query)

	places := make([]models.Place, 0)
	for _, cp := range curatedPlaces {
		if !strings.EqualFold(cp.city, city) {
			continue
		}
		tags := p.tagger.InferTags(cp.title, cp.kind)
		if !matchesTerms(terms, cp, tags) {
			continue
		}
		places = append(places, models.Place{
			Position:       len(places) + 1,
			Title:          cp.title,
			Address:        cp.address,
			Rating:         cp.rating,
			Reviews:        cp.reviews,
			Type:           cp.kind,
			GPSCoordinates: &models.GPSCoordinates{Latitude: cp.lat, Longitude: cp.lng},
			Tags:           tags,
			Source:         curatedName,
		})
	}
	return places, nil
}

func queryTerms(query string) []string {
	fields := strings.Fields(textutil.Fold(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 3 {
			f = strings.TrimSuffix(f, "s")
		}
		if len(f) >= 2 {
			terms = append(terms, f)
		}
	}
	return terms
}

func matchesTerms(terms []string, cp curatedPlace, tags []string) bool {
	haystack := textutil.Fold(cp.title + " " + cp.kind + " " + strings.Join(tags, " "))
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}
