// Package locations is the built-in list of Indian states and the cities the
// location pickers offer.
package locations

import (
	"sort"
	"strings"
)

type State struct {
	Name string `json:"name"`
}

type City struct {
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Label is the "City, State" form used by the pickers and the explore API.
func (c City) Label() string {
	return c.Name + ", " + c.State
}

var states = []State{
	{Name: "Andhra Pradesh"},
	{Name: "Arunachal Pradesh"},
	{Name: "Assam"},
	{Name: "Bihar"},
	{Name: "Chhattisgarh"},
	{Name: "Goa"},
	{Name: "Gujarat"},
	{Name: "Haryana"},
	{Name: "Himachal Pradesh"},
	{Name: "Jharkhand"},
	{Name: "Karnataka"},
	{Name: "Kerala"},
	{Name: "Madhya Pradesh"},
	{Name: "Maharashtra"},
	{Name: "Manipur"},
	{Name: "Meghalaya"},
	{Name: "Mizoram"},
	{Name: "Nagaland"},
	{Name: "Odisha"},
	{Name: "Punjab"},
	{Name: "Rajasthan"},
	{Name: "Sikkim"},
	{Name: "Tamil Nadu"},
	{Name: "Telangana"},
	{Name: "Tripura"},
	{Name: "Uttar Pradesh"},
	{Name: "Uttarakhand"},
	{Name: "West Bengal"},
	{Name: "Andaman and Nicobar Islands"},
	{Name: "Chandigarh"},
	{Name: "Dadra and Nagar Haveli and Daman and Diu"},
	{Name: "Delhi"},
	{Name: "Jammu and Kashmir"},
	{Name: "Ladakh"},
	{Name: "Lakshadweep"},
	{Name: "Puducherry"},
}

var cities = []City{
	{Name: "Visakhapatnam", State: "Andhra Pradesh", Latitude: 17.6868, Longitude: 83.2185},
	{Name: "Vijayawada", State: "Andhra Pradesh", Latitude: 16.5062, Longitude: 80.6480},
	{Name: "Tirupati", State: "Andhra Pradesh", Latitude: 13.6288, Longitude: 79.4192},
	{Name: "Itanagar", State: "Arunachal Pradesh", Latitude: 27.0844, Longitude: 93.6053},
	{Name: "Tawang", State: "Arunachal Pradesh", Latitude: 27.5861, Longitude: 91.8594},
	{Name: "Guwahati", State: "Assam", Latitude: 26.1445, Longitude: 91.7362},
	{Name: "Dibrugarh", State: "Assam", Latitude: 27.4728, Longitude: 94.9120},
	{Name: "Patna", State: "Bihar", Latitude: 25.5941, Longitude: 85.1376},
	{Name: "Gaya", State: "Bihar", Latitude: 24.7914, Longitude: 85.0002},
	{Name: "Raipur", State: "Chhattisgarh", Latitude: 21.2514, Longitude: 81.6296},
	{Name: "Panaji", State: "Goa", Latitude: 15.4909, Longitude: 73.8278},
	{Name: "Margao", State: "Goa", Latitude: 15.2832, Longitude: 73.9862},
	{Name: "Ahmedabad", State: "Gujarat", Latitude: 23.0225, Longitude: 72.5714},
	{Name: "Surat", State: "Gujarat", Latitude: 21.1702, Longitude: 72.8311},
	{Name: "Vadodara", State: "Gujarat", Latitude: 22.3072, Longitude: 73.1812},
	{Name: "Gurugram", State: "Haryana", Latitude: 28.4595, Longitude: 77.0266},
	{Name: "Faridabad", State: "Haryana", Latitude: 28.4089, Longitude: 77.3178},
	{Name: "Shimla", State: "Himachal Pradesh", Latitude: 31.1048, Longitude: 77.1734},
	{Name: "Manali", State: "Himachal Pradesh", Latitude: 32.2432, Longitude: 77.1892},
	{Name: "Ranchi", State: "Jharkhand", Latitude: 23.3441, Longitude: 85.3096},
	{Name: "Jamshedpur", State: "Jharkhand", Latitude: 22.8046, Longitude: 86.2029},
	{Name: "Bengaluru", State: "Karnataka", Latitude: 12.9716, Longitude: 77.5946},
	{Name: "Mysuru", State: "Karnataka", Latitude: 12.2958, Longitude: 76.6394},
	{Name: "Mangaluru", State: "Karnataka", Latitude: 12.9141, Longitude: 74.8560},
	{Name: "Kochi", State: "Kerala", Latitude: 9.9312, Longitude: 76.2673},
	{Name: "Thiruvananthapuram", State: "Kerala", Latitude: 8.5241, Longitude: 76.9366},
	{Name: "Kozhikode", State: "Kerala", Latitude: 11.2588, Longitude: 75.7804},
	{Name: "Indore", State: "Madhya Pradesh", Latitude: 22.7196, Longitude: 75.8577},
	{Name: "Bhopal", State: "Madhya Pradesh", Latitude: 23.2599, Longitude: 77.4126},
	{Name: "Mumbai", State: "Maharashtra", Latitude: 19.0760, Longitude: 72.8777},
	{Name: "Pune", State: "Maharashtra", Latitude: 18.5204, Longitude: 73.8567},
	{Name: "Nagpur", State: "Maharashtra", Latitude: 21.1458, Longitude: 79.0882},
	{Name: "New Delhi", State: "Delhi", Latitude: 28.6139, Longitude: 77.2090},
	{Name: "Jaipur", State: "Rajasthan", Latitude: 26.9124, Longitude: 75.7873},
	{Name: "Udaipur", State: "Rajasthan", Latitude: 24.5854, Longitude: 73.7125},
	{Name: "Jodhpur", State: "Rajasthan", Latitude: 26.2389, Longitude: 73.0243},
	{Name: "Chennai", State: "Tamil Nadu", Latitude: 13.0827, Longitude: 80.2707},
	{Name: "Coimbatore", State: "Tamil Nadu", Latitude: 11.0168, Longitude: 76.9558},
	{Name: "Madurai", State: "Tamil Nadu", Latitude: 9.9252, Longitude: 78.1198},
	{Name: "Lucknow", State: "Uttar Pradesh", Latitude: 26.8467, Longitude: 80.9462},
	{Name: "Agra", State: "Uttar Pradesh", Latitude: 27.1767, Longitude: 78.0081},
	{Name: "Varanasi", State: "Uttar Pradesh", Latitude: 25.3176, Longitude: 82.9739},
	{Name: "Kolkata", State: "West Bengal", Latitude: 22.5726, Longitude: 88.3639},
	{Name: "Darjeeling", State: "West Bengal", Latitude: 27.0360, Longitude: 88.2627},
}

// States returns all states and union territories.
func States() []State {
	out := make([]State, len(states))
	copy(out, states)
	return out
}

// Cities returns the cities of state, or every city when state is empty.
// Results are sorted by name.
func Cities(state string) []City {
	out := make([]City, 0, len(cities))
	for _, c := range cities {
		if state == "" || strings.EqualFold(c.State, strings.TrimSpace(state)) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup resolves "City, State" or a bare city name, ignoring case.
func Lookup(location string) (City, bool) {
	location = strings.TrimSpace(location)
	if location == "" {
		return City{}, false
	}

	name, state, hasState := strings.Cut(location, ",")
	name = strings.TrimSpace(name)
	state = strings.TrimSpace(state)

	for _, c := range cities {
		if !strings.EqualFold(c.Name, name) {
			continue
		}
		if hasState && !strings.EqualFold(c.State, state) {
			continue
		}
		return c, true
	}
	return City{}, false
}
