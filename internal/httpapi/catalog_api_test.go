package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnrirwin/yatra/internal/catalog"
	"github.com/johnrirwin/yatra/internal/locations"
	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
)

func newCatalogTestMux() *http.ServeMux {
	logger := logging.New(logging.LevelError)
	mux := http.NewServeMux()
	NewCatalogAPI(catalog.NewService(logger), logger).RegisterRoutes(mux, passThrough)
	return mux
}

func getJSON(t *testing.T, mux http.Handler, path string, dst interface{}) int {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if dst != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return rec.Code
}

func TestCatalogAPI_Accommodations(t *testing.T) {
	mux := newCatalogTestMux()

	var body struct {
		Accommodations []models.Accommodation `json:"accommodations"`
		Total          int                    `json:"total"`
	}
	if code := getJSON(t, mux, "/api/accommodations?kind=dharamshala", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Total != 2 || len(body.Accommodations) != 2 {
		t.Fatalf("got %d dharamshalas, want 2", body.Total)
	}
	for _, a := range body.Accommodations {
		if a.Kind != models.AccommodationDharamshala {
			t.Errorf("unexpected kind %q for %s", a.Kind, a.Name)
		}
	}

	if code := getJSON(t, mux, "/api/accommodations?location=jaisalmer", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Total != 1 || body.Accommodations[0].Name != "Desert Mirage Resort" {
		t.Errorf("location filter returned %+v", body.Accommodations)
	}

	if code := getJSON(t, mux, "/api/accommodations?kind=castle", nil); code != http.StatusBadRequest {
		t.Errorf("unknown kind status = %d, want 400", code)
	}
}

func TestCatalogAPI_Transport(t *testing.T) {
	mux := newCatalogTestMux()

	var trains struct {
		Trains []models.TrainRoute `json:"trains"`
	}
	if code := getJSON(t, mux, "/api/transport/trains?to=delhi", &trains); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(trains.Trains) != 1 || trains.Trains[0].Name != "Rajdhani Express" {
		t.Errorf("trains to delhi = %+v", trains.Trains)
	}

	var buses struct {
		Buses []models.BusRoute `json:"buses"`
	}
	if code := getJSON(t, mux, "/api/transport/buses", &buses); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(buses.Buses) != 2 {
		t.Errorf("got %d buses, want 2", len(buses.Buses))
	}

	var cabs struct {
		Cabs []models.CabService `json:"cabs"`
	}
	if code := getJSON(t, mux, "/api/transport/cabs?verified=true", &cabs); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(cabs.Cabs) != 3 {
		t.Errorf("got %d verified cabs, want 3", len(cabs.Cabs))
	}

	if code := getJSON(t, mux, "/api/transport/cabs?verified=maybe", nil); code != http.StatusBadRequest {
		t.Errorf("bad verified flag status = %d, want 400", code)
	}
}

func TestCatalogAPI_Locations(t *testing.T) {
	mux := newCatalogTestMux()

	var states struct {
		States []locations.State `json:"states"`
	}
	if code := getJSON(t, mux, "/api/locations/states", &states); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(states.States) != len(locations.States()) {
		t.Errorf("got %d states", len(states.States))
	}

	var cities struct {
		Cities []locations.City `json:"cities"`
		Labels []string         `json:"labels"`
	}
	if code := getJSON(t, mux, "/api/locations/cities?state=rajasthan", &cities); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(cities.Cities) == 0 || len(cities.Labels) != len(cities.Cities) {
		t.Fatalf("unexpected cities response: %+v", cities)
	}
	for _, label := range cities.Labels {
		if _, ok := locations.Lookup(label); !ok {
			t.Errorf("label %q does not resolve", label)
		}
	}
}

func TestCatalogAPI_MethodNotAllowed(t *testing.T) {
	mux := newCatalogTestMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/accommodations", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestCatalogAPI_Book(t *testing.T) {
	mux := newCatalogTestMux()

	rec := doJSON(mux, http.MethodPost, "/api/transport/book", `{"service":"train","details":"Rajdhani Express: Mumbai to Delhi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var booking models.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &booking); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(booking.BookingID, "BK-") || booking.Status != "confirmed" || booking.Message == "" {
		t.Errorf("unexpected booking: %+v", booking)
	}

	for _, body := range []string{
		`{"service":"flight","details":"IndiGo"}`,
		`{"service":"cab","details":""}`,
		`{"service":`,
	} {
		rec := doJSON(mux, http.MethodPost, "/api/transport/book", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}

	rec = doJSON(mux, http.MethodGet, "/api/transport/book", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}
}
