package models

// AccommodationKind distinguishes hotels from pilgrim guesthouses.
type AccommodationKind string

const (
	AccommodationHotel       AccommodationKind = "hotel"
	AccommodationDharamshala AccommodationKind = "dharamshala"
)

func IsValidAccommodationKind(kind AccommodationKind) bool {
	switch kind {
	case AccommodationHotel, AccommodationDharamshala:
		return true
	default:
		return false
	}
}

type Accommodation struct {
	Name      string            `json:"name"`
	Kind      AccommodationKind `json:"kind"`
	Location  string            `json:"location"`
	Rating    float64           `json:"rating"`
	Amenities []string          `json:"amenities"`
	Price     string            `json:"price"`
	Image     string            `json:"img"`
	ImageHint string            `json:"imgHint"`
}

type BusRoute struct {
	Operator string `json:"operator"`
	From     string `json:"from"`
	To       string `json:"to"`
	Type     string `json:"type"`
	Price    string `json:"price"`
}

type TrainRoute struct {
	Name  string `json:"name"`
	From  string `json:"from"`
	To    string `json:"to"`
	Class string `json:"class"`
	Price string `json:"price"`
}

type CabService struct {
	Name       string `json:"name"`
	Location   string `json:"location"`
	Contact    string `json:"contact"`
	IsVerified bool   `json:"isVerified"`
	Price      string `json:"price"`
}

// CatalogFilter narrows catalog listings. Empty fields match everything.
type CatalogFilter struct {
	Kind         AccommodationKind
	Location     string
	From         string
	To           string
	VerifiedOnly bool
}

// TransportService names what a booking reserves.
type TransportService string

const (
	TransportCab   TransportService = "cab"
	TransportBus   TransportService = "bus"
	TransportTrain TransportService = "train"
)

func IsValidTransportService(service TransportService) bool {
	switch service {
	case TransportCab, TransportBus, TransportTrain:
		return true
	default:
		return false
	}
}

// BookingRequest asks for a seat or ride described by Details, e.g.
// "RedBus: Delhi to Jaipur".
type BookingRequest struct {
	Service TransportService `json:"service"`
	Details string           `json:"details"`
}

const BookingStatusConfirmed = "confirmed"

type Booking struct {
	BookingID string           `json:"bookingId"`
	Service   TransportService `json:"service"`
	Status    string           `json:"status"`
	Message   string           `json:"message"`
}
