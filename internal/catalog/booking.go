package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/textutil"
)

const maxBookingDetails = 200

// Book confirms a transport booking. No operator is contacted; every valid
// request is confirmed immediately. Booking ids are "BK-" followed by the
// issue time in milliseconds, bumped when two bookings share a millisecond.
func (s *Service) Book(req models.BookingRequest) (*models.Booking, error) {
	if !models.IsValidTransportService(req.Service) {
		return nil, &models.ValidationError{Field: "service", Message: "must be cab, bus or train"}
	}
	details := strings.TrimSpace(textutil.StripHTML(req.Details))
	if details == "" {
		return nil, &models.ValidationError{Field: "details", Message: "is required"}
	}
	if utf8.RuneCountInString(details) > maxBookingDetails {
		return nil, &models.ValidationError{Field: "details", Message: fmt.Sprintf("must be at most %d characters", maxBookingDetails)}
	}

	id := "BK-" + strconv.FormatInt(s.nextBookingMillis(), 10)
	booking := &models.Booking{
		BookingID: id,
		Service:   req.Service,
		Status:    models.BookingStatusConfirmed,
		Message:   fmt.Sprintf("Your booking for %q has been successfully confirmed! Your booking ID is %s.", details, id),
	}

	s.logger.Info("Transport booked", logging.WithFields(map[string]interface{}{
		"bookingId": id,
		"service":   string(req.Service),
	}))
	return booking, nil
}

func (s *Service) nextBookingMillis() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.lastBooking {
		ms = s.lastBooking + 1
	}
	s.lastBooking = ms
	return ms
}
