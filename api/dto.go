/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures the dashboard front end consumes. Records
  themselves travel as their derived views (hostel.*View); this file only
  holds the envelope and the request/response types of the non-CRUD
  endpoints.

ENVELOPE:
  Every response is wrapped the same way the backend wraps its own:

    {"success": true,  "data": ...}
    {"success": true,  "data": {"data": [...], "pagination": {...}}}
    {"success": false, "message": "...", "errors": {"field": "msg"}}

  Derived-field warnings (unknown enum keys, inverted timestamps) travel
  inside each view's "warnings" list; the record is still returned.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - hostel/derive.go: View types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/student-hotel/generic"
	"github.com/warp/student-hotel/hostel"
)

// =============================================================================
// ENVELOPE
// =============================================================================

// Response is the envelope of every API response.
type Response struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  generic.FieldErrors `json:"errors,omitempty"`
}

// PageDTO is the data of a list response.
type PageDTO[V any] struct {
	Data       []V                `json:"data"`
	Pagination generic.Pagination `json:"pagination"`
}

// ValidationDTO is returned by the validate-only endpoints.
type ValidationDTO struct {
	Valid  bool                `json:"valid"`
	Errors generic.FieldErrors `json:"errors"`
}

// =============================================================================
// ENUMS
// =============================================================================

// EnumDTO is one enum catalogue for form dropdowns.
type EnumDTO struct {
	Name      string           `json:"name"`
	Canonical string           `json:"canonical"`
	Options   []generic.Option `json:"options"`
}

// =============================================================================
// BOOKINGS
// =============================================================================

// QuoteRequest asks for a live projection of a booking's total.
type QuoteRequest struct {
	RoomID       string        `json:"room_id"`
	BookingType  string        `json:"booking_type"`
	CheckInDate  *generic.Date `json:"check_in_date"`
	CheckOutDate *generic.Date `json:"check_out_date"`
}

// QuoteDTO is the projected total of a booking draft.
type QuoteDTO struct {
	RoomID      string          `json:"room_id"`
	BookingType string          `json:"booking_type"`
	Days        int             `json:"days"`
	Months      int             `json:"months,omitempty"`
	Rate        decimal.Decimal `json:"rate"`
	Total       decimal.Decimal `json:"total_amount"`
}

// BookingDetailDTO is a booking with its guest, room and payments.
type BookingDetailDTO struct {
	Booking  hostel.BookingView   `json:"booking"`
	User     *hostel.UserView     `json:"user,omitempty"`
	Room     *hostel.RoomView     `json:"room,omitempty"`
	Payments []hostel.PaymentView `json:"payments"`
}

// =============================================================================
// DASHBOARD
// =============================================================================

// HealthDTO reports liveness and the active backend.
type HealthDTO struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}
