/*
handlers.go - HTTP API handlers for the student-hotel dashboard

PURPOSE:
  Exposes the rules engine to the dashboard front end. Records are loaded
  through the gateways, enriched with derived fields, and drafts are
  validated before they are forwarded to the backend.

ENDPOINTS:
  Catalogue:
    GET    /api/enums                  All enum catalogues
    GET    /api/enums/{name}           One catalogue (aliases resolved)

  Records (one block per kind, see resources.go):
    GET    /api/{kind}                 List with derived fields
    POST   /api/{kind}                 Validate then create
    POST   /api/{kind}/validate        Validate only
    GET    /api/{kind}/{id}            Get with derived fields
    PUT    /api/{kind}/{id}            Validate, check transition, update
    DELETE /api/{kind}/{id}            Delete

  Bookings:
    POST   /api/bookings/quote         Live total projection
    GET    /api/bookings/{id}/detail   Booking + guest + room + payments

  Dashboard:
    GET    /api/buildings/{id}/stats   Building occupancy
    GET    /api/dashboard/summary      Landing page counters
    POST   /api/demo/reset             Reseed fixtures (demo mode only)

ERROR HANDLING:
  Errors are returned in the envelope with an HTTP status:
  - 400: Malformed request body or query
  - 404: Record or enum not found
  - 409: Operation not available in this mode
  - 422: Validation failed or illegal status transition (errors map)
  - 502: Backend unreachable, timed out or answered non-2xx
  - 500: Anything else

SECURITY NOTE:
  No authentication middleware. The backend owns authorization.

SEE ALSO:
  - resources.go: Generic CRUD handler per kind
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/warp/student-hotel/factory"
	"github.com/warp/student-hotel/gateway"
	"github.com/warp/student-hotel/generic"
	"github.com/warp/student-hotel/hostel"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Gateways  *factory.Gateways
	Registry  *generic.Registry
	Calc      *hostel.Calculator
	Validator *hostel.Validator
	Log       logrus.FieldLogger
	Now       func() time.Time
}

// NewHandler wires the handler against the default enum registry.
func NewHandler(gws *factory.Gateways, log logrus.FieldLogger) *Handler {
	reg := generic.DefaultRegistry()
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		Gateways:  gws,
		Registry:  reg,
		Calc:      hostel.NewCalculator(reg),
		Validator: hostel.NewValidator(reg),
		Log:       log,
		Now:       time.Now,
	}
}

// =============================================================================
// ENUM HANDLERS
// =============================================================================

// ListEnums returns every registered catalogue, aliases included.
func (h *Handler) ListEnums(w http.ResponseWriter, r *http.Request) {
	names := h.Registry.Names()
	dtos := make([]EnumDTO, 0, len(names))
	for _, name := range names {
		opts, err := h.Registry.Options(name)
		if err != nil {
			continue
		}
		dtos = append(dtos, EnumDTO{Name: name, Canonical: h.Registry.Canonical(name), Options: opts})
	}
	writeData(w, http.StatusOK, dtos)
}

// GetEnum returns one catalogue.
func (h *Handler) GetEnum(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	opts, err := h.Registry.Options(name)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Enum %q not found", name), nil)
		return
	}
	writeData(w, http.StatusOK, EnumDTO{Name: name, Canonical: h.Registry.Canonical(name), Options: opts})
}

// =============================================================================
// BOOKING HANDLERS
// =============================================================================

// QuoteBooking projects the total of a booking draft from the room's rates.
func (h *Handler) QuoteBooking(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := generic.FieldErrors{}
	if strings.TrimSpace(req.RoomID) == "" {
		errs.Add("room_id", "Room is required.")
	}
	if req.BookingType == "" {
		errs.Add("booking_type", "Booking type is required.")
	} else if !h.Registry.Contains(hostel.EnumBookingType, req.BookingType) {
		keys, _ := h.Registry.Keys(hostel.EnumBookingType)
		errs.Add("booking_type", "Booking type must be one of "+strings.Join(keys, ", ")+".")
	}
	if req.CheckInDate.Ptr() == nil {
		errs.Add("check_in_date", "Check-in date is required.")
	}
	if req.CheckOutDate.Ptr() == nil {
		errs.Add("check_out_date", "Check-out date is required.")
	}
	if !errs.Valid() {
		h.writeFailure(w, errs.Err(hostel.KindBooking))
		return
	}

	room, err := h.Gateways.Rooms.Get(r.Context(), req.RoomID)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	in, out := req.CheckInDate.Time, req.CheckOutDate.Time
	total, err := hostel.BookingTotal(room, req.BookingType, in, out)
	if errors.Is(err, generic.ErrInvalidPeriod) {
		errs.Add("check_out_date", "Check-out date must be after check-in date.")
		h.writeFailure(w, errs.Err(hostel.KindBooking))
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	dto := QuoteDTO{
		RoomID:      room.ID,
		BookingType: req.BookingType,
		Days:        generic.DaysBetween(in, out),
		Rate:        room.DailyRate,
		Total:       total,
	}
	if req.BookingType == hostel.BookingLongTerm {
		dto.Months = generic.MonthsFromDays(dto.Days)
		dto.Rate = room.MonthlyRate
	}
	writeData(w, http.StatusOK, dto)
}

// GetBookingDetail loads a booking, then its guest, room and payments in parallel.
func (h *Handler) GetBookingDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := h.Now()

	booking, err := h.Gateways.Bookings.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	var (
		user     hostel.User
		room     hostel.Room
		payments []hostel.Payment
	)
	err = gateway.FanOut(ctx,
		tolerateMissing(gateway.Fetch(h.Gateways.Users, booking.UserID, &user)),
		tolerateMissing(gateway.Fetch(h.Gateways.Rooms, booking.RoomID, &room)),
		func(ctx context.Context) error {
			var err error
			payments, err = listAll(ctx, h.Gateways.Payments, map[string]string{"booking_id": booking.ID})
			return err
		},
	)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	dto := BookingDetailDTO{Payments: make([]hostel.PaymentView, 0, len(payments))}
	var roomRef *hostel.Room
	if room.ID != "" {
		roomRef = &room
		v, err := h.Calc.Room(room, now)
		h.logWarnings(hostel.KindRoom, room.ID, err)
		dto.Room = &v
	}
	if user.ID != "" {
		v, err := h.Calc.User(user, now)
		h.logWarnings(hostel.KindUser, user.ID, err)
		dto.User = &v
	}
	dto.Booking, err = h.Calc.Booking(booking, roomRef, now)
	h.logWarnings(hostel.KindBooking, booking.ID, err)
	for _, p := range payments {
		v, err := h.Calc.Payment(p, now)
		h.logWarnings(hostel.KindPayment, p.ID, err)
		dto.Payments = append(dto.Payments, v)
	}
	writeData(w, http.StatusOK, dto)
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

// GetBuildingStats aggregates the occupancy of a building's rooms.
func (h *Handler) GetBuildingStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	building, err := h.Gateways.Buildings.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	rooms, err := listAll(ctx, h.Gateways.Rooms, map[string]string{"building_id": building.ID})
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, hostel.Stats(building.ID, rooms))
}

// GetSummary returns the dashboard landing page counters.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	var (
		rooms    []hostel.Room
		payments []hostel.Payment
		requests []hostel.MaintenanceRequest
	)
	err := gateway.FanOut(r.Context(),
		func(ctx context.Context) (err error) { rooms, err = listAll(ctx, h.Gateways.Rooms, nil); return },
		func(ctx context.Context) (err error) { payments, err = listAll(ctx, h.Gateways.Payments, nil); return },
		func(ctx context.Context) (err error) { requests, err = listAll(ctx, h.Gateways.Maintenance, nil); return },
	)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, hostel.Summarize(rooms, payments, requests, h.Now()))
}

// ResetDemo wipes and reseeds the demo database.
func (h *Handler) ResetDemo(w http.ResponseWriter, r *http.Request) {
	err := h.Gateways.ResetDemo(r.Context(), h.Now())
	if errors.Is(err, factory.ErrNotDemo) {
		writeError(w, http.StatusConflict, "Demo mode is not enabled", nil)
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.Log.Info("demo database reset")
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Demo data reset"})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthDTO{Status: "ok", Mode: h.Gateways.Mode})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string, errs generic.FieldErrors) {
	writeJSON(w, status, Response{Success: false, Message: message, Errors: errs})
}

// writeFailure maps the error taxonomy to an HTTP status.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	var (
		vf *generic.ValidationFailedError
		it *generic.IllegalTransitionError
		nf *generic.NotFoundError
		nw *generic.NetworkFailureError
	)
	switch {
	case errors.As(err, &vf):
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", vf.Fields)
	case errors.As(err, &it):
		writeError(w, http.StatusUnprocessableEntity, "Illegal status change",
			generic.FieldErrors{"status": it.Error()})
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Error(), nil)
	case errors.As(err, &nw):
		h.Log.WithError(err).Warn("backend call failed")
		writeError(w, http.StatusBadGateway, "Backend request failed: "+nw.Error(), nil)
	case errors.Is(err, generic.ErrInvalidPeriod), errors.Is(err, generic.ErrUnknownKind),
		errors.Is(err, generic.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the response.
		writeError(w, http.StatusRequestTimeout, "Request cancelled", nil)
	default:
		h.Log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "Internal error", nil)
	}
}

// logWarnings records derived-field problems. The view is still served.
func (h *Handler) logWarnings(kind generic.Kind, id string, err error) {
	if err == nil {
		return
	}
	h.Log.WithFields(logrus.Fields{"kind": kind, "id": id}).WithError(err).Warn("record has data-integrity warnings")
}

// decodeJSON reads the request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return false
	}
	return true
}

// reserved query parameters; everything else is a filter.
var reserved = map[string]bool{
	"limit": true, "offset": true, "page": true,
	"sort_by": true, "sort_order": true, "include": true,
	"organization_id": true,
}

// parseListQuery reads pagination, sorting, includes and filters from the URL.
func parseListQuery(r *http.Request) (generic.ListQuery, error) {
	values := r.URL.Query()
	q := generic.ListQuery{Filters: map[string]string{}}

	for key, dst := range map[string]*int{"limit": &q.Limit, "offset": &q.Offset, "page": &q.Page} {
		if v := values.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return q, fmt.Errorf("invalid %s %q", key, v)
			}
			*dst = n
		}
	}
	q.Limit = min(q.Limit, generic.MaxLimit)

	q.SortField = values.Get("sort_by")
	switch dir := strings.ToLower(values.Get("sort_order")); dir {
	case "":
	case string(generic.SortAsc), string(generic.SortDesc):
		q.SortDir = generic.SortDirection(dir)
	default:
		return q, fmt.Errorf("invalid sort_order %q", dir)
	}

	if inc := values.Get("include"); inc != "" {
		for _, rel := range strings.Split(inc, ",") {
			if rel = strings.TrimSpace(rel); rel != "" {
				q.Include = append(q.Include, rel)
			}
		}
	}

	for key := range values {
		if reserved[key] {
			continue
		}
		if rel, ok := strings.CutPrefix(key, "include_"); ok {
			if values.Get(key) == "true" {
				q.Include = append(q.Include, rel)
			}
			continue
		}
		q.Filters[key] = values.Get(key)
	}
	return q, nil
}

// errTooManyRecords stops listAll instead of returning a partial result.
var errTooManyRecords = errors.New("too many records to aggregate")

// listAll pages through every record matching filters. It stops on a short
// page or when the backend reports no further pages.
func listAll[T any](ctx context.Context, gw generic.Gateway[T], filters map[string]string) ([]T, error) {
	const pageSize, maxPages = generic.MaxLimit, 100
	var all []T
	for page := 1; page <= maxPages; page++ {
		res, err := gw.List(ctx, generic.ListQuery{Filters: filters, Limit: pageSize, Page: page})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Items...)
		if len(res.Items) < pageSize || !res.Pagination.HasMore {
			return all, nil
		}
	}
	return nil, fmt.Errorf("list %s: %w (over %d)", gw.Kind(), errTooManyRecords, pageSize*maxPages)
}

// tolerateMissing turns a NotFound from load into success.
func tolerateMissing(load func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := load(ctx); err != nil && !generic.IsNotFound(err) {
			return err
		}
		return nil
	}
}
