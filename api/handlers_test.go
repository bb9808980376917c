package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/student-hotel/factory"
	"github.com/warp/student-hotel/gateway"
	"github.com/warp/student-hotel/generic"
	"github.com/warp/student-hotel/generic/store"
	"github.com/warp/student-hotel/hostel"
	"github.com/warp/student-hotel/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testNow = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

// envelope mirrors Response with a typed payload.
type envelope[T any] struct {
	Success bool                `json:"success"`
	Data    T                   `json:"data"`
	Message string              `json:"message"`
	Errors  generic.FieldErrors `json:"errors"`
}

// newTestHandler returns a handler over in-memory gateways seeded with the
// demo fixtures, clocked at testNow.
func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	gws := factory.NewMemory()
	f := factory.Fixtures(testNow)
	gws.Buildings.(*store.Memory[hostel.Building]).Seed(f.Buildings...)
	gws.Rooms.(*store.Memory[hostel.Room]).Seed(f.Rooms...)
	gws.Users.(*store.Memory[hostel.User]).Seed(f.Users...)
	gws.Bookings.(*store.Memory[hostel.Booking]).Seed(f.Bookings...)
	gws.Payments.(*store.Memory[hostel.Payment]).Seed(f.Payments...)
	gws.Maintenance.(*store.Memory[hostel.MaintenanceRequest]).Seed(f.Maintenance...)

	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewHandler(gws, log)
	h.Now = func() time.Time { return testNow }
	return h
}

func serve(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// =============================================================================
// CATALOGUE & HEALTH
// =============================================================================

func TestHealth(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)
	rec := serve(t, router, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","mode":"memory"}`, rec.Body.String())
}

func TestEnums(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)

	rec := serve(t, router, http.MethodGet, "/api/enums/maintenance_priority", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[EnumDTO](t, rec)
	assert.Equal(t, hostel.EnumPriority, got.Data.Canonical)
	assert.Len(t, got.Data.Options, 4)

	rec = serve(t, router, http.MethodGet, "/api/enums/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `Enum "nope" not found`, decode[any](t, rec).Message)

	rec = serve(t, router, http.MethodGet, "/api/enums", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[[]EnumDTO](t, rec).Data)
}

// =============================================================================
// RECORD CRUD
// =============================================================================

func TestRooms_ListWithDerivedFields(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)

	rec := serve(t, router, http.MethodGet, "/api/rooms?building_id=bld-a&sort_by=room_number&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	page := decode[PageDTO[hostel.RoomView]](t, rec).Data
	require.Len(t, page.Data, 2)
	assert.Equal(t, 4, page.Pagination.Total)
	assert.Equal(t, "101", page.Data[0].Number)
	assert.Equal(t, 100, page.Data[0].OccupancyPercent)
	assert.True(t, page.Data[0].IsFull)
	assert.Equal(t, "Occupied", page.Data[0].StatusBadge.Label)
	assert.Equal(t, 2, page.Data[1].AvailableBeds)
}

func TestRooms_BadQuery(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)
	assert.Equal(t, http.StatusBadRequest, serve(t, router, http.MethodGet, "/api/rooms?limit=lots", nil).Code)
}

func TestRooms_DemoStoreRejectsUnknownSortField(t *testing.T) {
	// GIVEN: A handler over the demo SQLite store
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	gws := factory.NewDemo(db)
	defer gws.Close()
	require.NoError(t, gws.ResetDemo(context.Background(), testNow))

	log := logrus.New()
	log.SetOutput(io.Discard)
	router := NewRouter(NewHandler(gws, log), nil)

	// WHEN: Sorting on a field the store cannot address
	rec := serve(t, router, http.MethodGet, "/api/rooms?sort_by=data%3BDROP", nil)

	// THEN: The client gets a 400, not an internal error
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusBadRequest, serve(t, router, http.MethodGet, "/api/rooms?sort_order=up", nil).Code)
}

func TestRooms_CreateValidatesFirst(t *testing.T) {
	// GIVEN: A room draft missing required fields
	router := NewRouter(newTestHandler(t), nil)

	// WHEN: Creating it
	rec := serve(t, router, http.MethodPost, "/api/rooms", map[string]any{"room_number": "", "capacity": 0})

	// THEN: 422 with every failing field
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode[any](t, rec).Errors
	for _, field := range []string{"room_number", "building_id", "room_type", "status", "capacity"} {
		assert.Contains(t, errs, field)
	}
}

func TestRooms_CreateGetDelete(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)

	rec := serve(t, router, http.MethodPost, "/api/rooms", map[string]any{
		"room_number": "301", "building_id": "bld-a", "floor": 3, "room_type": "SINGLE",
		"status": "AVAILABLE", "capacity": 1, "monthly_rate": 1000000, "daily_rate": 50000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[hostel.RoomView](t, rec).Data
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Single", created.TypeBadge.Label)
	assert.False(t, created.IsFull)

	rec = serve(t, router, http.MethodGet, "/api/rooms/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "301", decode[hostel.RoomView](t, rec).Data.Number)

	rec = serve(t, router, http.MethodDelete, "/api/rooms/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, router, http.MethodGet, "/api/rooms/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRooms_MalformedBody(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)
	rec := serve(t, router, http.MethodPost, "/api/rooms", `{"room_number":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayments_ValidateOnly(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)

	rec := serve(t, router, http.MethodPost, "/api/payments/validate", map[string]any{
		"user_id": "user-an", "payment_type": "ROOM_CHARGE", "status": "COMPLETED",
		"payment_method": "CASH", "amount": 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[ValidationDTO](t, rec).Data
	assert.False(t, got.Valid)
	assert.Equal(t, generic.FieldErrors{"paid_at": "Payment date is required."}, got.Errors)
}

// =============================================================================
// BOOKINGS
// =============================================================================

func TestBookings_CreateChecksRoom(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)
	draft := map[string]any{
		"user_id": "user-binh", "room_id": "room-102", "booking_type": "SHORT_TERM", "status": "PENDING",
		"check_in_date": "2024-03-12", "check_out_date": "2024-03-15", "guests": 3,
	}

	rec := serve(t, router, http.MethodPost, "/api/bookings", draft)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Number of guests cannot exceed room capacity (2).", decode[any](t, rec).Errors["guests"])

	draft["room_id"] = "room-404"
	rec = serve(t, router, http.MethodPost, "/api/bookings", draft)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Room does not exist.", decode[any](t, rec).Errors["room_id"])

	draft["room_id"] = "room-102"
	draft["guests"] = 2
	rec = serve(t, router, http.MethodPost, "/api/bookings", draft)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[hostel.BookingView](t, rec).Data
	assert.Equal(t, 3, got.Nights)
	require.NotNil(t, got.ComputedTotal)
	assert.True(t, got.ComputedTotal.Equal(generic.Money(150_000)))
}

func TestBookings_Quote(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)
	req := QuoteRequest{
		RoomID: "room-102", BookingType: hostel.BookingShortTerm,
		CheckInDate: generic.NewDate(2024, 2, 1), CheckOutDate: generic.NewDate(2024, 2, 4),
	}

	rec := serve(t, router, http.MethodPost, "/api/bookings/quote", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decode[QuoteDTO](t, rec).Data
	assert.Equal(t, 3, quote.Days)
	assert.True(t, quote.Total.Equal(generic.Money(150_000)), quote.Total.String())

	req.BookingType = hostel.BookingLongTerm
	quote = decode[QuoteDTO](t, serve(t, router, http.MethodPost, "/api/bookings/quote", req)).Data
	assert.Equal(t, 1, quote.Months)
	assert.True(t, quote.Total.Equal(generic.Money(1_200_000)), quote.Total.String())

	req.CheckOutDate = req.CheckInDate
	rec = serve(t, router, http.MethodPost, "/api/bookings/quote", req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Check-out date must be after check-in date.", decode[any](t, rec).Errors["check_out_date"])

	req.RoomID = "room-404"
	req.CheckOutDate = generic.NewDate(2024, 2, 4)
	assert.Equal(t, http.StatusNotFound, serve(t, router, http.MethodPost, "/api/bookings/quote", req).Code)
}

func TestBookings_Detail(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)

	rec := serve(t, router, http.MethodGet, "/api/bookings/bk-1/detail", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[BookingDetailDTO](t, rec).Data
	assert.Equal(t, "bk-1", got.Booking.ID)
	require.NotNil(t, got.User)
	assert.Equal(t, "AN", got.User.Initials)
	require.NotNil(t, got.Room)
	assert.Equal(t, "room-101", got.Room.ID)
	require.Len(t, got.Payments, 2)

	overdue := map[string]bool{}
	for _, p := range got.Payments {
		overdue[p.ID] = p.IsOverdue
	}
	assert.Equal(t, map[string]bool{"pay-1": false, "pay-2": true}, overdue)
}

// countingRooms counts Get calls on the wrapped gateway.
type countingRooms struct {
	generic.Gateway[hostel.Room]
	gets atomic.Int32
}

func (c *countingRooms) Get(ctx context.Context, id string) (hostel.Room, error) {
	c.gets.Add(1)
	return c.Gateway.Get(ctx, id)
}

func TestBookings_ListLoadsEachRoomOnce(t *testing.T) {
	h := newTestHandler(t)
	h.Gateways.Bookings.(*store.Memory[hostel.Booking]).Seed(
		hostel.Booking{ID: "bk-4", UserID: "user-an", RoomID: "room-101", Type: hostel.BookingShortTerm, Status: hostel.BookingCancelled,
			CheckInDate: generic.NewDate(2024, 1, 2), CheckOutDate: generic.NewDate(2024, 1, 5), Guests: 1},
		hostel.Booking{ID: "bk-5", UserID: "user-an", RoomID: "room-101", Type: hostel.BookingShortTerm, Status: hostel.BookingCancelled,
			CheckInDate: generic.NewDate(2024, 2, 2), CheckOutDate: generic.NewDate(2024, 2, 5), Guests: 1},
	)
	rooms := &countingRooms{Gateway: h.Gateways.Rooms}
	h.Gateways.Rooms = rooms
	router := NewRouter(h, nil)

	// WHEN: Listing bookings that share rooms
	rec := serve(t, router, http.MethodGet, "/api/bookings?limit=5000", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: Each distinct room is fetched once and the page size is capped
	page := decode[PageDTO[hostel.BookingView]](t, rec).Data
	require.Len(t, page.Data, 5)
	assert.Equal(t, generic.MaxLimit, page.Pagination.Limit)
	assert.Equal(t, int32(3), rooms.gets.Load())
	for _, b := range page.Data {
		assert.NotNil(t, b.ComputedTotal, b.ID)
	}
}

func TestBookings_StatusTransitions(t *testing.T) {
	fixture := factory.Fixtures(testNow).Bookings[0]
	fixture.Status = hostel.BookingPending

	// GIVEN: The default open transitions
	router := NewRouter(newTestHandler(t), nil)
	rec := serve(t, router, http.MethodPut, "/api/bookings/bk-1", fixture)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// GIVEN: The strict booking lifecycle
	h := newTestHandler(t)
	reg := hostel.NewRegistry()
	require.NoError(t, hostel.EnableStrictBookingTransitions(reg))
	h.Registry, h.Validator, h.Calc = reg, hostel.NewValidator(reg), hostel.NewCalculator(reg)
	router = NewRouter(h, nil)

	// WHEN: Moving a checked-in booking back to pending
	rec = serve(t, router, http.MethodPut, "/api/bookings/bk-1", fixture)

	// THEN: 422 on status, and the record is untouched
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[any](t, rec).Errors, "status")

	stored, err := h.Gateways.Bookings.Get(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, hostel.BookingCheckedIn, stored.Status)
}

func TestBookings_UpdateMissing(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)
	rec := serve(t, router, http.MethodPut, "/api/bookings/bk-404", map[string]any{"status": "PENDING"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestBuildingStats(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)

	rec := serve(t, router, http.MethodGet, "/api/buildings/bld-a/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stats := decode[hostel.BuildingStats](t, rec).Data
	assert.Equal(t, 4, stats.TotalRooms)
	assert.Equal(t, 15, stats.TotalCapacity)
	assert.Equal(t, 4, stats.TotalOccupants)
	assert.Equal(t, map[string]int{"OCCUPIED": 2, "AVAILABLE": 1, "MAINTENANCE": 1}, stats.RoomsByStatus)
}

func TestSummary(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)

	rec := serve(t, router, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	s := decode[hostel.Summary](t, rec).Data
	assert.Equal(t, 5, s.TotalRooms)
	assert.Equal(t, 2, s.OccupiedRooms)
	assert.Equal(t, 1, s.OverduePayments)
	assert.True(t, s.OutstandingAmount.Equal(generic.Money(2_650_000)), s.OutstandingAmount.String())
	assert.Equal(t, 2, s.OpenMaintenance)
	assert.Equal(t, 1, s.OverdueMaintenance)
}

func TestDemoReset_NotInDemoMode(t *testing.T) {
	router := NewRouter(newTestHandler(t), nil)
	rec := serve(t, router, http.MethodPost, "/api/demo/reset", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// =============================================================================
// QUERY PARSING
// =============================================================================

// =============================================================================
// AGGREGATION
// =============================================================================

// pagedRooms serves rooms as bare arrays, honouring limit and offset.
func pagedRooms(t *testing.T, rooms []hostel.Room, ignorePaging bool) generic.Gateway[hostel.Room] {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if ignorePaging {
			offset = 0
		}
		start := min(offset, len(rooms))
		end := min(offset+limit, len(rooms))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rooms[start:end])
	}))
	t.Cleanup(backend.Close)

	client, err := gateway.NewClient(backend.URL, "", 0, nil)
	require.NoError(t, err)
	res, err := gateway.NewResource[hostel.Room](client, hostel.KindRoom, generic.ListQuery{})
	require.NoError(t, err)
	return res
}

func manyRooms(n int) []hostel.Room {
	rooms := make([]hostel.Room, n)
	for i := range rooms {
		rooms[i] = hostel.Room{ID: fmt.Sprintf("room-%03d", i), Number: strconv.Itoa(i), BuildingID: "bld-a",
			Type: "SINGLE", Status: hostel.RoomAvailable, Capacity: 1}
	}
	return rooms
}

func TestListAll_PagesThroughBareArrays(t *testing.T) {
	// GIVEN: A backend holding more rooms than one page, without totals
	gw := pagedRooms(t, manyRooms(250), false)

	// WHEN: Aggregating every room
	all, err := listAll(context.Background(), gw, nil)

	// THEN: Nothing is dropped
	require.NoError(t, err)
	require.Len(t, all, 250)
	assert.Equal(t, "room-249", all[249].ID)
}

func TestListAll_RefusesEndlessPaging(t *testing.T) {
	// GIVEN: A backend that ignores offsets and always returns a full page
	gw := pagedRooms(t, manyRooms(generic.MaxLimit), true)

	// WHEN: Aggregating
	_, err := listAll(context.Background(), gw, nil)

	// THEN: The caller gets an error instead of a partial result
	assert.ErrorIs(t, err, errTooManyRecords)
}

func TestParseListQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/rooms?limit=5&page=2&sort_by=floor&sort_order=DESC&include=building,bookings&include_user=true&include_x=false&status=AVAILABLE&organization_id=org", nil)

	q, err := parseListQuery(req)
	require.NoError(t, err)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, "floor", q.SortField)
	assert.Equal(t, generic.SortDesc, q.SortDir)
	assert.ElementsMatch(t, []string{"building", "bookings", "user"}, q.Include)
	assert.Equal(t, map[string]string{"status": "AVAILABLE"}, q.Filters)

	q, err = parseListQuery(httptest.NewRequest(http.MethodGet, "/api/rooms?limit=5000", nil))
	require.NoError(t, err)
	assert.Equal(t, generic.MaxLimit, q.Limit)
}
