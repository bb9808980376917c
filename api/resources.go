package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/student-hotel/gateway"
	"github.com/warp/student-hotel/generic"
	"github.com/warp/student-hotel/hostel"
)

// =============================================================================
// GENERIC RECORD RESOURCE
// =============================================================================
// Every record kind gets the same six endpoints. What differs per kind is
// how a record becomes its view, which extra context validation needs, and
// which field holds the status.

// resource serves one record kind.
type resource[T generic.Record[T], V any] struct {
	h  *Handler
	gw generic.Gateway[T]

	// derive builds the view. Errors are load failures, not warnings.
	derive func(ctx context.Context, rec T, now time.Time) (V, error)

	// deriveAll builds the views of a list page when the kind shares loads
	// across records. Nil falls back to derive per record.
	deriveAll func(ctx context.Context, recs []T, now time.Time) ([]V, error)

	// env adds kind-specific context to a validation env.
	env func(ctx context.Context, draft T, env hostel.Env) (hostel.Env, generic.FieldErrors, error)

	// status returns the record's status key, or "" for kinds without one.
	status func(rec T) string
}

// mountable hides the type parameters from the router.
type mountable interface {
	path() string
	mount(r chi.Router)
}

func (rs *resource[T, V]) path() string {
	return generic.MustLookupKind(rs.gw.Kind()).Path
}

func (rs *resource[T, V]) mount(r chi.Router) {
	r.Get("/", rs.list)
	r.Post("/", rs.create)
	r.Post("/validate", rs.check)
	r.Get("/{id}", rs.get)
	r.Put("/{id}", rs.update)
	r.Delete("/{id}", rs.remove)
}

func (rs *resource[T, V]) list(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	page, err := rs.gw.List(r.Context(), q)
	if err != nil {
		rs.h.writeFailure(w, err)
		return
	}

	views, err := rs.views(r.Context(), page.Items, rs.h.Now())
	if err != nil {
		rs.h.writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, PageDTO[V]{Data: views, Pagination: page.Pagination})
}

func (rs *resource[T, V]) views(ctx context.Context, recs []T, now time.Time) ([]V, error) {
	if rs.deriveAll != nil {
		return rs.deriveAll(ctx, recs, now)
	}
	views := make([]V, len(recs))
	loads := make([]func(ctx context.Context) error, len(recs))
	for i, rec := range recs {
		loads[i] = func(ctx context.Context) (err error) {
			views[i], err = rs.derive(ctx, rec, now)
			return err
		}
	}
	if err := gateway.FanOut(ctx, loads...); err != nil {
		return nil, err
	}
	return views, nil
}

func (rs *resource[T, V]) get(w http.ResponseWriter, r *http.Request) {
	rec, err := rs.gw.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		rs.h.writeFailure(w, err)
		return
	}
	rs.respond(w, r, http.StatusOK, rec)
}

func (rs *resource[T, V]) create(w http.ResponseWriter, r *http.Request) {
	var draft T
	if !decodeJSON(w, r, &draft) {
		return
	}
	if err := rs.validate(r.Context(), draft, true); err != nil {
		rs.h.writeFailure(w, err)
		return
	}
	rec, err := rs.gw.Create(r.Context(), draft)
	if err != nil {
		rs.h.writeFailure(w, err)
		return
	}
	rs.h.Log.WithField("kind", rs.gw.Kind()).WithField("id", rec.RecordID()).Info("record created")
	rs.respond(w, r, http.StatusCreated, rec)
}

func (rs *resource[T, V]) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var draft T
	if !decodeJSON(w, r, &draft) {
		return
	}
	prev, err := rs.gw.Get(ctx, id)
	if err != nil {
		rs.h.writeFailure(w, err)
		return
	}
	if err := rs.validate(ctx, draft, false); err != nil {
		rs.h.writeFailure(w, err)
		return
	}
	if rs.status != nil {
		if err := rs.h.Validator.Transition(rs.gw.Kind(), rs.status(prev), rs.status(draft)); err != nil {
			rs.h.writeFailure(w, err)
			return
		}
	}
	rec, err := rs.gw.Update(ctx, id, draft)
	if err != nil {
		rs.h.writeFailure(w, err)
		return
	}
	rs.respond(w, r, http.StatusOK, rec)
}

func (rs *resource[T, V]) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := rs.gw.Delete(r.Context(), id); err != nil {
		rs.h.writeFailure(w, err)
		return
	}
	rs.h.Log.WithField("kind", rs.gw.Kind()).WithField("id", id).Info("record deleted")
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Deleted"})
}

// check validates a draft without saving it. ?mode=update skips the
// create-only rules.
func (rs *resource[T, V]) check(w http.ResponseWriter, r *http.Request) {
	var draft T
	if !decodeJSON(w, r, &draft) {
		return
	}
	errs, err := rs.fieldErrors(r.Context(), draft, r.URL.Query().Get("mode") != "update")
	if err != nil {
		rs.h.writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, ValidationDTO{Valid: errs.Valid(), Errors: errs})
}

func (rs *resource[T, V]) validate(ctx context.Context, draft T, creating bool) error {
	errs, err := rs.fieldErrors(ctx, draft, creating)
	if err != nil {
		return err
	}
	return errs.Err(rs.gw.Kind())
}

func (rs *resource[T, V]) fieldErrors(ctx context.Context, draft T, creating bool) (generic.FieldErrors, error) {
	env := hostel.NewEnv(rs.h.Now(), creating)
	var extra generic.FieldErrors
	if rs.env != nil {
		var err error
		env, extra, err = rs.env(ctx, draft, env)
		if err != nil {
			return nil, err
		}
	}
	errs, err := rs.h.Validator.Validate(draft, env)
	if err != nil {
		return nil, err
	}
	errs.Merge(extra)
	return errs, nil
}

func (rs *resource[T, V]) respond(w http.ResponseWriter, r *http.Request, status int, rec T) {
	v, err := rs.derive(r.Context(), rec, rs.h.Now())
	if err != nil {
		rs.h.writeFailure(w, err)
		return
	}
	writeData(w, status, v)
}

// =============================================================================
// PER-KIND WIRING
// =============================================================================

// view adapts a calculator method; its errors are warnings and only logged.
func view[T generic.Record[T], V any](h *Handler, kind generic.Kind, calc func(T, time.Time) (V, error)) func(context.Context, T, time.Time) (V, error) {
	return func(_ context.Context, rec T, now time.Time) (V, error) {
		v, err := calc(rec, now)
		h.logWarnings(kind, rec.RecordID(), err)
		return v, nil
	}
}

// bookingRoom loads the room a booking refers to. A missing room is nil.
func (h *Handler) bookingRoom(ctx context.Context, roomID string) (*hostel.Room, error) {
	if roomID == "" {
		return nil, nil
	}
	room, err := h.Gateways.Rooms.Get(ctx, roomID)
	if generic.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// bookingRooms loads each distinct room of bookings once. Missing rooms are
// absent from the map.
func (h *Handler) bookingRooms(ctx context.Context, bookings []hostel.Booking) (map[string]*hostel.Room, error) {
	ids := []string{}
	seen := map[string]bool{}
	for _, b := range bookings {
		if b.RoomID != "" && !seen[b.RoomID] {
			seen[b.RoomID] = true
			ids = append(ids, b.RoomID)
		}
	}
	found := make([]*hostel.Room, len(ids))
	loads := make([]func(ctx context.Context) error, len(ids))
	for i, id := range ids {
		loads[i] = func(ctx context.Context) (err error) {
			found[i], err = h.bookingRoom(ctx, id)
			return err
		}
	}
	if err := gateway.FanOut(ctx, loads...); err != nil {
		return nil, err
	}
	rooms := make(map[string]*hostel.Room, len(ids))
	for i, id := range ids {
		if found[i] != nil {
			rooms[id] = found[i]
		}
	}
	return rooms, nil
}

// resources lists every record kind with its derive and validation hooks.
func (h *Handler) resources() []mountable {
	c := h.Calc
	g := h.Gateways
	return []mountable{
		&resource[hostel.Room, hostel.RoomView]{h: h, gw: g.Rooms,
			derive: view(h, hostel.KindRoom, c.Room),
			status: func(r hostel.Room) string { return r.Status }},
		&resource[hostel.Building, hostel.BuildingView]{h: h, gw: g.Buildings,
			derive: func(_ context.Context, b hostel.Building, _ time.Time) (hostel.BuildingView, error) {
				return c.Building(b, nil), nil
			}},
		&resource[hostel.Booking, hostel.BookingView]{h: h, gw: g.Bookings,
			derive: func(ctx context.Context, b hostel.Booking, now time.Time) (hostel.BookingView, error) {
				room, err := h.bookingRoom(ctx, b.RoomID)
				if err != nil {
					return hostel.BookingView{}, err
				}
				v, err := c.Booking(b, room, now)
				h.logWarnings(hostel.KindBooking, b.ID, err)
				return v, nil
			},
			deriveAll: func(ctx context.Context, bs []hostel.Booking, now time.Time) ([]hostel.BookingView, error) {
				rooms, err := h.bookingRooms(ctx, bs)
				if err != nil {
					return nil, err
				}
				views := make([]hostel.BookingView, len(bs))
				for i, b := range bs {
					v, err := c.Booking(b, rooms[b.RoomID], now)
					h.logWarnings(hostel.KindBooking, b.ID, err)
					views[i] = v
				}
				return views, nil
			},
			env: func(ctx context.Context, b hostel.Booking, env hostel.Env) (hostel.Env, generic.FieldErrors, error) {
				room, err := h.bookingRoom(ctx, b.RoomID)
				if err != nil {
					return env, nil, err
				}
				env.Room = room
				if room == nil && b.RoomID != "" {
					return env, generic.FieldErrors{"room_id": "Room does not exist."}, nil
				}
				return env, nil, nil
			},
			status: func(b hostel.Booking) string { return b.Status }},
		&resource[hostel.Contract, hostel.ContractView]{h: h, gw: g.Contracts,
			derive: view(h, hostel.KindContract, c.Contract),
			status: func(ct hostel.Contract) string { return ct.Status }},
		&resource[hostel.Payment, hostel.PaymentView]{h: h, gw: g.Payments,
			derive: view(h, hostel.KindPayment, c.Payment),
			status: func(p hostel.Payment) string { return p.Status }},
		&resource[hostel.MaintenanceRequest, hostel.MaintenanceView]{h: h, gw: g.Maintenance,
			derive: view(h, hostel.KindMaintenance, c.Maintenance),
			status: func(m hostel.MaintenanceRequest) string { return m.Status }},
		&resource[hostel.SupportRequest, hostel.SupportView]{h: h, gw: g.Support,
			derive: view(h, hostel.KindSupport, c.Support),
			status: func(s hostel.SupportRequest) string { return s.Status }},
		&resource[hostel.Notification, hostel.NotificationView]{h: h, gw: g.Notifications,
			derive: view(h, hostel.KindNotification, c.Notification),
			status: func(n hostel.Notification) string { return n.Status }},
		&resource[hostel.Asset, hostel.AssetView]{h: h, gw: g.Assets,
			derive: view(h, hostel.KindAsset, c.Asset),
			status: func(a hostel.Asset) string { return a.Status }},
		&resource[hostel.Expense, hostel.ExpenseView]{h: h, gw: g.Expenses,
			derive: view(h, hostel.KindExpense, c.Expense),
			status: func(e hostel.Expense) string { return e.Status }},
		&resource[hostel.WorkReport, hostel.WorkReportView]{h: h, gw: g.WorkReports,
			derive: view(h, hostel.KindWorkReport, c.WorkReport),
			status: func(wr hostel.WorkReport) string { return wr.Status }},
		&resource[hostel.User, hostel.UserView]{h: h, gw: g.Users,
			derive: view(h, hostel.KindUser, c.User),
			status: func(u hostel.User) string { return u.Status }},
	}
}
