/*
Package factory builds the record gateways for every hostel kind.

PURPOSE:
  The API layer needs one typed generic.Gateway per entity. Which
  implementation backs them is a deployment decision:

    HTTP    gateway.Resource against API_BASE_URL (default)
    Demo    store/sqlite tables seeded with fixtures (DEMO_MODE=true)
    Memory  generic/store.Memory, used by tests

  The choice is made once at startup. A failing HTTP backend is never
  swapped for demo data at runtime.

USAGE:
  gws, err := factory.New(cfg, log)
  if err != nil {
      log.Fatal(err)
  }
  defer gws.Close()

  page, err := gws.Rooms.List(ctx, generic.ListQuery{})

SEE ALSO:
  - fixtures.go: demo data
  - config/config.go: settings consumed here
*/
package factory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/student-hotel/config"
	"github.com/warp/student-hotel/gateway"
	"github.com/warp/student-hotel/generic"
	"github.com/warp/student-hotel/generic/store"
	"github.com/warp/student-hotel/hostel"
	"github.com/warp/student-hotel/store/sqlite"
)

// ErrNotDemo is returned by demo-only operations on a non-demo backend.
var ErrNotDemo = errors.New("demo mode is not enabled")

// Gateways holds one gateway per record kind.
type Gateways struct {
	Rooms         generic.Gateway[hostel.Room]
	Buildings     generic.Gateway[hostel.Building]
	Bookings      generic.Gateway[hostel.Booking]
	Contracts     generic.Gateway[hostel.Contract]
	Payments      generic.Gateway[hostel.Payment]
	Maintenance   generic.Gateway[hostel.MaintenanceRequest]
	Support       generic.Gateway[hostel.SupportRequest]
	Notifications generic.Gateway[hostel.Notification]
	Assets        generic.Gateway[hostel.Asset]
	Expenses      generic.Gateway[hostel.Expense]
	WorkReports   generic.Gateway[hostel.WorkReport]
	Users         generic.Gateway[hostel.User]

	// Mode names the backend: "http", "demo" or "memory".
	Mode string

	demo *sqlite.Store
}

// New picks the backend from cfg. Demo mode opens and seeds SQLite.
func New(cfg *config.Config, log logrus.FieldLogger) (*Gateways, error) {
	if cfg.Demo.Enabled {
		db, err := sqlite.New(cfg.Demo.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open demo database: %w", err)
		}
		g := NewDemo(db)
		if err := g.ResetDemo(context.Background(), time.Now()); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed demo database: %w", err)
		}
		if log != nil {
			log.WithField("path", cfg.Demo.DBPath).Info("demo mode: serving fixtures from SQLite")
		}
		return g, nil
	}

	client, err := gateway.NewClient(cfg.API.BaseURL, cfg.API.OrganizationID, cfg.API.Timeout, log)
	if err != nil {
		return nil, err
	}
	return NewHTTP(client, cfg.Pagination.Defaults())
}

// NewHTTP builds gateways that call the remote backend.
func NewHTTP(c *gateway.Client, defaults generic.ListQuery) (*Gateways, error) {
	var errs []error
	g := &Gateways{Mode: "http"}
	g.Rooms = httpResource[hostel.Room](c, hostel.KindRoom, defaults, &errs)
	g.Buildings = httpResource[hostel.Building](c, hostel.KindBuilding, defaults, &errs)
	g.Bookings = httpResource[hostel.Booking](c, hostel.KindBooking, defaults, &errs)
	g.Contracts = httpResource[hostel.Contract](c, hostel.KindContract, defaults, &errs)
	g.Payments = httpResource[hostel.Payment](c, hostel.KindPayment, defaults, &errs)
	g.Maintenance = httpResource[hostel.MaintenanceRequest](c, hostel.KindMaintenance, defaults, &errs)
	g.Support = httpResource[hostel.SupportRequest](c, hostel.KindSupport, defaults, &errs)
	g.Notifications = httpResource[hostel.Notification](c, hostel.KindNotification, defaults, &errs)
	g.Assets = httpResource[hostel.Asset](c, hostel.KindAsset, defaults, &errs)
	g.Expenses = httpResource[hostel.Expense](c, hostel.KindExpense, defaults, &errs)
	g.WorkReports = httpResource[hostel.WorkReport](c, hostel.KindWorkReport, defaults, &errs)
	g.Users = httpResource[hostel.User](c, hostel.KindUser, defaults, &errs)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

func httpResource[T any](c *gateway.Client, kind generic.Kind, defaults generic.ListQuery, errs *[]error) generic.Gateway[T] {
	r, err := gateway.NewResource[T](c, kind, defaults)
	if err != nil {
		*errs = append(*errs, err)
		return nil
	}
	return r
}

// NewDemo builds gateways over SQLite tables. The database is not seeded;
// call ResetDemo.
func NewDemo(db *sqlite.Store) *Gateways {
	return &Gateways{
		Rooms:         sqlite.NewTable[hostel.Room](db, hostel.KindRoom),
		Buildings:     sqlite.NewTable[hostel.Building](db, hostel.KindBuilding),
		Bookings:      sqlite.NewTable[hostel.Booking](db, hostel.KindBooking),
		Contracts:     sqlite.NewTable[hostel.Contract](db, hostel.KindContract),
		Payments:      sqlite.NewTable[hostel.Payment](db, hostel.KindPayment),
		Maintenance:   sqlite.NewTable[hostel.MaintenanceRequest](db, hostel.KindMaintenance),
		Support:       sqlite.NewTable[hostel.SupportRequest](db, hostel.KindSupport),
		Notifications: sqlite.NewTable[hostel.Notification](db, hostel.KindNotification),
		Assets:        sqlite.NewTable[hostel.Asset](db, hostel.KindAsset),
		Expenses:      sqlite.NewTable[hostel.Expense](db, hostel.KindExpense),
		WorkReports:   sqlite.NewTable[hostel.WorkReport](db, hostel.KindWorkReport),
		Users:         sqlite.NewTable[hostel.User](db, hostel.KindUser),
		Mode:          "demo",
		demo:          db,
	}
}

// NewMemory builds empty in-memory gateways.
func NewMemory() *Gateways {
	return &Gateways{
		Rooms:         store.NewMemory[hostel.Room](hostel.KindRoom),
		Buildings:     store.NewMemory[hostel.Building](hostel.KindBuilding),
		Bookings:      store.NewMemory[hostel.Booking](hostel.KindBooking),
		Contracts:     store.NewMemory[hostel.Contract](hostel.KindContract),
		Payments:      store.NewMemory[hostel.Payment](hostel.KindPayment),
		Maintenance:   store.NewMemory[hostel.MaintenanceRequest](hostel.KindMaintenance),
		Support:       store.NewMemory[hostel.SupportRequest](hostel.KindSupport),
		Notifications: store.NewMemory[hostel.Notification](hostel.KindNotification),
		Assets:        store.NewMemory[hostel.Asset](hostel.KindAsset),
		Expenses:      store.NewMemory[hostel.Expense](hostel.KindExpense),
		WorkReports:   store.NewMemory[hostel.WorkReport](hostel.KindWorkReport),
		Users:         store.NewMemory[hostel.User](hostel.KindUser),
		Mode:          "memory",
	}
}

// Demo reports whether the gateways serve demo fixtures.
func (g *Gateways) Demo() bool { return g.demo != nil }

// ResetDemo wipes the demo database and reseeds fixtures dated around now.
func (g *Gateways) ResetDemo(ctx context.Context, now time.Time) error {
	if g.demo == nil {
		return ErrNotDemo
	}
	if err := g.demo.Reset(ctx); err != nil {
		return err
	}
	return seed(ctx, g.demo, Fixtures(now))
}

// Close releases the demo database, if any.
func (g *Gateways) Close() error {
	if g.demo != nil {
		return g.demo.Close()
	}
	return nil
}

func seed(ctx context.Context, db *sqlite.Store, f DemoData) error {
	return errors.Join(
		sqlite.NewTable[hostel.Building](db, hostel.KindBuilding).Seed(ctx, f.Buildings...),
		sqlite.NewTable[hostel.Room](db, hostel.KindRoom).Seed(ctx, f.Rooms...),
		sqlite.NewTable[hostel.User](db, hostel.KindUser).Seed(ctx, f.Users...),
		sqlite.NewTable[hostel.Booking](db, hostel.KindBooking).Seed(ctx, f.Bookings...),
		sqlite.NewTable[hostel.Contract](db, hostel.KindContract).Seed(ctx, f.Contracts...),
		sqlite.NewTable[hostel.Payment](db, hostel.KindPayment).Seed(ctx, f.Payments...),
		sqlite.NewTable[hostel.MaintenanceRequest](db, hostel.KindMaintenance).Seed(ctx, f.Maintenance...),
		sqlite.NewTable[hostel.SupportRequest](db, hostel.KindSupport).Seed(ctx, f.Support...),
		sqlite.NewTable[hostel.Asset](db, hostel.KindAsset).Seed(ctx, f.Assets...),
		sqlite.NewTable[hostel.Expense](db, hostel.KindExpense).Seed(ctx, f.Expenses...),
		sqlite.NewTable[hostel.Notification](db, hostel.KindNotification).Seed(ctx, f.Notifications...),
		sqlite.NewTable[hostel.WorkReport](db, hostel.KindWorkReport).Seed(ctx, f.WorkReports...),
	)
}
