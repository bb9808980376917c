package hostel

import (
	"time"

	"github.com/warp/student-hotel/generic"
)

// Record plumbing shared by every store. Value receivers return copies.

var (
	_ generic.Record[Room]               = Room{}
	_ generic.Record[Building]           = Building{}
	_ generic.Record[Booking]            = Booking{}
	_ generic.Record[Contract]           = Contract{}
	_ generic.Record[Payment]            = Payment{}
	_ generic.Record[MaintenanceRequest] = MaintenanceRequest{}
	_ generic.Record[SupportRequest]     = SupportRequest{}
	_ generic.Record[Asset]              = Asset{}
	_ generic.Record[Expense]            = Expense{}
	_ generic.Record[Notification]       = Notification{}
	_ generic.Record[User]               = User{}
	_ generic.Record[WorkReport]         = WorkReport{}
)

func (r Room) RecordID() string { return r.ID }
func (r Room) WithRecordID(id string) Room { r.ID = id; return r }
func (r Room) Stamp(prev generic.Timestamps, now time.Time) Room { r.Touch(prev, now); return r }

func (b Building) RecordID() string { return b.ID }
func (b Building) WithRecordID(id string) Building { b.ID = id; return b }
func (b Building) Stamp(prev generic.Timestamps, now time.Time) Building { b.Touch(prev, now); return b }

func (b Booking) RecordID() string { return b.ID }
func (b Booking) WithRecordID(id string) Booking { b.ID = id; return b }
func (b Booking) Stamp(prev generic.Timestamps, now time.Time) Booking { b.Touch(prev, now); return b }

func (c Contract) RecordID() string { return c.ID }
func (c Contract) WithRecordID(id string) Contract { c.ID = id; return c }
func (c Contract) Stamp(prev generic.Timestamps, now time.Time) Contract { c.Touch(prev, now); return c }

func (p Payment) RecordID() string { return p.ID }
func (p Payment) WithRecordID(id string) Payment { p.ID = id; return p }
func (p Payment) Stamp(prev generic.Timestamps, now time.Time) Payment { p.Touch(prev, now); return p }

func (m MaintenanceRequest) RecordID() string { return m.ID }
func (m MaintenanceRequest) WithRecordID(id string) MaintenanceRequest { m.ID = id; return m }
func (m MaintenanceRequest) Stamp(prev generic.Timestamps, now time.Time) MaintenanceRequest { m.Touch(prev, now); return m }

func (s SupportRequest) RecordID() string { return s.ID }
func (s SupportRequest) WithRecordID(id string) SupportRequest { s.ID = id; return s }
func (s SupportRequest) Stamp(prev generic.Timestamps, now time.Time) SupportRequest { s.Touch(prev, now); return s }

func (a Asset) RecordID() string { return a.ID }
func (a Asset) WithRecordID(id string) Asset { a.ID = id; return a }
func (a Asset) Stamp(prev generic.Timestamps, now time.Time) Asset { a.Touch(prev, now); return a }

func (e Expense) RecordID() string { return e.ID }
func (e Expense) WithRecordID(id string) Expense { e.ID = id; return e }
func (e Expense) Stamp(prev generic.Timestamps, now time.Time) Expense { e.Touch(prev, now); return e }

func (n Notification) RecordID() string { return n.ID }
func (n Notification) WithRecordID(id string) Notification { n.ID = id; return n }
func (n Notification) Stamp(prev generic.Timestamps, now time.Time) Notification { n.Touch(prev, now); return n }

func (u User) RecordID() string { return u.ID }
func (u User) WithRecordID(id string) User { u.ID = id; return u }
func (u User) Stamp(prev generic.Timestamps, now time.Time) User { u.Touch(prev, now); return u }

func (w WorkReport) RecordID() string { return w.ID }
func (w WorkReport) WithRecordID(id string) WorkReport { w.ID = id; return w }
func (w WorkReport) Stamp(prev generic.Timestamps, now time.Time) WorkReport { w.Touch(prev, now); return w }
