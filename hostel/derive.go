package hostel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/student-hotel/generic"
)

// =============================================================================
// DEADLINE RULES
// =============================================================================

var (
	PaymentDeadline = generic.Deadline{
		Kind:     generic.DeadlineDue,
		Terminal: []string{PaymentCompleted, PaymentCancelled, PaymentRefunded},
	}
	MaintenanceDeadline = generic.Deadline{
		Kind:     generic.DeadlineDue,
		Terminal: []string{MaintenanceCompleted, MaintenanceCancelled},
	}
	ContractDeadline = generic.Deadline{
		Kind:     generic.DeadlineExpiry,
		Terminal: []string{ContractTerminated, ContractCancelled, ContractRenewed},
	}
	WarrantyDeadline = generic.Deadline{Kind: generic.DeadlineExpiry}
)

// =============================================================================
// BOOKING TOTAL
// =============================================================================

// BookingTotal projects the amount of a stay:
//
//	days   = ceil((checkOut - checkIn) / 1 day)
//	LONG_TERM: ceil(days / 30) * room.MonthlyRate
//	otherwise: days * room.DailyRate
func BookingTotal(room Room, bookingType string, checkIn, checkOut time.Time) (decimal.Decimal, error) {
	r := generic.DateRange{Start: checkIn, End: checkOut}
	if !r.Valid() {
		return decimal.Zero, fmt.Errorf("booking total: %w", generic.ErrInvalidPeriod)
	}
	days := r.Days()
	if bookingType == BookingLongTerm {
		months := generic.MonthsFromDays(days)
		return room.MonthlyRate.Mul(decimal.NewFromInt(int64(months))), nil
	}
	return room.DailyRate.Mul(decimal.NewFromInt(int64(days))), nil
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator derives presentation fields from records. It holds no mutable
// state; the same record and now always produce the same view.
type Calculator struct {
	Registry *generic.Registry
}

// NewCalculator creates a calculator over reg. A nil reg uses the default registry.
func NewCalculator(reg *generic.Registry) *Calculator {
	if reg == nil {
		reg = generic.DefaultRegistry()
	}
	return &Calculator{Registry: reg}
}

// badges collects label lookups; unknown keys become warnings and errors.
type badges struct {
	reg      *generic.Registry
	warnings []generic.Warning
	errs     []error
}

func (c *Calculator) badges() *badges { return &badges{reg: c.Registry} }

// get resolves key. An unset key yields an empty badge; only a present but
// unrecognised key is reported.
func (b *badges) get(field, enum, key string) generic.Badge {
	if key == "" {
		return generic.Badge{}
	}
	badge, err := b.reg.BadgeFor(enum, key)
	if err != nil {
		b.fail(field, err)
	}
	return badge
}

func (b *badges) fail(field string, err error) {
	if w, ok := generic.AsWarning(field, err); ok {
		b.warnings = append(b.warnings, w)
	}
	b.errs = append(b.errs, fmt.Errorf("%s: %w", field, err))
}

func (b *badges) warn(w generic.Warning) {
	b.warnings = append(b.warnings, w)
}

func (b *badges) err() error { return errors.Join(b.errs...) }

// =============================================================================
// ROOMS & BUILDINGS
// =============================================================================

type RoomView struct {
	Room
	TypeBadge        generic.Badge     `json:"type_badge"`
	StatusBadge      generic.Badge     `json:"status_badge"`
	OccupancyPercent int               `json:"occupancy_percent"`
	AvailableBeds    int               `json:"available_beds"`
	IsFull           bool              `json:"is_full"`
	Warnings         []generic.Warning `json:"warnings,omitempty"`
}

// Room derives badges and occupancy. Occupants above capacity are clamped
// and reported as a warning.
func (c *Calculator) Room(r Room, _ time.Time) (RoomView, error) {
	b := c.badges()
	v := RoomView{
		Room:        r,
		TypeBadge:   b.get("room_type", EnumRoomType, r.Type),
		StatusBadge: b.get("status", EnumRoomStatus, r.Status),
	}
	occupants := generic.ClampOccupants(r.CurrentOccupants, r.Capacity)
	if occupants != r.CurrentOccupants {
		b.warn(generic.Warning{
			Field:   "current_occupants",
			Code:    "occupants_out_of_range",
			Message: fmt.Sprintf("%d occupants recorded for capacity %d", r.CurrentOccupants, r.Capacity),
		})
	}
	v.OccupancyPercent = generic.OccupancyPercent(occupants, r.Capacity)
	if r.Capacity > 0 {
		v.AvailableBeds = r.Capacity - occupants
		v.IsFull = v.AvailableBeds == 0
	}
	v.Warnings = b.warnings
	return v, b.err()
}

// BuildingStats aggregates the rooms that reference a building.
type BuildingStats struct {
	BuildingID       string         `json:"building_id"`
	TotalRooms       int            `json:"total_rooms"`
	AvailableRooms   int            `json:"available_rooms"`
	TotalCapacity    int            `json:"total_capacity"`
	TotalOccupants   int            `json:"total_occupants"`
	OccupancyPercent int            `json:"occupancy_percent"`
	RoomsByStatus    map[string]int `json:"rooms_by_status"`
}

// Stats computes BuildingStats over rooms, ignoring rooms of other buildings.
func Stats(buildingID string, rooms []Room) BuildingStats {
	s := BuildingStats{BuildingID: buildingID, RoomsByStatus: map[string]int{}}
	for _, r := range rooms {
		if r.BuildingID != buildingID {
			continue
		}
		s.TotalRooms++
		s.RoomsByStatus[r.Status]++
		if r.Status == RoomAvailable {
			s.AvailableRooms++
		}
		if r.Capacity > 0 {
			s.TotalCapacity += r.Capacity
			s.TotalOccupants += generic.ClampOccupants(r.CurrentOccupants, r.Capacity)
		}
	}
	s.OccupancyPercent = generic.OccupancyPercent(s.TotalOccupants, s.TotalCapacity)
	return s
}

type BuildingView struct {
	Building
	Stats *BuildingStats `json:"stats,omitempty"`
}

// Building attaches stats when rooms are supplied.
func (c *Calculator) Building(bld Building, rooms []Room) BuildingView {
	v := BuildingView{Building: bld}
	if rooms != nil {
		s := Stats(bld.ID, rooms)
		v.Stats = &s
	}
	return v
}

// =============================================================================
// BOOKINGS & CONTRACTS
// =============================================================================

type BookingView struct {
	Booking
	TypeBadge      generic.Badge     `json:"type_badge"`
	StatusBadge    generic.Badge     `json:"status_badge"`
	Nights         int               `json:"nights"`
	BillableMonths int               `json:"billable_months,omitempty"`
	ComputedTotal  *decimal.Decimal  `json:"computed_total,omitempty"`
	TotalMismatch  bool              `json:"total_mismatch"`
	Warnings       []generic.Warning `json:"warnings,omitempty"`
}

// Booking derives duration and, when the room is known, the projected total.
// A stored total that differs from the projection sets TotalMismatch.
func (c *Calculator) Booking(bk Booking, room *Room, _ time.Time) (BookingView, error) {
	b := c.badges()
	v := BookingView{
		Booking:     bk,
		TypeBadge:   b.get("booking_type", EnumBookingType, bk.Type),
		StatusBadge: b.get("status", EnumBookingStatus, bk.Status),
	}
	in, out := bk.CheckInDate.Ptr(), bk.CheckOutDate.Ptr()
	if in != nil && out != nil {
		v.Nights = generic.DaysBetween(*in, *out)
		if bk.Type == BookingLongTerm {
			v.BillableMonths = generic.MonthsFromDays(v.Nights)
		}
		if room != nil {
			total, err := BookingTotal(*room, bk.Type, *in, *out)
			if err == nil {
				v.ComputedTotal = &total
				v.TotalMismatch = !bk.TotalAmount.IsZero() && !bk.TotalAmount.Equal(total)
			} else {
				b.warn(generic.Warning{Field: "check_out_date", Code: "invalid_period", Message: err.Error()})
			}
		}
	}
	v.Warnings = b.warnings
	return v, b.err()
}

type ContractView struct {
	Contract
	StatusBadge    generic.Badge         `json:"status_badge"`
	DurationDays   int                   `json:"duration_days"`
	DaysRemaining  int                   `json:"days_remaining"`
	Deadline       generic.DeadlineState `json:"deadline"`
	IsExpiringSoon bool                  `json:"is_expiring_soon"`
	IsExpired      bool                  `json:"is_expired"`
	TotalValue     decimal.Decimal       `json:"total_value"`
	Warnings       []generic.Warning     `json:"warnings,omitempty"`
}

func (c *Calculator) Contract(ct Contract, now time.Time) (ContractView, error) {
	b := c.badges()
	v := ContractView{
		Contract:    ct,
		StatusBadge: b.get("status", EnumContractStatus, ct.Status),
		TotalValue:  decimal.Zero,
	}
	start, end := ct.StartDate.Ptr(), ct.EndDate.Ptr()
	if start != nil && end != nil {
		r := generic.DateRange{Start: *start, End: *end}
		v.DurationDays = r.Days()
		v.DaysRemaining = r.Remaining(now)
		v.TotalValue = ct.MonthlyRent.Mul(decimal.NewFromInt(int64(generic.MonthsFromDays(v.DurationDays))))
	}
	v.Deadline = ContractDeadline.Classify(end, ct.Status, now)
	v.IsExpiringSoon = v.Deadline == generic.DeadlineExpiringSoon
	v.IsExpired = v.Deadline == generic.DeadlineExpired
	v.Warnings = b.warnings
	return v, b.err()
}

// =============================================================================
// PAYMENTS & EXPENSES
// =============================================================================

type PaymentView struct {
	Payment
	TypeBadge   generic.Badge     `json:"type_badge"`
	StatusBadge generic.Badge     `json:"status_badge"`
	MethodBadge generic.Badge     `json:"method_badge"`
	IsOverdue   bool              `json:"is_overdue"`
	DaysOverdue int               `json:"days_overdue,omitempty"`
	Warnings    []generic.Warning `json:"warnings,omitempty"`
}

func (c *Calculator) Payment(p Payment, now time.Time) (PaymentView, error) {
	b := c.badges()
	v := PaymentView{
		Payment:     p,
		TypeBadge:   b.get("payment_type", EnumPaymentType, p.Type),
		StatusBadge: b.get("status", EnumPaymentStatus, p.Status),
		MethodBadge: b.get("payment_method", EnumPaymentMethod, p.Method),
	}
	due := p.DueDate.Ptr()
	v.IsOverdue = PaymentDeadline.IsOverdue(due, p.Status, now)
	if v.IsOverdue {
		v.DaysOverdue = generic.DaysBetween(*due, now)
	}
	v.Warnings = b.warnings
	return v, b.err()
}

type ExpenseView struct {
	Expense
	CategoryBadge generic.Badge     `json:"category_badge"`
	StatusBadge   generic.Badge     `json:"status_badge"`
	Warnings      []generic.Warning `json:"warnings,omitempty"`
}

func (c *Calculator) Expense(e Expense, _ time.Time) (ExpenseView, error) {
	b := c.badges()
	v := ExpenseView{
		Expense:       e,
		CategoryBadge: b.get("category", EnumExpenseCategory, e.Category),
		StatusBadge:   b.get("status", EnumExpenseStatus, e.Status),
	}
	v.Warnings = b.warnings
	return v, b.err()
}

// =============================================================================
// REQUESTS
// =============================================================================

type MaintenanceView struct {
	MaintenanceRequest
	CategoryBadge   generic.Badge     `json:"category_badge"`
	StatusBadge     generic.Badge     `json:"status_badge"`
	PriorityBadge   generic.Badge     `json:"priority_badge"`
	IsOverdue       bool              `json:"is_overdue"`
	ResolutionHours *int              `json:"resolution_hours,omitempty"`
	Warnings        []generic.Warning `json:"warnings,omitempty"`
}

func (c *Calculator) Maintenance(m MaintenanceRequest, now time.Time) (MaintenanceView, error) {
	b := c.badges()
	v := MaintenanceView{
		MaintenanceRequest: m,
		CategoryBadge:      b.get("category", EnumMaintenanceCategory, m.Category),
		StatusBadge:        b.get("status", EnumMaintenanceStatus, m.Status),
		PriorityBadge:      b.get("priority", EnumMaintenancePriority, m.Priority),
	}
	v.IsOverdue = MaintenanceDeadline.IsOverdue(m.ScheduledDate.Ptr(), m.Status, now)
	if m.CreatedAt != nil && m.CompletedAt.Ptr() != nil {
		hours, w := generic.HoursBetween(*m.CreatedAt, m.CompletedAt.Time)
		if w != nil {
			b.warn(generic.Warning{Field: "completed_at", Code: w.Code, Message: w.Message})
		}
		v.ResolutionHours = &hours
	}
	v.Warnings = b.warnings
	return v, b.err()
}

type SupportView struct {
	SupportRequest
	TypeBadge     generic.Badge     `json:"type_badge"`
	StatusBadge   generic.Badge     `json:"status_badge"`
	PriorityBadge generic.Badge     `json:"priority_badge"`
	IsOpen        bool              `json:"is_open"`
	ResponseHours *int              `json:"response_hours,omitempty"`
	Warnings      []generic.Warning `json:"warnings,omitempty"`
}

func (c *Calculator) Support(s SupportRequest, _ time.Time) (SupportView, error) {
	b := c.badges()
	v := SupportView{
		SupportRequest: s,
		TypeBadge:      b.get("request_type", EnumSupportType, s.Type),
		StatusBadge:    b.get("status", EnumSupportStatus, s.Status),
		PriorityBadge:  b.get("priority", EnumSupportPriority, s.Priority),
		IsOpen:         s.Status == SupportOpen || s.Status == SupportInProgress,
	}
	if s.CreatedAt != nil && s.ResolvedAt.Ptr() != nil {
		hours, w := generic.HoursBetween(*s.CreatedAt, s.ResolvedAt.Time)
		if w != nil {
			b.warn(generic.Warning{Field: "resolved_at", Code: w.Code, Message: w.Message})
		}
		v.ResponseHours = &hours
	}
	v.Warnings = b.warnings
	return v, b.err()
}

// =============================================================================
// ASSETS
// =============================================================================

type AssetView struct {
	Asset
	CategoryBadge        generic.Badge         `json:"category_badge"`
	StatusBadge          generic.Badge         `json:"status_badge"`
	ConditionBadge       generic.Badge         `json:"condition_badge"`
	Warranty             generic.DeadlineState `json:"warranty"`
	WarrantyExpiringSoon bool                  `json:"warranty_expiring_soon"`
	WarrantyExpired      bool                  `json:"warranty_expired"`
	AgeYears             *int                  `json:"age_years,omitempty"`
	Warnings             []generic.Warning     `json:"warnings,omitempty"`
}

func (c *Calculator) Asset(a Asset, now time.Time) (AssetView, error) {
	b := c.badges()
	v := AssetView{
		Asset:          a,
		CategoryBadge:  b.get("category", EnumAssetCategory, a.Category),
		StatusBadge:    b.get("status", EnumAssetStatus, a.Status),
		ConditionBadge: b.get("condition", EnumAssetCondition, a.Condition),
	}
	v.Warranty = WarrantyDeadline.Classify(a.WarrantyExpiry.Ptr(), a.Status, now)
	v.WarrantyExpiringSoon = v.Warranty == generic.DeadlineExpiringSoon
	v.WarrantyExpired = v.Warranty == generic.DeadlineExpired
	if p := a.PurchaseDate.Ptr(); p != nil {
		age := generic.AgeAt(*p, now)
		v.AgeYears = &age
	}
	v.Warnings = b.warnings
	return v, b.err()
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

type NotificationView struct {
	Notification
	TypeBadge      generic.Badge     `json:"type_badge"`
	StatusBadge    generic.Badge     `json:"status_badge"`
	RecipientBadge generic.Badge     `json:"recipient_badge"`
	IsScheduled    bool              `json:"is_scheduled"`
	Warnings       []generic.Warning `json:"warnings,omitempty"`
}

func (c *Calculator) Notification(n Notification, now time.Time) (NotificationView, error) {
	b := c.badges()
	v := NotificationView{
		Notification:   n,
		TypeBadge:      b.get("type", EnumNotificationType, n.Type),
		StatusBadge:    b.get("status", EnumNotificationStatus, n.Status),
		RecipientBadge: b.get("recipient_type", EnumRecipientType, n.RecipientType),
	}
	if at := n.ScheduledFor.Ptr(); at != nil {
		v.IsScheduled = at.After(now) && n.SentAt.Ptr() == nil
	}
	v.Warnings = b.warnings
	return v, b.err()
}

// =============================================================================
// USERS & WORK REPORTS
// =============================================================================

type UserView struct {
	User
	FullName    string            `json:"full_name"`
	Initials    string            `json:"initials"`
	RoleBadge   generic.Badge     `json:"role_badge"`
	StatusBadge generic.Badge     `json:"status_badge"`
	Age         *int              `json:"age,omitempty"`
	Warnings    []generic.Warning `json:"warnings,omitempty"`
}

func (c *Calculator) User(u User, now time.Time) (UserView, error) {
	b := c.badges()
	v := UserView{
		User:        u,
		FullName:    strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName)),
		Initials:    initials(u.FirstName, u.LastName),
		RoleBadge:   b.get("role", EnumUserRole, u.Role),
		StatusBadge: b.get("status", EnumUserStatus, u.Status),
	}
	if u.Profile != nil {
		if dob := u.Profile.DateOfBirth.Ptr(); dob != nil {
			age := generic.AgeAt(*dob, now)
			v.Age = &age
		}
	}
	v.Warnings = b.warnings
	return v, b.err()
}

func initials(names ...string) string {
	var sb strings.Builder
	for _, n := range names {
		n = strings.TrimSpace(n)
		for _, r := range n {
			sb.WriteString(strings.ToUpper(string(r)))
			break
		}
	}
	return sb.String()
}

type WorkReportView struct {
	WorkReport
	StatusBadge generic.Badge     `json:"status_badge"`
	IsEditable  bool              `json:"is_editable"`
	Warnings    []generic.Warning `json:"warnings,omitempty"`
}

func (c *Calculator) WorkReport(w WorkReport, _ time.Time) (WorkReportView, error) {
	b := c.badges()
	v := WorkReportView{
		WorkReport:  w,
		StatusBadge: b.get("status", EnumWorkReportStatus, w.Status),
		IsEditable:  w.Status == WorkReportDraft || w.Status == WorkReportRejected,
	}
	v.Warnings = b.warnings
	return v, b.err()
}

// =============================================================================
// DASHBOARD SUMMARY
// =============================================================================

// Summary holds the counters on the dashboard landing page.
type Summary struct {
	TotalRooms         int             `json:"total_rooms"`
	OccupiedRooms      int             `json:"occupied_rooms"`
	AvailableRooms     int             `json:"available_rooms"`
	OccupancyPercent   int             `json:"occupancy_percent"`
	OverduePayments    int             `json:"overdue_payments"`
	OutstandingAmount  decimal.Decimal `json:"outstanding_amount"`
	OpenMaintenance    int             `json:"open_maintenance"`
	OverdueMaintenance int             `json:"overdue_maintenance"`
}

// Summarize aggregates rooms, payments and maintenance requests as of now.
func Summarize(rooms []Room, payments []Payment, requests []MaintenanceRequest, now time.Time) Summary {
	s := Summary{OutstandingAmount: decimal.Zero}
	capacity, occupants := 0, 0
	for _, r := range rooms {
		s.TotalRooms++
		switch r.Status {
		case RoomOccupied:
			s.OccupiedRooms++
		case RoomAvailable:
			s.AvailableRooms++
		}
		if r.Capacity > 0 {
			capacity += r.Capacity
			occupants += generic.ClampOccupants(r.CurrentOccupants, r.Capacity)
		}
	}
	s.OccupancyPercent = generic.OccupancyPercent(occupants, capacity)

	for _, p := range payments {
		if PaymentDeadline.Classify(p.DueDate.Ptr(), p.Status, now) == generic.DeadlineClosed {
			continue
		}
		if p.Status == PaymentPending || PaymentDeadline.IsOverdue(p.DueDate.Ptr(), p.Status, now) {
			s.OutstandingAmount = s.OutstandingAmount.Add(p.Amount)
		}
		if PaymentDeadline.IsOverdue(p.DueDate.Ptr(), p.Status, now) {
			s.OverduePayments++
		}
	}

	for _, m := range requests {
		if m.Status != MaintenanceCompleted && m.Status != MaintenanceCancelled {
			s.OpenMaintenance++
		}
		if MaintenanceDeadline.IsOverdue(m.ScheduledDate.Ptr(), m.Status, now) {
			s.OverdueMaintenance++
		}
	}
	return s
}
