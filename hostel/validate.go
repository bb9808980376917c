package hostel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/student-hotel/generic"
)

// Env is the validation context. Room is the room a booking draft refers
// to; when nil the capacity rule is skipped.
type Env struct {
	generic.Env
	Room *Room
}

// NewEnv returns an Env at now. creating selects create-only rules.
func NewEnv(now time.Time, creating bool) Env {
	return Env{Env: generic.Env{Now: now, Creating: creating}}
}

// bookingDraft carries the referenced room alongside the booking so the
// capacity rule can read it.
type bookingDraft struct {
	Booking
	room *Room
}

// Validator holds one rule set per record kind, compiled against a registry.
type Validator struct {
	reg *generic.Registry

	rooms         generic.RuleSet[Room]
	buildings     generic.RuleSet[Building]
	bookings      generic.RuleSet[bookingDraft]
	contracts     generic.RuleSet[Contract]
	payments      generic.RuleSet[Payment]
	maintenance   generic.RuleSet[MaintenanceRequest]
	support       generic.RuleSet[SupportRequest]
	assets        generic.RuleSet[Asset]
	expenses      generic.RuleSet[Expense]
	notifications generic.RuleSet[Notification]
	users         generic.RuleSet[User]
	workReports   generic.RuleSet[WorkReport]
}

// NewValidator compiles the rule sets. A nil reg uses the default registry.
func NewValidator(reg *generic.Registry) *Validator {
	if reg == nil {
		reg = generic.DefaultRegistry()
	}
	return &Validator{
		reg:           reg,
		rooms:         roomRules(reg),
		buildings:     buildingRules(),
		bookings:      bookingRules(reg),
		contracts:     contractRules(reg),
		payments:      paymentRules(reg),
		maintenance:   maintenanceRules(reg),
		support:       supportRules(reg),
		assets:        assetRules(reg),
		expenses:      expenseRules(reg),
		notifications: notificationRules(reg),
		users:         userRules(reg),
		workReports:   workReportRules(reg),
	}
}

// =============================================================================
// DISPATCH
// =============================================================================

// Validate runs the rule set matching the draft's type. Drafts are passed
// by value; any other type fails with ErrUnknownKind.
func (v *Validator) Validate(draft any, env Env) (generic.FieldErrors, error) {
	switch d := draft.(type) {
	case Room:
		return v.rooms.Validate(d, env.Env), nil
	case Building:
		return v.buildings.Validate(d, env.Env), nil
	case Booking:
		return v.ValidateBooking(d, env), nil
	case Contract:
		return v.contracts.Validate(d, env.Env), nil
	case Payment:
		return v.payments.Validate(d, env.Env), nil
	case MaintenanceRequest:
		return v.maintenance.Validate(d, env.Env), nil
	case SupportRequest:
		return v.support.Validate(d, env.Env), nil
	case Asset:
		return v.assets.Validate(d, env.Env), nil
	case Expense:
		return v.expenses.Validate(d, env.Env), nil
	case Notification:
		return v.notifications.Validate(d, env.Env), nil
	case User:
		return v.users.Validate(d, env.Env), nil
	case WorkReport:
		return v.workReports.Validate(d, env.Env), nil
	}
	return nil, fmt.Errorf("validate %T: %w", draft, generic.ErrUnknownKind)
}

// Check validates draft and returns a *generic.ValidationFailedError when
// any rule fails.
func (v *Validator) Check(draft any, env Env) error {
	errs, err := v.Validate(draft, env)
	if err != nil {
		return err
	}
	return errs.Err(KindOf(draft))
}

// ValidateBooking validates a booking against env.Room for the capacity rule.
func (v *Validator) ValidateBooking(b Booking, env Env) generic.FieldErrors {
	return v.bookings.Validate(bookingDraft{Booking: b, room: env.Room}, env.Env)
}

// KindOf returns the record kind of a draft, or "" for unknown types.
func KindOf(draft any) generic.Kind {
	switch draft.(type) {
	case Room:
		return KindRoom
	case Building:
		return KindBuilding
	case Booking:
		return KindBooking
	case Contract:
		return KindContract
	case Payment:
		return KindPayment
	case MaintenanceRequest:
		return KindMaintenance
	case SupportRequest:
		return KindSupport
	case Asset:
		return KindAsset
	case Expense:
		return KindExpense
	case Notification:
		return KindNotification
	case User:
		return KindUser
	case WorkReport:
		return KindWorkReport
	}
	return ""
}

// =============================================================================
// STATUS TRANSITIONS
// =============================================================================

var statusEnums = map[generic.Kind]string{
	KindRoom:         EnumRoomStatus,
	KindBooking:      EnumBookingStatus,
	KindContract:     EnumContractStatus,
	KindPayment:      EnumPaymentStatus,
	KindMaintenance:  EnumMaintenanceStatus,
	KindSupport:      EnumSupportStatus,
	KindAsset:        EnumAssetStatus,
	KindExpense:      EnumExpenseStatus,
	KindNotification: EnumNotificationStatus,
	KindWorkReport:   EnumWorkReportStatus,
	KindUser:         EnumUserStatus,
}

// Transition checks a status change on a record of kind. Kinds without a
// status, unchanged statuses and stored statuses outside the enum always pass.
func (v *Validator) Transition(kind generic.Kind, from, to string) error {
	enum, ok := statusEnums[kind]
	if !ok || from == "" || from == to || !v.reg.Contains(enum, from) {
		return nil
	}
	return v.reg.CanTransition(enum, from, to)
}

// =============================================================================
// RULE SETS
// =============================================================================

func roomRules(reg *generic.Registry) generic.RuleSet[Room] {
	return generic.RuleSet[Room]{
		generic.Required("room_number", "Room number", func(r Room) string { return r.Number }),
		generic.MaxLength("room_number", "Room number", 20, func(r Room) string { return r.Number }),
		generic.Required("building_id", "Building", func(r Room) string { return r.BuildingID }),
		generic.IntAtLeast("floor", "Floor", 0, func(r Room) int { return r.Floor }),
		generic.Required("room_type", "Room type", func(r Room) string { return r.Type }),
		generic.OneOf(reg, EnumRoomType, "room_type", "Room type", func(r Room) string { return r.Type }),
		generic.Required("status", "Status", func(r Room) string { return r.Status }),
		generic.OneOf(reg, EnumRoomStatus, "status", "Status", func(r Room) string { return r.Status }),
		generic.IntAtLeast("capacity", "Capacity", 1, func(r Room) int { return r.Capacity }),
		generic.IntAtLeast("current_occupants", "Current occupants", 0, func(r Room) int { return r.CurrentOccupants }),
		generic.AtMost("current_occupants", "Current occupants cannot exceed capacity (%d).",
			func(r Room) int { return r.CurrentOccupants },
			func(r Room) (int, bool) { return r.Capacity, r.Capacity >= 1 }),
		generic.NonNegative("monthly_rate", "Monthly rate", func(r Room) decimal.Decimal { return r.MonthlyRate }),
		generic.NonNegative("daily_rate", "Daily rate", func(r Room) decimal.Decimal { return r.DailyRate }),
		generic.MaxLength("description", "Description", 500, func(r Room) string { return r.Description }),
	}
}

func buildingRules() generic.RuleSet[Building] {
	return generic.RuleSet[Building]{
		generic.Required("name", "Building name", func(b Building) string { return b.Name }),
		generic.Length("name", "Building name", 2, 100, func(b Building) string { return b.Name }),
		generic.Required("address", "Address", func(b Building) string { return b.Address }),
		generic.MinLength("address", "Address", 5, func(b Building) string { return b.Address }),
		generic.IntAtLeast("floors", "Number of floors", 1, func(b Building) int { return b.Floors }),
		generic.MaxLength("description", "Description", 500, func(b Building) string { return b.Description }),
	}
}

func bookingRules(reg *generic.Registry) generic.RuleSet[bookingDraft] {
	checkIn := func(b bookingDraft) *time.Time { return b.CheckInDate.Ptr() }
	checkOut := func(b bookingDraft) *time.Time { return b.CheckOutDate.Ptr() }
	actualIn := func(b bookingDraft) *time.Time { return b.ActualCheckIn.Ptr() }
	actualOut := func(b bookingDraft) *time.Time { return b.ActualCheckOut.Ptr() }
	planned := func(b bookingDraft) (*time.Time, *time.Time) { return checkIn(b), checkOut(b) }

	return generic.RuleSet[bookingDraft]{
		generic.Required("user_id", "Guest", func(b bookingDraft) string { return b.UserID }),
		generic.Required("room_id", "Room", func(b bookingDraft) string { return b.RoomID }),
		generic.Required("booking_type", "Booking type", func(b bookingDraft) string { return b.Type }),
		generic.OneOf(reg, EnumBookingType, "booking_type", "Booking type", func(b bookingDraft) string { return b.Type }),
		generic.OneOf(reg, EnumBookingStatus, "status", "Status", func(b bookingDraft) string { return b.Status }),
		generic.RequiredTime("check_in_date", "Check-in date", checkIn),
		generic.RequiredTime("check_out_date", "Check-out date", checkOut),
		generic.After("check_out_date", "Check-out date", "check-in date", checkOut, checkIn),
		generic.Within("actual_check_in", "Actual check-in", actualIn, planned),
		generic.Within("actual_check_out", "Actual check-out", actualOut, planned),
		generic.After("actual_check_out", "Actual check-out", "actual check-in", actualOut, actualIn),
		generic.IntAtLeast("guests", "Number of guests", 1, func(b bookingDraft) int { return b.Guests }),
		generic.AtMost("guests", "Number of guests cannot exceed room capacity (%d).",
			func(b bookingDraft) int { return b.Guests },
			func(b bookingDraft) (int, bool) {
				if b.room == nil {
					return 0, false
				}
				return b.room.Capacity, true
			}),
		generic.NonNegative("total_amount", "Total amount", func(b bookingDraft) decimal.Decimal { return b.TotalAmount }),
		generic.MaxLength("special_requests", "Special requests", 500, func(b bookingDraft) string { return b.SpecialRequests }),
	}
}

func contractRules(reg *generic.Registry) generic.RuleSet[Contract] {
	start := func(c Contract) *time.Time { return c.StartDate.Ptr() }
	end := func(c Contract) *time.Time { return c.EndDate.Ptr() }
	return generic.RuleSet[Contract]{
		generic.Required("user_id", "Tenant", func(c Contract) string { return c.UserID }),
		generic.Required("room_id", "Room", func(c Contract) string { return c.RoomID }),
		generic.Required("status", "Status", func(c Contract) string { return c.Status }),
		generic.OneOf(reg, EnumContractStatus, "status", "Status", func(c Contract) string { return c.Status }),
		generic.RequiredTime("start_date", "Start date", start),
		generic.RequiredTime("end_date", "End date", end),
		generic.After("end_date", "End date", "start date", end, start),
		generic.Positive("monthly_rent", "Monthly rent", func(c Contract) decimal.Decimal { return c.MonthlyRent }),
		generic.NonNegative("deposit", "Deposit", func(c Contract) decimal.Decimal { return c.Deposit }),
	}
}

func paymentRules(reg *generic.Registry) generic.RuleSet[Payment] {
	paidAt := func(p Payment) *time.Time { return p.PaidAt.Ptr() }
	return generic.RuleSet[Payment]{
		generic.Required("user_id", "Payer", func(p Payment) string { return p.UserID }),
		generic.Required("payment_type", "Payment type", func(p Payment) string { return p.Type }),
		generic.OneOf(reg, EnumPaymentType, "payment_type", "Payment type", func(p Payment) string { return p.Type }),
		generic.Required("status", "Status", func(p Payment) string { return p.Status }),
		generic.OneOf(reg, EnumPaymentStatus, "status", "Status", func(p Payment) string { return p.Status }),
		generic.Required("payment_method", "Payment method", func(p Payment) string { return p.Method }),
		generic.OneOf(reg, EnumPaymentMethod, "payment_method", "Payment method", func(p Payment) string { return p.Method }),
		generic.Positive("amount", "Amount", func(p Payment) decimal.Decimal { return p.Amount }),
		generic.When(func(p Payment) bool { return p.Status == PaymentCompleted },
			generic.RequiredTime("paid_at", "Payment date", paidAt)),
		generic.NotFuture("paid_at", "Payment date", paidAt),
		generic.MaxLength("description", "Description", 500, func(p Payment) string { return p.Description }),
	}
}

func maintenanceRules(reg *generic.Registry) generic.RuleSet[MaintenanceRequest] {
	completedAt := func(m MaintenanceRequest) *time.Time { return m.CompletedAt.Ptr() }
	return generic.RuleSet[MaintenanceRequest]{
		generic.Required("user_id", "Requester", func(m MaintenanceRequest) string { return m.UserID }),
		generic.Required("title", "Title", func(m MaintenanceRequest) string { return m.Title }),
		generic.Length("title", "Title", 5, 200, func(m MaintenanceRequest) string { return m.Title }),
		generic.Required("description", "Description", func(m MaintenanceRequest) string { return m.Description }),
		generic.Length("description", "Description", 10, 2000, func(m MaintenanceRequest) string { return m.Description }),
		generic.Required("category", "Category", func(m MaintenanceRequest) string { return m.Category }),
		generic.OneOf(reg, EnumMaintenanceCategory, "category", "Category", func(m MaintenanceRequest) string { return m.Category }),
		generic.Required("priority", "Priority", func(m MaintenanceRequest) string { return m.Priority }),
		generic.OneOf(reg, EnumMaintenancePriority, "priority", "Priority", func(m MaintenanceRequest) string { return m.Priority }),
		generic.Required("status", "Status", func(m MaintenanceRequest) string { return m.Status }),
		generic.OneOf(reg, EnumMaintenanceStatus, "status", "Status", func(m MaintenanceRequest) string { return m.Status }),
		generic.When(func(m MaintenanceRequest) bool { return m.Status == MaintenancePending },
			generic.NotPast("scheduled_date", "Scheduled date", func(m MaintenanceRequest) *time.Time { return m.ScheduledDate.Ptr() })),
		generic.When(func(m MaintenanceRequest) bool { return m.Status == MaintenanceCompleted },
			generic.RequiredTime("completed_at", "Completion date", completedAt)),
		generic.NotFuture("completed_at", "Completion date", completedAt),
		generic.NonNegative("estimated_cost", "Estimated cost", func(m MaintenanceRequest) decimal.Decimal { return m.EstimatedCost }),
		generic.NonNegative("actual_cost", "Actual cost", func(m MaintenanceRequest) decimal.Decimal { return m.ActualCost }),
	}
}

func supportRules(reg *generic.Registry) generic.RuleSet[SupportRequest] {
	resolvedAt := func(s SupportRequest) *time.Time { return s.ResolvedAt.Ptr() }
	return generic.RuleSet[SupportRequest]{
		generic.Required("user_id", "Requester", func(s SupportRequest) string { return s.UserID }),
		generic.Required("title", "Title", func(s SupportRequest) string { return s.Title }),
		generic.Length("title", "Title", 5, 200, func(s SupportRequest) string { return s.Title }),
		generic.Required("description", "Description", func(s SupportRequest) string { return s.Description }),
		generic.Length("description", "Description", 10, 2000, func(s SupportRequest) string { return s.Description }),
		generic.Required("request_type", "Request type", func(s SupportRequest) string { return s.Type }),
		generic.OneOf(reg, EnumSupportType, "request_type", "Request type", func(s SupportRequest) string { return s.Type }),
		generic.Required("priority", "Priority", func(s SupportRequest) string { return s.Priority }),
		generic.OneOf(reg, EnumSupportPriority, "priority", "Priority", func(s SupportRequest) string { return s.Priority }),
		generic.OneOf(reg, EnumSupportStatus, "status", "Status", func(s SupportRequest) string { return s.Status }),
		generic.When(func(s SupportRequest) bool { return s.Status == SupportResolved },
			generic.RequiredTime("resolved_at", "Resolution date", resolvedAt)),
		generic.NotFuture("resolved_at", "Resolution date", resolvedAt),
	}
}

func assetRules(reg *generic.Registry) generic.RuleSet[Asset] {
	purchased := func(a Asset) *time.Time { return a.PurchaseDate.Ptr() }
	warranty := func(a Asset) *time.Time { return a.WarrantyExpiry.Ptr() }
	return generic.RuleSet[Asset]{
		generic.Required("name", "Asset name", func(a Asset) string { return a.Name }),
		generic.Length("name", "Asset name", 2, 100, func(a Asset) string { return a.Name }),
		generic.Required("category", "Category", func(a Asset) string { return a.Category }),
		generic.OneOf(reg, EnumAssetCategory, "category", "Category", func(a Asset) string { return a.Category }),
		generic.Required("status", "Status", func(a Asset) string { return a.Status }),
		generic.OneOf(reg, EnumAssetStatus, "status", "Status", func(a Asset) string { return a.Status }),
		generic.Required("condition", "Condition", func(a Asset) string { return a.Condition }),
		generic.OneOf(reg, EnumAssetCondition, "condition", "Condition", func(a Asset) string { return a.Condition }),
		generic.NotFuture("purchase_date", "Purchase date", purchased),
		generic.After("warranty_expiry", "Warranty expiry", "purchase date", warranty, purchased),
		generic.NonNegative("purchase_price", "Purchase price", func(a Asset) decimal.Decimal { return a.PurchasePrice }),
		generic.MaxLength("description", "Description", 500, func(a Asset) string { return a.Description }),
	}
}

func expenseRules(reg *generic.Registry) generic.RuleSet[Expense] {
	spent := func(e Expense) *time.Time { return e.ExpenseDate.Ptr() }
	return generic.RuleSet[Expense]{
		generic.Required("title", "Title", func(e Expense) string { return e.Title }),
		generic.Length("title", "Title", 3, 200, func(e Expense) string { return e.Title }),
		generic.Required("category", "Category", func(e Expense) string { return e.Category }),
		generic.OneOf(reg, EnumExpenseCategory, "category", "Category", func(e Expense) string { return e.Category }),
		generic.OneOf(reg, EnumExpenseStatus, "status", "Status", func(e Expense) string { return e.Status }),
		generic.Positive("amount", "Amount", func(e Expense) decimal.Decimal { return e.Amount }),
		generic.RequiredTime("expense_date", "Expense date", spent),
		generic.NotFuture("expense_date", "Expense date", spent),
		generic.MaxLength("description", "Description", 500, func(e Expense) string { return e.Description }),
	}
}

func notificationRules(reg *generic.Registry) generic.RuleSet[Notification] {
	isRole := func(n Notification) bool { return n.RecipientType == RecipientRole }
	isIndividual := func(n Notification) bool { return n.RecipientType == RecipientIndividual }
	return generic.RuleSet[Notification]{
		generic.Required("title", "Title", func(n Notification) string { return n.Title }),
		generic.MaxLength("title", "Title", 200, func(n Notification) string { return n.Title }),
		generic.Required("message", "Message", func(n Notification) string { return n.Message }),
		generic.Length("message", "Message", 10, 2000, func(n Notification) string { return n.Message }),
		generic.Required("type", "Type", func(n Notification) string { return n.Type }),
		generic.OneOf(reg, EnumNotificationType, "type", "Type", func(n Notification) string { return n.Type }),
		generic.OneOf(reg, EnumNotificationStatus, "status", "Status", func(n Notification) string { return n.Status }),
		generic.Required("recipient_type", "Recipient", func(n Notification) string { return n.RecipientType }),
		generic.OneOf(reg, EnumRecipientType, "recipient_type", "Recipient", func(n Notification) string { return n.RecipientType }),
		generic.When(isRole, generic.Required("recipient_role", "Recipient role", func(n Notification) string { return n.RecipientRole })),
		generic.When(isRole, generic.OneOf(reg, EnumUserRole, "recipient_role", "Recipient role", func(n Notification) string { return n.RecipientRole })),
		generic.When(isIndividual, generic.Required("user_id", "Recipient user", func(n Notification) string { return n.UserID })),
		generic.OnCreate(generic.NotPastInstant("scheduled_for", "Scheduled time", func(n Notification) *time.Time { return n.ScheduledFor.Ptr() })),
	}
}

func userRules(reg *generic.Registry) generic.RuleSet[User] {
	profile := func(u User) Profile {
		if u.Profile == nil {
			return Profile{}
		}
		return *u.Profile
	}
	return generic.RuleSet[User]{
		generic.Required("first_name", "First name", func(u User) string { return u.FirstName }),
		generic.MaxLength("first_name", "First name", 50, func(u User) string { return u.FirstName }),
		generic.Required("last_name", "Last name", func(u User) string { return u.LastName }),
		generic.MaxLength("last_name", "Last name", 50, func(u User) string { return u.LastName }),
		generic.Required("email", "Email", func(u User) string { return u.Email }),
		generic.Email("email", "Email", func(u User) string { return u.Email }),
		generic.Phone("phone", "Phone number", func(u User) string { return u.Phone }),
		generic.Required("role", "Role", func(u User) string { return u.Role }),
		generic.OneOf(reg, EnumUserRole, "role", "Role", func(u User) string { return u.Role }),
		generic.OneOf(reg, EnumUserStatus, "status", "Status", func(u User) string { return u.Status }),
		generic.AgeBetween("date_of_birth", "Date of birth", 16, 100, func(u User) *time.Time { return profile(u).DateOfBirth.Ptr() }),
		generic.IntBetween("year_of_study", "Year of study", 0, 10, func(u User) int { return profile(u).YearOfStudy }),
		generic.Phone("emergency_contact_phone", "Emergency contact phone", func(u User) string { return profile(u).EmergencyContactPhone }),
	}
}

func workReportRules(reg *generic.Registry) generic.RuleSet[WorkReport] {
	day := func(w WorkReport) *time.Time { return w.Date.Ptr() }
	return generic.RuleSet[WorkReport]{
		generic.Required("user_id", "Staff member", func(w WorkReport) string { return w.UserID }),
		generic.RequiredTime("report_date", "Report date", day),
		generic.NotFuture("report_date", "Report date", day),
		generic.FloatRange("hours_worked", "Hours worked", 0, 24, true, func(w WorkReport) float64 { return w.HoursWorked }),
		generic.Required("description", "Description", func(w WorkReport) string { return w.Description }),
		generic.MinLength("description", "Description", 10, func(w WorkReport) string { return w.Description }),
		generic.OneOf(reg, EnumWorkReportStatus, "status", "Status", func(w WorkReport) string { return w.Status }),
	}
}
