// Package hostel implements the student-hotel administration domain.
// It describes the records the dashboard manages and wires them to the
// generic engine: enum catalogue, derived views and validation rule sets.
package hostel

import (
	"github.com/shopspring/decimal"
	"github.com/warp/student-hotel/generic"
)

// =============================================================================
// RECORD KINDS
// =============================================================================

const (
	KindRoom         generic.Kind = "rooms"
	KindBuilding     generic.Kind = "buildings"
	KindBooking      generic.Kind = "bookings"
	KindContract     generic.Kind = "contracts"
	KindPayment      generic.Kind = "payments"
	KindMaintenance  generic.Kind = "maintenance-requests"
	KindSupport      generic.Kind = "support-requests"
	KindNotification generic.Kind = "notifications"
	KindAsset        generic.Kind = "assets"
	KindExpense      generic.Kind = "expenses"
	KindWorkReport   generic.Kind = "work-reports"
	KindUser         generic.Kind = "users"
)

func init() {
	// The backend sends money as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	for _, info := range []generic.KindInfo{
		{Kind: KindRoom, Path: "/rooms", Label: "Room"},
		{Kind: KindBuilding, Path: "/buildings", Label: "Building"},
		{Kind: KindBooking, Path: "/bookings", Label: "Booking"},
		{Kind: KindContract, Path: "/contracts", Label: "Contract"},
		{Kind: KindPayment, Path: "/payments", Label: "Payment"},
		{Kind: KindMaintenance, Path: "/maintenance-requests", Label: "Maintenance request"},
		{Kind: KindSupport, Path: "/support-requests", Label: "Support request"},
		{Kind: KindNotification, Path: "/notifications", Label: "Notification"},
		{Kind: KindAsset, Path: "/assets", Label: "Asset"},
		{Kind: KindExpense, Path: "/expenses", Label: "Expense"},
		{Kind: KindWorkReport, Path: "/work-reports", Label: "Work report"},
		{Kind: KindUser, Path: "/users", Label: "User"},
	} {
		generic.RegisterKind(info)
	}
}

// =============================================================================
// ENTITIES
// =============================================================================

// Room is a rentable unit inside a building.
type Room struct {
	ID               string          `json:"id,omitempty"`
	Number           string          `json:"room_number"`
	BuildingID       string          `json:"building_id"`
	Floor            int             `json:"floor"`
	Type             string          `json:"room_type"`
	Status           string          `json:"status"`
	Capacity         int             `json:"capacity"`
	CurrentOccupants int             `json:"current_occupants"`
	MonthlyRate      decimal.Decimal `json:"monthly_rate"`
	DailyRate        decimal.Decimal `json:"daily_rate"`
	Area             *float64        `json:"area,omitempty"`
	Description      string          `json:"description,omitempty"`
	Amenities        []string        `json:"amenities,omitempty"`
	generic.Timestamps
}

// Building groups rooms. Rooms reference their building by id.
type Building struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Floors      int    `json:"floors"`
	Description string `json:"description,omitempty"`
	generic.Timestamps
}

// Booking reserves a room for a user over a planned date range.
type Booking struct {
	ID              string          `json:"id,omitempty"`
	UserID          string          `json:"user_id"`
	RoomID          string          `json:"room_id"`
	Type            string          `json:"booking_type"`
	Status          string          `json:"status"`
	CheckInDate     *generic.Date   `json:"check_in_date,omitempty"`
	CheckOutDate    *generic.Date   `json:"check_out_date,omitempty"`
	ActualCheckIn   *generic.Date   `json:"actual_check_in,omitempty"`
	ActualCheckOut  *generic.Date   `json:"actual_check_out,omitempty"`
	Guests          int             `json:"guests"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SpecialRequests string          `json:"special_requests,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	generic.Timestamps
}

// Contract is a long-term rental agreement.
type Contract struct {
	ID             string          `json:"id,omitempty"`
	ContractNumber string          `json:"contract_number,omitempty"`
	UserID         string          `json:"user_id"`
	RoomID         string          `json:"room_id"`
	BookingID      string          `json:"booking_id,omitempty"`
	Status         string          `json:"status"`
	StartDate      *generic.Date   `json:"start_date,omitempty"`
	EndDate        *generic.Date   `json:"end_date,omitempty"`
	MonthlyRent    decimal.Decimal `json:"monthly_rent"`
	Deposit        decimal.Decimal `json:"deposit"`
	Terms          string          `json:"terms,omitempty"`
	generic.Timestamps
}

// Payment records money owed or received.
type Payment struct {
	ID             string          `json:"id,omitempty"`
	UserID         string          `json:"user_id"`
	BookingID      string          `json:"booking_id,omitempty"`
	ContractID     string          `json:"contract_id,omitempty"`
	Type           string          `json:"payment_type"`
	Status         string          `json:"status"`
	Method         string          `json:"payment_method"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        *generic.Date   `json:"due_date,omitempty"`
	PaidAt         *generic.Date   `json:"paid_at,omitempty"`
	TransactionRef string          `json:"transaction_id,omitempty"`
	Description    string          `json:"description,omitempty"`
	generic.Timestamps
}

// MaintenanceRequest is a repair or service job for a room.
type MaintenanceRequest struct {
	ID            string          `json:"id,omitempty"`
	UserID        string          `json:"user_id"`
	RoomID        string          `json:"room_id,omitempty"`
	Category      string          `json:"category"`
	Status        string          `json:"status"`
	Priority      string          `json:"priority"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	AssignedTo    string          `json:"assigned_to,omitempty"`
	ScheduledDate *generic.Date   `json:"scheduled_date,omitempty"`
	CompletedAt   *generic.Date   `json:"completed_at,omitempty"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	ActualCost    decimal.Decimal `json:"actual_cost"`
	Notes         string          `json:"notes,omitempty"`
	generic.Timestamps
}

// SupportRequest is a resident's question or complaint.
type SupportRequest struct {
	ID          string        `json:"id,omitempty"`
	UserID      string        `json:"user_id"`
	RoomID      string        `json:"room_id,omitempty"`
	Type        string        `json:"request_type"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Response    string        `json:"response,omitempty"`
	AssignedTo  string        `json:"assigned_to,omitempty"`
	ResolvedAt  *generic.Date `json:"resolved_at,omitempty"`
	generic.Timestamps
}

// Asset is a tracked piece of equipment, optionally placed in a room.
type Asset struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name"`
	Code           string          `json:"asset_code,omitempty"`
	RoomID         string          `json:"room_id,omitempty"`
	Category       string          `json:"category"`
	Status         string          `json:"status"`
	Condition      string          `json:"condition"`
	PurchaseDate   *generic.Date   `json:"purchase_date,omitempty"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	WarrantyExpiry *generic.Date   `json:"warranty_expiry,omitempty"`
	Description    string          `json:"description,omitempty"`
	generic.Timestamps
}

// Expense is an operating cost of the hotel.
type Expense struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate *generic.Date   `json:"expense_date,omitempty"`
	Vendor      string          `json:"vendor,omitempty"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	ApprovedBy  string          `json:"approved_by,omitempty"`
	Description string          `json:"description,omitempty"`
	generic.Timestamps
}

// Recipient modes for notifications.
const (
	RecipientIndividual = "individual"
	RecipientRole       = "role"
	RecipientAll        = "all"
)

// Notification is a message to one user, a role, or everybody.
type Notification struct {
	ID            string        `json:"id,omitempty"`
	Type          string        `json:"type"`
	Status        string        `json:"status"`
	RecipientType string        `json:"recipient_type"`
	RecipientRole string        `json:"recipient_role,omitempty"`
	UserID        string        `json:"user_id,omitempty"`
	Title         string        `json:"title"`
	Message       string        `json:"message"`
	ScheduledFor  *generic.Date `json:"scheduled_for,omitempty"`
	SentAt        *generic.Date `json:"sent_at,omitempty"`
	generic.Timestamps
}

// Profile holds the academic, personal and emergency-contact details of a student.
type Profile struct {
	StudentID                string        `json:"student_id,omitempty"`
	University               string        `json:"university,omitempty"`
	Major                    string        `json:"major,omitempty"`
	YearOfStudy              int           `json:"year_of_study,omitempty"`
	DateOfBirth              *generic.Date `json:"date_of_birth,omitempty"`
	Gender                   string        `json:"gender,omitempty"`
	Nationality              string        `json:"nationality,omitempty"`
	Address                  string        `json:"address,omitempty"`
	EmergencyContactName     string        `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone    string        `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelation string        `json:"emergency_contact_relationship,omitempty"`
}

// User is a staff member or a student.
type User struct {
	ID        string   `json:"id,omitempty"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Role      string   `json:"role"`
	Status    string   `json:"status"`
	Profile   *Profile `json:"profile,omitempty"`
	generic.Timestamps
}

// WorkReport is a staff member's daily timesheet entry.
type WorkReport struct {
	ID          string        `json:"id,omitempty"`
	UserID      string        `json:"user_id"`
	Date        *generic.Date `json:"report_date,omitempty"`
	HoursWorked float64       `json:"hours_worked"`
	Description string        `json:"description"`
	Tasks       []string      `json:"tasks,omitempty"`
	Status      string        `json:"status"`
	ReviewedBy  string        `json:"reviewed_by,omitempty"`
	generic.Timestamps
}
