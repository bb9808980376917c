package hostel

import (
	"fmt"

	"github.com/warp/student-hotel/generic"
)

// =============================================================================
// ENUM NAMES
// =============================================================================

const (
	EnumRoomType            = "room_type"
	EnumRoomStatus          = "room_status"
	EnumBookingType         = "booking_type"
	EnumBookingStatus       = "booking_status"
	EnumContractStatus      = "contract_status"
	EnumPaymentType         = "payment_type"
	EnumPaymentStatus       = "payment_status"
	EnumPaymentMethod       = "payment_method"
	EnumPriority            = "priority"
	EnumMaintenancePriority = "maintenance_priority" // alias of priority
	EnumSupportPriority     = "support_priority"     // alias of priority
	EnumMaintenanceCategory = "maintenance_category"
	EnumMaintenanceStatus   = "maintenance_status"
	EnumSupportType         = "support_type"
	EnumSupportStatus       = "support_status"
	EnumAssetCategory       = "asset_category"
	EnumAssetStatus         = "asset_status"
	EnumAssetCondition      = "asset_condition"
	EnumExpenseCategory     = "expense_category"
	EnumExpenseStatus       = "expense_status"
	EnumNotificationType    = "notification_type"
	EnumNotificationStatus  = "notification_status"
	EnumRecipientType       = "recipient_type"
	EnumWorkReportStatus    = "work_report_status"
	EnumUserRole            = "user_role"
	EnumUserStatus          = "user_status"
)

// Status keys the rules refer to by name.
const (
	RoomAvailable = "AVAILABLE"
	RoomOccupied  = "OCCUPIED"

	BookingShortTerm  = "SHORT_TERM"
	BookingLongTerm   = "LONG_TERM"
	BookingPending    = "PENDING"
	BookingConfirmed  = "CONFIRMED"
	BookingCheckedIn  = "CHECKED_IN"
	BookingCheckedOut = "CHECKED_OUT"
	BookingCancelled  = "CANCELLED"
	BookingNoShow     = "NO_SHOW"

	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentCancelled = "CANCELLED"
	PaymentRefunded  = "REFUNDED"

	ContractDraft      = "DRAFT"
	ContractActive     = "ACTIVE"
	ContractExpired    = "EXPIRED"
	ContractTerminated = "TERMINATED"
	ContractRenewed    = "RENEWED"
	ContractCancelled  = "CANCELLED"

	MaintenancePending    = "PENDING"
	MaintenanceInProgress = "IN_PROGRESS"
	MaintenanceCompleted  = "COMPLETED"
	MaintenanceCancelled  = "CANCELLED"

	SupportOpen       = "OPEN"
	SupportInProgress = "IN_PROGRESS"
	SupportResolved   = "RESOLVED"
	SupportClosed     = "CLOSED"

	WorkReportDraft    = "DRAFT"
	WorkReportRejected = "REJECTED"
)

// =============================================================================
// CATALOGUE
// =============================================================================

func opt(key, label, class string) generic.Option {
	return generic.Option{Key: key, Label: label, Class: class}
}

var catalogue = []generic.Enum{
	{Name: EnumRoomType, Options: []generic.Option{
		opt("SINGLE", "Single", "badge-blue"),
		opt("DOUBLE", "Double", "badge-indigo"),
		opt("TRIPLE", "Triple", "badge-purple"),
		opt("QUAD", "Quad", "badge-pink"),
		opt("DORMITORY", "Dormitory", "badge-orange"),
		opt("SUITE", "Suite", "badge-yellow"),
	}},
	{Name: EnumRoomStatus, Options: []generic.Option{
		opt(RoomAvailable, "Available", "badge-success"),
		opt(RoomOccupied, "Occupied", "badge-info"),
		opt("MAINTENANCE", "Under maintenance", "badge-warning"),
		opt("RESERVED", "Reserved", "badge-purple"),
		opt("OUT_OF_ORDER", "Out of order", "badge-danger"),
	}},
	{Name: EnumBookingType, Options: []generic.Option{
		opt(BookingShortTerm, "Short term", "badge-info"),
		opt(BookingLongTerm, "Long term", "badge-purple"),
	}},
	{Name: EnumBookingStatus, Options: []generic.Option{
		opt(BookingPending, "Pending", "badge-warning"),
		opt(BookingConfirmed, "Confirmed", "badge-info"),
		opt(BookingCheckedIn, "Checked in", "badge-success"),
		opt(BookingCheckedOut, "Checked out", "badge-gray"),
		opt(BookingCancelled, "Cancelled", "badge-danger"),
		opt(BookingNoShow, "No show", "badge-dark"),
	}},
	{Name: EnumContractStatus, Options: []generic.Option{
		opt(ContractDraft, "Draft", "badge-gray"),
		opt(ContractActive, "Active", "badge-success"),
		opt(ContractExpired, "Expired", "badge-warning"),
		opt(ContractTerminated, "Terminated", "badge-danger"),
		opt(ContractRenewed, "Renewed", "badge-info"),
		opt(ContractCancelled, "Cancelled", "badge-dark"),
	}},
	{Name: EnumPaymentType, Options: []generic.Option{
		opt("ROOM_CHARGE", "Room charge", "badge-blue"),
		opt("DEPOSIT", "Deposit", "badge-purple"),
		opt("UTILITY", "Utilities", "badge-orange"),
		opt("SERVICE", "Service fee", "badge-indigo"),
		opt("PENALTY", "Penalty", "badge-danger"),
		opt("REFUND", "Refund", "badge-success"),
		opt("OTHER", "Other", "badge-gray"),
	}},
	{Name: EnumPaymentStatus, Options: []generic.Option{
		opt(PaymentPending, "Pending", "badge-warning"),
		opt("PROCESSING", "Processing", "badge-info"),
		opt(PaymentCompleted, "Completed", "badge-success"),
		opt("FAILED", "Failed", "badge-danger"),
		opt(PaymentCancelled, "Cancelled", "badge-dark"),
		opt(PaymentRefunded, "Refunded", "badge-purple"),
	}},
	{Name: EnumPaymentMethod, Options: []generic.Option{
		opt("CASH", "Cash", "badge-success"),
		opt("BANK_TRANSFER", "Bank transfer", "badge-blue"),
		opt("CREDIT_CARD", "Credit card", "badge-indigo"),
		opt("E_WALLET", "E-wallet", "badge-purple"),
		opt("MOMO", "MoMo", "badge-pink"),
		opt("VNPAY", "VNPay", "badge-info"),
		opt("OTHER", "Other", "badge-gray"),
	}},
	{Name: EnumPriority, Options: []generic.Option{
		opt("LOW", "Low", "badge-gray"),
		opt("MEDIUM", "Medium", "badge-info"),
		opt("HIGH", "High", "badge-warning"),
		opt("URGENT", "Urgent", "badge-danger"),
	}},
	{Name: EnumMaintenanceCategory, Options: []generic.Option{
		opt("ELECTRICAL", "Electrical", "badge-yellow"),
		opt("PLUMBING", "Plumbing", "badge-blue"),
		opt("HVAC", "Heating & cooling", "badge-info"),
		opt("FURNITURE", "Furniture", "badge-orange"),
		opt("APPLIANCE", "Appliance", "badge-indigo"),
		opt("CLEANING", "Cleaning", "badge-success"),
		opt("SECURITY", "Security", "badge-danger"),
		opt("INTERNET", "Internet", "badge-purple"),
		opt("OTHER", "Other", "badge-gray"),
	}},
	{Name: EnumMaintenanceStatus, Options: []generic.Option{
		opt(MaintenancePending, "Pending", "badge-warning"),
		opt("ASSIGNED", "Assigned", "badge-info"),
		opt(MaintenanceInProgress, "In progress", "badge-blue"),
		opt(MaintenanceCompleted, "Completed", "badge-success"),
		opt(MaintenanceCancelled, "Cancelled", "badge-dark"),
	}},
	{Name: EnumSupportType, Options: []generic.Option{
		opt("TECHNICAL", "Technical", "badge-indigo"),
		opt("BILLING", "Billing", "badge-orange"),
		opt("ACCOMMODATION", "Accommodation", "badge-blue"),
		opt("COMPLAINT", "Complaint", "badge-danger"),
		opt("GENERAL", "General", "badge-info"),
		opt("OTHER", "Other", "badge-gray"),
	}},
	{Name: EnumSupportStatus, Options: []generic.Option{
		opt(SupportOpen, "Open", "badge-warning"),
		opt(SupportInProgress, "In progress", "badge-info"),
		opt(SupportResolved, "Resolved", "badge-success"),
		opt(SupportClosed, "Closed", "badge-gray"),
	}},
	{Name: EnumAssetCategory, Options: []generic.Option{
		opt("FURNITURE", "Furniture", "badge-orange"),
		opt("ELECTRONICS", "Electronics", "badge-indigo"),
		opt("APPLIANCE", "Appliance", "badge-blue"),
		opt("FIXTURE", "Fixture", "badge-purple"),
		opt("EQUIPMENT", "Equipment", "badge-info"),
		opt("OTHER", "Other", "badge-gray"),
	}},
	{Name: EnumAssetStatus, Options: []generic.Option{
		opt("ACTIVE", "Active", "badge-success"),
		opt("IN_USE", "In use", "badge-info"),
		opt("MAINTENANCE", "Under maintenance", "badge-warning"),
		opt("RETIRED", "Retired", "badge-gray"),
		opt("DISPOSED", "Disposed", "badge-dark"),
	}},
	{Name: EnumAssetCondition, Options: []generic.Option{
		opt("NEW", "New", "badge-success"),
		opt("GOOD", "Good", "badge-blue"),
		opt("FAIR", "Fair", "badge-warning"),
		opt("POOR", "Poor", "badge-orange"),
		opt("BROKEN", "Broken", "badge-danger"),
	}},
	{Name: EnumExpenseCategory, Options: []generic.Option{
		opt("UTILITIES", "Utilities", "badge-orange"),
		opt("MAINTENANCE", "Maintenance", "badge-warning"),
		opt("SUPPLIES", "Supplies", "badge-blue"),
		opt("SALARY", "Salary", "badge-indigo"),
		opt("RENT", "Rent", "badge-purple"),
		opt("MARKETING", "Marketing", "badge-pink"),
		opt("OTHER", "Other", "badge-gray"),
	}},
	{Name: EnumExpenseStatus, Options: []generic.Option{
		opt("PENDING", "Pending", "badge-warning"),
		opt("APPROVED", "Approved", "badge-info"),
		opt("REJECTED", "Rejected", "badge-danger"),
		opt("PAID", "Paid", "badge-success"),
	}},
	{Name: EnumNotificationType, Options: []generic.Option{
		opt("SYSTEM", "System", "badge-gray"),
		opt("PAYMENT", "Payment", "badge-success"),
		opt("BOOKING", "Booking", "badge-blue"),
		opt("MAINTENANCE", "Maintenance", "badge-warning"),
		opt("ANNOUNCEMENT", "Announcement", "badge-purple"),
		opt("REMINDER", "Reminder", "badge-info"),
	}},
	{Name: EnumNotificationStatus, Options: []generic.Option{
		opt("DRAFT", "Draft", "badge-gray"),
		opt("SCHEDULED", "Scheduled", "badge-info"),
		opt("SENT", "Sent", "badge-success"),
		opt("READ", "Read", "badge-blue"),
		opt("FAILED", "Failed", "badge-danger"),
	}},
	{Name: EnumRecipientType, Options: []generic.Option{
		opt(RecipientIndividual, "Individual user", "badge-blue"),
		opt(RecipientRole, "Role", "badge-purple"),
		opt(RecipientAll, "Everyone", "badge-info"),
	}},
	{Name: EnumWorkReportStatus, Options: []generic.Option{
		opt(WorkReportDraft, "Draft", "badge-gray"),
		opt("PENDING", "Pending", "badge-warning"),
		opt("SUBMITTED", "Submitted", "badge-info"),
		opt("APPROVED", "Approved", "badge-success"),
		opt(WorkReportRejected, "Rejected", "badge-danger"),
	}},
	{Name: EnumUserRole, Options: []generic.Option{
		opt("ADMIN", "Administrator", "badge-danger"),
		opt("STAFF", "Staff", "badge-blue"),
		opt("STUDENT", "Student", "badge-success"),
	}},
	{Name: EnumUserStatus, Options: []generic.Option{
		opt("ACTIVE", "Active", "badge-success"),
		opt("INACTIVE", "Inactive", "badge-gray"),
		opt("SUSPENDED", "Suspended", "badge-danger"),
		opt("PENDING", "Pending", "badge-warning"),
	}},
}

var aliases = map[string]string{
	EnumMaintenancePriority: EnumPriority,
	EnumSupportPriority:     EnumPriority,
}

// RegisterEnums installs the hostel catalogue and aliases into reg.
func RegisterEnums(reg *generic.Registry) {
	for _, e := range catalogue {
		reg.Register(e)
	}
	for alias, target := range aliases {
		if err := reg.Alias(alias, target); err != nil {
			panic(fmt.Sprintf("hostel: %v", err))
		}
	}
}

// NewRegistry returns a fresh registry holding the hostel catalogue.
func NewRegistry() *generic.Registry {
	reg := generic.NewRegistry()
	RegisterEnums(reg)
	return reg
}

func init() {
	RegisterEnums(generic.DefaultRegistry())
}

// =============================================================================
// OPTIONAL TRANSITION TABLES
// =============================================================================
// Not installed by default: staff may move any status to any other status.

// StrictBookingTransitions is the booking lifecycle
// PENDING -> CONFIRMED -> CHECKED_IN -> CHECKED_OUT, with CANCELLED or
// NO_SHOW reachable from any state before check-in.
var StrictBookingTransitions = generic.TransitionTable{
	BookingPending:   {BookingConfirmed, BookingCancelled, BookingNoShow},
	BookingConfirmed: {BookingCheckedIn, BookingCancelled, BookingNoShow},
	BookingCheckedIn: {BookingCheckedOut},
}

// EnableStrictBookingTransitions installs StrictBookingTransitions on reg.
func EnableStrictBookingTransitions(reg *generic.Registry) error {
	return reg.WithTransitions(EnumBookingStatus, StrictBookingTransitions)
}
