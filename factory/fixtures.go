package factory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/student-hotel/generic"
	"github.com/warp/student-hotel/hostel"
)

// =============================================================================
// DEMO FIXTURES
// =============================================================================
// Dates are relative to "now" so the derived flags (overdue payments,
// expiring warranties, scheduled notifications) stay meaningful whenever
// the demo is reset.

// DemoData is one consistent set of demo records.
type DemoData struct {
	Buildings     []hostel.Building
	Rooms         []hostel.Room
	Users         []hostel.User
	Bookings      []hostel.Booking
	Contracts     []hostel.Contract
	Payments      []hostel.Payment
	Maintenance   []hostel.MaintenanceRequest
	Support       []hostel.SupportRequest
	Assets        []hostel.Asset
	Expenses      []hostel.Expense
	Notifications []hostel.Notification
	WorkReports   []hostel.WorkReport
}

// Fixtures returns the demo data set dated around now.
func Fixtures(now time.Time) DemoData {
	today := generic.StartOfDay(now.UTC())
	day := func(offset int) *generic.Date { return generic.DateOf(today.AddDate(0, 0, offset)) }
	at := func(offsetHours int) generic.Timestamps {
		t := now.UTC().Add(time.Duration(offsetHours) * time.Hour)
		return generic.Timestamps{CreatedAt: &t, UpdatedAt: &t}
	}
	vnd := func(v int64) decimal.Decimal { return generic.Money(v) }

	return DemoData{
		Buildings: []hostel.Building{
			{ID: "bld-a", Name: "Building A", Address: "12 Nguyen Trai, District 1", Floors: 5, Description: "Main residence"},
			{ID: "bld-b", Name: "Building B", Address: "48 Le Loi, District 3", Floors: 3},
		},
		Rooms: []hostel.Room{
			{ID: "room-101", Number: "101", BuildingID: "bld-a", Floor: 1, Type: "SINGLE", Status: hostel.RoomOccupied, Capacity: 1, CurrentOccupants: 1, MonthlyRate: vnd(2_500_000), DailyRate: vnd(150_000)},
			{ID: "room-102", Number: "102", BuildingID: "bld-a", Floor: 1, Type: "DOUBLE", Status: hostel.RoomAvailable, Capacity: 2, CurrentOccupants: 0, MonthlyRate: vnd(1_200_000), DailyRate: vnd(50_000)},
			{ID: "room-201", Number: "201", BuildingID: "bld-a", Floor: 2, Type: "QUAD", Status: hostel.RoomOccupied, Capacity: 4, CurrentOccupants: 3, MonthlyRate: vnd(900_000), DailyRate: vnd(40_000)},
			{ID: "room-202", Number: "202", BuildingID: "bld-a", Floor: 2, Type: "DORMITORY", Status: "MAINTENANCE", Capacity: 8, CurrentOccupants: 0, MonthlyRate: vnd(600_000), DailyRate: vnd(30_000)},
			{ID: "room-b11", Number: "B11", BuildingID: "bld-b", Floor: 1, Type: "SUITE", Status: "RESERVED", Capacity: 2, CurrentOccupants: 0, MonthlyRate: vnd(4_000_000), DailyRate: vnd(250_000)},
		},
		Users: []hostel.User{
			{ID: "user-admin", FirstName: "Linh", LastName: "Tran", Email: "admin@studenthotel.test", Role: "ADMIN", Status: "ACTIVE"},
			{ID: "user-staff", FirstName: "Minh", LastName: "Pham", Email: "staff@studenthotel.test", Phone: "+84 901 234 567", Role: "STAFF", Status: "ACTIVE"},
			{ID: "user-an", FirstName: "An", LastName: "Nguyen", Email: "an.nguyen@student.test", Phone: "0912345678", Role: "STUDENT", Status: "ACTIVE",
				Profile: &hostel.Profile{StudentID: "SV001", University: "HCMUT", Major: "Computer Science", YearOfStudy: 2,
					DateOfBirth: generic.NewDate(2004, time.February, 29), EmergencyContactName: "Hoa Nguyen", EmergencyContactPhone: "0987654321", EmergencyContactRelation: "Mother"}},
			{ID: "user-binh", FirstName: "Binh", LastName: "Le", Email: "binh.le@student.test", Role: "STUDENT", Status: "ACTIVE",
				Profile: &hostel.Profile{StudentID: "SV002", University: "UEH", YearOfStudy: 1, DateOfBirth: generic.NewDate(2006, time.September, 1)}},
		},
		Bookings: []hostel.Booking{
			{ID: "bk-1", UserID: "user-an", RoomID: "room-101", Type: hostel.BookingLongTerm, Status: hostel.BookingCheckedIn,
				CheckInDate: day(-60), CheckOutDate: day(120), ActualCheckIn: day(-60), Guests: 1, TotalAmount: vnd(15_000_000), Timestamps: at(-24 * 61)},
			{ID: "bk-2", UserID: "user-binh", RoomID: "room-102", Type: hostel.BookingShortTerm, Status: hostel.BookingConfirmed,
				CheckInDate: day(3), CheckOutDate: day(6), Guests: 2, TotalAmount: vnd(150_000), Timestamps: at(-48)},
			{ID: "bk-3", UserID: "user-binh", RoomID: "room-b11", Type: hostel.BookingShortTerm, Status: hostel.BookingPending,
				CheckInDate: day(10), CheckOutDate: day(12), Guests: 1, Timestamps: at(-2)},
		},
		Contracts: []hostel.Contract{
			{ID: "ct-1", ContractNumber: "HD-0001", UserID: "user-an", RoomID: "room-101", BookingID: "bk-1", Status: hostel.ContractActive,
				StartDate: day(-60), EndDate: day(20), MonthlyRent: vnd(2_500_000), Deposit: vnd(2_500_000)},
		},
		Payments: []hostel.Payment{
			{ID: "pay-1", UserID: "user-an", BookingID: "bk-1", Type: "ROOM_CHARGE", Status: hostel.PaymentCompleted, Method: "BANK_TRANSFER",
				Amount: vnd(2_500_000), DueDate: day(-30), PaidAt: day(-31)},
			{ID: "pay-2", UserID: "user-an", BookingID: "bk-1", Type: "ROOM_CHARGE", Status: hostel.PaymentPending, Method: "MOMO",
				Amount: vnd(2_500_000), DueDate: day(-1)},
			{ID: "pay-3", UserID: "user-binh", BookingID: "bk-2", Type: "DEPOSIT", Status: hostel.PaymentPending, Method: "CASH",
				Amount: vnd(150_000), DueDate: day(2)},
		},
		Maintenance: []hostel.MaintenanceRequest{
			{ID: "mt-1", UserID: "user-an", RoomID: "room-101", Category: "PLUMBING", Status: hostel.MaintenancePending, Priority: "HIGH",
				Title: "Leaking sink", Description: "The bathroom sink leaks under the basin.", ScheduledDate: day(-2), Timestamps: at(-72)},
			{ID: "mt-2", UserID: "user-staff", RoomID: "room-202", Category: "ELECTRICAL", Status: hostel.MaintenanceInProgress, Priority: "URGENT",
				Title: "Rewire ceiling lights", Description: "Ceiling lights flicker in the whole dormitory.", ScheduledDate: day(1), AssignedTo: "user-staff",
				EstimatedCost: vnd(1_500_000), Timestamps: at(-30)},
			{ID: "mt-3", UserID: "user-binh", RoomID: "room-102", Category: "FURNITURE", Status: hostel.MaintenanceCompleted, Priority: "LOW",
				Title: "Broken chair", Description: "Desk chair leg is cracked and wobbly.", CompletedAt: day(-5), ActualCost: vnd(200_000), Timestamps: at(-24 * 8)},
		},
		Support: []hostel.SupportRequest{
			{ID: "sp-1", UserID: "user-an", Type: "BILLING", Status: hostel.SupportOpen, Priority: "MEDIUM",
				Title: "Invoice question", Description: "Why does my invoice include a utility fee?", Timestamps: at(-5)},
			{ID: "sp-2", UserID: "user-binh", RoomID: "room-102", Type: "TECHNICAL", Status: hostel.SupportResolved, Priority: "HIGH",
				Title: "Wi-Fi not working", Description: "Cannot connect to the building Wi-Fi since yesterday.",
				Response: "Router restarted.", ResolvedAt: generic.DateOf(now.UTC().Add(-20 * time.Hour)), Timestamps: at(-26)},
		},
		Assets: []hostel.Asset{
			{ID: "as-1", Name: "Air conditioner", Code: "AC-101", RoomID: "room-101", Category: "APPLIANCE", Status: "IN_USE", Condition: "GOOD",
				PurchaseDate: day(-700), PurchasePrice: vnd(8_000_000), WarrantyExpiry: day(15)},
			{ID: "as-2", Name: "Refrigerator", Code: "FR-201", RoomID: "room-201", Category: "APPLIANCE", Status: "IN_USE", Condition: "FAIR",
				PurchaseDate: day(-1200), PurchasePrice: vnd(5_500_000), WarrantyExpiry: day(-100)},
			{ID: "as-3", Name: "Study desk", Code: "DK-102", RoomID: "room-102", Category: "FURNITURE", Status: "ACTIVE", Condition: "NEW",
				PurchaseDate: day(-30), PurchasePrice: vnd(1_200_000), WarrantyExpiry: day(335)},
		},
		Expenses: []hostel.Expense{
			{ID: "ex-1", Title: "Electricity bill", Category: "UTILITIES", Status: "PAID", Amount: vnd(12_000_000), ExpenseDate: day(-10), Vendor: "EVN"},
			{ID: "ex-2", Title: "Cleaning supplies", Category: "SUPPLIES", Status: "PENDING", Amount: vnd(850_000), ExpenseDate: day(-1)},
		},
		Notifications: []hostel.Notification{
			{ID: "nt-1", Type: "ANNOUNCEMENT", Status: "SENT", RecipientType: hostel.RecipientAll,
				Title: "Water outage", Message: "Water will be off on Saturday morning for maintenance.", SentAt: day(-3)},
			{ID: "nt-2", Type: "PAYMENT", Status: "SCHEDULED", RecipientType: hostel.RecipientIndividual, UserID: "user-an",
				Title: "Payment reminder", Message: "Your monthly rent is overdue, please pay soon.", ScheduledFor: day(1)},
			{ID: "nt-3", Type: "REMINDER", Status: "DRAFT", RecipientType: hostel.RecipientRole, RecipientRole: "STUDENT",
				Title: "Room inspection", Message: "Room inspections take place next week."},
		},
		WorkReports: []hostel.WorkReport{
			{ID: "wr-1", UserID: "user-staff", Date: day(-1), HoursWorked: 8, Description: "Repaired lights and checked plumbing.", Tasks: []string{"mt-2"}, Status: "SUBMITTED"},
			{ID: "wr-2", UserID: "user-staff", Date: day(0), HoursWorked: 4.5, Description: "Front desk shift and check-ins.", Status: hostel.WorkReportDraft},
		},
	}
}
