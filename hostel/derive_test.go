package hostel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/student-hotel/generic"
	"github.com/warp/student-hotel/hostel"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var now = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) *generic.Date { return generic.NewDate(y, m, d) }

func doubleRoom() hostel.Room {
	return hostel.Room{
		ID: "room-102", Number: "102", BuildingID: "bld-a", Type: "DOUBLE", Status: hostel.RoomAvailable,
		Capacity: 2, MonthlyRate: generic.Money(1_200_000), DailyRate: generic.Money(50_000),
	}
}

func newCalc() *hostel.Calculator { return hostel.NewCalculator(hostel.NewRegistry()) }

// =============================================================================
// BOOKING TOTAL TESTS
// =============================================================================

func TestBookingTotal(t *testing.T) {
	// GIVEN: A room at 1,200,000/month and 50,000/day, stay 2024-02-01 -> 2024-02-04
	in := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	out := time.Date(2024, time.February, 4, 0, 0, 0, 0, time.UTC)

	// WHEN/THEN: Short term bills 3 days, long term bills one started month
	short, err := hostel.BookingTotal(doubleRoom(), hostel.BookingShortTerm, in, out)
	require.NoError(t, err)
	assert.True(t, short.Equal(generic.Money(150_000)), short.String())

	long, err := hostel.BookingTotal(doubleRoom(), hostel.BookingLongTerm, in, out)
	require.NoError(t, err)
	assert.True(t, long.Equal(generic.Money(1_200_000)), long.String())
}

func TestBookingTotal_LongTermRoundsMonthsUp(t *testing.T) {
	in := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	out := in.AddDate(0, 0, 31)
	total, err := hostel.BookingTotal(doubleRoom(), hostel.BookingLongTerm, in, out)
	require.NoError(t, err)
	assert.True(t, total.Equal(generic.Money(2_400_000)), total.String())
}

func TestBookingTotal_InvalidPeriod(t *testing.T) {
	in := time.Date(2024, time.February, 4, 0, 0, 0, 0, time.UTC)
	_, err := hostel.BookingTotal(doubleRoom(), hostel.BookingShortTerm, in, in)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestCalculator_Room(t *testing.T) {
	r := doubleRoom()
	r.CurrentOccupants = 1

	v, err := newCalc().Room(r, now)
	require.NoError(t, err)
	assert.Equal(t, "Double", v.TypeBadge.Label)
	assert.Equal(t, "badge-success", v.StatusBadge.Class)
	assert.Equal(t, 50, v.OccupancyPercent)
	assert.Equal(t, 1, v.AvailableBeds)
	assert.False(t, v.IsFull)
	assert.Empty(t, v.Warnings)
}

func TestCalculator_Room_OverCapacityWarns(t *testing.T) {
	r := doubleRoom()
	r.CurrentOccupants = 5

	v, err := newCalc().Room(r, now)
	require.NoError(t, err)
	assert.Equal(t, 100, v.OccupancyPercent)
	assert.True(t, v.IsFull)
	require.Len(t, v.Warnings, 1)
	assert.Equal(t, "occupants_out_of_range", v.Warnings[0].Code)
}

func TestCalculator_UnknownEnumKey_IsReportedNotHidden(t *testing.T) {
	// GIVEN: A room whose type is outside the catalogue
	// WHEN: Deriving its view
	// THEN: The view is still built, with a warning and an UnknownEnumKey error
	r := doubleRoom()
	r.Type = "PENTHOUSE"

	v, err := newCalc().Room(r, now)
	assert.ErrorIs(t, err, generic.ErrUnknownEnumKey)
	assert.Equal(t, "PENTHOUSE", v.TypeBadge.Key)
	assert.Empty(t, v.TypeBadge.Label)
	require.Len(t, v.Warnings, 1)
	assert.Equal(t, "unknown_enum_key", v.Warnings[0].Code)
	assert.Equal(t, "room_type", v.Warnings[0].Field)
}

func TestCalculator_EmptyOptionalEnum_NoError(t *testing.T) {
	p := hostel.Payment{Type: "DEPOSIT", Status: hostel.PaymentPending, Amount: generic.Money(1)}

	v, err := newCalc().Payment(p, now)
	require.NoError(t, err)
	assert.Equal(t, generic.Badge{}, v.MethodBadge)
}

func TestCalculator_Booking(t *testing.T) {
	room := doubleRoom()
	bk := hostel.Booking{
		RoomID: room.ID, Type: hostel.BookingShortTerm, Status: hostel.BookingConfirmed,
		CheckInDate: day(2024, 2, 1), CheckOutDate: day(2024, 2, 4), TotalAmount: generic.Money(100_000),
	}

	v, err := newCalc().Booking(bk, &room, now)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Nights)
	require.NotNil(t, v.ComputedTotal)
	assert.True(t, v.ComputedTotal.Equal(generic.Money(150_000)))
	assert.True(t, v.TotalMismatch)

	// Without the room the total is not projected.
	v, err = newCalc().Booking(bk, nil, now)
	require.NoError(t, err)
	assert.Nil(t, v.ComputedTotal)
	assert.False(t, v.TotalMismatch)
}

func TestCalculator_Payment_Overdue(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		due     *generic.Date
		overdue bool
		days    int
	}{
		{"pending, due yesterday", hostel.PaymentPending, day(2024, 3, 9), true, 2},
		{"completed, due yesterday", hostel.PaymentCompleted, day(2024, 3, 9), false, 0},
		{"refunded, long past", hostel.PaymentRefunded, day(2023, 1, 1), false, 0},
		{"pending, due tomorrow", hostel.PaymentPending, day(2024, 3, 11), false, 0},
		{"pending, no due date", hostel.PaymentPending, nil, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := hostel.Payment{Type: "ROOM_CHARGE", Status: tt.status, Method: "CASH", DueDate: tt.due}
			v, err := newCalc().Payment(p, now)
			require.NoError(t, err)
			assert.Equal(t, tt.overdue, v.IsOverdue)
			assert.Equal(t, tt.days, v.DaysOverdue)
		})
	}
}

func TestCalculator_Contract(t *testing.T) {
	ct := hostel.Contract{
		Status: hostel.ContractActive, StartDate: day(2023, 9, 1), EndDate: day(2024, 3, 30),
		MonthlyRent: generic.Money(2_000_000),
	}

	v, err := newCalc().Contract(ct, now)
	require.NoError(t, err)
	assert.Equal(t, generic.DeadlineExpiringSoon, v.Deadline)
	assert.True(t, v.IsExpiringSoon)
	assert.False(t, v.IsExpired)
	assert.Equal(t, 20, v.DaysRemaining)
	assert.Equal(t, 211, v.DurationDays)
	assert.True(t, v.TotalValue.Equal(generic.Money(16_000_000)), v.TotalValue.String())

	for _, status := range []string{hostel.ContractTerminated, hostel.ContractCancelled, hostel.ContractRenewed} {
		ct.Status = status
		v, err = newCalc().Contract(ct, now)
		require.NoError(t, err)
		assert.Equal(t, generic.DeadlineClosed, v.Deadline, status)
		assert.False(t, v.IsExpiringSoon, status)
	}

	// Every terminal status is a key of the contract catalogue.
	reg := hostel.NewRegistry()
	for _, status := range hostel.ContractDeadline.Terminal {
		assert.True(t, reg.Contains(hostel.EnumContractStatus, status), status)
	}
}

func TestCalculator_Maintenance(t *testing.T) {
	created := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	m := hostel.MaintenanceRequest{
		Category: "PLUMBING", Status: hostel.MaintenancePending, Priority: "HIGH",
		ScheduledDate: day(2024, 3, 5),
		Timestamps:    generic.Timestamps{CreatedAt: &created},
	}

	v, err := newCalc().Maintenance(m, now)
	require.NoError(t, err)
	assert.True(t, v.IsOverdue)
	assert.Equal(t, "High", v.PriorityBadge.Label, "priority alias resolves")
	assert.Nil(t, v.ResolutionHours)

	m.Status = hostel.MaintenanceCompleted
	m.CompletedAt = generic.DateOf(created.Add(-3 * time.Hour))
	v, err = newCalc().Maintenance(m, now)
	require.NoError(t, err)
	assert.False(t, v.IsOverdue)
	require.NotNil(t, v.ResolutionHours)
	assert.Equal(t, 0, *v.ResolutionHours)
	require.Len(t, v.Warnings, 1)
	assert.Equal(t, "inverted_timestamps", v.Warnings[0].Code)
}

func TestCalculator_Support(t *testing.T) {
	created := time.Date(2024, time.March, 9, 6, 0, 0, 0, time.UTC)
	s := hostel.SupportRequest{
		Type: "TECHNICAL", Status: hostel.SupportResolved, Priority: "LOW",
		ResolvedAt: generic.DateOf(created.Add(26 * time.Hour)),
		Timestamps: generic.Timestamps{CreatedAt: &created},
	}
	v, err := newCalc().Support(s, now)
	require.NoError(t, err)
	assert.False(t, v.IsOpen)
	require.NotNil(t, v.ResponseHours)
	assert.Equal(t, 26, *v.ResponseHours)
}

func TestCalculator_Asset_Warranty(t *testing.T) {
	a := hostel.Asset{Category: "APPLIANCE", Status: "IN_USE", Condition: "GOOD",
		PurchaseDate: day(2021, 3, 11), WarrantyExpiry: day(2024, 3, 25)}

	v, err := newCalc().Asset(a, now)
	require.NoError(t, err)
	assert.True(t, v.WarrantyExpiringSoon)
	assert.False(t, v.WarrantyExpired)
	require.NotNil(t, v.AgeYears)
	assert.Equal(t, 2, *v.AgeYears)

	a.WarrantyExpiry = day(2024, 1, 1)
	v, err = newCalc().Asset(a, now)
	require.NoError(t, err)
	assert.True(t, v.WarrantyExpired)
	assert.False(t, v.WarrantyExpiringSoon)
}

func TestCalculator_User(t *testing.T) {
	u := hostel.User{FirstName: " an ", LastName: "Nguyen", Role: "STUDENT", Status: "ACTIVE",
		Profile: &hostel.Profile{DateOfBirth: day(2004, 2, 29)}}

	v, err := newCalc().User(u, now)
	require.NoError(t, err)
	assert.Equal(t, "an Nguyen", v.FullName)
	assert.Equal(t, "AN", v.Initials)
	require.NotNil(t, v.Age)
	assert.Equal(t, 20, *v.Age)
}

func TestCalculator_NotificationAndWorkReport(t *testing.T) {
	n := hostel.Notification{Type: "REMINDER", Status: "SCHEDULED", RecipientType: hostel.RecipientAll,
		ScheduledFor: day(2024, 3, 11)}
	nv, err := newCalc().Notification(n, now)
	require.NoError(t, err)
	assert.True(t, nv.IsScheduled)

	w := hostel.WorkReport{Status: hostel.WorkReportRejected}
	wv, err := newCalc().WorkReport(w, now)
	require.NoError(t, err)
	assert.True(t, wv.IsEditable)
}

func TestCalculator_Idempotent(t *testing.T) {
	p := hostel.Payment{Type: "ROOM_CHARGE", Status: hostel.PaymentPending, Method: "CASH", DueDate: day(2024, 3, 1)}
	c := newCalc()
	first, err := c.Payment(p, now)
	require.NoError(t, err)
	again, err := c.Payment(p, now)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

// =============================================================================
// AGGREGATES
// =============================================================================

func TestStats(t *testing.T) {
	rooms := []hostel.Room{
		{BuildingID: "bld-a", Status: hostel.RoomOccupied, Capacity: 4, CurrentOccupants: 3},
		{BuildingID: "bld-a", Status: hostel.RoomAvailable, Capacity: 2},
		{BuildingID: "bld-b", Status: hostel.RoomAvailable, Capacity: 2},
	}
	s := hostel.Stats("bld-a", rooms)
	assert.Equal(t, 2, s.TotalRooms)
	assert.Equal(t, 1, s.AvailableRooms)
	assert.Equal(t, 6, s.TotalCapacity)
	assert.Equal(t, 3, s.TotalOccupants)
	assert.Equal(t, 50, s.OccupancyPercent)
	assert.Equal(t, map[string]int{hostel.RoomOccupied: 1, hostel.RoomAvailable: 1}, s.RoomsByStatus)
}

func TestSummarize(t *testing.T) {
	rooms := []hostel.Room{
		{Status: hostel.RoomOccupied, Capacity: 2, CurrentOccupants: 2},
		{Status: hostel.RoomAvailable, Capacity: 2},
	}
	payments := []hostel.Payment{
		{Status: hostel.PaymentPending, Amount: generic.Money(500), DueDate: day(2024, 3, 1)},
		{Status: hostel.PaymentPending, Amount: generic.Money(300), DueDate: day(2024, 4, 1)},
		{Status: hostel.PaymentCompleted, Amount: generic.Money(900), DueDate: day(2024, 3, 1)},
	}
	requests := []hostel.MaintenanceRequest{
		{Status: hostel.MaintenancePending, ScheduledDate: day(2024, 3, 1)},
		{Status: hostel.MaintenanceCompleted, ScheduledDate: day(2024, 3, 1)},
	}

	s := hostel.Summarize(rooms, payments, requests, now)
	assert.Equal(t, 2, s.TotalRooms)
	assert.Equal(t, 1, s.OccupiedRooms)
	assert.Equal(t, 50, s.OccupancyPercent)
	assert.Equal(t, 1, s.OverduePayments)
	assert.True(t, s.OutstandingAmount.Equal(generic.Money(800)), s.OutstandingAmount.String())
	assert.Equal(t, 1, s.OpenMaintenance)
	assert.Equal(t, 1, s.OverdueMaintenance)
}
