package hostel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/student-hotel/generic"
	"github.com/warp/student-hotel/hostel"
)

func newValidator() *hostel.Validator { return hostel.NewValidator(hostel.NewRegistry()) }

func validBooking() hostel.Booking {
	return hostel.Booking{
		UserID: "user-an", RoomID: "room-102", Type: hostel.BookingShortTerm, Status: hostel.BookingPending,
		CheckInDate: day(2024, 3, 12), CheckOutDate: day(2024, 3, 15), Guests: 2,
	}
}

// =============================================================================
// BOOKINGS
// =============================================================================

func TestValidateBooking_Valid(t *testing.T) {
	room := doubleRoom()
	env := hostel.NewEnv(now, true)
	env.Room = &room

	errs := newValidator().ValidateBooking(validBooking(), env)
	assert.True(t, errs.Valid(), "%v", errs)
}

func TestValidateBooking_CheckOutBeforeCheckIn(t *testing.T) {
	// GIVEN: check-out earlier than check-in
	// THEN: One error on check_out_date
	b := validBooking()
	b.CheckOutDate = day(2024, 3, 11)

	errs := newValidator().ValidateBooking(b, hostel.NewEnv(now, true))
	assert.Equal(t, generic.FieldErrors{"check_out_date": "Check-out date must be after check-in date."}, errs)
}

func TestValidateBooking_GuestsOverCapacity(t *testing.T) {
	room := doubleRoom()
	env := hostel.NewEnv(now, true)
	env.Room = &room

	b := validBooking()
	b.Guests = 3
	errs := newValidator().ValidateBooking(b, env)
	assert.Equal(t, "Number of guests cannot exceed room capacity (2).", errs["guests"])

	// Without a room the capacity rule is skipped.
	errs = newValidator().ValidateBooking(b, hostel.NewEnv(now, true))
	assert.NotContains(t, errs, "guests")
}

func TestValidateBooking_MissingEverything(t *testing.T) {
	errs := newValidator().ValidateBooking(hostel.Booking{}, hostel.NewEnv(now, true))
	assert.Equal(t,
		[]string{"booking_type", "check_in_date", "check_out_date", "guests", "room_id", "user_id"},
		errs.Fields())
}

func TestValidateBooking_ActualCheckInOutsidePlan(t *testing.T) {
	b := validBooking()
	b.ActualCheckIn = day(2024, 3, 20)
	errs := newValidator().ValidateBooking(b, hostel.NewEnv(now, false))
	assert.Equal(t, "Actual check-in cannot be after 2024-03-15.", errs["actual_check_in"])
}

// =============================================================================
// CONDITIONAL REQUIREMENTS
// =============================================================================

func TestValidate_PaymentCompletedNeedsPaidAt(t *testing.T) {
	p := hostel.Payment{UserID: "user-an", Type: "ROOM_CHARGE", Status: hostel.PaymentCompleted,
		Method: "CASH", Amount: generic.Money(100)}

	errs, err := newValidator().Validate(p, hostel.NewEnv(now, true))
	require.NoError(t, err)
	assert.Equal(t, generic.FieldErrors{"paid_at": "Payment date is required."}, errs)

	p.Status = hostel.PaymentPending
	errs, err = newValidator().Validate(p, hostel.NewEnv(now, true))
	require.NoError(t, err)
	assert.True(t, errs.Valid())
}

func TestValidate_MaintenanceCompletedNeedsCompletedAt(t *testing.T) {
	// GIVEN: A COMPLETED request with no completion date
	// THEN: Exactly one error, on completed_at
	m := hostel.MaintenanceRequest{
		UserID: "user-an", Title: "Leaking sink", Description: "The sink leaks under the basin.",
		Category: "PLUMBING", Priority: "HIGH", Status: hostel.MaintenanceCompleted,
	}

	errs, err := newValidator().Validate(m, hostel.NewEnv(now, false))
	require.NoError(t, err)
	assert.Equal(t, generic.FieldErrors{"completed_at": "Completion date is required."}, errs)
}

func TestValidate_MaintenancePendingScheduleNotPast(t *testing.T) {
	m := hostel.MaintenanceRequest{
		UserID: "user-an", Title: "Leaking sink", Description: "The sink leaks under the basin.",
		Category: "PLUMBING", Priority: "URGENT", Status: hostel.MaintenancePending,
		ScheduledDate: day(2024, 3, 9),
	}
	errs, err := newValidator().Validate(m, hostel.NewEnv(now, true))
	require.NoError(t, err)
	assert.Equal(t, "Scheduled date cannot be in the past.", errs["scheduled_date"])

	m.ScheduledDate = day(2024, 3, 10)
	errs, err = newValidator().Validate(m, hostel.NewEnv(now, true))
	require.NoError(t, err)
	assert.NotContains(t, errs, "scheduled_date", "today is allowed")
}

func TestValidate_DateOnlyFieldsFollowLocalToday(t *testing.T) {
	// GIVEN: An admin in UTC+7 filing a report early in the morning
	hanoi := time.Date(2024, time.March, 10, 6, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	w := hostel.WorkReport{UserID: "user-staff", Date: day(2024, 3, 10), Description: "Front desk shift.", HoursWorked: 8}

	errs, err := newValidator().Validate(w, hostel.NewEnv(hanoi, true))
	require.NoError(t, err)

	// THEN: Today's report date is not in the future
	assert.True(t, errs.Valid(), "%v", errs)

	// GIVEN: An admin in UTC-5 scheduling work for today in the evening
	newYork := time.Date(2024, time.March, 10, 20, 0, 0, 0, time.FixedZone("EST", -5*3600))
	m := hostel.MaintenanceRequest{
		UserID: "user-an", Title: "Leaking sink", Description: "The sink leaks under the basin.",
		Category: "PLUMBING", Priority: "URGENT", Status: hostel.MaintenancePending,
		ScheduledDate: day(2024, 3, 10),
	}
	errs, err = newValidator().Validate(m, hostel.NewEnv(newYork, true))
	require.NoError(t, err)

	// THEN: Today's schedule is not in the past
	assert.NotContains(t, errs, "scheduled_date")
}

func TestValidate_SupportResolvedNeedsResolvedAt(t *testing.T) {
	s := hostel.SupportRequest{UserID: "user-an", Title: "Wi-Fi down", Description: "No connection since yesterday.",
		Type: "TECHNICAL", Priority: "LOW", Status: hostel.SupportResolved}

	errs, err := newValidator().Validate(s, hostel.NewEnv(now, false))
	require.NoError(t, err)
	assert.Equal(t, generic.FieldErrors{"resolved_at": "Resolution date is required."}, errs)

	s.Status = hostel.SupportClosed
	errs, err = newValidator().Validate(s, hostel.NewEnv(now, false))
	require.NoError(t, err)
	assert.True(t, errs.Valid())
}

func TestValidate_NotificationRecipients(t *testing.T) {
	n := hostel.Notification{Title: "Inspection", Message: "Room inspections next week.", Type: "REMINDER",
		RecipientType: hostel.RecipientRole}

	errs, err := newValidator().Validate(n, hostel.NewEnv(now, true))
	require.NoError(t, err)
	assert.Equal(t, generic.FieldErrors{"recipient_role": "Recipient role is required."}, errs)

	n.RecipientRole = "JANITOR"
	errs, _ = newValidator().Validate(n, hostel.NewEnv(now, true))
	assert.Equal(t, "Recipient role must be one of ADMIN, STAFF, STUDENT.", errs["recipient_role"])

	n.RecipientType = hostel.RecipientIndividual
	errs, _ = newValidator().Validate(n, hostel.NewEnv(now, true))
	assert.Equal(t, generic.FieldErrors{"user_id": "Recipient user is required."}, errs)
}

func TestValidate_NotificationScheduleOnCreateOnly(t *testing.T) {
	n := hostel.Notification{Title: "Inspection", Message: "Room inspections next week.", Type: "REMINDER",
		RecipientType: hostel.RecipientAll, ScheduledFor: generic.DateOf(now.Add(-1))}

	errs, _ := newValidator().Validate(n, hostel.NewEnv(now, true))
	assert.Contains(t, errs, "scheduled_for")

	errs, _ = newValidator().Validate(n, hostel.NewEnv(now, false))
	assert.NotContains(t, errs, "scheduled_for")
}

// =============================================================================
// USERS & WORK REPORTS
// =============================================================================

func TestValidate_UserAgeAndShapes(t *testing.T) {
	u := hostel.User{FirstName: "An", LastName: "Nguyen", Email: "an@student.test", Role: "STUDENT",
		Phone: "0912345678", Profile: &hostel.Profile{DateOfBirth: day(2004, 2, 29)}}

	errs, err := newValidator().Validate(u, hostel.NewEnv(now, true))
	require.NoError(t, err)
	assert.True(t, errs.Valid(), "%v", errs)

	u.Email = "an@"
	u.Phone = "12"
	u.Profile.DateOfBirth = day(2010, 1, 1)
	errs, _ = newValidator().Validate(u, hostel.NewEnv(now, true))
	assert.Equal(t, []string{"date_of_birth", "email", "phone"}, errs.Fields())
	assert.Equal(t, "Age must be between 16 and 100 years.", errs["date_of_birth"])
}

func TestValidate_WorkReportHours(t *testing.T) {
	w := hostel.WorkReport{UserID: "user-staff", Date: day(2024, 3, 9), Description: "Front desk shift.", HoursWorked: 0}

	errs, _ := newValidator().Validate(w, hostel.NewEnv(now, true))
	assert.Equal(t, generic.FieldErrors{"hours_worked": "Hours worked must be greater than 0 and at most 24."}, errs)

	w.HoursWorked = 24
	errs, _ = newValidator().Validate(w, hostel.NewEnv(now, true))
	assert.True(t, errs.Valid(), "%v", errs)
}

// =============================================================================
// DISPATCH & TRANSITIONS
// =============================================================================

func TestValidator_Check(t *testing.T) {
	err := newValidator().Check(hostel.Building{Name: "A"}, hostel.NewEnv(now, true))
	var vf *generic.ValidationFailedError
	require.ErrorAs(t, err, &vf)
	assert.Equal(t, hostel.KindBuilding, vf.Kind)
	assert.Equal(t, []string{"address", "floors", "name"}, vf.Fields.Fields())
}

func TestValidator_UnknownDraftType(t *testing.T) {
	_, err := newValidator().Validate(struct{}{}, hostel.NewEnv(now, true))
	assert.ErrorIs(t, err, generic.ErrUnknownKind)
}

func TestValidator_Idempotent(t *testing.T) {
	b := validBooking()
	b.CheckOutDate = day(2024, 3, 1)
	v := newValidator()
	first := v.ValidateBooking(b, hostel.NewEnv(now, true))
	assert.Equal(t, first, v.ValidateBooking(b, hostel.NewEnv(now, true)))
}

func TestTransition_OpenByDefault(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Transition(hostel.KindBooking, hostel.BookingCheckedOut, hostel.BookingPending))
	assert.NoError(t, v.Transition(hostel.KindBuilding, "", "anything"))
}

func TestTransition_Strict(t *testing.T) {
	reg := hostel.NewRegistry()
	require.NoError(t, hostel.EnableStrictBookingTransitions(reg))
	v := hostel.NewValidator(reg)

	assert.NoError(t, v.Transition(hostel.KindBooking, hostel.BookingPending, hostel.BookingConfirmed))
	err := v.Transition(hostel.KindBooking, hostel.BookingCheckedOut, hostel.BookingPending)
	assert.ErrorIs(t, err, generic.ErrIllegalTransition)

	// A stored status outside the catalogue does not block fixing the record.
	assert.NoError(t, v.Transition(hostel.KindBooking, "LEGACY", hostel.BookingPending))
}

// =============================================================================
// CATALOGUE
// =============================================================================

func TestCatalogue_EveryOptionHasLabelAndClass(t *testing.T) {
	reg := hostel.NewRegistry()
	for _, name := range reg.Names() {
		opts, err := reg.Options(name)
		require.NoError(t, err)
		require.NotEmpty(t, opts, name)
		for _, o := range opts {
			assert.NotEmpty(t, o.Label, "%s/%s", name, o.Key)
			assert.NotEmpty(t, o.Class, "%s/%s", name, o.Key)
		}
	}
	assert.Equal(t, hostel.EnumPriority, reg.Canonical(hostel.EnumSupportPriority))
}
