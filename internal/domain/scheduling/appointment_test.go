package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotAt(t *testing.T, hour, minutes int) Slot {
	t.Helper()
	start := time.Date(2025, 6, 2, hour, 0, 0, 0, time.UTC)
	s, err := NewSlot(start, start.Add(time.Duration(minutes)*time.Minute))
	require.NoError(t, err)
	return s
}

func newTestAppointment(t *testing.T) *Appointment {
	t.Helper()
	a, err := NewAppointment(uuid.New(), uuid.New(), uuid.New(), AppointmentTypeFitting, slotAt(t, 10, 45))
	require.NoError(t, err)
	return a
}

func TestNewSlot(t *testing.T) {
	t.Run("end must be after start", func(t *testing.T) {
		start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
		_, err := NewSlot(start, start)
		assert.Error(t, err)
		_, err = NewSlot(start, start.Add(-time.Hour))
		assert.Error(t, err)
	})

	t.Run("zero times rejected", func(t *testing.T) {
		_, err := NewSlot(time.Time{}, time.Now())
		assert.Error(t, err)
	})

	t.Run("duration", func(t *testing.T) {
		s := slotAt(t, 10, 45)
		assert.Equal(t, 45*time.Minute, s.Duration())
	})
}

func TestSlotOverlaps(t *testing.T) {
	base := slotAt(t, 10, 60) // 10:00-11:00

	tests := []struct {
		name     string
		other    Slot
		overlaps bool
	}{
		{"identical", slotAt(t, 10, 60), true},
		{"contained", Slot{base.Start.Add(15 * time.Minute), base.Start.Add(30 * time.Minute)}, true},
		{"starts inside", Slot{base.Start.Add(30 * time.Minute), base.End.Add(30 * time.Minute)}, true},
		{"ends inside", Slot{base.Start.Add(-30 * time.Minute), base.Start.Add(30 * time.Minute)}, true},
		{"back to back after", Slot{base.End, base.End.Add(time.Hour)}, false},
		{"back to back before", Slot{base.Start.Add(-time.Hour), base.Start}, false},
		{"disjoint", slotAt(t, 14, 60), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, base.Overlaps(tt.other))
			assert.Equal(t, tt.overlaps, tt.other.Overlaps(base))
		})
	}
}

func TestNewAppointment(t *testing.T) {
	t.Run("creates scheduled appointment with event", func(t *testing.T) {
		a := newTestAppointment(t)
		assert.Equal(t, AppointmentStatusScheduled, a.Status)
		assert.Len(t, a.GetDomainEvents(), 1)
	})

	t.Run("rejects missing patient", func(t *testing.T) {
		_, err := NewAppointment(uuid.New(), uuid.Nil, uuid.New(), AppointmentTypeControl, slotAt(t, 10, 30))
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewAppointment(uuid.New(), uuid.New(), uuid.New(), AppointmentType("WALK_IN"), slotAt(t, 10, 30))
		assert.Error(t, err)
	})
}

func TestConflictsWith(t *testing.T) {
	tenantID := uuid.New()
	clinician := uuid.New()

	makeAppt := func(clinicianID uuid.UUID, slot Slot) *Appointment {
		a, err := NewAppointment(tenantID, uuid.New(), clinicianID, AppointmentTypeControl, slot)
		require.NoError(t, err)
		return a
	}

	t.Run("same clinician overlapping slots conflict", func(t *testing.T) {
		a := makeAppt(clinician, slotAt(t, 10, 60))
		b := makeAppt(clinician, slotAt(t, 10, 30))
		assert.True(t, a.ConflictsWith(b))
	})

	t.Run("different clinicians never conflict", func(t *testing.T) {
		a := makeAppt(clinician, slotAt(t, 10, 60))
		b := makeAppt(uuid.New(), slotAt(t, 10, 60))
		assert.False(t, a.ConflictsWith(b))
	})

	t.Run("cancelled appointment frees the slot", func(t *testing.T) {
		a := makeAppt(clinician, slotAt(t, 10, 60))
		b := makeAppt(clinician, slotAt(t, 10, 60))
		require.NoError(t, b.Cancel("patient request"))
		assert.False(t, a.ConflictsWith(b))
	})

	t.Run("appointment does not conflict with itself", func(t *testing.T) {
		a := makeAppt(clinician, slotAt(t, 10, 60))
		assert.False(t, a.ConflictsWith(a))
	})
}

func TestAppointmentLifecycle(t *testing.T) {
	t.Run("confirm then complete", func(t *testing.T) {
		a := newTestAppointment(t)
		require.NoError(t, a.Confirm())
		require.NoError(t, a.Complete("Sağ kulak cihaz ayarı yapıldı"))
		assert.Equal(t, AppointmentStatusCompleted, a.Status)
		assert.NotEmpty(t, a.Notes)
	})

	t.Run("cannot complete unconfirmed", func(t *testing.T) {
		a := newTestAppointment(t)
		assert.Error(t, a.Complete(""))
	})

	t.Run("no-show from scheduled", func(t *testing.T) {
		a := newTestAppointment(t)
		require.NoError(t, a.MarkNoShow())
		assert.Error(t, a.Confirm())
	})

	t.Run("reschedule resets confirmation", func(t *testing.T) {
		a := newTestAppointment(t)
		require.NoError(t, a.Confirm())
		require.NoError(t, a.Reschedule(slotAt(t, 14, 45)))
		assert.Equal(t, AppointmentStatusScheduled, a.Status)
		assert.Equal(t, 14, a.Slot.Start.Hour())
	})

	t.Run("cannot reschedule terminal appointment", func(t *testing.T) {
		a := newTestAppointment(t)
		require.NoError(t, a.Cancel("clinic closed"))
		assert.Error(t, a.Reschedule(slotAt(t, 14, 45)))
	})
}
