package lifecycle

import (
	"testing"

	"github.com/givebridge/givebridge-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func donation(status models.DonationStatus, donorID uint, volunteerID *uint) *models.Donation {
	return &models.Donation{
		DonorID:             donorID,
		ItemType:            "books",
		ItemName:            "Novels",
		Quantity:            5,
		Status:              status,
		AssignedVolunteerID: volunteerID,
	}
}

func ptr(v uint) *uint { return &v }

func TestValidateNew(t *testing.T) {
	tests := []struct {
		name     string
		role     models.UserRole
		itemType string
		itemName string
		quantity int
		wantKind Kind
		wantErr  bool
	}{
		{"donor ok", models.RoleDonor, "books", "Novels", 5, 0, false},
		{"admin ok", models.RoleAdmin, "food", "Rice", 1, 0, false},
		{"volunteer denied", models.RoleVolunteer, "books", "Novels", 5, KindAuthorization, true},
		{"organization denied", models.RoleOrganization, "books", "Novels", 5, KindAuthorization, true},
		{"missing item type", models.RoleDonor, "", "Novels", 5, KindValidation, true},
		{"bad item type", models.RoleDonor, "vehicles", "Truck", 5, KindValidation, true},
		{"missing item name", models.RoleDonor, "books", "", 5, KindValidation, true},
		{"zero quantity", models.RoleDonor, "books", "Novels", 0, KindValidation, true},
		{"negative quantity", models.RoleDonor, "books", "Novels", -3, KindValidation, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNew(tt.role, tt.itemType, tt.itemName, tt.quantity)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestCanAccept(t *testing.T) {
	t.Run("approved and unassigned", func(t *testing.T) {
		assert.NoError(t, CanAccept(donation(models.DonationStatusApproved, 1, nil)))
	})

	t.Run("pending is not available", func(t *testing.T) {
		err := CanAccept(donation(models.DonationStatusPending, 1, nil))
		assert.Equal(t, KindInvalidState, KindOf(err))
	})

	t.Run("already assigned", func(t *testing.T) {
		d := donation(models.DonationStatusApproved, 1, ptr(7))
		err := CanAccept(d)
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("terminal states", func(t *testing.T) {
		for _, status := range []models.DonationStatus{
			models.DonationStatusDelivered,
			models.DonationStatusCompleted,
			models.DonationStatusCancelled,
		} {
			err := CanAccept(donation(status, 1, nil))
			assert.Error(t, err, string(status))
		}
	})
}

func TestCanComplete(t *testing.T) {
	t.Run("assigned volunteer completes", func(t *testing.T) {
		assert.NoError(t, CanComplete(donation(models.DonationStatusAssigned, 1, ptr(7)), 7))
	})

	t.Run("picked-up completes too", func(t *testing.T) {
		assert.NoError(t, CanComplete(donation(models.DonationStatusPickedUp, 1, ptr(7)), 7))
	})

	t.Run("other volunteer denied", func(t *testing.T) {
		err := CanComplete(donation(models.DonationStatusAssigned, 1, ptr(7)), 8)
		assert.Equal(t, KindAuthorization, KindOf(err))
	})

	t.Run("unassigned denied", func(t *testing.T) {
		err := CanComplete(donation(models.DonationStatusApproved, 1, nil), 7)
		assert.Equal(t, KindAuthorization, KindOf(err))
	})

	t.Run("already delivered", func(t *testing.T) {
		err := CanComplete(donation(models.DonationStatusDelivered, 1, ptr(7)), 7)
		assert.Equal(t, KindInvalidState, KindOf(err))
	})
}

func TestCanTransition(t *testing.T) {
	const donorID = 1
	const volunteerID = 7

	t.Run("undefined status rejected for everyone", func(t *testing.T) {
		d := donation(models.DonationStatusPending, donorID, nil)
		err := CanTransition(d, 99, models.RoleAdmin, "flying")
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("organization approves pending", func(t *testing.T) {
		d := donation(models.DonationStatusPending, donorID, nil)
		assert.NoError(t, CanTransition(d, 42, models.RoleOrganization, models.DonationStatusApproved))
	})

	t.Run("donor cannot approve", func(t *testing.T) {
		d := donation(models.DonationStatusPending, donorID, nil)
		err := CanTransition(d, donorID, models.RoleDonor, models.DonationStatusApproved)
		assert.Equal(t, KindAuthorization, KindOf(err))
	})

	t.Run("owner cancels", func(t *testing.T) {
		d := donation(models.DonationStatusPending, donorID, nil)
		assert.NoError(t, CanTransition(d, donorID, models.RoleDonor, models.DonationStatusCancelled))
	})

	t.Run("non-owner cannot cancel", func(t *testing.T) {
		d := donation(models.DonationStatusPending, donorID, nil)
		err := CanTransition(d, 99, models.RoleDonor, models.DonationStatusCancelled)
		assert.Equal(t, KindAuthorization, KindOf(err))
	})

	t.Run("assigned requires accept-task", func(t *testing.T) {
		d := donation(models.DonationStatusApproved, donorID, ptr(volunteerID))
		err := CanTransition(d, volunteerID, models.RoleVolunteer, models.DonationStatusAssigned)
		assert.Equal(t, KindAuthorization, KindOf(err))
	})

	t.Run("assigned volunteer marks picked-up then delivered", func(t *testing.T) {
		d := donation(models.DonationStatusAssigned, donorID, ptr(volunteerID))
		assert.NoError(t, CanTransition(d, volunteerID, models.RoleVolunteer, models.DonationStatusPickedUp))

		d.Status = models.DonationStatusPickedUp
		assert.NoError(t, CanTransition(d, volunteerID, models.RoleVolunteer, models.DonationStatusDelivered))
	})

	t.Run("other volunteer cannot advance the task", func(t *testing.T) {
		d := donation(models.DonationStatusAssigned, donorID, ptr(volunteerID))
		err := CanTransition(d, 8, models.RoleVolunteer, models.DonationStatusPickedUp)
		assert.Equal(t, KindAuthorization, KindOf(err))
	})

	t.Run("volunteer statuses need an assigned volunteer", func(t *testing.T) {
		d := donation(models.DonationStatusApproved, donorID, nil)
		for _, status := range []models.DonationStatus{
			models.DonationStatusAssigned,
			models.DonationStatusPickedUp,
			models.DonationStatusDelivered,
			models.DonationStatusCompleted,
		} {
			err := CanTransition(d, 99, models.RoleAdmin, status)
			assert.Equal(t, KindConflict, KindOf(err), string(status))
		}
	})

	t.Run("admin override within defined statuses", func(t *testing.T) {
		d := donation(models.DonationStatusDelivered, donorID, ptr(volunteerID))
		assert.NoError(t, CanTransition(d, 99, models.RoleAdmin, models.DonationStatusCompleted))
	})

	t.Run("terminal states have no guarded exits", func(t *testing.T) {
		for _, status := range []models.DonationStatus{
			models.DonationStatusDelivered,
			models.DonationStatusCompleted,
			models.DonationStatusCancelled,
		} {
			d := donation(status, donorID, nil)
			err := CanTransition(d, donorID, models.RoleDonor, models.DonationStatusApproved)
			assert.Error(t, err, string(status))
		}
	})
}

func TestStatusEnumMembership(t *testing.T) {
	defined := []string{"pending", "approved", "assigned", "picked-up", "delivered", "completed", "cancelled"}
	for _, s := range defined {
		assert.True(t, models.ValidDonationStatus(s), s)
	}
	for _, s := range []string{"", "Pending", "picked_up", "done", "rejected"} {
		assert.False(t, models.ValidDonationStatus(s), s)
	}

	// Every guarded transition target stays inside the enum.
	for from, nexts := range transitions {
		assert.True(t, models.ValidDonationStatus(string(from)))
		for _, to := range nexts {
			assert.True(t, models.ValidDonationStatus(string(to)))
		}
	}
}
