// Package lifecycle holds the donation state machine: which status
// transitions are allowed, and who may trigger them. It is pure decision
// logic; persistence stays with the callers.
package lifecycle

import (
	"github.com/givebridge/givebridge-backend/internal/models"
)

// transitions is the guarded table for status changes driven through the
// generic status endpoint. Terminal states (delivered, completed,
// cancelled) have no outgoing edges.
var transitions = map[models.DonationStatus][]models.DonationStatus{
	models.DonationStatusPending:  {models.DonationStatusApproved, models.DonationStatusCancelled},
	models.DonationStatusApproved: {models.DonationStatusAssigned, models.DonationStatusCancelled},
	models.DonationStatusAssigned: {models.DonationStatusPickedUp, models.DonationStatusDelivered, models.DonationStatusCancelled},
	models.DonationStatusPickedUp: {models.DonationStatusDelivered, models.DonationStatusCancelled},
}

func transitionAllowed(from, to models.DonationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateNew checks the fields of a donation about to be created.
// Status is always forced to pending by the caller, never taken as input.
func ValidateNew(role models.UserRole, itemType, itemName string, quantity int) error {
	if role != models.RoleDonor && role != models.RoleAdmin {
		return Authorization("Only donors can create donations")
	}
	if itemType == "" {
		return Validation("Item type is required")
	}
	if !models.ValidItemType(itemType) {
		return Validation("Invalid item type")
	}
	if itemName == "" {
		return Validation("Item name is required")
	}
	if quantity < 1 {
		return Validation("Quantity must be at least 1")
	}
	return nil
}

// CanAccept checks whether a volunteer may take the donation as a task.
// Callers must still perform the assignment as an atomic check-and-set
// against storage; this only produces the user-facing refusal.
func CanAccept(d *models.Donation) error {
	if d.Status != models.DonationStatusApproved {
		return InvalidState("This donation is not available for pickup")
	}
	if d.AssignedVolunteerID != nil {
		return Conflict("This task is already assigned to another volunteer")
	}
	return nil
}

// CanComplete checks whether volunteerID may mark the donation delivered.
func CanComplete(d *models.Donation, volunteerID uint) error {
	if d.AssignedVolunteerID == nil || *d.AssignedVolunteerID != volunteerID {
		return Authorization("Not authorized to complete this task")
	}
	if d.Status != models.DonationStatusAssigned && d.Status != models.DonationStatusPickedUp {
		return InvalidState("This task is not in progress")
	}
	return nil
}

// CanTransition checks a generic status change requested by actorID.
// Admins may force any defined status as long as the volunteer-assignment
// invariant holds; everyone else is held to the guarded transition table
// for their role.
func CanTransition(d *models.Donation, actorID uint, role models.UserRole, next models.DonationStatus) error {
	if !models.ValidDonationStatus(string(next)) {
		return Validation("Invalid donation status")
	}

	if next.RequiresVolunteer() && d.AssignedVolunteerID == nil {
		return Conflict("Donation has no assigned volunteer")
	}

	if role == models.RoleAdmin {
		return nil
	}

	if !transitionAllowed(d.Status, next) {
		return InvalidState("Donation cannot move from " + string(d.Status) + " to " + string(next))
	}

	switch next {
	case models.DonationStatusApproved:
		if role != models.RoleOrganization {
			return Authorization("Not authorized to approve this donation")
		}
	case models.DonationStatusCancelled:
		if d.DonorID != actorID {
			return Authorization("Not authorized to cancel this donation")
		}
	case models.DonationStatusPickedUp, models.DonationStatusDelivered:
		if d.AssignedVolunteerID == nil || *d.AssignedVolunteerID != actorID {
			return Authorization("Not authorized to update this task")
		}
	default:
		// assigned must go through the accept-task check-and-set
		return Authorization("Not authorized to set this status")
	}
	return nil
}

// CanEdit checks whether actorID may change the donation's fields.
func CanEdit(d *models.Donation, actorID uint, role models.UserRole) error {
	if d.DonorID != actorID && role != models.RoleAdmin {
		return Authorization("Not authorized to update this donation")
	}
	return nil
}

// CanDelete checks whether actorID may remove the donation.
func CanDelete(d *models.Donation, actorID uint, role models.UserRole) error {
	if d.DonorID != actorID && role != models.RoleAdmin {
		return Authorization("Not authorized to delete this donation")
	}
	return nil
}
