package diary

import "github.com/google/uuid"

// contributor looks up userID among the diary's contributors.
func (d *Diary) contributor(userID uuid.UUID) (Contributor, bool) {
	for _, c := range d.Contributors {
		if c.UserID == userID {
			return c, true
		}
	}
	return Contributor{}, false
}

// AuthorizeRead allows the construction owner and every contributor.
func (d *Diary) AuthorizeRead(userID uuid.UUID) error {
	if userID == d.OwnerID {
		return nil
	}
	if _, ok := d.contributor(userID); ok {
		return nil
	}
	return forbidden("user is neither owner nor contributor")
}

// AuthorizeOwner gates owner-only operations (resize window, add contributor).
func (d *Diary) AuthorizeOwner(userID uuid.UUID) error {
	if userID != d.OwnerID {
		return forbidden("only the construction owner may do this")
	}
	return nil
}

// EffectiveRole is the role a write is attributed to. The owner always writes
// as construction manager, even when also listed as a contributor; anyone
// else writes under their registered role.
func (d *Diary) EffectiveRole(userID uuid.UUID) (Role, error) {
	if userID == d.OwnerID {
		return RoleConstructionManager, nil
	}
	if c, ok := d.contributor(userID); ok {
		return c.Role, nil
	}
	return RoleNone, forbidden("user is neither owner nor contributor")
}

// AddContributor registers userID under role. Owner-only; a user id may
// appear at most once and contributors are never removed.
func (d *Diary) AddContributor(requesterID, userID uuid.UUID, role Role) error {
	if err := d.AuthorizeOwner(requesterID); err != nil {
		return err
	}
	if !role.Valid() {
		return badRequest("invalid contributor role %q", role)
	}
	if _, ok := d.contributor(userID); ok {
		return conflict("user is already a contributor")
	}
	d.Contributors = append(d.Contributors, Contributor{UserID: userID, Role: role})
	return nil
}
