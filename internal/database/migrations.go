package database

import (
	"gorm.io/gorm"
)

// applyConstraints adds the enum CHECK constraints AutoMigrate does not
// generate. Safe to run repeatedly.
func applyConstraints(db *gorm.DB) error {
	statements := []struct {
		drop string
		add  string
	}{
		{
			drop: `ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`,
			add: `ALTER TABLE users ADD CONSTRAINT users_role_check
				CHECK (role IN ('donor', 'volunteer', 'organization', 'admin'))`,
		},
		{
			drop: `ALTER TABLE donations DROP CONSTRAINT IF EXISTS donations_status_check`,
			add: `ALTER TABLE donations ADD CONSTRAINT donations_status_check
				CHECK (status IN ('pending', 'approved', 'assigned', 'picked-up', 'delivered', 'completed', 'cancelled'))`,
		},
		{
			drop: `ALTER TABLE donations DROP CONSTRAINT IF EXISTS donations_item_type_check`,
			add: `ALTER TABLE donations ADD CONSTRAINT donations_item_type_check
				CHECK (item_type IN ('clothes', 'food', 'books', 'toys', 'electronics', 'furniture', 'medical', 'other'))`,
		},
		{
			drop: `ALTER TABLE donations DROP CONSTRAINT IF EXISTS donations_condition_check`,
			add: `ALTER TABLE donations ADD CONSTRAINT donations_condition_check
				CHECK (condition IN ('new', 'like-new', 'good', 'fair'))`,
		},
		{
			drop: `ALTER TABLE organizations DROP CONSTRAINT IF EXISTS organizations_type_check`,
			add: `ALTER TABLE organizations ADD CONSTRAINT organizations_type_check
				CHECK (type IN ('ngo', 'charity', 'foundation', 'community', 'religious', 'other'))`,
		},
		{
			drop: `ALTER TABLE organization_needs DROP CONSTRAINT IF EXISTS organization_needs_urgency_check`,
			add: `ALTER TABLE organization_needs ADD CONSTRAINT organization_needs_urgency_check
				CHECK (urgency IN ('low', 'medium', 'high', 'critical'))`,
		},
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt.drop).Error; err != nil {
			return err
		}
		if err := db.Exec(stmt.add).Error; err != nil {
			return err
		}
	}

	return nil
}
