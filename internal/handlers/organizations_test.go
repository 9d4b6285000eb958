package handlers

import (
	"fmt"
	"testing"

	"github.com/givebridge/givebridge-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createOrganization(t *testing.T, db *gorm.DB, userID uint, name string) *models.Organization {
	t.Helper()
	org := models.Organization{
		UserID: userID,
		Name:   name,
		Type:   "ngo",
	}
	require.NoError(t, db.Create(&org).Error)
	return &org
}

func TestCreateOrganization(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	_, token := createUser(t, db, "Org1", models.RoleOrganization)

	w := doRequest(r, "POST", "/api/organizations", token, map[string]interface{}{
		"name":        "Helping Hands",
		"type":        "ngo",
		"description": "Community food bank",
		"address": map[string]interface{}{
			"street": "4 Oak Ave", "city": "Springfield", "state": "IL", "zipCode": "62704",
		},
	})
	require.Equal(t, 201, w.Code)

	org := decodeBody(t, w)["organization"].(map[string]interface{})
	assert.Equal(t, "Helping Hands", org["name"])
	assert.Equal(t, false, org["isVerified"])
}

func TestCreateOrganizationOnePerUser(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	_, token := createUser(t, db, "Org1", models.RoleOrganization)

	input := map[string]interface{}{"name": "Helping Hands", "type": "ngo"}

	require.Equal(t, 201, doRequest(r, "POST", "/api/organizations", token, input).Code)

	w := doRequest(r, "POST", "/api/organizations", token, input)
	assert.Equal(t, 400, w.Code)

	var count int64
	db.Model(&models.Organization{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateOrganizationInvalidType(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	_, token := createUser(t, db, "Org1", models.RoleOrganization)

	w := doRequest(r, "POST", "/api/organizations", token, map[string]interface{}{
		"name": "Helping Hands", "type": "crime-ring",
	})
	assert.Equal(t, 400, w.Code)
}

func TestGetAllOrganizationsPublic(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	userA, _ := createUser(t, db, "OrgA", models.RoleOrganization)
	userB, _ := createUser(t, db, "OrgB", models.RoleOrganization)

	createOrganization(t, db, userA.ID, "Alpha Shelter")
	orgB := createOrganization(t, db, userB.ID, "Beta Clinic")
	require.NoError(t, db.Model(orgB).Updates(map[string]interface{}{"type": "charity", "is_verified": true}).Error)

	// No token required.
	w := doRequest(r, "GET", "/api/organizations", "", nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["total"])

	w = doRequest(r, "GET", "/api/organizations?type=charity", "", nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["total"])

	w = doRequest(r, "GET", "/api/organizations?verified=true", "", nil)
	require.Equal(t, 200, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["total"])
	orgs := body["organizations"].([]interface{})
	require.Len(t, orgs, 1)
	assert.Equal(t, "Beta Clinic", orgs[0].(map[string]interface{})["name"])

	w = doRequest(r, "GET", "/api/organizations?type=pyramid", "", nil)
	assert.Equal(t, 400, w.Code)
}

func TestUpdateOrganizationOwnership(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	owner, ownerToken := createUser(t, db, "OrgA", models.RoleOrganization)
	_, otherToken := createUser(t, db, "OrgB", models.RoleOrganization)
	_, adminToken := createUser(t, db, "Admin1", models.RoleAdmin)

	org := createOrganization(t, db, owner.ID, "Alpha Shelter")
	path := fmt.Sprintf("/api/organizations/%d", org.ID)

	w := doRequest(r, "PUT", path, otherToken, map[string]interface{}{"name": "Hijacked"})
	assert.Equal(t, 403, w.Code)

	w = doRequest(r, "PUT", path, ownerToken, map[string]interface{}{"website": "https://alpha.example.com"})
	require.Equal(t, 200, w.Code)

	w = doRequest(r, "PUT", path, adminToken, map[string]interface{}{"description": "Verified partner"})
	require.Equal(t, 200, w.Code)

	var stored models.Organization
	require.NoError(t, db.First(&stored, org.ID).Error)
	assert.Equal(t, "https://alpha.example.com", stored.Website)
	assert.Equal(t, "Verified partner", stored.Description)
	assert.Equal(t, "Alpha Shelter", stored.Name)
}

func TestUpdateItemsNeeded(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	owner, token := createUser(t, db, "OrgA", models.RoleOrganization)
	org := createOrganization(t, db, owner.ID, "Alpha Shelter")
	path := fmt.Sprintf("/api/organizations/%d/needs", org.ID)

	w := doRequest(r, "PUT", path, token, map[string]interface{}{
		"itemsNeeded": []map[string]interface{}{
			{"itemType": "food", "quantity": 20, "urgency": "high"},
			{"itemType": "clothes", "quantity": 10},
		},
	})
	require.Equal(t, 200, w.Code)

	var needs []models.OrganizationNeed
	require.NoError(t, db.Where("organization_id = ?", org.ID).Order("item_type").Find(&needs).Error)
	require.Len(t, needs, 2)
	assert.Equal(t, "clothes", needs[0].ItemType)
	assert.Equal(t, "medium", needs[0].Urgency)
	assert.Equal(t, "food", needs[1].ItemType)
	assert.Equal(t, "high", needs[1].Urgency)

	// The list replaces wholesale.
	w = doRequest(r, "PUT", path, token, map[string]interface{}{
		"itemsNeeded": []map[string]interface{}{
			{"itemType": "books", "quantity": 5},
		},
	})
	require.Equal(t, 200, w.Code)

	require.NoError(t, db.Where("organization_id = ?", org.ID).Find(&needs).Error)
	require.Len(t, needs, 1)
	assert.Equal(t, "books", needs[0].ItemType)

	w = doRequest(r, "PUT", path, token, map[string]interface{}{
		"itemsNeeded": []map[string]interface{}{
			{"itemType": "food", "quantity": 0},
		},
	})
	assert.Equal(t, 400, w.Code)

	w = doRequest(r, "PUT", path, token, map[string]interface{}{
		"itemsNeeded": []map[string]interface{}{
			{"itemType": "food", "quantity": 1, "urgency": "apocalyptic"},
		},
	})
	assert.Equal(t, 400, w.Code)
}

func TestDeleteOrganizationAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	owner, ownerToken := createUser(t, db, "OrgA", models.RoleOrganization)
	_, adminToken := createUser(t, db, "Admin1", models.RoleAdmin)

	org := createOrganization(t, db, owner.ID, "Alpha Shelter")
	require.NoError(t, db.Create(&models.OrganizationNeed{
		OrganizationID: org.ID, ItemType: "food", Quantity: 5, Urgency: "low",
	}).Error)
	path := fmt.Sprintf("/api/organizations/%d", org.ID)

	// Even the owner cannot delete.
	w := doRequest(r, "DELETE", path, ownerToken, nil)
	assert.Equal(t, 403, w.Code)

	w = doRequest(r, "DELETE", path, adminToken, nil)
	require.Equal(t, 200, w.Code)

	var count int64
	db.Model(&models.Organization{}).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.OrganizationNeed{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
