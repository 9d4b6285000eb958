package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/givebridge/givebridge-backend/internal/database"
	"github.com/givebridge/givebridge-backend/internal/middleware"
	"github.com/givebridge/givebridge-backend/internal/models"
	"github.com/givebridge/givebridge-backend/internal/services"
	"github.com/givebridge/givebridge-backend/pkg/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	// One named in-memory database per test; a single connection keeps
	// concurrent handler calls serialized the way a server-side pool
	// would against sqlite.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func setupRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	hub := services.NewHub()

	r := gin.New()
	api := r.Group("/api")

	api.POST("/auth/register", Register(db))
	api.POST("/auth/login", Login(db))

	api.GET("/organizations", GetAllOrganizations(db))
	api.GET("/organizations/:id", GetOrganizationByID(db))

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		users := protected.Group("/users")
		{
			users.GET("", middleware.RequireRoles(models.RoleAdmin), GetAllUsers(db))
			users.GET("/:id", GetUserByID(db))
			users.PUT("/:id", UpdateUser(db))
			users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), DeleteUser(db))
		}

		donations := protected.Group("/donations")
		{
			donations.POST("", middleware.RequireRoles(models.RoleDonor, models.RoleAdmin), CreateDonation(db))
			donations.GET("", GetAllDonations(db))
			donations.GET("/my-donations", GetMyDonations(db))
			donations.GET("/:id", GetDonationByID(db))
			donations.PUT("/:id", UpdateDonation(db))
			donations.PUT("/:id/status", UpdateDonationStatus(db, hub))
			donations.POST("/:id/images", UploadDonationImages(db))
			donations.DELETE("/:id", DeleteDonation(db))
		}

		volunteers := protected.Group("/volunteers")
		{
			volunteers.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleOrganization), GetAllVolunteers(db))
			volunteers.GET("/available-tasks", middleware.RequireRoles(models.RoleVolunteer), GetAvailableTasks(db))
			volunteers.GET("/my-tasks", middleware.RequireRoles(models.RoleVolunteer), GetMyTasks(db))
			volunteers.POST("/accept-task/:donationId", middleware.RequireRoles(models.RoleVolunteer), AcceptTask(db, hub))
			volunteers.PUT("/complete-task/:donationId", middleware.RequireRoles(models.RoleVolunteer), CompleteTask(db, hub))
		}

		organizations := protected.Group("/organizations")
		{
			organizations.POST("", middleware.RequireRoles(models.RoleOrganization, models.RoleAdmin), CreateOrganization(db))
			organizations.PUT("/:id", middleware.RequireRoles(models.RoleOrganization, models.RoleAdmin), UpdateOrganization(db))
			organizations.PUT("/:id/needs", middleware.RequireRoles(models.RoleOrganization, models.RoleAdmin), UpdateItemsNeeded(db))
			organizations.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), DeleteOrganization(db))
		}

		protected.GET("/lookup/places", GetNearbyPlaces())
	}

	return r
}

// createUser inserts a user and returns it with a valid token.
func createUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) (*models.User, string) {
	t.Helper()

	user := models.User{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: "secret123",
		Role:     role,
	}
	require.NoError(t, user.HashPassword())
	require.NoError(t, db.Create(&user).Error)

	// utils.GenerateToken reads JWT_SECRET from the environment, which
	// setupRouter sets per test.
	token, err := utils.GenerateToken(&user)
	require.NoError(t, err)
	return &user, token
}

func doRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// setupStorage points image uploads at a per-test directory.
func setupStorage(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_REGION", "")
	t.Setenv("UPLOAD_DIR", t.TempDir())
	t.Setenv("BASE_URL", "http://localhost:8080")
	require.NoError(t, services.InitStorage())
}

// doMultipart sends a multipart form with the given fields and imageCount
// fake image files under the "images" key.
func doMultipart(t *testing.T, r *gin.Engine, method, path, token string, fields map[string]string, imageCount int) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	for i := 0; i < imageCount; i++ {
		part, err := mw.CreateFormFile("images", fmt.Sprintf("photo%d.jpg", i))
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// createDonation inserts a donation directly, bypassing the HTTP layer.
func createDonation(t *testing.T, db *gorm.DB, donorID uint, status models.DonationStatus) *models.Donation {
	t.Helper()
	donation := models.Donation{
		DonorID:  donorID,
		ItemType: "food",
		ItemName: "Canned goods",
		Quantity: 3,
		Status:   status,
	}
	require.NoError(t, db.Create(&donation).Error)
	return &donation
}
