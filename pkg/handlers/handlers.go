package handlers

import (
	"net/http"

	"github.com/SinaZyx/timesheet/pkg/auth"
	"github.com/SinaZyx/timesheet/pkg/database"
	"github.com/SinaZyx/timesheet/pkg/session"
	"github.com/SinaZyx/timesheet/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB       *gorm.DB
	Store    *store.TimesheetStore
	Sessions *session.Manager
}

// New wires a handler set over a database connection.
func New(db *gorm.DB) *Handler {
	st := store.New(db)
	return &Handler{
		DB:       db,
		Store:    st,
		Sessions: session.NewManager(st),
	}
}

// AuthMiddleware verifies the JWT token and exposes the subject identity
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("fullName", claims.FullName)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminMiddleware gates a route group to admin profiles. Runs after
// AuthMiddleware.
func (h *Handler) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role.(database.Role) != database.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ServiceKeyMiddleware verifies the HMAC service key for integration routes
func (h *Handler) ServiceKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Service key required"})
			c.Abort()
			return
		}

		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		name, err := auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid service key signature"})
			c.Abort()
			return
		}

		// Fetch or create the key record to track usage
		var serviceKey database.ServiceKey
		h.DB.Where(database.ServiceKey{Key: key}).FirstOrCreate(&serviceKey, database.ServiceKey{
			Key:  key,
			Name: name,
		})

		c.Set("serviceKey", &serviceKey)
		c.Next()
	}
}

// Register creates a new employee profile and signs it in
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
		return
	}

	profile := database.Profile{
		ID:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         database.RoleEmployee,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	token, err := auth.CreateToken(&profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"access_token": token, "token_type": "bearer"})
}

// Login exchanges credentials for a JWT
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile database.Profile
	if err := h.DB.Where("email = ?", req.Email).First(&profile).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, profile.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.CreateToken(&profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Me returns the signed-in profile
func (h *Handler) Me(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var profile database.Profile
	if err := h.DB.First(&profile, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        profile.ID,
		"email":     profile.Email,
		"full_name": profile.FullName,
		"role":      profile.Role,
	})
}

// displayName resolves the export name hint for the signed-in subject.
func (h *Handler) displayName(c *gin.Context) string {
	if name, exists := c.Get("fullName"); exists {
		if s, ok := name.(string); ok && s != "" {
			return s
		}
	}
	userID := c.MustGet("userID").(uuid.UUID)
	var profile database.Profile
	if err := h.DB.First(&profile, "id = ?", userID).Error; err != nil {
		return "Inconnu"
	}
	return auth.DisplayName(&profile)
}
