package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koopstadt/impactcheck/internal/auth"
	"github.com/koopstadt/impactcheck/internal/entities"
)

// UserStore defines database operations for user administration.
type UserStore interface {
	CreateUser(username, email string, role entities.Role, municipalityID uint) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
}

type UsersController struct {
	store UserStore
}

func NewUsersController(store UserStore) *UsersController {
	return &UsersController{store: store}
}

// Me returns the authenticated principal.
// GET /api/users/me
func (uc *UsersController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, auth.CurrentUser(c))
}

// CreateUser creates a user in a municipality. Superusers only.
// POST /api/admin/users
func (uc *UsersController) CreateUser(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil || !user.IsSuperuser {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "superuser required"})
		return
	}

	var req struct {
		Username       string        `json:"username" binding:"required"`
		Email          string        `json:"email" binding:"required"`
		Role           entities.Role `json:"role" binding:"required"`
		MunicipalityID uint          `json:"municipality_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username, email, role and municipality_id are required")
		return
	}

	created, err := uc.store.CreateUser(req.Username, req.Email, req.Role, req.MunicipalityID)
	if err != nil {
		respondRepositoryError(c, err, "create user")
		return
	}

	// The token is only revealed once, at creation time.
	c.JSON(http.StatusCreated, gin.H{"user": created, "token": created.Token})
}
