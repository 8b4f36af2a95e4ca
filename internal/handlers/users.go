package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/callify/signaling/internal/store"
)

// userProfile is the public projection of a user record.
type userProfile struct {
	ID         string `json:"_id"`
	FullName   string `json:"fullname,omitempty"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilepic,omitempty"`
}

func profileOf(u *store.User) userProfile {
	return userProfile{
		ID:         u.ID,
		FullName:   u.FullName,
		Username:   u.Username,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
	}
}

// ListUsers returns every registered user except the caller, for the
// contact list the dashboard places calls from.
func ListUsers(users store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentID := c.GetString("user_id")

		all, err := users.ListExcept(c.Request.Context(), currentID)
		if err != nil {
			logrus.Errorf("Failed to list users: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list users"})
			return
		}

		profiles := make([]userProfile, 0, len(all))
		for _, u := range all {
			profiles = append(profiles, profileOf(u))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "users": profiles})
	}
}

// GetUser returns a single user by ID.
func GetUser(users store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindByID(c.Request.Context(), c.Param("id"))
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": profileOf(user)})
	}
}

// SearchUser finds a user by exact username or email.
func SearchUser(users store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("query")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Query is required."})
			return
		}

		user, err := users.Search(c.Request.Context(), query)
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": profileOf(user)})
	}
}
