package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/callify/signaling/internal/middleware"
	"github.com/callify/signaling/internal/store"
)

const tokenTTL = 24 * time.Hour

// SignUpRequest is the signup request body.
type SignUpRequest struct {
	FullName   string `json:"fullname" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Gender     string `json:"gender"`
	ProfilePic string `json:"profilepic"`
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the profile + token returned by signup and login.
type AuthResponse struct {
	ID         string `json:"_id"`
	FullName   string `json:"fullname"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilepic"`
	Message    string `json:"message"`
	Token      string `json:"token"`
}

// SignUp registers a new user, hashing the password with bcrypt and
// issuing a session token.
func SignUp(users store.Store, jwtSecret string, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create user"})
			return
		}

		profilePic := req.ProfilePic
		if profilePic == "" {
			profilePic = store.DefaultAvatar(req.Username, req.Gender)
		}

		user := &store.User{
			ID:           uuid.New().String(),
			FullName:     req.FullName,
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
			Gender:       req.Gender,
			ProfilePic:   profilePic,
		}

		if err := users.Create(c.Request.Context(), user); err != nil {
			if err == store.ErrDuplicate {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username or email already exists"})
				return
			}
			logrus.Errorf("Failed to create user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create user"})
			return
		}

		token, err := issueToken(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
			return
		}
		setSessionCookie(c, token, secureCookies)

		logrus.WithField("user", user.ID).Info("User registered")

		c.JSON(http.StatusCreated, AuthResponse{
			ID:         user.ID,
			FullName:   user.FullName,
			Username:   user.Username,
			Email:      user.Email,
			ProfilePic: user.ProfilePic,
			Message:    "User registered successfully",
			Token:      token,
		})
	}
}

// Login verifies credentials and issues a session token.
func Login(users store.Store, jwtSecret string, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), req.Email)
		if err == store.ErrNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email doesn't exist. Please register first."})
			return
		}
		if err != nil {
			logrus.Errorf("Failed to look up user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Login failed"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}

		token, err := issueToken(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
			return
		}
		setSessionCookie(c, token, secureCookies)

		c.JSON(http.StatusOK, AuthResponse{
			ID:         user.ID,
			FullName:   user.FullName,
			Username:   user.Username,
			Email:      user.Email,
			ProfilePic: user.ProfilePic,
			Message:    "Successfully logged in",
			Token:      token,
		})
	}
}

// Logout clears the session cookie.
func Logout(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(middleware.CookieName, "", -1, "/", "", secureCookies, true)
		c.JSON(http.StatusOK, gin.H{"message": "User logged out"})
	}
}

func issueToken(userID, jwtSecret string) (string, error) {
	claims := middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func setSessionCookie(c *gin.Context, token string, secure bool) {
	c.SetCookie(middleware.CookieName, token, int(tokenTTL.Seconds()), "/", "", secure, true)
}
