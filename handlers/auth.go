package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"expense-tracker/api/auth"
	"expense-tracker/api/models"
	"expense-tracker/api/mongodb"
)

const tokenCookie = "token"

// HandleRegister creates an account and signs the new user in.
func (h *Handler) HandleRegister(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields required"})
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields required"})
		return
	}

	hash, err := auth.HashPassword(req.Password, h.opts.BcryptCost)
	if err != nil {
		serverError(c, "error hashing password", err)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := h.users.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, mongodb.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
			return
		}
		serverError(c, "error creating user", err)
		return
	}

	h.issueSession(c, user, http.StatusCreated)
}

// HandleLogin verifies credentials and signs the user in. Unknown email
// and wrong password produce the same response.
func (h *Handler) HandleLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	user, err := h.users.UserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		serverError(c, "error fetching user", err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.issueSession(c, user, http.StatusOK)
}

// HandleMe returns the authenticated user's profile.
func (h *Handler) HandleMe(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.users.UserByID(c.Request.Context(), id)
	if err != nil {
		notFoundOrServerError(c, "error fetching user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": user.Name, "email": user.Email})
}

// HandleLogout clears the session cookie. Tokens are stateless, so a
// copy held by the client stays valid until expiry.
func (h *Handler) HandleLogout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, "", -1, "/", "", h.opts.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// issueSession mints a token, sets it as an http-only cookie, and writes
// the auth response body.
func (h *Handler) issueSession(c *gin.Context, user *models.User, status int) {
	token, err := h.tokens.Mint(user.ID.Hex())
	if err != nil {
		serverError(c, "error minting token", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, int(auth.TokenTTL.Seconds()), "/", "", h.opts.SecureCookies, true)

	c.JSON(status, gin.H{
		"id":    user.ID.Hex(),
		"name":  user.Name,
		"email": user.Email,
		"token": token,
	})
}
