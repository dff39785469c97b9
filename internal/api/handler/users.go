package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/studylync/studylync/internal/api/models"
	"github.com/studylync/studylync/internal/database"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.db.GetUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToUsers(users, h.config))
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.db.GetUser(c.Request.Context(), c.Param("netId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToUser(*user, h.config))
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := database.User{
		NetID:        req.NetID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.db.CreateUser(c.Request.Context(), &user); err != nil {
		respondError(c, err)
		return
	}

	log.Info("Created user", "user", user.NetID)
	c.JSON(http.StatusCreated, models.ToUser(user, h.config))
}

// Login checks the credentials of a user. No session or token is issued.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.db.GetUser(c.Request.Context(), req.NetID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid NetID or password"})
			return
		}
		respondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Debug("Login failed", "user", req.NetID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid NetID or password"})
		return
	}

	c.JSON(http.StatusOK, models.ToUser(*user, h.config))
}
