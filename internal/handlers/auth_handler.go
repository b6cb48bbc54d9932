package handlers

import (
	"errors"
	"net/http"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/store"
	"diagnostics-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Signup(c *gin.Context) {
	var input models.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Debug().Err(err).Msg("signup rejected")
		utils.Text(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		h.serverError(c, err, "Signup failed due to server error")
		return
	}

	user := models.User{Email: input.Email, Password: hashed}
	if err := h.store.Users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.Text(c, http.StatusConflict, "Email already exists")
			return
		}
		h.serverError(c, err, "Signup failed due to server error")
		return
	}

	utils.Text(c, http.StatusCreated, "User created successfully")
}

func (h *Handler) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Debug().Err(err).Msg("login rejected")
		utils.Text(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.store.Users.FindByEmail(c.Request.Context(), input.Email)
	if errors.Is(err, store.ErrNotFound) {
		utils.Text(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.serverError(c, err, "Login failed due to server error")
		return
	}

	if !utils.CheckPassword(input.Password, user.Password) {
		utils.Text(c, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := utils.GenerateToken(h.opts.TokenSecret, user.ID.Hex(), h.opts.TokenTTL)
	if err != nil {
		h.serverError(c, err, "Login failed due to server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth": true, "token": token})
}
