package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

// idParam reads a positive numeric path parameter, answering 400 otherwise.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput)
		return 0, false
	}
	return uint(id), true
}

// queryBool returns nil when the parameter is absent.
func queryBool(c *gin.Context, key string) (*bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryUint(c *gin.Context, key string) (*uint, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	id := uint(v)
	return &id, nil
}

func mustUser(c *gin.Context) (*models.User, bool) {
	user, ok := utils.CurrentUser(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, utils.MsgLoginRequired)
		return nil, false
	}
	return user, true
}

// respondError maps storage and service errors onto status codes. notFound is
// the message used for a missing record.
func respondError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, notFound)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, http.StatusForbidden, utils.MsgForbidden)
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

// ownedSalon loads a salon the current user may manage. Admins manage every salon.
func ownedSalon(c *gin.Context, store storage.Storage, user *models.User, salonID uint) (*models.Salon, bool) {
	salon, err := store.GetSalon(c.Request.Context(), salonID)
	if err != nil {
		respondError(c, err, utils.MsgSalonNotFound)
		return nil, false
	}
	if user.Role != models.RoleAdmin && salon.OwnerID != user.ID {
		utils.RespondWithError(c, http.StatusForbidden, utils.MsgForbidden)
		return nil, false
	}
	return salon, true
}
