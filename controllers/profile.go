package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"salonbook-backend/models"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateProfileInput struct {
	Name           *string `json:"name" binding:"omitempty,min=1"`
	Email          *string `json:"email" binding:"omitempty,email"`
	PhoneNumber    *string `json:"phoneNumber" binding:"omitempty,phone"`
	Gender         *string `json:"gender" binding:"omitempty,oneof=male female"`
	Language       *string `json:"language" binding:"omitempty,oneof=ar en"`
	Preferences    *string `json:"preferences"`
	PrivateProfile *bool   `json:"privateProfile"`
	ProfileImage   *string `json:"profileImage"`
}

// MembershipStatus is the caller's loyalty standing.
type MembershipStatus struct {
	LoyaltyPoints    int                    `json:"loyaltyPoints"`
	CurrentTier      *models.MembershipTier `json:"currentTier"`
	NextTier         *models.MembershipTier `json:"nextTier,omitempty"`
	PointsToNextTier int                    `json:"pointsToNextTier"`
}

type ProfileController struct {
	store storage.Storage
}

func NewProfileController(store storage.Storage) *ProfileController {
	return &ProfileController{store: store}
}

func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	current, ok := mustUser(c)
	if !ok {
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}

	ctx := c.Request.Context()
	user, err := pc.store.GetUser(ctx, current.ID)
	if err != nil {
		respondError(c, err, utils.MsgUserNotFound)
		return
	}

	// Update fields
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.Language != nil {
		user.Language = *input.Language
	}
	if input.Preferences != nil {
		user.Preferences = *input.Preferences
	}
	if input.PrivateProfile != nil {
		user.PrivateProfile = *input.PrivateProfile
	}
	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}

	if err := pc.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			utils.RespondWithError(c, http.StatusBadRequest, utils.MsgUserExists)
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": utils.MsgProfileUpdated, "user": user})
}

func (pc *ProfileController) Membership(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	tiers, err := pc.store.ListMembershipTiers(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusOK, membershipStatus(user.LoyaltyPoints, tiers))
}

func membershipStatus(points int, tiers []models.MembershipTier) MembershipStatus {
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].PointsThreshold < tiers[j].PointsThreshold })

	status := MembershipStatus{LoyaltyPoints: points}
	for i := range tiers {
		if tiers[i].PointsThreshold <= points {
			status.CurrentTier = &tiers[i]
			continue
		}
		status.NextTier = &tiers[i]
		status.PointsToNextTier = tiers[i].PointsThreshold - points
		break
	}
	return status
}
