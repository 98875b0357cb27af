package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

type PromotionInput struct {
	SalonID         *uint     `json:"salonId"`
	Code            string    `json:"code" binding:"required,min=3,max=32"`
	Title           string    `json:"title" binding:"required"`
	TitleEn         string    `json:"titleEn"`
	DiscountPercent float64   `json:"discountPercent" binding:"required,gt=0,lte=100"`
	StartsAt        time.Time `json:"startsAt" binding:"required"`
	EndsAt          time.Time `json:"endsAt" binding:"required,gtfield=StartsAt"`
	IsActive        *bool     `json:"isActive"`
}

type MembershipTierInput struct {
	Name            string  `json:"name" binding:"required"`
	NameEn          string  `json:"nameEn"`
	PointsThreshold int     `json:"pointsThreshold" binding:"gte=0"`
	DiscountPercent float64 `json:"discountPercent" binding:"gte=0,lte=100"`
	Benefits        string  `json:"benefits"`
}

type PromotionController struct {
	store storage.Storage
}

func NewPromotionController(store storage.Storage) *PromotionController {
	return &PromotionController{store: store}
}

func (pc *PromotionController) ListPromotions(c *gin.Context) {
	salonID, err := queryUint(c, "salonId")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}
	active, err := queryBool(c, "isActive")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}
	promotions, err := pc.store.ListPromotions(c.Request.Context(), storage.PromotionFilter{SalonID: salonID, IsActive: active})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusOK, promotions)
}

func (pc *PromotionController) GetByCode(c *gin.Context) {
	promotion, err := pc.store.GetPromotionByCode(c.Request.Context(), normalizeCode(c.Param("code")))
	if err != nil {
		respondError(c, err, utils.MsgPromotionNotFound)
		return
	}
	c.JSON(http.StatusOK, promotion)
}

// CreatePromotion stores a salon promotion. Promotions without a salon apply
// platform wide and only admins may create them.
func (pc *PromotionController) CreatePromotion(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var input PromotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}
	if !pc.canManage(c, user, input.SalonID) {
		return
	}

	promotion := models.Promotion{IsActive: true}
	input.apply(&promotion)
	if err := pc.store.CreatePromotion(c.Request.Context(), &promotion); err != nil {
		pc.respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promotion)
}

func (pc *PromotionController) UpdatePromotion(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input PromotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}

	ctx := c.Request.Context()
	promotion, err := pc.store.GetPromotion(ctx, id)
	if err != nil {
		respondError(c, err, utils.MsgPromotionNotFound)
		return
	}
	if !pc.canManage(c, user, promotion.SalonID) || !pc.canManage(c, user, input.SalonID) {
		return
	}

	input.apply(promotion)
	if err := pc.store.UpdatePromotion(ctx, promotion); err != nil {
		pc.respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, promotion)
}

func (pc *PromotionController) ListMembershipTiers(c *gin.Context) {
	tiers, err := pc.store.ListMembershipTiers(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusOK, tiers)
}

func (pc *PromotionController) GetMembershipTier(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tier, err := pc.store.GetMembershipTier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, utils.MsgTierNotFound)
		return
	}
	c.JSON(http.StatusOK, tier)
}

func (pc *PromotionController) CreateMembershipTier(c *gin.Context) {
	var input MembershipTierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}
	tier := models.MembershipTier{
		Name:            input.Name,
		NameEn:          input.NameEn,
		PointsThreshold: input.PointsThreshold,
		DiscountPercent: input.DiscountPercent,
		Benefits:        input.Benefits,
	}
	if err := pc.store.CreateMembershipTier(c.Request.Context(), &tier); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusCreated, tier)
}

func (pc *PromotionController) canManage(c *gin.Context, user *models.User, salonID *uint) bool {
	if salonID == nil {
		if user.Role != models.RoleAdmin {
			utils.RespondWithError(c, http.StatusForbidden, utils.MsgForbidden)
			return false
		}
		return true
	}
	_, ok := ownedSalon(c, pc.store, user, *salonID)
	return ok
}

func (pc *PromotionController) respondWriteError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrDuplicate) {
		utils.RespondWithError(c, http.StatusConflict, utils.MsgPromotionCodeTaken)
		return
	}
	respondError(c, err, utils.MsgPromotionNotFound)
}

func (in PromotionInput) apply(p *models.Promotion) {
	p.SalonID = in.SalonID
	p.Code = normalizeCode(in.Code)
	p.Title = in.Title
	p.TitleEn = in.TitleEn
	p.DiscountPercent = in.DiscountPercent
	p.StartsAt = in.StartsAt
	p.EndsAt = in.EndsAt
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
