package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	recs *services.RecommendationService
}

func NewRecommendationController(recs *services.RecommendationService) *RecommendationController {
	return &RecommendationController{recs: recs}
}

// Recommendations answers {recommendations, message}. limit defaults to 3 and
// is capped at 5; preferences is a comma separated list.
func (rc *RecommendationController) Recommendations(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	req, err := recommendationRequest(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}

	ctx := c.Request.Context()
	recs, err := rc.recs.Recommend(ctx, user, req)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgRecommendFailed, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"message":         rc.recs.WelcomeMessage(ctx, user, recs),
	})
}

// WelcomeMessage answers {message, recommendations} for the home screen.
func (rc *RecommendationController) WelcomeMessage(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	recs, err := rc.recs.Recommend(ctx, user, services.RecommendationRequest{})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgRecommendFailed, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         rc.recs.WelcomeMessage(ctx, user, recs),
		"recommendations": recs,
	})
}

func recommendationRequest(c *gin.Context) (services.RecommendationRequest, error) {
	var req services.RecommendationRequest
	salonID, err := queryUint(c, "salonId")
	if err != nil {
		return req, err
	}
	req.SalonID = salonID

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return req, err
		}
		req.Limit = limit
	}
	for _, p := range strings.Split(c.Query("preferences"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			req.Preferences = append(req.Preferences, p)
		}
	}
	return req, nil
}
