package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/storage"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	DefaultRecommendationLimit = 3
	MaxRecommendationLimit     = 5

	fallbackReason = "Based on your preferences and popular services in your area"

	welcomeArabic  = "أهلاً بك في تطبيق الصالون!"
	welcomeEnglish = "Welcome to our salon app!"
)

var DefaultSuggestedTimes = []string{"10:00 AM", "02:00 PM", "05:30 PM"}

// TextGenerator is the external language model. The reply is expected to be
// JSON when jsonOutput is set.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string, jsonOutput bool) (string, error)
}

type Recommendation struct {
	ServiceID   uint   `json:"serviceId" validate:"required"`
	ServiceName string `json:"serviceName" validate:"required"`
	Score       int    `json:"score" validate:"min=0,max=100"`
	Reason      string `json:"reason" validate:"required"`
}

type RecommendationRequest struct {
	SalonID     *uint
	Preferences []string
	Limit       int
}

type RecommendationService struct {
	store     storage.Storage
	generator TextGenerator
	log       *zap.Logger
	validate  *validator.Validate
	now       func() time.Time
}

// NewRecommendationService accepts a nil generator, in which case every call
// uses the fallback answers.
func NewRecommendationService(store storage.Storage, generator TextGenerator, log *zap.Logger) *RecommendationService {
	return &RecommendationService{
		store:     store,
		generator: generator,
		log:       log,
		validate:  validator.New(),
		now:       time.Now,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecommendationLimit
	}
	if limit > MaxRecommendationLimit {
		return MaxRecommendationLimit
	}
	return limit
}

// Recommend returns at most limit services for the user, best first. Model
// failures of any kind degrade to the first candidates in list order.
func (s *RecommendationService) Recommend(ctx context.Context, user *models.User, req RecommendationRequest) ([]Recommendation, error) {
	limit := clampLimit(req.Limit)

	var candidates []models.Service
	var err error
	if req.SalonID != nil {
		candidates, err = s.store.ListServices(ctx, *req.SalonID, storage.ServiceFilter{})
	} else {
		candidates, err = s.store.ListAllServices(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load candidate services: %w", err)
	}
	if len(candidates) == 0 {
		return []Recommendation{}, nil
	}

	history, err := s.store.ListBookingsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load booking history: %w", err)
	}

	recs, err := s.ask(ctx, user, history, candidates, req, limit)
	if err != nil {
		s.log.Info("using fallback recommendations", zap.Uint("user_id", user.ID), zap.Error(err))
		recs = fallbackRecommendations(candidates, limit)
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *RecommendationService) ask(ctx context.Context, user *models.User, history []models.Booking, candidates []models.Service, req RecommendationRequest, limit int) ([]Recommendation, error) {
	if s.generator == nil {
		return nil, errors.New("no text generator configured")
	}
	reply, err := s.generator.Generate(ctx, recommendationSystemPrompt,
		recommendationPrompt(user, history, candidates, req, limit), true)
	if err != nil {
		return nil, err
	}
	recs, err := parseRecommendations(reply)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("model returned no recommendations")
	}

	known := make(map[uint]bool, len(candidates))
	for _, c := range candidates {
		known[c.ID] = true
	}
	for i := range recs {
		if err := s.validate.Struct(recs[i]); err != nil {
			return nil, fmt.Errorf("recommendation %d: %w", i, err)
		}
		if !known[recs[i].ServiceID] {
			return nil, fmt.Errorf("recommendation %d: unknown service %d", i, recs[i].ServiceID)
		}
	}
	return recs, nil
}

func fallbackRecommendations(candidates []models.Service, limit int) []Recommendation {
	n := min(limit, len(candidates))
	recs := make([]Recommendation, 0, n)
	for i := 0; i < n; i++ {
		recs = append(recs, Recommendation{
			ServiceID:   candidates[i].ID,
			ServiceName: candidates[i].DisplayName(),
			Score:       90 - i*10,
			Reason:      fallbackReason,
		})
	}
	return recs
}

// WelcomeMessage greets the user in their preferred language.
func (s *RecommendationService) WelcomeMessage(ctx context.Context, user *models.User, recs []Recommendation) string {
	fallback := welcomeEnglish
	if user.PrefersArabic() {
		fallback = welcomeArabic
	}
	if s.generator == nil {
		return fallback
	}

	language := "English"
	if user.PrefersArabic() {
		language = "Arabic"
	}
	system := fmt.Sprintf(welcomeSystemPrompt, language)

	names := make([]string, 0, len(recs))
	for _, r := range recs {
		names = append(names, r.ServiceName)
	}
	prompt := fmt.Sprintf("User: %s\nGender: %s\nRecommendations: %s\n",
		user.Name, orNotSpecified(user.Gender), strings.Join(names, ", "))

	reply, err := s.generator.Generate(ctx, system, prompt, false)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			s.log.Info("using fallback welcome message", zap.Uint("user_id", user.ID), zap.Error(err))
		}
		return fallback
	}
	return strings.TrimSpace(reply)
}

// SuggestTimes proposes three appointment times formatted like "10:00 AM".
func (s *RecommendationService) SuggestTimes(ctx context.Context, user *models.User, service *models.Service) []string {
	defaults := append([]string(nil), DefaultSuggestedTimes...)
	if s.generator == nil {
		return defaults
	}

	now := s.now()
	dayKind := "weekday"
	if wd := now.Weekday(); wd == time.Friday || wd == time.Saturday {
		dayKind = "weekend"
	}
	system := fmt.Sprintf(timesSystemPrompt, now.Format("2006-01-02"), dayKind)
	prompt := fmt.Sprintf("Service: %s\nService duration: %d minutes\nUser gender: %s\n",
		service.DisplayName(), service.Duration, orNotSpecified(user.Gender))

	reply, err := s.generator.Generate(ctx, system, prompt, true)
	if err != nil {
		s.log.Info("using default suggested times", zap.Uint("user_id", user.ID), zap.Error(err))
		return defaults
	}
	times, err := parseTimes(reply)
	if err != nil || len(times) == 0 {
		return defaults
	}
	return times
}

// parseRecommendations reads {"recommendations": [...]} and, failing that,
// any top-level value that looks like one recommendation or a list of them.
func parseRecommendations(reply string) ([]Recommendation, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleanJSON(reply)), &top); err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}

	if raw, ok := top["recommendations"]; ok {
		var items []modelRecommendation
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("parse recommendations: %w", err)
		}
		return convertRecommendations(items), nil
	}

	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var items []modelRecommendation
	for _, k := range keys {
		var one modelRecommendation
		if err := json.Unmarshal(top[k], &one); err == nil && one.ServiceID != nil {
			items = append(items, one)
			continue
		}
		var many []modelRecommendation
		if err := json.Unmarshal(top[k], &many); err == nil {
			for _, m := range many {
				if m.ServiceID != nil {
					items = append(items, m)
				}
			}
		}
	}
	return convertRecommendations(items), nil
}

// modelRecommendation tolerates numbers sent as strings.
type modelRecommendation struct {
	ServiceID   *flexInt `json:"serviceId"`
	ServiceName string   `json:"serviceName"`
	Score       flexInt  `json:"score"`
	Reason      string   `json:"reason"`
}

func convertRecommendations(items []modelRecommendation) []Recommendation {
	out := make([]Recommendation, 0, len(items))
	for _, m := range items {
		r := Recommendation{ServiceName: m.ServiceName, Score: int(m.Score), Reason: m.Reason}
		if m.ServiceID != nil && *m.ServiceID > 0 {
			r.ServiceID = uint(*m.ServiceID)
		}
		out = append(out, r)
	}
	return out
}

type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}

func parseTimes(reply string) ([]string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleanJSON(reply)), &top); err != nil {
		var list []string
		if err2 := json.Unmarshal([]byte(cleanJSON(reply)), &list); err2 == nil {
			return list, nil
		}
		return nil, err
	}
	for _, key := range []string{"times", "suggestions"} {
		var list []string
		if raw, ok := top[key]; ok && json.Unmarshal(raw, &list) == nil {
			return list, nil
		}
	}
	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var list []string
		if json.Unmarshal(top[k], &list) == nil {
			return list, nil
		}
	}
	return nil, errors.New("no time list in reply")
}

// cleanJSON strips a markdown code fence around a JSON reply.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}
