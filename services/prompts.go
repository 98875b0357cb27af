package services

import (
	"fmt"
	"strings"

	"salonbook-backend/models"
)

const recommendationSystemPrompt = `You are an AI assistant for a salon booking application in Saudi Arabia.
Your task is to recommend salon services based on user preferences, booking history, and available services.
Provide culturally appropriate recommendations, respecting gender-specific preferences.
Answer with a JSON object of the form {"recommendations": [{"serviceId": number, "serviceName": string, "score": number, "reason": string}]}.`

const welcomeSystemPrompt = `You are a welcoming virtual assistant for a salon booking app in Saudi Arabia.
Generate a personalized welcome message for the user that is warm, culturally appropriate, and mentions recommended services.
The message should be in %s.
Keep the message concise (maximum 2 sentences).`

const timesSystemPrompt = `You are a scheduling assistant for a salon in Saudi Arabia.
Suggest 3 appropriate appointment times for a user booking a salon service.
Consider the time of day, day of week, and cultural norms in Saudi Arabia.
Today is %s, which is a %s.
Return only the times as a JSON object {"times": [...]} of strings formatted as "HH:MM AM/PM".`

func recommendationPrompt(user *models.User, history []models.Booking, candidates []models.Service, req RecommendationRequest, limit int) string {
	var b strings.Builder

	b.WriteString("User profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", user.Name)
	fmt.Fprintf(&b, "- Gender: %s\n", orNotSpecified(user.Gender))
	fmt.Fprintf(&b, "- Preferences: %s\n", orNotSpecified(user.Preferences))
	fmt.Fprintf(&b, "- Previous bookings: %d services booked\n", len(history))
	if len(history) > 0 {
		recent := make([]string, 0, len(history))
		for _, h := range history {
			recent = append(recent, fmt.Sprintf("%d (%s)", h.ServiceID, h.Date.Format("2006-01-02")))
		}
		fmt.Fprintf(&b, "- Recent bookings: %s\n", strings.Join(recent, ", "))
	}
	extra := "None specified"
	if len(req.Preferences) > 0 {
		extra = strings.Join(req.Preferences, ", ")
	}
	fmt.Fprintf(&b, "- Additional preferences: %s\n", extra)

	b.WriteString("\nAvailable services to recommend from:\n")
	for i, svc := range candidates {
		desc := svc.DescriptionEn
		if desc == "" {
			desc = svc.Description
		}
		fmt.Fprintf(&b, "%d. ID: %d, Name: %s, Category: %s, Price: %.2f SAR, Duration: %d minutes, Description: %s\n",
			i+1, svc.ID, svc.DisplayName(), svc.Category, svc.EffectivePrice(), svc.Duration, desc)
	}

	b.WriteString("\nConstraints:\n")
	if req.SalonID != nil {
		fmt.Fprintf(&b, "- Only recommend services from salon ID: %d\n", *req.SalonID)
	}
	if user.Gender != "" {
		fmt.Fprintf(&b, "- Consider user gender: %s\n", user.Gender)
	}
	b.WriteString("- Only use service IDs from the list above\n")
	b.WriteString("- Return recommendations in JSON format\n")
	b.WriteString("- Prioritize services that match the user's preferences and past bookings\n")
	b.WriteString("- Consider cultural relevance for Saudi Arabian context\n\n")

	fmt.Fprintf(&b, "Please recommend %d salon services for this user. For each recommendation, include the service ID, "+
		"service name, a score from 0 to 100 indicating relevance, and a brief reason for the recommendation.", limit)
	return b.String()
}
