package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"leftys-backend/domain"
	"leftys-backend/entities"
	"leftys-backend/pkg/gemini"
	"leftys-backend/pkg/inventory"
)

type (
	// AssistService backs every Gemini-powered surface. Nudges and listing
	// suggestions degrade to canned content when the model is unavailable;
	// recipe generation and barcode ingestion return the error instead.
	AssistService interface {
		GetNudges(ctx context.Context, ownerID string) (domain.NudgesResponse, error)
		SuggestListing(ctx context.Context, req domain.ListingAssistRequest) (domain.ListingAssistResponse, error)
		GenerateRecipes(ctx context.Context, ownerID string) ([]domain.Recipe, error)
		BarcodeToItem(ctx context.Context, barcodeData map[string]interface{}) (domain.BarcodeItem, error)
	}

	assistService struct {
		gemini              gemini.Client
		inventoryRepository inventory.InventoryRepository
	}
)

func NewAssistService(geminiClient gemini.Client, inventoryRepository inventory.InventoryRepository) AssistService {
	return &assistService{
		gemini:              geminiClient,
		inventoryRepository: inventoryRepository,
	}
}

func (s *assistService) GetNudges(ctx context.Context, ownerID string) (domain.NudgesResponse, error) {
	items, err := s.inventoryRepository.FindExpiringItemsByOwner(ctx, ownerID, 10*24*time.Hour)
	if err != nil {
		return domain.NudgesResponse{}, err
	}

	if len(items) == 0 || !s.gemini.Configured() {
		return domain.NudgesResponse{Nudges: fallbackNudges(items), Source: "fallback"}, nil
	}

	prompt := nudgesPrompt(items)
	text, err := s.gemini.Generate(ctx, prompt)
	if err != nil {
		log.Printf("nudge generation failed, serving fallback: %v", err)
		return domain.NudgesResponse{Nudges: fallbackNudges(items), Source: "fallback"}, nil
	}

	raw, err := gemini.ExtractJSON(text)
	if err != nil {
		return domain.NudgesResponse{Nudges: fallbackNudges(items), Source: "fallback"}, nil
	}

	var nudges []domain.Nudge
	if err := json.Unmarshal([]byte(raw), &nudges); err != nil || len(nudges) == 0 {
		return domain.NudgesResponse{Nudges: fallbackNudges(items), Source: "fallback"}, nil
	}

	for i := range nudges {
		if nudges[i].ID == "" {
			nudges[i].ID = fmt.Sprintf("nudge-%d", i+1)
		}
	}

	return domain.NudgesResponse{Nudges: nudges, Source: "live"}, nil
}

func (s *assistService) SuggestListing(ctx context.Context, req domain.ListingAssistRequest) (domain.ListingAssistResponse, error) {
	if !s.gemini.Configured() {
		return domain.ListingAssistResponse{Suggestion: fallbackListing(req), Source: "fallback"}, nil
	}

	text, err := s.gemini.Generate(ctx, listingPrompt(req))
	if err != nil {
		log.Printf("listing suggestion failed, serving fallback: %v", err)
		return domain.ListingAssistResponse{Suggestion: fallbackListing(req), Source: "fallback"}, nil
	}

	raw, err := gemini.ExtractJSON(text)
	if err != nil {
		return domain.ListingAssistResponse{Suggestion: fallbackListing(req), Source: "fallback"}, nil
	}

	var suggestion domain.ListingSuggestion
	if err := json.Unmarshal([]byte(raw), &suggestion); err != nil {
		return domain.ListingAssistResponse{Suggestion: fallbackListing(req), Source: "fallback"}, nil
	}

	if suggestion.TitleSuggestion == "" {
		suggestion.TitleSuggestion = fallbackListing(req).TitleSuggestion
	}
	if suggestion.QuantityLabel == "" {
		suggestion.QuantityLabel = fallbackListing(req).QuantityLabel
	}

	return domain.ListingAssistResponse{Suggestion: suggestion, Source: "live"}, nil
}

func (s *assistService) GenerateRecipes(ctx context.Context, ownerID string) ([]domain.Recipe, error) {
	items, err := s.inventoryRepository.FindActiveItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrNoActiveInventoryItems
	}

	text, err := s.gemini.Generate(ctx, recipesPrompt(items))
	if err != nil {
		return nil, err
	}

	raw, err := gemini.ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var recipes []domain.Recipe
	if err := json.Unmarshal([]byte(raw), &recipes); err != nil {
		return nil, domain.ErrGeminiInvalidJSON
	}
	if len(recipes) == 0 {
		return nil, domain.ErrGeminiInvalidJSON
	}

	for i := range recipes {
		if recipes[i].Difficulty == "" {
			recipes[i].Difficulty = "medium"
		}
	}

	return recipes, nil
}

func (s *assistService) BarcodeToItem(ctx context.Context, barcodeData map[string]interface{}) (domain.BarcodeItem, error) {
	text, err := s.gemini.Generate(ctx, barcodePrompt(barcodeData))
	if err != nil {
		return domain.BarcodeItem{}, err
	}

	raw, err := gemini.ExtractJSON(text)
	if err != nil {
		return domain.BarcodeItem{}, err
	}

	var item domain.BarcodeItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return domain.BarcodeItem{}, domain.ErrGeminiInvalidJSON
	}

	return normalizeBarcodeItem(item)
}

// normalizeBarcodeItem enforces the strict ingestion schema and coerces a
// past expiry date forward; stale package data is common in barcode lookups.
func normalizeBarcodeItem(item domain.BarcodeItem) (domain.BarcodeItem, error) {
	if item.Name == "" {
		return domain.BarcodeItem{}, domain.ErrGeminiInvalidJSON
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	switch item.BaseUnit {
	case "g", "kg", "oz", "lb", "ml", "L", "pieces":
	default:
		item.BaseUnit = "pieces"
	}

	expiry, err := time.Parse("2006-01-02", item.EstExpiryDate)
	if err != nil || expiry.Before(time.Now()) {
		expiry = time.Now().AddDate(0, 0, 7)
	}
	item.EstExpiryDate = expiry.Format("2006-01-02")

	if item.CostEstimate < 0 {
		item.CostEstimate = 0
	}

	return item, nil
}

func nudgesPrompt(items []*entities.InventoryItem) string {
	summaries := make([]string, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, fmt.Sprintf("%s (%.1f %s, expires %s)",
			item.Name, item.RemainingQuantity, item.BaseUnit, item.EstExpiryDate.Format("2006-01-02")))
	}

	return fmt.Sprintf(
		"You write short, encouraging prompts for a neighborhood food-sharing app. "+
			"The user has these items expiring soon: %s. "+
			"Generate up to 3 nudges encouraging them to share or use the items. "+
			"Respond with only a valid JSON array of objects with fields: "+
			"id, headline, supportingCopy, defaultLabel. "+
			"Keep headlines under 8 words and copy under 20 words. "+
			"Do not include any text outside of the JSON array.",
		strings.Join(summaries, "; "),
	)
}

func listingPrompt(req domain.ListingAssistRequest) string {
	reqJSON, _ := json.Marshal(req)
	return fmt.Sprintf(
		"You help people describe surplus food they want to give away to neighbors. "+
			"Given this partial listing: %s, "+
			"produce a complete, friendly listing suggestion. "+
			"Respond with only a valid JSON object with fields: "+
			"titleSuggestion, quantityLabel, pickupWindowLabel, pickupLocationHint, impactNarrative, tags. "+
			"tags is an array of up to 3 short lowercase strings. "+
			"Do not include any text outside of the JSON object.",
		string(reqJSON),
	)
}

func recipesPrompt(items []*entities.InventoryItem) string {
	ingredients := make([]map[string]interface{}, 0, len(items))
	now := time.Now()
	for _, item := range items {
		ingredients = append(ingredients, map[string]interface{}{
			"name":            item.Name,
			"quantity":        item.RemainingQuantity,
			"unit":            item.BaseUnit,
			"expiryDate":      item.EstExpiryDate.Format("2006-01-02"),
			"daysUntilExpiry": int(item.EstExpiryDate.Sub(now).Hours() / 24),
		})
	}
	ingredientsJSON, _ := json.Marshal(ingredients)

	return fmt.Sprintf(
		"You are a professional chef specializing in recipes that reduce food waste. "+
			"Given the following ingredients (with quantities, units, and expiry dates): %s, "+
			"generate 3 realistic recipes that prioritize the ingredients closest to expiry. "+
			"Respond with only a valid JSON array of recipe objects with fields: "+
			"name, description, ingredients, instructions, cooking_time_minutes, difficulty, servings, tags. "+
			"ingredients and instructions are arrays of strings. "+
			"Do not include any explanations or text outside of the JSON array.",
		string(ingredientsJSON),
	)
}

func barcodePrompt(barcodeData map[string]interface{}) string {
	dataJSON, _ := json.Marshal(barcodeData)
	return fmt.Sprintf(
		"You convert scanned grocery barcode payloads into pantry inventory items. "+
			"Given this barcode lookup data: %s, "+
			"infer the product and respond with only a valid JSON object with fields: "+
			"name, quantity, base_unit, est_expiry_date, cost_estimate. "+
			"base_unit must be one of: g, kg, oz, lb, ml, L, pieces. "+
			"est_expiry_date must be a future date formatted YYYY-MM-DD, "+
			"estimated from typical shelf life for the product category. "+
			"Do not include any text outside of the JSON object.",
		string(dataJSON),
	)
}

func fallbackNudges(items []*entities.InventoryItem) []domain.Nudge {
	if len(items) == 0 {
		return []domain.Nudge{
			{
				ID:             "nudge-stock",
				Headline:       "Your pantry is all caught up",
				SupportingCopy: "Add items to your inventory to get reminders before they expire.",
				DefaultLabel:   "Add an item",
			},
		}
	}

	nudges := make([]domain.Nudge, 0, 3)
	for i, item := range items {
		if i == 3 {
			break
		}
		days := int(time.Until(item.EstExpiryDate).Hours() / 24)
		supporting := fmt.Sprintf("Your %s expires in %d days. Share it before it goes to waste.", item.Name, days)
		if days <= 1 {
			supporting = fmt.Sprintf("Your %s expires soon. Share it today before it goes to waste.", item.Name)
		}
		nudges = append(nudges, domain.Nudge{
			ID:             fmt.Sprintf("nudge-%d", i+1),
			Headline:       fmt.Sprintf("Use your %s soon", item.Name),
			SupportingCopy: supporting,
			DefaultLabel:   "Create a posting",
		})
	}
	return nudges
}

func fallbackListing(req domain.ListingAssistRequest) domain.ListingSuggestion {
	title := req.Title
	if title == "" {
		title = "Surplus groceries to share"
	}
	quantity := req.QuantityLabel
	if quantity == "" {
		quantity = "1 bag"
	}

	return domain.ListingSuggestion{
		TitleSuggestion:    title,
		QuantityLabel:      quantity,
		PickupWindowLabel:  "Today, next few hours",
		PickupLocationHint: "Porch pickup, details after claim",
		ImpactNarrative:    fmt.Sprintf("Redirects %s from waste • Helps a neighbor nearby", quantity),
		Tags:               []string{"surplus"},
	}
}
