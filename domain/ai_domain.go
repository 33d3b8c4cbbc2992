package domain

import (
	"errors"
)

var (
	MessageSuccessGetNudges        = "nudges retrieved successfully"
	MessageSuccessListingAssistant = "listing suggestion generated successfully"
	MessageSuccessGenerateRecipe   = "recipe generated successfully"

	MessageFailedGetNudges        = "failed to retrieve nudges"
	MessageFailedListingAssistant = "failed to generate listing suggestion"
	MessageFailedGenerateRecipe   = "failed to generate recipe"

	ErrGeminiAPIFailed        = errors.New("gemini API request failed")
	ErrGeminiInvalidJSON      = errors.New("gemini response is not valid JSON")
	ErrGeminiNotConfigured    = errors.New("GEMINI_API_KEY is not configured")
	ErrNoActiveInventoryItems = errors.New("no active inventory items to cook with")
)

type (
	Nudge struct {
		ID             string `json:"id"`
		Headline       string `json:"headline"`
		SupportingCopy string `json:"supportingCopy"`
		DefaultLabel   string `json:"defaultLabel"`
	}

	NudgesResponse struct {
		Nudges []Nudge `json:"nudges"`
		Source string  `json:"source"` // live or fallback
	}

	ListingAssistRequest struct {
		Title         string   `json:"title" validate:"omitempty"`
		QuantityLabel string   `json:"quantityLabel" validate:"omitempty"`
		Allergens     []string `json:"allergens" validate:"omitempty,dive,oneof=gluten dairy nuts peanuts soy eggs fish shellfish sesame"`
		Notes         string   `json:"notes" validate:"omitempty"`
		ExpiryDate    string   `json:"expiryDate" validate:"omitempty"`
	}

	ListingSuggestion struct {
		TitleSuggestion    string   `json:"titleSuggestion"`
		QuantityLabel      string   `json:"quantityLabel"`
		PickupWindowLabel  string   `json:"pickupWindowLabel"`
		PickupLocationHint string   `json:"pickupLocationHint"`
		ImpactNarrative    string   `json:"impactNarrative"`
		Tags               []string `json:"tags"`
	}

	ListingAssistResponse struct {
		Suggestion ListingSuggestion `json:"suggestion"`
		Source     string            `json:"source"` // live or fallback
	}

	Recipe struct {
		Name               string   `json:"name"`
		Description        string   `json:"description"`
		Ingredients        []string `json:"ingredients"`
		Instructions       []string `json:"instructions"`
		CookingTimeMinutes *int     `json:"cooking_time_minutes,omitempty"`
		Difficulty         string   `json:"difficulty,omitempty"`
		Servings           *int     `json:"servings,omitempty"`
		Tags               []string `json:"tags,omitempty"`
		ImageURL           *string  `json:"image_url,omitempty"`
	}

	// BarcodeItem is the strict shape Gemini must return for barcode ingestion.
	BarcodeItem struct {
		Name          string   `json:"name"`
		Quantity      float64  `json:"quantity"`
		BaseUnit      string   `json:"base_unit"`
		EstExpiryDate string   `json:"est_expiry_date"`
		CostEstimate  float64  `json:"cost_estimate,omitempty"`
		Allergens     []string `json:"allergens,omitempty"`
		Categories    []string `json:"categories,omitempty"`
	}
)
