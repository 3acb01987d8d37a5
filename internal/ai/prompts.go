package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huntable/treasurehunt-api/internal/models"
)

var categoryHints = map[models.Category]string{
	models.CategoryBeach:  "shells, sea glass, driftwood, pebbles, feathers, seaweed, interesting rocks",
	models.CategoryBush:   "leaves with specific shapes, bark textures, seed pods, flowers, feathers, nuts, gumnuts",
	models.CategoryGarden: "leaves by shape or color, flowers by color, seeds, petals, insects (e.g. butterfly), stones",
	models.CategoryCity:   "objects of a specific shape and color, signs, textures, patterns, street art, plants in parks",
}

// generationPrompt builds the object-hunt prompt sent to the text model
func generationPrompt(req GenerateRequest) string {
	hints, ok := categoryHints[req.Category]
	if !ok {
		hints = "natural or urban objects"
	}

	return fmt.Sprintf(`Generate %d scavenger hunt activities for kids aged %d-%d.
Category: %s
Location/area: %s

Each activity must be a "find an object" task that the kid can photograph. Use objects like: %s.

Rules:
- Be specific: include shape, color, or texture (e.g. "find a leaf shaped like a heart", "find a shell that is spiral-shaped and white", "find something round and blue").
- Age %d-7: simpler (e.g. "find a red flower", "find a smooth stone").
- Age 8-12: can be more specific (e.g. "find a leaf with 5 pointed edges", "find a shell with stripes").
- The kid will take a photo of the object they find; AI will validate that the photo shows the correct object.

For each activity provide:
- title: Short catchy title (e.g. "Spiral Shell Hunter")
- description: Clear instruction for the kid (e.g. "Find a spiral-shaped shell on the beach")
- ai_validation_prompt: Exact criteria for photo validation - object type, shape, and/or color the AI must see (e.g. "Photo must show a spiral or coiled shell, not flat or broken")
- location: Specific place if applicable

Return JSON array only, no markdown.`,
		req.Count, req.AgeMin, req.AgeMax, req.Category, req.Location, hints, req.AgeMin)
}

// validationPrompt builds the vision prompt for judging a completion photo
func validationPrompt(activityDescription, criteria string) string {
	return fmt.Sprintf(`You are validating a photo for a kids scavenger hunt activity.
The kid was asked to find an object and take a photo of it.

Activity: %s
Validation criteria (what the photo must show): %s

Check:
1. Does the photo clearly show the required object (correct type, shape, color)?
2. Is it a real photo of a physical object (not a screenshot, drawing, or stock image)?
3. Is it appropriate for a kids app?

Respond with JSON only: {"valid": true/false, "reasoning": "brief explanation"}`,
		activityDescription, criteria)
}

// stripFences removes a markdown code fence wrapper, which models emit
// even when told not to
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	if i := strings.LastIndex(text, "```"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// parseGeneratedActivities decodes a model response into activities,
// enforcing required fields
func parseGeneratedActivities(text string, fallbackLocation string) ([]GeneratedActivity, error) {
	var activities []GeneratedActivity
	if err := json.Unmarshal([]byte(stripFences(text)), &activities); err != nil {
		return nil, fmt.Errorf("%w: malformed generation response: %v", models.ErrUpstream, err)
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("%w: generation response contained no activities", models.ErrUpstream)
	}

	for i := range activities {
		a := &activities[i]
		if a.Title == "" || a.Description == "" || a.ValidationPrompt == "" {
			return nil, fmt.Errorf("%w: generated activity missing required fields", models.ErrUpstream)
		}
		if a.Location == "" {
			a.Location = fallbackLocation
		}
		if a.TokensReward <= 0 {
			a.TokensReward = 1
		}
	}

	return activities, nil
}

// parseVerdict decodes a vision model response
func parseVerdict(text string) (*Verdict, error) {
	cleaned := stripFences(text)
	if i := strings.Index(cleaned, "{"); i > 0 {
		cleaned = cleaned[i:]
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(cleaned), &verdict); err != nil {
		return nil, fmt.Errorf("%w: malformed validation response: %v", models.ErrUpstream, err)
	}
	if verdict.Reasoning == "" {
		verdict.Reasoning = "No reasoning provided"
	}
	return &verdict, nil
}
