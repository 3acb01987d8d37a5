package ai

import (
	"errors"
	"strings"
	"testing"

	"github.com/huntable/treasurehunt-api/internal/models"
)

func TestStripFencesPlainText(t *testing.T) {
	input := `[{"title": "x"}]`
	if got := stripFences(input); got != input {
		t.Fatalf("expected unchanged text, got %q", got)
	}
}

func TestStripFencesMarkdownBlock(t *testing.T) {
	input := "```json\n[{\"title\": \"x\"}]\n```"
	want := `[{"title": "x"}]`
	if got := stripFences(input); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseGeneratedActivities(t *testing.T) {
	text := `[
		{"title": "Spiral Shell Hunter", "description": "Find a spiral-shaped shell", "ai_validation_prompt": "Photo must show a spiral shell"},
		{"title": "Red Flower Finder", "description": "Find a red flower", "ai_validation_prompt": "Photo must show a red flower", "location": "Centennial Park", "tokens_reward": 3}
	]`

	activities, err := parseGeneratedActivities(text, "Bondi Beach")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	if activities[0].Location != "Bondi Beach" {
		t.Errorf("expected fallback location, got %q", activities[0].Location)
	}
	if activities[0].TokensReward != 1 {
		t.Errorf("expected default reward 1, got %d", activities[0].TokensReward)
	}
	if activities[1].TokensReward != 3 {
		t.Errorf("expected reward 3, got %d", activities[1].TokensReward)
	}
}

func TestParseGeneratedActivitiesMissingFields(t *testing.T) {
	text := `[{"title": "No description"}]`
	_, err := parseGeneratedActivities(text, "Sydney")
	if !errors.Is(err, models.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestParseGeneratedActivitiesMalformed(t *testing.T) {
	_, err := parseGeneratedActivities("not json at all", "Sydney")
	if !errors.Is(err, models.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestParseVerdict(t *testing.T) {
	verdict, err := parseVerdict(`{"valid": false, "reasoning": "no shovel visible"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Valid {
		t.Error("expected invalid verdict")
	}
	if verdict.Reasoning != "no shovel visible" {
		t.Errorf("unexpected reasoning %q", verdict.Reasoning)
	}
}

func TestParseVerdictLeadingChatter(t *testing.T) {
	verdict, err := parseVerdict("Sure! Here is my answer:\n{\"valid\": true, \"reasoning\": \"spiral shell shown\"}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.Valid {
		t.Error("expected valid verdict")
	}
}

func TestParseVerdictEmptyReasoning(t *testing.T) {
	verdict, err := parseVerdict(`{"valid": true}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Reasoning == "" {
		t.Error("expected reasoning placeholder")
	}
}

func TestGenerationPromptMentionsCategoryHints(t *testing.T) {
	prompt := generationPrompt(GenerateRequest{
		Category: models.CategoryBeach,
		AgeMin:   6,
		AgeMax:   9,
		Location: "Manly",
		Count:    5,
	})

	for _, want := range []string{"5 scavenger hunt activities", "aged 6-9", "beach", "Manly", "shells"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
