package story

import (
	"fmt"

	"github.com/shonenloop/story-api/internal/llm"
	"github.com/shonenloop/story-api/internal/models"
)

// Validate checks a normalized object against the story beat schema and
// returns the typed response. Types must match exactly - no coercion.
// Unknown extra fields are ignored; missing required fields fail. The error
// reports the first mismatch with its JSON path.
func Validate(parsed map[string]any) (*models.StoryResponse, error) {
	beatObj, err := getObject(parsed, "", "beat")
	if err != nil {
		return nil, err
	}
	beat, err := validateBeat(beatObj)
	if err != nil {
		return nil, err
	}

	panelObj, err := getObject(parsed, "", "storyPanel")
	if err != nil {
		return nil, err
	}
	panel, err := validatePanel(panelObj)
	if err != nil {
		return nil, err
	}

	imagePrompt, err := getString(parsed, "", "imagePrompt")
	if err != nil {
		return nil, err
	}
	recapLine, err := getString(parsed, "", "recapLine")
	if err != nil {
		return nil, err
	}
	nextSignal, err := getString(parsed, "", "nextSignal")
	if err != nil {
		return nil, err
	}

	return &models.StoryResponse{
		Beat:        *beat,
		StoryPanel:  *panel,
		ImagePrompt: imagePrompt,
		RecapLine:   recapLine,
		NextSignal:  nextSignal,
	}, nil
}

func validateBeat(obj map[string]any) (*models.StoryBeat, error) {
	beat := &models.StoryBeat{}

	stringFields := []struct {
		key  string
		dest *string
	}{
		{"title", &beat.Title},
		{"text", &beat.Text},
		{"mood", &beat.Mood},
		{"location", &beat.Location},
		{"hook", &beat.Hook},
		{"turn", &beat.Turn},
		{"cliffhanger", &beat.Cliffhanger},
	}
	for _, f := range stringFields {
		value, err := getString(obj, "beat", f.key)
		if err != nil {
			return nil, err
		}
		*f.dest = value
	}

	choicesRaw, err := getArray(obj, "beat", "choices")
	if err != nil {
		return nil, err
	}
	if len(choicesRaw) != models.ChoiceCount {
		return nil, violation("beat.choices",
			fmt.Sprintf("expected exactly %d entries, got %d", models.ChoiceCount, len(choicesRaw)))
	}

	seen := make(map[models.ChoiceID]bool, models.ChoiceCount)
	for i, raw := range choicesRaw {
		path := fmt.Sprintf("beat.choices[%d]", i)
		choiceObj, ok := raw.(map[string]any)
		if !ok {
			return nil, violation(path, "expected an object")
		}

		idText, err := getString(choiceObj, path, "id")
		if err != nil {
			return nil, err
		}
		id := models.ChoiceID(idText)
		if !models.ValidChoiceID(id) {
			return nil, violation(path+".id", fmt.Sprintf("expected one of A, B, C, got %q", idText))
		}
		if seen[id] {
			return nil, violation(path+".id", fmt.Sprintf("duplicate choice id %q", idText))
		}
		seen[id] = true

		text, err := getString(choiceObj, path, "text")
		if err != nil {
			return nil, err
		}
		tone, err := getString(choiceObj, path, "tone")
		if err != nil {
			return nil, err
		}

		beat.Choices = append(beat.Choices, models.Choice{ID: id, Text: text, Tone: tone})
	}

	return beat, nil
}

func validatePanel(obj map[string]any) (*models.StoryPanel, error) {
	panel := &models.StoryPanel{}

	itemsRaw, err := getArray(obj, "storyPanel", "keyItems")
	if err != nil {
		return nil, err
	}
	for i, raw := range itemsRaw {
		path := fmt.Sprintf("storyPanel.keyItems[%d]", i)
		itemObj, ok := raw.(map[string]any)
		if !ok {
			return nil, violation(path, "expected an object")
		}
		name, err := getString(itemObj, path, "name")
		if err != nil {
			return nil, err
		}
		note, err := getString(itemObj, path, "note")
		if err != nil {
			return nil, err
		}
		panel.KeyItems = append(panel.KeyItems, models.KeyItem{Name: name, Note: note})
	}

	threadObj, err := getObject(obj, "storyPanel", "currentThread")
	if err != nil {
		return nil, err
	}
	panel.CurrentThread.Focus, err = getString(threadObj, "storyPanel.currentThread", "focus")
	if err != nil {
		return nil, err
	}
	panel.CurrentThread.Leads, err = getStringArray(threadObj, "storyPanel.currentThread", "leads")
	if err != nil {
		return nil, err
	}

	peopleRaw, err := getArray(obj, "storyPanel", "people")
	if err != nil {
		return nil, err
	}
	for i, raw := range peopleRaw {
		path := fmt.Sprintf("storyPanel.people[%d]", i)
		personObj, ok := raw.(map[string]any)
		if !ok {
			return nil, violation(path, "expected an object")
		}
		name, err := getString(personObj, path, "name")
		if err != nil {
			return nil, err
		}
		status, err := getString(personObj, path, "status")
		if err != nil {
			return nil, err
		}
		note, err := getString(personObj, path, "note")
		if err != nil {
			return nil, err
		}
		panel.People = append(panel.People, models.Person{Name: name, Status: status, Note: note})
	}

	abilitiesRaw, err := getArray(obj, "storyPanel", "abilities")
	if err != nil {
		return nil, err
	}
	for i, raw := range abilitiesRaw {
		path := fmt.Sprintf("storyPanel.abilities[%d]", i)
		abilityObj, ok := raw.(map[string]any)
		if !ok {
			return nil, violation(path, "expected an object")
		}
		name, err := getString(abilityObj, path, "name")
		if err != nil {
			return nil, err
		}
		cost, err := getString(abilityObj, path, "cost")
		if err != nil {
			return nil, err
		}
		drawback, err := getString(abilityObj, path, "drawback")
		if err != nil {
			return nil, err
		}
		panel.Abilities = append(panel.Abilities, models.Ability{Name: name, Cost: cost, Drawback: drawback})
	}

	panel.ContinuityFlags, err = getStringArray(obj, "storyPanel", "continuityFlags")
	if err != nil {
		return nil, err
	}

	return panel, nil
}

func violation(path, detail string) error {
	return llm.NewError(llm.CategorySchemaViolation,
		fmt.Sprintf("Schema violation at %s: %s", path, detail), nil)
}

func fieldPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func getString(obj map[string]any, parent, key string) (string, error) {
	raw, exists := obj[key]
	if !exists {
		return "", violation(fieldPath(parent, key), "required field is missing")
	}
	value, ok := raw.(string)
	if !ok {
		return "", violation(fieldPath(parent, key), fmt.Sprintf("expected a string, got %T", raw))
	}
	return value, nil
}

func getObject(obj map[string]any, parent, key string) (map[string]any, error) {
	raw, exists := obj[key]
	if !exists {
		return nil, violation(fieldPath(parent, key), "required field is missing")
	}
	value, ok := raw.(map[string]any)
	if !ok {
		return nil, violation(fieldPath(parent, key), fmt.Sprintf("expected an object, got %T", raw))
	}
	return value, nil
}

func getArray(obj map[string]any, parent, key string) ([]any, error) {
	raw, exists := obj[key]
	if !exists {
		return nil, violation(fieldPath(parent, key), "required field is missing")
	}
	value, ok := raw.([]any)
	if !ok {
		return nil, violation(fieldPath(parent, key), fmt.Sprintf("expected an array, got %T", raw))
	}
	return value, nil
}

func getStringArray(obj map[string]any, parent, key string) ([]string, error) {
	raw, err := getArray(obj, parent, key)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, violation(fmt.Sprintf("%s[%d]", fieldPath(parent, key), i),
				fmt.Sprintf("expected a string, got %T", item))
		}
		values = append(values, s)
	}
	return values, nil
}
