package llm

import "google.golang.org/genai"

// StoryResponseSchema returns the Gemini schema for a story beat response.
// Structured output keeps the model honest about shape; the normalizer and
// validator still run on the raw text since not every model honors it.
func StoryResponseSchema() *genai.Schema {
	choiceSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":   {Type: genai.TypeString, Enum: []string{"A", "B", "C"}},
			"text": {Type: genai.TypeString},
			"tone": {Type: genai.TypeString},
		},
		Required: []string{"id", "text", "tone"},
	}

	beatSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"text":        {Type: genai.TypeString},
			"mood":        {Type: genai.TypeString},
			"location":    {Type: genai.TypeString},
			"hook":        {Type: genai.TypeString},
			"turn":        {Type: genai.TypeString},
			"cliffhanger": {Type: genai.TypeString},
			"choices": {
				Type:  genai.TypeArray,
				Items: choiceSchema,
			},
		},
		Required: []string{"title", "text", "mood", "location", "hook", "turn", "cliffhanger", "choices"},
	}

	panelSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"keyItems": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name": {Type: genai.TypeString},
						"note": {Type: genai.TypeString},
					},
					Required: []string{"name", "note"},
				},
			},
			"currentThread": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"focus": {Type: genai.TypeString},
					"leads": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
				Required: []string{"focus", "leads"},
			},
			"people": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":   {Type: genai.TypeString},
						"status": {Type: genai.TypeString},
						"note":   {Type: genai.TypeString},
					},
					Required: []string{"name", "status", "note"},
				},
			},
			"abilities": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":     {Type: genai.TypeString},
						"cost":     {Type: genai.TypeString},
						"drawback": {Type: genai.TypeString},
					},
					Required: []string{"name", "cost", "drawback"},
				},
			},
			"continuityFlags": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"keyItems", "currentThread", "people", "abilities", "continuityFlags"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"beat":        beatSchema,
			"storyPanel":  panelSchema,
			"imagePrompt": {Type: genai.TypeString},
			"recapLine":   {Type: genai.TypeString},
			"nextSignal":  {Type: genai.TypeString},
		},
		Required: []string{"beat", "storyPanel", "imagePrompt", "recapLine", "nextSignal"},
	}
}
