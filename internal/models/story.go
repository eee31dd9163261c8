package models

// ChoiceID identifies one of the three branching options in a beat
type ChoiceID string

const (
	ChoiceA ChoiceID = "A"
	ChoiceB ChoiceID = "B"
	ChoiceC ChoiceID = "C"
)

// ChoiceCount is the exact number of options every beat must offer
const ChoiceCount = 3

// ValidChoiceID reports whether id is one of A, B or C
func ValidChoiceID(id ChoiceID) bool {
	return id == ChoiceA || id == ChoiceB || id == ChoiceC
}

// Choice is one branching option attached to a beat
type Choice struct {
	ID   ChoiceID `json:"id"`
	Text string   `json:"text"`
	Tone string   `json:"tone"`
}

// StoryBeat is one generated unit of narrative plus its branching options.
// Beats are immutable once generated; superseded beats move into history.
type StoryBeat struct {
	Title       string   `json:"title"`
	Text        string   `json:"text"`
	Mood        string   `json:"mood"`
	Location    string   `json:"location"`
	Hook        string   `json:"hook"`
	Turn        string   `json:"turn"`
	Cliffhanger string   `json:"cliffhanger"`
	Choices     []Choice `json:"choices"`
}

// ChoiceText returns the text of the option with the given id, or "" if absent
func (b *StoryBeat) ChoiceText(id ChoiceID) string {
	for _, c := range b.Choices {
		if c.ID == id {
			return c.Text
		}
	}
	return ""
}

// KeyItem is an item the protagonist carries across beats
type KeyItem struct {
	Name string `json:"name"`
	Note string `json:"note"`
}

// Person is a character tracked in the story panel
type Person struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Note   string `json:"note"`
}

// Ability is a technique the protagonist has learned, with its tradeoffs
type Ability struct {
	Name     string `json:"name"`
	Cost     string `json:"cost"`
	Drawback string `json:"drawback"`
}

// CurrentThread is the single active plot thread
type CurrentThread struct {
	Focus string   `json:"focus"`
	Leads []string `json:"leads"`
}

// StoryPanel is the continuity ledger carried between turns.
// It is replaced wholesale by each generated beat, never merged.
type StoryPanel struct {
	KeyItems        []KeyItem     `json:"keyItems"`
	CurrentThread   CurrentThread `json:"currentThread"`
	People          []Person      `json:"people"`
	Abilities       []Ability     `json:"abilities"`
	ContinuityFlags []string      `json:"continuityFlags"`
}

// HistoryEntry records a past beat and which option the reader took.
// ChoiceID is empty on the final entry when no option was chosen yet.
type HistoryEntry struct {
	Beat     StoryBeat `json:"beat"`
	ChoiceID ChoiceID  `json:"choiceId,omitempty"`
}

// StoryRequest is the input for one generation turn
type StoryRequest struct {
	Dream      string         `json:"dream" binding:"required"`
	ChoiceID   ChoiceID       `json:"choiceId,omitempty"`
	History    []HistoryEntry `json:"history"`
	StoryPanel StoryPanel     `json:"storyPanel"`
}

// StoryResponse is the validated output of one generation turn
type StoryResponse struct {
	Beat        StoryBeat  `json:"beat"`
	StoryPanel  StoryPanel `json:"storyPanel"`
	ImagePrompt string     `json:"imagePrompt"`
	RecapLine   string     `json:"recapLine"`
	NextSignal  string     `json:"nextSignal"`
}

// StoryState is the full session state a client persists between visits
type StoryState struct {
	Dream       string         `json:"dream"`
	History     []HistoryEntry `json:"history"`
	CurrentBeat *StoryBeat     `json:"currentBeat"`
	StoryPanel  StoryPanel     `json:"storyPanel"`
	ImagePrompt string         `json:"imagePrompt,omitempty"`
}
