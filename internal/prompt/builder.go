package prompt

import (
	"fmt"
	"strings"

	"github.com/shonenloop/story-api/internal/models"
)

// historyContextLimit caps how many past beats are rendered into the prompt.
// Older beats are represented only through the story panel.
const historyContextLimit = 12

const nonePlaceholder = "None"

// Builder composes model-ready prompts from the narrative contract, the
// rolling story panel and recent history. Compose is pure: identical inputs
// always produce identical text.
type Builder struct {
	contract          string
	repairInstruction string
}

// NewBuilder creates a builder with the embedded narrative contract
func NewBuilder() *Builder {
	loader := NewPromptLoader()
	return &Builder{
		contract:          loader.GetNarrativeContract(),
		repairInstruction: loader.GetRepairInstruction(),
	}
}

// RepairInstruction returns the instruction appended on the repair retry
func (b *Builder) RepairInstruction() string {
	return b.repairInstruction
}

// Compose builds the full prompt for one generation turn. repairInstruction
// is appended verbatim when non-empty; pass "" for a first attempt.
func (b *Builder) Compose(req *models.StoryRequest, repairInstruction string) string {
	var sb strings.Builder

	sb.WriteString(b.contract)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Dream: %q\n\n", req.Dream)

	if len(req.History) > 0 {
		sb.WriteString("Story so far:\n")
		sb.WriteString(b.historyDigest(req.History))
		sb.WriteString("\n\n")
	}

	sb.WriteString("Current Story Panel:\n")
	sb.WriteString(b.panelDigest(&req.StoryPanel))
	sb.WriteString("\n\n")

	if req.ChoiceID != "" {
		fmt.Fprintf(&sb, "The user chose: %s", req.ChoiceID)
	} else {
		sb.WriteString("This is the opening beat. Create an exciting hook that introduces the world and the dream.")
	}

	if repairInstruction != "" {
		sb.WriteString("\n\n")
		sb.WriteString(repairInstruction)
	}

	sb.WriteString("\n\nGenerate the next story beat following all rules. Output STRICT JSON ONLY.")

	return sb.String()
}

// historyDigest renders the most recent beats: title, body and the text of
// the option that was chosen (looked up by id in that beat's own choices).
func (b *Builder) historyDigest(history []models.HistoryEntry) string {
	if len(history) > historyContextLimit {
		history = history[len(history)-historyContextLimit:]
	}

	entries := make([]string, 0, len(history))
	for i, h := range history {
		entry := fmt.Sprintf("Beat %d: %s\n%s", i+1, h.Beat.Title, h.Beat.Text)
		if h.ChoiceID != "" {
			entry += fmt.Sprintf("\n[Chose %s: %s]", h.ChoiceID, h.Beat.ChoiceText(h.ChoiceID))
		}
		entries = append(entries, entry)
	}

	return strings.Join(entries, "\n\n---\n\n")
}

// panelDigest flattens each ledger section into one compact line. Empty
// sections render as "None" so the model always sees a consistent shape.
func (b *Builder) panelDigest(panel *models.StoryPanel) string {
	items := make([]string, 0, len(panel.KeyItems))
	for _, it := range panel.KeyItems {
		items = append(items, fmt.Sprintf("%s (%s)", it.Name, it.Note))
	}

	people := make([]string, 0, len(panel.People))
	for _, p := range panel.People {
		people = append(people, fmt.Sprintf("%s (%s: %s)", p.Name, p.Status, p.Note))
	}

	abilities := make([]string, 0, len(panel.Abilities))
	for _, a := range panel.Abilities {
		abilities = append(abilities, fmt.Sprintf("%s [Cost: %s, Drawback: %s]", a.Name, a.Cost, a.Drawback))
	}

	focus := panel.CurrentThread.Focus
	if focus == "" {
		focus = nonePlaceholder
	}

	lines := []string{
		"- Key Items: " + joinOrNone(items),
		fmt.Sprintf("- Current Thread: %s (Leads: %s)", focus, joinOrNone(panel.CurrentThread.Leads)),
		"- People: " + joinOrNone(people),
		"- Abilities: " + joinOrNone(abilities),
		"- Continuity Flags: " + joinOrNone(panel.ContinuityFlags),
	}

	return strings.Join(lines, "\n")
}

func joinOrNone(parts []string) string {
	if len(parts) == 0 {
		return nonePlaceholder
	}
	return strings.Join(parts, ", ")
}
