package prompt

import (
	"strings"

	"github.com/shonenloop/story-api/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetNarrativeContract loads the fixed narrative contract: tone rules,
// formatting rules, pacing rule and the exact output schema description.
func (l *Loader) GetNarrativeContract() string {
	return strings.TrimSpace(string(embedded.NarrativeContractTxt))
}

// GetRepairInstruction loads the instruction appended when re-prompting
// after a malformed or schema-invalid response.
func (l *Loader) GetRepairInstruction() string {
	return strings.TrimSpace(string(embedded.RepairInstructionTxt))
}
