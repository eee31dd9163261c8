package story

import (
	"context"

	"github.com/shonenloop/story-api/internal/llm"
	"github.com/shonenloop/story-api/internal/logger"
	"github.com/shonenloop/story-api/internal/models"
	"github.com/shonenloop/story-api/internal/observability"
	"github.com/shonenloop/story-api/internal/prompt"
)

// maxRepairAttempts caps how many times a malformed or schema-invalid
// response may be re-prompted. Exactly one repair retry, never a loop.
const maxRepairAttempts = 1

// Driver is the generation capability the engine runs prompts through
type Driver interface {
	Generate(ctx context.Context, promptText string) (*llm.Result, error)
}

// Outcome is the result of one successful turn
type Outcome struct {
	Response *models.StoryResponse
	Model    string
	Usage    *llm.TokenUsage
	Attempts int
}

// Engine runs the full turn cycle: compose, generate, normalize, validate.
// A malformed or schema-invalid response triggers one re-prompt with a
// repair instruction; any other failure, or a second bad response, surfaces
// to the caller untouched. The caller's story state is never touched until
// an Outcome is returned, so a failed turn can never leave a partial ledger.
type Engine struct {
	driver  Driver
	builder *prompt.Builder
}

// NewEngine creates an engine over the given driver
func NewEngine(driver Driver, builder *prompt.Builder) *Engine {
	return &Engine{
		driver:  driver,
		builder: builder,
	}
}

// NextBeat generates the next story beat for the request
func (e *Engine) NextBeat(ctx context.Context, req *models.StoryRequest) (*Outcome, error) {
	trace := observability.GetClient().StartTrace(ctx, "story.next_beat", map[string]interface{}{
		"history_length": len(req.History),
		"has_choice":     req.ChoiceID != "",
	})
	defer trace.Finish()

	repairInstruction := ""
	var lastErr error

	for attempt := 0; attempt <= maxRepairAttempts; attempt++ {
		promptText := e.builder.Compose(req, repairInstruction)

		gen := trace.Generation("generate_beat", map[string]interface{}{"attempt": attempt + 1})
		gen.Input(promptText)

		result, err := e.driver.Generate(ctx, promptText)
		if err != nil {
			gen.SetLevel("ERROR")
			gen.Finish()
			return nil, err
		}

		gen.Output(result.Text)
		if result.Usage != nil {
			gen.Usage(result.Model, result.Usage.InputTokens, result.Usage.OutputTokens, result.Usage.TotalTokens)
		}
		gen.Finish()

		parsed, err := Normalize(result.Text)
		if err != nil {
			lastErr = err
			repairInstruction = e.builder.RepairInstruction()
			logger.Warn("Model output was not parseable, re-prompting", logger.Fields{
				"model":   result.Model,
				"attempt": attempt + 1,
			})
			continue
		}

		response, err := Validate(parsed)
		if err != nil {
			lastErr = err
			repairInstruction = e.builder.RepairInstruction()
			logger.Warn("Model output failed schema validation, re-prompting", logger.Fields{
				"model":   result.Model,
				"attempt": attempt + 1,
				"error":   err.Error(),
			})
			continue
		}

		return &Outcome{
			Response: response,
			Model:    result.Model,
			Usage:    result.Usage,
			Attempts: attempt + 1,
		}, nil
	}

	return nil, lastErr
}
