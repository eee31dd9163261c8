package story

import (
	"context"
	"errors"
	"testing"

	"github.com/shonenloop/story-api/internal/llm"
	"github.com/shonenloop/story-api/internal/models"
	"github.com/shonenloop/story-api/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDriver returns a canned result per call, recording each prompt
type scriptedDriver struct {
	results []*llm.Result
	errs    []error
	prompts []string
}

func (d *scriptedDriver) Generate(_ context.Context, promptText string) (*llm.Result, error) {
	call := len(d.prompts)
	d.prompts = append(d.prompts, promptText)
	if call < len(d.errs) && d.errs[call] != nil {
		return nil, d.errs[call]
	}
	if call >= len(d.results) {
		return nil, errors.New("driver called more times than scripted")
	}
	return d.results[call], nil
}

func textResult(text string) *llm.Result {
	return &llm.Result{
		Text:  text,
		Model: "gemini-2.5-flash",
		Usage: &llm.TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150},
	}
}

func openingRequest() *models.StoryRequest {
	return &models.StoryRequest{Dream: "become the strongest sky pirate"}
}

func TestNextBeatReturnsValidFirstAttempt(t *testing.T) {
	driver := &scriptedDriver{results: []*llm.Result{textResult(conformantResponse)}}
	engine := NewEngine(driver, prompt.NewBuilder())

	outcome, err := engine.NextBeat(context.Background(), openingRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, "The Gate", outcome.Response.Beat.Title)
	assert.Equal(t, "gemini-2.5-flash", outcome.Model)
	require.Len(t, driver.prompts, 1)
	assert.NotContains(t, driver.prompts[0], "previous response was invalid")
}

func TestNextBeatRepairsMalformedOutput(t *testing.T) {
	driver := &scriptedDriver{results: []*llm.Result{
		textResult("Sorry, I cannot produce JSON right now."),
		textResult(conformantResponse),
	}}
	builder := prompt.NewBuilder()
	engine := NewEngine(driver, builder)

	outcome, err := engine.NextBeat(context.Background(), openingRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Attempts)
	assert.Equal(t, "The Gate", outcome.Response.Beat.Title)
	require.Len(t, driver.prompts, 2)
	assert.Contains(t, driver.prompts[1], builder.RepairInstruction())
}

func TestNextBeatRepairsSchemaViolation(t *testing.T) {
	driver := &scriptedDriver{results: []*llm.Result{
		textResult(`{"beat": {"title": "incomplete"}}`),
		textResult(conformantResponse),
	}}
	engine := NewEngine(driver, prompt.NewBuilder())

	outcome, err := engine.NextBeat(context.Background(), openingRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Attempts)
	assert.Len(t, driver.prompts, 2)
}

func TestNextBeatFailsAfterTwoBadResponses(t *testing.T) {
	driver := &scriptedDriver{results: []*llm.Result{
		textResult("not json at all"),
		textResult(`{"beat": {"title": "still incomplete"}}`),
	}}
	engine := NewEngine(driver, prompt.NewBuilder())

	_, err := engine.NextBeat(context.Background(), openingRequest())
	require.Error(t, err)

	// No third attempt, and the error reflects the last failure.
	assert.Len(t, driver.prompts, 2)
	assert.Equal(t, llm.CategorySchemaViolation, llm.CategoryOf(err))
}

func TestNextBeatPropagatesDriverErrorsWithoutRetry(t *testing.T) {
	driverErr := llm.NewError(llm.CategoryQuotaExhausted, "quota gone", errors.New("429"))
	driver := &scriptedDriver{errs: []error{driverErr}}
	engine := NewEngine(driver, prompt.NewBuilder())

	_, err := engine.NextBeat(context.Background(), openingRequest())
	require.Error(t, err)

	assert.Len(t, driver.prompts, 1)
	assert.Equal(t, llm.CategoryQuotaExhausted, llm.CategoryOf(err))
	assert.ErrorIs(t, err, driverErr)
}
