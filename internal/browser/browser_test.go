package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harukitakahashi812/creator-platform/config"
)

func TestTextMatchesAll(t *testing.T) {
	assert.True(t, textMatchesAll("Next: Customize your product", []string{"next", "customize"}))
	assert.True(t, textMatchesAll("SAVE AND CONTINUE", []string{"save", "continue"}))
	assert.False(t, textMatchesAll("Save draft", []string{"save", "continue"}))
	assert.False(t, textMatchesAll("anything", nil))
}

func TestLocatorMatchText_Exact(t *testing.T) {
	candidates := []string{"Cancel", "Save draft", "Save and continue", "Help"}
	idx := saveContinueLocator.matchText(candidates)
	assert.Equal(t, 2, idx)
}

func TestLocatorMatchText_FuzzyFallback(t *testing.T) {
	// Regional spelling, no exact substring pair
	candidates := []string{"Cancel", "Next: Customise", "Help"}
	idx := nextCustomizeLocator.matchText(candidates)
	assert.Equal(t, 1, idx)
}

func TestLocatorMatchText_NoMatch(t *testing.T) {
	candidates := []string{"Cancel", "Back", "Help"}
	assert.Equal(t, -1, nextCustomizeLocator.matchText(candidates))

	// Fuzzy disabled
	strict := Locator{TextAll: []string{"log", "in"}}
	assert.Equal(t, -1, strict.matchText([]string{"Sign up"}))
}

func TestCaptureProductURL_Order(t *testing.T) {
	host := "gumroad.com"
	fromInput := captureProductURL(host,
		[]string{"", "https://creator.gumroad.com/l/abc123"},
		[]string{"https://other.gumroad.com/l/zzz"},
		"page text", "https://gumroad.com/dashboard")
	assert.Equal(t, "https://creator.gumroad.com/l/abc123", fromInput)

	fromAnchor := captureProductURL(host,
		[]string{"no url here"},
		[]string{"https://gumroad.com/help", "https://creator.gumroad.com/l/abc123"},
		"", "")
	assert.Equal(t, "https://creator.gumroad.com/l/abc123", fromAnchor)

	fromText := captureProductURL(host,
		nil, nil,
		"Your product is live at https://creator.gumroad.com/l/abc123 share it!",
		"")
	assert.Equal(t, "https://creator.gumroad.com/l/abc123", fromText)
}

func TestCaptureProductURL_DerivedFromCurrentURL(t *testing.T) {
	got := captureProductURL("gumroad.com", nil, nil, "",
		"https://creator123.gumroad.com/l/abc123/edit")
	assert.Equal(t, "https://creator123.gumroad.com/l/abc123", got)
}

func TestCaptureProductURL_NoMatch(t *testing.T) {
	got := captureProductURL("gumroad.com",
		[]string{"hello"}, []string{"https://example.com/l/abc"},
		"nothing here", "https://gumroad.com/dashboard")
	assert.Empty(t, got)
}

func TestDeriveFromCurrentURL_WrongHost(t *testing.T) {
	assert.Empty(t, deriveFromCurrentURL("gumroad.com", "https://sub.example.com/l/abc"))
	assert.Empty(t, deriveFromCurrentURL("gumroad.com", "://bad url"))
}

func TestStageError(t *testing.T) {
	cause := errors.New("selector not found")
	err := failAt(StageLogin, cause)
	assert.Equal(t, "stage login: selector not found", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, err.PastPublish())

	assert.True(t, failAt(StagePublish, cause).PastPublish())
	assert.True(t, failAt(StageURLCapture, cause).PastPublish())
}

func TestManualInstructions(t *testing.T) {
	assert.NotEmpty(t, ManualInstructions(StageLogin))
	assert.NotEmpty(t, ManualInstructions(StageURLCapture))
	assert.NotEmpty(t, ManualInstructions(StageDescription))

	// URL capture instructions must warn against a duplicate publish
	joined := ""
	for _, line := range ManualInstructions(StageURLCapture) {
		joined += line + " "
	}
	assert.Contains(t, joined, "duplicate")
}

func TestStepContextAppliesDeadline(t *testing.T) {
	d := NewChromeDriver(config.GumroadConfig{StepTimeoutSec: 7})

	ctx, cancel := d.stepContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok, "every driver interaction must carry a deadline")
	assert.WithinDuration(t, time.Now().Add(7*time.Second), deadline, time.Second)
}

func TestOnLoginPage(t *testing.T) {
	assert.True(t, onLoginPage("https://gumroad.com/login?next=/products/new"))
	assert.True(t, onLoginPage("https://app.gumroad.com/signin"))
	assert.False(t, onLoginPage("https://gumroad.com/products/new"))
}
