package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleModification(t *testing.T) {
	var state HeadlineState
	original := HeadlineStyle{Color: "black", FontStyle: "normal"}
	state.Capture("Original Headline", original)

	state.ToggleModification("Replacement Headline")
	assert.True(t, state.IsModified())
	assert.Equal(t, "Replacement Headline", state.Current().Text)
	assert.Equal(t, modifiedStyle, state.Current().Style)

	// Toggling again restores the captured original.
	state.ToggleModification("Replacement Headline")
	assert.False(t, state.IsModified())
	assert.Equal(t, "Original Headline", state.Current().Text)
	assert.Equal(t, original, state.Current().Style)
}

func TestSetModifiedHeadlineDoesNotFlipBack(t *testing.T) {
	var state HeadlineState
	state.Capture("Original Headline", HeadlineStyle{})

	state.SetModifiedHeadline("First Replacement")
	state.SetModifiedHeadline("Second Replacement")

	assert.True(t, state.IsModified())
	assert.Equal(t, "Second Replacement", state.Current().Text)
}

func TestCaptureIsIdempotent(t *testing.T) {
	var state HeadlineState
	state.Capture("Original Headline", HeadlineStyle{Color: "black"})
	state.Capture("Some Replacement Already Rendered", HeadlineStyle{Color: "blue"})

	assert.Equal(t, "Original Headline", state.Current().Text)
	assert.Equal(t, "black", state.Current().Style.Color)
}

func TestToggleWithoutCaptureIsNoOp(t *testing.T) {
	var state HeadlineState
	state.ToggleModification("Replacement")
	assert.False(t, state.IsModified())
	assert.Equal(t, "", state.Current().Text)

	state.SetModifiedHeadline("Replacement")
	assert.False(t, state.IsModified())
}
