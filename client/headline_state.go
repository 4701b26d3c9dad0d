package client

import (
	Logger "github.com/trust-assembly/headline-engine/utils/log"
)

// HeadlineStyle is the rendering style applied to a displayed headline.
type HeadlineStyle struct {
	Color     string
	FontStyle string
}

// modifiedStyle marks replaced headlines so readers can tell them apart from
// the publisher's original.
var modifiedStyle = HeadlineStyle{Color: "blue", FontStyle: "italic"}

// Display is what the page currently shows.
type Display struct {
	Text  string
	Style HeadlineStyle
}

// HeadlineState owns the toggle between a page's original headline and a
// replacement. The original text and style are captured once, on first
// attach, and every later render derives from that snapshot.
type HeadlineState struct {
	captured      bool
	originalText  string
	originalStyle HeadlineStyle
	modifiedText  string
	isModified    bool
}

// Capture snapshots the original headline. Later calls are ignored so the
// snapshot survives re-renders of an already modified page.
func (s *HeadlineState) Capture(text string, style HeadlineStyle) {
	if s.captured {
		return
	}
	s.captured = true
	s.originalText = text
	s.originalStyle = style
}

// ToggleModification flips between original and modified display, using text
// as the replacement when switching to modified.
func (s *HeadlineState) ToggleModification(text string) {
	if !s.captured {
		Logger.Log.Warn("no headline captured, toggle ignored")
		return
	}
	if s.isModified {
		s.isModified = false
		return
	}
	s.modifiedText = text
	s.isModified = true
}

// SetModifiedHeadline forces the display into the modified state with the
// given text. Unlike ToggleModification it never flips back.
func (s *HeadlineState) SetModifiedHeadline(text string) {
	if !s.captured {
		Logger.Log.Warn("no headline captured, set ignored")
		return
	}
	s.modifiedText = text
	s.isModified = true
}

// IsModified reports whether the replacement is currently displayed.
func (s *HeadlineState) IsModified() bool {
	return s.isModified
}

// Current returns the text and style the page should render.
func (s *HeadlineState) Current() Display {
	if s.isModified {
		return Display{Text: s.modifiedText, Style: modifiedStyle}
	}
	return Display{Text: s.originalText, Style: s.originalStyle}
}
