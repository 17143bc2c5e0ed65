package tui

import "time"

type stage int

const (
	stagePick stage = iota
	stageLoading
	stageEdit
	stagePreview
	stageSaveAs
	stageSaving
)

const appTagline = "Author PDF bookmark outlines in your terminal."

const (
	minEditorWidth    = 40
	horizontalPadding = 4
	snippetRunes      = 160

	// Bound on every external toolkit invocation; cpdf normally finishes a
	// bookmark write in well under a second.
	toolkitTimeout = 60 * time.Second

	offsetMin = -1000
	offsetMax = 1000
)

const (
	offsetPlaceholder = "0"
	destPlaceholder   = "bookmarked.pdf"
	editorPlaceholder = "Format: [indent]Title PageNum\n" +
		"Example:\n" +
		"Introduction 1\n" +
		"\tChapter 1 5\n" +
		"\t\tSection 1.1 10"
)
