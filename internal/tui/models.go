package tui

type View int

const (
	ViewSearch View = iota
	ViewReader
)

// focus targets on the search view, after the filter inputs
const (
	focusAuthors = iota
	focusTags
	focusResults
)
