package fence

// State is the buffer's position relative to fenced code blocks. It is one of
// Normal, FenceOpening or InCodeBlock. All implementations are comparable
// values, which the driving loop relies on to detect that a step made no
// progress.
type State interface {
	isState()
	String() string
}

// Normal scans plain text for a fence-open marker.
type Normal struct {
	// AtLineStart reports whether the next pending byte begins a line. Only
	// markers at the start of a line are significant.
	AtLineStart bool
}

// FenceOpening has seen the three backticks of a fence-open marker at the
// start of pending input and waits for the newline that ends the marker line.
type FenceOpening struct{}

// InCodeBlock accumulates one source line at a time inside a fenced block.
type InCodeBlock struct {
	// Language is the tag from the opening marker, possibly empty.
	Language string

	// LineBuffer holds the current line's text seen so far, without a newline.
	LineBuffer string
}

func (Normal) isState()       {}
func (FenceOpening) isState() {}
func (InCodeBlock) isState()  {}

func (Normal) String() string       { return "normal" }
func (FenceOpening) String() string { return "fence_opening" }
func (InCodeBlock) String() string  { return "in_code_block" }

// Initial is the state a new stream starts in.
func Initial() State {
	return Normal{AtLineStart: true}
}

// Transition is the result of one Step.
type Transition struct {
	// Emit is output text produced by the step, in order.
	Emit string

	// Consumed is the number of bytes of pending input the step used up.
	Consumed int

	// Next is the state after the step.
	Next State
}
