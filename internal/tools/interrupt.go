package tools

// Interrupt is returned from Execute by a tool that cannot finish without
// a human decision. The caller surfaces Prompt to the user and later
// completes the call through the tool's Resume method.
type Interrupt struct {
	Prompt string
}

func (i *Interrupt) Error() string {
	return "awaiting user decision: " + i.Prompt
}

// Resumable is implemented by tools whose Execute may return an Interrupt.
// Resume finishes the interrupted call with the user's decision and must
// not interrupt again for the same arguments.
type Resumable interface {
	Resume(args map[string]any, decision string) (string, error)
}
