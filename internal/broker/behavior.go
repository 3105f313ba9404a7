package broker

// Behavior is what the caller should do after a broker hook. The set is
// closed: Null, Halt, Navigate and NavigateOrRedirect.
type Behavior interface {
	Kind() string
	behavior()
}

// Null does nothing.
type Null struct{}

// Halt stops the flow; the host takes over.
type Halt struct{}

// Navigate moves to a named screen.
type Navigate struct {
	Screen string
	Data   map[string]string
}

// NavigateOrRedirect redirects to Endpoint when set, otherwise navigates to
// Screen.
type NavigateOrRedirect struct {
	Endpoint string
	Screen   string
}

func (Null) Kind() string               { return "null" }
func (Halt) Kind() string               { return "halt" }
func (Navigate) Kind() string           { return "navigate" }
func (NavigateOrRedirect) Kind() string { return "navigate_or_redirect" }

func (Null) behavior()               {}
func (Halt) behavior()               {}
func (Navigate) behavior()           {}
func (NavigateOrRedirect) behavior() {}
