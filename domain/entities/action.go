package entities

// ActionType represents the type of step a plan can perform
type ActionType string

const (
	ActionGoto       ActionType = "goto"
	ActionClick      ActionType = "click"
	ActionFill       ActionType = "fill"
	ActionWaitFor    ActionType = "wait_for"
	ActionWaitURL    ActionType = "wait_url"
	ActionReadText   ActionType = "read_text"
	ActionScreenshot ActionType = "screenshot"
)

// Step represents a single declarative browser action
type Step struct {
	Action   ActionType `json:"action" yaml:"action" binding:"required"`
	Selector string     `json:"selector,omitempty" yaml:"selector,omitempty"`
	URL      string     `json:"url,omitempty" yaml:"url,omitempty"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty"`
	Role     string     `json:"role,omitempty" yaml:"role,omitempty"`
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
}

// Plan is an ordered list of steps executed against one page
type Plan struct {
	Steps    []Step `json:"steps" yaml:"steps" binding:"required,dive"`
	Headless *bool  `json:"headless,omitempty" yaml:"headless,omitempty"`
}

// IsHeadless reports the requested browser mode, defaulting to headless
func (p Plan) IsHeadless() bool {
	if p.Headless == nil {
		return true
	}
	return *p.Headless
}

// StepLog represents the outcome of one executed step
type StepLog struct {
	Index    int        `json:"i"`
	Action   ActionType `json:"action"`
	OK       bool       `json:"ok"`
	URL      string     `json:"url,omitempty"`
	Note     string     `json:"note,omitempty"`
	Selector string     `json:"selector,omitempty"`
	Text     *string    `json:"text,omitempty"`
	Path     string     `json:"path,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// PlanResult represents the result of a whole plan run
type PlanResult struct {
	OK         bool      `json:"ok"`
	CurrentURL string    `json:"current_url"`
	Logs       []StepLog `json:"logs"`
}
