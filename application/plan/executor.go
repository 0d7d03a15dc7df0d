package plan

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"robotdriver/domain/entities"
	"robotdriver/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// ErrStepInvalid is wrapped by errors about malformed steps
var ErrStepInvalid = errors.New("invalid step")

const unknownAction = "unknown_action"

// Recorder observes executed steps
type Recorder interface {
	ObserveStep(action string, ok bool)
}

// Executor walks a plan against one page
type Executor struct {
	security interfaces.SecurityLayer
	recorder Recorder
	logger   logrus.FieldLogger
}

// NewExecutor - creates new plan executor; security and recorder may be nil
func NewExecutor(security interfaces.SecurityLayer, recorder Recorder, logger logrus.FieldLogger) *Executor {
	return &Executor{
		security: security,
		recorder: recorder,
		logger:   logger,
	}
}

// Execute - runs the steps in order. A failing step is logged and stops the
// run; an unknown action is logged and skipped.
func (e *Executor) Execute(ctx context.Context, page interfaces.Page, p entities.Plan) entities.PlanResult {
	logs := make([]entities.StepLog, 0, len(p.Steps))

	for idx, step := range p.Steps {
		i := idx + 1
		log := e.logger.WithFields(logrus.Fields{"step": i, "action": step.Action})

		entry, err := e.runStep(ctx, page, i, step)
		if err != nil {
			log.WithError(err).Warn("step failed")
			e.observe(step.Action, false)
			logs = append(logs, entities.StepLog{Index: i, Action: step.Action, Error: err.Error()})
			break
		}
		e.observe(step.Action, entry.OK)
		if !entry.OK {
			log.Warn("unknown action")
		} else {
			log.Debug("step done")
		}
		logs = append(logs, entry)
	}

	return entities.PlanResult{
		OK:         len(logs) > 0 && logs[len(logs)-1].OK,
		CurrentURL: page.URL(),
		Logs:       logs,
	}
}

// runStep - executes a single step and builds its log entry
func (e *Executor) runStep(ctx context.Context, page interfaces.Page, i int, step entities.Step) (entities.StepLog, error) {
	entry := entities.StepLog{Index: i, Action: step.Action, OK: true}

	if err := ctx.Err(); err != nil {
		return entry, err
	}
	if e.security != nil {
		if err := e.security.CheckStep(step); err != nil {
			return entry, err
		}
	}

	switch step.Action {
	case entities.ActionGoto:
		if step.URL == "" {
			return entry, invalid("goto requires url")
		}
		if err := page.Goto(step.URL); err != nil {
			return entry, err
		}
		entry.URL = page.URL()

	case entities.ActionClick:
		note, err := click(page, step)
		if err != nil {
			return entry, err
		}
		entry.Note = note

	case entities.ActionFill:
		note, err := fill(page, step)
		if err != nil {
			return entry, err
		}
		entry.Note = note

	case entities.ActionWaitFor:
		if step.Selector == "" {
			return entry, invalid("wait_for requires selector")
		}
		if err := page.Locator(step.Selector).First().WaitVisible(0); err != nil {
			return entry, err
		}
		entry.Selector = step.Selector

	case entities.ActionWaitURL:
		if step.URL == "" {
			return entry, invalid("wait_url requires url")
		}
		if err := page.WaitURL(step.URL); err != nil {
			return entry, err
		}
		entry.URL = step.URL

	case entities.ActionReadText:
		if step.Selector == "" {
			return entry, invalid("read_text requires selector")
		}
		text, err := page.Locator(step.Selector).First().InnerText()
		if err != nil {
			return entry, err
		}
		text = strings.TrimSpace(text)
		entry.Selector = step.Selector
		entry.Text = &text

	case entities.ActionScreenshot:
		path := step.Text
		if path == "" {
			path = fmt.Sprintf("snap_%d.png", i)
		}
		if e.security != nil {
			resolved, err := e.security.ResolveScreenshotPath(path)
			if err != nil {
				return entry, err
			}
			path = resolved
		}
		if err := page.Screenshot(path); err != nil {
			return entry, err
		}
		entry.Path = path

	default:
		entry.OK = false
		entry.Error = unknownAction
	}

	return entry, nil
}

// click - clicks by CSS selector or by role and name
func click(page interfaces.Page, step entities.Step) (string, error) {
	if step.Selector != "" {
		return "clicked via selector", page.Locator(step.Selector).First().Click()
	}
	if step.Role != "" && step.Name != "" {
		name, err := namePattern(step.Name)
		if err != nil {
			return "", err
		}
		return "clicked via role+name", page.ByRole(step.Role, name).First().Click()
	}
	return "", invalid("click requires selector or (role+name)")
}

// fill - fills the first CSS match, or the single element with role and name
func fill(page interfaces.Page, step entities.Step) (string, error) {
	if step.Text == "" {
		return "", invalid("fill requires text")
	}
	if step.Selector != "" {
		return "filled via selector", page.Locator(step.Selector).First().Fill(step.Text)
	}
	if step.Role != "" && step.Name != "" {
		name, err := namePattern(step.Name)
		if err != nil {
			return "", err
		}
		return "filled via role+name", page.ByRole(step.Role, name).Fill(step.Text)
	}
	return "", invalid("fill requires selector or (role+name)")
}

// namePattern - compiles an accessible name pattern, case-insensitive
func namePattern(name string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + name)
	if err != nil {
		return nil, invalid(fmt.Sprintf("bad name pattern: %v", err))
	}
	return re, nil
}

// stepError carries the message reported in the step log
type stepError struct {
	msg string
}

func (e *stepError) Error() string        { return e.msg }
func (e *stepError) Is(target error) bool { return target == ErrStepInvalid }

func invalid(msg string) error {
	return &stepError{msg: msg}
}

func (e *Executor) observe(action entities.ActionType, ok bool) {
	if e.recorder != nil {
		e.recorder.ObserveStep(string(action), ok)
	}
}
