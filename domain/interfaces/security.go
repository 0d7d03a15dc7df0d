package interfaces

import "robotdriver/domain/entities"

// SecurityLayer defines the checks applied to steps submitted by remote callers
type SecurityLayer interface {
	// CheckStep returns a non-nil error when a step must not run
	CheckStep(step entities.Step) error

	// ResolveScreenshotPath maps a requested screenshot path onto the output directory
	ResolveScreenshotPath(path string) (string, error)
}
