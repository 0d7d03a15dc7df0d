package security

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"robotdriver/domain/entities"
	"robotdriver/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DefaultSchemes are the URL schemes remote plans may navigate to
var DefaultSchemes = []string{"http", "https"}

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// SecurityLayer - vets plan steps before they reach the browser
type SecurityLayer struct {
	schemes       map[string]bool
	screenshotDir string
	logger        logrus.FieldLogger
}

func NewSecurityLayer(schemes []string, screenshotDir string, logger logrus.FieldLogger) *SecurityLayer {
	if len(schemes) == 0 {
		schemes = DefaultSchemes
	}
	allowed := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		allowed[strings.ToLower(s)] = true
	}
	if screenshotDir == "" {
		screenshotDir = "."
	}
	return &SecurityLayer{
		schemes:       allowed,
		screenshotDir: screenshotDir,
		logger:        logger,
	}
}

func (s *SecurityLayer) CheckStep(step entities.Step) error {
	switch step.Action {
	case entities.ActionGoto:
		return s.checkURL(step.URL)
	case entities.ActionWaitURL:
		// glob patterns such as "**/login" carry no scheme
		if strings.Contains(step.URL, "://") {
			return s.checkURL(step.URL)
		}
	}
	return nil
}

func (s *SecurityLayer) checkURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if !s.schemes[strings.ToLower(u.Scheme)] {
		s.logger.WithField("url", raw).Warn("blocked navigation")
		return fmt.Errorf("url scheme %q is not allowed", u.Scheme)
	}
	return nil
}

// ResolveScreenshotPath keeps relative paths inside the screenshot directory
// and rejects everything that would escape it
func (s *SecurityLayer) ResolveScreenshotPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("screenshot path %q must be relative", path)
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("screenshot path %q escapes the output directory", path)
	}
	if !imageExts[strings.ToLower(filepath.Ext(clean))] {
		return "", fmt.Errorf("screenshot path %q must end in .png or .jpg", path)
	}
	return filepath.Join(s.screenshotDir, clean), nil
}

// Ensure SecurityLayer implements SecurityLayer interface
var _ interfaces.SecurityLayer = (*SecurityLayer)(nil)
