package auth

import (
	"context"
	"strings"

	"robotdriver/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// SignupName is the display name given to accounts created on demand
const SignupName = "Test User"

const errorBannerSelector = ".login-form p, .alert-danger, [data-qa*='error']"

// Service drives the authentication flow of a shop through its adapter
type Service struct {
	adapter interfaces.SiteAdapter
	page    interfaces.Page
	logger  logrus.FieldLogger
}

// NewService - creates new authentication service
func NewService(adapter interfaces.SiteAdapter, page interfaces.Page, logger logrus.FieldLogger) *Service {
	return &Service{
		adapter: adapter,
		page:    page,
		logger:  logger,
	}
}

// Login - logs in, optionally creating the account and retrying once
func (s *Service) Login(ctx context.Context, email, password string, autoSignup bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	ok, err := s.adapter.Login(s.page, email, password)
	if err != nil || ok {
		return ok, err
	}

	if !autoSignup {
		s.logErrorBanner()
		return false, nil
	}

	signupper, can := s.adapter.(interfaces.Signupper)
	if !can {
		s.logger.Info("login failed; site does not support sign-up")
		return false, nil
	}

	s.logger.Info("login failed; trying sign-up")
	if err := ctx.Err(); err != nil {
		return false, err
	}
	created, err := signupper.Signup(s.page, email, password, SignupName)
	if err != nil || !created {
		return false, err
	}

	// some sites do not log the new account in
	if err := s.adapter.EnsureLoginPage(s.page); err != nil {
		return false, err
	}
	return s.adapter.Login(s.page, email, password)
}

func (s *Service) logErrorBanner() {
	banner := s.page.Locator(errorBannerSelector).First()
	n, err := banner.Count()
	if err != nil || n == 0 {
		return
	}
	text, err := banner.InnerText()
	if err != nil {
		return
	}
	s.logger.WithField("banner", strings.TrimSpace(text)).Debug("login error banner")
}
