package lookup

import (
	"context"
	"fmt"
	"time"

	"robotdriver/application/auth"
	"robotdriver/application/catalog"
	"robotdriver/domain/entities"
	"robotdriver/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Recorder observes finished lookups
type Recorder interface {
	ObserveLookup(outcome string, elapsed time.Duration)
}

// Flow runs open browser, go home, log in, find price, close browser
type Flow struct {
	launcher interfaces.Launcher
	adapter  interfaces.SiteAdapter
	recorder Recorder
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewFlow - creates new price lookup flow; recorder may be nil
func NewFlow(launcher interfaces.Launcher, adapter interfaces.SiteAdapter, recorder Recorder, logger logrus.FieldLogger) *Flow {
	return &Flow{
		launcher: launcher,
		adapter:  adapter,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Run - executes one lookup. Login or search misses are reported in the
// result; browser and navigation failures are returned as errors.
func (f *Flow) Run(ctx context.Context, req entities.PriceRequest) (*entities.PriceResult, error) {
	start := f.now()
	product := req.ProductName()
	log := f.logger.WithField("product", product)

	session, err := f.launcher.Launch(ctx, req.IsHeadless())
	if err != nil {
		f.observe("error", start)
		return nil, fmt.Errorf("failed to open browser: %w", err)
	}
	defer session.Close()
	page := session.Page()

	if err := f.adapter.GotoHome(page); err != nil {
		f.observe("error", start)
		return nil, err
	}

	loggedIn, err := auth.NewService(f.adapter, page, log).Login(ctx, req.Email, req.Password, req.AutoSignup)
	if err != nil {
		f.observe("error", start)
		return nil, err
	}

	result := &entities.PriceResult{Product: product}
	if !loggedIn {
		result.Error = outcome(entities.OutcomeLoginFailed)
		result.ElapsedMS = f.elapsedMS(start)
		f.observe(entities.OutcomeLoginFailed, start)
		log.Info("login failed")
		return result, nil
	}
	result.Login = true

	found, price, err := catalog.NewService(f.adapter, page).PriceFor(ctx, product)
	if err != nil {
		f.observe("error", start)
		return nil, err
	}
	result.Found = found
	result.OK = found && price != ""
	switch {
	case result.OK:
		result.Price = &price
	case found:
		result.Error = outcome(entities.OutcomePriceNotFound)
	default:
		result.Error = outcome(entities.OutcomeProductNotFound)
	}
	result.ElapsedMS = f.elapsedMS(start)

	label := "ok"
	if result.Error != nil {
		label = *result.Error
	}
	f.observe(label, start)
	log.WithFields(logrus.Fields{"found": found, "price": price}).Info("price lookup finished")
	return result, nil
}

func (f *Flow) elapsedMS(start time.Time) float64 {
	return float64(f.now().Sub(start).Microseconds()) / 1000
}

func (f *Flow) observe(label string, start time.Time) {
	if f.recorder != nil {
		f.recorder.ObserveLookup(label, f.now().Sub(start))
	}
}

func outcome(code string) *string {
	return &code
}
