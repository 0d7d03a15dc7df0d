package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"robotdriver/application/plan"
	"robotdriver/domain/entities"
	"robotdriver/infrastructure/browser/browsertest"
	"robotdriver/infrastructure/config"
	"robotdriver/infrastructure/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type stubRunner struct {
	got []entities.PriceRequest
	res *entities.PriceResult
	err error
}

func (s *stubRunner) Run(_ context.Context, req entities.PriceRequest) (*entities.PriceResult, error) {
	s.got = append(s.got, req)
	return s.res, s.err
}

func noCredentials() config.Credentials { return config.Credentials{} }

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func priceServer(runner PriceRunner, creds func() config.Credentials) *gin.Engine {
	return NewPriceServer(Options{Logger: quietLogger()}, NewPriceHandler(runner, creds, quietLogger()))
}

func TestHealth(t *testing.T) {
	w, body := do(t, priceServer(&stubRunner{}, noCredentials), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"ok": true}, body)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	priceServer(&stubRunner{}, noCredentials).ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestPriceSuccess(t *testing.T) {
	price := "Rs. 500"
	runner := &stubRunner{res: &entities.PriceResult{OK: true, Product: "Blue Top", Price: &price, Found: true, Login: true, ElapsedMS: 1234.5}}

	w, body := do(t, priceServer(runner, noCredentials), http.MethodPost, "/price", `{"email":"a@b.c","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rs. 500", body["price"])
	assert.Nil(t, body["error"])
	assert.Contains(t, body, "error")
	assert.Equal(t, 1234.5, body["elapsed_ms"])

	require.Len(t, runner.got, 1)
	assert.Equal(t, "Blue Top", runner.got[0].ProductName())
	assert.True(t, runner.got[0].IsHeadless())
	assert.False(t, runner.got[0].AutoSignup)
}

func TestPriceRequestOptions(t *testing.T) {
	runner := &stubRunner{res: &entities.PriceResult{}}
	_, _ = do(t, priceServer(runner, noCredentials), http.MethodPost, "/price",
		`{"email":"a@b.c","password":"pw","product":"Men Tshirt","headless":false,"auto_signup":true}`)

	require.Len(t, runner.got, 1)
	assert.Equal(t, "Men Tshirt", runner.got[0].ProductName())
	assert.False(t, runner.got[0].IsHeadless())
	assert.True(t, runner.got[0].AutoSignup)
}

func TestPriceValidation(t *testing.T) {
	runner := &stubRunner{}
	for _, body := range []string{`{"password":"pw"}`, `{"email":"a@b.c"}`, `not json`} {
		w, decoded := do(t, priceServer(runner, noCredentials), http.MethodPost, "/price", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		assert.NotEmpty(t, decoded["detail"])
	}
	assert.Empty(t, runner.got)
}

func TestPriceUnexpectedError(t *testing.T) {
	runner := &stubRunner{err: errors.New("failed to open browser: chromium missing")}
	w, body := do(t, priceServer(runner, noCredentials), http.MethodPost, "/price", `{"email":"a@b.c","password":"pw"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to open browser: chromium missing", body["detail"])
}

func TestQuickPrice(t *testing.T) {
	runner := &stubRunner{res: &entities.PriceResult{Product: "Blue Top"}}
	creds := func() config.Credentials { return config.Credentials{Email: "env@b.c", Password: "envpw"} }

	w, _ := do(t, priceServer(runner, creds), http.MethodGet, "/price/quick?product=Blue+Top", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, runner.got, 1)
	assert.Equal(t, entities.PriceRequest{Email: "env@b.c", Password: "envpw", Product: "Blue Top"}, runner.got[0])
}

func TestQuickPriceErrors(t *testing.T) {
	runner := &stubRunner{}

	w, _ := do(t, priceServer(runner, noCredentials), http.MethodGet, "/price/quick", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, body := do(t, priceServer(runner, noCredentials), http.MethodGet, "/price/quick?product=Blue+Top", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Set AE_EMAIL and AE_PASSWORD env vars for quick endpoint.", body["detail"])
	assert.Empty(t, runner.got)
}

func planServer(launcher *browsertest.Launcher, gatherer prometheus.Gatherer, rec plan.Recorder) *gin.Engine {
	executor := plan.NewExecutor(nil, rec, quietLogger())
	return NewPlanServer(Options{Logger: quietLogger(), Gatherer: gatherer}, NewPlanHandler(launcher, executor, quietLogger()))
}

func TestDescribePage(t *testing.T) {
	launcher := &browsertest.Launcher{NewPage: func() *browsertest.Page {
		p := browsertest.NewPage()
		p.Snapshot = "- heading \"Login to your account\" [level=2]\n- button \"Login\"\n"
		return p
	}}

	w, body := do(t, planServer(launcher, nil, nil), http.MethodGet, "/mcp/describe_page?url=https://automationexercise.com/login&depth=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://automationexercise.com/login", body["url"])

	a11y := body["a11y"].(map[string]interface{})
	assert.Equal(t, "WebArea", a11y["role"])
	assert.Len(t, a11y["children"], 2)

	require.Len(t, launcher.Sessions, 1)
	assert.True(t, launcher.Sessions[0].Closed)
	assert.Equal(t, []bool{true}, launcher.Headless)
}

func TestDescribePageValidation(t *testing.T) {
	launcher := &browsertest.Launcher{}
	srv := planServer(launcher, nil, nil)

	w, _ := do(t, srv, http.MethodGet, "/mcp/describe_page", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = do(t, srv, http.MethodGet, "/mcp/describe_page?url=https://x.test&depth=deep", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, launcher.Sessions)
}

func TestDescribePageNavigationError(t *testing.T) {
	launcher := &browsertest.Launcher{NewPage: func() *browsertest.Page {
		p := browsertest.NewPage()
		p.GotoErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
		return p
	}}

	w, body := do(t, planServer(launcher, nil, nil), http.MethodGet, "/mcp/describe_page?url=https://nowhere.invalid", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "net::ERR_NAME_NOT_RESOLVED", body["detail"])
	assert.True(t, launcher.Sessions[0].Closed)
}

func TestExecutePlan(t *testing.T) {
	launcher := &browsertest.Launcher{NewPage: func() *browsertest.Page {
		return browsertest.NewPage().SetText("h2", "Rs. 500")
	}}
	reg := prometheus.NewRegistry()
	m := metrics.MustNew(reg)
	srv := planServer(launcher, reg, m)

	w, body := do(t, srv, http.MethodPost, "/mcp/execute_plan",
		`{"headless":false,"steps":[{"action":"goto","url":"https://automationexercise.com"},{"action":"read_text","selector":"h2"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "https://automationexercise.com", body["current_url"])
	logs := body["logs"].([]interface{})
	require.Len(t, logs, 2)
	assert.Equal(t, "Rs. 500", logs[1].(map[string]interface{})["text"])
	assert.Equal(t, []bool{false}, launcher.Headless)
	assert.True(t, launcher.Sessions[0].Closed)

	mw := httptest.NewRecorder()
	srv.ServeHTTP(mw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, mw.Body.String(), `robotdriver_plan_steps_total{action="read_text",status="ok"} 1`)
}

func TestExecutePlanValidation(t *testing.T) {
	launcher := &browsertest.Launcher{}
	srv := planServer(launcher, nil, nil)

	for _, body := range []string{`{}`, `{"steps":[{"selector":"#a"}]}`, `[]`} {
		w, decoded := do(t, srv, http.MethodPost, "/mcp/execute_plan", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		assert.NotEmpty(t, decoded["detail"])
	}
	assert.Empty(t, launcher.Sessions)
}

func TestExecutePlanLaunchError(t *testing.T) {
	launcher := &browsertest.Launcher{Err: errors.New("chromium missing")}
	w, body := do(t, planServer(launcher, nil, nil), http.MethodPost, "/mcp/execute_plan", `{"steps":[]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "chromium missing", body["detail"])
	assert.Equal(t, []bool{true}, launcher.Headless)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), quietLogger())
	}()
	cancel()
	assert.NoError(t, <-done)
}
