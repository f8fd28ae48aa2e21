package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/berfenger/devicecap/internal/appliance"
	"github.com/berfenger/devicecap/internal/util"
	"github.com/berfenger/devicecap/pkg/action"
	"github.com/berfenger/devicecap/pkg/device"
	"github.com/berfenger/devicecap/pkg/parameter"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// directInvoker runs actions in place with the appliance state.
type directInvoker struct {
	state any
	calls []string
}

func (d *directInvoker) Invoke(ctx context.Context, a action.Action, inputs parameter.Values) (any, error) {
	d.calls = append(d.calls, a.Key().String())
	return a.Invoke(ctx, action.Request{Inputs: inputs, State: d.state})
}

type staticHealth bool

func (h staticHealth) Healthy(context.Context) bool { return bool(h) }

func newTestServer(t *testing.T, kind string, healthy bool) (http.Handler, *directInvoker, device.Finalized) {
	cfg := util.LoadTestConfig()
	cfg.Device.Kind = kind
	app, err := appliance.New(&cfg, zap.NewNop())
	require.NoError(t, err)
	finalized, err := app.Device.Finalize()
	require.NoError(t, err)

	invoker := &directInvoker{state: app.State}
	s, err := New(cfg, finalized, invoker, staticHealth(healthy), zap.NewNop())
	require.NoError(t, err)
	return s.RegisterRoutes(), invoker, finalized
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newEchoContext(req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	return echo.New().NewContext(req, rec)
}

func TestManifestHandler(t *testing.T) {
	h, _, finalized := newTestServer(t, "light", true)

	rec := do(h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(finalized.Manifest), rec.Body.String())

	manifest, err := device.ParseManifest(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, device.Light, manifest.Kind)
	assert.Equal(t, "/light", manifest.MainRoute)
}

func TestWellKnownRedirect(t *testing.T) {
	h, _, _ := newTestServer(t, "light", true)

	rec := do(h, http.MethodGet, "/.well-known/devicecap", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestSchemaHandler(t *testing.T) {
	h, _, _ := newTestServer(t, "light", true)

	rec := do(h, http.MethodGet, "/schema", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var schema map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.Equal(t, "Device manifest", schema["title"])
}

func TestHealthCheckHandler(t *testing.T) {
	h, _, _ := newTestServer(t, "light", true)
	rec := do(h, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "health_check: OK", rec.Body.String())

	h, _, _ = newTestServer(t, "light", false)
	rec = do(h, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "health_check: FAIL", rec.Body.String())
}

func TestLightActions(t *testing.T) {
	h, invoker, _ := newTestServer(t, "light", true)

	rec := do(h, http.MethodPut, "/light/on", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = do(h, http.MethodGet, "/light/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"on":true}`, rec.Body.String())

	rec = do(h, http.MethodPut, "/light/off", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/light/status", "")
	assert.JSONEq(t, `{"on":false}`, rec.Body.String())

	assert.Equal(t, []string{"PUT /on", "GET /status", "PUT /off", "GET /status"}, invoker.calls)
}

func TestUnknownMethodOnRoute(t *testing.T) {
	h, invoker, _ := newTestServer(t, "light", true)

	rec := do(h, http.MethodGet, "/light/on", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, invoker.calls)
}

func TestFridgeActionInputs(t *testing.T) {
	h, _, _ := newTestServer(t, "fridge", true)

	rec := do(h, http.MethodPost, "/fridge/increase-temperature", `{"increment": 3}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(h, http.MethodPost, "/fridge/increase-temperature", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestFridgeActionInvalidInputs(t *testing.T) {
	h, invoker, _ := newTestServer(t, "fridge", true)

	rec := do(h, http.MethodPost, "/fridge/increase-temperature", `{"increment": 42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp action.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, action.InvalidData, resp.Kind)
	assert.Empty(t, invoker.calls)

	rec = do(h, http.MethodPost, "/fridge/increase-temperature", `[1, 2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, invoker.calls)
}

func TestFridgeInfoAction(t *testing.T) {
	h, _, _ := newTestServer(t, "fridge", true)

	rec := do(h, http.MethodGet, "/fridge/info", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Contains(t, info, "energy")
}

func TestRawInputsQueryAndBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x?a=1&b=hello&c=true", strings.NewReader(`{"a": 2}`))
	rec := httptest.NewRecorder()
	c := newEchoContext(req, rec)

	raw, err := rawInputs(c)
	require.NoError(t, err)
	assert.JSONEq(t, `2`, string(raw["a"]))
	assert.JSONEq(t, `"hello"`, string(raw["b"]))
	assert.JSONEq(t, `true`, string(raw["c"]))
}
