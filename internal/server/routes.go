package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/berfenger/devicecap/pkg/action"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/", s.ManifestHandler)
	if s.service != "" {
		e.GET("/.well-known/"+s.service, s.WellKnownHandler)
	}
	e.GET("/schema", s.SchemaHandler)
	e.GET("/healthcheck", s.HealthCheckHandler)

	for _, a := range s.finalized.Actions {
		e.Add(a.Route().Method().String(), s.finalized.Path(a), s.actionHandler(a))
	}

	return e
}

func (s *Server) ManifestHandler(c echo.Context) error {
	return c.JSONBlob(http.StatusOK, s.finalized.Manifest)
}

func (s *Server) WellKnownHandler(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/")
}

func (s *Server) SchemaHandler(c echo.Context) error {
	return c.JSONBlob(http.StatusOK, s.schema)
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	if s.health != nil && s.health.Healthy(c.Request().Context()) {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

func (s *Server) actionHandler(a action.Action) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := rawInputs(c)
		if err != nil {
			return s.errorResponse(c, a, action.InvalidDataWithError("inputs must be a JSON object", err))
		}
		inputs, err := a.Route().Parameters().Resolve(raw)
		if err != nil {
			return s.errorResponse(c, a, err)
		}

		out, err := s.invoker.Invoke(c.Request().Context(), a, inputs)
		if err != nil {
			return s.errorResponse(c, a, err)
		}

		if a.Contract() == action.Empty {
			return c.String(http.StatusOK, "OK")
		}
		return c.JSON(http.StatusOK, out)
	}
}

func (s *Server) errorResponse(c echo.Context, a action.Action, err error) error {
	resp := action.AsErrorResponse(err)
	if resp.Kind == action.InternalError {
		s.logger.Error("action failed", zap.Stringer("action", a.Key()), zap.Error(err))
	} else {
		s.logger.Debug("action rejected", zap.Stringer("action", a.Key()), zap.Error(err))
	}
	return c.JSON(resp.StatusCode(), resp)
}

// rawInputs merges query parameters with a JSON object body, the body
// taking precedence. Query values that are not valid JSON are taken as
// strings.
func rawInputs(c echo.Context) (map[string]json.RawMessage, error) {
	raw := map[string]json.RawMessage{}
	for name, values := range c.QueryParams() {
		if len(values) == 0 {
			continue
		}
		v := values[len(values)-1]
		if json.Valid([]byte(v)) {
			raw[name] = json.RawMessage(v)
			continue
		}
		quoted, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		raw[name] = quoted
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return raw, nil
	}
	var fromBody map[string]json.RawMessage
	if err := json.Unmarshal(body, &fromBody); err != nil {
		return nil, err
	}
	for name, v := range fromBody {
		raw[name] = v
	}
	return raw, nil
}
