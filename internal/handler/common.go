package handler // handler contains the HTTP handlers of the catalog API

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/filmes-api/internal/problem"
	"github.com/iliyamo/filmes-api/internal/queue"
)

// Validator adapts go-playground/validator to echo.Validator.  Field names
// in errors are the JSON names so they can be echoed back to clients.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds the validator installed on the echo instance.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

// invalidParams turns validator errors into problem entries.  Errors that
// are not field errors yield a single entry for the body.
func invalidParams(err error) []problem.InvalidParam {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []problem.InvalidParam{{Name: "body", Reason: err.Error()}}
	}
	out := make([]problem.InvalidParam, 0, len(ve))
	for _, fe := range ve {
		out = append(out, problem.InvalidParam{Name: fe.Field(), Reason: reason(fe)})
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	}
	return "failed " + fe.Tag()
}

// bindBody decodes and validates the request body into dst.  A non-nil
// problem means the response should be that problem.
func bindBody(c echo.Context, dst any) *problem.Problem {
	if err := c.Bind(dst); err != nil {
		return problem.BadRequest("invalid request body", problem.WithInstance(c.Request().URL.Path))
	}
	if err := c.Validate(dst); err != nil {
		return problem.Validation(invalidParams(err), problem.WithInstance(c.Request().URL.Path))
	}
	return nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, *problem.Problem) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, problem.BadRequest("invalid "+name, problem.WithInstance(c.Request().URL.Path))
	}
	return id, nil
}

// queryUint parses an optional positive numeric query parameter.  It
// returns nil when the parameter is absent.
func queryUint(c echo.Context, name string) (*uint64, *problem.InvalidParam) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, &problem.InvalidParam{Name: name, Reason: "must be a positive integer"}
	}
	return &v, nil
}

func notFound(c echo.Context, what string) error {
	return problem.Send(c, problem.NotFound(what+" not found", problem.WithInstance(c.Request().URL.Path)))
}

func sendProblem(c echo.Context, p *problem.Problem) error {
	return problem.Send(c, p)
}

// events publishes change events after a write has committed.  Publish
// failures are logged and never change the response.
type events struct {
	pub queue.Publisher
	log *zap.Logger
}

func (e events) emit(ctx context.Context, ev queue.EntityChangedEvent) {
	if e.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := e.pub.Publish(ctx, ev); err != nil {
		e.log.Warn("event publish failed",
			zap.String("entity", ev.Entity),
			zap.String("action", ev.Action),
			zap.Error(err))
	}
}
