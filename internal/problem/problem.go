// Package problem renders RFC 7807 problem details.  Handlers use it for
// validation failures; the HTTP error handler uses it for faults that
// reach the transport boundary.
package problem

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const ContentType = "application/problem+json"

// Problem is an RFC 7807 Problem Details document.  InvalidParams carries
// the per-field reasons of a validation failure.
type Problem struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Status        int            `json:"status"`
	Detail        string         `json:"detail,omitempty"`
	Instance      string         `json:"instance,omitempty"`
	TraceID       string         `json:"traceId,omitempty"`
	InvalidParams []InvalidParam `json:"invalidParams,omitempty"`
}

type InvalidParam struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type Option func(*Problem)

func New(opts ...Option) *Problem {
	p := &Problem{
		Type:   "about:blank",
		Status: http.StatusInternalServerError,
		Detail: "unhandled error",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.Title == "" {
		if t := http.StatusText(p.Status); t != "" {
			p.Title = t
		} else {
			p.Title = "Unknown Error"
		}
	}
	return p
}

func WithStatus(status int) Option {
	return func(p *Problem) { p.Status = status }
}

func WithTitle(title string) Option {
	return func(p *Problem) { p.Title = title }
}

func WithDetail(detail string) Option {
	return func(p *Problem) { p.Detail = detail }
}

func WithInstance(instance string) Option {
	return func(p *Problem) { p.Instance = instance }
}

func WithTraceID(traceID string) Option {
	return func(p *Problem) { p.TraceID = traceID }
}

func WithInvalidParam(name, reason string) Option {
	return func(p *Problem) {
		p.InvalidParams = append(p.InvalidParams, InvalidParam{Name: name, Reason: reason})
	}
}

func BadRequest(detail string, opts ...Option) *Problem {
	base := []Option{WithStatus(http.StatusBadRequest), WithDetail(detail)}
	return New(append(base, opts...)...)
}

// Validation is the problem returned when a body fails its shape
// constraints.
func Validation(params []InvalidParam, opts ...Option) *Problem {
	base := []Option{
		WithStatus(http.StatusBadRequest),
		WithTitle("One or more validation errors occurred."),
		WithDetail("validation failed"),
	}
	p := New(append(base, opts...)...)
	p.InvalidParams = append(p.InvalidParams, params...)
	return p
}

func NotFound(detail string, opts ...Option) *Problem {
	base := []Option{WithStatus(http.StatusNotFound), WithDetail(detail)}
	return New(append(base, opts...)...)
}

func Conflict(detail string, opts ...Option) *Problem {
	base := []Option{WithStatus(http.StatusConflict), WithDetail(detail)}
	return New(append(base, opts...)...)
}

func Internal(detail string, opts ...Option) *Problem {
	base := []Option{WithStatus(http.StatusInternalServerError), WithDetail(detail)}
	return New(append(base, opts...)...)
}

// Send writes p as the response of c.
func Send(c echo.Context, p *Problem) error {
	if p == nil {
		p = Internal("server error")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.Blob(p.Status, ContentType, body)
}
