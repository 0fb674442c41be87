package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nrfta/tubepage"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report query and path names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

var messages = map[string]string{
	"required": "%s is required",
	"min":      "%s must be at least %s",
	"max":      "%s must be at most %s",
	"uuid":     "%s must be a valid UUID",
}

// RequestError is a request that failed binding or validation. Fields maps
// parameter names to messages.
type RequestError struct {
	Fields map[string]string
}

func (e *RequestError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, msg := range e.Fields {
		parts = append(parts, msg)
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func newRequestError(err error) *RequestError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{Fields: map[string]string{"request": err.Error()}}
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		msg, ok := messages[e.Tag()]
		switch {
		case !ok:
			fields[e.Field()] = fmt.Sprintf("%s is invalid", e.Field())
		case strings.Count(msg, "%s") == 2:
			fields[e.Field()] = fmt.Sprintf(msg, e.Field(), e.Param())
		default:
			fields[e.Field()] = fmt.Sprintf(msg, e.Field())
		}
	}
	return &RequestError{Fields: fields}
}

// bind fills req from the path and query string and validates it.
func bind(c *gin.Context, req any) error {
	if err := c.ShouldBindUri(req); err != nil {
		return newRequestError(err)
	}
	if err := c.ShouldBindQuery(req); err != nil {
		return newRequestError(err)
	}
	if err := validate.Struct(req); err != nil {
		return newRequestError(err)
	}
	return nil
}

// PageQuery holds the page parameters shared by every listing.
type PageQuery struct {
	Limit  int    `form:"limit" validate:"required,min=1,max=100"`
	Cursor string `form:"cursor" validate:"omitempty,max=4096"`
}

func (q PageQuery) args() *paging.PageArgs {
	return paging.NewPageArgs(q.Limit, q.Cursor)
}

type videosRequest struct {
	PageQuery
	UserID     string `form:"userId" validate:"omitempty,uuid"`
	CategoryID string `form:"categoryId" validate:"omitempty,uuid"`
}

type searchRequest struct {
	PageQuery
	Query      string `form:"query" validate:"max=200"`
	CategoryID string `form:"categoryId" validate:"omitempty,uuid"`
}

type videoRequest struct {
	PageQuery
	VideoID string `uri:"id" form:"-" validate:"required,uuid"`
}

type commentsRequest struct {
	PageQuery
	VideoID  string `uri:"id" form:"-" validate:"required,uuid"`
	ParentID string `form:"parentId" validate:"omitempty,uuid"`
}

type playlistsForVideoRequest struct {
	PageQuery
	VideoID string `uri:"videoId" form:"-" validate:"required,uuid"`
}

type playlistRequest struct {
	PageQuery
	PlaylistID string `uri:"id" form:"-" validate:"required,uuid"`
}
