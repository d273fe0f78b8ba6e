package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/api/apierror"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/policy"
)

const (
	tagAtLeastOne = "atleastone"
	tagMaxBytes   = "maxbytes"
)

// --- Request types ---

type userIDParam struct {
	ID int64 `json:"id" validate:"gt=0"`
}

// updateUserRequest fields are pointers so "absent" and "empty" differ.
type updateUserRequest struct {
	Name  *string `json:"name"  validate:"omitnil,min=2,max=255"`
	Email *string `json:"email" validate:"omitnil,email,max=255"`
	Role  *string `json:"role"  validate:"omitnil,oneof=user admin"`
}

// normalize trims name and email and lower-cases email before validation.
func (r *updateUserRequest) normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Email != nil {
		email := domain.NormalizeEmail(*r.Email)
		r.Email = &email
	}
	if r.Role != nil {
		role := strings.TrimSpace(*r.Role)
		r.Role = &role
	}
}

// fields lists the attributes the request touches, for policy evaluation.
func (r *updateUserRequest) fields() []policy.Field {
	var out []policy.Field
	if r.Name != nil {
		out = append(out, policy.FieldName)
	}
	if r.Email != nil {
		out = append(out, policy.FieldEmail)
	}
	if r.Role != nil {
		out = append(out, policy.FieldRole)
	}
	return out
}

func (r *updateUserRequest) patch() domain.UserPatch {
	p := domain.UserPatch{Name: r.Name, Email: r.Email}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		p.Role = &role
	}
	return p
}

// atLeastOneField is the cross-field rule of updateUserRequest.
func atLeastOneField(sl validator.StructLevel) {
	r := sl.Current().Interface().(updateUserRequest)
	if r.Name == nil && r.Email == nil && r.Role == nil {
		sl.ReportError(r.Name, "body", "Body", tagAtLeastOne, "")
	}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

func (r *registerRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = domain.NormalizeEmail(r.Email)
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type deletedUserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type userEnvelope struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type deletedUserEnvelope struct {
	Message string              `json:"message"`
	User    deletedUserResponse `json:"user"`
}

type userListEnvelope struct {
	Message string         `json:"message"`
	Users   []userResponse `json:"users"`
	Count   int            `json:"count"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request parsing ---

// parseUserID applies the identifier schema to the :id path parameter.
func parseUserID(c echo.Context) (int64, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierror.Validation(apierror.Issue{Field: "id", Message: positiveInteger("id")})
	}
	if err := c.Validate(&userIDParam{ID: id}); err != nil {
		return 0, err
	}
	return id, nil
}

// bindBody decodes the JSON body, reporting malformed input as a validation issue.
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusUnsupportedMediaType {
			return apierror.Validation(apierror.Issue{Field: "body", Message: "body must be JSON"})
		}
		return apierror.Validation(apierror.Issue{Field: "body", Message: "body must be valid JSON"})
	}
	return nil
}
