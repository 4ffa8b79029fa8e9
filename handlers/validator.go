package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"personnel_app_go/services"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const msgInvalidBody = "Corps de requête invalide"

// Validator adapts go-playground/validator to echo.Validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a validator reporting fields by their JSON name
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate implements echo.Validator
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return echo.NewHTTPError(http.StatusBadRequest, fieldMessage(fieldErrs[0]))
		}
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Le champ %s est requis", fe.Field())
	case "email":
		return fmt.Sprintf("Le champ %s doit être un email valide", fe.Field())
	case "min":
		return fmt.Sprintf("Le champ %s doit contenir au moins %s caractères", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("Le champ %s doit valoir l'une des valeurs: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("Le champ %s est invalide", fe.Field())
	}
}

// bind decodes the JSON body into v and validates it
func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	return c.Validate(v)
}

// pageQuery reads the page and limit query parameters. Invalid values fall
// back to the defaults.
func pageQuery(c echo.Context) services.PageQuery {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return services.PageQuery{Page: page, Limit: limit}.Normalize()
}

// queryBool parses an optional boolean query parameter
func queryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Paramètre %s invalide", name))
	}
	return &b, nil
}
