package handler

import (
	"net/http"
	"reflect"
	"strings"

	"krakenstore/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("JSON inválido: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindFormAndValidate does the same for multipart/url-encoded forms.
func bindFormAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("Formulario inválido: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var parts []string
		for _, fe := range err.(validator.ValidationErrors) {
			parts = append(parts, fe.Field()+": "+fe.Tag())
		}
		c.JSON(http.StatusBadRequest, apierror.Fail("Datos inválidos — "+strings.Join(parts, ", ")))
		return false
	}
	return true
}

// respondErr maps a service error onto its HTTP status and envelope.
func respondErr(c *gin.Context, err error) {
	e := apierror.From(err)
	c.JSON(e.HTTPStatus(), apierror.Fail(e.Message()))
}
