package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/jpm92/simple-fact/internal/apierror"
	"github.com/jpm92/simple-fact/internal/service"

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
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondServiceError maps the service sentinels onto stable HTTP statuses:
// missing resources are 404, confirmation gates and lifecycle refusals are
// 409 so the shell can open its dialogs on them, bad requests are 400.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVentaNoEncontrada),
		errors.Is(err, service.ErrClienteNoEncontrado),
		errors.Is(err, service.ErrDocumentoNoEmitido):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrRequiereConfirmacion),
		errors.Is(err, service.ErrRequiereAceptacion),
		errors.Is(err, service.ErrVentaRechazada),
		errors.Is(err, service.ErrVentaFacturada),
		errors.Is(err, service.ErrEstadoInvalido):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSinItems),
		errors.Is(err, service.ErrEmisorIncompleto),
		errors.Is(err, service.ErrClienteIncompleto),
		errors.Is(err, service.ErrTipoDocumentoInvalido):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrRenderPDF):
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
