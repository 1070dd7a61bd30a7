package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"adetta/internal/apierror"
	"adetta/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "invalid JSON: "+err.Error()))
		return false
	}
	return runValidator(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "invalid query: "+err.Error()))
		return false
	}
	return runValidator(c, req)
}

func runValidator(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// respondError maps a service error to its HTTP status. Storage and unknown
// errors are attached to the context for ErrorHandler to log and answered
// with a generic message.
func respondError(c *gin.Context, err error) {
	var (
		verr  *service.ValidationError
		nf    *service.NotFoundError
		stock *service.InsufficientStockError
		price *service.MissingPriceError
		over  *service.OverpaymentError
	)
	switch {
	case errors.As(err, &verr):
		fields := map[string]string{}
		if verr.Field != "" {
			fields[verr.Field] = verr.Reason
		}
		c.JSON(http.StatusUnprocessableEntity, &apierror.ValidationError{
			Detail: verr.Error(), Code: "validation", Fields: fields,
		})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, apierror.WithCode("not_found", nf.Error()))
	case errors.As(err, &stock):
		resp := apierror.WithCode("insufficient_stock", stock.Error())
		resp.Context = map[string]any{
			"product_id": stock.ProductID,
			"available":  stock.Available,
			"requested":  stock.Requested,
		}
		c.JSON(http.StatusConflict, resp)
	case errors.As(err, &price):
		resp := apierror.WithCode("missing_price", price.Error())
		resp.Context = map[string]any{"product_id": price.ProductID}
		c.JSON(http.StatusConflict, resp)
	case errors.As(err, &over):
		resp := apierror.WithCode("overpayment", over.Error())
		resp.Context = map[string]any{
			"invoice_id":   over.InvoiceID,
			"amount":       over.Amount,
			"open_balance": over.OpenBalance,
		}
		c.JSON(http.StatusConflict, resp)
	case errors.Is(err, service.ErrInvalidPIN):
		c.JSON(http.StatusUnauthorized, apierror.WithCode("invalid_pin", "invalid PIN"))
	case errors.Is(err, service.ErrMailUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, apierror.WithCode("mail_unavailable", "invoice could not be mailed"))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.WithCode("storage", "internal server error"))
	}
}
