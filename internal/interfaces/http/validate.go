package http

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Los errores usan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// gt/gte sobre montos decimales.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// BindAndValidate parsea el body JSON en dst y lo valida.
func BindAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.Invalid("", nil, domain.LocationBody, "cuerpo de la petición inválido")
	}
	return validate.Struct(dst)
}

// parseFolio lee :folio como entero positivo.
func parseFolio(c *fiber.Ctx) (int64, error) {
	raw := c.Params("folio")
	folio, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || folio <= 0 {
		return 0, domain.Invalid("folio", raw, domain.LocationParams, "el folio debe ser un entero positivo")
	}
	return folio, nil
}
