package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// VATRate tasa de IVA (19%).
var VATRate = decimal.RequireFromString("0.19")

// ExpectedVAT calcula el IVA de un neto, redondeado a pesos enteros.
func ExpectedVAT(net decimal.Decimal) decimal.Decimal {
	return net.Mul(VATRate).Round(0)
}

// checkVAT valida el IVA declarado contra la exención: exenta -> IVA 0, afecta -> 19% del neto.
// La comparación es decimal exacta; no hay tolerancia de punto flotante.
func checkVAT(net, vat decimal.Decimal, exempt string) error {
	if exempt == entity.VATExemptYes {
		if !vat.IsZero() {
			return domain.BusinessRule("iva", vat.String(), domain.LocationBody, "una factura exenta debe tener IVA 0")
		}
		return nil
	}
	if expected := ExpectedVAT(net); !vat.Equal(expected) {
		return domain.BusinessRule("iva", vat.String(), domain.LocationBody,
			"el IVA debe ser el 19% del pago neto ("+expected.String()+")")
	}
	return nil
}
