package billing

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// DefaultNumberPrefix prefijo del número visible de factura.
const DefaultNumberPrefix = "INV"

// NumberGenerator produce números visibles de factura con formato PREFIJO-AAMMDD-NNN.
// El sufijo es aleatorio (000-999): dos facturas del mismo día pueden coincidir,
// por eso el número es decorativo y la identidad real es el ID y la referencia UUID.
type NumberGenerator struct {
	Prefix string
	// Suffix devuelve un entero en [0, 1000); nil usa math/rand.
	Suffix func() int
}

// NewNumberGenerator construye el generador con el prefijo dado (vacío = INV).
func NewNumberGenerator(prefix string) *NumberGenerator {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	return &NumberGenerator{Prefix: prefix}
}

// Next genera el número para la fecha indicada.
func (g *NumberGenerator) Next(now time.Time) string {
	suffix := 0
	if g.Suffix != nil {
		suffix = g.Suffix() % 1000
	} else {
		suffix = rand.IntN(1000)
	}
	if suffix < 0 {
		suffix = -suffix
	}
	return fmt.Sprintf("%s-%s-%03d", g.Prefix, now.Format("060102"), suffix)
}
