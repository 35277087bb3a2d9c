package inventory

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeCode devuelve la forma canónica de un código de ítem para comparar unicidad:
// sin espacios en los extremos y con case folding Unicode ("par-001" == " PAR-001 ").
func NormalizeCode(code string) string {
	return cases.Fold().String(strings.TrimSpace(code))
}

// SameCode compara dos códigos ignorando mayúsculas y espacios en los extremos.
func SameCode(a, b string) bool {
	return NormalizeCode(a) == NormalizeCode(b)
}
