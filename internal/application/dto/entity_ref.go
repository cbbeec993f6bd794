package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// EntityRef referencia a una entidad tal como llega del cliente: número, cadena o null.
// Present=false cuando el campo falta, es null o es una cadena vacía.
// Raw conserva el texto original para mensajes de error y métricas.
type EntityRef struct {
	Raw     string
	Present bool
}

// RefOf construye una referencia presente a partir de un ID numérico.
func RefOf(id int64) EntityRef {
	return EntityRef{Raw: strconv.FormatInt(id, 10), Present: true}
}

// RawRef construye una referencia presente con texto arbitrario.
func RawRef(raw string) EntityRef {
	raw = strings.TrimSpace(raw)
	return EntityRef{Raw: raw, Present: raw != ""}
}

// UnmarshalJSON acepta 7, "7", null o "".
func (r *EntityRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = EntityRef{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = RawRef(s)
		return nil
	}
	// Números, booleanos u objetos quedan como texto crudo; ID() decide si son válidos.
	*r = EntityRef{Raw: string(b), Present: true}
	return nil
}

// MarshalJSON serializa la referencia como cadena o null.
func (r EntityRef) MarshalJSON() ([]byte, error) {
	if !r.Present {
		return []byte("null"), nil
	}
	return json.Marshal(r.Raw)
}

// ID devuelve el entero positivo referenciado; ok=false si no es parseable o no es positivo.
func (r EntityRef) ID() (int64, bool) {
	if !r.Present {
		return 0, false
	}
	n, err := strconv.ParseInt(r.Raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
