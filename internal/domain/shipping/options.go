// Package shipping operaciones sobre el arreglo de opciones de envío de una tienda.
// Las funciones no mutan el slice recibido: devuelven uno nuevo listo para persistir.
package shipping

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// MaxNameLength límite del nombre visible de una opción.
const MaxNameLength = 80

// Patch cambios parciales sobre una opción existente.
type Patch struct {
	Name          *string
	Fee           *decimal.Decimal
	EstimatedDays *int
}

// Validate revisa una opción: nombre no vacío, tarifa y días no negativos.
func Validate(o entity.ShippingOption) error {
	name := strings.TrimSpace(o.Name)
	if name == "" || len(name) > MaxNameLength {
		return domain.ErrInvalidInput
	}
	if o.Fee.IsNegative() || o.EstimatedDays < 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// Find busca por nombre sin distinguir mayúsculas. Devuelve índice -1 si no existe.
func Find(opts []entity.ShippingOption, name string) (entity.ShippingOption, int) {
	key := strings.TrimSpace(name)
	for i, o := range opts {
		if strings.EqualFold(o.Name, key) {
			return o, i
		}
	}
	return entity.ShippingOption{}, -1
}

// Add agrega una opción nueva. Nombre repetido -> ErrDuplicate.
func Add(opts []entity.ShippingOption, o entity.ShippingOption) ([]entity.ShippingOption, error) {
	o.Name = strings.TrimSpace(o.Name)
	if err := Validate(o); err != nil {
		return nil, err
	}
	if _, i := Find(opts, o.Name); i >= 0 {
		return nil, domain.ErrDuplicate
	}
	out := make([]entity.ShippingOption, 0, len(opts)+1)
	out = append(out, opts...)
	return append(out, o), nil
}

// Update aplica un patch a la opción name. Renombrar a un nombre existente -> ErrDuplicate.
func Update(opts []entity.ShippingOption, name string, p Patch) ([]entity.ShippingOption, error) {
	current, idx := Find(opts, name)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	if p.Name != nil {
		newName := strings.TrimSpace(*p.Name)
		if _, j := Find(opts, newName); j >= 0 && j != idx {
			return nil, domain.ErrDuplicate
		}
		current.Name = newName
	}
	if p.Fee != nil {
		current.Fee = *p.Fee
	}
	if p.EstimatedDays != nil {
		current.EstimatedDays = *p.EstimatedDays
	}
	if err := Validate(current); err != nil {
		return nil, err
	}
	out := make([]entity.ShippingOption, len(opts))
	copy(out, opts)
	out[idx] = current
	return out, nil
}

// Remove elimina la opción name conservando el orden del resto.
func Remove(opts []entity.ShippingOption, name string) ([]entity.ShippingOption, error) {
	_, idx := Find(opts, name)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	out := make([]entity.ShippingOption, 0, len(opts)-1)
	out = append(out, opts[:idx]...)
	return append(out, opts[idx+1:]...), nil
}

// Fee resuelve la tarifa de la opción elegida en el checkout.
// Nombre vacío sin opciones configuradas = envío gratis; nombre desconocido = ErrInvalidInput.
func Fee(opts []entity.ShippingOption, name string) (entity.ShippingOption, error) {
	if strings.TrimSpace(name) == "" {
		if len(opts) == 0 {
			return entity.ShippingOption{Fee: decimal.Zero}, nil
		}
		return entity.ShippingOption{}, domain.ErrInvalidInput
	}
	o, idx := Find(opts, name)
	if idx < 0 {
		return entity.ShippingOption{}, domain.ErrInvalidInput
	}
	return o, nil
}
