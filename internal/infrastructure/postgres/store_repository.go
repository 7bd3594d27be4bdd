package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var (
	_ repository.StoreRepository           = (*StoreRepo)(nil)
	_ repository.ShippingOptionsRepository = (*StoreRepo)(nil)
)

// StoreRepo implementación de StoreRepository sobre PostgreSQL (usable con pool o tx).
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de persistencia para tiendas. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const storeColumns = `id, owner_id, name, slug, description, logo_url, banner_url, status, created_at, updated_at`

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Slug, &s.Description, &s.LogoURL, &s.BannerURL, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste una tienda nueva. Slug repetido -> ErrSlugTaken.
func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stores (`+storeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.OwnerID, s.Name, s.Slug, s.Description, s.LogoURL, s.BannerURL, s.Status, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda por ID. (nil, nil) si no existe.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	s, err := scanStore(r.q.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return s, nil
}

// GetBySlug obtiene una tienda por slug. (nil, nil) si no existe.
func (r *StoreRepo) GetBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	s, err := scanStore(r.q.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store by slug: %w", err)
	}
	return s, nil
}

// Update actualiza los datos editables de la tienda.
func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stores SET name = $2, slug = $3, description = $4, logo_url = $5, banner_url = $6, status = $7, updated_at = $8
		WHERE id = $1`,
		s.ID, s.Name, s.Slug, s.Description, s.LogoURL, s.BannerURL, s.Status, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("update store: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la tienda (y en cascada su configuración y catálogo).
func (r *StoreRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	return nil
}

// CreateSettings inserta la configuración inicial de la tienda.
func (r *StoreRepo) CreateSettings(ctx context.Context, st *entity.StoreSettings) error {
	opts, err := marshalShippingOptions(st.ShippingOptions)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO store_settings (store_id, currency, contact_email, contact_phone, address, low_stock_threshold, shipping_options, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		st.StoreID, st.Currency, st.ContactEmail, st.ContactPhone, st.Address, st.LowStockThreshold, opts, st.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert store settings: %w", err)
	}
	return nil
}

// GetSettings obtiene la configuración de la tienda. (nil, nil) si no existe.
func (r *StoreRepo) GetSettings(ctx context.Context, storeID string) (*entity.StoreSettings, error) {
	var st entity.StoreSettings
	var raw []byte
	err := r.q.QueryRow(ctx, `
		SELECT store_id, currency, contact_email, contact_phone, address, low_stock_threshold, shipping_options, updated_at
		FROM store_settings WHERE store_id = $1`, storeID,
	).Scan(&st.StoreID, &st.Currency, &st.ContactEmail, &st.ContactPhone, &st.Address, &st.LowStockThreshold, &raw, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store settings: %w", err)
	}
	if st.ShippingOptions, err = unmarshalShippingOptions(raw); err != nil {
		return nil, err
	}
	return &st, nil
}

// UpdateSettings actualiza la configuración general. shipping_options se gestiona aparte (Save).
func (r *StoreRepo) UpdateSettings(ctx context.Context, st *entity.StoreSettings) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE store_settings SET currency = $2, contact_email = $3, contact_phone = $4, address = $5, low_stock_threshold = $6, updated_at = $7
		WHERE store_id = $1`,
		st.StoreID, st.Currency, st.ContactEmail, st.ContactPhone, st.Address, st.LowStockThreshold, st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update store settings: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteSettings elimina la configuración (compensación del onboarding).
func (r *StoreRepo) DeleteSettings(ctx context.Context, storeID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM store_settings WHERE store_id = $1`, storeID); err != nil {
		return fmt.Errorf("delete store settings: %w", err)
	}
	return nil
}

// GetForUpdate lee shipping_options bloqueando la fila de configuración.
func (r *StoreRepo) GetForUpdate(ctx context.Context, storeID string) ([]entity.ShippingOption, error) {
	var raw []byte
	err := r.q.QueryRow(ctx, `SELECT shipping_options FROM store_settings WHERE store_id = $1 FOR UPDATE`, storeID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get shipping options for update: %w", err)
	}
	return unmarshalShippingOptions(raw)
}

// Save reemplaza el arreglo completo de opciones de envío.
func (r *StoreRepo) Save(ctx context.Context, storeID string, opts []entity.ShippingOption) error {
	raw, err := marshalShippingOptions(opts)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `UPDATE store_settings SET shipping_options = $2, updated_at = now() WHERE store_id = $1`, storeID, raw)
	if err != nil {
		return fmt.Errorf("save shipping options: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func marshalShippingOptions(opts []entity.ShippingOption) ([]byte, error) {
	if opts == nil {
		opts = []entity.ShippingOption{}
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("marshal shipping options: %w", err)
	}
	return raw, nil
}

func unmarshalShippingOptions(raw []byte) ([]entity.ShippingOption, error) {
	opts := []entity.ShippingOption{}
	if len(raw) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("unmarshal shipping options: %w", err)
	}
	return opts, nil
}
