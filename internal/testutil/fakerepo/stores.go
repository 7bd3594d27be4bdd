package fakerepo

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var (
	_ repository.StoreRepository           = (*StoreRepo)(nil)
	_ repository.ShippingOptionsRepository = (*StoreRepo)(nil)
	_ repository.UserRepository            = (*UserRepo)(nil)
)

type StoreRepo struct{ db *DB }

func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("stores.Create"); err != nil {
		return err
	}
	for _, other := range r.db.stores {
		if other.Slug == s.Slug {
			return domain.ErrSlugTaken
		}
	}
	cp := *s
	r.db.stores[s.ID] = &cp
	return nil
}

func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s, ok := r.db.stores[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *StoreRepo) GetBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("stores.GetBySlug"); err != nil {
		return nil, err
	}
	for _, s := range r.db.stores {
		if s.Slug == slug {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("stores.Update"); err != nil {
		return err
	}
	if _, ok := r.db.stores[s.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.db.stores {
		if id != s.ID && other.Slug == s.Slug {
			return domain.ErrSlugTaken
		}
	}
	cp := *s
	r.db.stores[s.ID] = &cp
	return nil
}

func (r *StoreRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.stores, id)
	return nil
}

func (r *StoreRepo) CreateSettings(ctx context.Context, s *entity.StoreSettings) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("stores.CreateSettings"); err != nil {
		return err
	}
	if _, ok := r.db.settings[s.StoreID]; ok {
		return domain.ErrDuplicate
	}
	cp := *s
	cp.ShippingOptions = append([]entity.ShippingOption{}, s.ShippingOptions...)
	r.db.settings[s.StoreID] = &cp
	return nil
}

func (r *StoreRepo) GetSettings(ctx context.Context, storeID string) (*entity.StoreSettings, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s, ok := r.db.settings[storeID]; ok {
		cp := *s
		cp.ShippingOptions = append([]entity.ShippingOption{}, s.ShippingOptions...)
		return &cp, nil
	}
	return nil, nil
}

// UpdateSettings no toca las opciones de envío, igual que el repo PostgreSQL.
func (r *StoreRepo) UpdateSettings(ctx context.Context, s *entity.StoreSettings) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.settings[s.StoreID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *s
	cp.ShippingOptions = cur.ShippingOptions
	r.db.settings[s.StoreID] = &cp
	return nil
}

func (r *StoreRepo) DeleteSettings(ctx context.Context, storeID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.settings, storeID)
	return nil
}

func (r *StoreRepo) GetForUpdate(ctx context.Context, storeID string) ([]entity.ShippingOption, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.settings[storeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]entity.ShippingOption{}, s.ShippingOptions...), nil
}

func (r *StoreRepo) Save(ctx context.Context, storeID string, opts []entity.ShippingOption) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("stores.Save"); err != nil {
		return err
	}
	s, ok := r.db.settings[storeID]
	if !ok {
		return domain.ErrNotFound
	}
	s.ShippingOptions = append([]entity.ShippingOption{}, opts...)
	s.UpdatedAt = time.Now()
	return nil
}

type UserRepo struct{ db *DB }

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("users.Create"); err != nil {
		return err
	}
	for _, other := range r.db.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.db.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) AssignStore(ctx context.Context, userID, storeID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.StoreID = storeID
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.users, id)
	return nil
}
