package auth

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
	"github.com/jhoicas/storefront-api/pkg/slug"
)

// MinPasswordLength largo mínimo de la contraseña.
const MinPasswordLength = 8

// StoreDefaults valores iniciales de la configuración de una tienda nueva.
type StoreDefaults struct {
	Currency          string
	LowStockThreshold int
}

// OnboardingUseCase alta de usuario y, opcionalmente, de su tienda con configuración y archivos.
// Es una transacción de varios pasos sin tx de BD: si un paso falla se deshacen los anteriores.
type OnboardingUseCase struct {
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
	storage   ports.ObjectStorage
	jwtCfg    JWTConfig
	defaults  StoreDefaults
	log       *logger.Logger
}

// NewOnboardingUseCase construye el caso de uso. log nil = sin logs.
func NewOnboardingUseCase(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	storage ports.ObjectStorage,
	jwtCfg JWTConfig,
	defaults StoreDefaults,
	log *logger.Logger,
) *OnboardingUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OnboardingUseCase{
		userRepo:  userRepo,
		storeRepo: storeRepo,
		storage:   storage,
		jwtCfg:    jwtCfg,
		defaults:  defaults,
		log:       log.Component("onboarding"),
	}
}

// CreateUser registra al dueño y su tienda. Ante un error deshace en orden inverso
// (archivos, configuración, tienda, usuario) y devuelve el error original.
func (uc *OnboardingUseCase) CreateUser(ctx context.Context, in dto.SignupRequest) (out *dto.SignupResponse, err error) {
	comp := &compensation{log: uc.log}
	defer func() {
		if err != nil {
			comp.run(context.WithoutCancel(ctx), err)
		}
	}()

	user, err := uc.createUserCore(ctx, in, comp)
	if err != nil {
		return nil, err
	}
	var store *entity.Store
	if in.Store != nil {
		store, err = uc.createStoreWithSettings(ctx, user, in, comp)
		if err != nil {
			return nil, err
		}
	}

	token, exp, err := issueToken(uc.jwtCfg, user)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("store_id", user.StoreID).Msg("usuario registrado")
	return &dto.SignupResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      *toUserResponse(user),
		Store:     toStoreResponse(store),
	}, nil
}

func (uc *OnboardingUseCase) createUserCore(ctx context.Context, in dto.SignupRequest, comp *compensation) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") || len(in.Password) < MinPasswordLength {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleOwner,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	comp.add("usuario", func(ctx context.Context) error { return uc.userRepo.Delete(ctx, user.ID) })
	return user, nil
}

func (uc *OnboardingUseCase) createStoreWithSettings(ctx context.Context, user *entity.User, in dto.SignupRequest, comp *compensation) (*entity.Store, error) {
	name := strings.TrimSpace(in.Store.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	s := strings.TrimSpace(in.Store.Slug)
	if s == "" {
		s = slug.Make(name)
	}
	if !slug.Valid(s) {
		return nil, fmt.Errorf("%w: slug %q", domain.ErrInvalidInput, s)
	}
	taken, err := uc.storeRepo.GetBySlug(ctx, s)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, domain.ErrSlugTaken
	}

	now := time.Now()
	store := &entity.Store{
		ID:          uuid.New().String(),
		OwnerID:     user.ID,
		Name:        name,
		Slug:        s,
		Description: strings.TrimSpace(in.Store.Description),
		Status:      entity.StoreStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	comp.add("tienda", func(ctx context.Context) error { return uc.storeRepo.Delete(ctx, store.ID) })

	if err := uc.userRepo.AssignStore(ctx, user.ID, store.ID); err != nil {
		return nil, err
	}
	user.StoreID = store.ID

	settings := &entity.StoreSettings{
		StoreID:           store.ID,
		Currency:          uc.defaults.Currency,
		LowStockThreshold: uc.defaults.LowStockThreshold,
		ContactEmail:      user.Email,
		ShippingOptions:   []entity.ShippingOption{},
		UpdatedAt:         now,
	}
	if err := uc.storeRepo.CreateSettings(ctx, settings); err != nil {
		return nil, err
	}
	comp.add("configuración", func(ctx context.Context) error { return uc.storeRepo.DeleteSettings(ctx, store.ID) })

	uploads := []struct {
		kind string
		file *dto.Upload
		dst  *string
	}{
		{"logo", in.Logo, &store.LogoURL},
		{"banner", in.Banner, &store.BannerURL},
	}
	uploaded := false
	for _, u := range uploads {
		if u.file == nil {
			continue
		}
		url, err := uploadStoreFile(ctx, uc.storage, comp, store.ID, u.kind, u.file)
		if err != nil {
			return nil, err
		}
		*u.dst = url
		uploaded = true
	}
	if uploaded {
		store.UpdatedAt = time.Now()
		if err := uc.storeRepo.Update(ctx, store); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// uploadStoreFile sube un archivo bajo stores/<storeID>/<kind>-<uuid><ext> y registra su borrado como compensación.
func uploadStoreFile(ctx context.Context, storage ports.ObjectStorage, comp *compensation, storeID, kind string, f *dto.Upload) (string, error) {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return "", fmt.Errorf("%w: %s debe ser una imagen", domain.ErrInvalidInput, kind)
	}
	key := StoreFileKey(storeID, kind, f.Filename)
	url, err := storage.Upload(ctx, key, f.ContentType, f.Body, f.Size)
	if err != nil {
		return "", fmt.Errorf("subir %s: %w", kind, err)
	}
	if comp != nil {
		comp.add("archivo "+key, func(ctx context.Context) error { return storage.Delete(ctx, key) })
	}
	return url, nil
}

// StoreFileKey clave de objeto para archivos públicos de la tienda.
func StoreFileKey(storeID, kind, filename string) string {
	return fmt.Sprintf("stores/%s/%s-%s%s", storeID, kind, uuid.New().String(), strings.ToLower(filepath.Ext(filename)))
}

// KeyFromURL recupera la clave de un archivo de la tienda a partir de su URL pública.
// false si la URL no apunta a un archivo de esa tienda.
func KeyFromURL(storeID, url string) (string, bool) {
	if storeID == "" || url == "" {
		return "", false
	}
	prefix := "stores/" + storeID + "/"
	i := strings.Index(url, prefix)
	if i < 0 || len(url) == i+len(prefix) {
		return "", false
	}
	key := url[i:]
	if j := strings.IndexAny(key, "?#"); j >= 0 {
		key = key[:j]
	}
	return key, true
}

// compensation pila de acciones para deshacer pasos ya aplicados.
type compensation struct {
	log   *logger.Logger
	steps []compensationStep
}

type compensationStep struct {
	name string
	undo func(ctx context.Context) error
}

func (c *compensation) add(name string, undo func(ctx context.Context) error) {
	c.steps = append(c.steps, compensationStep{name: name, undo: undo})
}

// run ejecuta las acciones en orden inverso. Sus errores se registran y no reemplazan a cause.
func (c *compensation) run(ctx context.Context, cause error) {
	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if err := step.undo(ctx); err != nil {
			c.log.Error().Err(err).AnErr("cause", cause).Str("step", step.name).Msg("compensación fallida")
			continue
		}
		c.log.Warn().AnErr("cause", cause).Str("step", step.name).Msg("paso revertido")
	}
}
