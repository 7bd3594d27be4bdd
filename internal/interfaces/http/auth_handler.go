package http

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/dto"
)

// AuthHandler maneja registro, login, logout y consulta de sesión.
type AuthHandler struct {
	uc         *auth.AuthUseCase
	onboarding *auth.OnboardingUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, onboarding *auth.OnboardingUseCase) *AuthHandler {
	return &AuthHandler{uc: uc, onboarding: onboarding}
}

// Signup godoc
// @Summary      Registrar usuario y (opcionalmente) su tienda
// @Description  JSON, o multipart/form-data con campos email, password, name, store_name, store_slug, store_description y archivos logo, banner.
// @Tags         auth
// @Accept       json,mpfd
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "email, password, store"
// @Success      201   {object}  dto.SignupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "formulario inválido"})
		}
		closeFiles, err := signupFromForm(form, &in)
		defer closeFiles()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
		}
		if ok, err := validateStruct(c, &in); !ok {
			return err
		}
	} else if ok, err := bindBody(c, &in); !ok {
		return err
	}

	out, err := h.onboarding.CreateUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// signupFromForm copia los campos (los strings de Fiber no sobreviven a la petición) y abre los archivos.
func signupFromForm(form *multipart.Form, in *dto.SignupRequest) (func(), error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return utils.CopyString(strings.TrimSpace(v[0]))
		}
		return ""
	}
	in.Email = value("email")
	in.Password = value("password")
	in.Name = value("name")
	if name := value("store_name"); name != "" {
		in.Store = &dto.SignupStoreRequest{
			Name:        name,
			Slug:        value("store_slug"),
			Description: value("store_description"),
		}
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	open := func(key string) (*dto.Upload, error) {
		files := form.File[key]
		if len(files) == 0 {
			return nil, nil
		}
		fh := files[0]
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		opened = append(opened, f)
		return &dto.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		}, nil
	}
	var err error
	if in.Logo, err = open("logo"); err != nil {
		return closeAll, err
	}
	if in.Banner, err = open("banner"); err != nil {
		return closeAll, err
	}
	return closeAll, nil
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (revoca el token actual)
// @Tags         auth
// @Security     Bearer
// @Success      204
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := GetClaims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Logout(c.UserContext(), claims.SessionID(), claims.ExpiresAtTime()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Session godoc
// @Summary      Sesión actual: usuario y tienda
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	claims := GetClaims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Session(c.UserContext(), claims)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
