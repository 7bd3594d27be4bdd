package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims de la sesión del panel: claims estándar JWT más los campos propios de la aplicación.
// ID (jti) identifica la sesión para poder revocarla en el logout.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	StoreID string `json:"store_id"`
	Role    string `json:"role"` // "owner" | "admin" | "staff"
}

// SessionID devuelve el jti del token.
func (c *Claims) SessionID() string { return c.ID }

// ExpiresAtTime devuelve el vencimiento del token (cero si no tiene).
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// OrderClaims token que recibe el cliente final para consultar su pedido sin sesión.
type OrderClaims struct {
	jwt.RegisteredClaims
	OrderID string `json:"order_id"`
	StoreID string `json:"store_id"`
}

// Generate genera un token de sesión firmado (HS256) que incluye userID, storeID, role y el id de sesión.
func Generate(secret, sessionID, userID, storeID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:  userID,
		StoreID: storeID,
		Role:    role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida el token de sesión y devuelve sus claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, hmacKey(secret))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

// GenerateOrderToken firma el token de consulta de un pedido.
func GenerateOrderToken(secret, orderID, storeID string, expHours int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if orderID == "" || storeID == "" {
		return "", errors.New("jwt: order_id y store_id son obligatorios")
	}
	now := time.Now()
	claims := OrderClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   orderID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expHours) * time.Hour)),
		},
		OrderID: orderID,
		StoreID: storeID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseOrderToken valida el token de pedido y devuelve (orderID, storeID).
func ParseOrderToken(secret, tokenString string) (orderID, storeID string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &OrderClaims{}, hmacKey(secret))
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*OrderClaims)
	if !ok || !token.Valid || claims.OrderID == "" {
		return "", "", fmt.Errorf("claims inválidos")
	}
	return claims.OrderID, claims.StoreID, nil
}

func hmacKey(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}
}
