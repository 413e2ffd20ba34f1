package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"marketplace_back_end/internal/auth"
	"marketplace_back_end/internal/responses"
)

const (
	identityKey = "identity"
	// UserIDHeader est posé par la passerelle quand elle a déjà authentifié l'appelant.
	UserIDHeader = "X-User-ID"
)

// Identity résout l'utilisateur courant: d'abord un Bearer JWT (HS256,
// claim user_id), sinon l'en-tête X-User-ID quand trustHeader est vrai
// (service derrière une passerelle qui pose et nettoie cet en-tête).
// Sans identité: 401.
func Identity(secret []byte, trustHeader bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID string

		if header := c.GetHeader("Authorization"); header != "" {
			id, msg := userFromBearer(header, secret)
			if msg != "" {
				log.Printf("❌ %s (request %s)", msg, GetRequestID(c))
				responses.Abort(c, http.StatusUnauthorized, msg)
				return
			}
			userID = id
		} else if trustHeader {
			userID = c.GetHeader(UserIDHeader)
		}

		identity, err := auth.NewIdentity(userID)
		if err != nil {
			responses.Abort(c, http.StatusUnauthorized, "Non authentifié")
			return
		}

		c.Set(identityKey, identity)
		c.Set("user_id", identity.UserID)
		c.Next()
	}
}

// userFromBearer retourne l'user_id du token, ou un message d'erreur.
func userFromBearer(header string, secret []byte) (string, string) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Format Authorization invalide"
	}
	if len(secret) == 0 {
		return "", "Authentification JWT non configurée"
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", "Token invalide"
	}

	userID, ok := claims["user_id"].(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", "user_id manquant"
	}
	return userID, ""
}

// GetIdentity lit l'identité posée par Identity. Vide si le middleware n'a pas tourné.
func GetIdentity(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok {
			return id
		}
	}
	return auth.Identity{}
}
