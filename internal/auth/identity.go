package auth

import (
	"errors"
	"strings"
)

var ErrMissingIdentity = errors.New("identité utilisateur manquante")

// Identity est l'utilisateur déjà authentifié pour lequel on agit.
// Elle est passée explicitement à chaque opération métier.
type Identity struct {
	UserID string
}

func NewIdentity(userID string) (Identity, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Identity{}, ErrMissingIdentity
	}
	return Identity{UserID: userID}, nil
}

func (i Identity) Valid() bool {
	return i.UserID != ""
}
