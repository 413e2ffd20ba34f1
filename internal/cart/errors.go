package cart

import (
	"errors"
	"fmt"
)

// Kind classe une erreur panier pour la couche HTTP.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindOutOfStock
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindOutOfStock:
		return "out_of_stock"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "non authentifié"}
	ErrInvalidQuantity    = &Error{Kind: KindValidation, Message: "quantité invalide (minimum 1)"}
	ErrOutOfStock         = &Error{Kind: KindOutOfStock, Message: "stock insuffisant"}
	ErrProductUnavailable = &Error{Kind: KindNotFound, Message: "produit introuvable ou indisponible"}
	ErrItemNotFound       = &Error{Kind: KindNotFound, Message: "produit introuvable dans le panier"}
	ErrEmptyCart          = &Error{Kind: KindValidation, Message: "panier vide"}
)

// ErrProductNotFound est renvoyée par le catalogue quand le produit n'existe pas.
var ErrProductNotFound = errors.New("product not found")

func validationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func internalError(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf retourne la catégorie d'une erreur, KindInternal par défaut.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
