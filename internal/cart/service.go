package cart

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketplace_back_end/internal/auth"
	"marketplace_back_end/internal/models"
)

// ErrCartNotFound est renvoyée par le Store quand l'utilisateur n'a pas encore de panier.
var ErrCartNotFound = errors.New("cart not found")

// Store persiste un document panier par utilisateur.
type Store interface {
	FindByUser(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, c *models.Cart) error
}

// Catalog donne accès en lecture aux produits.
type Catalog interface {
	FindProduct(ctx context.Context, productID string) (*models.Product, error)
}

// Service orchestre les mutations du panier. Chaque appel est une unité de
// travail indépendante: lecture du panier, vérification du stock, mutation,
// recalcul des totaux puis sauvegarde. Il n'y a aucun verrou entre requêtes.
type Service struct {
	store   Store
	catalog Catalog
	now     func() time.Time
}

type Option func(*Service)

// WithClock remplace l'horloge (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: catalog,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type AddInput struct {
	ProductID     string
	Name          string
	Brand         string
	Image         string
	Price         *float64
	OriginalPrice float64
	Quantity      *int
	Discount      float64
	Variant       models.Variant
}

type UpdateInput struct {
	ProductID string
	Quantity  int
	Variant   models.Variant
}

type RemoveInput struct {
	ProductID string
	Variant   models.Variant
}

// Get retourne le panier de l'utilisateur, ou un panier vide s'il n'existe pas.
func (s *Service) Get(ctx context.Context, id auth.Identity) (*models.Cart, error) {
	if !id.Valid() {
		return nil, ErrUnauthorized
	}
	c, _, err := s.load(ctx, id.UserID)
	return c, err
}

func (s *Service) Add(ctx context.Context, id auth.Identity, in AddInput) (*models.Cart, error) {
	if !id.Valid() {
		return nil, ErrUnauthorized
	}

	quantity, err := in.validate()
	if err != nil {
		return nil, err
	}

	product, err := s.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if err := CheckStock(product, quantity); err != nil {
		return nil, err
	}

	current, _, err := s.load(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	c := current.Clone()

	if i := Match(c.Items, in.ProductID, in.Variant); i >= 0 {
		cumulative := c.Items[i].Quantity + quantity
		if err := CheckStock(product, cumulative); err != nil {
			return nil, err
		}
		c.Items[i].Quantity = cumulative
	} else {
		c.Items = append(c.Items, models.CartItem{
			ProductID:     in.ProductID,
			Name:          in.Name,
			Brand:         in.Brand,
			Image:         in.Image,
			Price:         *in.Price,
			OriginalPrice: in.OriginalPrice,
			Quantity:      quantity,
			Discount:      in.Discount,
			Vendor:        product.Vendor,
			Variant:       in.Variant,
		})
	}

	return s.save(ctx, c)
}

// UpdateQuantity remplace la quantité d'une ligne existante.
func (s *Service) UpdateQuantity(ctx context.Context, id auth.Identity, in UpdateInput) (*models.Cart, error) {
	if !id.Valid() {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, validationError("productId est obligatoire")
	}
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	current, _, err := s.load(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	i := Match(current.Items, in.ProductID, in.Variant)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	product, err := s.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if err := CheckStock(product, in.Quantity); err != nil {
		return nil, err
	}

	c := current.Clone()
	c.Items[i].Quantity = in.Quantity
	return s.save(ctx, c)
}

// Remove retire une ligne. Une ligne absente n'est pas une erreur: le panier
// courant est renvoyé tel quel, sans écriture.
func (s *Service) Remove(ctx context.Context, id auth.Identity, in RemoveInput) (*models.Cart, error) {
	if !id.Valid() {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, validationError("productId est obligatoire")
	}

	current, _, err := s.load(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	i := Match(current.Items, in.ProductID, in.Variant)
	if i < 0 {
		return current, nil
	}

	c := current.Clone()
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return s.save(ctx, c)
}

func (s *Service) Clear(ctx context.Context, id auth.Identity) (*models.Cart, error) {
	if !id.Valid() {
		return nil, ErrUnauthorized
	}

	current, found, err := s.load(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if !found {
		return current, nil
	}

	c := current.Clone()
	c.Items = []models.CartItem{}
	return s.save(ctx, c)
}

// Snapshot retourne le panier figé que la commande utilisera pour construire ses lignes.
func (s *Service) Snapshot(ctx context.Context, id auth.Identity) (*models.Cart, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	return c.Clone(), nil
}

// load retourne le panier stocké, ou un panier vide synthétique (found=false).
func (s *Service) load(ctx context.Context, userID string) (*models.Cart, bool, error) {
	c, err := s.store.FindByUser(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return models.NewEmptyCart(userID), false, nil
	}
	if err != nil {
		return nil, false, internalError("erreur lecture panier", err)
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c, true, nil
}

func (s *Service) product(ctx context.Context, productID string) (*models.Product, error) {
	p, err := s.catalog.FindProduct(ctx, productID)
	if errors.Is(err, ErrProductNotFound) {
		return nil, ErrProductUnavailable
	}
	if err != nil {
		return nil, internalError("erreur lecture produit", err)
	}
	return p, nil
}

// save recalcule les totaux juste avant l'écriture.
func (s *Service) save(ctx context.Context, c *models.Cart) (*models.Cart, error) {
	Recalculate(c)

	now := s.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	if err := s.store.Save(ctx, c); err != nil {
		return nil, internalError("erreur sauvegarde panier", err)
	}
	return c, nil
}

func (in AddInput) validate() (int, error) {
	var missing []string
	if strings.TrimSpace(in.ProductID) == "" {
		missing = append(missing, "productId")
	}
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	if strings.TrimSpace(in.Image) == "" {
		missing = append(missing, "image")
	}
	if strings.TrimSpace(in.Brand) == "" {
		missing = append(missing, "brand")
	}
	if len(missing) > 0 {
		return 0, validationError("champs obligatoires manquants: %s", strings.Join(missing, ", "))
	}

	if *in.Price < 0 || in.OriginalPrice < 0 {
		return 0, validationError("le prix ne peut pas être négatif")
	}
	if in.Discount < 0 || in.Discount > 100 {
		return 0, validationError("la remise doit être comprise entre 0 et 100")
	}

	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	return quantity, nil
}
