package models

// Product est la vue catalogue dont le panier a besoin.
// Le panier ne modifie jamais le stock.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice,omitempty"`
	Stock         int      `json:"stock"`
	IsActive      bool     `json:"isActive"`
	Vendor        string   `json:"vendor,omitempty"`
	Images        []string `json:"images,omitempty"`
}

func (p *Product) FirstImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
