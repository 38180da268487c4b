package model

// StorefrontProduct is a product as returned by the external commerce API.
type StorefrontProduct struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Handle           string  `json:"handle"`
	Vendor           *string `json:"vendor,omitempty"`
	ProductType      *string `json:"product_type,omitempty"`
	PriceAmount      *string `json:"price_amount,omitempty"`
	CurrencyCode     *string `json:"currency_code,omitempty"`
	ImageURL         *string `json:"image_url,omitempty"`
	AvailableForSale bool    `json:"available_for_sale"`
}
