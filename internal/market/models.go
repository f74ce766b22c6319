// Package market defines the domain types shared by the catalog, cart,
// order and session packages.
package market

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int       `json:"price"` // KSh, whole units
	OriginalPrice int       `json:"original_price,omitempty"`
	Discount      int       `json:"discount,omitempty"` // percent off OriginalPrice
	Images        []string  `json:"images"`             // first entry is the primary image
	Category      string    `json:"category"`
	VendorID      string    `json:"vendor_id"`
	VendorName    string    `json:"vendor_name"`
	Stock         int       `json:"stock"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	ProductCount int    `json:"product_count"`
}

// CartItem carries a full product snapshot so carts and orders stay
// self-contained: later catalog edits do not rewrite history.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (ci CartItem) Subtotal() int { return ci.Product.Price * ci.Quantity }

type DeliveryLocation struct {
	City           string `json:"city"`
	Area           string `json:"area"`
	StreetLandmark string `json:"street_landmark"`
}

var ErrMissingDeliveryField = errors.New("missing delivery field")

// Validate reports the first missing field. All three are required
// before an order can be created.
func (d DeliveryLocation) Validate() error {
	switch {
	case strings.TrimSpace(d.City) == "":
		return fmt.Errorf("%w: city", ErrMissingDeliveryField)
	case strings.TrimSpace(d.Area) == "":
		return fmt.Errorf("%w: area", ErrMissingDeliveryField)
	case strings.TrimSpace(d.StreetLandmark) == "":
		return fmt.Errorf("%w: street_landmark", ErrMissingDeliveryField)
	}
	return nil
}

type PaymentMethod string

const (
	PaymentMpesa PaymentMethod = "mpesa"
	PaymentCard  PaymentMethod = "card"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentMpesa, PaymentCard:
		return PaymentMethod(s), true
	}
	return "", false
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID               string           `json:"id"`
	CustomerID       string           `json:"customer_id"`
	CustomerName     string           `json:"customer_name"`
	CustomerEmail    string           `json:"customer_email"`
	Items            []CartItem       `json:"items"`
	Total            int              `json:"total"`
	Status           OrderStatus      `json:"status"`
	DeliveryLocation DeliveryLocation `json:"delivery_location"`
	PaymentMethod    PaymentMethod    `json:"payment_method"`
	VendorID         string           `json:"vendor_id"`
	VendorName       string           `json:"vendor_name"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type VendorStats struct {
	TotalProducts int `json:"total_products"`
	TotalOrders   int `json:"total_orders"`
	TotalRevenue  int `json:"total_revenue"`
	PendingOrders int `json:"pending_orders"`
}

type AdminStats struct {
	TotalUsers    int `json:"total_users"`
	TotalVendors  int `json:"total_vendors"`
	TotalProducts int `json:"total_products"`
	TotalOrders   int `json:"total_orders"`
	TotalRevenue  int `json:"total_revenue"`
}
