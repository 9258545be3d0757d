package cart

import (
	"github.com/shopspring/decimal"
)

type Tab string

const (
	TAB_FOOD   Tab = "food"
	TAB_DRINKS Tab = "drinks"
)

type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type Catalog struct {
	tabs map[Tab][]Product
}

func NewCatalog(food, drinks []Product) Catalog {
	return Catalog{tabs: map[Tab][]Product{TAB_FOOD: food, TAB_DRINKS: drinks}}
}

// DefaultCatalog is the menu offered on the ordering page.
func DefaultCatalog() Catalog {
	return NewCatalog(
		[]Product{
			product("1", "Burger", "8.99", "https://images.unsplash.com/photo-1550547660-d9450f859349?auto=format&fit=crop&w=1200&q=80"),
			product("2", "Pasta", "11.99", "https://images.unsplash.com/photo-1525755662778-989d0524087e?auto=format&fit=crop&w=1200&q=80"),
			product("3", "Pizza", "12.99", "https://images.unsplash.com/photo-1513104890138-7c749659a591?auto=format&fit=crop&w=1200&q=80"),
			product("4", "Steak", "18.99", "https://images.unsplash.com/photo-1600891964599-f61ba0e24092?auto=format&fit=crop&w=1200&q=80"),
			product("5", "Chips", "3.99", "https://images.unsplash.com/photo-1541592106381-b31e9677c0e5?auto=format&fit=crop&w=1200&q=80"),
			product("6", "Chicken", "8.99", "https://images.unsplash.com/photo-1562967916-eb82221dfb92?w=800"),
		},
		[]Product{
			product("7", "Still Water", "2.00", "https://images.unsplash.com/photo-1564419320461-6870880221ad?auto=format&fit=crop&w=1200&q=80"),
			product("8", "Sparkling Water", "2.50", "https://images.unsplash.com/photo-1548839140-29a749e1cf4d?auto=format&fit=crop&w=1200&q=80"),
			product("9", "Fizzy Drink", "3.00", "https://images.unsplash.com/photo-1581636625402-29b2a704ef13?auto=format&fit=crop&w=1200&q=80"),
			product("10", "Coffee", "2.80", "https://images.unsplash.com/photo-1509042239860-f550ce710b93?auto=format&fit=crop&w=1200&q=80"),
		},
	)
}

func product(id, name, price, image string) Product {
	return Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Image: image}
}

// Tab returns the products of tab, nil for an unknown tab.
func (c Catalog) Tab(tab Tab) []Product {
	return c.tabs[tab]
}

func (c Catalog) Find(id string) (Product, error) {
	for _, tab := range []Tab{TAB_FOOD, TAB_DRINKS} {
		for _, p := range c.tabs[tab] {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return Product{}, ErrUnknownProduct
}
