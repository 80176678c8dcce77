package domain

// MenuItem is owned by the menu catalog; orders only read it.
type MenuItem struct {
	ID              string  `json:"_id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	Availability    bool    `json:"availability"`
	PreparationTime int     `json:"preparationTime"`
}

func (m *MenuItem) Ref() MenuItemRef {
	return MenuItemRef{
		ID:       m.ID,
		Name:     m.Name,
		Category: m.Category,
		Price:    m.Price,
	}
}
