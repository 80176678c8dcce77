package memory

import (
	"time"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// SampleMenu is the catalog served while the primary store is unreachable.
func SampleMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "1", Name: "Samosa Chaat", Category: "appetizer", Price: 95, Availability: true, PreparationTime: 10},
		{ID: "2", Name: "Chicken Tikka", Category: "appetizer", Price: 285, Availability: true, PreparationTime: 20},
		{ID: "3", Name: "Paneer Tikka", Category: "appetizer", Price: 245, Availability: true, PreparationTime: 18},
		{ID: "4", Name: "Masala Dosa", Category: "appetizer", Price: 125, Availability: true, PreparationTime: 15},
		{ID: "5", Name: "Aloo Tikki Chaat", Category: "appetizer", Price: 85, Availability: true, PreparationTime: 12},
		{ID: "6", Name: "Butter Chicken", Category: "main_course", Price: 345, Availability: true, PreparationTime: 25},
		{ID: "7", Name: "Paneer Makhani", Category: "main_course", Price: 295, Availability: true, PreparationTime: 20},
		{ID: "8", Name: "Chicken Biryani", Category: "main_course", Price: 385, Availability: true, PreparationTime: 45},
		{ID: "9", Name: "Mutton Rogan Josh", Category: "main_course", Price: 425, Availability: true, PreparationTime: 60},
		{ID: "10", Name: "Tandoori Chicken", Category: "main_course", Price: 395, Availability: true, PreparationTime: 35},
		{ID: "11", Name: "Palak Paneer", Category: "main_course", Price: 275, Availability: true, PreparationTime: 22},
		{ID: "12", Name: "Vegetable Biryani", Category: "main_course", Price: 285, Availability: true, PreparationTime: 40},
		{ID: "13", Name: "Fish Curry", Category: "main_course", Price: 365, Availability: true, PreparationTime: 25},
		{ID: "14", Name: "Dal Makhani", Category: "main_course", Price: 225, Availability: true, PreparationTime: 30},
		{ID: "15", Name: "Butter Naan", Category: "bread", Price: 55, Availability: true, PreparationTime: 12},
		{ID: "16", Name: "Garlic Naan", Category: "bread", Price: 65, Availability: true, PreparationTime: 12},
		{ID: "17", Name: "Cheese Naan", Category: "bread", Price: 85, Availability: true, PreparationTime: 15},
		{ID: "18", Name: "Tandoori Roti", Category: "bread", Price: 35, Availability: true, PreparationTime: 10},
		{ID: "19", Name: "Kulcha", Category: "bread", Price: 75, Availability: true, PreparationTime: 15},
		{ID: "20", Name: "Mango Lassi", Category: "beverage", Price: 95, Availability: true, PreparationTime: 5},
		{ID: "21", Name: "Sweet Lassi", Category: "beverage", Price: 75, Availability: true, PreparationTime: 5},
		{ID: "22", Name: "Masala Chai", Category: "beverage", Price: 45, Availability: true, PreparationTime: 8},
		{ID: "23", Name: "Fresh Lime Soda", Category: "beverage", Price: 65, Availability: true, PreparationTime: 3},
		{ID: "24", Name: "Thandai", Category: "beverage", Price: 125, Availability: true, PreparationTime: 10},
		{ID: "25", Name: "Gulab Jamun", Category: "dessert", Price: 85, Availability: true, PreparationTime: 20},
		{ID: "26", Name: "Ras Malai", Category: "dessert", Price: 105, Availability: true, PreparationTime: 25},
		{ID: "27", Name: "Kulfi", Category: "dessert", Price: 75, Availability: true, PreparationTime: 5},
		{ID: "28", Name: "Jalebi", Category: "dessert", Price: 65, Availability: true, PreparationTime: 15},
		{ID: "29", Name: "Kheer", Category: "dessert", Price: 95, Availability: true, PreparationTime: 30},
	}
}

type seedLine struct {
	menuID    string
	quantity  int
	unitPrice float64
}

type seedOrder struct {
	id            string
	number        string
	customer      domain.Customer
	lines         []seedLine
	orderType     domain.OrderType
	table         int
	status        domain.Status
	paymentMethod domain.PaymentMethod
	paymentStatus domain.PaymentStatus
	notes         string
	created       time.Time
	updated       time.Time
	estimate      time.Duration
}

var seedOrders = []seedOrder{
	{
		id: "order1", number: "MB001",
		customer:  domain.Customer{Name: "Rajesh Kumar", Phone: "+919876512345", Email: "rajesh.kumar@gmail.com"},
		lines:     []seedLine{{"1", 2, 95}, {"7", 1, 285}, {"15", 3, 55}},
		orderType: domain.OrderTypeDineIn, table: 12,
		status:        domain.StatusDelivered,
		paymentMethod: domain.PaymentCard, paymentStatus: domain.PaymentPaid,
		notes:    "Medium spice level for Paneer Makhani",
		created:  time.Date(2024, 12, 8, 10, 30, 0, 0, ist),
		updated:  time.Date(2024, 12, 8, 11, 45, 0, 0, ist),
		estimate: 25 * time.Minute,
	},
	{
		id: "order2", number: "MB002",
		customer:      domain.Customer{Name: "Priya Sharma", Phone: "+919876554321", Email: "priya.sharma@yahoo.com"},
		lines:         []seedLine{{"8", 1, 325}, {"20", 2, 95}},
		orderType:     domain.OrderTypeTakeout,
		status:        domain.StatusReady,
		paymentMethod: domain.PaymentOnline, paymentStatus: domain.PaymentPaid,
		notes:    "Extra raita with biryani",
		created:  time.Date(2024, 12, 8, 12, 15, 0, 0, ist),
		updated:  time.Date(2024, 12, 8, 12, 45, 0, 0, ist),
		estimate: 35 * time.Minute,
	},
	{
		id: "order3", number: "MB003",
		customer: domain.Customer{
			Name: "Amit Patel", Phone: "+919876567890", Email: "amit.patel@hotmail.com",
			Address: &domain.Address{Street: "123 MG Road, Koramangala", City: "Bangalore", ZipCode: "560034"},
		},
		lines:         []seedLine{{"6", 2, 320}, {"16", 4, 65}, {"25", 1, 85}},
		orderType:     domain.OrderTypeDelivery,
		status:        domain.StatusInPreparation,
		paymentMethod: domain.PaymentCash, paymentStatus: domain.PaymentPaid,
		notes:    "Call before delivery, gate code 1234",
		created:  time.Date(2024, 12, 8, 13, 20, 0, 0, ist),
		updated:  time.Date(2024, 12, 8, 13, 25, 0, 0, ist),
		estimate: 45 * time.Minute,
	},
	{
		id: "order4", number: "MB004",
		customer:  domain.Customer{Name: "Sneha Reddy", Phone: "+919876511111", Email: "sneha.reddy@gmail.com"},
		lines:     []seedLine{{"4", 2, 125}, {"22", 2, 45}},
		orderType: domain.OrderTypeDineIn, table: 8,
		status:        domain.StatusConfirmed,
		paymentMethod: domain.PaymentCash, paymentStatus: domain.PaymentPending,
		notes:    "Extra sambar and chutney",
		created:  time.Date(2024, 12, 8, 14, 10, 0, 0, ist),
		updated:  time.Date(2024, 12, 8, 14, 12, 0, 0, ist),
		estimate: 20 * time.Minute,
	},
	{
		id: "order5", number: "MB005",
		customer:  domain.Customer{Name: "Vikram Singh", Phone: "+919876522222", Email: "vikram.singh@outlook.com"},
		lines:     []seedLine{{"10", 1, 385}, {"12", 1, 275}, {"18", 4, 35}, {"27", 2, 75}},
		orderType: domain.OrderTypeDineIn, table: 15,
		status:        domain.StatusPlaced,
		paymentMethod: domain.PaymentCard, paymentStatus: domain.PaymentPending,
		notes:    "Birthday celebration - please add candle to kulfi",
		created:  time.Date(2024, 12, 8, 15, 30, 0, 0, ist),
		updated:  time.Date(2024, 12, 8, 15, 30, 0, 0, ist),
		estimate: 40 * time.Minute,
	},
	{
		id: "order6", number: "MB006",
		customer:      domain.Customer{Name: "Kavya Nair", Phone: "+919876533333", Email: "kavya.nair@gmail.com"},
		lines:         []seedLine{{"11", 1, 265}, {"14", 1, 225}, {"17", 2, 85}},
		orderType:     domain.OrderTypeTakeout,
		status:        domain.StatusCancelled,
		paymentMethod: domain.PaymentOnline, paymentStatus: domain.PaymentRefunded,
		notes:    "Customer cancelled due to emergency",
		created:  time.Date(2024, 12, 8, 16, 0, 0, 0, ist),
		updated:  time.Date(2024, 12, 8, 16, 15, 0, 0, ist),
		estimate: 30 * time.Minute,
	},
}

// SampleOrders builds the seeded orders, newest first, priced with p.
func SampleOrders(p domain.Pricing) []domain.Order {
	menu := make(map[string]domain.MenuItem)
	for _, m := range SampleMenu() {
		menu[m.ID] = m
	}

	orders := make([]domain.Order, 0, len(seedOrders))
	for i := len(seedOrders) - 1; i >= 0; i-- {
		s := seedOrders[i]
		o := domain.Order{
			ID:            s.id,
			OrderNumber:   s.number,
			Customer:      s.customer,
			Status:        s.status,
			OrderType:     s.orderType,
			PaymentMethod: s.paymentMethod,
			PaymentStatus: s.paymentStatus,
			Notes:         s.notes,
			StatusHistory: seedHistory(s),
			CreatedAt:     s.created,
			UpdatedAt:     s.updated,
		}
		if s.table > 0 {
			table := s.table
			o.TableNumber = &table
		}
		eta := s.created.Add(s.estimate)
		o.EstimatedDeliveryTime = &eta
		if s.status == domain.StatusDelivered {
			at := s.updated
			o.ActualDeliveryTime = &at
		}

		for _, l := range s.lines {
			item := menu[l.menuID]
			o.Items = append(o.Items, domain.LineItem{
				MenuItem:       item.Ref(),
				Quantity:       l.quantity,
				UnitPrice:      l.unitPrice,
				Customizations: []domain.Customization{},
				Subtotal:       domain.LineSubtotal(l.unitPrice, nil, l.quantity),
			})
		}
		totals := p.Price(o.Items, 0)
		o.Subtotal, o.Tax, o.Tip, o.Total = totals.Subtotal, totals.Tax, totals.Tip, totals.Total

		orders = append(orders, o)
	}
	return orders
}

// seedHistory walks the fulfilment line up to the seeded status, spreading
// the entries evenly between creation and the last update.
func seedHistory(s seedOrder) []domain.StatusEntry {
	path := []domain.Status{domain.StatusPlaced}
	for _, st := range []domain.Status{
		domain.StatusConfirmed,
		domain.StatusInPreparation,
		domain.StatusReady,
		domain.StatusDelivered,
	} {
		if s.status == domain.StatusPlaced || s.status == domain.StatusCancelled {
			break
		}
		path = append(path, st)
		if st == s.status {
			break
		}
	}
	if s.status == domain.StatusCancelled {
		path = append(path, domain.StatusCancelled)
	}

	history := make([]domain.StatusEntry, 0, len(path))
	step := time.Duration(0)
	if len(path) > 1 {
		step = s.updated.Sub(s.created) / time.Duration(len(path)-1)
	}
	for i, st := range path {
		by := "staff1"
		if i == 0 {
			by = domain.SystemActor
		}
		history = append(history, domain.StatusEntry{
			Status:    st,
			Timestamp: s.created.Add(step * time.Duration(i)),
			UpdatedBy: by,
		})
	}
	return history
}
