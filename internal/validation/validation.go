// Package validation turns raw order requests into validated domain values.
// Every failure is collected so clients can highlight all offending fields.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	phoneSeparators = regexp.MustCompile(`[\s\-()]`)
	phonePattern    = regexp.MustCompile(`^(?:\+91|91)?([6-9]\d{9})$`)
)

const dateLayout = "2006-01-02"

// messages by leaf field name; tagMessages is used when a field has no entry.
var messages = map[string]string{
	"name":                "Customer name is required and must not exceed 100 characters",
	"phone":               "Valid Indian phone number is required (format: +91-XXXXX-XXXXX or 10 digits starting with 6-9)",
	"email":               "Valid email is required",
	"items":               "At least one item is required",
	"menuItem":            "Valid menu item ID is required",
	"quantity":            "Quantity must be a positive integer",
	"unitPrice":           "Unit price must not be negative",
	"specialInstructions": "Special instructions must not exceed 200 characters",
	"orderType":           "Invalid order type",
	"paymentMethod":       "Invalid payment method",
	"notes":               "Notes must not exceed 500 characters",
	"tip":                 "Tip must not be negative",
	"status":              "Invalid status",
	"updatedBy":           "Updated by field must not exceed 50 characters",
}

var tagMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must not exceed %s",
	"oneof":    "must be one of [%s]",
}

// NormalizePhone strips separators and returns the number as +91XXXXXXXXXX.
func NormalizePhone(raw string) (string, bool) {
	clean := phoneSeparators.ReplaceAllString(raw, "")
	m := phonePattern.FindStringSubmatch(clean)
	if m == nil {
		return "", false
	}
	return "+91" + m[1], true
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails on an empty tag
	_ = v.RegisterValidation("inphone", func(fl validator.FieldLevel) bool {
		_, ok := NormalizePhone(fl.Field().String())
		return ok
	})
	return &Validator{v: v}
}

// CreateOrder validates req and converts it into a domain.NewOrder.
func (v *Validator) CreateOrder(req domain.CreateOrderRequest) (domain.NewOrder, error) {
	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	req.Customer.Phone = strings.TrimSpace(req.Customer.Phone)
	req.Customer.Email = strings.ToLower(strings.TrimSpace(req.Customer.Email))
	req.Notes = strings.TrimSpace(req.Notes)

	verr := &domain.ValidationError{}
	v.collect(verr, req)

	orderType := domain.OrderType(req.OrderType)
	if orderType.Valid() {
		checkTable(verr, orderType, req.TableNumber)
		checkAddress(verr, orderType, req.Customer.Address)
	}
	for i, item := range req.Items {
		for j, c := range item.Customizations {
			if c.AdditionalPrice < 0 {
				verr.Add(fmt.Sprintf("items[%d].customizations[%d].additionalPrice", i, j),
					"Additional price must not be negative")
			}
		}
	}
	if err := verr.Err(); err != nil {
		return domain.NewOrder{}, err
	}

	phone, _ := NormalizePhone(req.Customer.Phone)
	out := domain.NewOrder{
		Customer: domain.Customer{
			Name:    req.Customer.Name,
			Phone:   phone,
			Email:   req.Customer.Email,
			Address: req.Customer.Address,
		},
		Items:         make([]domain.NewLineItem, 0, len(req.Items)),
		OrderType:     orderType,
		TableNumber:   req.TableNumber,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
		Tip:           req.Tip,
	}
	for _, item := range req.Items {
		out.Items = append(out.Items, domain.NewLineItem{
			MenuItemID:          strings.TrimSpace(item.MenuItem),
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			Customizations:      item.Customizations,
			SpecialInstructions: strings.TrimSpace(item.SpecialInstructions),
		})
	}
	return out, nil
}

// UpdateStatus validates a status change request.
func (v *Validator) UpdateStatus(req domain.UpdateStatusRequest) (domain.Status, string, error) {
	req.UpdatedBy = strings.TrimSpace(req.UpdatedBy)

	verr := &domain.ValidationError{}
	v.collect(verr, req)
	status := domain.Status(strings.TrimSpace(req.Status))
	if req.Status != "" && !status.Valid() {
		verr.Add("status", messages["status"])
	}
	if err := verr.Err(); err != nil {
		return "", "", err
	}
	return status, actor(req.UpdatedBy), nil
}

func (v *Validator) Cancel(req domain.CancelOrderRequest) (string, error) {
	req.UpdatedBy = strings.TrimSpace(req.UpdatedBy)

	verr := &domain.ValidationError{}
	v.collect(verr, req)
	if err := verr.Err(); err != nil {
		return "", err
	}
	return actor(req.UpdatedBy), nil
}

// OrderQuery parses listing query parameters.
func (v *Validator) OrderQuery(values url.Values) (domain.OrderQuery, error) {
	verr := &domain.ValidationError{}
	q := domain.OrderQuery{
		Status:        domain.Status(values.Get("status")),
		OrderType:     domain.OrderType(values.Get("orderType")),
		CustomerPhone: strings.TrimSpace(values.Get("customerPhone")),
		SortBy:        values.Get("sortBy"),
		SortOrder:     domain.SortOrder(values.Get("sortOrder")),
	}

	if q.Status != "" && !q.Status.Valid() {
		verr.Add("status", messages["status"])
	}
	if q.OrderType != "" && !q.OrderType.Valid() {
		verr.Add("orderType", messages["orderType"])
	}
	if s := values.Get("startDate"); s != "" {
		t, err := parseDate(s, false)
		if err != nil {
			verr.Add("startDate", "Start date must be RFC 3339 or YYYY-MM-DD")
		} else {
			q.StartDate = &t
		}
	}
	if s := values.Get("endDate"); s != "" {
		t, err := parseDate(s, true)
		if err != nil {
			verr.Add("endDate", "End date must be RFC 3339 or YYYY-MM-DD")
		} else {
			q.EndDate = &t
		}
	}
	if s := values.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			verr.Add("page", "Page must be a positive integer")
		}
		q.Page = n
	}
	if s := values.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > domain.MaxLimit {
			verr.Add("limit", fmt.Sprintf("Limit must be between 1 and %d", domain.MaxLimit))
		}
		q.Limit = n
	}
	if q.SortBy != "" {
		if _, ok := domain.SortFields[q.SortBy]; !ok {
			verr.Add("sortBy", "Unsupported sort field")
		}
	}
	if q.SortOrder != "" && q.SortOrder != domain.SortAsc && q.SortOrder != domain.SortDesc {
		verr.Add("sortOrder", "Sort order must be asc or desc")
	}

	if err := verr.Err(); err != nil {
		return domain.OrderQuery{}, err
	}
	q.Normalize()
	return q, nil
}

func (v *Validator) collect(verr *domain.ValidationError, s interface{}) {
	err := v.v.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("body", err.Error())
		return
	}

	seen := make(map[string]bool)
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		if seen[field] {
			continue
		}
		seen[field] = true
		verr.Add(field, message(fe))
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	if tmpl, ok := tagMessages[fe.Tag()]; ok {
		if strings.Contains(tmpl, "%s") {
			return fe.Field() + " " + fmt.Sprintf(tmpl, fe.Param())
		}
		return fe.Field() + " " + tmpl
	}
	return fe.Field() + " is invalid"
}

func checkTable(verr *domain.ValidationError, t domain.OrderType, table *int) {
	switch {
	case t == domain.OrderTypeDineIn && table == nil:
		verr.Add("tableNumber", "Table number is required for dine-in orders")
	case t == domain.OrderTypeDineIn && *table < 1:
		verr.Add("tableNumber", "Table number must be a positive integer")
	case t != domain.OrderTypeDineIn && table != nil:
		verr.Add("tableNumber", "Table number is only allowed for dine-in orders")
	}
}

func checkAddress(verr *domain.ValidationError, t domain.OrderType, addr *domain.Address) {
	if t != domain.OrderTypeDelivery {
		if addr != nil {
			verr.Add("customer.address", "Address is only allowed for delivery orders")
		}
		return
	}
	if addr == nil {
		verr.Add("customer.address", "Delivery address is required for delivery orders")
		return
	}
	if strings.TrimSpace(addr.Street) == "" {
		verr.Add("customer.address.street", "Street is required")
	}
	if strings.TrimSpace(addr.City) == "" {
		verr.Add("customer.address.city", "City is required")
	}
}

func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func actor(updatedBy string) string {
	if updatedBy == "" {
		return domain.DefaultActor
	}
	return updatedBy
}
