package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// DeliveryStrategy links delivery orders to the customer book.
type DeliveryStrategy struct {
	repo      model.ExtensionRepository[model.DeliveryExtension]
	customers model.CustomerRepository
	orders    model.OrderRepository
	now       func() time.Time
}

// NewDeliveryStrategy returns a DeliveryStrategy.
func NewDeliveryStrategy(repo model.ExtensionRepository[model.DeliveryExtension], customers model.CustomerRepository, orders model.OrderRepository, now func() time.Time) *DeliveryStrategy {
	return &DeliveryStrategy{repo: repo, customers: customers, orders: orders, now: now}
}

func (s *DeliveryStrategy) Type() model.OrderType { return model.OrderTypeDelivery }

func (s *DeliveryStrategy) Validate(f model.OrderFields, vc model.ValidationContext) ValidationResult {
	errs := requireItems(f, vc)
	if vc == model.ValidateFire {
		if blank(f.DeliveryAddress) {
			errs = append(errs, "delivery_address is required for delivery orders")
		}
		if blank(f.CustomerPhone) {
			errs = append(errs, "customer_phone is required for delivery orders")
		}
	}
	return result(errs)
}

func (s *DeliveryStrategy) CreateExtension(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error {
	ext := &model.DeliveryExtension{
		OrderID:         o.ID,
		CustomerName:    strings.TrimSpace(deref(f.CustomerName)),
		CustomerPhone:   strings.TrimSpace(deref(f.CustomerPhone)),
		DeliveryAddress: strings.TrimSpace(deref(f.DeliveryAddress)),
		DriverID:        f.DriverID,
	}
	if err := s.repo.Insert(ctx, q, ext); err != nil {
		return err
	}
	return s.linkCustomer(ctx, q, o, ext)
}

func (s *DeliveryStrategy) UpdateExtension(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error {
	ext, err := s.repo.Get(ctx, q, o.ID)
	if err != nil {
		return err
	}
	if ext == nil {
		return s.CreateExtension(ctx, q, o, f)
	}
	relink := false
	if f.CustomerName != nil {
		ext.CustomerName = strings.TrimSpace(*f.CustomerName)
	}
	if f.CustomerPhone != nil {
		phone := strings.TrimSpace(*f.CustomerPhone)
		relink = relink || phone != ext.CustomerPhone
		ext.CustomerPhone = phone
	}
	if f.DeliveryAddress != nil {
		addr := strings.TrimSpace(*f.DeliveryAddress)
		relink = relink || addr != ext.DeliveryAddress
		ext.DeliveryAddress = addr
	}
	if f.DriverID != nil {
		ext.DriverID = f.DriverID
	}
	if err := s.repo.Update(ctx, q, ext); err != nil {
		return err
	}
	if relink {
		return s.linkCustomer(ctx, q, o, ext)
	}
	return nil
}

// linkCustomer resolves the customer by phone, creating one if needed,
// records it on the order and adds a new address to the address book.
func (s *DeliveryStrategy) linkCustomer(ctx context.Context, q database.Querier, o *model.Order, ext *model.DeliveryExtension) error {
	if ext.CustomerPhone == "" {
		return nil
	}
	c, err := s.customers.FindByPhone(ctx, q, o.RestaurantID, ext.CustomerPhone)
	if err != nil {
		return err
	}
	if c == nil {
		c = &model.Customer{
			ID:           uuid.NewString(),
			RestaurantID: o.RestaurantID,
			Name:         ext.CustomerName,
			Phone:        ext.CustomerPhone,
			CreatedAt:    s.now(),
		}
		if err := s.customers.Insert(ctx, q, c); err != nil {
			return err
		}
	}
	if ext.DeliveryAddress != "" {
		book, err := s.customers.ListAddresses(ctx, q, c.ID)
		if err != nil {
			return err
		}
		if !containsAddress(book, ext.DeliveryAddress) {
			err := s.customers.InsertAddress(ctx, q, &model.CustomerAddress{
				ID:         uuid.NewString(),
				CustomerID: c.ID,
				Address:    ext.DeliveryAddress,
				CreatedAt:  s.now(),
			})
			if err != nil {
				return err
			}
		}
	}
	if o.CustomerID != nil && *o.CustomerID == c.ID {
		return nil
	}
	id := c.ID
	o.CustomerID = &id
	return s.orders.Update(ctx, q, o)
}

func containsAddress(book []model.CustomerAddress, addr string) bool {
	for _, a := range book {
		if strings.EqualFold(strings.TrimSpace(a.Address), addr) {
			return true
		}
	}
	return false
}

func (s *DeliveryStrategy) LoadExtension(ctx context.Context, q database.Querier, orderID string) (model.Extension, error) {
	ext, err := s.repo.Get(ctx, q, orderID)
	if err != nil || ext == nil {
		return nil, err
	}
	return ext, nil
}

func (s *DeliveryStrategy) ReleaseResources(context.Context, database.Querier, *model.Order) error {
	return nil
}

// RemoveExtension also unlinks the customer; the caller persists o.
func (s *DeliveryStrategy) RemoveExtension(ctx context.Context, q database.Querier, o *model.Order) error {
	o.CustomerID = nil
	return s.repo.Delete(ctx, q, o.ID)
}
