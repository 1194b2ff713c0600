package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/repository"
)

// CustomerInput is the writable part of a customer.
type CustomerInput struct {
	Name           string  `json:"name"`
	ContactName    string  `json:"contact_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	BusinessTypeID *uint64 `json:"business_type_id"`
}

type CustomerService struct {
	customers repository.CustomerStore
	labels    repository.LabelStore
}

func NewCustomerService(customers repository.CustomerStore, labels repository.LabelStore) *CustomerService {
	return &CustomerService{customers: customers, labels: labels}
}

func (s *CustomerService) apply(ctx context.Context, ownerID uint64, c *model.Customer, in CustomerInput) error {
	name, err := requireName("customer name", in.Name)
	if err != nil {
		return err
	}
	if in.BusinessTypeID != nil {
		if _, err := s.labels.GetLabel(ctx, model.BusinessTypeLabel, *in.BusinessTypeID, ownerID); err != nil {
			return storeErr("load business type", "business type", err)
		}
	}
	c.Name = name
	c.ContactName = strings.TrimSpace(in.ContactName)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = strings.TrimSpace(in.Phone)
	c.BusinessTypeID = in.BusinessTypeID
	return nil
}

func (s *CustomerService) Create(ctx context.Context, ownerID uint64, in CustomerInput) (*model.Customer, error) {
	c := &model.Customer{OwnerID: ownerID}
	if err := s.apply(ctx, ownerID, c, in); err != nil {
		return nil, err
	}
	if err := s.customers.CreateCustomer(ctx, c); err != nil {
		return nil, storeErr("create customer", "customer", err)
	}
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, ownerID, id uint64) (*model.Customer, error) {
	c, err := s.customers.GetCustomer(ctx, id, ownerID)
	if err != nil {
		return nil, storeErr("load customer", "customer", err)
	}
	return c, nil
}

func (s *CustomerService) List(ctx context.Context, ownerID uint64, includeArchived bool) ([]*model.Customer, error) {
	out, err := s.customers.ListCustomers(ctx, ownerID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (s *CustomerService) Update(ctx context.Context, ownerID, id uint64, in CustomerInput) (*model.Customer, error) {
	c, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, ownerID, c, in); err != nil {
		return nil, err
	}
	if err := s.customers.UpdateCustomer(ctx, c); err != nil {
		return nil, storeErr("update customer", "customer", err)
	}
	return c, nil
}

func (s *CustomerService) Archive(ctx context.Context, ownerID, id uint64) (*model.Customer, error) {
	return s.setArchived(ctx, ownerID, id, true)
}

func (s *CustomerService) Unarchive(ctx context.Context, ownerID, id uint64) (*model.Customer, error) {
	return s.setArchived(ctx, ownerID, id, false)
}

func (s *CustomerService) setArchived(ctx context.Context, ownerID, id uint64, archived bool) (*model.Customer, error) {
	c, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if c.Archived == archived {
		return c, nil
	}
	c.Archived = archived
	if err := s.customers.UpdateCustomer(ctx, c); err != nil {
		return nil, storeErr("update customer", "customer", err)
	}
	return c, nil
}

// Delete removes a customer without bookings.
func (s *CustomerService) Delete(ctx context.Context, ownerID, id uint64) error {
	c, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	inUse, err := s.customers.CustomerInUse(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("customer in use: %w", err)
	}
	if inUse {
		return ErrProtected.withf("customer %q has bookings; archive it instead", c.Name)
	}
	return storeErr("delete customer", "customer", s.customers.DeleteCustomer(ctx, id, ownerID))
}
