package fakecustomerrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/survey-admin/customers"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
)

var _ customers.Repo = (*FakeCustomerRepo)(nil)

type FakeCustomerRepo struct {
	customers map[string]*customers.Customer
	lock      sync.RWMutex
}

func NewFakeCustomerRepo() customers.Repo {
	return &FakeCustomerRepo{customers: make(map[string]*customers.Customer)}
}

func (r *FakeCustomerRepo) Create(_ context.Context, c *customers.Customer) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if _, ok := r.customers[c.ID]; ok {
		return apperrors.ErrAlreadyExists
	}
	r.customers[c.ID] = c.Clone()
	return nil
}

func (r *FakeCustomerRepo) Update(_ context.Context, c *customers.Customer) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.customers[c.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.customers[c.ID] = c.Clone()
	return nil
}

func (r *FakeCustomerRepo) Delete(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.customers[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *FakeCustomerRepo) Get(_ context.Context, id string) (*customers.Customer, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *FakeCustomerRepo) List(_ context.Context) ([]*customers.Customer, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	list := make([]*customers.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		list = append(list, c.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Name < list[j].Name
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}
