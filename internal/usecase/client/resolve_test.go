package client

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type fakeClientStore struct {
	clients   []*models.Client
	nextID    uint
	createErr error
	// onCreate runs before a create attempt, to simulate a concurrent writer.
	onCreate func()
}

func (f *fakeClientStore) FindClientByName(_ context.Context, name string) (*models.Client, error) {
	for _, c := range f.clients {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeClientStore) CreateClient(_ context.Context, c *models.Client) error {
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	c.ID = f.nextID
	f.clients = append(f.clients, c)
	return nil
}

func (f *fakeClientStore) SetClientPhone(_ context.Context, id uint, phone string) error {
	for _, c := range f.clients {
		if c.ID == id {
			c.Phone = &phone
			return nil
		}
	}
	return domain.ErrNotFound
}

func strPtr(s string) *string { return &s }

func TestResolveNilName(t *testing.T) {
	r := NewResolver(&fakeClientStore{}, zap.NewNop())

	c, err := r.Resolve(context.Background(), nil, "+391234567")
	if err != nil || c != nil {
		t.Fatalf("expected nil client and no error, got %v, %v", c, err)
	}
}

func TestResolveCreatesClientWithoutInventingPhone(t *testing.T) {
	store := &fakeClientStore{}
	r := NewResolver(store, zap.NewNop())

	c, err := r.Resolve(context.Background(), strPtr("Luca Bianchi"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Luca Bianchi" || c.Phone != nil || c.Status != models.ClientStatusGreen {
		t.Fatalf("unexpected client %+v", c)
	}
	if len(store.clients) != 1 {
		t.Fatalf("expected one stored client, got %d", len(store.clients))
	}
}

func TestResolveMatchesCaseInsensitively(t *testing.T) {
	store := &fakeClientStore{clients: []*models.Client{{ID: 7, Name: "Maria Rossi"}}, nextID: 7}
	r := NewResolver(store, zap.NewNop())

	c, err := r.Resolve(context.Background(), strPtr("maria ROSSI"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 7 {
		t.Fatalf("expected existing client 7, got %d", c.ID)
	}
	if c.Name != "Maria Rossi" {
		t.Fatalf("stored name must not change, got %q", c.Name)
	}
	if len(store.clients) != 1 {
		t.Fatal("no client should have been created")
	}
}

func TestResolveNeverOverwritesPhone(t *testing.T) {
	store := &fakeClientStore{clients: []*models.Client{{ID: 1, Name: "Maria Rossi", Phone: strPtr("+391234567")}}, nextID: 1}
	r := NewResolver(store, zap.NewNop())

	c, err := r.Resolve(context.Background(), strPtr("Maria Rossi"), "+449999999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *c.Phone != "+391234567" || *store.clients[0].Phone != "+391234567" {
		t.Fatalf("phone was overwritten: %q", *store.clients[0].Phone)
	}
}

func TestResolveBackfillsMissingPhone(t *testing.T) {
	store := &fakeClientStore{clients: []*models.Client{{ID: 1, Name: "Maria Rossi"}}, nextID: 1}
	r := NewResolver(store, zap.NewNop())

	c, err := r.Resolve(context.Background(), strPtr("Maria Rossi"), "+391234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.PhoneNumber() != "+391234567" {
		t.Fatalf("expected backfilled phone, got %q", c.PhoneNumber())
	}
}

func TestResolveRelooksUpAfterCreateConflict(t *testing.T) {
	store := &fakeClientStore{createErr: errors.New("duplicate key")}
	store.onCreate = func() {
		store.clients = append(store.clients, &models.Client{ID: 42, Name: "Ana"})
	}
	r := NewResolver(store, zap.NewNop())

	c, err := r.Resolve(context.Background(), strPtr("Ana"), "")
	if err != nil {
		t.Fatalf("expected the concurrent client to be returned, got %v", err)
	}
	if c.ID != 42 {
		t.Fatalf("expected client 42, got %d", c.ID)
	}
}

func TestResolvePropagatesCreateErrorWhenStillMissing(t *testing.T) {
	boom := errors.New("db down")
	r := NewResolver(&fakeClientStore{createErr: boom}, zap.NewNop())

	_, err := r.Resolve(context.Background(), strPtr("Ana"), "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped create error, got %v", err)
	}
}
