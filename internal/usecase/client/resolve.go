package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Resolver finds or creates the client named in calendar data. Calendar data
// is never authoritative: an existing client's name, email and date of birth
// are left alone, and a phone is only filled in when none is on file.
type Resolver struct {
	store  domain.ClientStore
	logger *zap.Logger
}

func NewResolver(store domain.ClientStore, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger.With(zap.String("component", "client-resolver")),
	}
}

func (r *Resolver) Resolve(
	ctx context.Context,
	clientName *string,
	phoneHint string,
) (*models.Client, error) {

	if clientName == nil {
		return nil, nil
	}

	name := strings.TrimSpace(*clientName)
	if name == "" {
		return nil, nil
	}

	// --------------------------------------------------
	// 1️⃣ Lookup
	// --------------------------------------------------
	existing, err := r.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		r.backfillPhone(ctx, existing, phoneHint)
		return existing, nil
	}

	// --------------------------------------------------
	// 2️⃣ Create
	// --------------------------------------------------
	c := &models.Client{
		Name:   name,
		Status: models.ClientStatusGreen,
	}
	if phoneHint != "" {
		phone := phoneHint
		c.Phone = &phone
	}

	createErr := r.store.CreateClient(ctx, c)
	if createErr == nil {
		r.logger.Info("client created from calendar",
			zap.Uint("client_id", c.ID),
			zap.String("name", name),
		)
		return c, nil
	}

	// --------------------------------------------------
	// 3️⃣ Create failed: someone else may have just created it
	// --------------------------------------------------
	existing, err = r.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return nil, fmt.Errorf("create client %q: %w", name, createErr)
}

func (r *Resolver) lookup(ctx context.Context, name string) (*models.Client, error) {
	c, err := r.store.FindClientByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client %q: %w", name, err)
	}
	return c, nil
}

func (r *Resolver) backfillPhone(ctx context.Context, c *models.Client, phoneHint string) {
	if phoneHint == "" || c.PhoneNumber() != "" {
		return
	}

	if err := r.store.SetClientPhone(ctx, c.ID, phoneHint); err != nil {
		level := r.logger.Error
		if httperr.IsUniqueViolation(err) {
			level = r.logger.Warn
		}
		level("phone backfill skipped",
			zap.Uint("client_id", c.ID),
			zap.Error(err),
		)
		return
	}

	phone := phoneHint
	c.Phone = &phone
}
