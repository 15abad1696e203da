// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/salonpulse/internal/analytics"
	"github.com/tomtom215/salonpulse/internal/cache"
	"github.com/tomtom215/salonpulse/internal/database"
	"github.com/tomtom215/salonpulse/internal/metrics"
	"github.com/tomtom215/salonpulse/internal/models"
)

// ChurnReport is the churn risk of one customer at one salon.
type ChurnReport struct {
	SalonID    string `json:"salon_id"`
	CustomerID string `json:"customer_id"`
	models.ChurnRisk
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func validate(salonID, customerID string) error {
	if !validID(salonID) {
		return ErrInvalidSalon
	}
	if !validID(customerID) {
		return ErrInvalidCustomer
	}
	return nil
}

// salonExists returns database.ErrNotFound wrapped for unknown salons.
// Other lookup errors are recorded as partial and tolerated.
func (s *Service) salonExists(ctx context.Context, p *partial, salonID string) error {
	found, err := execute(ctx, s, SourceSalons, func(ctx context.Context) (bool, error) {
		err := s.store.SalonExists(ctx, salonID)
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return err == nil, err
	})
	if err != nil {
		p.fail(ctx, SourceSalons, err)
		return nil
	}
	if !found {
		return fmt.Errorf("salon %s: %w", salonID, database.ErrNotFound)
	}
	return nil
}

func (s *Service) customerOptions() analytics.CustomerOptions {
	return analytics.CustomerOptions{
		Rules:       s.rules,
		Workers:     s.analytics.Workers,
		AtRiskLimit: s.analytics.AtRiskLimit,
		TopLimit:    s.analytics.TopCustomers,
	}
}

// CustomerInsights returns the customer report of one salon.
func (s *Service) CustomerInsights(ctx context.Context, salonID string) (models.CustomerInsights, bool, error) {
	if !validID(salonID) {
		return models.CustomerInsights{}, false, ErrInvalidSalon
	}
	key := cache.GenerateKey("customers", map[string]string{"salon_id": salonID, "rules": string(s.rules)})
	if snap, ok := cached[models.CustomerInsights](s, "customers", key); ok {
		return snap, true, nil
	}

	start := time.Now()
	defer func() { metrics.RecordSnapshotBuild("customers", time.Since(start)) }()

	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	p := newPartial("customers")

	if err := s.salonExists(fetchCtx, p, salonID); err != nil {
		return models.CustomerInsights{}, false, err
	}

	in := analytics.CustomerInputs{SalonID: salonID}
	var g errgroup.Group
	g.Go(func() error {
		in.Appointments = fetch(fetchCtx, s, p, SourceAppointments, func(ctx context.Context) ([]models.Appointment, error) {
			return s.store.SalonAppointments(ctx, salonID)
		})
		return nil
	})
	g.Go(func() error {
		in.Transactions = fetch(fetchCtx, s, p, SourceTransactions, func(ctx context.Context) ([]models.Transaction, error) {
			return s.store.SalonTransactions(ctx, salonID)
		})
		return nil
	})
	g.Go(func() error {
		in.Reviews = fetch(fetchCtx, s, p, SourceReviews, func(ctx context.Context) ([]models.Review, error) {
			return s.store.SalonReviews(ctx, salonID)
		})
		return nil
	})
	_ = g.Wait()

	if ids := database.CustomerIDs(in.Appointments); len(ids) > 0 {
		in.Profiles = fetch(fetchCtx, s, p, SourceProfiles, func(ctx context.Context) (map[string]models.CustomerProfile, error) {
			return s.store.Profiles(ctx, ids)
		})
	}

	snap := analytics.BuildCustomerInsights(in, s.now(), s.customerOptions(), p.list())
	if len(snap.PartialSources) == 0 {
		s.cache.Set(key, snap)
	}
	return snap, false, nil
}

// CustomerChurn scores one customer. Unlike snapshots, a failed history
// fetch is returned as an error: an empty history would read as "unknown".
func (s *Service) CustomerChurn(ctx context.Context, salonID, customerID string) (ChurnReport, error) {
	if err := validate(salonID, customerID); err != nil {
		return ChurnReport{}, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	history, err := execute(ctx, s, SourceAppointments, func(ctx context.Context) ([]models.Appointment, error) {
		return s.store.CustomerAppointments(ctx, salonID, customerID)
	})
	if err != nil {
		return ChurnReport{}, fmt.Errorf("fetch appointments: %w", err)
	}
	return ChurnReport{
		SalonID:    salonID,
		CustomerID: customerID,
		ChurnRisk:  analytics.ScoreChurn(history, s.now()),
	}, nil
}

// CustomerLifetimeValue computes one customer's value at a salon.
func (s *Service) CustomerLifetimeValue(ctx context.Context, salonID, customerID string) (models.LifetimeValue, error) {
	if err := validate(salonID, customerID); err != nil {
		return models.LifetimeValue{}, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		appts []models.Appointment
		txns  []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appts, err = execute(gctx, s, SourceAppointments, func(ctx context.Context) ([]models.Appointment, error) {
			return s.store.CustomerAppointments(ctx, salonID, customerID)
		})
		if err != nil {
			return fmt.Errorf("fetch appointments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		txns, err = execute(gctx, s, SourceTransactions, func(ctx context.Context) ([]models.Transaction, error) {
			return s.store.CustomerTransactions(ctx, salonID, customerID)
		})
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.LifetimeValue{}, err
	}
	return analytics.LifetimeValue(customerID, appts, txns), nil
}
