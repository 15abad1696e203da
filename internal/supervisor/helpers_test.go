// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package supervisor

import (
	"context"

	"github.com/tomtom215/salonpulse/internal/models"
)

type countingRefresher struct {
	ran chan struct{}
}

func (c *countingRefresher) RefreshPlatform(context.Context) (models.PlatformSnapshot, error) {
	select {
	case c.ran <- struct{}{}:
	default:
	}
	return models.PlatformSnapshot{}, nil
}
