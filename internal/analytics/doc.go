// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package analytics is the pure aggregation and scoring engine of SalonPulse.

Every exported function is a deterministic transformation of in-memory
records plus an explicit reference instant. Nothing in this package performs
I/O, reads the system clock, starts goroutines (except the bounded worker pool
in BuildCustomerInsights, whose output is sorted before it is returned) or
returns errors: malformed input degrades to zero values and sentinels.

# Components

  - Windows: look-back boundaries computed once from a single now
  - GroupSum, GroupAverage, GroupCount, GroupLastByDate, GroupUniqueCount:
    generic reducers with an explicit KeyPolicy for missing keys
  - ScoreChurn: additive rule-based churn risk
  - ClassifySegment, ClassifyRFM: ordered decision lists
  - LifetimeValue, BuildCohorts: revenue attribution and monthly cohorts
  - BuildGrowth, BuildAcquisition: window deltas, series and breakdowns
  - FeatureUsage, RankSalons: telemetry sums and top-N salon rankings
  - GroupFailedLogins, BuildSecurityOverview: audit groupings
  - BuildPlatformSnapshot, BuildSecuritySnapshot, BuildCustomerInsights:
    composition into the immutable snapshot types of internal/models

# Numeric safety

All arithmetic goes through ToNumber, Ratio and Mean. Non-finite inputs
count as 0, divisions by zero yield 0, and averages of nothing are 0, so
no NaN or Inf value can reach a snapshot.

# Determinism

Map iteration never leaks into output order. Every ranked list is sorted by
its value descending and then by key ascending before truncation, so the
same input and now always marshal to identical bytes.
*/
package analytics
