package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultRemoteTimeout bounds a single balance mutation call.
	DefaultRemoteTimeout = 5 * time.Second

	// DefaultExistenceTimeout bounds an advertiser existence check.
	DefaultExistenceTimeout = 2 * time.Second

	// DefaultGraceInterval is how long a transaction may stay unresolved before the sweep picks it up.
	DefaultGraceInterval = time.Minute

	// DefaultMaxResendAge is how old a transaction may be for the sweep to
	// re-send its mutation. It must stay below the balance owner's dedupe retention.
	DefaultMaxResendAge = 7 * 24 * time.Hour

	// DefaultSweepBatchSize is the number of transactions examined per sweep.
	DefaultSweepBatchSize = 500

	// DefaultSweepConcurrency bounds parallel resolutions within one sweep.
	DefaultSweepConcurrency = 16
)

// Billing outcomes reported to metrics and to the trigger.
const (
	OutcomeSettled     = "settled"
	OutcomeFailed      = "failed"
	OutcomeReconciling = "reconciling"
	OutcomePending     = "pending"
	OutcomeReplayed    = "replayed"
)
