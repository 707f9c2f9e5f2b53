package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/equiptrack/internal/billing"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

type PaymentRepoMock struct {
	mock.Mock
}

func (m *PaymentRepoMock) GetLatestPaidTransaction(ctx context.Context, userID string) (*models.PaymentTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentTransaction), args.Error(1)
}

var trialStart = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testUser() *models.User {
	start := trialStart
	return &models.User{ID: "u1", Username: "alice", TrialStart: &start, IsTrialActive: true}
}

func paidTx(pkg string, updated time.Time) *models.PaymentTransaction {
	return &models.PaymentTransaction{
		UserID:        "u1",
		PackageID:     pkg,
		PaymentStatus: models.PaymentPaid,
		Status:        models.TransactionCompleted,
		UpdatedAt:     updated,
	}
}

func TestEvaluate_TrialWindow(t *testing.T) {
	catalog := billing.NewCatalog(14, nil)
	trialEnd := trialStart.Add(14 * 24 * time.Hour)

	tests := []struct {
		name       string
		now        time.Time
		wantAccess bool
		wantReason Reason
		wantDays   int
	}{
		{name: "first day", now: trialStart, wantAccess: true, wantReason: ReasonTrial, wantDays: 14},
		{name: "one second before end", now: trialEnd.Add(-time.Second), wantAccess: true, wantReason: ReasonTrial, wantDays: 0},
		{name: "exactly at end", now: trialEnd, wantAccess: true, wantReason: ReasonTrial, wantDays: 0},
		{name: "one second after end", now: trialEnd.Add(time.Second), wantAccess: false, wantReason: ReasonExpired},
		{name: "middle", now: trialStart.Add(5*24*time.Hour + time.Hour), wantAccess: true, wantReason: ReasonTrial, wantDays: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.now, testUser(), nil, catalog)
			assert.Equal(t, tt.wantAccess, got.HasAccess)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, tt.wantDays, got.TrialDaysRemaining)
			assert.Equal(t, tt.wantReason == ReasonTrial, got.IsTrial)
			assert.Nil(t, got.SubscriptionType)
		})
	}
}

func TestEvaluate_SubscriptionExpiry(t *testing.T) {
	catalog := billing.NewCatalog(14, nil)
	paidAt := trialStart.Add(60 * 24 * time.Hour)
	expiry := paidAt.Add(30 * 24 * time.Hour)
	tx := paidTx("monthly", paidAt)

	got := Evaluate(expiry.Add(-time.Second), testUser(), tx, catalog)
	assert.True(t, got.HasAccess)
	assert.Equal(t, ReasonSubscribed, got.Reason)
	assert.False(t, got.IsTrial)
	require.NotNil(t, got.SubscriptionType)
	assert.Equal(t, "Monthly Plan", *got.SubscriptionType)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, expiry.Equal(*got.ExpiresAt))

	got = Evaluate(expiry, testUser(), tx, catalog)
	assert.False(t, got.HasAccess)
	assert.Equal(t, ReasonExpired, got.Reason)
}

func TestEvaluate_SubscriptionWinsDuringTrial(t *testing.T) {
	catalog := billing.NewCatalog(14, nil)
	now := trialStart.Add(24 * time.Hour)

	got := Evaluate(now, testUser(), paidTx("yearly", now), catalog)
	assert.True(t, got.HasAccess)
	assert.Equal(t, ReasonSubscribed, got.Reason)
	assert.False(t, got.IsTrial)
}

func TestEvaluate_NonQualifyingTransactions(t *testing.T) {
	catalog := billing.NewCatalog(14, nil)
	now := trialStart.Add(24 * time.Hour)

	tests := []struct {
		name string
		tx   *models.PaymentTransaction
	}{
		{name: "unknown package", tx: paidTx("lifetime", now)},
		{name: "pending", tx: &models.PaymentTransaction{PackageID: "monthly", PaymentStatus: models.PaymentPending, Status: models.TransactionInitiated, UpdatedAt: now}},
		{name: "paid but not completed", tx: &models.PaymentTransaction{PackageID: "monthly", PaymentStatus: models.PaymentPaid, Status: models.TransactionInitiated, UpdatedAt: now}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(now, testUser(), tt.tx, catalog)
			assert.Equal(t, ReasonTrial, got.Reason)
			assert.True(t, got.HasAccess)
		})
	}
}

func TestEvaluate_MissingTrialStart(t *testing.T) {
	catalog := billing.NewCatalog(14, nil)
	user := &models.User{ID: "u1"}

	got := Evaluate(time.Now(), user, nil, catalog)
	assert.False(t, got.HasAccess)
	assert.Equal(t, ReasonExpired, got.Reason)

	got = Evaluate(time.Now(), nil, nil, catalog)
	assert.Equal(t, ReasonExpired, got.Reason)
}

func TestEvaluate_ExactlyOneReasonAndDeterministic(t *testing.T) {
	catalog := billing.NewCatalog(14, nil)
	txs := []*models.PaymentTransaction{nil, paidTx("monthly", trialStart.Add(10*24*time.Hour)), paidTx("gone", trialStart)}

	for offset := -24 * time.Hour; offset <= 60*24*time.Hour; offset += 7 * time.Hour {
		now := trialStart.Add(offset)
		for _, tx := range txs {
			first := Evaluate(now, testUser(), tx, catalog)
			second := Evaluate(now, testUser(), tx, catalog)
			assert.Equal(t, first, second)

			switch first.Reason {
			case ReasonSubscribed:
				assert.True(t, first.HasAccess)
				assert.False(t, first.IsTrial)
			case ReasonTrial:
				assert.True(t, first.HasAccess)
				assert.True(t, first.IsTrial)
			case ReasonExpired:
				assert.False(t, first.HasAccess)
				assert.False(t, first.IsTrial)
			default:
				t.Fatalf("unexpected reason %q", first.Reason)
			}
		}
	}
}

func TestService_Evaluate(t *testing.T) {
	catalog := billing.NewCatalog(14, nil)
	now := trialStart.Add(20 * 24 * time.Hour)
	clock := func() time.Time { return now }

	t.Run("uses latest paid transaction", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		repo.On("GetLatestPaidTransaction", mock.Anything, "u1").Return(paidTx("monthly", now.Add(-time.Hour)), nil).Once()

		got, err := New(repo, catalog, clock).Evaluate(context.Background(), testUser())
		require.NoError(t, err)
		assert.Equal(t, ReasonSubscribed, got.Reason)
		repo.AssertExpectations(t)
	})

	t.Run("no transactions after trial", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		repo.On("GetLatestPaidTransaction", mock.Anything, "u1").Return(nil, nil).Once()

		got, err := New(repo, catalog, clock).Evaluate(context.Background(), testUser())
		require.NoError(t, err)
		assert.Equal(t, ReasonExpired, got.Reason)
		assert.False(t, got.HasAccess)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		repo.On("GetLatestPaidTransaction", mock.Anything, "u1").Return(nil, errors.New("db down")).Once()

		_, err := New(repo, catalog, clock).Evaluate(context.Background(), testUser())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
}
