package credits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pixora-app/pixora/app/models"
	"github.com/pixora-app/pixora/app/repository"
	"github.com/pixora-app/pixora/internal/pkg/entitlements"
)

// fakeUserRepository keeps users in memory and mirrors the conditional
// increment semantics of the real repository.
type fakeUserRepository struct {
	users map[uint]*models.User
}

func newFakeUserRepository(users ...*models.User) *fakeUserRepository {
	repo := &fakeUserRepository{users: make(map[uint]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepository) Create(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) GetByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepository) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) Update(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) UpdatePlan(id uint, plan string, usageLimit int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	u.Plan = plan
	u.UsageLimit = usageLimit
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepository) ConsumeCredit(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if u.UsageCount >= u.UsageLimit {
		return nil, repository.ErrInsufficientCredits
	}
	u.UsageCount++
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepository) Count() (int64, error) {
	return int64(len(r.users)), nil
}

func TestCheckUsage(t *testing.T) {
	tests := []struct {
		name  string
		count int
		limit int
		want  bool
	}{
		{"credits left", 5, 10, true},
		{"exactly at limit", 5, 5, false},
		{"over limit", 6, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewLedger(newFakeUserRepository(&models.User{ID: 1, UsageCount: tt.count, UsageLimit: tt.limit}))

			ok, err := ledger.CheckUsage(1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestCheckUsageUserNotFound(t *testing.T) {
	ledger := NewLedger(newFakeUserRepository())

	_, err := ledger.CheckUsage(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIncrementUsage(t *testing.T) {
	ledger := NewLedger(newFakeUserRepository(&models.User{ID: 1, UsageCount: 4, UsageLimit: 5}))

	user, err := ledger.IncrementUsage(1)
	require.NoError(t, err)
	assert.Equal(t, 5, user.UsageCount)

	// Budget is now exhausted; the next increment must fail without effect.
	_, err = ledger.IncrementUsage(1)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	ok, err := ledger.CheckUsage(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdatePlanUpgrade(t *testing.T) {
	repo := newFakeUserRepository(&models.User{ID: 1, Plan: models.PLAN_FREE, UsageCount: 3, UsageLimit: 10})
	ledger := NewLedger(repo)

	user, err := ledger.UpdatePlan(1, models.PLAN_PAID)
	require.NoError(t, err)
	assert.Equal(t, models.PLAN_PAID, user.Plan)
	assert.Equal(t, entitlements.UnlimitedUsage, user.UsageLimit)
}

func TestUpdatePlanRejectsAnythingElse(t *testing.T) {
	repo := newFakeUserRepository(&models.User{ID: 1, Plan: models.PLAN_FREE, UsageLimit: 10})
	ledger := NewLedger(repo)

	for _, plan := range []string{"FREE", "ENTERPRISE", "", "paid"} {
		_, err := ledger.UpdatePlan(1, plan)
		assert.ErrorIs(t, err, ErrInvalidPlan, "plan %q", plan)
	}

	// The record must be unchanged after the rejected transitions.
	user, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.PLAN_FREE, user.Plan)
	assert.Equal(t, 10, user.UsageLimit)
}
