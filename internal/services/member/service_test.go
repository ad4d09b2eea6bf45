package member

import (
	"context"
	"strings"
	"testing"

	domainerrors "upline/internal/errors"
	"upline/internal/models"
	"upline/internal/repositories/repotest"
	"upline/internal/services/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newFixture(store *repotest.Store) Service {
	repos := store.Repos()
	settingsService := settings.NewService(repos.Settings, nil)
	return NewService(store.TxManager(), repos.Members, settingsService)
}

func TestRegister(t *testing.T) {
	store := repotest.NewStore()
	sponsor := store.AddMember(&models.Member{
		Name: "sponsor", ReferralCode: "UP-SPONSOR", Level: 2, MLMEnabled: true,
	})
	service := newFixture(store)

	m, err := service.Register(context.Background(), RegisterInput{
		Name:         "New Member",
		Email:        "  New@Example.COM ",
		Phone:        "+15551234567",
		Password:     "hunter2hunter2",
		ReferralCode: "UP-SPONSOR",
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", m.Email)
	require.NotNil(t, m.SponsorID)
	assert.Equal(t, sponsor.ID, *m.SponsorID)
	assert.Equal(t, 3, m.Level)
	assert.Equal(t, models.RoleMember, m.Role)
	assert.True(t, strings.HasPrefix(m.ReferralCode, "UP-"))
	// Default settings auto-enable commissions on signup.
	assert.True(t, m.MLMEnabled)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(m.Password), []byte("hunter2hunter2")))

	// Registration creates the wallet in the same transaction.
	wallet := store.Wallet(m.ID)
	require.NotNil(t, wallet)
	assert.Zero(t, wallet.Balance)
}

func TestRegister_WithoutSponsor(t *testing.T) {
	store := repotest.NewStore()
	service := newFixture(store)

	m, err := service.Register(context.Background(), RegisterInput{
		Name: "Root", Email: "root@example.com", Phone: "+15550000000", Password: "password123",
	})
	require.NoError(t, err)
	assert.Nil(t, m.SponsorID)
	assert.Equal(t, 1, m.Level)
}

func TestRegister_UnknownReferralCode(t *testing.T) {
	store := repotest.NewStore()
	service := newFixture(store)

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "X", Email: "x@example.com", Phone: "+15550000001",
		Password: "password123", ReferralCode: "UP-NOPE",
	})
	require.Error(t, err)
	var domainErr *domainerrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REFERRAL_CODE", domainErr.Code)
}

func TestRegister_RespectsAutoEnableSetting(t *testing.T) {
	store := repotest.NewStore()
	cfg := models.DefaultMLMSettings()
	cfg.AutoEnableOnSignup = false
	store.SetSettings(cfg)
	service := newFixture(store)

	m, err := service.Register(context.Background(), RegisterInput{
		Name: "Opted Out", Email: "opt@example.com", Phone: "+15550000002", Password: "password123",
	})
	require.NoError(t, err)
	assert.False(t, m.MLMEnabled)
}

func TestAssignSponsor(t *testing.T) {
	store := repotest.NewStore()
	service := newFixture(store)

	root := store.AddMember(&models.Member{Name: "root", ReferralCode: "UP-R", Level: 1})
	child := store.AddMember(&models.Member{Name: "child", ReferralCode: "UP-C", SponsorID: &root.ID, Level: 2})
	grandchild := store.AddMember(&models.Member{Name: "grandchild", ReferralCode: "UP-G", SponsorID: &child.ID, Level: 3})
	loner := store.AddMember(&models.Member{Name: "loner", ReferralCode: "UP-L", Level: 1})

	t.Run("assigns sponsor and recomputes level", func(t *testing.T) {
		require.NoError(t, service.AssignSponsor(context.Background(), loner.ID, &child.ID))
		updated, err := service.GetByID(context.Background(), loner.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.SponsorID)
		assert.Equal(t, child.ID, *updated.SponsorID)
		assert.Equal(t, 3, updated.Level)
	})

	t.Run("self sponsorship is a cycle", func(t *testing.T) {
		err := service.AssignSponsor(context.Background(), root.ID, &root.ID)
		assert.ErrorIs(t, err, domainerrors.ErrSponsorCycle)
	})

	t.Run("descendant sponsorship is a cycle", func(t *testing.T) {
		err := service.AssignSponsor(context.Background(), root.ID, &grandchild.ID)
		assert.ErrorIs(t, err, domainerrors.ErrSponsorCycle)
	})

	t.Run("clearing the sponsor resets the level", func(t *testing.T) {
		require.NoError(t, service.AssignSponsor(context.Background(), loner.ID, nil))
		updated, err := service.GetByID(context.Background(), loner.ID)
		require.NoError(t, err)
		assert.Nil(t, updated.SponsorID)
		assert.Equal(t, 1, updated.Level)
	})

	t.Run("unknown member", func(t *testing.T) {
		err := service.AssignSponsor(context.Background(), 999, &root.ID)
		assert.ErrorIs(t, err, domainerrors.ErrMemberNotFound)
	})
}

func TestSetMLMEnabled(t *testing.T) {
	store := repotest.NewStore()
	m := store.AddMember(&models.Member{Name: "m", ReferralCode: "UP-M", MLMEnabled: true})
	service := newFixture(store)

	require.NoError(t, service.SetMLMEnabled(context.Background(), m.ID, false))
	updated, err := service.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.False(t, updated.MLMEnabled)
}

func TestNewReferralCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewReferralCode()
		assert.Len(t, code, 11)
		assert.True(t, strings.HasPrefix(code, "UP-"))
		assert.Equal(t, strings.ToUpper(code), code)
		assert.False(t, seen[code], "codes should not repeat")
		seen[code] = true
	}
}
