// Package repotest provides in-memory repository implementations for
// service tests. The store honors the same sentinel errors and uniqueness
// rules as the PostgreSQL implementations so services under test observe
// identical behavior without a database.
package repotest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"upline/internal/models"
	"upline/internal/repositories"
)

// Store is a shared in-memory database for one test.
type Store struct {
	mu sync.Mutex

	members     map[uint]*models.Member
	wallets     map[uint]*models.Wallet // keyed by member ID
	orders      map[uint]*models.Order
	commissions map[uint]*models.Commission
	rules       map[uint]*models.CommissionRule
	withdrawals map[uint]*models.Withdrawal
	settings    *models.MLMSettings

	nextID uint
}

func NewStore() *Store {
	return &Store{
		members:     make(map[uint]*models.Member),
		wallets:     make(map[uint]*models.Wallet),
		orders:      make(map[uint]*models.Order),
		commissions: make(map[uint]*models.Commission),
		rules:       make(map[uint]*models.CommissionRule),
		withdrawals: make(map[uint]*models.Withdrawal),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// Repos returns a repository bundle backed by this store.
func (s *Store) Repos() *repositories.Repos {
	return &repositories.Repos{
		Members:     &memberRepo{s},
		Orders:      &orderRepo{s},
		Commissions: &commissionRepo{s},
		Rules:       &ruleRepo{s},
		Wallets:     &walletRepo{s},
		Withdrawals: &withdrawalRepo{s},
		Settings:    &settingsRepo{s},
	}
}

// TxManager returns a transaction manager that runs the callback directly
// against the store. There is no rollback; tests assert on end state.
func (s *Store) TxManager() repositories.TxManager {
	return &stubTx{store: s}
}

type stubTx struct {
	store *Store
}

func (t *stubTx) ExecuteInTransaction(ctx context.Context, fn func(r *repositories.Repos) error) error {
	return fn(t.store.Repos())
}

// --- Seeding helpers ---

// AddMember stores the member, assigning an ID when missing.
func (s *Store) AddMember(m *models.Member) *models.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.id()
	} else if m.ID > s.nextID {
		s.nextID = m.ID
	}
	s.members[m.ID] = m
	return m
}

// AddChain creates a sponsor chain of the given length, deepest member
// first: the returned slice's first element is sponsored by the second,
// and so on. All members are MLM-enabled.
func (s *Store) AddChain(n int) []*models.Member {
	members := make([]*models.Member, n)
	for i := n - 1; i >= 0; i-- {
		m := &models.Member{
			Name:         "member",
			Email:        "chain@example.com",
			ReferralCode: "UP-CHAIN",
			MLMEnabled:   true,
			Level:        n - i,
		}
		if i < n-1 {
			m.SponsorID = &members[i+1].ID
		}
		s.AddMember(m)
		members[i] = m
	}
	return members
}

func (s *Store) AddWallet(w *models.Wallet) *models.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		w.ID = s.id()
	}
	s.wallets[w.MemberID] = w
	return w
}

func (s *Store) AddOrder(o *models.Order) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.id()
	}
	s.orders[o.ID] = o
	return o
}

func (s *Store) AddRule(r *models.CommissionRule) *models.CommissionRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.id()
	}
	s.rules[r.ID] = r
	return r
}

func (s *Store) AddCommission(c *models.Commission) *models.Commission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.commissions[c.ID] = c
	return c
}

func (s *Store) AddWithdrawal(w *models.Withdrawal) *models.Withdrawal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		w.ID = s.id()
	}
	s.withdrawals[w.ID] = w
	return w
}

// SetSettings replaces the settings row. Without a call, GetOrCreate
// produces the defaults.
func (s *Store) SetSettings(cfg *models.MLMSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.ID == 0 {
		cfg.ID = 1
	}
	s.settings = cfg
}

// Wallet returns the stored wallet for a member, or nil.
func (s *Store) Wallet(memberID uint) *models.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[memberID]
}

// Commissions returns all stored commissions, ordered by ID.
func (s *Store) Commissions() []models.Commission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Commission, 0, len(s.commissions))
	for _, c := range s.commissions {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Order returns the stored order, or nil.
func (s *Store) Order(id uint) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id]
}

// Withdrawal returns the stored withdrawal, or nil.
func (s *Store) Withdrawal(id uint) *models.Withdrawal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withdrawals[id]
}

// --- MemberRepository ---

type memberRepo struct{ s *Store }

func (r *memberRepo) Create(m *models.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.members {
		if existing.Email == m.Email {
			return repositories.ErrDuplicateMember
		}
	}
	if m.ID == 0 {
		m.ID = r.s.id()
	}
	m.CreatedAt = time.Now()
	r.s.members[m.ID] = m
	return nil
}

func (r *memberRepo) GetByID(id uint) (*models.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, repositories.ErrMemberNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *memberRepo) GetByEmail(email string) (*models.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.members {
		if strings.EqualFold(m.Email, email) {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrMemberNotFound
}

func (r *memberRepo) GetByReferralCode(code string) (*models.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.members {
		if m.ReferralCode == code {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrMemberNotFound
}

func (r *memberRepo) Update(m *models.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[m.ID]; !ok {
		return repositories.ErrMemberNotFound
	}
	copied := *m
	r.s.members[m.ID] = &copied
	return nil
}

func (r *memberRepo) List(limit, offset int) ([]models.Member, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]models.Member, 0, len(r.s.members))
	for _, m := range r.s.members {
		all = append(all, *m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *memberRepo) GetDirectDownline(memberID uint, limit, offset int) ([]models.Member, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var children []models.Member
	for _, m := range r.s.members {
		if m.SponsorID != nil && *m.SponsorID == memberID {
			children = append(children, *m)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })
	return page(children, limit, offset), int64(len(children)), nil
}

func (r *memberRepo) CountDirectDownline(memberID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, m := range r.s.members {
		if m.SponsorID != nil && *m.SponsorID == memberID {
			count++
		}
	}
	return count, nil
}

func (r *memberRepo) CountTotalDownline(ctx context.Context, memberID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	frontier := []uint{memberID}
	for len(frontier) > 0 {
		next := frontier[:0:0]
		for _, m := range r.s.members {
			if m.SponsorID == nil {
				continue
			}
			for _, parent := range frontier {
				if *m.SponsorID == parent {
					count++
					next = append(next, m.ID)
					break
				}
			}
		}
		frontier = next
	}
	return count, nil
}

func (r *memberRepo) GetUplineChain(memberID uint, maxLevels int) ([]models.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	start, ok := r.s.members[memberID]
	if !ok {
		return nil, repositories.ErrMemberNotFound
	}
	var chain []models.Member
	current := start
	for len(chain) < maxLevels && current.SponsorID != nil {
		sponsor, ok := r.s.members[*current.SponsorID]
		if !ok {
			break
		}
		chain = append(chain, *sponsor)
		current = sponsor
	}
	return chain, nil
}

func (r *memberRepo) IsAncestor(candidateID, memberID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.members[memberID]
	if !ok {
		return false, nil
	}
	for current.SponsorID != nil {
		if *current.SponsorID == candidateID {
			return true, nil
		}
		parent, ok := r.s.members[*current.SponsorID]
		if !ok {
			return false, nil
		}
		current = parent
	}
	return false, nil
}

// --- WalletRepository ---

type walletRepo struct{ s *Store }

func (r *walletRepo) Create(w *models.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.wallets[w.MemberID]; ok {
		return repositories.ErrDuplicateWallet
	}
	if w.ID == 0 {
		w.ID = r.s.id()
	}
	w.Balance, w.Pending, w.TotalEarned, w.TotalWithdrawn = 0, 0, 0, 0
	r.s.wallets[w.MemberID] = w
	return nil
}

func (r *walletRepo) GetByMemberID(memberID uint) (*models.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[memberID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *walletRepo) GetByMemberIDForUpdate(memberID uint) (*models.Wallet, error) {
	return r.GetByMemberID(memberID)
}

func (r *walletRepo) GetOrCreateForUpdate(memberID uint) (*models.Wallet, error) {
	if w, err := r.GetByMemberID(memberID); err == nil {
		return w, nil
	}
	w := &models.Wallet{MemberID: memberID}
	if err := r.Create(w); err != nil {
		return nil, err
	}
	copied := *w
	return &copied, nil
}

func (r *walletRepo) Update(w *models.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.wallets[w.MemberID]; !ok {
		return repositories.ErrWalletNotFound
	}
	copied := *w
	r.s.wallets[w.MemberID] = &copied
	return nil
}

func (r *walletRepo) TotalBalance() (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	for _, w := range r.s.wallets {
		total += w.Balance
	}
	return total, nil
}

// --- OrderRepository ---

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(o *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.ID == 0 {
		o.ID = r.s.id()
	}
	o.CreatedAt = time.Now()
	r.s.orders[o.ID] = o
	return nil
}

func (r *orderRepo) GetByID(id uint) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *orderRepo) GetByIDForUpdate(id uint) (*models.Order, error) {
	return r.GetByID(id)
}

func (r *orderRepo) GetByReference(reference string) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.Reference == reference {
			copied := *o
			return &copied, nil
		}
	}
	return nil, repositories.ErrOrderNotFound
}

func (r *orderRepo) Update(o *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.ID]; !ok {
		return repositories.ErrOrderNotFound
	}
	copied := *o
	r.s.orders[o.ID] = &copied
	return nil
}

func (r *orderRepo) ListByBuyer(buyerID uint, limit, offset int) ([]models.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var orders []models.Order
	for _, o := range r.s.orders {
		if o.BuyerID == buyerID {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return page(orders, limit, offset), int64(len(orders)), nil
}

// --- CommissionRepository ---

type commissionRepo struct{ s *Store }

func (r *commissionRepo) Create(c *models.Commission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.commissions {
		if existing.OrderID == c.OrderID && existing.Level == c.Level {
			return errors.New("duplicate commission for (order, level)")
		}
	}
	if c.ID == 0 {
		c.ID = r.s.id()
	}
	c.CreatedAt = time.Now()
	r.s.commissions[c.ID] = c
	return nil
}

func (r *commissionRepo) GetByID(id uint) (*models.Commission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.commissions[id]
	if !ok {
		return nil, repositories.ErrCommissionNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *commissionRepo) Update(c *models.Commission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.commissions[c.ID]; !ok {
		return repositories.ErrCommissionNotFound
	}
	copied := *c
	r.s.commissions[c.ID] = &copied
	return nil
}

func (r *commissionRepo) CountByOrderID(orderID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, c := range r.s.commissions {
		if c.OrderID == orderID {
			count++
		}
	}
	return count, nil
}

func (r *commissionRepo) matches(c *models.Commission, memberID uint, filter repositories.CommissionFilter) bool {
	if c.MemberID != memberID {
		return false
	}
	if filter.Type != "" && c.Type != filter.Type {
		return false
	}
	if filter.Status != "" && c.Status != filter.Status {
		return false
	}
	if filter.From != nil && c.CreatedAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !c.CreatedAt.Before(*filter.To) {
		return false
	}
	return true
}

func (r *commissionRepo) ListByMember(memberID uint, filter repositories.CommissionFilter, limit, offset int) ([]models.Commission, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Commission
	for _, c := range r.s.commissions {
		if r.matches(c, memberID, filter) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), int64(len(out)), nil
}

func (r *commissionRepo) SummaryByMember(memberID uint, filter repositories.CommissionFilter) (*repositories.CommissionSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	summary := &repositories.CommissionSummary{}
	for _, c := range r.s.commissions {
		if !r.matches(c, memberID, filter) {
			continue
		}
		summary.Count++
		switch c.Status {
		case models.CommissionPending:
			summary.TotalPending += c.Amount
		case models.CommissionApproved:
			summary.TotalApproved += c.Amount
		case models.CommissionPaid:
			summary.TotalPaid += c.Amount
		case models.CommissionCancelled:
			summary.TotalCancelled += c.Amount
		}
	}
	return summary, nil
}

func (r *commissionRepo) LifetimeEarnings(memberID uint) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	for _, c := range r.s.commissions {
		if c.MemberID != memberID {
			continue
		}
		if c.Status == models.CommissionApproved || c.Status == models.CommissionPaid {
			total += c.Amount
		}
	}
	return total, nil
}

func (r *commissionRepo) SalesTotalByBuyer(buyerID uint) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	for _, o := range r.s.orders {
		if o.BuyerID == buyerID && o.Status == models.OrderCompleted {
			total += o.Amount
		}
	}
	return total, nil
}

// --- RuleRepository ---

type ruleRepo struct{ s *Store }

func (r *ruleRepo) Create(rule *models.CommissionRule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.rules {
		if existing.Type == rule.Type && existing.Level == rule.Level {
			return repositories.ErrDuplicateRule
		}
	}
	if rule.ID == 0 {
		rule.ID = r.s.id()
	}
	r.s.rules[rule.ID] = rule
	return nil
}

func (r *ruleRepo) GetByID(id uint) (*models.CommissionRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rule, ok := r.s.rules[id]
	if !ok {
		return nil, repositories.ErrRuleNotFound
	}
	copied := *rule
	return &copied, nil
}

func (r *ruleRepo) GetActive(commissionType models.CommissionType, level int) (*models.CommissionRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *models.CommissionRule
	for _, rule := range r.s.rules {
		if rule.Type != commissionType || rule.Level != level || !rule.Active {
			continue
		}
		if best == nil || rule.Priority > best.Priority {
			best = rule
		}
	}
	if best == nil {
		return nil, repositories.ErrRuleNotFound
	}
	copied := *best
	return &copied, nil
}

func (r *ruleRepo) List() ([]models.CommissionRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.CommissionRule, 0, len(r.s.rules))
	for _, rule := range r.s.rules {
		out = append(out, *rule)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Level < out[j].Level
	})
	return out, nil
}

func (r *ruleRepo) Update(rule *models.CommissionRule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rules[rule.ID]; !ok {
		return repositories.ErrRuleNotFound
	}
	copied := *rule
	r.s.rules[rule.ID] = &copied
	return nil
}

func (r *ruleRepo) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rules[id]; !ok {
		return repositories.ErrRuleNotFound
	}
	delete(r.s.rules, id)
	return nil
}

// --- WithdrawalRepository ---

type withdrawalRepo struct{ s *Store }

func (r *withdrawalRepo) Create(w *models.Withdrawal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w.ID == 0 {
		w.ID = r.s.id()
	}
	w.CreatedAt = time.Now()
	r.s.withdrawals[w.ID] = w
	return nil
}

func (r *withdrawalRepo) GetByID(id uint) (*models.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.withdrawals[id]
	if !ok {
		return nil, repositories.ErrWithdrawalNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *withdrawalRepo) Update(w *models.Withdrawal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.withdrawals[w.ID]; !ok {
		return repositories.ErrWithdrawalNotFound
	}
	copied := *w
	r.s.withdrawals[w.ID] = &copied
	return nil
}

func (r *withdrawalRepo) ListByMember(memberID uint, status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Withdrawal
	for _, w := range r.s.withdrawals {
		if w.MemberID != memberID {
			continue
		}
		if status != "" && w.Status != status {
			continue
		}
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), int64(len(out)), nil
}

func (r *withdrawalRepo) ListAll(status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Withdrawal
	for _, w := range r.s.withdrawals {
		if status != "" && w.Status != status {
			continue
		}
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), int64(len(out)), nil
}

func (r *withdrawalRepo) CountPendingByMember(memberID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, w := range r.s.withdrawals {
		if w.MemberID != memberID {
			continue
		}
		if w.Status == models.WithdrawalPending || w.Status == models.WithdrawalApproved {
			count++
		}
	}
	return count, nil
}

// --- SettingsRepository ---

type settingsRepo struct{ s *Store }

func (r *settingsRepo) Get() (*models.MLMSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.settings == nil {
		return nil, repositories.ErrSettingsNotFound
	}
	copied := *r.s.settings
	return &copied, nil
}

func (r *settingsRepo) GetOrCreate() (*models.MLMSettings, error) {
	if cfg, err := r.Get(); err == nil {
		return cfg, nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cfg := models.DefaultMLMSettings()
	cfg.ID = 1
	r.s.settings = cfg
	copied := *cfg
	return &copied, nil
}

func (r *settingsRepo) Update(cfg *models.MLMSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *cfg
	r.s.settings = &copied
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
