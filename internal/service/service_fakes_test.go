package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"snochat-be/internal/entity"
	"snochat-be/internal/repository/contract"
	"snochat-be/internal/repository/specification"
	"snochat-be/internal/repository/unitofwork"
	"snochat-be/pkg/ai"

	"github.com/google/uuid"
)

// In-memory doubles for the repository layer. Specifications are interpreted
// by type switch instead of SQL, which is enough for service-level tests.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

type fakeSessionRepo struct {
	sessions []*entity.ChatSession
	touched  []uuid.UUID
	touchErr error
}

func (r *fakeSessionRepo) matches(s *entity.ChatSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.OwnedBy:
			if s.UserId != sp.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	for i, s := range r.sessions {
		if s.Id == session.Id {
			r.sessions[i] = session
			return nil
		}
	}
	return errors.New("session not found")
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	for _, s := range r.sessions {
		if s.Id == id {
			s.IsDeleted = true
			s.DeletedAt = &now
			return nil
		}
	}
	return errors.New("session not found")
}

func (r *fakeSessionRepo) Touch(ctx context.Context, id uuid.UUID) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	r.touched = append(r.touched, id)
	now := time.Now()
	for _, s := range r.sessions {
		if s.Id == id {
			s.UpdatedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, s := range r.sessions {
		if s.IsDeleted {
			continue
		}
		if r.matches(s, specs) {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var result []*entity.ChatSession
	byRecency := false
	for _, spec := range specs {
		if _, ok := spec.(specification.SessionsByRecency); ok {
			byRecency = true
		}
	}
	for _, s := range r.sessions {
		if s.IsDeleted {
			continue
		}
		if r.matches(s, specs) {
			result = append(result, s)
		}
	}
	if byRecency {
		sort.SliceStable(result, func(i, j int) bool {
			return lastActivity(result[i]).After(lastActivity(result[j]))
		})
	}
	return result, nil
}

func lastActivity(s *entity.ChatSession) time.Time {
	if s.UpdatedAt != nil {
		return *s.UpdatedAt
	}
	return s.CreatedAt
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeMessageRepo struct {
	messages  []*entity.ChatMessage
	createErr error
}

func (r *fakeMessageRepo) filtered(specs []specification.Specification) []*entity.ChatMessage {
	var result []*entity.ChatMessage
	chronological := false
	for _, spec := range specs {
		if _, ok := spec.(specification.MessagesChronological); ok {
			chronological = true
		}
	}
	for _, m := range r.messages {
		keep := true
		for _, spec := range specs {
			if sp, ok := spec.(specification.ByChatSessionID); ok && m.ChatSessionId != sp.ChatSessionID {
				keep = false
			}
		}
		if keep {
			result = append(result, m)
		}
	}
	if chronological {
		sort.SliceStable(result, func(i, j int) bool {
			if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
				return result[i].CreatedAt.Before(result[j].CreatedAt)
			}
			return result[i].Id.String() < result[j].Id.String()
		})
	}
	return result
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	result := r.filtered(specs)
	if len(result) == 0 {
		return nil, nil
	}
	return result[0], nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return r.filtered(specs), nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.filtered(specs))), nil
}

type balanceKey struct {
	userId  uuid.UUID
	service string
}

type fakeCreditRepo struct {
	balances  map[balanceKey]int
	createErr error
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{balances: make(map[balanceKey]int)}
}

func (r *fakeCreditRepo) set(userId uuid.UUID, service string, amount int) {
	r.balances[balanceKey{userId, service}] = amount
}

func (r *fakeCreditRepo) Create(ctx context.Context, credit *entity.CreditBalance) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.balances[balanceKey{credit.UserId, credit.Service}] = credit.Amount
	return nil
}

func (r *fakeCreditRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditBalance, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeCreditRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditBalance, error) {
	var result []*entity.CreditBalance
	for key, amount := range r.balances {
		keep := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.OwnedBy:
				if key.userId != sp.UserID {
					keep = false
				}
			case specification.ByService:
				if key.service != sp.Service {
					keep = false
				}
			}
		}
		if keep {
			result = append(result, &entity.CreditBalance{
				UserId:  key.userId,
				Service: key.service,
				Amount:  amount,
			})
		}
	}
	return result, nil
}

func (r *fakeCreditRepo) TryDeduct(ctx context.Context, userId uuid.UUID, service string, amount int) (bool, error) {
	key := balanceKey{userId, service}
	if r.balances[key] < amount {
		return false, nil
	}
	r.balances[key] -= amount
	return true, nil
}

func (r *fakeCreditRepo) Add(ctx context.Context, userId uuid.UUID, service string, amount int) error {
	r.balances[balanceKey{userId, service}] += amount
	return nil
}

// fakeTransactionRepo is written to from the consumer goroutine, so access
// is guarded.
type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions []*entity.CreditTransaction
}

func (r *fakeTransactionRepo) Create(ctx context.Context, transaction *entity.CreditTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, transaction)
	return nil
}

func (r *fakeTransactionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*entity.CreditTransaction, len(r.transactions))
	copy(result, r.transactions)
	return result, nil
}

func (r *fakeTransactionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.transactions)
}

func (r *fakeTransactionRepo) all() []*entity.CreditTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*entity.CreditTransaction, len(r.transactions))
	copy(result, r.transactions)
	return result
}

type fakeUserRepo struct {
	users []*entity.User
}

func (r *fakeUserRepo) matches(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.ByPhone:
			if u.Phone != sp.Phone {
				return false
			}
		case specification.ByUsername:
			if u.Username != sp.Username {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	for i, u := range r.users {
		if u.Id == user.Id {
			r.users[i] = user
			return nil
		}
	}
	return errors.New("user not found")
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.users {
		if r.matches(u, specs) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	for _, u := range r.users {
		if r.matches(u, specs) {
			count++
		}
	}
	return count, nil
}

type fakePlanRepo struct {
	plans []*entity.CreditPlan
}

func (r *fakePlanRepo) matches(p *entity.CreditPlan, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if p.Id != sp.ID {
				return false
			}
		case specification.BySlug:
			if p.Slug != sp.Slug {
				return false
			}
		case specification.ActivePlans:
			if !p.IsActive {
				return false
			}
		}
	}
	return true
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *entity.CreditPlan) error {
	r.plans = append(r.plans, plan)
	return nil
}

func (r *fakePlanRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPlan, error) {
	for _, p := range r.plans {
		if r.matches(p, specs) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditPlan, error) {
	var result []*entity.CreditPlan
	for _, p := range r.plans {
		if r.matches(p, specs) {
			result = append(result, p)
		}
	}
	for _, spec := range specs {
		if sp, ok := spec.(specification.OrderBy); ok && sp.Field == "price" {
			sort.SliceStable(result, func(i, j int) bool {
				if sp.Desc {
					return result[i].Price > result[j].Price
				}
				return result[i].Price < result[j].Price
			})
		}
	}
	return result, nil
}

type fakePurchaseRepo struct {
	purchases []*entity.CreditPurchase
}

func (r *fakePurchaseRepo) matches(p *entity.CreditPurchase, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByOrderID:
			if p.OrderId != sp.OrderID {
				return false
			}
		case specification.OwnedBy:
			if p.UserId != sp.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakePurchaseRepo) Create(ctx context.Context, purchase *entity.CreditPurchase) error {
	r.purchases = append(r.purchases, purchase)
	return nil
}

func (r *fakePurchaseRepo) Update(ctx context.Context, purchase *entity.CreditPurchase) error {
	for i, p := range r.purchases {
		if p.Id == purchase.Id {
			r.purchases[i] = purchase
			return nil
		}
	}
	return errors.New("purchase not found")
}

func (r *fakePurchaseRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPurchase, error) {
	for _, p := range r.purchases {
		if r.matches(p, specs) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePurchaseRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditPurchase, error) {
	var result []*entity.CreditPurchase
	for _, p := range r.purchases {
		if r.matches(p, specs) {
			result = append(result, p)
		}
	}
	for _, spec := range specs {
		if sp, ok := spec.(specification.OrderBy); ok && sp.Field == "created_at" && sp.Desc {
			sort.SliceStable(result, func(i, j int) bool {
				return result[i].CreatedAt.After(result[j].CreatedAt)
			})
		}
	}
	return result, nil
}

// fakeUow hands out the same repositories for every unit of work, so state
// accumulates across service calls the way a shared database would.
type fakeUow struct {
	users        *fakeUserRepo
	sessions     *fakeSessionRepo
	messages     *fakeMessageRepo
	credits      *fakeCreditRepo
	transactions *fakeTransactionRepo
	plans        *fakePlanRepo
	purchases    *fakePurchaseRepo

	begun      int
	committed  int
	rolledBack int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		users:        &fakeUserRepo{},
		sessions:     &fakeSessionRepo{},
		messages:     &fakeMessageRepo{},
		credits:      newFakeCreditRepo(),
		transactions: &fakeTransactionRepo{},
		plans:        &fakePlanRepo{},
		purchases:    &fakePurchaseRepo{},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { u.begun++; return nil }
func (u *fakeUow) Commit() error                   { u.committed++; return nil }
func (u *fakeUow) Rollback() error                 { u.rolledBack++; return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return u.users }

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return u.sessions }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return u.messages }

func (u *fakeUow) CreditRepository() contract.CreditRepository { return u.credits }
func (u *fakeUow) CreditTransactionRepository() contract.CreditTransactionRepository {
	return u.transactions
}
func (u *fakeUow) CreditPlanRepository() contract.CreditPlanRepository         { return u.plans }
func (u *fakeUow) CreditPurchaseRepository() contract.CreditPurchaseRepository { return u.purchases }

func (u *fakeUow) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return u }

// fakeProvider replays a script of canned results and records every call.
type fakeProvider struct {
	replies   []string
	errs      []error
	histories [][]ai.Message

	imageSummary string
	imageErr     error
}

func (p *fakeProvider) Converse(ctx context.Context, history []ai.Message) (string, error) {
	call := len(p.histories)
	snapshot := make([]ai.Message, len(history))
	copy(snapshot, history)
	p.histories = append(p.histories, snapshot)

	if call < len(p.errs) && p.errs[call] != nil {
		return "", p.errs[call]
	}
	if call < len(p.replies) {
		return p.replies[call], nil
	}
	if len(p.replies) > 0 {
		return p.replies[len(p.replies)-1], nil
	}
	return "", errors.New("no scripted reply")
}

func (p *fakeProvider) DescribeImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	if p.imageErr != nil {
		return "", p.imageErr
	}
	return p.imageSummary, nil
}
