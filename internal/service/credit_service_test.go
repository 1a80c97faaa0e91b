package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"snochat-be/internal/constant"
	"snochat-be/internal/dto"
	"snochat-be/internal/entity"
	"snochat-be/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCreditServiceForTest(uow *fakeUow) (ICreditService, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewCreditService(uow, testCreditConfig(), pub, nil, nil, nopLogger{})
	return svc, pub
}

// seedDefaultBalances creates every balance row up front so the lazy
// first-read seeding stays quiet and audit assertions see only the
// mutations under test.
func seedDefaultBalances(uow *fakeUow, userId uuid.UUID) {
	uow.credits.set(userId, constant.ServiceChat, 40)
	uow.credits.set(userId, constant.ServiceEmbedding, 5000)
	uow.credits.set(userId, constant.ServicePanorama, 1)
	uow.credits.set(userId, constant.ServiceEye2D, 0)
}

func auditMessages(t *testing.T, pub *recordingPublisher) []dto.CreditAuditMessage {
	t.Helper()
	messages := make([]dto.CreditAuditMessage, 0, len(pub.payloads))
	for _, payload := range pub.payloads {
		var msg dto.CreditAuditMessage
		require.NoError(t, json.Unmarshal(payload, &msg))
		messages = append(messages, msg)
	}
	return messages
}

func TestEnsureDefaults_SeedsAllServices(t *testing.T) {
	uow := newFakeUow()
	svc, pub := newCreditServiceForTest(uow)
	userId := uuid.New()

	require.NoError(t, svc.EnsureDefaults(context.Background(), userId))

	balances, err := svc.GetBalances(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		constant.ServiceChat:      40,
		constant.ServiceEmbedding: 5000,
		constant.ServicePanorama:  1,
		constant.ServiceEye2D:     0,
	}, balances)

	// One grant audit row per seeded service.
	audits := auditMessages(t, pub)
	require.Len(t, audits, 4)
	for _, msg := range audits {
		assert.Equal(t, userId, msg.UserId)
		assert.Equal(t, string(entity.CreditTransactionGrant), msg.Type)
	}
}

func TestEnsureDefaults_SkipsExistingBalances(t *testing.T) {
	uow := newFakeUow()
	svc, _ := newCreditServiceForTest(uow)
	userId := uuid.New()

	// The user already spent most of the chat grant.
	uow.credits.set(userId, constant.ServiceChat, 3)

	require.NoError(t, svc.EnsureDefaults(context.Background(), userId))

	balance, err := svc.GetBalance(context.Background(), userId, constant.ServiceChat)
	require.NoError(t, err)
	assert.Equal(t, 3, balance, "existing balance must not be reset")

	balance, err = svc.GetBalance(context.Background(), userId, constant.ServiceEmbedding)
	require.NoError(t, err)
	assert.Equal(t, 5000, balance)
}

func TestEnsureDefaults_SeedsAtomically(t *testing.T) {
	uow := newFakeUow()
	svc, _ := newCreditServiceForTest(uow)
	userId := uuid.New()

	require.NoError(t, svc.EnsureDefaults(context.Background(), userId))
	assert.Equal(t, 1, uow.begun)
	assert.Equal(t, 1, uow.committed)
	assert.Zero(t, uow.rolledBack)

	// Nothing is missing on the second run; no transaction is opened.
	require.NoError(t, svc.EnsureDefaults(context.Background(), userId))
	assert.Equal(t, 1, uow.begun)
}

func TestEnsureDefaults_RollsBackOnSeedFailure(t *testing.T) {
	uow := newFakeUow()
	svc, pub := newCreditServiceForTest(uow)
	userId := uuid.New()

	uow.credits.createErr = errors.New("insert rejected")

	err := svc.EnsureDefaults(context.Background(), userId)
	assert.True(t, apperr.HasCode(err, apperr.CodeStorage), "got %v", err)
	assert.Equal(t, 1, uow.rolledBack)
	assert.Zero(t, uow.committed)
	assert.Empty(t, auditMessages(t, pub), "rolled back rows must not be audited")
}

func TestGetBalances_LazilySeedsFirstUse(t *testing.T) {
	uow := newFakeUow()
	svc, pub := newCreditServiceForTest(uow)
	userId := uuid.New()

	// No signup grant ran for this user; the first read seeds the defaults.
	balances, err := svc.GetBalances(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, 40, balances[constant.ServiceChat])
	assert.Equal(t, 5000, balances[constant.ServiceEmbedding])
	assert.Len(t, auditMessages(t, pub), 4)
}

func TestGetBalance_UnknownServiceIsZero(t *testing.T) {
	uow := newFakeUow()
	svc, _ := newCreditServiceForTest(uow)

	balance, err := svc.GetBalance(context.Background(), uuid.New(), "no_such_service")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestDeduct(t *testing.T) {
	uow := newFakeUow()
	svc, pub := newCreditServiceForTest(uow)
	userId := uuid.New()
	sessionId := uuid.New()
	seedDefaultBalances(uow, userId)
	uow.credits.set(userId, constant.ServiceChat, 2)

	remaining, err := svc.Deduct(context.Background(), userId, constant.ServiceChat, 1, &sessionId, "chat exchange")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	audits := auditMessages(t, pub)
	require.Len(t, audits, 1)
	assert.Equal(t, string(entity.CreditTransactionSpend), audits[0].Type)
	assert.Equal(t, constant.ServiceChat, audits[0].Service)
	assert.Equal(t, 1, audits[0].Amount)
	require.NotNil(t, audits[0].RelatedId)
	assert.Equal(t, sessionId, *audits[0].RelatedId)

	remaining, err = svc.Deduct(context.Background(), userId, constant.ServiceChat, 1, &sessionId, "chat exchange")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = svc.Deduct(context.Background(), userId, constant.ServiceChat, 1, &sessionId, "chat exchange")
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientCredit), "got %v", err)

	// The failed deduction leaves the balance and the audit trail alone.
	balance, err := svc.GetBalance(context.Background(), userId, constant.ServiceChat)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
	assert.Len(t, auditMessages(t, pub), 2)
}

func TestDeduct_MissingBalanceRowIsInsufficient(t *testing.T) {
	uow := newFakeUow()
	svc, _ := newCreditServiceForTest(uow)

	_, err := svc.Deduct(context.Background(), uuid.New(), constant.ServiceChat, 1, nil, "chat exchange")
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientCredit), "got %v", err)
}

func TestGrant(t *testing.T) {
	uow := newFakeUow()
	svc, pub := newCreditServiceForTest(uow)
	userId := uuid.New()
	seedDefaultBalances(uow, userId)
	uow.credits.set(userId, constant.ServiceChat, 5)

	require.NoError(t, svc.Grant(context.Background(), userId, constant.ServiceChat, 120, "purchase credits-abc"))

	balance, err := svc.GetBalance(context.Background(), userId, constant.ServiceChat)
	require.NoError(t, err)
	assert.Equal(t, 125, balance)

	audits := auditMessages(t, pub)
	require.Len(t, audits, 1)
	assert.Equal(t, string(entity.CreditTransactionGrant), audits[0].Type)
	assert.Equal(t, 120, audits[0].Amount)
}
