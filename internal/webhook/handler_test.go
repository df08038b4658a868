package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/terravest/investment-api/internal/investment"
	"github.com/terravest/investment-api/internal/payment"
	"github.com/terravest/investment-api/internal/pricing"
	"github.com/terravest/investment-api/internal/project"
	"github.com/terravest/investment-api/internal/schedule"
)

const testSecret = "sk_test_reconcile"

type fakeResolver struct {
	byID    map[uint]*investment.Investment
	byEmail map[string]*investment.Investment
}

func (f *fakeResolver) FindByID(id uint) (*investment.Investment, error) {
	if inv, ok := f.byID[id]; ok {
		return inv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResolver) FirstOpenByUserEmail(email string) (*investment.Investment, error) {
	if inv, ok := f.byEmail[email]; ok {
		return inv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeScheduleFinder struct {
	item *schedule.PaymentSchedule
}

func (f *fakeScheduleFinder) FirstOpenByInvestment(uint) (*schedule.PaymentSchedule, error) {
	if f.item == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.item, nil
}

type fakeApplier struct {
	applied []*payment.Transaction
	seen    map[string]bool
}

func (f *fakeApplier) Apply(t *payment.Transaction) error {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if t.PaymentReference != nil && f.seen[*t.PaymentReference] {
		return payment.ErrDuplicatePayment
	}
	if t.PaymentReference != nil {
		f.seen[*t.PaymentReference] = true
	}
	f.applied = append(f.applied, t)
	return nil
}

type fakeNotifier struct {
	count int
}

func (f *fakeNotifier) Notify(uint, string, string, string) error {
	f.count++
	return nil
}

func testInvestment() *investment.Investment {
	return &investment.Investment{
		ID:     7,
		UserID: 3,
		Status: investment.StatusPaying,
		Pricing: pricing.ProjectPricing{
			Project: project.InvestmentProject{
				Name:     "Sunrise Farmland",
				Location: "Epe, Lagos",
			},
		},
	}
}

func newTestHandler() (*Handler, *fakeApplier, *fakeNotifier) {
	inv := testInvestment()
	applier := &fakeApplier{}
	notifier := &fakeNotifier{}
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := &Handler{
		Secret: testSecret,
		Investments: &fakeResolver{
			byID:    map[uint]*investment.Investment{7: inv},
			byEmail: map[string]*investment.Investment{"ada@example.com": inv},
		},
		Schedules: &fakeScheduleFinder{item: &schedule.PaymentSchedule{
			ID:                1,
			InvestmentID:      7,
			InstallmentNumber: 2,
			Status:            schedule.StatusUpcoming,
		}},
		Payments: applier,
		Notifier: notifier,
		Log:      log,
	}
	return h, applier, notifier
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func deliver(h *Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("x-paystack-signature", signature)
	}
	rec := httptest.NewRecorder()
	h.Receive(rec, req)
	return rec
}

func chargeSuccess(reference string, kobo int64, investmentID string, email string) []byte {
	meta := ""
	if investmentID != "" {
		meta = fmt.Sprintf(`"metadata":{"investment_id":%s},`, investmentID)
	}
	return []byte(fmt.Sprintf(
		`{"event":"charge.success","data":{"reference":%q,"amount":%d,%s"customer":{"email":%q}}}`,
		reference, kobo, meta, email))
}

func TestReceiveRejectsMissingSignature(t *testing.T) {
	h, applier, _ := newTestHandler()
	rec := deliver(h, chargeSuccess("ref-1", 30000, "7", ""), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, applier.applied)
}

func TestReceiveRejectsTamperedPayload(t *testing.T) {
	h, applier, _ := newTestHandler()
	payload := chargeSuccess("ref-1", 30000, "7", "")
	sig := sign(testSecret, payload)
	payload = chargeSuccess("ref-1", 999999, "7", "")
	rec := deliver(h, payload, sig)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, applier.applied)
}

func TestReceiveAppliesChargeSuccess(t *testing.T) {
	h, applier, notifier := newTestHandler()
	payload := chargeSuccess("ref-42", 30000, "7", "ada@example.com")

	rec := deliver(h, payload, sign(testSecret, payload))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, applier.applied, 1)

	tr := applier.applied[0]
	assert.Equal(t, uint(7), tr.InvestmentID)
	assert.Equal(t, uint(3), tr.UserID)
	assert.Equal(t, "300", tr.Amount.String()) // 30000 kobo
	require.NotNil(t, tr.PaymentReference)
	assert.Equal(t, "ref-42", *tr.PaymentReference)
	require.NotNil(t, tr.InstallmentNumber)
	assert.Equal(t, 2, *tr.InstallmentNumber)
	assert.Equal(t, "Epe, Lagos", tr.Location)
	assert.Equal(t, 1, notifier.count)
}

func TestReceiveResolvesByCustomerEmail(t *testing.T) {
	h, applier, _ := newTestHandler()
	payload := chargeSuccess("ref-9", 15000, "", "ada@example.com")

	rec := deliver(h, payload, sign(testSecret, payload))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, applier.applied, 1)
	assert.Equal(t, uint(7), applier.applied[0].InvestmentID)
}

func TestReceiveDuplicateDeliveryIsAcknowledgedOnce(t *testing.T) {
	h, applier, notifier := newTestHandler()
	payload := chargeSuccess("ref-dup", 30000, "7", "")
	sig := sign(testSecret, payload)

	first := deliver(h, payload, sig)
	second := deliver(h, payload, sig)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Len(t, applier.applied, 1, "one ledger entry for two deliveries")
	assert.Equal(t, 1, notifier.count)
}

func TestReceiveUnresolvableInvestmentIsDropped(t *testing.T) {
	h, applier, _ := newTestHandler()
	payload := chargeSuccess("ref-x", 30000, "404", "nobody@example.com")

	rec := deliver(h, payload, sign(testSecret, payload))

	assert.Equal(t, http.StatusOK, rec.Code, "accept-and-drop, never bounce to the gateway")
	assert.Empty(t, applier.applied)
}

func TestReceiveNoOpenScheduleItemIsDropped(t *testing.T) {
	h, applier, _ := newTestHandler()
	h.Schedules = &fakeScheduleFinder{}
	payload := chargeSuccess("ref-y", 30000, "7", "")

	rec := deliver(h, payload, sign(testSecret, payload))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, applier.applied)
}

func TestReceiveIgnoresOtherEvents(t *testing.T) {
	h, applier, _ := newTestHandler()
	payload := []byte(`{"event":"transfer.success","data":{"reference":"t-1","amount":5000}}`)

	rec := deliver(h, payload, sign(testSecret, payload))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, applier.applied)
}
