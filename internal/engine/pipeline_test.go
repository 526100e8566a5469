package engine

import (
	"context"
	"testing"
	"time"

	"github.com/saffron-ledger/saffron/internal/model"
	"github.com/saffron-ledger/saffron/internal/rules"
	"github.com/saffron-ledger/saffron/internal/service"
)

// mockStorage is an in-memory service.Storage for pipeline tests.
type mockStorage struct {
	mockOverrideStore

	txns    []model.Transaction
	records []*model.CategorizationRecord
	loadErr error
	saveErr error
}

func (m *mockStorage) SaveOverride(_ context.Context, _ *model.Override) error  { return nil }
func (m *mockStorage) DeleteOverride(_ context.Context, _, _, _ string) error   { return nil }
func (m *mockStorage) GetOverridesByUser(_ context.Context, _ string) ([]model.Override, error) {
	return nil, nil
}
func (m *mockStorage) IncrementOverrideUseCount(_ context.Context, _ *model.Override) error {
	return nil
}

func (m *mockStorage) SaveTransactions(_ context.Context, txns []model.Transaction) error {
	m.txns = append(m.txns, txns...)
	return nil
}

func (m *mockStorage) GetTransactionByID(_ context.Context, id string) (*model.Transaction, error) {
	for i := range m.txns {
		if m.txns[i].ID == id {
			return &m.txns[i], nil
		}
	}
	return nil, nil
}

func (m *mockStorage) GetTransactionsToCategorize(_ context.Context, fromDate *time.Time) ([]model.Transaction, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if fromDate == nil {
		return m.txns, nil
	}
	var out []model.Transaction
	for _, txn := range m.txns {
		if !txn.Date.Before(*fromDate) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (m *mockStorage) SaveCategorization(_ context.Context, record *model.CategorizationRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append(m.records, record)
	return nil
}

func (m *mockStorage) GetCategorized(_ context.Context, _ service.CategorizedFilter) ([]service.CategorizedTransaction, error) {
	return nil, nil
}

func (m *mockStorage) Migrate(_ context.Context) error { return nil }
func (m *mockStorage) Close() error                    { return nil }

func newTestPipeline(t *testing.T, store *mockStorage) *Pipeline {
	t.Helper()
	scorer, err := rules.NewScorer(rules.DefaultTable())
	if err != nil {
		t.Fatalf("failed to build scorer: %v", err)
	}
	return NewPipeline(store, New(store, scorer))
}

func TestPipeline_Run(t *testing.T) {
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	store := &mockStorage{
		txns: []model.Transaction{
			{ID: "t1", Date: day, MerchantName: "STARBUCKS STORE #123", Amount: 4.75},
			{ID: "t2", Date: day, Name: "ACME PAYROLL", Amount: -2500},
			{ID: "t3", Date: day, Name: "XJ9 HOLDINGS", Amount: 12},
			{ID: "t4", Date: day, MerchantName: "Blue Bottle", Amount: 6.50, UpstreamCategory: "FOOD_AND_DRINK_COFFEE"},
		},
	}
	pipeline := newTestPipeline(t, store)

	var lastDone, lastTotal int
	stats, err := pipeline.Run(context.Background(), "user1", nil, 0.6, func(done, total int) {
		lastDone, lastTotal = done, total
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.Total != 4 {
		t.Errorf("stats.Total = %d, want 4", stats.Total)
	}
	// Only the fallback result (0.4) is below the review threshold.
	if stats.LowConfidence != 1 {
		t.Errorf("stats.LowConfidence = %d, want 1", stats.LowConfidence)
	}
	if lastDone != 4 || lastTotal != 4 {
		t.Errorf("progress ended at %d/%d, want 4/4", lastDone, lastTotal)
	}

	wantReasons := map[string]int{
		model.ReasonKeywordScoring: 1,
		model.ReasonIncomeSalary:   1,
		model.ReasonFallback:       1,
		"upstream_mapping":         1,
	}
	for reason, want := range wantReasons {
		if stats.ByReason[reason] != want {
			t.Errorf("stats.ByReason[%q] = %d, want %d", reason, stats.ByReason[reason], want)
		}
	}

	if len(store.records) != 4 {
		t.Fatalf("saved %d records, want 4", len(store.records))
	}
	for _, record := range store.records {
		if record.Status != model.StatusAuto {
			t.Errorf("record %s status = %q, want %q", record.TransactionID, record.Status, model.StatusAuto)
		}
		if record.TransactionID == "" {
			t.Error("record saved without a transaction ID")
		}
	}
}

func TestPipeline_RunFromDate(t *testing.T) {
	cutoff := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	store := &mockStorage{
		txns: []model.Transaction{
			{ID: "old", Date: cutoff.AddDate(0, 0, -10), Name: "STARBUCKS", Amount: 4},
			{ID: "new", Date: cutoff.AddDate(0, 0, 1), Name: "STARBUCKS", Amount: 4},
		},
	}
	pipeline := newTestPipeline(t, store)

	stats, err := pipeline.Run(context.Background(), "user1", &cutoff, 0.6, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.Total != 1 {
		t.Errorf("stats.Total = %d, want 1", stats.Total)
	}
	if len(store.records) != 1 || store.records[0].TransactionID != "new" {
		t.Errorf("unexpected records: %+v", store.records)
	}
}

func TestPipeline_RunEmpty(t *testing.T) {
	store := &mockStorage{}
	pipeline := newTestPipeline(t, store)

	stats, err := pipeline.Run(context.Background(), "user1", nil, 0.6, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Total != 0 || len(store.records) != 0 {
		t.Errorf("expected no work, got stats=%+v records=%d", stats, len(store.records))
	}
}

func TestReasonKey(t *testing.T) {
	if got := reasonKey("plaid:FOOD_AND_DRINK"); got != "upstream_mapping" {
		t.Errorf("reasonKey(plaid:...) = %q, want upstream_mapping", got)
	}
	if got := reasonKey(model.ReasonFallback); got != model.ReasonFallback {
		t.Errorf("reasonKey(fallback) = %q, want unchanged", got)
	}
}
