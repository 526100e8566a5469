package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saffron-ledger/saffron/internal/model"
	"github.com/saffron-ledger/saffron/internal/rules"
)

// mockOverrideStore serves overrides from in-memory maps keyed by merchant ID
// and normalized name.
type mockOverrideStore struct {
	byMerchantID    map[string]*model.Override
	byName          map[string]*model.Override
	err             error
	useErr          error
	useRecords      []*model.Override
	merchantIDCalls int
	nameCalls       int
}

func (m *mockOverrideStore) GetByMerchantID(_ context.Context, _, merchantID string) (*model.Override, error) {
	m.merchantIDCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.byMerchantID[merchantID], nil
}

func (m *mockOverrideStore) GetByName(_ context.Context, _, normalizedName string) (*model.Override, error) {
	m.nameCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.byName[normalizedName], nil
}

func (m *mockOverrideStore) IncrementOverrideUseCount(_ context.Context, override *model.Override) error {
	if m.useErr != nil {
		return m.useErr
	}
	m.useRecords = append(m.useRecords, override)
	return nil
}

func newTestCategorizer(t *testing.T, store *mockOverrideStore) *Categorizer {
	t.Helper()
	scorer, err := rules.NewScorer(rules.DefaultTable())
	if err != nil {
		t.Fatalf("failed to build scorer: %v", err)
	}
	return New(store, scorer)
}

func TestCategorizer_Categorize(t *testing.T) {
	tests := []struct {
		name           string
		txn            model.Transaction
		wantCategory   string
		wantDirection  model.TransactionDirection
		wantConfidence float64
		wantReason     string
	}{
		{
			name:           "keyword scoring matches known merchant",
			txn:            model.Transaction{MerchantName: "STARBUCKS STORE #123", Amount: 4.75},
			wantCategory:   model.CategoryFood,
			wantDirection:  model.DirectionExpense,
			wantConfidence: 0.8,
			wantReason:     model.ReasonKeywordScoring,
		},
		{
			name:           "exclusion rule resolves keyword overlap",
			txn:            model.Transaction{MerchantName: "UBER EATS ORDER", Amount: 22.10},
			wantCategory:   model.CategoryFood,
			wantDirection:  model.DirectionExpense,
			wantConfidence: 0.8,
			wantReason:     model.ReasonKeywordScoring,
		},
		{
			name:           "payroll deposit classified as salary",
			txn:            model.Transaction{Name: "ACME CORP PAYROLL Direct Dep", Amount: -2500},
			wantCategory:   model.CategorySalary,
			wantDirection:  model.DirectionIncome,
			wantConfidence: 0.85,
			wantReason:     model.ReasonIncomeSalary,
		},
		{
			name:           "non-salary income",
			txn:            model.Transaction{Name: "ETSY SELLER DISBURSEMENT", Amount: -84.20},
			wantCategory:   model.CategoryOtherIncome,
			wantDirection:  model.DirectionIncome,
			wantConfidence: 0.7,
			wantReason:     model.ReasonIncomeDefault,
		},
		{
			name:           "zelle payment is an outbound transfer",
			txn:            model.Transaction{Name: "Zelle payment to JOHN DOE", Amount: 150},
			wantCategory:   model.CategoryTransfersOut,
			wantDirection:  model.DirectionExpense,
			wantConfidence: 0.85,
			wantReason:     model.ReasonKeywordTransfer,
		},
		{
			name:           "refund transaction code",
			txn:            model.Transaction{MerchantName: "TARGET", Amount: 31.99, TransactionCode: "REFUND"},
			wantCategory:   model.CategoryAdjustments,
			wantDirection:  model.DirectionExpense,
			wantConfidence: 0.9,
			wantReason:     model.ReasonTransactionCode,
		},
		{
			name:           "upstream category hint",
			txn:            model.Transaction{MerchantName: "Blue Bottle", Amount: 6.50, UpstreamCategory: "FOOD_AND_DRINK_COFFEE"},
			wantCategory:   model.CategoryFood,
			wantDirection:  model.DirectionExpense,
			wantConfidence: 0.9,
			wantReason:     "plaid:FOOD_AND_DRINK_COFFEE",
		},
		{
			name:           "upstream hint beats income heuristics",
			txn:            model.Transaction{Name: "ACME CORP", Amount: -2500, UpstreamCategory: "INCOME_WAGES"},
			wantCategory:   model.CategorySalary,
			wantDirection:  model.DirectionIncome,
			wantConfidence: 0.9,
			wantReason:     "plaid:INCOME_WAGES",
		},
		{
			name:           "unmapped upstream falls through to income heuristics",
			txn:            model.Transaction{Name: "MOBILE DEPOSIT 4412", Amount: -60, UpstreamCategory: "TRANSFER_IN"},
			wantCategory:   model.CategorySalary,
			wantDirection:  model.DirectionIncome,
			wantConfidence: 0.85,
			wantReason:     model.ReasonIncomeSalary,
		},
		{
			name:           "income never reaches expense rules",
			txn:            model.Transaction{Name: "STARBUCKS REFUND", Amount: -4.75},
			wantCategory:   model.CategorySalary,
			wantDirection:  model.DirectionIncome,
			wantConfidence: 0.85,
			wantReason:     model.ReasonIncomeSalary,
		},
		{
			name:           "unknown merchant falls back",
			txn:            model.Transaction{Name: "XJ9 HOLDINGS 000441", Amount: 12.00},
			wantCategory:   model.CategoryOtherExpenses,
			wantDirection:  model.DirectionExpense,
			wantConfidence: 0.4,
			wantReason:     model.ReasonFallback,
		},
		{
			name:           "empty name falls back",
			txn:            model.Transaction{Amount: 5},
			wantCategory:   model.CategoryOtherExpenses,
			wantDirection:  model.DirectionExpense,
			wantConfidence: 0.4,
			wantReason:     model.ReasonFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCategorizer(t, &mockOverrideStore{})

			got, err := c.Categorize(context.Background(), "user1", tt.txn)
			if err != nil {
				t.Fatalf("Categorize() error = %v", err)
			}

			if got.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Direction != tt.wantDirection {
				t.Errorf("direction = %q, want %q", got.Direction, tt.wantDirection)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestCategorizer_OverridePrecedence(t *testing.T) {
	store := &mockOverrideStore{
		byMerchantID: map[string]*model.Override{
			"mrch_123": {Category: model.CategorySubscriptions},
		},
		byName: map[string]*model.Override{
			"starbucks 123": {Category: model.CategoryBusiness},
		},
	}
	c := newTestCategorizer(t, store)
	ctx := context.Background()

	// Merchant-ID override wins over everything, including a name override
	// for the same transaction.
	got, err := c.Categorize(ctx, "user1", model.Transaction{
		MerchantID:       "mrch_123",
		MerchantName:     "STARBUCKS STORE #123",
		Amount:           4.75,
		UpstreamCategory: "FOOD_AND_DRINK",
	})
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if got.Category != model.CategorySubscriptions || got.Confidence != 1.0 || got.Reason != model.ReasonOverrideMerchantID {
		t.Errorf("merchant-id override not applied: %+v", got)
	}

	// Without a merchant-ID hit, the name override applies at lower
	// confidence and still beats the upstream hint.
	got, err = c.Categorize(ctx, "user1", model.Transaction{
		MerchantID:       "mrch_other",
		MerchantName:     "STARBUCKS STORE #123",
		Amount:           4.75,
		UpstreamCategory: "FOOD_AND_DRINK",
	})
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if got.Category != model.CategoryBusiness || got.Confidence != 0.95 || got.Reason != model.ReasonOverrideName {
		t.Errorf("name override not applied: %+v", got)
	}

	// Overrides apply to income transactions too, keeping the income
	// direction.
	got, err = c.Categorize(ctx, "user1", model.Transaction{
		MerchantName: "STARBUCKS STORE #123",
		Amount:       -4.75,
	})
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if got.Category != model.CategoryBusiness || got.Direction != model.DirectionIncome {
		t.Errorf("override on income transaction: %+v", got)
	}
}

// Applying an override bumps its use counter; no other stage touches it, and
// a counter failure never fails the categorization.
func TestCategorizer_RecordsOverrideUse(t *testing.T) {
	store := &mockOverrideStore{
		byMerchantID: map[string]*model.Override{
			"mrch_123": {MerchantID: "mrch_123", Category: model.CategorySubscriptions},
		},
		byName: map[string]*model.Override{
			"pizza palace": {NormalizedName: "pizza palace", Category: model.CategoryFood},
		},
	}
	c := newTestCategorizer(t, store)
	ctx := context.Background()

	if _, err := c.Categorize(ctx, "user1", model.Transaction{MerchantID: "mrch_123", Amount: 10}); err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if len(store.useRecords) != 1 || store.useRecords[0].MerchantID != "mrch_123" {
		t.Errorf("merchant-id override use not recorded: %+v", store.useRecords)
	}

	if _, err := c.Categorize(ctx, "user1", model.Transaction{MerchantName: "Pizza Palace", Amount: 10}); err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if len(store.useRecords) != 2 || store.useRecords[1].NormalizedName != "pizza palace" {
		t.Errorf("name override use not recorded: %+v", store.useRecords)
	}

	// A miss that resolves through later stages records nothing.
	if _, err := c.Categorize(ctx, "user1", model.Transaction{MerchantName: "STARBUCKS", Amount: 10}); err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if len(store.useRecords) != 2 {
		t.Errorf("non-override result recorded a use: %+v", store.useRecords)
	}

	store.useErr = errors.New("disk full")
	got, err := c.Categorize(ctx, "user1", model.Transaction{MerchantID: "mrch_123", Amount: 10})
	if err != nil {
		t.Fatalf("Categorize() with failing counter error = %v", err)
	}
	if got.Category != model.CategorySubscriptions {
		t.Errorf("counter failure changed the result: %+v", got)
	}
}

func TestCategorizer_SkipsLookupsWithoutKeys(t *testing.T) {
	store := &mockOverrideStore{}
	c := newTestCategorizer(t, store)

	_, err := c.Categorize(context.Background(), "user1", model.Transaction{Amount: 5})
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}

	if store.merchantIDCalls != 0 {
		t.Errorf("merchant-id lookup called %d times without a merchant ID", store.merchantIDCalls)
	}
	if store.nameCalls != 0 {
		t.Errorf("name lookup called %d times for an empty normalized name", store.nameCalls)
	}
}

func TestCategorizer_StoreErrorIsFatal(t *testing.T) {
	storeErr := errors.New("database locked")
	c := newTestCategorizer(t, &mockOverrideStore{err: storeErr})

	_, err := c.Categorize(context.Background(), "user1", model.Transaction{
		MerchantName: "STARBUCKS", Amount: 4.75,
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("Categorize() error = %v, want wrapped %v", err, storeErr)
	}
}

// Every input must produce a non-empty category with confidence in [0,1].
func TestCategorizer_Totality(t *testing.T) {
	c := newTestCategorizer(t, &mockOverrideStore{})
	ctx := context.Background()

	txns := []model.Transaction{
		{},
		{Amount: 0.01},
		{Amount: -0.01},
		{Name: "!!!@@@###"},
		{Name: "a"},
		{MerchantName: "POS CARD ACH ONLINE", Amount: 99},
		{Name: "STARBUCKS UBER AMAZON NETFLIX CVS", Amount: 10},
		{TransactionCode: "REVERSAL", Amount: 1},
	}

	for _, txn := range txns {
		got, err := c.Categorize(ctx, "user1", txn)
		if err != nil {
			t.Fatalf("Categorize(%+v) error = %v", txn, err)
		}
		if got.Category == "" {
			t.Errorf("Categorize(%+v) returned empty category", txn)
		}
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Categorize(%+v) confidence %v out of range", txn, got.Confidence)
		}
		if !model.IsValidCategory(got.Category) {
			t.Errorf("Categorize(%+v) returned unknown category %q", txn, got.Category)
		}
	}
}

// Stage confidences are fixed constants that decrease down the pipeline:
// overrides beat the upstream hint, which beats heuristics, which beat
// keyword scoring at its floor, which beats the fallback.
func TestCategorizer_ConfidenceOrdering(t *testing.T) {
	store := &mockOverrideStore{
		byMerchantID: map[string]*model.Override{
			"mrch_1": {Category: model.CategoryFood},
		},
		byName: map[string]*model.Override{
			"pizza palace": {Category: model.CategoryFood},
		},
	}
	c := newTestCategorizer(t, store)
	ctx := context.Background()

	confidenceFor := func(txn model.Transaction) float64 {
		t.Helper()
		got, err := c.Categorize(ctx, "user1", txn)
		if err != nil {
			t.Fatalf("Categorize(%+v) error = %v", txn, err)
		}
		return got.Confidence
	}

	ladder := []struct {
		name string
		txn  model.Transaction
	}{
		{"merchant-id override", model.Transaction{MerchantID: "mrch_1", Amount: 10}},
		{"name override", model.Transaction{MerchantName: "Pizza Palace", Amount: 10}},
		{"upstream mapping", model.Transaction{Name: "something", Amount: 10, UpstreamCategory: "FOOD_AND_DRINK"}},
		{"hard rule", model.Transaction{Name: "zelle out", Amount: 10}},
		{"income default", model.Transaction{Name: "etsy disbursement", Amount: -10}},
		{"fallback", model.Transaction{Name: "xj9 holdings", Amount: 10}},
	}

	prev := 1.1
	for _, step := range ladder {
		confidence := confidenceFor(step.txn)
		if confidence > prev {
			t.Errorf("%s confidence %v exceeds earlier stage %v", step.name, confidence, prev)
		}
		prev = confidence
	}

	// Keyword scoring never selects below its threshold, so any scored
	// result outranks the fallback.
	scored := confidenceFor(model.Transaction{MerchantName: "STARBUCKS", Amount: 10})
	fallback := confidenceFor(model.Transaction{Name: "xj9 holdings", Amount: 10})
	if scored < 0.6 || scored <= fallback {
		t.Errorf("keyword score %v should be >= 0.6 and above fallback %v", scored, fallback)
	}
}

func TestCategorizer_CategorizeBatch(t *testing.T) {
	c := newTestCategorizer(t, &mockOverrideStore{})

	txns := []model.Transaction{
		{ID: "t1", MerchantName: "STARBUCKS", Amount: 4.75},
		{ID: "t2", Name: "ACME PAYROLL", Amount: -2500},
		{ID: "t3", Name: "XJ9 HOLDINGS", Amount: 12},
	}

	var progress []int
	results, err := c.CategorizeBatch(context.Background(), "user1", txns, func(done int) {
		progress = append(progress, done)
	})
	if err != nil {
		t.Fatalf("CategorizeBatch() error = %v", err)
	}

	if len(results) != len(txns) {
		t.Fatalf("got %d results, want %d", len(results), len(txns))
	}
	if results[0].Category != model.CategoryFood {
		t.Errorf("results[0].Category = %q, want %q", results[0].Category, model.CategoryFood)
	}
	if results[1].Category != model.CategorySalary {
		t.Errorf("results[1].Category = %q, want %q", results[1].Category, model.CategorySalary)
	}
	if results[2].Reason != model.ReasonFallback {
		t.Errorf("results[2].Reason = %q, want %q", results[2].Reason, model.ReasonFallback)
	}

	if len(progress) != 3 || progress[2] != 3 {
		t.Errorf("unexpected progress callbacks: %v", progress)
	}
}

func TestCategorizer_CategorizeBatchCancelled(t *testing.T) {
	c := newTestCategorizer(t, &mockOverrideStore{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CategorizeBatch(ctx, "user1", []model.Transaction{{ID: "t1", Amount: 1}}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("CategorizeBatch() error = %v, want context.Canceled", err)
	}
}

// Deterministic: the same transaction always gets the same result.
func TestCategorizer_Deterministic(t *testing.T) {
	c := newTestCategorizer(t, &mockOverrideStore{})
	ctx := context.Background()

	txn := model.Transaction{
		Date:         time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		MerchantName: "STARBUCKS STORE #123",
		Amount:       4.75,
	}

	first, err := c.Categorize(ctx, "user1", txn)
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := c.Categorize(ctx, "user1", txn)
		if err != nil {
			t.Fatalf("Categorize() error = %v", err)
		}
		if again != first {
			t.Fatalf("result changed between calls: %+v vs %+v", first, again)
		}
	}
}
