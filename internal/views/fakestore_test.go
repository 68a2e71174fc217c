package views

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"budgettool/internal/logger"
	"budgettool/internal/remote"
)

func init() {
	logger.Init("test")
}

// fakeStore is an in-memory remote.Store. Hook fields, when set, run
// before the default behaviour and may return an error to fail the call.
type fakeStore struct {
	mu       sync.Mutex
	session  *remote.Session
	listener func(*remote.Session)
	seq      int

	vendors []remote.Vendor
	budgets map[remote.BudgetKey]float64
	charges []remote.Charge

	calls map[string]int

	onCreateVendor func() error
	onDeleteVendor func(id string) error
	onDeleteCharge func(id string) error
	onGetBudget    func(key remote.BudgetKey)
	onListCharges  func(key remote.BudgetKey) error
	onListVendors  func() error
}

var _ remote.Store = (*fakeStore)(nil)

func newFakeStore(userID string) *fakeStore {
	f := &fakeStore{budgets: map[remote.BudgetKey]float64{}, calls: map[string]int{}}
	if userID != "" {
		f.session = &remote.Session{UserID: userID, AccessToken: "token"}
	}
	return f
}

func (f *fakeStore) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeStore) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) GetSession(ctx context.Context) (*remote.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *fakeStore) OnSessionChange(fn func(*remote.Session)) func() {
	f.mu.Lock()
	f.listener = fn
	f.mu.Unlock()
	return func() {}
}

func (f *fakeStore) SignUp(ctx context.Context, email, password string) error {
	return nil
}

func (f *fakeStore) SignInWithPassword(ctx context.Context, email, password string) (*remote.Session, error) {
	sess := &remote.Session{UserID: "user-1", Email: email, AccessToken: "token"}
	f.mu.Lock()
	f.session = sess
	fn := f.listener
	f.mu.Unlock()
	if fn != nil {
		fn(sess)
	}
	return sess, nil
}

func (f *fakeStore) SignOut(ctx context.Context) error {
	f.record("SignOut")
	f.mu.Lock()
	f.session = nil
	fn := f.listener
	f.mu.Unlock()
	if fn != nil {
		fn(nil)
	}
	return nil
}

func (f *fakeStore) ListVendors(ctx context.Context) ([]remote.Vendor, error) {
	f.record("ListVendors")
	if f.onListVendors != nil {
		if err := f.onListVendors(); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remote.Vendor{}, f.vendors...), nil
}

func (f *fakeStore) GetVendor(ctx context.Context, id string) (*remote.Vendor, error) {
	f.record("GetVendor")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.vendors {
		if v.ID == id {
			v := v
			return &v, nil
		}
	}
	return nil, &remote.Error{Status: 404, Code: "VENDOR_NOT_FOUND", Message: "Vendor not found"}
}

func (f *fakeStore) CreateVendor(ctx context.Context, name string, year int) (*remote.Vendor, error) {
	f.record("CreateVendor")
	if f.onCreateVendor != nil {
		if err := f.onCreateVendor(); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v := remote.Vendor{ID: f.nextID("vendor"), Name: name, CreatedAt: time.Now()}
	f.vendors = append(f.vendors, v)
	f.budgets[remote.BudgetKey{VendorID: v.ID, Year: year, BudgetType: "residential"}] = 0
	return &v, nil
}

func (f *fakeStore) UpdateVendorContact(ctx context.Context, id string, contactName, contactEmail *string) (*remote.Vendor, error) {
	f.record("UpdateVendorContact")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.vendors {
		if f.vendors[i].ID == id {
			f.vendors[i].ContactName = contactName
			f.vendors[i].ContactEmail = contactEmail
			v := f.vendors[i]
			return &v, nil
		}
	}
	return nil, &remote.Error{Status: 404, Code: "VENDOR_NOT_FOUND", Message: "Vendor not found"}
}

func (f *fakeStore) DeleteVendor(ctx context.Context, id string) error {
	f.record("DeleteVendor")
	if f.onDeleteVendor != nil {
		if err := f.onDeleteVendor(id); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.vendors[:0]
	for _, v := range f.vendors {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	f.vendors = kept
	return nil
}

func (f *fakeStore) GetBudget(ctx context.Context, key remote.BudgetKey) (*remote.Budget, error) {
	f.record("GetBudget")
	if f.onGetBudget != nil {
		f.onGetBudget(key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	amount, ok := f.budgets[key]
	if !ok {
		return nil, nil
	}
	return &remote.Budget{VendorID: key.VendorID, Year: key.Year, BudgetType: key.BudgetType, AnnualBudget: amount}, nil
}

func (f *fakeStore) UpsertBudget(ctx context.Context, key remote.BudgetKey, amount float64) (*remote.Budget, error) {
	f.record("UpsertBudget")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.budgets[key] = amount
	return &remote.Budget{VendorID: key.VendorID, Year: key.Year, BudgetType: key.BudgetType, AnnualBudget: amount}, nil
}

func (f *fakeStore) ListCharges(ctx context.Context, key remote.BudgetKey) ([]remote.Charge, error) {
	f.record("ListCharges")
	if f.onListCharges != nil {
		if err := f.onListCharges(key); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []remote.Charge{}
	for _, c := range f.charges {
		if c.VendorID == key.VendorID && c.Year == key.Year && c.BudgetType == key.BudgetType {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ChargeDate.Equal(out[j].ChargeDate.Time) {
			return out[i].ChargeDate.After(out[j].ChargeDate.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStore) CreateCharge(ctx context.Context, key remote.BudgetKey, input remote.ChargeInput) (*remote.Charge, error) {
	f.record("CreateCharge")
	f.mu.Lock()
	defer f.mu.Unlock()
	c := remote.Charge{
		ID:            f.nextID("charge"),
		VendorID:      key.VendorID,
		Year:          key.Year,
		BudgetType:    key.BudgetType,
		ChargeDate:    input.ChargeDate,
		Amount:        input.Amount,
		InvoiceNumber: input.InvoiceNumber,
		Notes:         input.Notes,
		CreatedAt:     time.Now().Add(time.Duration(f.seq) * time.Millisecond),
	}
	f.charges = append(f.charges, c)
	return &c, nil
}

func (f *fakeStore) DeleteCharge(ctx context.Context, id string) error {
	f.record("DeleteCharge")
	if f.onDeleteCharge != nil {
		if err := f.onDeleteCharge(id); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.charges[:0]
	for _, c := range f.charges {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.charges = kept
	return nil
}

func (f *fakeStore) addVendor(name string) remote.Vendor {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := remote.Vendor{ID: f.nextID("vendor"), Name: name, CreatedAt: time.Now()}
	f.vendors = append(f.vendors, v)
	return v
}

func always(string) bool { return true }
func never(string) bool  { return false }
