package memory

import (
	"context"
	"sync"

	"finboard/internal/core"
	"finboard/internal/store"
)

// Store is an in-memory backend guarded by a mutex. It exists as one
// interchangeable implementation behind the store ports and doubles as
// the test fixture for the service and HTTP layers.
type Store struct {
	mu sync.Mutex

	users        map[int64]core.User
	categories   map[int64]core.Category
	transactions map[int64]core.Transaction

	nextUserID        int64
	nextCategoryID    int64
	nextTransactionID int64
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	s := &Store{
		users:             make(map[int64]core.User),
		categories:        make(map[int64]core.Category),
		transactions:      make(map[int64]core.Transaction),
		nextUserID:        1,
		nextCategoryID:    1,
		nextTransactionID: 1,
	}
	s.seedDefaultCategories()
	return s
}

func (s *Store) seedDefaultCategories() {
	defaults := []core.Category{
		{Name: "Housing", Icon: "home", Type: core.Expense},
		{Name: "Food", Icon: "shopping-basket", Type: core.Expense},
		{Name: "Transportation", Icon: "car", Type: core.Expense},
		{Name: "Utilities", Icon: "flash", Type: core.Expense},
		{Name: "Entertainment", Icon: "film", Type: core.Expense},
		{Name: "Healthcare", Icon: "heart-pulse", Type: core.Expense},
		{Name: "Personal", Icon: "user", Type: core.Expense},
		{Name: "Debt Payments", Icon: "credit-card", Type: core.Expense},
		{Name: "Savings", Icon: "piggy-bank", Type: core.Expense},
		{Name: "Other Expenses", Icon: "more-horizontal", Type: core.Expense},
		{Name: "Salary", Icon: "briefcase", Type: core.Income},
		{Name: "Freelance", Icon: "laptop", Type: core.Income},
		{Name: "Investment", Icon: "trending-up", Type: core.Income},
		{Name: "Gifts", Icon: "gift", Type: core.Income},
		{Name: "Other Income", Icon: "plus-circle", Type: core.Income},
	}
	for _, c := range defaults {
		c.ID = s.nextCategoryID
		s.nextCategoryID++
		s.categories[c.ID] = c
	}
}

func (s *Store) ListTransactions(_ context.Context, userID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextTransactionID
	s.nextTransactionID++
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id int64, upd store.TransactionUpdate) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	updated := upd.Apply(t)
	if err := updated.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.transactions[id] = updated
	return updated, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.categories))
	for id := int64(1); id < s.nextCategoryID; id++ {
		if c, ok := s.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) ListCategoriesByType(ctx context.Context, t core.TransactionType) ([]core.Category, error) {
	all, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Category, 0, len(all))
	for _, c := range all {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return core.User{}, store.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return core.User{}, store.ErrUsernameTaken
		}
	}
	u.ID = s.nextUserID
	s.nextUserID++
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) Close() error {
	return nil
}
