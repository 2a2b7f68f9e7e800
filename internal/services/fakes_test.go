package services

import (
	"context"
	"sync"
	"time"

	"supplymatch_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. They reproduce the storage semantics the
// services rely on: compare-and-set status updates and upsert-by-pair for
// matches, guarded by a mutex so concurrency tests are meaningful.

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*models.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*models.Request)}
}

func (r *fakeRequestRepo) Create(ctx context.Context, request *models.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	stored := *request
	r.requests[request.ID] = &stored
	return nil
}

func (r *fakeRequestRepo) FindByID(ctx context.Context, id string) (*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	row := *request
	return &row, nil
}

func (r *fakeRequestRepo) FindByOwner(ctx context.Context, userID string) ([]models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Request
	for _, request := range r.requests {
		if request.CreatedBy == userID {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) FindByStatus(ctx context.Context, status models.ModerationStatus) ([]models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Request
	for _, request := range r.requests {
		if request.Status == status {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) UpdateStatus(ctx context.Context, id string, from, to models.ModerationStatus, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok || request.Status != from {
		return false, nil
	}
	request.Status = to
	request.RejectionReason = reason
	return true, nil
}

type fakeSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[string]*models.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[string]*models.Supplier)}
}

func (r *fakeSupplierRepo) Create(ctx context.Context, supplier *models.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if supplier.ID == "" {
		supplier.ID = uuid.NewString()
	}
	stored := *supplier
	r.suppliers[supplier.ID] = &stored
	return nil
}

func (r *fakeSupplierRepo) FindByID(ctx context.Context, id string) (*models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	row := *supplier
	return &row, nil
}

func (r *fakeSupplierRepo) FindByOwner(ctx context.Context, userID string) ([]models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Supplier
	for _, supplier := range r.suppliers {
		if supplier.CreatedBy == userID {
			out = append(out, *supplier)
		}
	}
	return out, nil
}

func (r *fakeSupplierRepo) FindByStatus(ctx context.Context, status models.ModerationStatus) ([]models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Supplier
	for _, supplier := range r.suppliers {
		if supplier.Status == status {
			out = append(out, *supplier)
		}
	}
	return out, nil
}

func (r *fakeSupplierRepo) FindApprovedByCategory(ctx context.Context, categoryID string) ([]models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Supplier
	for _, supplier := range r.suppliers {
		if supplier.CategoryID == categoryID && supplier.Status == models.StatusApproved {
			out = append(out, *supplier)
		}
	}
	return out, nil
}

func (r *fakeSupplierRepo) UpdateStatus(ctx context.Context, id string, from, to models.ModerationStatus, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	supplier, ok := r.suppliers[id]
	if !ok || supplier.Status != from {
		return false, nil
	}
	supplier.Status = to
	supplier.RejectionReason = reason
	return true, nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.Match
	byPair  map[string]string // requestID+supplierID -> match id
	parents struct {
		requests  *fakeRequestRepo
		suppliers *fakeSupplierRepo
	}
}

func newFakeMatchRepo(requests *fakeRequestRepo, suppliers *fakeSupplierRepo) *fakeMatchRepo {
	r := &fakeMatchRepo{
		byID:   make(map[string]*models.Match),
		byPair: make(map[string]string),
	}
	r.parents.requests = requests
	r.parents.suppliers = suppliers
	return r
}

func pairKey(requestID, supplierID string) string {
	return requestID + "/" + supplierID
}

func (r *fakeMatchRepo) Upsert(ctx context.Context, requestID, supplierID string) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byPair[pairKey(requestID, supplierID)]; ok {
		row := *r.byID[id]
		return &row, nil
	}
	match := &models.Match{
		RequestID:  requestID,
		SupplierID: supplierID,
		Status:     models.MatchStatusPending,
	}
	match.ID = uuid.NewString()
	r.byID[match.ID] = match
	r.byPair[pairKey(requestID, supplierID)] = match.ID
	row := *match
	return &row, nil
}

// FindByID returns the match with Request and Supplier joined in, mirroring
// the preloads the real repository does.
func (r *fakeMatchRepo) FindByID(ctx context.Context, id string) (*models.Match, error) {
	r.mu.Lock()
	match, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	row := *match
	r.mu.Unlock()

	if r.parents.requests != nil {
		if request, err := r.parents.requests.FindByID(ctx, row.RequestID); err == nil {
			row.Request = request
		}
	}
	if r.parents.suppliers != nil {
		if supplier, err := r.parents.suppliers.FindByID(ctx, row.SupplierID); err == nil {
			row.Supplier = supplier
		}
	}
	return &row, nil
}

func (r *fakeMatchRepo) UpdateStatus(ctx context.Context, id string, from, to models.MatchStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.byID[id]
	if !ok || match.Status != from {
		return false, nil
	}
	match.Status = to
	return true, nil
}

func (r *fakeMatchRepo) MarkNotified(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.byID[id]
	if !ok || match.NotifiedAt != nil {
		return nil
	}
	stamp := at
	match.NotifiedAt = &stamp
	return nil
}

func (r *fakeMatchRepo) ListForRequest(ctx context.Context, requestID string) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Match
	for _, match := range r.byID {
		if match.RequestID == requestID {
			out = append(out, *match)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListForSupplier(ctx context.Context, supplierID string) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Match
	for _, match := range r.byID {
		if match.SupplierID == supplierID {
			out = append(out, *match)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListForOwner(ctx context.Context, userID string) ([]models.Match, error) {
	suppliers, _ := r.parents.suppliers.FindByOwner(ctx, userID)
	owned := make(map[string]struct{}, len(suppliers))
	for _, s := range suppliers {
		owned[s.ID] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Match
	for _, match := range r.byID {
		if _, ok := owned[match.SupplierID]; ok {
			out = append(out, *match)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) FindUnnotifiedPending(ctx context.Context, olderThan time.Time) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Match
	for _, match := range r.byID {
		if match.Status == models.MatchStatusPending && match.NotifiedAt == nil && match.CreatedAt.Before(olderThan) {
			out = append(out, *match)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*models.Category
}

func newFakeCategoryRepo(names ...string) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: make(map[string]*models.Category)}
	for _, name := range names {
		category := &models.Category{Name: name}
		category.ID = uuid.NewString()
		r.categories[category.ID] = category
	}
	return r
}

func (r *fakeCategoryRepo) idOf(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, category := range r.categories {
		if category.Name == name {
			return id
		}
	}
	return ""
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Category
	for _, category := range r.categories {
		out = append(out, *category)
	}
	return out, nil
}

func (r *fakeCategoryRepo) FindByID(ctx context.Context, id string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	row := *category
	return &row, nil
}

func (r *fakeCategoryRepo) Seed(ctx context.Context, names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		exists := false
		for _, category := range r.categories {
			if category.Name == name {
				exists = true
				break
			}
		}
		if !exists {
			category := &models.Category{Name: name}
			category.ID = uuid.NewString()
			r.categories[category.ID] = category
		}
	}
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	row := *user
	return &row, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			row := *user
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// fakeNotifier records what the lifecycle hands to the queue.
type fakeNotifier struct {
	mu       sync.Mutex
	enqueued [][]models.Match
}

func (n *fakeNotifier) Enqueue(matches []models.Match, request *models.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enqueued = append(n.enqueued, matches)
}

func (n *fakeNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.enqueued)
}

func (n *fakeNotifier) lastBatch() []models.Match {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.enqueued) == 0 {
		return nil
	}
	return n.enqueued[len(n.enqueued)-1]
}
