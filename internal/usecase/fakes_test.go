package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"shop-api/internal/data/entity"
	"shop-api/internal/data/repository"
	"shop-api/pkg/mailer"
	"shop-api/pkg/search"
	"shop-api/pkg/token"
	"shop-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// In-memory stand-ins for the repository interfaces.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) find(match func(*entity.User) bool) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.Username == username }), nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) Activate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = true
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
}

func (f *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.TokenID] = &cp
	return nil
}

func (f *fakeSessionRepo) FindValid(_ context.Context, tokenID uuid.UUID) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[tokenID]
	if !ok || s.RevokedAt != nil || s.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, tokenID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[tokenID]; ok {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, s := range f.sessions {
		if s.UserID == userID {
			s.RevokedAt = &now
		}
	}
	return nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens []*entity.UserToken
}

func (f *fakeTokenRepo) Create(_ context.Context, t *entity.UserToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, existing := range f.tokens {
		if existing.UserID == t.UserID && existing.Purpose == t.Purpose && existing.UsedAt == nil {
			existing.UsedAt = &now
		}
	}
	cp := *t
	f.tokens = append(f.tokens, &cp)
	return nil
}

func (f *fakeTokenRepo) FindValid(_ context.Context, email, value string, purpose entity.TokenPurpose) (*entity.UserToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.Email == email && t.Token == value && t.Purpose == purpose && t.UsedAt == nil && t.ExpiresAt.After(time.Now()) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTokenRepo) MarkAsUsed(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.ID == id {
			now := time.Now()
			t.UsedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepo) RecordFailure(_ context.Context, userID uuid.UUID, purpose entity.TokenPurpose, maxAttempts int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.UserID == userID && t.Purpose == purpose && t.UsedAt == nil {
			t.Attempts++
			if t.Attempts >= maxAttempts {
				now := time.Now()
				t.UsedAt = &now
			}
		}
	}
	return nil
}

type listCall struct {
	filter repository.ProductFilter
	mode   repository.SearchMode
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
	views    map[uuid.UUID]int
	calls    []listCall
	// results per mode; a missing mode returns nothing
	results map[repository.SearchMode][]*entity.Product
}

func (f *fakeProductRepo) add(p *entity.Product) *entity.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	return p
}

func (f *fakeProductRepo) List(_ context.Context, filter repository.ProductFilter, mode repository.SearchMode) ([]*entity.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, listCall{filter: filter, mode: mode})
	rows := f.results[mode]
	return rows, int64(len(rows)), nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) FindBySlug(_ context.Context, slug string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == slug && p.DeletedAt == nil {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) FindSimilar(_ context.Context, product *entity.Product, limit int) ([]*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Product
	for _, p := range f.products {
		if p.Category == product.Category && p.ID != product.ID && p.DeletedAt == nil && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Categories(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range f.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeProductRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[id]++
	return nil
}

func (f *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	f.add(p)
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	return nil
}

// fakeCartRepo mirrors the SQL semantics: one cart per user and one line per product.
type fakeCartRepo struct {
	mu       sync.Mutex
	products *fakeProductRepo
	carts    map[uuid.UUID]uuid.UUID // user -> cart
	owners   map[uuid.UUID]uuid.UUID // cart -> user
	items    map[uuid.UUID][]*entity.CartItem
}

func (f *fakeCartRepo) GetOrCreate(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.carts[userID]; ok {
		return id, nil
	}
	id := uuid.New()
	f.carts[userID] = id
	f.owners[id] = userID
	return id, nil
}

func (f *fakeCartRepo) UpsertItem(_ context.Context, cartID uuid.UUID, p *entity.Product, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items[cartID] {
		if item.ProductID == p.ID {
			item.Quantity += qty
			return nil
		}
	}
	f.items[cartID] = append(f.items[cartID], &entity.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
		AddedAt:   time.Now(),
	})
	return nil
}

func (f *fakeCartRepo) UpdateItemQuantity(_ context.Context, cartID, itemID uuid.UUID, qty int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items[cartID] {
		if item.ID == itemID {
			item.Quantity = qty
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCartRepo) DeleteItem(_ context.Context, cartID, itemID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.items[cartID]
	for i, item := range items {
		if item.ID == itemID {
			f.items[cartID] = append(items[:i], items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCartRepo) Clear(_ context.Context, cartID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[cartID] = nil
	return nil
}

func (f *fakeCartRepo) View(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error) {
	f.mu.Lock()
	owner, ok := f.owners[cartID]
	var items []entity.CartItem
	for _, item := range f.items[cartID] {
		items = append(items, *item)
	}
	f.mu.Unlock()

	if !ok {
		return nil, nil
	}
	for i := range items {
		if p, _ := f.products.FindByID(ctx, items[i].ProductID); p != nil {
			items[i].ProductSlug = p.Slug
			items[i].InStock = p.InStock
			items[i].CurrentPrice = p.Price
		}
	}

	cart := &entity.Cart{UserID: owner, Items: items}
	cart.ID = cartID
	return cart, nil
}

type fakeFavoriteRepo struct {
	mu   sync.Mutex
	favs map[[2]uuid.UUID]time.Time
}

func (f *fakeFavoriteRepo) Add(_ context.Context, fav *entity.Favorite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uuid.UUID{fav.UserID, fav.ProductID}
	if _, ok := f.favs[key]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: "favorites_pkey"}
	}
	f.favs[key] = fav.CreatedAt
	return nil
}

func (f *fakeFavoriteRepo) Remove(_ context.Context, userID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.favs, [2]uuid.UUID{userID, productID})
	return nil
}

func (f *fakeFavoriteRepo) ListProducts(_ context.Context, userID uuid.UUID, _, _ int) ([]*entity.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Product
	for key := range f.favs {
		if key[0] == userID {
			p := &entity.Product{}
			p.ID = key[1]
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*entity.Comment
	counts   map[uuid.UUID]int
}

func (f *fakeCommentRepo) Create(_ context.Context, c *entity.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.comments[c.ID] = &cp
	f.counts[c.ProductID]++
	return nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, c *entity.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[c.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.comments, c.ID)
	if f.counts[c.ProductID] > 0 {
		f.counts[c.ProductID]--
	}
	return nil
}

func (f *fakeCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCommentRepo) ListByProduct(_ context.Context, productID uuid.UUID, _, _ int) ([]*entity.Comment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Comment
	for _, c := range f.comments {
		if c.ProductID == productID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

type fakeRecentlyViewedRepo struct {
	mu     sync.Mutex
	viewed map[uuid.UUID][]uuid.UUID
}

func (f *fakeRecentlyViewedRepo) Touch(_ context.Context, userID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.viewed[userID]
	for i, id := range list {
		if id == productID {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	f.viewed[userID] = append([]uuid.UUID{productID}, list...)
	return nil
}

func (f *fakeRecentlyViewedRepo) List(_ context.Context, userID uuid.UUID, limit int) ([]*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Product
	for _, id := range f.viewed[userID] {
		if len(out) == limit {
			break
		}
		p := &entity.Product{}
		p.ID = id
		out = append(out, p)
	}
	return out, nil
}

type fakePropertyRepo struct {
	mu         sync.Mutex
	properties map[uuid.UUID]*entity.Property
	filters    []repository.PropertyFilter
}

func (f *fakePropertyRepo) List(_ context.Context, filter repository.PropertyFilter) ([]*entity.Property, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	var out []*entity.Property
	for _, p := range f.properties {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePropertyRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.properties[id]; ok {
		cp := *p
		cp.Media = append([]entity.Media(nil), p.Media...)
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePropertyRepo) Create(_ context.Context, p *entity.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.properties[p.ID] = &cp
	return nil
}

func (f *fakePropertyRepo) AddMedia(_ context.Context, id uuid.UUID, media []entity.Media) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.properties[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Media = append(p.Media, media...)
	return nil
}

func (f *fakePropertyRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.properties {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (f *fakePublisher) Publish(_ context.Context, job mailer.EmailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakePublisher) Close() {}

type fakeIndex struct {
	hits []uuid.UUID
	// total defaults to len(hits)
	total   int64
	err     error
	queries []search.Query
	indexed []search.ProductDocument
}

func (f *fakeIndex) EnsureIndex(context.Context) error { return nil }

func (f *fakeIndex) Index(_ context.Context, doc search.ProductDocument) error {
	f.indexed = append(f.indexed, doc)
	return nil
}

func (f *fakeIndex) Bulk(_ context.Context, docs []search.ProductDocument) error {
	f.indexed = append(f.indexed, docs...)
	return nil
}

func (f *fakeIndex) Delete(context.Context, uuid.UUID) error { return nil }

func (f *fakeIndex) Search(_ context.Context, q search.Query) (*search.Result, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	total := f.total
	if total == 0 {
		total = int64(len(f.hits))
	}
	return &search.Result{IDs: f.hits, Total: total}, nil
}

type testEnv struct {
	repo      *repository.Repository
	users     *fakeUserRepo
	sessions  *fakeSessionRepo
	tokens    *fakeTokenRepo
	products  *fakeProductRepo
	carts     *fakeCartRepo
	favorites *fakeFavoriteRepo
	comments  *fakeCommentRepo
	viewed    *fakeRecentlyViewedRepo
	props     *fakePropertyRepo
	mail      *fakePublisher
	deps      Deps
	config    *utils.Config
	log       *zap.Logger
}

func newTestEnv() *testEnv {
	products := &fakeProductRepo{
		products: map[uuid.UUID]*entity.Product{},
		views:    map[uuid.UUID]int{},
		results:  map[repository.SearchMode][]*entity.Product{},
	}
	env := &testEnv{
		users:     &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		sessions:  &fakeSessionRepo{sessions: map[uuid.UUID]*entity.Session{}},
		tokens:    &fakeTokenRepo{},
		products:  products,
		carts:     &fakeCartRepo{products: products, carts: map[uuid.UUID]uuid.UUID{}, owners: map[uuid.UUID]uuid.UUID{}, items: map[uuid.UUID][]*entity.CartItem{}},
		favorites: &fakeFavoriteRepo{favs: map[[2]uuid.UUID]time.Time{}},
		comments:  &fakeCommentRepo{comments: map[uuid.UUID]*entity.Comment{}, counts: map[uuid.UUID]int{}},
		viewed:    &fakeRecentlyViewedRepo{viewed: map[uuid.UUID][]uuid.UUID{}},
		props:     &fakePropertyRepo{properties: map[uuid.UUID]*entity.Property{}},
		mail:      &fakePublisher{},
		config:    &utils.Config{App: utils.AppConfig{Debug: true}},
		log:       zap.NewNop(),
	}
	env.repo = &repository.Repository{
		User:           env.users,
		Session:        env.sessions,
		UserToken:      env.tokens,
		Product:        env.products,
		Cart:           env.carts,
		Favorite:       env.favorites,
		Comment:        env.comments,
		RecentlyViewed: env.viewed,
		Property:       env.props,
	}
	env.deps = Deps{
		Tokens: token.NewManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour),
		Mailer: env.mail,
	}
	return env
}

func newProduct(name string, price float64) *entity.Product {
	now := time.Now()
	p := &entity.Product{
		Name:     name,
		Slug:     name,
		Category: "General",
		Price:    price,
		InStock:  true,
	}
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p
}

func ptr[T any](v T) *T { return &v }
