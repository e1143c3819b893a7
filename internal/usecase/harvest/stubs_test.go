package harvest_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/usecase/harvest"
)

/* ───────── モック実装 ───────── */

// stubSourceRepo はSourceRepositoryのインメモリ実装
type stubSourceRepo struct {
	mu      sync.Mutex
	data    map[int64]*entity.Source
	touched map[int64]time.Time
	getErr  error
}

func newSourceRepo(sources ...*entity.Source) *stubSourceRepo {
	r := &stubSourceRepo{data: map[int64]*entity.Source{}, touched: map[int64]time.Time{}}
	for _, s := range sources {
		r.data[s.ID] = s
	}
	return r
}

func (r *stubSourceRepo) Get(_ context.Context, id int64) (*entity.Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.data[id], nil
}

func (r *stubSourceRepo) GetByBaseURL(_ context.Context, baseURL string) (*entity.Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.data {
		if s.BaseURL == baseURL {
			return s, nil
		}
	}
	return nil, nil
}

func (r *stubSourceRepo) List(_ context.Context) ([]*entity.Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Source, 0, len(r.data))
	for _, s := range r.data {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubSourceRepo) ListWithoutPublisher(ctx context.Context) ([]*entity.Source, error) {
	all, _ := r.List(ctx)
	var out []*entity.Source
	for _, s := range all {
		if s.Publisher == "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSourceRepo) Create(_ context.Context, s *entity.Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.ID] = s
	return nil
}

func (r *stubSourceRepo) Update(_ context.Context, s *entity.Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.ID] = s
	return nil
}

func (r *stubSourceRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

func (r *stubSourceRepo) TouchHarvestedAt(_ context.Context, id int64, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched[id] = t
	return nil
}

func (r *stubSourceRepo) FillPublisher(_ context.Context, id int64, publisher string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[id]
	if !ok || s.Publisher != "" {
		return false, nil
	}
	s.Publisher = publisher
	return true, nil
}

func (r *stubSourceRepo) touchedAt(id int64) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.touched[id]
	return t, ok
}

// stubRecordRepo はRecordRepositoryのインメモリ実装
type stubRecordRepo struct {
	mu        sync.Mutex
	byID      map[string]*entity.Record
	nextID    int64
	upsertErr error
}

func newRecordRepo() *stubRecordRepo {
	return &stubRecordRepo{byID: map[string]*entity.Record{}, nextID: 1}
}

func (r *stubRecordRepo) Upsert(_ context.Context, rec *entity.Record) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return false, r.upsertErr
	}
	if old, ok := r.byID[rec.Identifier]; ok {
		rec.ID = old.ID
		cp := *rec
		r.byID[rec.Identifier] = &cp
		return false, nil
	}
	rec.ID = r.nextID
	r.nextID++
	cp := *rec
	r.byID[rec.Identifier] = &cp
	return true, nil
}

func (r *stubRecordRepo) GetByIdentifier(_ context.Context, identifier string) (*entity.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[identifier], nil
}

func (r *stubRecordRepo) ListBySource(_ context.Context, sourceID int64) ([]*entity.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Record
	for _, rec := range r.byID {
		if rec.SourceID == sourceID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRecordRepo) CountBySource(ctx context.Context, sourceID int64) (int64, error) {
	list, err := r.ListBySource(ctx, sourceID)
	return int64(len(list)), err
}

func (r *stubRecordRepo) FirstPublisher(ctx context.Context, sourceID int64, placeholder string) (string, error) {
	list, _ := r.ListBySource(ctx, sourceID)
	for _, rec := range list {
		if rec.Publisher != "" && rec.Publisher != placeholder {
			return rec.Publisher, nil
		}
	}
	return "", nil
}

// stubFetcher はトークンごとにページを返すPageFetcher
type stubFetcher struct {
	mu       sync.Mutex
	pages    map[string]*harvest.Page // key: resumption token ("" = 最初のページ)
	errs     map[string]error
	requests []fetchCall
	block    bool // trueならctxが終わるまで待つ
}

type fetchCall struct {
	BaseURL string
	Prefix  string
	Token   string
}

func (f *stubFetcher) ListRecords(ctx context.Context, baseURL, prefix, token string) (*harvest.Page, error) {
	f.mu.Lock()
	f.requests = append(f.requests, fetchCall{BaseURL: baseURL, Prefix: prefix, Token: token})
	page, err := f.pages[token], f.errs[token]
	block := f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if page == nil {
		return &harvest.Page{}, nil
	}
	cp := *page
	return &cp, nil
}

func (f *stubFetcher) calls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.requests...)
}

// gateFetcher はreleaseが閉じられるまで応答を保留し、同時実行数を記録する
type gateFetcher struct {
	release chan struct{}
	started chan struct{}

	mu     sync.Mutex
	active int32
	peak   int32
	n      int
}

func (g *gateFetcher) ListRecords(_ context.Context, _, _, _ string) (*harvest.Page, error) {
	g.mu.Lock()
	g.active++
	if g.active > g.peak {
		g.peak = g.active
	}
	g.n++
	g.mu.Unlock()

	g.started <- struct{}{}
	<-g.release

	g.mu.Lock()
	g.active--
	g.mu.Unlock()
	return &harvest.Page{}, nil
}

func (g *gateFetcher) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

func (g *gateFetcher) maxConcurrent() int32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.peak
}
