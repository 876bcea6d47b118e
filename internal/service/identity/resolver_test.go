package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

// fakeLookup 把 seller sku "S-n" 映射为 erp sku "E-n"
type fakeLookup struct {
	failOn    string
	panicOn   string
	inFlight  atomic.Int32
	maxFlight atomic.Int32

	mu    sync.Mutex
	sizes []int
}

func (f *fakeLookup) Query(_ context.Context, kind Kind, ids []string) ([]model.IdentityLink, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxFlight.Load()
		if n <= cur || f.maxFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	f.mu.Lock()
	f.sizes = append(f.sizes, len(ids))
	f.mu.Unlock()

	var out []model.IdentityLink
	for _, id := range ids {
		if id == f.failOn {
			return nil, errors.New("connection reset")
		}
		if id == f.panicOn {
			panic("malformed payload")
		}
		if id == "UNKNOWN" {
			continue
		}
		switch kind {
		case BySellerSKU:
			out = append(out, model.IdentityLink{SellerSKU: id, ErpSKU: "E" + id[1:], AccountName: "shop"})
		case ByErpSKU:
			out = append(out, model.IdentityLink{SellerSKU: "S" + id[1:], ErpSKU: id, AccountName: "shop"})
		}
	}
	return out, nil
}

func sellerIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("S-%05d", i)
	}
	return ids
}

func TestResolve_BatchesAndRounds(t *testing.T) {
	t.Parallel()

	lookup := &fakeLookup{}
	r := NewResolver(lookup, Options{BatchSize: 1000, Workers: 4}, zerolog.Nop())

	res := r.Resolve(context.Background(), BySellerSKU, sellerIDs(9500))
	assert.Equal(t, 9500, res.Stats.Requested)
	assert.Equal(t, 10, res.Stats.Batches)
	assert.Equal(t, 3, res.Stats.Rounds)
	assert.Equal(t, 0, res.Stats.FailedBatches)
	assert.Equal(t, 0, res.Stats.Unresolved)
	assert.LessOrEqual(t, lookup.maxFlight.Load(), int32(4))

	total := 0
	for _, s := range lookup.sizes {
		assert.LessOrEqual(t, s, 1000)
		total += s
	}
	assert.Equal(t, 9500, total)

	assert.Equal(t, "E-00042", res.Counterpart("S-00042"))
	assert.Equal(t, "E-09499", res.Get("s-09499").ErpSKU)
}

func TestResolve_BatchCountFormula(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 999, 1000, 1001, 4000, 4001} {
		r := NewResolver(&fakeLookup{}, Options{BatchSize: 1000, Workers: 4}, zerolog.Nop())
		res := r.Resolve(context.Background(), BySellerSKU, sellerIDs(n))
		batches := (n + 999) / 1000
		assert.Equal(t, batches, res.Stats.Batches, "n=%d", n)
		assert.Equal(t, (batches+3)/4, res.Stats.Rounds, "n=%d", n)
	}
}

func TestResolve_ScenarioC_FailedBatchDropped(t *testing.T) {
	t.Parallel()

	ids := sellerIDs(2500)
	lookup := &fakeLookup{failOn: ids[0]}
	r := NewResolver(lookup, Options{BatchSize: 1000, Workers: 4}, zerolog.Nop())

	var res *Resolution
	require.NotPanics(t, func() {
		res = r.Resolve(context.Background(), BySellerSKU, ids)
	})
	assert.Equal(t, 3, res.Stats.Batches)
	assert.Equal(t, 1, res.Stats.FailedBatches)
	assert.Equal(t, 1000, res.Stats.Unresolved)

	resolved := 0
	for _, id := range ids {
		if res.Counterpart(id) != "" {
			resolved++
		}
	}
	assert.Equal(t, 1500, resolved)
	assert.Equal(t, "", res.Counterpart(ids[10]))
	assert.True(t, res.Get(ids[999]).Empty())
	assert.Equal(t, "E-01000", res.Counterpart(ids[1000]))
}

func TestResolve_PanicInWorkerIsContained(t *testing.T) {
	t.Parallel()

	ids := sellerIDs(30)
	r := NewResolver(&fakeLookup{panicOn: ids[3]}, Options{BatchSize: 10, Workers: 2}, zerolog.Nop())
	res := r.Resolve(context.Background(), BySellerSKU, ids)
	assert.Equal(t, 1, res.Stats.FailedBatches)
	assert.Equal(t, 10, res.Stats.Unresolved)
	assert.Equal(t, 2, res.Stats.Rounds)
}

func TestResolve_UnknownAndDuplicates(t *testing.T) {
	t.Parallel()

	r := NewResolver(&fakeLookup{}, Options{}, zerolog.Nop())
	res := r.Resolve(context.Background(), ByErpSKU, []string{"E-1", " E-1 ", "", "UNKNOWN"})
	assert.Equal(t, 2, res.Stats.Requested)
	assert.Equal(t, 1, res.Stats.Unresolved)
	assert.Equal(t, "S-1", res.Counterpart("E-1"))
	assert.Equal(t, "", res.Counterpart("UNKNOWN"))
	assert.Equal(t, "", res.Counterpart("never-asked"))

	empty := r.Resolve(context.Background(), ByErpSKU, nil)
	assert.Equal(t, 0, empty.Stats.Rounds)
	assert.Equal(t, 0, empty.Stats.Batches)
}

type multiLookup struct{}

func (multiLookup) Query(context.Context, Kind, []string) ([]model.IdentityLink, error) {
	return []model.IdentityLink{
		{SellerSKU: "S-A1", ErpSKU: "E-A", AccountName: "shop-one"},
		{SellerSKU: "S-A2", ErpSKU: "E-A", AccountName: "shop-two"},
	}, nil
}

func TestResolution_Prefer(t *testing.T) {
	t.Parallel()

	r := NewResolver(multiLookup{}, Options{}, zerolog.Nop())
	res := r.Resolve(context.Background(), ByErpSKU, []string{"E-A"})
	assert.Equal(t, "S-A1", res.Get("E-A").SellerSKU)
	assert.Equal(t, "S-A2", res.Prefer("E-A", "SHOP-TWO").SellerSKU)
	assert.Equal(t, "S-A1", res.Prefer("E-A", "other").SellerSKU)
}

func TestResolution_NilIsBlank(t *testing.T) {
	t.Parallel()

	var res *Resolution
	assert.True(t, res.Get("x").Empty())
	assert.Equal(t, "", res.Counterpart("x"))
	assert.True(t, res.Prefer("x", "a").Empty())
}
