package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

// 默认批量参数
const (
	DefaultBatchSize = 1000
	DefaultWorkers   = 4
)

// Options 批量查询参数
type Options struct {
	BatchSize int
	Workers   int
}

// Stats 一次查询的统计
type Stats struct {
	Requested     int `json:"requested"`
	Batches       int `json:"batches"`
	Rounds        int `json:"rounds"`
	FailedBatches int `json:"failedBatches"`
	Unresolved    int `json:"unresolved"`
}

// Resolver 批量 sku 对应关系查询器
//
// 每次 Resolve 使用自己的待查询队列与结果队列，多次查询之间互不影响。
// 每轮最多派发 Workers 个 worker，每个 worker 取至多 BatchSize 个 sku；
// 一轮全部结束后才派发下一轮。单批失败只记录日志，不重试。
type Resolver struct {
	lookup Lookup
	opts   Options
	logger zerolog.Logger
}

// NewResolver 创建查询器
func NewResolver(lookup Lookup, opts Options, logger zerolog.Logger) *Resolver {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Resolver{
		lookup: lookup,
		opts:   opts,
		logger: logger,
	}
}

// Resolve 查询全部 sku 的对应关系；查不到的 sku 对应为空
func (r *Resolver) Resolve(ctx context.Context, kind Kind, ids []string) *Resolution {
	distinct := Distinct(ids)
	res := &Resolution{
		kind:  kind,
		links: make(map[string][]model.IdentityLink),
		Stats: Stats{Requested: len(distinct)},
	}
	if len(distinct) == 0 {
		return res
	}

	work := newWorkQueue(distinct)
	responses := &responseQueue{}
	var batches, failed atomic.Int64

	for work.len() > 0 {
		res.Stats.Rounds++
		pending := (work.len() + r.opts.BatchSize - 1) / r.opts.BatchSize
		if pending > r.opts.Workers {
			pending = r.opts.Workers
		}

		var wg sync.WaitGroup
		for i := 0; i < pending; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.runWorker(ctx, kind, work, responses, &batches, &failed)
			}()
		}
		wg.Wait()
	}

	for _, link := range responses.drain() {
		key := linkKey(kind, link)
		if key == "" {
			continue
		}
		res.links[key] = append(res.links[key], link)
	}

	res.Stats.Batches = int(batches.Load())
	res.Stats.FailedBatches = int(failed.Load())
	for _, id := range distinct {
		if res.Get(id).Empty() {
			res.Stats.Unresolved++
		}
	}

	r.logger.Info().
		Str("kind", string(kind)).
		Int("requested", res.Stats.Requested).
		Int("batches", res.Stats.Batches).
		Int("rounds", res.Stats.Rounds).
		Int("failedBatches", res.Stats.FailedBatches).
		Int("unresolved", res.Stats.Unresolved).
		Msg("sku 对应关系查询完成")
	return res
}

func (r *Resolver) runWorker(ctx context.Context, kind Kind, work *workQueue, responses *responseQueue, batches, failed *atomic.Int64) {
	batch := work.take(r.opts.BatchSize)
	if len(batch) == 0 {
		return
	}
	batches.Add(1)

	defer func() {
		if p := recover(); p != nil {
			failed.Add(1)
			r.logger.Error().
				Str("kind", string(kind)).
				Int("size", len(batch)).
				Str("panic", fmt.Sprint(p)).
				Msg("sku 批量查询异常，本批丢弃")
		}
	}()

	links, err := r.lookup.Query(ctx, kind, batch)
	if err != nil {
		failed.Add(1)
		r.logger.Error().
			Err(err).
			Str("kind", string(kind)).
			Int("size", len(batch)).
			Str("first", batch[0]).
			Msg("sku 批量查询失败，本批丢弃")
		return
	}
	responses.put(links)
}

// Distinct 去空、去重并保持首次出现顺序
func Distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func linkKey(kind Kind, link model.IdentityLink) string {
	if kind == ByErpSKU {
		return normalizeKey(link.ErpSKU)
	}
	return normalizeKey(link.SellerSKU)
}

// sku 比较忽略大小写
func normalizeKey(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Resolution 一次批量查询的结果
type Resolution struct {
	kind  Kind
	links map[string][]model.IdentityLink
	Stats Stats
}

// Get 返回 sku 的第一条对应关系，未匹配返回空
func (r *Resolution) Get(id string) model.IdentityLink {
	if r == nil {
		return model.IdentityLink{}
	}
	links := r.links[normalizeKey(id)]
	if len(links) == 0 {
		return model.IdentityLink{}
	}
	return links[0]
}

// Prefer 同一 sku 对应多条时，优先返回属于 account 的那条
func (r *Resolution) Prefer(id, account string) model.IdentityLink {
	if r == nil {
		return model.IdentityLink{}
	}
	links := r.links[normalizeKey(id)]
	for _, l := range links {
		if account != "" && strings.EqualFold(l.AccountName, account) {
			return l
		}
	}
	if len(links) == 0 {
		return model.IdentityLink{}
	}
	return links[0]
}

// Counterpart 返回另一命名体系下的 sku，未匹配返回空字符串
func (r *Resolution) Counterpart(id string) string {
	link := r.Get(id)
	if r != nil && r.kind == ByErpSKU {
		return link.SellerSKU
	}
	return link.ErpSKU
}

