package identity

import (
	"sync"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

// workQueue 待查询 sku 队列
type workQueue struct {
	mu    sync.Mutex
	items []string
}

func newWorkQueue(ids []string) *workQueue {
	return &workQueue{items: append([]string(nil), ids...)}
}

// take 原子地取出至多 n 个
func (q *workQueue) take(n int) []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n > len(q.items) {
		n = len(q.items)
	}
	batch := q.items[:n:n]
	q.items = q.items[n:]
	return batch
}

func (q *workQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// responseQueue 各 worker 的查询结果
type responseQueue struct {
	mu      sync.Mutex
	batches [][]model.IdentityLink
}

func (q *responseQueue) put(links []model.IdentityLink) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.batches = append(q.batches, links)
}

// drain 拼接全部结果
func (q *responseQueue) drain() []model.IdentityLink {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []model.IdentityLink
	for _, b := range q.batches {
		out = append(out, b...)
	}
	q.batches = nil
	return out
}
