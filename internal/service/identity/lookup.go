// Package identity 通过外部接口批量查询 seller sku 与 erp sku 的对应关系
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

// Kind 查询的 sku 类型
type Kind string

const (
	// BySellerSKU 用 seller sku 查 erp sku
	BySellerSKU Kind = "seller_sku"
	// ByErpSKU 用 erp sku 查 seller sku
	ByErpSKU Kind = "sku"
)

// QueryFailedMessage 接口对整批无结果时返回的 message
const QueryFailedMessage = "查询失败"

// Lookup 外部 sku 对应关系查询
type Lookup interface {
	Query(ctx context.Context, kind Kind, ids []string) ([]model.IdentityLink, error)
}

// HTTPLookup 基于 HTTP GET 的查询实现
type HTTPLookup struct {
	endpoint string
	client   *http.Client
}

// NewHTTPLookup 创建查询客户端；timeout 为 0 时不设超时
func NewHTTPLookup(endpoint string, timeout time.Duration) *HTTPLookup {
	return &HTTPLookup{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Message string               `json:"message"`
	Content []model.IdentityLink `json:"content"`
}

// Query 查询一批 sku（逗号连接）
func (l *HTTPLookup) Query(ctx context.Context, kind Kind, ids []string) ([]model.IdentityLink, error) {
	if kind != BySellerSKU && kind != ByErpSKU {
		return nil, fmt.Errorf("未知的 sku 类型: %s", kind)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	u, err := url.Parse(l.endpoint)
	if err != nil {
		return nil, fmt.Errorf("查询地址无效: %w", err)
	}
	q := u.Query()
	q.Set(string(kind), strings.Join(ids, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 %s 失败: %w", l.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s status code is %d", l.endpoint, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("解析查询结果失败: %w", err)
	}
	if body.Message == QueryFailedMessage {
		return nil, nil
	}
	for i := range body.Content {
		body.Content[i].SellerSKU = strings.TrimSpace(body.Content[i].SellerSKU)
		body.Content[i].ErpSKU = strings.TrimSpace(body.Content[i].ErpSKU)
		body.Content[i].AccountName = strings.TrimSpace(body.Content[i].AccountName)
	}
	return body.Content, nil
}
