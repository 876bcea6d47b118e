// Package accountmap 广告账号与店铺账号的对应关系
package accountmap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ZhangYupengCHY/lazada/internal/model"
	"github.com/ZhangYupengCHY/lazada/internal/parser"
	"github.com/ZhangYupengCHY/lazada/internal/service/station"
)

const (
	colAdAccount   = "ad_account"
	colShopAccount = "shop_account"
)

// ErrEmpty 对应表没有可用的数据
var ErrEmpty = errors.New("account map is empty")

var mapper = parser.NewFieldMapper([]parser.ColumnAlias{
	{Canonical: colAdAccount, Alternates: []string{"广告账号", "广告站点", "ad account"}},
	{Canonical: colShopAccount, Alternates: []string{"店铺账号", "店铺", "shop account"}},
})

// Map 广告账号 -> 店铺账号（key 统一大写）
type Map struct {
	entries map[string]string
}

// Load 读取对应表（首个工作表，首行为表头）
func Load(path string) (*Map, error) {
	tbl, err := parser.ReadFile(path, 0)
	if err != nil {
		return nil, fmt.Errorf("读取账号对应表失败: %w", err)
	}
	return FromTable(tbl)
}

// FromTable 识别 "广告账号"/"店铺账号" 列，识别不到时取前两列
func FromTable(tbl *parser.Table) (*Map, error) {
	if tbl.Empty() || len(tbl.Headers) < 2 {
		return nil, ErrEmpty
	}
	tbl.StripSpace()

	adCol, shopCol := 0, 1
	cols, _ := mapper.Map(tbl.Headers)
	ad, okAd := cols[colAdAccount]
	shop, okShop := cols[colShopAccount]
	if okAd && okShop {
		adCol, shopCol = ad, shop
	}

	m := &Map{entries: make(map[string]string, len(tbl.Rows))}
	for i := range tbl.Rows {
		from := strings.ToUpper(tbl.Cell(i, adCol))
		to := tbl.Cell(i, shopCol)
		if from == "" || to == "" {
			continue
		}
		if _, ok := m.entries[from]; !ok {
			m.entries[from] = to
		}
	}
	if len(m.entries) == 0 {
		return nil, ErrEmpty
	}
	return m, nil
}

// Len 对应关系条数
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Resolve 先按完整站点名 "ACCOUNT-SITE" 查找，再按账号查找
func (m *Map) Resolve(key model.AccountKey) (string, bool) {
	if m == nil {
		return "", false
	}
	if to, ok := m.entries[strings.ToUpper(key.String())]; ok {
		return to, true
	}
	to, ok := m.entries[strings.ToUpper(key.Account)]
	return to, ok
}

// Apply 把汇总结果中的广告账号替换为店铺账号
// 找不到对应关系的账号保持原名，返回这些站点名（去重排序）
func (m *Map) Apply(u *station.Union) []string {
	missing := make(map[string]struct{})
	rename := func(account string, site model.Site) string {
		key := model.AccountKey{Account: account, Site: site}
		if to, ok := m.Resolve(key); ok {
			return to
		}
		missing[key.String()] = struct{}{}
		return account
	}

	for i := range u.StationLevel {
		u.StationLevel[i].Account = rename(u.StationLevel[i].Account, u.StationLevel[i].Site)
	}
	for i := range u.OrderedSKU {
		u.OrderedSKU[i].Account = rename(u.OrderedSKU[i].Account, u.OrderedSKU[i].Site)
	}
	for i := range u.UnorderedSKU {
		u.UnorderedSKU[i].Account = rename(u.UnorderedSKU[i].Account, u.UnorderedSKU[i].Site)
	}

	out := make([]string, 0, len(missing))
	for k := range missing {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
