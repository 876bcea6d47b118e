package pipeline

import (
	"context"
	"strings"

	"github.com/ZhangYupengCHY/lazada/internal/model"
	"github.com/ZhangYupengCHY/lazada/internal/service/identity"
)

// FolderCheck 用首个 seller sku 的所属账号检查文件是否放错站点文件夹
type FolderCheck struct {
	Enabled bool
	// RecheckOnMismatch 不一致时再查询一次才判定
	RecheckOnMismatch bool
}

// misplaced 返回 true 表示文件属于其他账号；查询失败或查不到时不判定
func (c *Coordinator) misplaced(ctx context.Context, check FolderCheck, key model.AccountKey, records []model.AdRecord) bool {
	if !check.Enabled {
		return false
	}
	sku := firstSellerSKU(records)
	if sku == "" {
		return false
	}

	attempts := 1
	if check.RecheckOnMismatch {
		attempts = 2
	}
	for i := 0; i < attempts; i++ {
		links, err := c.lookup.Query(ctx, identity.BySellerSKU, []string{sku})
		if err != nil || len(links) == 0 {
			c.logger.Warn().Err(err).Str("station", key.String()).Str("sku", sku).Msg("文件夹检查查询失败，跳过")
			return false
		}
		if ownedBy(links, key) {
			return false
		}
	}
	return true
}

func firstSellerSKU(records []model.AdRecord) string {
	for _, r := range records {
		if s := strings.TrimSpace(r.SellerSKU); s != "" {
			return s
		}
	}
	return ""
}

// ownedBy 任一条对应关系的店铺名等于站点名或账号名
func ownedBy(links []model.IdentityLink, key model.AccountKey) bool {
	for _, l := range links {
		name := strings.TrimSpace(l.AccountName)
		if strings.EqualFold(name, key.String()) || strings.EqualFold(name, key.Account) {
			return true
		}
	}
	return false
}
