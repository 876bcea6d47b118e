package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Site 站点国家简称
type Site string

const (
	SiteID Site = "ID"
	SiteMY Site = "MY"
	SitePH Site = "PH"
	SiteSG Site = "SG"
	SiteTH Site = "TH"
	SiteVN Site = "VN"
)

// ErrInvalidSite 账号名中的站点不是支持的国家
var ErrInvalidSite = errors.New("invalid site code")

// siteNamesZH 站点中文名
var siteNamesZH = map[Site]string{
	SiteID: "印度尼西亚",
	SiteMY: "马来西亚",
	SitePH: "菲律宾",
	SiteSG: "新加坡",
	SiteTH: "泰国",
	SiteVN: "越南",
}

// siteCurrencies 站点本币代码
var siteCurrencies = map[Site]string{
	SiteID: "IDR",
	SiteMY: "MYR",
	SitePH: "PHP",
	SiteSG: "SGD",
	SiteTH: "THB",
	SiteVN: "VND",
}

// Sites 返回全部支持站点（按字母序）
func Sites() []Site {
	out := make([]Site, 0, len(siteNamesZH))
	for s := range siteNamesZH {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Valid 是否为支持的站点
func (s Site) Valid() bool {
	_, ok := siteNamesZH[s]
	return ok
}

// NameZH 站点中文名
func (s Site) NameZH() string {
	return siteNamesZH[s]
}

// Currency 站点本币代码
func (s Site) Currency() string {
	return siteCurrencies[s]
}

// AccountKey 账号站点
type AccountKey struct {
	Account string `json:"account"`
	Site    Site   `json:"site"`
}

// String 还原为 "ACCOUNT-SITE" 形式
func (k AccountKey) String() string {
	return k.Account + "-" + string(k.Site)
}

// ParseAccountKey 从站点名拆出账号与站点
// 站点名形如 "ABC-ID"：去掉末尾 3 个字符为账号，末尾 2 个字符为站点
func ParseAccountKey(station string) (AccountKey, error) {
	name := strings.ToUpper(strings.TrimSpace(station))
	if len(name) < 3 {
		return AccountKey{}, fmt.Errorf("%s: %w", station, ErrInvalidSite)
	}
	site := Site(name[len(name)-2:])
	if !site.Valid() {
		return AccountKey{}, fmt.Errorf("%s 中 %s 不是有效国家名: %w", station, site, ErrInvalidSite)
	}
	return AccountKey{
		Account: name[:len(name)-3],
		Site:    site,
	}, nil
}
