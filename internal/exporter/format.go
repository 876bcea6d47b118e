package exporter

import (
	"strconv"
	"strings"
	"time"

	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

// FormatShare 占比展示：无效为 "0%"，否则最短小数形式（至少一位小数）加 "%"
func FormatShare(s model.Share) string {
	if !s.Valid {
		return "0%"
	}
	v := strconv.FormatFloat(s.Value, 'f', -1, 64)
	if !strings.Contains(v, ".") {
		v += ".0"
	}
	return v + "%"
}

// FormatDate 报表日期 yyyymmdd
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("20060102")
}

var countries = gountries.New()

// CountryName 站点英文国家名，查不到时返回大写站点代码
func CountryName(site model.Site) string {
	c, err := countries.FindCountryByAlpha(string(site))
	if err != nil {
		return cases.Upper(language.AmericanEnglish).String(string(site))
	}
	return c.Name.Common
}

// displayWidth 按东亚宽字符占 2 列计算显示宽度
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
