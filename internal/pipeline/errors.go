package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingSideFile 输入文件夹旁缺少账号对应表或店铺销量
var ErrMissingSideFile = errors.New("missing side file")

// AnomalyError 需要人工修正的站点（批量汇总）
type AnomalyError struct {
	MultipleFiles []string `json:"multipleFiles"`
	BadHeader     []string `json:"badHeader"`
	WrongFolder   []string `json:"wrongFolder"`
}

// Empty 没有任何异常
func (e *AnomalyError) Empty() bool {
	return e == nil || len(e.MultipleFiles) == 0 && len(e.BadHeader) == 0 && len(e.WrongFolder) == 0
}

func (e *AnomalyError) Error() string {
	var parts []string
	if len(e.MultipleFiles) > 0 {
		parts = append(parts, fmt.Sprintf("重复文件: %s", strings.Join(e.MultipleFiles, ", ")))
	}
	if len(e.BadHeader) > 0 {
		parts = append(parts, fmt.Sprintf("表头内容有问题: %s", strings.Join(e.BadHeader, ", ")))
	}
	if len(e.WrongFolder) > 0 {
		parts = append(parts, fmt.Sprintf("文件放错文件夹: %s", strings.Join(e.WrongFolder, ", ")))
	}
	return strings.Join(parts, "; ") + "，请修改后重新运行"
}
