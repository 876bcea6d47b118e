// Package scan 遍历输入目录，找出各站点的数据文件
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInvalidRoot 输入路径不存在或不是目录
var ErrInvalidRoot = errors.New("invalid root folder")

// Station 一个站点文件夹及其唯一的数据文件
type Station struct {
	Name string `json:"name"`
	Dir  string `json:"dir"`
	File string `json:"file"`
}

// Result 扫描结果
type Result struct {
	Stations []Station `json:"stations"`
	// NoFile 文件夹为空的站点（不阻断处理）
	NoFile []string `json:"noFile"`
	// MultipleFiles 放了多个文件的站点
	MultipleFiles []string `json:"multipleFiles"`
}

// Scan 找出 root 下全部叶子目录，每个叶子目录是一个站点
// root 本身不算站点；以 "." 开头的文件与 "~$" 临时文件忽略
func Scan(root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", root, ErrInvalidRoot)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s 不是文件夹: %w", root, ErrInvalidRoot)
	}

	var leaves []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		leaf, err := isLeaf(path)
		if err != nil {
			return err
		}
		if leaf {
			leaves = append(leaves, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("遍历 %s 失败: %w", root, err)
	}
	sort.Strings(leaves)

	res := &Result{}
	for _, dir := range leaves {
		files, err := dataFiles(dir)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(dir)
		switch len(files) {
		case 0:
			res.NoFile = append(res.NoFile, name)
		case 1:
			res.Stations = append(res.Stations, Station{Name: name, Dir: dir, File: files[0]})
		default:
			res.MultipleFiles = append(res.MultipleFiles, name)
		}
	}
	return res, nil
}

func isLeaf(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			return false, nil
		}
	}
	return true, nil
}

func dataFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}
