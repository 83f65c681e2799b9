package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoteNotFound 当日没有源日誌。这不是管道错误，
// 调用方会改用合成占位文本继续发布。
var ErrNoteNotFound = errors.New("源日誌不存在")

// NoteSource 源日誌提供者
type NoteSource interface {
	// Read 返回某天的原始 markdown 文本，缺失时返回 ErrNoteNotFound
	Read(ctx context.Context, date string) (string, error)
}

// FileNoteSource 从本地目录读取 {date}.md
type FileNoteSource struct {
	dir string
}

// NewFileNoteSource 创建文件源
func NewFileNoteSource(dir string) *FileNoteSource {
	return &FileNoteSource{dir: dir}
}

// Read 读取当日源日誌
func (s *FileNoteSource) Read(ctx context.Context, date string) (string, error) {
	path := filepath.Join(s.dir, date+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoteNotFound
		}
		return "", fmt.Errorf("读取源日誌失败: %w", err)
	}
	return string(data), nil
}
