package utils

import (
	"fmt"
	"io"
	"os"
)

// FileExists は指定されたパスにファイルが存在するかどうかを返す
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CopyFile はファイルをパーミッションを保ったままコピーする
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("コピー元の情報取得に失敗しました: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("コピー元を開くのに失敗しました: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return fmt.Errorf("コピー先を開くのに失敗しました: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("コピーに失敗しました: %w", err)
	}
	return out.Close()
}
