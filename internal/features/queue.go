package features

import (
	"log"
	"os"
	"strings"

	"github.com/robocrax/wsa-profile-switcher/internal/types"
)

// DefaultProfileName は有効なプロファイルが1つもない場合に使用する名前
const DefaultProfileName = "profile1"

// ReadQueue は切り替えキューを読み込む。ファイルがない場合は空のキューを返す
func ReadQueue(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var queue []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			queue = append(queue, line)
		}
	}
	return queue, nil
}

// WriteQueue は切り替えキューをファイルに書き込む
func WriteQueue(path string, queue []string) error {
	var b strings.Builder
	for _, name := range queue {
		b.WriteString(name)
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// UpdateQueue はディレクトリの走査結果とキューを同期して保存する。
// 無効になったプロファイルを取り除き、新しく見つかったものを末尾に追加する
func UpdateQueue(dir, queuePath string) ([]string, error) {
	profiles, err := ScanProfiles(dir)
	if err != nil {
		return nil, err
	}

	current, err := ReadQueue(queuePath)
	if err != nil {
		return nil, err
	}

	// 無効なプロファイルをキューから取り除く
	var queue []string
	for _, name := range current {
		if _, ok := FindProfile(profiles, name); ok {
			queue = append(queue, name)
		}
	}

	// 新しいプロファイルを末尾に追加する
	known := make(map[string]bool, len(queue))
	for _, name := range queue {
		known[name] = true
	}
	for _, p := range profiles {
		if !known[p.Name] {
			queue = append(queue, p.Name)
		}
	}

	if len(queue) == 0 {
		queue = []string{DefaultProfileName}
		log.Println("有効なプロファイルが見つかりません。デフォルトプロファイルを登録します")
	}

	if err := WriteQueue(queuePath, queue); err != nil {
		return nil, err
	}
	return queue, nil
}

// RotateQueue は使用したプロファイルをキューの末尾に移動した新しいキューを返す
func RotateQueue(queue []string, used string) []string {
	rotated := make([]string, 0, len(queue))
	for _, name := range queue {
		if name != used {
			rotated = append(rotated, name)
		}
	}
	return append(rotated, used)
}

// profileNames はプロファイル一覧から名前だけを取り出す
func profileNames(profiles []types.Profile) []string {
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	return names
}
