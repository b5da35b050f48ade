package features

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/robocrax/wsa-profile-switcher/internal/consts"
	"github.com/robocrax/wsa-profile-switcher/internal/types"
)

// ScanProfiles はプロファイルディレクトリを走査し、有効なプロファイル一覧を返す。
// vhdxとdatが揃っているものだけが有効。datのないvhdxは孤立ファイルとして警告する
func ScanProfiles(dir string) ([]types.Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var profiles []types.Profile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), consts.VHDXExt) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), consts.VHDXExt)
		vhdxPath := filepath.Join(dir, entry.Name())
		datPath := filepath.Join(dir, name+consts.DatExt)

		if _, err := os.Stat(datPath); err != nil {
			log.Printf("孤立したVHDXファイルを検出しました: %s", entry.Name())
			continue
		}

		profiles = append(profiles, types.Profile{
			Name:     name,
			VHDXPath: vhdxPath,
			DatPath:  datPath,
		})
	}

	// 一覧の順序を安定させる
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })

	return profiles, nil
}

// FindProfile は名前が一致するプロファイルを返す
func FindProfile(profiles []types.Profile, name string) (types.Profile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return types.Profile{}, false
}

// ReadActiveProfile は現在適用中のプロファイル名を読み取る。
// ファイルがない場合は空文字列を返す
func ReadActiveProfile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteActiveProfile は現在適用中のプロファイル名を書き込む
func WriteActiveProfile(path, name string) error {
	return os.WriteFile(path, []byte(name+"\n"), 0644)
}
