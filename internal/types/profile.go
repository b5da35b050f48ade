package types

import "time"

// Profile はWSAのユーザープロファイルを表す構造体
type Profile struct {
	Name     string // プロファイル名（拡張子を除いたファイル名）
	VHDXPath string // ユーザーデータイメージ(vhdx)のパス
	DatPath  string // 設定ファイル(dat)のパス
}

// SwitchResult は1回のプロファイル切り替えの結果を表す構造体
type SwitchResult struct {
	Profile    string    `json:"profile"`     // 切り替え後のプロファイル名
	SwitchedAt time.Time `json:"switched_at"` // 切り替え完了時刻
}
