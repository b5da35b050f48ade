package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/robocrax/wsa-profile-switcher/internal/consts"
)

// Config はアプリケーション全体の設定を表す構造体
type Config struct {
	WSA       WSAConfig       `toml:"wsa"`
	Profiles  ProfilesConfig  `toml:"profiles"`
	Timing    TimingConfig    `toml:"timing"`
	Launch    LaunchConfig    `toml:"launch"`
	Heartbeat HeartbeatConfig `toml:"heartbeat"`
}

// WSAConfig はWSA本体の場所に関する設定
type WSAConfig struct {
	BaseDir    string `toml:"base_dir"`    // WSAパッケージのベースディレクトリ
	ClientPath string `toml:"client_path"` // WsaClient.exeのパス
}

// ProfilesConfig はプロファイル格納場所の設定
type ProfilesConfig struct {
	Dir string `toml:"dir"` // プロファイル格納ディレクトリ
}

// TimingConfig はWSAプロセス制御の待機時間の設定
type TimingConfig struct {
	ShutdownWait  time.Duration `toml:"shutdown_wait"`  // シャットダウン要求後の待機時間
	KillWait      time.Duration `toml:"kill_wait"`      // 強制終了後の最終確認までの待機時間
	StartupWait   time.Duration `toml:"startup_wait"`   // 起動後にプロセス確認するまでの待機時間
	LaunchWait    time.Duration `toml:"launch_wait"`    // アプリ起動後の確認までの待機時間
	RetryInterval time.Duration `toml:"retry_interval"` // アプリ起動リトライの間隔
}

// LaunchConfig は切り替え後に起動するAndroidアプリの設定
type LaunchConfig struct {
	Package    string `toml:"package"`     // 起動するアプリのパッケージ名
	MaxRetries int    `toml:"max_retries"` // 起動確認のリトライ回数
}

// HeartbeatConfig は稼働監視への通知の設定
type HeartbeatConfig struct {
	Enabled bool          `toml:"enabled"` // 通知を行うかどうか
	URL     string        `toml:"url"`     // 通知先URL
	Timeout time.Duration `toml:"timeout"` // HTTPタイムアウト
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() *Config {
	localAppData := os.Getenv("LOCALAPPDATA")
	baseDir := filepath.Join(localAppData, "Packages", consts.PackageFamily)

	return &Config{
		WSA: WSAConfig{
			BaseDir: baseDir,
			ClientPath: filepath.Join(localAppData, "Microsoft", "WindowsApps",
				consts.PackageFamily, consts.ClientExeName),
		},
		Profiles: ProfilesConfig{
			Dir: filepath.Join(baseDir, consts.ProfilesDirName),
		},
		Timing: TimingConfig{
			ShutdownWait:  2 * time.Second,
			KillWait:      1 * time.Second,
			StartupWait:   10 * time.Second,
			LaunchWait:    20 * time.Second,
			RetryInterval: 5 * time.Second,
		},
		Launch: LaunchConfig{
			Package:    "com.google.android.apps.photos",
			MaxRetries: 3,
		},
		Heartbeat: HeartbeatConfig{
			Enabled: false,
			URL:     "",
			Timeout: 10 * time.Second,
		},
	}
}

// GetDefaultConfigDir はデフォルトの設定ディレクトリを返す
func GetDefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wsa-profile-switcher"), nil
}

// TargetVHDXPath は切り替え先となるユーザーデータイメージのパスを返す
func (c *Config) TargetVHDXPath() string {
	return filepath.Join(c.WSA.BaseDir, consts.LocalCacheDir, consts.TargetVHDXName)
}

// TargetDatPath は切り替え先となる設定ファイルのパスを返す
func (c *Config) TargetDatPath() string {
	return filepath.Join(c.WSA.BaseDir, consts.SettingsDir, consts.TargetDatName)
}

// QueueFilePath は切り替えキューのファイルパスを返す
func (c *Config) QueueFilePath() string {
	return filepath.Join(c.Profiles.Dir, consts.QueueFileName)
}

// ActiveFilePath は現在のプロファイルを記録するファイルパスを返す
func (c *Config) ActiveFilePath() string {
	return filepath.Join(c.Profiles.Dir, consts.ActiveFileName)
}

// LoadConfig は設定ファイルから設定を読み込む
func LoadConfig(configPath string) (*Config, error) {
	// デフォルト設定を用意
	config := DefaultConfig()

	// ファイルが存在しない場合はデフォルト設定を保存して返す
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// 設定ディレクトリの作成
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return config, err
		}

		// デフォルト設定の保存
		if err := SaveConfig(configPath, config); err != nil {
			return config, err
		}

		return config, nil
	}

	// 設定ファイルの読み込み
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig は設定をTOMLファイルに保存する
func SaveConfig(configPath string, config *Config) error {
	// 設定ディレクトリの作成
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	// ファイルを開く（なければ作成）
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// TOML形式でエンコードして書き込み
	encoder := toml.NewEncoder(f)
	return encoder.Encode(config)
}
