package features

import (
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/robocrax/wsa-profile-switcher/internal/config"
	"github.com/robocrax/wsa-profile-switcher/internal/consts"
)

// CommandRunner は外部コマンドを実行して出力を返す関数型。
// テスト時に差し替えられるようにするための抽象
type CommandRunner func(name string, args ...string) ([]byte, error)

// SpawnFunc はプロセスを起動したまま待たずに戻る関数型
type SpawnFunc func(name string, args ...string) error

// Client はWsaClient.exeを介してWSAのプロセスを制御する構造体
type Client struct {
	ExePath string
	Timing  config.TimingConfig
	Run     CommandRunner // nilの場合は実際にコマンドを実行する
	Spawn   SpawnFunc     // nilの場合は実際にプロセスを起動する
}

// NewClient は設定からWSA制御クライアントを作成する
func NewClient(cfg *config.Config) *Client {
	return &Client{
		ExePath: cfg.WSA.ClientPath,
		Timing:  cfg.Timing,
	}
}

// Shutdown はWSAを停止する。シャットダウン要求と強制終了を組み合わせ、
// 最終確認でまだ動いている場合のみエラーを返す
func (c *Client) Shutdown() error {
	// 1回目のシャットダウン要求
	if _, err := c.run(c.ExePath, consts.ShutdownArg); err != nil {
		log.Printf("1回目のシャットダウン要求に失敗しました: %v", err)
	}

	// 設定画面のプロセスは /shutdown では終了しないため個別に落とす
	if err := c.killProcess(consts.SettingsExeName); err != nil {
		log.Printf("%s の終了に失敗しました: %v", consts.SettingsExeName, err)
	}

	time.Sleep(c.Timing.ShutdownWait)

	// 2回目のシャットダウン要求
	if _, err := c.run(c.ExePath, consts.ShutdownArg); err != nil {
		log.Printf("2回目のシャットダウン要求に失敗しました: %v", err)
	}

	time.Sleep(c.Timing.ShutdownWait)

	// まだ残っているプロセスを強制終了する
	for _, name := range []string{consts.ClientExeName, consts.SettingsExeName} {
		if c.processRunning(name) {
			log.Printf("プロセス %s がまだ実行中のため強制終了します", name)
			if err := c.killProcess(name); err != nil {
				log.Printf("%s の強制終了に失敗しました: %v", name, err)
			}
		}
	}

	// 最終確認
	time.Sleep(c.Timing.KillWait)
	if c.processRunning(consts.ClientExeName) {
		return fmt.Errorf("WSAを完全に停止できませんでした")
	}
	return nil
}

// Start はWSAを起動し、起動したことをプロセスの存在で確認する
func (c *Client) Start() error {
	if err := c.spawn(c.ExePath); err != nil {
		return fmt.Errorf("WSAの起動に失敗しました: %w", err)
	}

	time.Sleep(c.Timing.StartupWait)

	if !c.processRunning(consts.ClientExeName) {
		return fmt.Errorf("WSAの起動を確認できませんでした")
	}
	return nil
}

// LaunchApp は指定されたAndroidアプリを起動する。確認できるまでリトライする
func (c *Client) LaunchApp(pkg string, maxRetries int) error {
	uri := consts.AppURIPrefix + pkg

	for attempt := 0; attempt < maxRetries; attempt++ {
		if _, err := c.run(c.ExePath, consts.LaunchArg, uri); err != nil {
			log.Printf("アプリ起動要求に失敗しました (%d回目): %v", attempt+1, err)
		}

		time.Sleep(c.Timing.LaunchWait)

		if c.processRunning(consts.ClientExeName) {
			return nil
		}

		if attempt < maxRetries-1 {
			time.Sleep(c.Timing.RetryInterval)
		}
	}

	return fmt.Errorf("%d回試行しましたが %s を起動できませんでした", maxRetries, pkg)
}

// processRunning はtasklistの出力にプロセス名が含まれるかどうかで存在を確認する。
// tasklistは該当プロセスがなくても終了コード0を返すため出力を見る必要がある
func (c *Client) processRunning(name string) bool {
	out, err := c.run("tasklist", "/FI", fmt.Sprintf("IMAGENAME eq %s", name))
	if err != nil {
		return false
	}
	return strings.Contains(string(out), name)
}

// killProcess はプロセスを強制終了する
func (c *Client) killProcess(name string) error {
	_, err := c.run("taskkill", "/F", "/IM", name)
	return err
}

func (c *Client) run(name string, args ...string) ([]byte, error) {
	if c.Run != nil {
		return c.Run(name, args...)
	}
	return exec.Command(name, args...).CombinedOutput()
}

func (c *Client) spawn(name string, args ...string) error {
	if c.Spawn != nil {
		return c.Spawn(name, args...)
	}
	return exec.Command(name, args...).Start()
}
