package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/robocrax/wsa-profile-switcher/internal/api"
	"github.com/robocrax/wsa-profile-switcher/internal/config"
	"github.com/robocrax/wsa-profile-switcher/internal/elevate"
	"github.com/robocrax/wsa-profile-switcher/internal/features"
)

func main() {
	// コマンドライン引数の解析
	useApi := flag.Bool("api", false, "APIサーバーモードで起動します")
	configPath := flag.String("config", "", "設定ファイルのパス (指定しない場合はデフォルトパスを使用)")
	port := flag.Int("port", 8080, "APIサーバーのポート番号")
	openBrowser := flag.Bool("open", false, "起動後にブラウザでAPIを開きます")
	flag.Parse()

	// デフォルト設定ファイルパスの設定
	defaultConfigPath := ""
	configDir, err := config.GetDefaultConfigDir()
	if err == nil {
		defaultConfigPath = filepath.Join(configDir, "config.toml")
	}

	// 設定ファイルパスの決定
	cfgPath := defaultConfigPath
	if *configPath != "" {
		cfgPath = *configPath
	}

	// 設定ファイルの読み込み
	var cfg *config.Config
	if cfgPath != "" {
		cfg, err = config.LoadConfig(cfgPath)
		if err != nil {
			fmt.Printf("設定ファイルの読み込みに失敗しました: %v\nデフォルト設定を使用します\n", err)
			cfg = config.DefaultConfig()
		} else {
			fmt.Printf("設定ファイルを読み込みました: %s\n", cfgPath)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	// プロファイルの切り替えには管理者権限が必要
	if !elevate.IsElevated() {
		fmt.Println("このプログラムには管理者権限が必要です")
		fmt.Println("launcher から起動するか、管理者として実行してください")
		os.Exit(1)
	}

	// シグナルハンドラの設定
	handleSignals()

	svc := features.NewSwitchService(cfg)

	// APIモードかCLIモードかを判断
	if *useApi {
		// APIモードで実行
		fmt.Printf("APIサーバーモードで起動します (ポート: %d)...\n", *port)
		if *openBrowser {
			go openDashboard(*port)
		}
		runApiServer(cfg, svc, *port)
	} else {
		// CLIモードでは1回だけ切り替えて終了する
		runOnce(svc)
	}
}

// APIサーバーモードでの実行
func runApiServer(cfg *config.Config, svc *features.SwitchService, port int) {
	server := api.NewServer(cfg, svc, port)

	if err := server.Start(); err != nil {
		log.Fatalf("APIサーバーの起動に失敗しました: %v", err)
	}
}

// CLIモードでの実行（元のスクリプトと同じく1実行1切り替え）
func runOnce(svc *features.SwitchService) {
	result, err := svc.SwitchOnce()
	if err != nil {
		log.Printf("プロファイルの切り替えに失敗しました: %v", err)
		os.Exit(1)
	}
	log.Printf("プロファイル %s に切り替えました", result.Profile)
	os.Exit(0)
}

// openDashboard はサーバーの起動を少し待ってからブラウザでAPIを開く
func openDashboard(port int) {
	time.Sleep(500 * time.Millisecond)
	url := fmt.Sprintf("http://localhost:%d/api/status", port)
	if err := browser.OpenURL(url); err != nil {
		log.Printf("ブラウザを開けませんでした: %v", err)
	}
}

func handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("シャットダウンします...")
		os.Exit(0)
	}()
}
