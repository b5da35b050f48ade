package features

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robocrax/wsa-profile-switcher/internal/config"
	"github.com/robocrax/wsa-profile-switcher/internal/consts"
	"github.com/robocrax/wsa-profile-switcher/internal/elevate"
	"github.com/robocrax/wsa-profile-switcher/internal/types"
	"github.com/robocrax/wsa-profile-switcher/internal/utils"
)

var (
	// ErrNotElevated は管理者権限なしで切り替えようとしたことを表すエラー
	ErrNotElevated = errors.New("プロファイルの切り替えには管理者権限が必要です")
	// ErrSwitchInProgress は切り替えがすでに実行中であることを表すエラー
	ErrSwitchInProgress = errors.New("プロファイルの切り替えがすでに実行中です")
	// ErrEmptyQueue は切り替えキューが空であることを表すエラー
	ErrEmptyQueue = errors.New("切り替えキューにプロファイルがありません")
)

// SwitchStatus は切り替えサービスの現在の状態を表す構造体
type SwitchStatus struct {
	Switching     bool                `json:"switching"`      // 切り替え実行中かどうか
	ActiveProfile string              `json:"active_profile"` // 現在適用中のプロファイル名
	Queue         []string            `json:"queue"`          // 現在の切り替えキュー
	LastResult    *types.SwitchResult `json:"last_result"`    // 直近の切り替え結果
}

// SwitchService はプロファイルの切り替えを実行するサービス
type SwitchService struct {
	cfg         *config.Config
	client      *Client
	probe       elevate.Probe
	statusMutex sync.RWMutex
	switching   bool
	lastResult  *types.SwitchResult
}

// NewSwitchService は新しい切り替えサービスを作成する
func NewSwitchService(cfg *config.Config) *SwitchService {
	return &SwitchService{
		cfg:    cfg,
		client: NewClient(cfg),
		probe:  elevate.IsElevated,
	}
}

// SetClient はWSA制御クライアントを差し替える（テスト用）
func (s *SwitchService) SetClient(client *Client) {
	s.client = client
}

// SetProbe は権限判定を差し替える（テスト用）
func (s *SwitchService) SetProbe(probe elevate.Probe) {
	s.probe = probe
}

// UpdateConfig は設定を差し替える
func (s *SwitchService) UpdateConfig(cfg *config.Config) {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()
	s.cfg = cfg
	s.client = NewClient(cfg)
}

// Status は現在の状態を返す
func (s *SwitchService) Status() SwitchStatus {
	s.statusMutex.RLock()
	switching := s.switching
	lastResult := s.lastResult
	cfg := s.cfg
	s.statusMutex.RUnlock()

	active, err := ReadActiveProfile(cfg.ActiveFilePath())
	if err != nil {
		log.Printf("現在のプロファイルの読み取りに失敗しました: %v", err)
	}
	queue, err := ReadQueue(cfg.QueueFilePath())
	if err != nil {
		log.Printf("キューの読み取りに失敗しました: %v", err)
	}

	return SwitchStatus{
		Switching:     switching,
		ActiveProfile: active,
		Queue:         queue,
		LastResult:    lastResult,
	}
}

// SwitchOnce はキューの先頭のプロファイルへ切り替える。
// 同時に実行できる切り替えは1つだけ
func (s *SwitchService) SwitchOnce() (*types.SwitchResult, error) {
	s.statusMutex.Lock()
	if s.switching {
		s.statusMutex.Unlock()
		return nil, ErrSwitchInProgress
	}
	s.switching = true
	cfg := s.cfg
	client := s.client
	s.statusMutex.Unlock()

	defer func() {
		s.statusMutex.Lock()
		s.switching = false
		s.statusMutex.Unlock()
	}()

	result, err := s.doSwitch(cfg, client)
	if err != nil {
		return nil, err
	}

	s.statusMutex.Lock()
	s.lastResult = result
	s.statusMutex.Unlock()

	return result, nil
}

// doSwitch は切り替えの本体。停止→ファイル差し替え→キュー更新→起動の順に進める
func (s *SwitchService) doSwitch(cfg *config.Config, client *Client) (*types.SwitchResult, error) {
	if !s.probe() {
		return nil, ErrNotElevated
	}

	// プロファイルディレクトリがなければ作成する
	if err := os.MkdirAll(cfg.Profiles.Dir, 0755); err != nil {
		return nil, fmt.Errorf("プロファイルディレクトリの作成に失敗しました: %w", err)
	}

	// キューを最新の状態に同期して切り替え先を決める
	queue, err := UpdateQueue(cfg.Profiles.Dir, cfg.QueueFilePath())
	if err != nil {
		return nil, fmt.Errorf("キューの更新に失敗しました: %w", err)
	}
	if len(queue) == 0 {
		return nil, ErrEmptyQueue
	}
	next := queue[0]
	log.Printf("プロファイルを切り替えます: %s", next)

	profiles, err := ScanProfiles(cfg.Profiles.Dir)
	if err != nil {
		return nil, fmt.Errorf("プロファイル一覧の取得に失敗しました: %w", err)
	}
	profile, ok := FindProfile(profiles, next)
	if !ok {
		return nil, fmt.Errorf("プロファイル %s のファイルが見つかりません", next)
	}

	// WSAを停止してからファイルを差し替える
	if err := client.Shutdown(); err != nil {
		return nil, err
	}

	targetVHDX := cfg.TargetVHDXPath()
	targetDat := cfg.TargetDatPath()

	// 既存のファイルを取り除く
	for _, target := range []string{targetVHDX, targetDat} {
		if utils.FileExists(target) {
			if err := os.Remove(target); err != nil {
				return nil, fmt.Errorf("既存ファイルの削除に失敗しました: %w", err)
			}
		}
	}

	// ユーザーデータはシンボリックリンク、設定ファイルはコピーで差し替える。
	// vhdxをコピーするとプロファイル数に比例してディスクを消費するためリンクにする
	if err := os.Symlink(profile.VHDXPath, targetVHDX); err != nil {
		return nil, fmt.Errorf("%s のリンク作成に失敗しました: %w", consts.TargetVHDXName, err)
	}
	if err := utils.CopyFile(profile.DatPath, targetDat); err != nil {
		return nil, fmt.Errorf("%s のコピーに失敗しました: %w", consts.TargetDatName, err)
	}

	// キューを回転させて次回の切り替え先を進める
	if err := WriteQueue(cfg.QueueFilePath(), RotateQueue(queue, next)); err != nil {
		return nil, fmt.Errorf("キューの保存に失敗しました: %w", err)
	}
	if err := WriteActiveProfile(cfg.ActiveFilePath(), next); err != nil {
		return nil, fmt.Errorf("現在のプロファイルの保存に失敗しました: %w", err)
	}

	// WSAを起動してアプリを立ち上げる
	if err := client.Start(); err != nil {
		return nil, err
	}
	if err := client.LaunchApp(cfg.Launch.Package, cfg.Launch.MaxRetries); err != nil {
		return nil, err
	}

	// 稼働監視への通知は失敗しても切り替え自体は成功として扱う
	if cfg.Heartbeat.Enabled && cfg.Heartbeat.URL != "" {
		if err := SendHeartbeat(cfg.Heartbeat.URL, cfg.Heartbeat.Timeout); err != nil {
			log.Printf("ハートビートの送信に失敗しました: %v", err)
		} else {
			log.Println("稼働監視へハートビートを送信しました")
		}
	}

	log.Printf("プロファイル %s への切り替えが完了しました", next)
	return &types.SwitchResult{Profile: next, SwitchedAt: time.Now()}, nil
}
