package features

import (
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robocrax/wsa-profile-switcher/internal/types"
)

// ProfileEventType はプロファイルイベントの種類を表す
type ProfileEventType int

const (
	ProfileAdded ProfileEventType = iota
	ProfileRemoved
)

// ProfileEvent はプロファイルの増減イベントを表す
type ProfileEvent struct {
	Type    ProfileEventType
	Profile types.Profile
}

// ProfileCallback はプロファイルイベント発生時に呼び出されるコールバック関数の型
type ProfileCallback func(event ProfileEvent)

// ProfileMonitor はプロファイルディレクトリの変更を監視する構造体
type ProfileMonitor struct {
	dir           string
	watcher       *fsnotify.Watcher
	callbacks     []ProfileCallback
	profiles      map[string]types.Profile // 名前をキーにしたプロファイルマップ
	mutex         sync.RWMutex
	stopChan      chan struct{}
	pollingTicker *time.Ticker
	isRunning     bool
}

// イベントをまとめて処理するまでの待ち時間
const eventDebounceTime = 500 * time.Millisecond

// ポーリングによる再スキャンの間隔
const pollingInterval = 5 * time.Second

// NewProfileMonitor は新しいProfileMonitorを作成する
func NewProfileMonitor(dir string) (*ProfileMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &ProfileMonitor{
		dir:       dir,
		watcher:   watcher,
		callbacks: make([]ProfileCallback, 0),
		profiles:  make(map[string]types.Profile),
		stopChan:  make(chan struct{}),
	}, nil
}

// Start はプロファイルディレクトリの監視を開始する
func (pm *ProfileMonitor) Start() error {
	if pm.isRunning {
		return nil // すでに実行中
	}

	log.Printf("プロファイルモニターを開始します: %s", pm.dir)
	pm.isRunning = true

	if err := pm.watcher.Add(pm.dir); err != nil {
		log.Printf("ディレクトリの監視に失敗しました: %s - %v", pm.dir, err)
	}

	// 初期プロファイル一覧を取得
	profiles, err := ScanProfiles(pm.dir)
	if err != nil {
		log.Printf("初期プロファイル一覧の取得に失敗しました: %v", err)
	} else {
		log.Printf("初期プロファイル検出: %d 個のプロファイルを検出", len(profiles))
		pm.updateProfileList(profiles)
	}

	// イベント監視ゴルーチンを起動
	go pm.watchEvents()

	// ファイルイベントを取りこぼした場合に備えたポーリング監視
	pm.pollingTicker = time.NewTicker(pollingInterval)
	go pm.runPolling()

	return nil
}

// Stop はプロファイルディレクトリの監視を停止する
func (pm *ProfileMonitor) Stop() {
	if !pm.isRunning {
		return
	}

	log.Println("プロファイルモニターを停止します")

	close(pm.stopChan)
	if pm.pollingTicker != nil {
		pm.pollingTicker.Stop()
	}
	pm.watcher.Close()

	pm.isRunning = false
}

// RegisterCallback はプロファイルイベントのコールバック関数を登録する
func (pm *ProfileMonitor) RegisterCallback(callback ProfileCallback) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.callbacks = append(pm.callbacks, callback)
}

// GetProfiles は現在のプロファイル一覧のスナップショットを返す
func (pm *ProfileMonitor) GetProfiles() []types.Profile {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	profiles := make([]types.Profile, 0, len(pm.profiles))
	for _, p := range pm.profiles {
		profiles = append(profiles, p)
	}
	return profiles
}

// Rescan はプロファイル一覧を強制的に再スキャンする
func (pm *ProfileMonitor) Rescan() {
	profiles, err := ScanProfiles(pm.dir)
	if err != nil {
		log.Printf("プロファイル再スキャンに失敗しました: %v", err)
		return
	}
	pm.updateProfileList(profiles)
}

// runPolling は定期的にプロファイル一覧を再スキャンする
func (pm *ProfileMonitor) runPolling() {
	for {
		select {
		case <-pm.stopChan:
			return
		case <-pm.pollingTicker.C:
			pm.Rescan()
		}
	}
}

// updateProfileList は現在のプロファイル一覧を更新し、変更があれば通知する
func (pm *ProfileMonitor) updateProfileList(newProfiles []types.Profile) {
	pm.mutex.Lock()

	seen := make(map[string]bool, len(newProfiles))
	var events []ProfileEvent

	// 新しく見つかったプロファイルを追加する
	for _, p := range newProfiles {
		seen[p.Name] = true
		if _, exists := pm.profiles[p.Name]; !exists {
			pm.profiles[p.Name] = p
			log.Printf("新しいプロファイルを追加: %s", p.Name)
			events = append(events, ProfileEvent{Type: ProfileAdded, Profile: p})
		}
	}

	// 見つからなくなったプロファイルを取り除く
	for name, p := range pm.profiles {
		if !seen[name] {
			log.Printf("プロファイルを削除: %s", name)
			delete(pm.profiles, name)
			events = append(events, ProfileEvent{Type: ProfileRemoved, Profile: p})
		}
	}

	pm.mutex.Unlock()

	for _, ev := range events {
		pm.notifyCallbacks(ev)
	}
}

// notifyCallbacks は登録されているすべてのコールバックに通知する
func (pm *ProfileMonitor) notifyCallbacks(event ProfileEvent) {
	// コピーしてロックを解放した状態でコールバックを呼び出す
	var callbacks []ProfileCallback
	pm.mutex.RLock()
	callbacks = append(callbacks, pm.callbacks...)
	pm.mutex.RUnlock()

	for _, callback := range callbacks {
		go callback(event)
	}
}

// watchEvents はfsnotifyのイベントを監視する
func (pm *ProfileMonitor) watchEvents() {
	// 連続するファイルイベントをまとめて1回の再スキャンにする
	eventTimer := time.NewTimer(eventDebounceTime)
	eventTimer.Stop() // 初期状態では停止
	pendingRescan := false

	for {
		select {
		case <-pm.stopChan:
			return

		case <-eventTimer.C:
			if pendingRescan {
				pendingRescan = false
				pm.Rescan()
			}

		case event, ok := <-pm.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Remove == fsnotify.Remove ||
				event.Op&fsnotify.Rename == fsnotify.Rename ||
				event.Op&fsnotify.Write == fsnotify.Write {
				if !pendingRescan {
					pendingRescan = true
					eventTimer.Reset(eventDebounceTime)
				}
			}

		case err, ok := <-pm.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("ファイルシステム監視エラー: %v", err)
		}
	}
}
