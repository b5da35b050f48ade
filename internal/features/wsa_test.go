package features

import (
	"fmt"
	"strings"
	"testing"

	"github.com/robocrax/wsa-profile-switcher/internal/config"
	"github.com/robocrax/wsa-profile-switcher/internal/consts"
)

// fakeWSA はtasklist/taskkill/WsaClientの振る舞いを模倣するテスト用実装
type fakeWSA struct {
	running   map[string]bool // 現在「実行中」のプロセス
	commands  []string        // 実行されたコマンドの記録
	spawned   []string
	spawnErr  error
	onLaunch  func() // /launch 実行時のフック
	keepAlive bool   // trueの場合 /shutdown やtaskkillを無視する
}

func newFakeWSA() *fakeWSA {
	return &fakeWSA{running: map[string]bool{}}
}

func (f *fakeWSA) runner() CommandRunner {
	return func(name string, args ...string) ([]byte, error) {
		f.commands = append(f.commands, strings.Join(append([]string{name}, args...), " "))

		switch name {
		case "tasklist":
			// IMAGENAME eq <name> 形式のフィルタからプロセス名を取り出す
			filter := args[len(args)-1]
			proc := strings.TrimPrefix(filter, "IMAGENAME eq ")
			if f.running[proc] {
				return []byte(proc + "  1234 Console"), nil
			}
			return []byte("情報: 条件に一致するタスクはありません。"), nil
		case "taskkill":
			proc := args[len(args)-1]
			if !f.keepAlive {
				f.running[proc] = false
			}
			return nil, nil
		default:
			// WsaClient.exe への要求
			if len(args) > 0 && args[0] == consts.ShutdownArg && !f.keepAlive {
				f.running[consts.ClientExeName] = false
			}
			if len(args) > 0 && args[0] == consts.LaunchArg && f.onLaunch != nil {
				f.onLaunch()
			}
			return nil, nil
		}
	}
}

func (f *fakeWSA) spawnFunc() SpawnFunc {
	return func(name string, args ...string) error {
		f.spawned = append(f.spawned, name)
		if f.spawnErr != nil {
			return f.spawnErr
		}
		f.running[consts.ClientExeName] = true
		return nil
	}
}

func newTestClient(f *fakeWSA) *Client {
	// 待機時間ゼロでシーケンスだけを検証する
	return &Client{
		ExePath: "WsaClient.exe",
		Timing:  config.TimingConfig{},
		Run:     f.runner(),
		Spawn:   f.spawnFunc(),
	}
}

func TestClientShutdown(t *testing.T) {
	f := newFakeWSA()
	f.running[consts.ClientExeName] = true
	f.running[consts.SettingsExeName] = true

	client := newTestClient(f)
	if err := client.Shutdown(); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	// シャットダウン要求は2回発行される
	shutdowns := 0
	for _, cmd := range f.commands {
		if cmd == "WsaClient.exe "+consts.ShutdownArg {
			shutdowns++
		}
	}
	if shutdowns != 2 {
		t.Fatalf("want 2 shutdown requests, got %d", shutdowns)
	}
}

func TestClientShutdownFailsWhenProcessSurvives(t *testing.T) {
	f := newFakeWSA()
	f.running[consts.ClientExeName] = true
	f.keepAlive = true

	client := newTestClient(f)
	if err := client.Shutdown(); err == nil {
		t.Fatal("shutdown should fail when the client process survives")
	}
}

func TestClientStart(t *testing.T) {
	f := newFakeWSA()
	client := newTestClient(f)

	if err := client.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if len(f.spawned) != 1 || f.spawned[0] != "WsaClient.exe" {
		t.Fatalf("unexpected spawns: %v", f.spawned)
	}
}

func TestClientStartFailsWithoutProcess(t *testing.T) {
	f := newFakeWSA()
	f.spawnErr = fmt.Errorf("spawn denied")

	client := newTestClient(f)
	if err := client.Start(); err == nil {
		t.Fatal("start should fail when spawn fails")
	}
}

func TestClientLaunchAppRetries(t *testing.T) {
	f := newFakeWSA()
	client := newTestClient(f)

	// 2回目の起動要求で初めてプロセスが現れる
	attempts := 0
	f.onLaunch = func() {
		attempts++
		if attempts == 2 {
			f.running[consts.ClientExeName] = true
		}
	}

	if err := client.LaunchApp("com.google.android.apps.photos", 3); err != nil {
		t.Fatalf("launch failed: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("want 2 attempts, got %d", attempts)
	}
}

func TestClientLaunchAppExhaustsRetries(t *testing.T) {
	f := newFakeWSA()
	client := newTestClient(f)

	if err := client.LaunchApp("com.google.android.apps.photos", 3); err == nil {
		t.Fatal("launch should fail after exhausting retries")
	}
}
