package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/robocrax/wsa-profile-switcher/internal/elevate"
)

var (
	// ErrInterpreterNotFound はインタープリタが見つからないことを表すエラー
	ErrInterpreterNotFound = errors.New("インタープリタが見つかりません")
	// ErrTargetNotFound は起動対象のスクリプトが見つからないことを表すエラー
	ErrTargetNotFound = errors.New("起動対象のスクリプトが見つかりません")
	// ErrRelaunchFailed は昇格要求自体が失敗したことを表すエラー（UACの拒否など）
	ErrRelaunchFailed = errors.New("昇格要求に失敗しました")
)

// RunFunc は対話的にコマンドを実行して終了コードを返す関数型
type RunFunc func(name string, args ...string) (int, error)

// CheckFunc はインタープリタの存在確認を行う関数型
type CheckFunc func(interpreter string) error

// Launcher はスクリプトの起動判定を行う構造体。
// 権限の確認や昇格要求は外から注入できるため、判定ロジック単体でテストできる
type Launcher struct {
	Interpreter string             // 例: "python"
	TargetName  string             // 起動対象のスクリプトファイル名
	ScriptDir   string             // 空の場合は実行ファイルのディレクトリを使用
	Probe       elevate.Probe      // 管理者権限の判定
	Relauncher  elevate.Relauncher // 昇格プロンプト付きの再起動
	Run         RunFunc            // nilの場合は標準入出力を引き継いで実行
	Check       CheckFunc          // nilの場合はバージョン照会で確認
}

// Launch は起動シーケンスを実行し、プロセスの終了コードを返す。
// エラーが返った場合、終了コードは常に0以外となる
func (l *Launcher) Launch() (int, error) {
	// インタープリタの存在確認
	if err := l.checkInterpreter(); err != nil {
		return 1, fmt.Errorf("%w: %s をインストールしてください (Python 3系が必要です)",
			ErrInterpreterNotFound, l.Interpreter)
	}

	// 起動対象スクリプトのパスを解決
	dir := l.ScriptDir
	if dir == "" {
		d, err := ExecutableDir()
		if err != nil {
			return 1, fmt.Errorf("実行ファイルの場所を特定できませんでした: %w", err)
		}
		dir = d
	}
	target := filepath.Join(dir, l.TargetName)

	// スクリプトの存在確認
	if _, err := os.Stat(target); err != nil {
		return 1, fmt.Errorf("%w: %s が %s に見つかりません",
			ErrTargetNotFound, l.TargetName, dir)
	}

	// 権限の判定と起動方法の分岐
	if l.Probe() {
		// 昇格済み: そのままインタープリタで実行し、終了コードを引き継ぐ
		return l.run(l.Interpreter, target)
	}

	// 未昇格: 自分自身を昇格プロンプト付きで起動し直す。
	// 昇格後プロセスの終了は待たない
	exe, err := os.Executable()
	if err != nil {
		return 1, fmt.Errorf("実行ファイルの場所を特定できませんでした: %w", err)
	}
	if err := l.Relauncher.Relaunch(exe, os.Args[1:], dir); err != nil {
		return 1, fmt.Errorf("%w: %v", ErrRelaunchFailed, err)
	}
	return 0, nil
}

// ExecutableDir は実行ファイルのあるディレクトリを返す
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func (l *Launcher) checkInterpreter() error {
	if l.Check != nil {
		return l.Check(l.Interpreter)
	}
	return defaultCheck(l.Interpreter)
}

// defaultCheck はバージョン照会を試みてインタープリタの存在を確認する
func defaultCheck(interpreter string) error {
	return exec.Command(interpreter, "--version").Run()
}

func (l *Launcher) run(name string, args ...string) (int, error) {
	if l.Run != nil {
		return l.Run(name, args...)
	}
	return defaultRun(name, args...)
}

// defaultRun は標準入出力と環境を引き継いでコマンドを実行し、終了コードを返す
func defaultRun(name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), fmt.Errorf("スクリプトが終了コード %d で終了しました", exitErr.ExitCode())
		}
		return 1, err
	}
	return 0, nil
}
