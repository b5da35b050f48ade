//go:build !windows

package elevate

import (
	"fmt"
	"os"
	"os/exec"
)

// IsElevated は現在のプロセスがroot権限で実行されているかどうかを返す
func IsElevated() bool {
	return os.Geteuid() == 0
}

type sudoRelauncher struct{}

// NewRelauncher はsudo経由で再起動するRelauncherを返す
func NewRelauncher() Relauncher {
	return sudoRelauncher{}
}

// Relaunch はsudoで実行ファイルを起動し直す。起動したら待たずに戻る
func (sudoRelauncher) Relaunch(exe string, args []string, workDir string) error {
	cmd := exec.Command("sudo", append([]string{exe}, args...)...)
	cmd.Dir = workDir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("昇格要求に失敗しました: %w", err)
	}
	return nil
}
