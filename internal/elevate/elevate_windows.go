//go:build windows

package elevate

import (
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// IsElevated は現在のプロセスが管理者権限で実行されているかどうかを返す。
// 判定に失敗した場合は昇格していないものとして扱う
func IsElevated() bool {
	var token windows.Token
	if err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_QUERY, &token); err != nil {
		return false
	}
	defer token.Close()

	if token.IsElevated() {
		return true
	}

	// UAC無効環境向けにAdministratorsグループのメンバーシップも確認する
	adminSID, err := windows.CreateWellKnownSid(windows.WinBuiltinAdministratorsSid)
	if err != nil {
		return false
	}
	member, err := token.IsMember(adminSID)
	return err == nil && member
}

type runasRelauncher struct{}

// NewRelauncher はUACプロンプト経由で再起動するRelauncherを返す
func NewRelauncher() Relauncher {
	return runasRelauncher{}
}

// Relaunch はShellExecuteのrunas動詞で昇格プロンプトを表示して起動する。
// ユーザーがプロンプトを拒否した場合はエラーが返る
func (runasRelauncher) Relaunch(exe string, args []string, workDir string) error {
	verbPtr, err := syscall.UTF16PtrFromString("runas")
	if err != nil {
		return err
	}
	exePtr, err := syscall.UTF16PtrFromString(exe)
	if err != nil {
		return err
	}
	argsPtr, err := syscall.UTF16PtrFromString(strings.Join(args, " "))
	if err != nil {
		return err
	}
	cwdPtr, err := syscall.UTF16PtrFromString(workDir)
	if err != nil {
		return err
	}

	if err := windows.ShellExecute(0, verbPtr, exePtr, argsPtr, cwdPtr, windows.SW_NORMAL); err != nil {
		return fmt.Errorf("昇格要求に失敗しました: %w", err)
	}
	return nil
}
