package elevate

// Probe は現在のプロセスが管理者権限を持つかどうかを判定する関数型
type Probe func() bool

// Relauncher は権限昇格を要求して実行ファイルを起動し直すインターフェース
type Relauncher interface {
	// Relaunch は指定された実行ファイルを昇格プロンプト付きで起動する。
	// 起動要求を発行したら待たずに戻る（昇格後プロセスの終了は追跡しない）
	Relaunch(exe string, args []string, workDir string) error
}
