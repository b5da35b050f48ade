package consts

// WSA パッケージ関連の定数
const (
	PackageFamily   = "MicrosoftCorporationII.WindowsSubsystemForAndroid_8wekyb3d8bbwe" // WSAのパッケージファミリー名
	ClientExeName   = "WsaClient.exe"   // WSAクライアントのプロセス名
	SettingsExeName = "WsaSettings.exe" // WSA設定画面のプロセス名
	ShutdownArg     = "/shutdown"       // WSAをシャットダウンする引数
	LaunchArg       = "/launch"         // Androidアプリを起動する引数
	AppURIPrefix    = "wsa://"          // アプリ起動用URIのプレフィックス
)

// プロファイル管理用のファイル名
const (
	ProfilesDirName = "Tom_Profiles" // プロファイル格納ディレクトリ名
	QueueFileName   = "_queue.txt"   // 切り替えキューのファイル名
	ActiveFileName  = "_active.txt"  // 現在のプロファイル名を記録するファイル名
	VHDXExt         = ".vhdx"        // ユーザーデータイメージの拡張子
	DatExt          = ".dat"         // 設定ファイルの拡張子
)

// 切り替え先となるWSA本体側のファイル（ベースディレクトリからの相対パス）
const (
	TargetVHDXName = "userdata.2.vhdx" // LocalCache配下のユーザーデータ
	TargetDatName  = "settings.dat"    // Settings配下の設定ファイル
	LocalCacheDir  = "LocalCache"
	SettingsDir    = "Settings"
)
