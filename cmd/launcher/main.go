package main

import (
	"fmt"
	"os"

	"github.com/robocrax/wsa-profile-switcher/internal/elevate"
	"github.com/robocrax/wsa-profile-switcher/internal/launcher"
)

func main() {
	l := &launcher.Launcher{
		Interpreter: "python",
		TargetName:  "wsa_profile_switcher.py",
		Probe:       elevate.IsElevated,
		Relauncher:  elevate.NewRelauncher(),
	}

	code, err := l.Launch()
	if err != nil {
		fmt.Println(err)
		pause()
	}
	os.Exit(code)
}

// pause はコンソールウィンドウが閉じる前にメッセージを読めるように入力を待つ
func pause() {
	fmt.Println("Enter キーを押すと終了します...")
	_, _ = fmt.Scanln()
}
