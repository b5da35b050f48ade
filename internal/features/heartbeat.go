package features

import (
	"fmt"
	"net/http"
	"time"
)

// SendHeartbeat は稼働監視サービスへハートビートを送信する
func SendHeartbeat(url string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("ハートビートの送信に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ハートビートがステータス %d で拒否されました", resp.StatusCode)
	}
	return nil
}
