package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/robocrax/wsa-profile-switcher/internal/config"
	"github.com/robocrax/wsa-profile-switcher/internal/features"
)

// ルートの設定
func (s *Server) setupRoutes(router *http.ServeMux) {
	// 設定関連のエンドポイント
	router.HandleFunc("GET /api/config", s.handleGetConfig)
	router.HandleFunc("PUT /api/config", s.handleUpdateConfig)
	router.HandleFunc("POST /api/config/save", s.handleSaveConfig)

	// プロファイル関連のエンドポイント
	router.HandleFunc("GET /api/profiles", s.handleGetProfiles)
	router.HandleFunc("POST /api/switch", s.handleSwitch)
	router.HandleFunc("GET /api/status", s.handleStatus)

	// ヘルスチェック用エンドポイント
	router.HandleFunc("GET /api/health", s.handleHealthCheck)
}

// 設定取得ハンドラ
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.GetConfig())
}

// 設定更新ハンドラ
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var newConfig config.Config

	if err := json.NewDecoder(r.Body).Decode(&newConfig); err != nil {
		writeError(w, http.StatusBadRequest, "設定の解析に失敗しました")
		return
	}

	s.UpdateConfig(&newConfig)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// 設定保存ハンドラ
func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var saveRequest struct {
		Path string `json:"path"`
	}

	if err := json.NewDecoder(r.Body).Decode(&saveRequest); err != nil {
		writeError(w, http.StatusBadRequest, "リクエストの解析に失敗しました")
		return
	}

	configPath := saveRequest.Path
	if configPath == "" {
		// デフォルトパスを使用
		userConfigDir, err := config.GetDefaultConfigDir()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "デフォルト設定ディレクトリの取得に失敗しました")
			return
		}
		configPath = filepath.Join(userConfigDir, "config.toml")
	}

	if err := config.SaveConfig(configPath, s.GetConfig()); err != nil {
		writeError(w, http.StatusInternalServerError, "設定の保存に失敗しました: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"path":   configPath,
	})
}

// プロファイル一覧取得ハンドラ
func (s *Server) handleGetProfiles(w http.ResponseWriter, r *http.Request) {
	// モニターが動いていればキャッシュを、なければ直接スキャンする
	if s.monitor != nil {
		writeJSON(w, http.StatusOK, s.monitor.GetProfiles())
		return
	}

	profiles, err := features.ScanProfiles(s.GetConfig().Profiles.Dir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "プロファイル一覧の取得に失敗しました: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// プロファイル切り替えハンドラ
func (s *Server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.SwitchOnce()
	if err != nil {
		switch {
		case errors.Is(err, features.ErrSwitchInProgress):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, features.ErrNotElevated):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "切り替えに失敗しました: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// 状態取得ハンドラ
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Status())
}

// ヘルスチェックハンドラ
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
