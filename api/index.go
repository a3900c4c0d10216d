package handler

import (
	"context"
	"net/http"
	"sync"

	config "food-demand-chat-api/configs"
	"food-demand-chat-api/pkg/logger"
	"food-demand-chat-api/pkg/server"

	"github.com/gin-gonic/gin"
)

var (
	app     *gin.Engine
	initErr error
	once    sync.Once
)

// setupApp はGinアプリケーションを初期化します。
// サーバーレス環境では、リクエストごとに初期化が走らないようsync.Onceで一度だけ実行します。
// セッションはインスタンスのメモリ上にのみ存在する。
func setupApp() (*gin.Engine, error) {
	once.Do(func() {
		// .envファイルはデプロイ先の環境変数設定から読み込まれるため、ここではgodotenvを呼び出しません。
		cfg := config.LoadConfig()
		logger.Setup(logger.Options{Level: cfg.LogLevel, NoColor: true})

		app, initErr = server.New(context.Background(), cfg)
		if initErr != nil {
			logger.Error(logger.Fields{"error": initErr.Error()}, "failed to initialize application")
		}
	})
	return app, initErr
}

// Handler はサーバーレス関数のエントリーポイントです。
func Handler(w http.ResponseWriter, r *http.Request) {
	engine, err := setupApp()
	if err != nil {
		http.Error(w, `{"success":false,"error":"service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	engine.ServeHTTP(w, r)
}
