package testtool

import (
	"net/http"
	_ "net/http/pprof" // registers the pprof endpoints

	"community_chat_service/pkg/config"
	"community_chat_service/pkg/logger"
)

// StartPprof exposes the pprof endpoints outside production
func StartPprof() {
	if !config.IsProduction() {
		go func() {
			logger.Log.Info("pprof listening on :6060")
			if err := http.ListenAndServe("localhost:6060", nil); err != nil {
				logger.Log.Errorf("pprof server stopped:", err)
			}
		}()
	}
}
