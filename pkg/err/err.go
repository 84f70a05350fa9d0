package errprocess

import (
	"errors"

	"community_chat_service/pkg/logger"
)

// Set logs the error message and returns it as an error
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}
