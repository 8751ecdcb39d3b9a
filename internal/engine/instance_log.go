package engine

import (
	"fmt"
	"time"

	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
)

// AddLog appends a line to the game log sent with the next update.
func (i *Instance) AddLog(text, logType string) {
	if logType == "" {
		logType = "INFO"
	}
	i.Logs = append(i.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", i.CurrentTick, len(i.Logs)),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	logger.Log.WithFields(logrus.Fields{
		"instance":  i.Name,
		"component": "game_log",
		"log_type":  logType,
	}).Info(text)
}
