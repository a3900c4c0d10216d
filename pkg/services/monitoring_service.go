package services

import (
	"strings"
	"sync"
	"time"

	"food-demand-chat-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const maxLogEntries = 10000

// LogEntry は単一のリクエストログを表します。
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"statusCode"`
	ResponseTime time.Duration `json:"responseTime"`
}

// MonitoringService はAPIのモニタリング機能を提供します。
type MonitoringService struct {
	logs []LogEntry
	mu   sync.RWMutex
	now  func() time.Time
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		logs: make([]LogEntry, 0),
		now:  time.Now,
	}
}

// LogRequest はリクエストを記録します。古いものから捨てる。
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[len(s.logs)-maxLogEntries:]
	}
}

// LoggingMiddleware はリクエスト情報をログ出力・記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		latency := time.Since(start)

		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"ip":         c.ClientIP(),
		}
		switch {
		case status >= 500:
			logger.Error(fields, "Server error")
		case status >= 400:
			logger.Warn(fields, "Client error")
		default:
			logger.Info(fields, "Success")
		}

		// 管理・モニタリングAPI自体は集計対象外
		if strings.HasPrefix(path, "/api/v1/admin") || strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}
		s.LogRequest(LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   status,
			ResponseTime: latency,
		})
	}
}

// DashboardData はダッシュボードに表示するための集計済みデータです。
type DashboardData struct {
	TotalRequests    int              `json:"totalRequests"`
	Endpoints        map[string]int   `json:"endpoints"`
	StatusCodes      map[string]int   `json:"statusCodes"`
	AvgResponseTimes map[string]int64 `json:"avgResponseTimes"` // ミリ秒
	RecentErrors     []LogEntry       `json:"recentErrors"`
}

// GetDashboardData は指定された期間のログを集計してダッシュボード用データを返します。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := s.now().Add(-time.Duration(periodHours) * time.Hour)

	data := DashboardData{
		Endpoints: make(map[string]int),
		StatusCodes: map[string]int{
			"2xx Success":      0,
			"4xx Client Error": 0,
			"5xx Server Error": 0,
		},
		AvgResponseTimes: make(map[string]int64),
		RecentErrors:     make([]LogEntry, 0),
	}

	responseTimeSum := make(map[string]time.Duration)
	for _, entry := range s.logs {
		if !entry.Timestamp.After(since) {
			continue
		}
		data.TotalRequests++
		data.Endpoints[entry.Path]++
		responseTimeSum[entry.Path] += entry.ResponseTime

		switch {
		case entry.StatusCode >= 500:
			data.StatusCodes["5xx Server Error"]++
		case entry.StatusCode >= 400:
			data.StatusCodes["4xx Client Error"]++
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			data.StatusCodes["2xx Success"]++
		}
	}

	for path, total := range responseTimeSum {
		data.AvgResponseTimes[path] = total.Milliseconds() / int64(data.Endpoints[path])
	}

	// 直近の5xxエラーを新しい順に最大10件
	for i := len(s.logs) - 1; i >= 0 && len(data.RecentErrors) < 10; i-- {
		entry := s.logs[i]
		if entry.Timestamp.After(since) && entry.StatusCode >= 500 {
			data.RecentErrors = append(data.RecentErrors, entry)
		}
	}

	return data
}
