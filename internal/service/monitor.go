package service

import (
	"sync"
	"time"
)

// Monitor 进程内计数器，统计核心操作与错误次数
type Monitor struct {
	mu sync.RWMutex

	// 业务统计
	Registers     int64
	Logins        int64
	OrdersPlaced  int64
	OrderErrors   int64
	EventsHandled int64

	// 基础设施错误
	MQErrors    int64
	CacheErrors int64

	// 时间统计
	LastOrderTime time.Time
	LastMQError   time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordRegister 记录注册成功
func (m *Monitor) RecordRegister() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Registers++
}

// RecordLogin 记录登录成功
func (m *Monitor) RecordLogin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logins++
}

// RecordOrderPlaced 记录下单成功
func (m *Monitor) RecordOrderPlaced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersPlaced++
	m.LastOrderTime = time.Now()
}

// RecordOrderError 记录下单失败
func (m *Monitor) RecordOrderError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderErrors++
}

// RecordEventHandled 记录 worker 消费的事件
func (m *Monitor) RecordEventHandled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EventsHandled++
}

// RecordMQError 记录 MQ 错误
func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
	m.LastMQError = time.Now()
}

// RecordCacheError 记录缓存错误
func (m *Monitor) RecordCacheError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheErrors++
}

// Stats 监控快照
type Stats struct {
	Registers     int64  `json:"registers"`
	Logins        int64  `json:"logins"`
	OrdersPlaced  int64  `json:"orders_placed"`
	OrderErrors   int64  `json:"order_errors"`
	EventsHandled int64  `json:"events_handled"`
	MQErrors      int64  `json:"mq_errors"`
	CacheErrors   int64  `json:"cache_errors"`
	LastOrderTime string `json:"last_order_time,omitempty"`
	LastMQError   string `json:"last_mq_error,omitempty"`
}

// Snapshot 导出当前统计值
func (m *Monitor) Snapshot() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Stats{
		Registers:     m.Registers,
		Logins:        m.Logins,
		OrdersPlaced:  m.OrdersPlaced,
		OrderErrors:   m.OrderErrors,
		EventsHandled: m.EventsHandled,
		MQErrors:      m.MQErrors,
		CacheErrors:   m.CacheErrors,
	}
	if !m.LastOrderTime.IsZero() {
		s.LastOrderTime = m.LastOrderTime.Format("2006-01-02 15:04:05")
	}
	if !m.LastMQError.IsZero() {
		s.LastMQError = m.LastMQError.Format("2006-01-02 15:04:05")
	}
	return s
}
