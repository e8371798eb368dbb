package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	service *Service
}

func NewHealthService(service *Service) *HealthService {
	return &HealthService{service: service}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.service.parser == nil {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	} else {
		status.Components["parser"] = "ok"
	}

	if s.service.store == nil {
		status.Status = "degraded"
		status.Components["history"] = "missing"
		return status
	}

	stats, err := s.service.store.Stats()
	if err != nil {
		status.Status = "degraded"
		status.Components["history"] = fmt.Sprintf("unreadable: %v", err)
		return status
	}
	status.Components["history"] = fmt.Sprintf("ok (%d entries)", stats.TotalAnalyses)

	return status
}
