package handler

import (
	"context"
	"time"

	"headline-radar/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type CycleRunner interface {
	RunCycle(ctx context.Context, now time.Time) (domain.CycleResult, error)
	Latest(ctx context.Context) (*domain.CycleResult, error)
	Query(ctx context.Context, params domain.FilterParams) ([]domain.WeightedRecord, error)
}

type Handler struct {
	tracer trace.Tracer
	cycles CycleRunner
}

func New(tracer trace.Tracer, cycles CycleRunner) *Handler {
	return &Handler{
		tracer: tracer,
		cycles: cycles,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.POST("/api/cycle/run", h.TriggerCycle)
	r.GET("/api/records", h.GetRecords)
	r.GET("/api/summary", h.GetSummary)
	r.GET("/api/export.csv", h.ExportCSV)
}
