package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"headline-radar/internal/domain"
	"headline-radar/internal/engine"

	"github.com/gin-gonic/gin"
)

// TriggerCycle godoc
// @Summary      Run one sentiment refresh cycle manually
// @Description  Fetches headlines and market data, scores and aggregates them, and replaces the stored generation
// @Tags         cycle
// @Produce      json
// @Success      200  {object}  domain.CycleResult
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/cycle/run [post]
func (h *Handler) TriggerCycle(c *gin.Context) {
	if h.cycles == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cycle service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-cycle")
	defer span.End()

	result, err := h.cycles.RunCycle(ctx, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecords godoc
// @Summary      Query the latest cycle's weighted records
// @Description  Filters by comma-separated tickers, minimum weighted sentiment, and minimum relative volume; conditions are ANDed
// @Tags         cycle
// @Produce      json
// @Param        tickers              query  string   false  "Comma-separated ticker symbols"
// @Param        min_sentiment        query  number   false  "Minimum weighted sentiment (inclusive)"
// @Param        min_relative_volume  query  number   false  "Minimum relative volume (inclusive)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/records [get]
func (h *Handler) GetRecords(c *gin.Context) {
	if h.cycles == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cycle service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-records")
	defer span.End()

	params, err := parseFilterParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.cycles.Query(ctx, params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		latest, err := h.cycles.Latest(ctx)
		if err == nil && latest == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no cycle has run yet"})
			return
		}
		records = []domain.WeightedRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}

// GetSummary godoc
// @Summary      Latest cycle correlation summary
// @Description  Returns the Pearson coefficient, quadrant counts, and warnings for the latest cycle
// @Tags         cycle
// @Produce      json
// @Success      200  {object}  domain.CycleResult
// @Failure      404  {object}  map[string]string
// @Router       /api/summary [get]
func (h *Handler) GetSummary(c *gin.Context) {
	if h.cycles == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cycle service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-summary")
	defer span.End()

	latest, err := h.cycles.Latest(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if latest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cycle has run yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window_id":        latest.WindowID,
		"window_start":     latest.WindowStart,
		"window_end":       latest.WindowEnd,
		"headline_count":   latest.HeadlineCount,
		"scored_count":     latest.ScoredCount,
		"excluded_tickers": latest.ExcludedTickers,
		"summary":          latest.Summary,
		"errors":           latest.Errors,
	})
}

// ExportCSV godoc
// @Summary      Download the latest cycle's records as CSV
// @Description  Applies the same filters as /api/records and streams a CSV attachment
// @Tags         cycle
// @Produce      text/csv
// @Param        tickers              query  string   false  "Comma-separated ticker symbols"
// @Param        min_sentiment        query  number   false  "Minimum weighted sentiment (inclusive)"
// @Param        min_relative_volume  query  number   false  "Minimum relative volume (inclusive)"
// @Success      200  {string}  string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/export.csv [get]
func (h *Handler) ExportCSV(c *gin.Context) {
	if h.cycles == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cycle service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.export-csv")
	defer span.End()

	params, err := parseFilterParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	latest, err := h.cycles.Latest(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if latest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cycle has run yet"})
		return
	}

	records := engine.Filter(latest.Records, params)

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="sentiment_`+latest.WindowID+`.csv"`)
	c.Status(http.StatusOK)
	if err := engine.WriteCSV(c.Writer, records); err != nil {
		c.Error(err)
	}
}

func parseFilterParams(c *gin.Context) (domain.FilterParams, error) {
	var params domain.FilterParams

	if raw := strings.TrimSpace(c.Query("tickers")); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				params.Tickers = append(params.Tickers, t)
			}
		}
	}

	if raw := c.Query("min_sentiment"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, &queryParamError{name: "min_sentiment", value: raw}
		}
		params.MinSentiment = &v
	}

	if raw := c.Query("min_relative_volume"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, &queryParamError{name: "min_relative_volume", value: raw}
		}
		params.MinRelativeVolume = &v
	}

	return params, nil
}

type queryParamError struct {
	name  string
	value string
}

func (e *queryParamError) Error() string {
	return "invalid " + e.name + ": " + e.value
}
