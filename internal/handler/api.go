// Package handler 对外 HTTP API。读路径永远返回可渲染的形状：
// 无数据时给空列表/全零统计，而不是错误。
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BotsUP-A42/agent-diary/internal/dto"
	"github.com/BotsUP-A42/agent-diary/internal/repository"
	"github.com/BotsUP-A42/agent-diary/internal/service"
)

// recentWindowDays 统计页附带的最近日誌窗口
const recentWindowDays = 30

// API HTTP 处理器集合
type API struct {
	logs   *service.LogService
	stats  *service.StatsService
	ingest *service.IngestService
}

// NewAPI 创建处理器
func NewAPI(logs *service.LogService, stats *service.StatsService, ingest *service.IngestService) *API {
	return &API{logs: logs, stats: stats, ingest: ingest}
}

// Router 组装路由
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Get("/logs", a.handleListLogs)
		r.Post("/logs", a.handleCreateLog)
		r.Get("/logs/{date}", a.handleGetLog)
		r.Post("/logs/{date}/ingest", a.handleIngest)
		r.Get("/stats", a.handleGetStats)
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListLogs 分页列表，date 倒序，支持日期范围/标签/类别过滤
func (a *API) handleListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := repository.ListOptions{
		Page:      queryInt(r, "page", 1),
		Limit:     queryInt(r, "limit", 10),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Tag:       q.Get("tag"),
		Category:  q.Get("category"),
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	records, total, err := a.logs.List(r.Context(), opts)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "查询日誌失败")
		return
	}

	out := dto.LogListDTO{
		Logs: make([]dto.LogDTO, 0, len(records)),
		Pagination: dto.PaginationDTO{
			Page:       opts.Page,
			Limit:      opts.Limit,
			Total:      total,
			TotalPages: int((total + int64(opts.Limit) - 1) / int64(opts.Limit)),
			HasMore:    int64(opts.Page*opts.Limit) < total,
		},
	}
	for i := range records {
		out.Logs = append(out.Logs, toLogDTO(&records[i]))
	}
	if out.Pagination.HasMore && len(records) > 0 {
		out.Pagination.NextCursor = records[len(records)-1].Date
	}

	WriteJSON(w, http.StatusOK, out)
}

func (a *API) handleGetLog(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		WriteError(w, http.StatusBadRequest, "date 必须是 YYYY-MM-DD")
		return
	}

	record, err := a.logs.Get(r.Context(), date)
	if err != nil {
		if errors.Is(err, service.ErrLogNotFound) {
			WriteAPIError(w, http.StatusNotFound, APIError{Error: "日誌不存在", Code: "not-found"})
			return
		}
		WriteError(w, http.StatusInternalServerError, "查询日誌失败")
		return
	}

	WriteJSON(w, http.StatusOK, toLogDTO(record))
}

// handleCreateLog 手动写入（信任调用方），校验失败不触存储
func (a *API) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLogRequest
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "请求体不是合法 JSON")
		return
	}
	if req.Date != "" && !validDate(req.Date) {
		WriteError(w, http.StatusBadRequest, "date 必须是 YYYY-MM-DD")
		return
	}

	record := fromCreateRequest(&req)
	if err := a.logs.Create(r.Context(), record); err != nil {
		if errors.Is(err, service.ErrValidation) {
			WriteAPIError(w, http.StatusBadRequest, APIError{Error: err.Error(), Code: "invalid-argument"})
			return
		}
		WriteError(w, http.StatusInternalServerError, "写入日誌失败")
		return
	}

	WriteJSON(w, http.StatusOK, dto.CreateLogResponse{Success: true, ID: record.Date})
}

// handleIngest 手动触发某天的发布管道（调度之外的运维入口）
func (a *API) handleIngest(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		WriteError(w, http.StatusBadRequest, "date 必须是 YYYY-MM-DD")
		return
	}

	result, err := a.ingest.Ingest(r.Context(), date)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "发布管道失败")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// handleGetStats 统计快照 + 最近窗口。无数据时给全零默认值。
func (a *API) handleGetStats(w http.ResponseWriter, r *http.Request) {
	snapshot, recent, err := a.stats.Overview(r.Context(), recentWindowDays)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "查询统计失败")
		return
	}

	out := dto.StatsOverviewDTO{
		StatsDTO:   toStatsDTO(snapshot),
		RecentLogs: make([]dto.LogDTO, 0, len(recent)),
	}
	for i := range recent {
		out.RecentLogs = append(out.RecentLogs, toLogDTO(&recent[i]))
	}

	WriteJSON(w, http.StatusOK, out)
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
