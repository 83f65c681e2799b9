package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BotsUP-A42/agent-diary/internal/dto"
	"github.com/BotsUP-A42/agent-diary/internal/extract"
	"github.com/BotsUP-A42/agent-diary/internal/repository"
	"github.com/BotsUP-A42/agent-diary/internal/schema"
	"github.com/BotsUP-A42/agent-diary/internal/service"
	"github.com/BotsUP-A42/agent-diary/internal/testutil"
)

// emptyNoteSource 手动触发路径用的空源
type emptyNoteSource struct{}

func (emptyNoteSource) Read(ctx context.Context, date string) (string, error) {
	return "", service.ErrNoteNotFound
}

func newTestAPI(t *testing.T) (http.Handler, *repository.LogRepository, *service.LogService) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	logRepo := repository.NewLogRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	stats := service.NewStatsService(logRepo, statsRepo)
	logs := service.NewLogService(logRepo, stats)
	ingest := service.NewIngestService(logRepo, stats, emptyNoteSource{}, nil, extract.New(extract.DefaultPolicy()), 10*time.Second)
	return NewAPI(logs, stats, ingest).Router(), logRepo, logs
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, out any) int {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s: %v\n%s", method, path, err, w.Body.String())
		}
	}
	return w.Code
}

func TestListLogsPagination(t *testing.T) {
	router, logRepo, _ := newTestAPI(t)
	ctx := context.Background()

	for i := 1; i <= 15; i++ {
		record := &schema.LogRecord{
			Date:    fmt.Sprintf("2026-01-%02d", i),
			Title:   "t",
			Content: "c",
		}
		if err := logRepo.Upsert(ctx, record); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	var page1 dto.LogListDTO
	if code := doJSON(t, router, "GET", "/api/logs?page=1&limit=10", "", &page1); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if len(page1.Logs) != 10 {
		t.Fatalf("page1 len=%d, want 10", len(page1.Logs))
	}
	if page1.Logs[0].Date != "2026-01-15" {
		t.Fatalf("page1 first=%s, want 2026-01-15 (date desc)", page1.Logs[0].Date)
	}
	p := page1.Pagination
	if p.Total != 15 || p.TotalPages != 2 || !p.HasMore {
		t.Fatalf("pagination=%+v", p)
	}
	if p.NextCursor != "2026-01-06" {
		t.Fatalf("nextCursor=%s, want 2026-01-06", p.NextCursor)
	}

	var page2 dto.LogListDTO
	doJSON(t, router, "GET", "/api/logs?page=2&limit=10", "", &page2)
	if len(page2.Logs) != 5 || page2.Pagination.HasMore {
		t.Fatalf("page2 len=%d hasMore=%v, want 5/false", len(page2.Logs), page2.Pagination.HasMore)
	}
}

func TestGetLogNotFoundAndBadDate(t *testing.T) {
	router, _, _ := newTestAPI(t)

	if code := doJSON(t, router, "GET", "/api/logs/2026-01-02", "", nil); code != http.StatusNotFound {
		t.Fatalf("missing record status=%d, want 404", code)
	}
	if code := doJSON(t, router, "GET", "/api/logs/not-a-date", "", nil); code != http.StatusBadRequest {
		t.Fatalf("bad date status=%d, want 400", code)
	}
}

func TestCreateLogValidation(t *testing.T) {
	router, _, _ := newTestAPI(t)

	// 缺 title
	body := `{"date":"2026-01-02","content":"c"}`
	if code := doJSON(t, router, "POST", "/api/logs", body, nil); code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", code)
	}
}

func TestCreateLogThenStats(t *testing.T) {
	router, _, _ := newTestAPI(t)

	body := `{
		"date": "2026-01-02",
		"title": "工作日誌",
		"content": "內容",
		"tasks": [{"id":0,"description":"deploy","category":"development","status":"completed"}],
		"tags": ["daily"]
	}`
	var created dto.CreateLogResponse
	if code := doJSON(t, router, "POST", "/api/logs", body, &created); code != http.StatusOK {
		t.Fatalf("create status=%d", code)
	}
	if !created.Success || created.ID != "2026-01-02" {
		t.Fatalf("created=%+v", created)
	}

	var stats dto.StatsOverviewDTO
	if code := doJSON(t, router, "GET", "/api/stats", "", &stats); code != http.StatusOK {
		t.Fatalf("stats status=%d", code)
	}
	if stats.TotalDays != 1 || stats.TotalTasks != 1 {
		t.Fatalf("stats=%+v", stats)
	}
	if stats.CategoryDistribution["development"] != 1 {
		t.Fatalf("distribution=%v", stats.CategoryDistribution)
	}
	if len(stats.RecentLogs) != 1 {
		t.Fatalf("recentLogs=%d, want 1", len(stats.RecentLogs))
	}
}

// TestStatsZeroShape 未有任何数据时统计接口给全零可渲染形状
func TestStatsZeroShape(t *testing.T) {
	router, _, _ := newTestAPI(t)

	var stats dto.StatsOverviewDTO
	if code := doJSON(t, router, "GET", "/api/stats", "", &stats); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if stats.TotalDays != 0 || stats.TotalCost != 0 || stats.AverageDailyCost != 0 {
		t.Fatalf("stats=%+v, want zeros", stats)
	}
	if stats.CategoryDistribution == nil {
		t.Fatal("categoryDistribution must be {} not null")
	}
	if stats.RecentLogs == nil {
		t.Fatal("recentLogs must be [] not null")
	}
}

// TestManualIngest 手动触发发布：无源日誌也要发布占位记录
func TestManualIngest(t *testing.T) {
	router, logRepo, _ := newTestAPI(t)

	var result service.IngestResult
	if code := doJSON(t, router, "POST", "/api/logs/2026-01-02/ingest", "", &result); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if result.State != service.StateDone || !result.Fallback {
		t.Fatalf("result=%+v", result)
	}

	record, err := logRepo.GetByDate(context.Background(), "2026-01-02")
	if err != nil || record == nil {
		t.Fatalf("record=%v err=%v", record, err)
	}
}
