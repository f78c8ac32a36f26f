package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testSource(url string) *Source {
	return &Source{
		Name:           "dbd-press",
		Kind:           "api",
		URL:            url,
		ArticleBaseURL: "https://www.example.go.th/news",
		Author:         "กรมพัฒนาธุรกิจการค้า (DBD)",
		Settings: SourceSettings{
			Enabled: true,
			Limit:   10,
			Timeout: 5,
		},
	}
}

func listingResponse(items []map[string]string) []byte {
	payload := map[string]interface{}{
		"statusCode": 200,
		"data": map[string]interface{}{
			"total":  len(items),
			"result": items,
		},
	}
	data, _ := json.Marshal(payload)
	return data
}

func TestAPIClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listingResponse([]map[string]string{
			{
				"title":     "ข่าวที่หนึ่ง",
				"text":      "<p>เนื้อหา <strong>ฉบับเต็ม</strong></p>",
				"slug":      "article-1",
				"date":      "22 ตุลาคม 2568",
				"thumbnail": "https://cdn.example/1.jpg",
			},
			{
				"title": "ข่าวที่สอง",
				"intro": "เนื้อหาย่อ",
				"slug":  "article-2",
				"date":  "21 ตุลาคม 2568",
			},
		}))
	}))
	defer server.Close()

	client := NewAPIClient(testSource(server.URL), server.Client(), "Presswire Test/1.0")

	articles, err := client.Fetch(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}

	// Order must follow the listing order (most recent first)
	if articles[0].Title != "ข่าวที่หนึ่ง" {
		t.Errorf("Expected first listing item first, got %q", articles[0].Title)
	}

	if articles[0].Content != "เนื้อหา ฉบับเต็ม" {
		t.Errorf("Expected cleaned HTML content, got %q", articles[0].Content)
	}
	if articles[1].Content != "เนื้อหาย่อ" {
		t.Errorf("Expected intro fallback content, got %q", articles[1].Content)
	}

	if articles[0].SourceURL != "https://www.example.go.th/news/article-1" {
		t.Errorf("Unexpected article URL: %s", articles[0].SourceURL)
	}

	want := time.Date(2025, time.October, 22, 0, 0, 0, 0, time.UTC)
	if !articles[0].PublishedAt.Equal(want) {
		t.Errorf("Expected normalized publish time %v, got %v", want, articles[0].PublishedAt)
	}
	if articles[0].RawDate != "22 ตุลาคม 2568" {
		t.Errorf("Raw date string should be preserved, got %q", articles[0].RawDate)
	}
}

func TestAPIClient_Fetch_KeywordPassedToQuery(t *testing.T) {
	var gotKeyword, gotLimit string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKeyword = r.URL.Query().Get("keyword")
		gotLimit = r.URL.Query().Get("limit")
		w.Write(listingResponse(nil))
	}))
	defer server.Close()

	client := NewAPIClient(testSource(server.URL), server.Client(), "Presswire Test/1.0")

	if _, err := client.Fetch(context.Background(), 5, "นอมินี"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotKeyword != "นอมินี" {
		t.Errorf("Expected keyword forwarded to the API, got %q", gotKeyword)
	}
	if gotLimit != "5" {
		t.Errorf("Expected limit forwarded to the API, got %q", gotLimit)
	}
}

func TestAPIClient_Fetch_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listingResponse(nil))
	}))
	defer server.Close()

	client := NewAPIClient(testSource(server.URL), server.Client(), "Presswire Test/1.0")

	articles, err := client.Fetch(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("Empty listing should not be an error: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("Expected no articles, got %d", len(articles))
	}
}

func TestAPIClient_Fetch_TruncatesToLimit(t *testing.T) {
	items := make([]map[string]string, 5)
	for i := range items {
		items[i] = map[string]string{"title": "item", "intro": "content", "slug": "s", "date": "22 ตุลาคม 2568"}
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listingResponse(items))
	}))
	defer server.Close()

	client := NewAPIClient(testSource(server.URL), server.Client(), "Presswire Test/1.0")

	articles, err := client.Fetch(context.Background(), 3, "")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(articles) != 3 {
		t.Errorf("Expected result truncated to 3 articles, got %d", len(articles))
	}
}

func TestAPIClient_Fetch_APIErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := json.Marshal(map[string]interface{}{
			"statusCode": 500,
			"message":    "internal error",
		})
		w.Write(payload)
	}))
	defer server.Close()

	client := NewAPIClient(testSource(server.URL), server.Client(), "Presswire Test/1.0")

	if _, err := client.Fetch(context.Background(), 10, ""); err == nil {
		t.Error("Expected an error for an API error envelope")
	}
}

func TestAPIClient_Fetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewAPIClient(testSource(server.URL), server.Client(), "Presswire Test/1.0")

	if _, err := client.Fetch(context.Background(), 10, ""); err == nil {
		t.Error("Expected an error for an HTTP failure")
	}
}
