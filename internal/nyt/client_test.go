package nyt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bestsellers/internal/config"
)

const overviewJSON = `{
  "status": "OK",
  "results": {
    "published_date": "2022-09-18",
    "lists": [
      {
        "list_id": 704,
        "list_name": "Combined Print and E-Book Fiction",
        "display_name": "Combined Print & E-Book Fiction",
        "books": [
          {
            "rank": 1,
            "title": "FAIRY TALE",
            "author": "Stephen King",
            "description": "A high school kid inherits the keys to a parallel world.",
            "publisher": "Scribner",
            "primary_isbn10": "1668002175",
            "primary_isbn13": "9781668002179",
            "book_image": "https://storage.googleapis.com/du-prd/books/images/9781668002179.jpg"
          }
        ]
      }
    ]
  }
}`

const historyJSON = `{
  "status": "OK",
  "num_results": 1,
  "results": [
    {
      "title": "FAIRY TALE",
      "description": "A high school kid inherits the keys to a parallel world.",
      "author": "Stephen King",
      "publisher": "Scribner"
    }
  ]
}`

func newTestClient(serverURL string) *Client {
	return NewClient(config.NYT{APIKey: "test-key", BaseURL: serverURL, Timeout: 5 * time.Second})
}

func TestFullOverview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/full-overview.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api-key"))
		assert.Equal(t, "2022-09-18", r.URL.Query().Get("published_date"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(overviewJSON))
	}))
	defer server.Close()

	lists, err := newTestClient(server.URL).FullOverview(context.Background(), "2022-09-18")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Combined Print & E-Book Fiction", lists[0].DisplayName)
	require.Len(t, lists[0].Books, 1)

	book := lists[0].Books[0]
	assert.Equal(t, 1, book.Rank)
	assert.Equal(t, "FAIRY TALE", book.Title)
	assert.Equal(t, "Scribner", book.Publisher)
	assert.Equal(t, "1668002175", book.PrimaryISBN10)
}

func TestFullOverview_MissingLists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","results":{}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FullOverview(context.Background(), "2022-09-18")
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/best-sellers/history.json", r.URL.Path)
		assert.Equal(t, "1668002175", r.URL.Query().Get("isbn"))
		_, _ = w.Write([]byte(historyJSON))
	}))
	defer server.Close()

	books, err := newTestClient(server.URL).History(context.Background(), "1668002175")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, HistoryBook{
		Title:       "FAIRY TALE",
		Author:      "Stephen King",
		Description: "A high school kid inherits the keys to a parallel world.",
		Publisher:   "Scribner",
	}, books[0])
}

func TestHistory_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","num_results":0,"results":[]}`))
	}))
	defer server.Close()

	books, err := newTestClient(server.URL).History(context.Background(), "0000000000")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestHistory_MissingResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).History(context.Background(), "0000000000")
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestClient_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"fault":{"faultstring":"Invalid ApiKey","detail":{}}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).History(context.Background(), "1668002175")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid ApiKey")
}

func TestClient_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FullOverview(context.Background(), "2022-09-18")
	assert.Error(t, err)
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(historyJSON))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).History(ctx, "1668002175")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(config.NYT{BaseURL: "http://example.com/lists"})
	assert.Equal(t, "http://example.com/lists/", c.baseURL)
	assert.Equal(t, 10*time.Second, c.httpClient.Timeout)

	c = NewClient(config.NYT{})
	assert.Equal(t, config.DefaultNYTBaseURL, c.baseURL)
}
