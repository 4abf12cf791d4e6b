package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// pageServer serves a synthetic offset-paginated track collection with
// absolute next/previous links, the way the Web API composes them.
type pageServer struct {
	srv      *httptest.Server
	total    int
	requests int
	failNext bool
}

func newPageServer(t *testing.T, total int) *pageServer {
	t.Helper()
	s := &pageServer{total: total}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests++
		if s.failNext {
			s.failNext = false
			http.Error(w, "oops", http.StatusInternalServerError)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if limit <= 0 {
			limit = 20
		}

		page := Page[Track]{Total: s.total, Limit: limit, Offset: offset}
		for i := offset; i < s.total && i < offset+limit; i++ {
			page.Items = append(page.Items, Track{ID: fmt.Sprintf("track-%d", i)})
		}
		if offset+limit < s.total {
			next := s.link(limit, offset+limit)
			page.Next = &next
		}
		if offset > 0 {
			prevOffset := offset - limit
			if prevOffset < 0 {
				prevOffset = 0
			}
			prev := s.link(limit, prevOffset)
			page.Previous = &prev
		}

		json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *pageServer) link(limit, offset int) string {
	return fmt.Sprintf("%s/tracks?limit=%d&offset=%d", s.srv.URL, limit, offset)
}

func (s *pageServer) pager(limit int) *Pager[Page[Track]] {
	flow := &stubFlow{tok: validToken()}
	client := NewClient(ClientOpts{Flow: flow, BaseURL: s.srv.URL})
	return NewPager(client, s.link(limit, 0), PageLinks[Track])
}

func TestPager(t *testing.T) {
	ctx := context.Background()

	t.Run("Forward Exhaustion", func(t *testing.T) {
		server := newPageServer(t, 205)
		pager := server.pager(100)

		for i, want := range []int{100, 100, 5} {
			page, err := pager.Next(ctx)
			if err != nil {
				t.Fatalf("page %d: expected fetch to succeed, got %v", i+1, err)
			}
			if page == nil || len(page.Items) != want {
				t.Fatalf("page %d: expected %d items, got %+v", i+1, want, page)
			}
			if pager.Position() != i+1 {
				t.Errorf("page %d: expected position %d, got %d", i+1, i+1, pager.Position())
			}
		}

		page, err := pager.Next(ctx)
		if page != nil || err != nil {
			t.Errorf("expected (nil, nil) past the last page, got %v, %v", page, err)
		}
		if pager.HasNext() {
			t.Error("expected no next link after exhaustion")
		}
		if total, ok := pager.Total(); !ok || total != 205 {
			t.Errorf("expected reported total 205, got %d (%v)", total, ok)
		}
	})

	t.Run("Empty Collection", func(t *testing.T) {
		server := newPageServer(t, 0)
		pager := server.pager(50)

		page, err := pager.Next(ctx)
		if err != nil {
			t.Fatalf("expected fetch to succeed, got %v", err)
		}
		if page == nil || len(page.Items) != 0 {
			t.Fatalf("expected an empty first page, got %+v", page)
		}

		// Exhaustion is terminal without further requests.
		if page, err := pager.Next(ctx); page != nil || err != nil {
			t.Errorf("expected (nil, nil), got %v, %v", page, err)
		}
		if page, err := pager.Prev(ctx); page != nil || err != nil {
			t.Errorf("expected (nil, nil), got %v, %v", page, err)
		}
		if server.requests != 1 {
			t.Errorf("expected exactly one request, got %d", server.requests)
		}
	})

	t.Run("Backward Traversal", func(t *testing.T) {
		server := newPageServer(t, 150)
		pager := server.pager(50)

		pager.Next(ctx)
		second, err := pager.Next(ctx)
		if err != nil {
			t.Fatalf("expected fetch to succeed, got %v", err)
		}
		if second.Items[0].ID != "track-50" {
			t.Fatalf("expected second page to start at track-50, got %q", second.Items[0].ID)
		}

		first, err := pager.Prev(ctx)
		if err != nil {
			t.Fatalf("expected fetch to succeed, got %v", err)
		}
		if first.Items[0].ID != "track-0" {
			t.Errorf("expected first page again, got %q", first.Items[0].ID)
		}
		if pager.Position() != 1 {
			t.Errorf("expected position 1 after going back, got %d", pager.Position())
		}

		// No page before the first.
		if page, err := pager.Prev(ctx); page != nil || err != nil {
			t.Errorf("expected (nil, nil) before the first page, got %v, %v", page, err)
		}
	})

	t.Run("Current Replays The Same Page", func(t *testing.T) {
		server := newPageServer(t, 150)
		pager := server.pager(50)

		pager.Next(ctx)
		pager.Next(ctx)
		before := pager.Position()

		// The collection shrinks between fetches, as after an unsave.
		server.total = 149
		page, err := pager.Current(ctx)
		if err != nil {
			t.Fatalf("expected refetch to succeed, got %v", err)
		}
		if page.Items[0].ID != "track-50" {
			t.Errorf("expected the same page offset, got %q", page.Items[0].ID)
		}
		if pager.Position() != before {
			t.Errorf("expected position unchanged, got %d", pager.Position())
		}
		if total, ok := pager.Total(); !ok || total != 149 {
			t.Errorf("expected refreshed total 149, got %d (%v)", total, ok)
		}
	})

	t.Run("Current Before First Fetch", func(t *testing.T) {
		server := newPageServer(t, 10)
		pager := server.pager(10)

		if page, err := pager.Current(ctx); page != nil || err != nil {
			t.Errorf("expected (nil, nil) before any traversal, got %v, %v", page, err)
		}
		if server.requests != 0 {
			t.Errorf("expected no requests, got %d", server.requests)
		}
	})

	t.Run("Failed Fetch Leaves State Intact", func(t *testing.T) {
		server := newPageServer(t, 100)
		pager := server.pager(50)

		first, err := pager.Next(ctx)
		if err != nil {
			t.Fatalf("expected fetch to succeed, got %v", err)
		}

		server.failNext = true
		if _, err := pager.Next(ctx); err == nil {
			t.Fatal("expected the failed fetch to error")
		}
		if pager.Position() != 1 {
			t.Errorf("expected position unchanged after failure, got %d", pager.Position())
		}

		// The same traversal is retryable.
		retried, err := pager.Next(ctx)
		if err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
		if retried.Offset != first.Offset+50 {
			t.Errorf("expected the retry to fetch the same next page, got offset %d", retried.Offset)
		}
		if pager.Position() != 2 {
			t.Errorf("expected position 2 after retry, got %d", pager.Position())
		}
	})
}
