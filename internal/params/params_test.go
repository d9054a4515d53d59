package params

import (
	"net/url"
	"testing"
)

func TestParsePaginationDefaults(t *testing.T) {
	p := ParsePagination(url.Values{})
	if p.Limit != 15 || p.Page != 1 || p.Offset != 0 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestParsePaginationClampsAndOffsets(t *testing.T) {
	cases := []struct {
		query  string
		limit  int
		page   int
		offset int
	}{
		{"limit=30&page=2", 30, 2, 30},
		{"limit=500", 50, 1, 0},
		{"limit=-3", 15, 1, 0},
		{"limit=abc&page=xyz", 15, 1, 0},
		{"page=0", 15, 1, 0},
		{"limit=10&page=4", 10, 4, 30},
	}

	for _, tc := range cases {
		q, err := url.ParseQuery(tc.query)
		if err != nil {
			t.Fatalf("bad test query %q: %v", tc.query, err)
		}
		p := ParsePagination(q)
		if p.Limit != tc.limit || p.Page != tc.page || p.Offset != tc.offset {
			t.Fatalf("%q: got limit=%d page=%d offset=%d, want limit=%d page=%d offset=%d",
				tc.query, p.Limit, p.Page, p.Offset, tc.limit, tc.page, tc.offset)
		}
	}
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Limit: 10, Page: 2, Offset: 10}
	p.ComputeMeta(35)

	if p.Total != 35 {
		t.Fatalf("Total = %d, want 35", p.Total)
	}
	if p.TotalPages != 4 {
		t.Fatalf("TotalPages = %d, want 4", p.TotalPages)
	}
	if !p.HasPrev || !p.HasNext {
		t.Fatalf("expected HasPrev and HasNext on page 2 of 4: %+v", p)
	}

	last := Pagination{Limit: 10, Page: 4}
	last.ComputeMeta(35)
	if last.HasNext {
		t.Fatal("last page must not report HasNext")
	}
	if !last.HasPrev {
		t.Fatal("last page must report HasPrev")
	}

	empty := Pagination{Limit: 10, Page: 1}
	empty.ComputeMeta(0)
	if empty.TotalPages != 0 || empty.HasNext || empty.HasPrev {
		t.Fatalf("unexpected meta for empty result: %+v", empty)
	}
}
