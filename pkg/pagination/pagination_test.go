package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func parseQuery(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 20, wantOffset: 0},
		{name: "explicit", query: "page=3&limit=10", wantPage: 3, wantLimit: 10, wantOffset: 20},
		{name: "size alias", query: "page=2&size=5", wantPage: 2, wantLimit: 5, wantOffset: 5},
		{name: "limit wins over size", query: "limit=10&size=50", wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "negative page", query: "page=-1", wantPage: 1, wantLimit: 20, wantOffset: 0},
		{name: "zero limit", query: "limit=0", wantPage: 1, wantLimit: 20, wantOffset: 0},
		{name: "limit capped", query: "limit=1000", wantPage: 1, wantLimit: 100, wantOffset: 0},
		{name: "garbage", query: "page=abc&limit=xyz", wantPage: 1, wantLimit: 20, wantOffset: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseQuery(t, tc.query)
			if got.Page != tc.wantPage || got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
				t.Fatalf("Parse(%q) = %+v, want page=%d limit=%d offset=%d",
					tc.query, got, tc.wantPage, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}
