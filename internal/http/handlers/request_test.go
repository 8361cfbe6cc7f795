package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestQueryIntClamps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 10, false},
		{"?n=0", 1, false},
		{"?n=7", 7, false},
		{"?n=500", 20, false},
		{"?n=abc", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/x"+tc.query, nil)
			got, err := queryInt(c, "n", 10, 1, 20)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err: got=%v wantErr=%v", err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Fatalf("value: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestClampDegenerateRange(t *testing.T) {
	if got := clamp(5, 3, 1); got != 3 {
		t.Fatalf("clamp: got=%d want=3", got)
	}
}
