package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
)

var echoRemote = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(clientIP(r)))
})

func TestTrustedRealIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.1.0.0/16")}

	tests := []struct {
		name    string
		trusted []netip.Prefix
		remote  string
		xff     []string
		want    string
	}{
		{"no proxies configured ignores header", nil, "10.0.0.9:4000", []string{"1.1.1.1"}, "10.0.0.9"},
		{"untrusted peer ignores header", proxies, "10.0.0.9:4000", []string{"1.1.1.1"}, "10.0.0.9"},
		{"trusted peer uses last hop", proxies, "10.1.2.3:4000", []string{"1.1.1.1, 2.2.2.2"}, "2.2.2.2"},
		{"skips trusted hops", proxies, "10.1.2.3:4000", []string{"2.2.2.2, 10.1.9.9"}, "2.2.2.2"},
		{"joins repeated headers", proxies, "10.1.2.3:4000", []string{"1.1.1.1", "3.3.3.3"}, "3.3.3.3"},
		{"garbage hop keeps peer", proxies, "10.1.2.3:4000", []string{"not-an-ip"}, "10.1.2.3"},
		{"trusted peer without header", proxies, "10.1.2.3:4000", nil, "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			rec := httptest.NewRecorder()
			TrustedRealIP(tt.trusted)(echoRemote).ServeHTTP(rec, req)
			if got := rec.Body.String(); got != tt.want {
				t.Fatalf("client ip = %q, want %q", got, tt.want)
			}
		})
	}
}
