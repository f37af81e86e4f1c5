package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteAddrExtractor(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
		wantErr    bool
	}{
		{"192.168.1.1:54321", "192.168.1.1", false},
		{"[2001:db8::1]:8080", "2001:db8::1", false},
		{"127.0.0.1", "127.0.0.1", false},
		{"not-an-address", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.remoteAddr, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr

			got, err := RemoteAddrExtractor{}.ExtractIP(req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.1 ", "", "2001:db8::/32", "10.1.2.3/8"})
	require.NoError(t, err)
	require.Len(t, prefixes, 4)
	assert.Equal(t, "192.168.1.1/32", prefixes[1].String())
	assert.Equal(t, "10.0.0.0/8", prefixes[3].String(), "host bits should be masked")

	_, err = ParseTrustedProxies([]string{"proxy.local"})
	assert.Error(t, err)
}

func TestTrustedProxyExtractor(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	extractor := NewTrustedProxyExtractor(proxies)

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "trusted proxy uses first forwarded address",
			remoteAddr: "10.0.0.5:443",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.9"},
			want:       "203.0.113.7",
		},
		{
			name:       "trusted proxy falls back to X-Real-IP",
			remoteAddr: "10.0.0.5:443",
			headers:    map[string]string{"X-Real-IP": "203.0.113.8"},
			want:       "203.0.113.8",
		},
		{
			name:       "trusted proxy with garbage headers uses peer",
			remoteAddr: "10.0.0.5:443",
			headers:    map[string]string{"X-Forwarded-For": "garbage"},
			want:       "10.0.0.5",
		},
		{
			name:       "untrusted peer cannot spoof",
			remoteAddr: "198.51.100.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:       "198.51.100.1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			got, err := extractor.ExtractIP(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewIPExtractorFromEnv(t *testing.T) {
	t.Run("unset uses remote address", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "")
		extractor, err := NewIPExtractorFromEnv()
		require.NoError(t, err)
		assert.IsType(t, RemoteAddrExtractor{}, extractor)
	})

	t.Run("set uses trusted proxies", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,172.16.0.0/12")
		extractor, err := NewIPExtractorFromEnv()
		require.NoError(t, err)
		assert.IsType(t, &TrustedProxyExtractor{}, extractor)
	})

	t.Run("invalid entry", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,nope")
		_, err := NewIPExtractorFromEnv()
		assert.ErrorContains(t, err, "TRUSTED_PROXIES")
	})
}
