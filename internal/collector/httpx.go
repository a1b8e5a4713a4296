package collector

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	maxJSONBytes = 1 << 20 // 1MB
	maxTextBytes = 2 << 20 // 2MB，防止超大响应拖垮进程
)

const defaultUserAgent = "TrendTruthHackathon/1.2 (by u/public-trend-app)"

// safeGetJSON 抓取并解析 JSON。任何传输或解析失败都只返回 false，
// 采集器据此跳过该请求继续工作，绝不向上抛错
func safeGetJSON(rawURL string, params url.Values, headers map[string]string, timeout time.Duration, out any) bool {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONBytes)).Decode(out); err != nil {
		return false
	}
	return true
}

// safeGetText 抓取文本（RSS/HTML），失败时返回空字符串
func safeGetText(rawURL string, timeout time.Duration) string {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTextBytes))
	if err != nil {
		return ""
	}
	return string(body)
}
