package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"k8s.io/klog/v2"
)

// Client Ollama HTTP 客户端
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient 创建新的 Ollama 客户端
// 单次请求的超时由调用方通过 ctx 控制，这里只设兜底上限
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Chat 发送对话请求，可携带工具列表
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	klog.V(6).Infof("Chat 请求: model=%s, messages=%d, tools=%d", req.Model, len(req.Messages), len(req.Tools))
	req.Stream = false

	body, err := c.post(ctx, "/api/chat", req)
	if err != nil {
		return nil, err
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &chatResp, nil
}

// Generate 发送单条 prompt 的补全请求
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	klog.V(6).Infof("Generate 请求: model=%s, prompt=%d 字节", req.Model, len(req.Prompt))
	req.Stream = false

	body, err := c.post(ctx, "/api/generate", req)
	if err != nil {
		return "", err
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return genResp.Response, nil
}

// Tags 列出已安装的模型
func (c *Client) Tags(ctx context.Context) (*TagsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var tags TagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &tags, nil
}

// post 发送 HTTP 请求到 Ollama API
func (c *Client) post(ctx context.Context, path string, reqBody any) ([]byte, error) {
	url := c.BaseURL + path
	klog.V(6).Infof("发送 Ollama 请求: url=%s", url)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
