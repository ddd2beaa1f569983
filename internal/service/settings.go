package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/docuassist/backend/config"
	"github.com/docuassist/backend/internal/model"
	"github.com/docuassist/backend/internal/pkg/ollama"
	"github.com/docuassist/backend/internal/repository"
)

// ToolCapableModels 已知支持原生 tool calling 的模型
var ToolCapableModels = []string{
	"llama3.1:8b",
	"llama3.1:70b",
	"llama3.2:1b",
	"llama3.2:3b",
	"llama3.3:70b",
	"qwen2.5:7b",
	"qwen2.5:14b",
	"qwen2.5:32b",
	"qwen2.5:72b",
	"qwen2.5-coder:7b",
	"mistral:7b",
	"mistral-nemo:12b",
	"mixtral:8x7b",
	"mixtral:8x22b",
	"command-r:35b",
	"command-r-plus:104b",
	"hermes3:8b",
	"hermes3:70b",
	"athene-v2:72b",
	"nemotron:70b",
	"granite3-dense:8b",
}

const (
	tagsTimeout          = 5 * time.Second
	smokeHelloTimeout    = 30 * time.Second
	smokeHelloNumPredict = 10
)

// SettingsUpdate 设置的部分更新，空字段不改动
type SettingsUpdate struct {
	BaseURL        *string  `json:"base_url"`
	ModelName      *string  `json:"model_name"`
	UseToolCalling *bool    `json:"use_tool_calling"`
	SystemPrompt   *string  `json:"system_prompt"`
	Temperature    *float64 `json:"temperature"`
	TopP           *float64 `json:"top_p"`
	TopK           *int     `json:"top_k"`
	NumCtx         *int     `json:"num_ctx"`
	RepeatPenalty  *float64 `json:"repeat_penalty"`
}

// ConnectionTestResult 模型服务连通性检查结果
type ConnectionTestResult struct {
	Status        string             `json:"status"`
	Models        []ollama.ModelInfo `json:"models"`
	ModelFound    bool               `json:"model_found"`
	ModelTest     string             `json:"model_test,omitempty"`
	SupportsTools bool               `json:"supports_tools"`
}

// SettingsService 模型设置服务
// 设置按需从库里读取，修改对下一条消息立即生效
type SettingsService struct {
	repo          repository.SettingsRepository
	defaults      *model.LLMSettings
	clientFactory func(baseURL string) ModelClient
}

// NewSettingsService 创建服务实例
func NewSettingsService(repo repository.SettingsRepository, cfg *config.Config) *SettingsService {
	return &SettingsService{
		repo:          repo,
		defaults:      model.DefaultLLMSettings(cfg.Ollama.BaseURL, cfg.Ollama.Model),
		clientFactory: defaultClientFactory,
	}
}

// Load 读取当前设置，库里没有或读取失败时回落到默认值
func (s *SettingsService) Load() *model.LLMSettings {
	settings, err := s.repo.Load()
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			klog.V(6).Infof("读取模型设置失败，使用默认值: %v", err)
		}
		defaults := *s.defaults
		return &defaults
	}
	return settings
}

// Update 部分更新设置并落库
func (s *SettingsService) Update(update SettingsUpdate) (*model.LLMSettings, error) {
	settings := s.Load()

	if update.BaseURL != nil {
		settings.BaseURL = *update.BaseURL
	}
	if update.ModelName != nil {
		settings.ModelName = *update.ModelName
	}
	if update.UseToolCalling != nil {
		settings.UseToolCalling = *update.UseToolCalling
	}
	if update.SystemPrompt != nil {
		settings.SystemPrompt = *update.SystemPrompt
	}
	if update.Temperature != nil {
		settings.Temperature = *update.Temperature
	}
	if update.TopP != nil {
		settings.TopP = *update.TopP
	}
	if update.TopK != nil {
		settings.TopK = *update.TopK
	}
	if update.NumCtx != nil {
		settings.NumCtx = *update.NumCtx
	}
	if update.RepeatPenalty != nil {
		settings.RepeatPenalty = *update.RepeatPenalty
	}

	if err := s.repo.Save(settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}

// TestConnection 检查模型服务可达性、模型是否安装及工具调用能力
func (s *SettingsService) TestConnection(ctx context.Context, candidate *model.LLMSettings) (*ConnectionTestResult, error) {
	client := s.clientFactory(candidate.BaseURL)

	tagsCtx, cancel := context.WithTimeout(ctx, tagsTimeout)
	defer cancel()

	tags, err := client.Tags(tagsCtx)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}

	modelFound := false
	for _, m := range tags.Models {
		if strings.Contains(m.Name, candidate.ModelName) {
			modelFound = true
			break
		}
	}

	supportsTools := false
	for _, tc := range ToolCapableModels {
		if strings.Contains(candidate.ModelName, tc) || strings.Contains(tc, candidate.ModelName) {
			supportsTools = true
			break
		}
	}

	result := &ConnectionTestResult{
		Status:        "ok",
		Models:        tags.Models,
		ModelFound:    modelFound,
		SupportsTools: supportsTools,
	}

	// 模型已安装时再做一次小规模生成冒烟
	if modelFound {
		genCtx, cancel := context.WithTimeout(ctx, smokeHelloTimeout)
		defer cancel()

		opts := settingsOptions(candidate)
		opts.NumPredict = smokeHelloNumPredict
		_, err := client.Generate(genCtx, ollama.GenerateRequest{
			Model:   candidate.ModelName,
			Prompt:  "Say 'OK' if you are working.",
			Options: opts,
		})
		if err != nil {
			result.ModelTest = fmt.Sprintf("Model test failed: %v", err)
		} else {
			result.ModelTest = "Model responded successfully"
		}
	}

	return result, nil
}

// settingsOptions 将设置映射为请求采样参数
func settingsOptions(settings *model.LLMSettings) ollama.Options {
	return ollama.Options{
		Temperature:   settings.Temperature,
		TopP:          settings.TopP,
		TopK:          settings.TopK,
		NumCtx:        settings.NumCtx,
		RepeatPenalty: settings.RepeatPenalty,
	}
}
