package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/docuassist/backend/internal/model"
	"github.com/docuassist/backend/internal/pkg/ollama"
	"github.com/docuassist/backend/internal/repository"
	"github.com/docuassist/backend/internal/service/placeholder"
	"github.com/docuassist/backend/internal/service/statemachine"
)

const (
	// 对话回合可能串多次工具调用，给到分钟级超时
	chatTurnTimeout = 3 * time.Minute

	previewLimit = 500

	resetReply    = "🔄 Conversation reset. How can I help you create a document today?"
	fallbackReply = "I'm here to help you create documents. What would you like to create?"
)

// ModelClient 模型端点的最小接口，测试时可替换
type ModelClient interface {
	Chat(ctx context.Context, req ollama.ChatRequest) (*ollama.ChatResponse, error)
	Generate(ctx context.Context, req ollama.GenerateRequest) (string, error)
	Tags(ctx context.Context) (*ollama.TagsResponse, error)
}

func defaultClientFactory(baseURL string) ModelClient {
	return ollama.NewClient(baseURL)
}

// ChatResult 单轮对话的处理结果
type ChatResult struct {
	Reply             string                         `json:"reply"`
	TemplateID        string                         `json:"template_id,omitempty"`
	State             statemachine.ConversationState `json:"state"`
	PendingFields     []string                       `json:"pending_fields"`
	CollectedValues   map[string]any                 `json:"collected_values"`
	GeneratedDocument string                         `json:"generated_document,omitempty"`
	DocumentTitle     string                         `json:"document_title,omitempty"`
	DocumentSaved     bool                           `json:"document_saved"`
	SavedDocumentID   string                         `json:"saved_document_id,omitempty"`
}

// ChatService 对话编排器
// 按设置在原生 tool calling 与结构化 prompt 两种模式间切换，
// 两条路径最终都走同一个 generate_document 处理器
type ChatService struct {
	templateRepo  repository.TemplateRepository
	documentRepo  repository.DocumentRepository
	settings      *SettingsService
	sessions      *SessionStore
	stateMachine  *statemachine.ConversationStateMachine
	clientFactory func(baseURL string) ModelClient
}

// NewChatService 创建对话编排器
func NewChatService(templateRepo repository.TemplateRepository, documentRepo repository.DocumentRepository, settings *SettingsService) *ChatService {
	return &ChatService{
		templateRepo:  templateRepo,
		documentRepo:  documentRepo,
		settings:      settings,
		sessions:      NewSessionStore(),
		stateMachine:  statemachine.NewConversationStateMachine(),
		clientFactory: defaultClientFactory,
	}
}

// ProcessMessage 处理一条入站消息
// 核心没有致命错误：任何失败都降级为一条对话式回复
func (s *ChatService) ProcessMessage(ctx context.Context, sessionID, message string) *ChatResult {
	// 每条消息都重新读设置，修改即时生效
	settings := s.settings.Load()

	if isResetCommand(message) {
		sess := s.sessions.Reset(sessionID)
		sess.State = s.stateMachine.Reset(sessionID)
		return &ChatResult{
			Reply:           resetReply,
			State:           statemachine.StateIdle,
			PendingFields:   []string{},
			CollectedValues: map[string]any{},
		}
	}

	if settings.UseToolCalling {
		return s.processWithTools(ctx, sessionID, message, settings)
	}
	return s.processWithPrompt(ctx, sessionID, message, settings)
}

// processWithTools 原生 tool calling 模式
func (s *ChatService) processWithTools(ctx context.Context, sessionID, message string, settings *model.LLMSettings) *ChatResult {
	sess := s.sessions.GetOrCreate(sessionID)
	systemPrompt := s.buildToolSystemPrompt(settings.SystemPrompt)

	// 本回合的用户消息先放在候选历史里，端点调用成功后才提交
	pending := append(append([]ollama.ChatMessage{}, sess.Messages...),
		ollama.ChatMessage{Role: "user", Content: message})

	client := s.clientFactory(settings.BaseURL)
	chatCtx, cancel := context.WithTimeout(ctx, chatTurnTimeout)
	defer cancel()

	resp, err := client.Chat(chatCtx, ollama.ChatRequest{
		Model:    settings.ModelName,
		Messages: withSystem(systemPrompt, pending),
		Tools:    documentTools(),
		Options:  settingsOptions(settings),
	})
	if err != nil {
		// 失败回合不写入历史，会话可继续
		return s.errorResult(sess, err)
	}

	sess.Messages = pending

	assistant := resp.Message
	reply := assistant.Content

	if len(assistant.ToolCalls) > 0 {
		var results []executedTool

		for _, call := range assistant.ToolCalls {
			result, saved := s.executeToolCall(sess, call)
			results = append(results, executedTool{Tool: call.Function.Name, Result: result})

			if saved != nil {
				// 文档已生成：同批剩余调用忽略，不再发起后续模型调用
				finalReply := fmt.Sprintf("✅ **Document Created!**\n\n%s\n\nYour document has been saved to the Documents section.", result["message"])
				sess.Messages = append(sess.Messages, ollama.ChatMessage{Role: "assistant", Content: finalReply})
				return s.savedResult(sess, saved, finalReply)
			}
		}

		// 工具结果写回历史，再取一次自然语言续写
		sess.Messages = append(sess.Messages,
			ollama.ChatMessage{Role: "assistant", Content: reply, ToolCalls: assistant.ToolCalls},
			ollama.ChatMessage{Role: "tool", Content: renderToolResults(results)})

		followCtx, cancel := context.WithTimeout(ctx, chatTurnTimeout)
		defer cancel()

		follow, err := client.Chat(followCtx, ollama.ChatRequest{
			Model:    settings.ModelName,
			Messages: withSystem(systemPrompt, sess.Messages),
			Tools:    documentTools(),
			Options:  settingsOptions(settings),
		})
		if err != nil {
			// 续写失败就沿用工具调用前的回复文本
			klog.V(6).Infof("工具续写调用失败: session=%s err=%v", sessionID, err)
		} else if follow.Message.Content != "" {
			reply = follow.Message.Content
			sess.Messages = append(sess.Messages, ollama.ChatMessage{Role: "assistant", Content: reply})
		}
	} else {
		sess.Messages = append(sess.Messages, ollama.ChatMessage{Role: "assistant", Content: reply})
	}

	if reply == "" {
		reply = fallbackReply
	}
	return s.conversingResult(sess, reply)
}

// processWithPrompt 结构化 prompt 模式，面向不支持 tool calling 的模型
func (s *ChatService) processWithPrompt(ctx context.Context, sessionID, message string, settings *model.LLMSettings) *ChatResult {
	sess := s.sessions.GetOrCreate(sessionID)

	pending := append(append([]ollama.ChatMessage{}, sess.Messages...),
		ollama.ChatMessage{Role: "user", Content: message})

	prompt := s.buildGeneratePrompt(settings.SystemPrompt, pending, message)

	client := s.clientFactory(settings.BaseURL)
	genCtx, cancel := context.WithTimeout(ctx, chatTurnTimeout)
	defer cancel()

	reply, err := client.Generate(genCtx, ollama.GenerateRequest{
		Model:   settings.ModelName,
		Prompt:  prompt,
		Options: settingsOptions(settings),
	})
	if err != nil {
		return s.errorResult(sess, err)
	}

	sess.Messages = pending

	// 回复里带生成指令时执行，任何解析或执行失败都吞掉，按普通回复处理
	if strings.Contains(reply, "```json") && strings.Contains(reply, `"action": "generate_document"`) {
		if action, ok := parseActionBlock(reply); ok && action.Action == "generate_document" {
			saved, resultMsg, ok := s.generateDocument(sess, generateDocumentArgs{
				TemplateID: action.TemplateID,
				Title:      action.Title,
				Values:     action.Values,
			})
			if ok {
				clean := strings.TrimSpace(reply[:strings.Index(reply, "```json")])
				finalReply := fmt.Sprintf("%s\n\n✅ **Document Created!**\n\n%s\n\nYour document has been saved to the Documents section.", clean, resultMsg)
				sess.Messages = append(sess.Messages, ollama.ChatMessage{Role: "assistant", Content: finalReply})
				return s.savedResult(sess, saved, finalReply)
			}
		}
	}

	sess.Messages = append(sess.Messages, ollama.ChatMessage{Role: "assistant", Content: reply})
	return s.conversingResult(sess, reply)
}

// executedTool 一次工具调用及其序列化结果
type executedTool struct {
	Tool   string
	Result map[string]any
}

// executeToolCall 分发单个工具调用
// 第二个返回值非空表示本次调用成功生成并保存了文档
func (s *ChatService) executeToolCall(sess *ChatSession, call ollama.ToolCall) (map[string]any, *model.Document) {
	args, err := parseToolArgs(call.Function.Name, call.Function.RawArguments())
	if err != nil {
		// 按空参数恢复，错误只记日志
		klog.V(6).Infof("工具参数解析失败: tool=%s err=%v", call.Function.Name, err)
	}

	switch a := args.(type) {
	case listTemplatesArgs:
		templates, err := s.templateRepo.ListActive()
		if err != nil {
			return map[string]any{"error": "failed to list templates"}, nil
		}
		items := make([]map[string]any, 0, len(templates))
		for _, t := range templates {
			items = append(items, map[string]any{
				"id":          t.ID,
				"name":        t.Name,
				"description": t.Description,
			})
		}
		return map[string]any{"templates": items}, nil

	case selectTemplateArgs:
		tpl, err := s.templateRepo.Get(a.TemplateID)
		if err != nil {
			return map[string]any{"success": false, "error": "Template not found"}, nil
		}
		sess.SelectedTemplateID = tpl.ID
		return map[string]any{
			"success": true,
			"template": map[string]any{
				"id":          tpl.ID,
				"name":        tpl.Name,
				"description": tpl.Description,
			},
		}, nil

	case getTemplateFieldsArgs:
		tpl, err := s.templateRepo.Get(a.TemplateID)
		if err != nil {
			return map[string]any{"error": "Template not found"}, nil
		}
		content := placeholder.Flatten(tpl.Content)
		fields := placeholder.Extract(content)

		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		// 按字符截断，多字节内容不能切在半个字符上
		preview := content
		if runes := []rune(content); len(runes) > previewLimit {
			preview = string(runes[:previewLimit]) + "..."
		}
		return map[string]any{
			"template_id":        tpl.ID,
			"template_name":      tpl.Name,
			"fields":             names,
			"field_descriptions": fields,
			"template_preview":   preview,
		}, nil

	case generateDocumentArgs:
		doc, msg, ok := s.generateDocument(sess, a)
		if !ok {
			return map[string]any{"success": false, "error": "Template not found"}, nil
		}
		return map[string]any{
			"success":     true,
			"document_id": doc.ID,
			"title":       doc.Title,
			"content":     doc.Content,
			"message":     msg,
		}, doc

	default:
		return map[string]any{"error": fmt.Sprintf("Unknown tool: %s", call.Function.Name)}, nil
	}
}

// generateDocument 展平并填充模板、持久化文档、更新会话
// 两种对话模式共用的生成副作用
func (s *ChatService) generateDocument(sess *ChatSession, args generateDocumentArgs) (*model.Document, string, bool) {
	tpl, err := s.templateRepo.Get(args.TemplateID)
	if err != nil {
		return nil, "", false
	}

	title := args.Title
	if title == "" {
		title = "Untitled Document"
	}
	values := args.Values
	if values == nil {
		values = map[string]any{}
	}

	content := placeholder.Fill(placeholder.Flatten(tpl.Content), values)

	doc := &model.Document{
		ID:           uuid.NewString(),
		Title:        title,
		Content:      content,
		TemplateID:   tpl.ID,
		TemplateName: tpl.Name,
		FilledValues: model.JSONMap(values),
	}
	if err := s.documentRepo.Create(doc); err != nil {
		klog.V(6).Infof("文档保存失败: template=%s err=%v", tpl.ID, err)
		return nil, "", false
	}

	sess.GeneratedDocument = content
	sess.DocumentTitle = title
	sess.CollectedValues = values

	msg := fmt.Sprintf("Document '%s' has been created using the '%s' template.", title, tpl.Name)
	return doc, msg, true
}

// buildToolSystemPrompt 组装 tool calling 模式的系统提示
func (s *ChatService) buildToolSystemPrompt(base string) string {
	return fmt.Sprintf(`%s

AVAILABLE TEMPLATES:
%s

INSTRUCTIONS:
1. When user wants to create a document, first call list_templates or directly select_template if you know which one fits
2. After selecting, call get_template_fields to see what information is needed
3. Ask the user for ALL required information through conversation
4. Only call generate_document when you have collected ALL required values from the user
5. Be conversational and helpful - confirm information and ask clarifying questions

IMPORTANT: Do not make up information. Always ask the user for required values.`, base, s.templateListing())
}

// buildGeneratePrompt 组装结构化 prompt 模式的单条 prompt
func (s *ChatService) buildGeneratePrompt(base string, history []ollama.ChatMessage, message string) string {
	listing := s.templateListing()

	// 启发式匹配到的模板作为提示写进 prompt，减少模型自由发挥
	if templates, err := s.templateRepo.ListActive(); err == nil {
		if match := placeholder.Match(message, templates); match != nil {
			listing += fmt.Sprintf("\n\nLIKELY TEMPLATE: %s (ID: %s)", match.Name, match.ID)
		}
	}

	return fmt.Sprintf(`%s

AVAILABLE TEMPLATES:
%s

CONVERSATION HISTORY:
%s

INSTRUCTIONS:
You are helping the user create a document. Based on the conversation:
1. If user wants to create a document, identify the best matching template
2. Ask for required information conversationally
3. When you have ALL required information, output a JSON block to generate the document

To generate a document, include this JSON block in your response:
`+"```json"+`
{"action": "generate_document", "template_id": "...", "title": "...", "values": {"field1": "value1", ...}}
`+"```"+`

Current user message: %s

Respond naturally. If you need more information, ask for it. Only include the JSON block when you have everything needed.`,
		base, listing, renderHistory(history, 10), message)
}

// templateListing 激活模板的文字清单
func (s *ChatService) templateListing() string {
	templates, err := s.templateRepo.ListActive()
	if err != nil {
		klog.V(6).Infof("读取模板清单失败: %v", err)
		return ""
	}

	lines := make([]string, 0, len(templates))
	for _, t := range templates {
		desc := t.Description
		if desc == "" {
			desc = "No description"
		}
		lines = append(lines, fmt.Sprintf("- %s (ID: %s): %s", t.Name, t.ID, desc))
	}
	return strings.Join(lines, "\n")
}

// renderHistory 最近 limit 条历史渲染为 User:/Assistant: 行
func renderHistory(history []ollama.ChatMessage, limit int) string {
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		role := "Assistant"
		if m.Role == "user" {
			role = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, m.Content))
	}
	return strings.Join(lines, "\n")
}

// renderToolResults 工具结果序列化为历史文本
func renderToolResults(results []executedTool) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		payload, err := json.Marshal(r.Result)
		if err != nil {
			payload = []byte("{}")
		}
		lines = append(lines, fmt.Sprintf("Tool '%s' returned: %s", r.Tool, payload))
	}
	return strings.Join(lines, "\n")
}

// generateAction 结构化 prompt 模式下模型输出的生成指令
type generateAction struct {
	Action     string         `json:"action"`
	TemplateID string         `json:"template_id"`
	Title      string         `json:"title"`
	Values     map[string]any `json:"values"`
}

// parseActionBlock 提取回复里第一个 ```json 围栏并解析
func parseActionBlock(reply string) (*generateAction, bool) {
	start := strings.Index(reply, "```json")
	if start < 0 {
		return nil, false
	}
	start += len("```json")

	end := strings.Index(reply[start:], "```")
	if end < 0 {
		return nil, false
	}

	blob := strings.TrimSpace(reply[start : start+end])
	var action generateAction
	if err := json.Unmarshal([]byte(blob), &action); err != nil {
		return nil, false
	}
	return &action, true
}

func withSystem(systemPrompt string, messages []ollama.ChatMessage) []ollama.ChatMessage {
	out := make([]ollama.ChatMessage, 0, len(messages)+1)
	out = append(out, ollama.ChatMessage{Role: "system", Content: systemPrompt})
	return append(out, messages...)
}

// errorResult 端点失败的回合结果，历史保持原样
func (s *ChatService) errorResult(sess *ChatSession, err error) *ChatResult {
	s.recordState(sess, statemachine.StateError)
	return &ChatResult{
		Reply:           fmt.Sprintf("Error: %v", err),
		TemplateID:      sess.SelectedTemplateID,
		State:           statemachine.StateError,
		PendingFields:   []string{},
		CollectedValues: sess.CollectedValues,
	}
}

// conversingResult 普通对话回合结果
func (s *ChatService) conversingResult(sess *ChatSession, reply string) *ChatResult {
	s.recordState(sess, statemachine.StateConversing)
	return &ChatResult{
		Reply:           reply,
		TemplateID:      sess.SelectedTemplateID,
		State:           statemachine.StateConversing,
		PendingFields:   []string{},
		CollectedValues: sess.CollectedValues,
	}
}

// savedResult 文档保存成功的回合结果
func (s *ChatService) savedResult(sess *ChatSession, doc *model.Document, reply string) *ChatResult {
	s.recordState(sess, statemachine.StateDocumentSaved)
	return &ChatResult{
		Reply:             reply,
		TemplateID:        doc.TemplateID,
		State:             statemachine.StateDocumentSaved,
		PendingFields:     []string{},
		CollectedValues:   map[string]any(doc.FilledValues),
		GeneratedDocument: doc.Content,
		DocumentTitle:     doc.Title,
		DocumentSaved:     true,
		SavedDocumentID:   doc.ID,
	}
}

func (s *ChatService) recordState(sess *ChatSession, to statemachine.ConversationState) {
	if err := s.stateMachine.Transition(sess.State, to, sess.ID); err == nil {
		sess.State = to
	}
}
