package statemachine

import (
	"fmt"

	"k8s.io/klog/v2"
)

// ConversationState 定义对话回合的所有可能结果状态
type ConversationState string

const (
	StateIdle          ConversationState = "idle"           // 无进行中的建档流程
	StateConversing    ConversationState = "conversing"     // 正在对话收集信息
	StateDocumentSaved ConversationState = "document_saved" // 本回合生成并保存了文档
	StateError         ConversationState = "error"          // 模型端点传输失败，会话本身未损坏
)

// ConversationStateMachine 对话状态机
type ConversationStateMachine struct {
	// 定义所有合法的状态迁移
	allowedTransitions map[ConversationTransition]bool
}

// ConversationTransition 定义对话状态迁移
type ConversationTransition struct {
	From ConversationState
	To   ConversationState
}

// NewConversationStateMachine 创建新的对话状态机
func NewConversationStateMachine() *ConversationStateMachine {
	sm := &ConversationStateMachine{
		allowedTransitions: make(map[ConversationTransition]bool),
	}

	// 回合结束时的合法迁移
	// 回到 idle 只能通过 Reset，不在迁移表内
	froms := []ConversationState{StateIdle, StateConversing, StateDocumentSaved, StateError}
	for _, from := range froms {
		// 任何状态都可能进入下一轮对话
		sm.allowedTransitions[ConversationTransition{from, StateConversing}] = true
		// 任何状态下的回合都可能完成文档生成
		sm.allowedTransitions[ConversationTransition{from, StateDocumentSaved}] = true
		// 任何状态下都可能遇到端点故障
		sm.allowedTransitions[ConversationTransition{from, StateError}] = true
	}

	return sm
}

// CanTransition 检查状态迁移是否合法
func (sm *ConversationStateMachine) CanTransition(from, to ConversationState) bool {
	return sm.allowedTransitions[ConversationTransition{From: from, To: to}]
}

// ValidateTransition 验证状态迁移并返回错误
func (sm *ConversationStateMachine) ValidateTransition(from, to ConversationState) error {
	if !sm.CanTransition(from, to) {
		return &InvalidConversationStateTransitionError{
			From: string(from),
			To:   string(to),
		}
	}
	return nil
}

// Transition 执行状态迁移（带日志）
func (sm *ConversationStateMachine) Transition(from, to ConversationState, sessionID string) error {
	if err := sm.ValidateTransition(from, to); err != nil {
		klog.V(6).Infof("会话状态迁移被拒绝: session=%s, %s -> %s, error=%v",
			sessionID, from, to, err)
		return err
	}

	klog.V(6).Infof("会话状态迁移: session=%s, %s -> %s", sessionID, from, to)
	return nil
}

// Reset 重置命令从任意状态强制回到 idle
func (sm *ConversationStateMachine) Reset(sessionID string) ConversationState {
	klog.V(6).Infof("会话重置: session=%s", sessionID)
	return StateIdle
}

// InvalidConversationStateTransitionError 无效的对话状态迁移错误
type InvalidConversationStateTransitionError struct {
	From string
	To   string
}

func (e *InvalidConversationStateTransitionError) Error() string {
	return fmt.Sprintf("invalid conversation state transition: %s -> %s", e.From, e.To)
}
