// Package client 管理端客户端：课时镜像、教授目录与排课生成控制器
//
// 所有写操作都需要 Capability；远端调用各自带超时；
// 同一控件的重复提交返回 ErrBusy；切换教授后到达的旧响应被丢弃。
package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthorized 未持有有效能力凭证，请求不会发出
	ErrNotAuthorized = errors.New("需要管理员凭证")
	// ErrBusy 同一操作仍在进行中
	ErrBusy = errors.New("操作进行中，请勿重复提交")
	// ErrStaleResponse 响应所属的教授选择已被替换，结果被丢弃
	ErrStaleResponse = errors.New("响应已过期")
	// ErrUnknownSlot 本地镜像中不存在该课时
	ErrUnknownSlot = errors.New("本地未加载该课时")
)

// TransportError 网络层失败（连接失败、超时、响应无法解析）
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s 请求失败: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError 服务端返回的业务错误
type APIError struct {
	Op      string
	Status  int
	Code    int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s 失败 (HTTP %d, code %d): %s (%s)", e.Op, e.Status, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s 失败 (HTTP %d, code %d): %s", e.Op, e.Status, e.Code, e.Message)
}

// 删除教授的两个步骤
const (
	StepDeleteSlots     = "delete_slots"
	StepDeleteProfessor = "delete_professor"
)

// PartialFailureError 两步删除中后一步失败，前一步不回滚
type PartialFailureError struct {
	Step         string
	SlotsDeleted bool
	Err          error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("删除教授部分失败（步骤 %s，课时已删除=%t）: %v", e.Step, e.SlotsDeleted, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }
